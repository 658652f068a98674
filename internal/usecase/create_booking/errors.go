package create_booking

import "errors"

var (
	// ErrVenueNotFound возвращается, когда площадка не найдена
	ErrVenueNotFound = errors.New("create_booking: venue not found")

	// ErrVenueInactive возвращается, когда площадка закрыта для бронирования
	ErrVenueInactive = errors.New("create_booking: venue is not available for booking")

	// ErrInvalidInterval возвращается при некорректном интервале (формат времени, начало после конца)
	ErrInvalidInterval = errors.New("create_booking: invalid time interval")

	// ErrOverlappingIntervals возвращается, когда интервалы одной заявки пересекаются между собой
	ErrOverlappingIntervals = errors.New("create_booking: day intervals overlap each other")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
