package approve_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда заявка не найдена
	ErrBookingNotFound = errors.New("approve_booking: booking request not found")

	// ErrNotPending возвращается, когда заявка уже не ожидает рассмотрения
	ErrNotPending = errors.New("approve_booking: booking request is not pending")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("approve_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("approve_booking: internal error")
)
