package get_venue_schedule

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRequest, error)
}

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Venue, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
