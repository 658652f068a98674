package create_booking

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.BookingRequest) (*domain.BookingRequest, error)
}

// VenueRepository интерфейс репозитория площадок
type VenueRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Venue, error)
}

// NotificationSink интерфейс рассылки уведомлений по роли
type NotificationSink interface {
	NotifyRole(ctx context.Context, role domain.Role, payload domain.NotificationPayload) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingCreated(venue string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
