package approve_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_conflicts"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error)
	UpdateStatus(ctx context.Context, id int64, upd domain.StatusUpdate) error
}

// VenueLocker сериализует одобрения в рамках одной площадки
type VenueLocker interface {
	WithVenueLock(ctx context.Context, venue string, fn func(ctx context.Context) error) error
}

// ConflictResolver отклоняет ожидающие заявки, пересекающиеся с одобренной
type ConflictResolver interface {
	Execute(ctx context.Context, approved *domain.BookingRequest) (*resolve_conflicts.Result, error)
}

// NotificationSink интерфейс доставки уведомлений
type NotificationSink interface {
	Notify(ctx context.Context, userID int64, payload domain.NotificationPayload) error
	NotifyRole(ctx context.Context, role domain.Role, payload domain.NotificationPayload) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncBookingApproved(venue string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
