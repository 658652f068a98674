package resolve_conflicts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// BookingRepository интерфейс репозитория заявок
type BookingRepository interface {
	ListPending(ctx context.Context, venue *string, excludeID int64) ([]*domain.BookingRequest, error)
	UpdateStatus(ctx context.Context, id int64, upd domain.StatusUpdate) error
}

// NotificationSink интерфейс доставки уведомлений пользователю
type NotificationSink interface {
	Notify(ctx context.Context, userID int64, payload domain.NotificationPayload) error
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncAutoRejected(venue string)
	IncConflictFailure(kind string)
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
