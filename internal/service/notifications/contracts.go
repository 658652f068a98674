package notifications

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// NotificationRepository интерфейс репозитория уведомлений
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	GetByUserID(ctx context.Context, userID int64, unreadOnly bool) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID int64) error
}

// Publisher интерфейс публикации сообщений во внешний брокер
type Publisher interface {
	PublishJSON(ctx context.Context, key string, messageID string, v any) error
}

// IdentityServiceClient интерфейс клиента сервиса пользователей
type IdentityServiceClient interface {
	GetUserIDsByRole(ctx context.Context, role string) ([]int64, error)
}

// Metrics интерфейс бизнес-метрик
type Metrics interface {
	IncNotificationSent(notificationType string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// NopPublisher используется, когда брокер не настроен
type NopPublisher struct{}

// PublishJSON ничего не делает
func (NopPublisher) PublishJSON(context.Context, string, string, any) error {
	return nil
}
