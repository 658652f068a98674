package get_notifications

import (
	"context"

	"github.com/m04kA/SMC-VenueBookingService/internal/service/notifications/models"
)

type NotificationService interface {
	GetUserNotifications(ctx context.Context, req *models.GetUserNotificationsRequest) (*models.NotificationListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
