package models

import (
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

// GetUserNotificationsRequest запрос ленты уведомлений
type GetUserNotificationsRequest struct {
	UserID     int64 // чья лента
	ActorID    int64 // кто запрашивает
	UnreadOnly bool
}

// NotificationResponse уведомление в ленте
type NotificationResponse struct {
	ID               int64             `json:"id"`
	Type             string            `json:"type"`
	Message          string            `json:"message"`
	RelatedRequestID *int64            `json:"relatedRequestId,omitempty"`
	Data             map[string]string `json:"data,omitempty"`
	Role             string            `json:"role"`
	IsRead           bool              `json:"isRead"`
	CreatedAt        time.Time         `json:"createdAt"`
}

// NotificationListResponse лента уведомлений
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
}

// FromDomainNotificationList конвертирует список domain моделей в DTO
func FromDomainNotificationList(list []*domain.Notification) *NotificationListResponse {
	resp := &NotificationListResponse{
		Notifications: make([]NotificationResponse, 0, len(list)),
	}

	for _, n := range list {
		if n == nil {
			continue
		}
		if !n.IsRead {
			resp.UnreadCount++
		}
		resp.Notifications = append(resp.Notifications, NotificationResponse{
			ID:               n.ID,
			Type:             string(n.Type),
			Message:          n.Message,
			RelatedRequestID: n.RelatedRequestID,
			Data:             n.Data,
			Role:             string(n.Role),
			IsRead:           n.IsRead,
			CreatedAt:        n.CreatedAt,
		})
	}

	return resp
}
