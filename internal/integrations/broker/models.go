package broker

import "time"

// Routing keys
const (
	RoutingKeyUserNotification = "notification.user"
)

// NotificationMessage сообщение об уведомлении для внешних доставщиков (push, email)
type NotificationMessage struct {
	MessageID        string            `json:"messageId"`
	NotificationID   int64             `json:"notificationId"`
	UserID           int64             `json:"userId"`
	Role             string            `json:"role"`
	Type             string            `json:"type"`
	Message          string            `json:"message"`
	RelatedRequestID *int64            `json:"relatedRequestId,omitempty"`
	Data             map[string]string `json:"data,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
}
