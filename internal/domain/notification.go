package domain

import "time"

// Role audience of a notification
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NotificationType kind of notification
type NotificationType string

const (
	NotificationBookingCreated    NotificationType = "booking_created"
	NotificationBookingApproved   NotificationType = "booking_approved"
	NotificationBookingRejected   NotificationType = "booking_rejected"
	NotificationBookingCancelled  NotificationType = "booking_cancelled"
	NotificationConflictsResolved NotificationType = "conflicts_resolved"
)

// NotificationPayload message delivered to a user's feed
type NotificationPayload struct {
	Type             NotificationType
	Message          string
	RelatedRequestID *int64
	Data             map[string]string
	Role             Role
}

// Notification stored notification
type Notification struct {
	ID               int64
	UserID           int64
	Type             NotificationType
	Message          string
	RelatedRequestID *int64
	Data             map[string]string
	Role             Role
	IsRead           bool
	CreatedAt        time.Time
}
