package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the lifecycle state of a booking request
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusApproved  BookingStatus = "approved"
	StatusRejected  BookingStatus = "rejected"
	StatusCancelled BookingStatus = "cancelled"
)

// BookingRequest represents a request to reserve a venue
type BookingRequest struct {
	ID               int64
	Venue            string // venue name, matched by exact equality
	EventTitle       string
	OrganizationName string
	RequestedBy      int64
	Status           BookingStatus

	// DayIntervals per-day occupancy windows, ordered by date and start time.
	// May be empty, then StartAt/EndAt are used (see NormalizedDayIntervals).
	DayIntervals []DayInterval
	StartAt      *time.Time
	EndAt        *time.Time

	RejectionReason *string
	ReviewedBy      *int64
	ReviewedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending returns true if the request still awaits review
func (b *BookingRequest) IsPending() bool {
	return b.Status == StatusPending
}

// CanBeApproved returns true if the request can be approved
func (b *BookingRequest) CanBeApproved() bool {
	return b.Status == StatusPending
}

// CanBeRejected returns true if the request can be rejected
func (b *BookingRequest) CanBeRejected() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the request can be cancelled.
// Requesters may only withdraw pending requests, admins may also cancel approved ones.
func (b *BookingRequest) CanBeCancelled(byAdmin bool) bool {
	if b.Status == StatusPending {
		return true
	}
	return byAdmin && b.Status == StatusApproved
}

// IsTerminal returns true if no further transition is possible
func (b *BookingRequest) IsTerminal() bool {
	return b.Status == StatusRejected || b.Status == StatusCancelled
}

// NormalizedDayIntervals returns the occupancy windows of the request.
// Explicit per-day intervals win. Otherwise the overall StartAt/EndAt pair is converted
// into exactly one interval using the calendar date and clock time in loc.
// A request with neither contributes no intervals and never conflicts.
func (b *BookingRequest) NormalizedDayIntervals(loc *time.Location) []DayInterval {
	if len(b.DayIntervals) > 0 {
		return b.DayIntervals
	}

	if b.StartAt == nil || b.EndAt == nil {
		return nil
	}

	if loc == nil {
		loc = time.UTC
	}
	start := b.StartAt.In(loc)
	end := b.EndAt.In(loc)

	return []DayInterval{{
		Date:      DateOnly(start),
		StartTime: timeOfDay(start),
		EndTime:   timeOfDay(end),
	}}
}

// BookingsFilter filter for listing booking requests
type BookingsFilter struct {
	Venue       *string
	Status      *BookingStatus
	RequestedBy *int64
}

// AutoRejectionReason builds the reason stored on requests rejected by conflict resolution
func AutoRejectionReason(organizationName string) string {
	return fmt.Sprintf(
		"This venue has been booked by %s on this date/time. Please request another date or time.",
		organizationName,
	)
}

// StatusUpdate guarded status transition of a booking request.
// The update applies only while the current status is one of From.
type StatusUpdate struct {
	From            []BookingStatus
	To              BookingStatus
	RejectionReason *string
	ReviewedBy      *int64
	ReviewedAt      time.Time
}
