package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// Actor пользователь, выполняющий запрос
type Actor struct {
	UserID  int64
	IsAdmin bool
}

// ListBookingsRequest запрос на получение списка заявок
type ListBookingsRequest struct {
	Actor  Actor
	Venue  *string // фильтр по площадке (опционально)
	Status *string // фильтр по статусу (опционально)
}

// RejectBookingRequest запрос на ручное отклонение заявки
type RejectBookingRequest struct {
	AdminID int64  `json:"adminId"`
	Reason  string `json:"reason"`
}

// CancelBookingRequest запрос на отмену заявки
type CancelBookingRequest struct {
	UserID  int64 `json:"userId"`
	IsAdmin bool  `json:"-"`
}

// Response модели

// DayIntervalResponse интервал занятости
type DayIntervalResponse struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "08:00"
	EndTime   string `json:"endTime"`   // "12:30"
}

// BookingResponse ответ с данными заявки
type BookingResponse struct {
	ID               int64                 `json:"id"`
	Venue            string                `json:"venue"`
	EventTitle       string                `json:"eventTitle"`
	OrganizationName string                `json:"organizationName"`
	RequestedBy      int64                 `json:"requestedBy"`
	Status           string                `json:"status"`
	DayIntervals     []DayIntervalResponse `json:"dayIntervals"`
	StartAt          *time.Time            `json:"startAt,omitempty"`
	EndAt            *time.Time            `json:"endAt,omitempty"`

	RejectionReason *string    `json:"rejectionReason,omitempty"`
	ReviewedBy      *int64     `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time `json:"reviewedAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком заявок
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainDayIntervals конвертирует интервалы в DTO
func FromDomainDayIntervals(intervals []domain.DayInterval) []DayIntervalResponse {
	resp := make([]DayIntervalResponse, 0, len(intervals))
	for _, interval := range intervals {
		resp = append(resp, DayIntervalResponse{
			Date:      interval.DateKey(),
			StartTime: interval.StartTime.String(),
			EndTime:   interval.EndTime.String(),
		})
	}
	return resp
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.BookingRequest) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:               b.ID,
		Venue:            b.Venue,
		EventTitle:       b.EventTitle,
		OrganizationName: b.OrganizationName,
		RequestedBy:      b.RequestedBy,
		Status:           string(b.Status),
		DayIntervals:     FromDomainDayIntervals(b.DayIntervals),
		StartAt:          b.StartAt,
		EndAt:            b.EndAt,
		RejectionReason:  b.RejectionReason,
		ReviewedBy:       b.ReviewedBy,
		ReviewedAt:       b.ReviewedAt,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.BookingRequest) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	for _, valid := range domain.AllStatuses {
		if s == valid {
			return s, nil
		}
	}

	return "", ErrInvalidStatus
}
