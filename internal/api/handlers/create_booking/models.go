package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-VenueBookingService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

var (
	errInvalidDate     = errors.New("invalid date")
	errInvalidTime     = errors.New("invalid time")
	errInvalidDateTime = errors.New("invalid date-time")
)

// DayIntervalRequest интервал занятости в запросе
type DayIntervalRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "08:00"
	EndTime   string `json:"endTime"`   // "12:30"
}

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	Venue            string               `json:"venue"`
	EventTitle       string               `json:"eventTitle"`
	OrganizationName string               `json:"organizationName"`
	DayIntervals     []DayIntervalRequest `json:"dayIntervals,omitempty"`
	StartAt          *string              `json:"startAt,omitempty"` // RFC 3339
	EndAt            *string              `json:"endAt,omitempty"`   // RFC 3339
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	req := &createBooking.Request{
		UserID:           userID,
		Venue:            r.Venue,
		EventTitle:       r.EventTitle,
		OrganizationName: r.OrganizationName,
	}

	for i, interval := range r.DayIntervals {
		date, err := time.Parse(domain.DateFormat, interval.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: dayIntervals[%d].date: %v", errInvalidDate, i, err)
		}
		start, err := types.NewTimeStringFromString(interval.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%w: dayIntervals[%d].startTime: %v", errInvalidTime, i, err)
		}
		end, err := types.NewTimeStringFromString(interval.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%w: dayIntervals[%d].endTime: %v", errInvalidTime, i, err)
		}
		req.DayIntervals = append(req.DayIntervals, domain.DayInterval{Date: date, StartTime: start, EndTime: end})
	}

	var err error
	if req.StartAt, err = parseDateTime(r.StartAt); err != nil {
		return nil, fmt.Errorf("%w: startAt: %v", errInvalidDateTime, err)
	}
	if req.EndAt, err = parseDateTime(r.EndAt); err != nil {
		return nil, fmt.Errorf("%w: endAt: %v", errInvalidDateTime, err)
	}

	return req, nil
}

func parseDateTime(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *models.BookingResponse {
	return &models.BookingResponse{
		ID:               resp.ID,
		Venue:            resp.Venue,
		EventTitle:       resp.EventTitle,
		OrganizationName: resp.OrganizationName,
		RequestedBy:      resp.RequestedBy,
		Status:           resp.Status,
		DayIntervals:     models.FromDomainDayIntervals(resp.DayIntervals),
		StartAt:          resp.StartAt,
		EndAt:            resp.EndAt,
		CreatedAt:        resp.CreatedAt,
		UpdatedAt:        resp.UpdatedAt,
	}
}
