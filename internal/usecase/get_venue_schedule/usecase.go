package get_venue_schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
)

// UseCase use case для получения занятости площадки на дату
type UseCase struct {
	bookingRepo BookingRepository
	venueRepo   VenueRepository
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	venueRepo VenueRepository,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		location:    loc,
		logger:      logger,
	}
}

// Execute возвращает одобренные и ожидающие интервалы площадки на дату
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || strings.TrimSpace(req.Venue) == "" || req.Date.IsZero() {
		return nil, ErrInvalidInput
	}

	date := domain.DateOnly(req.Date)
	uc.logger.Info("GetVenueSchedule: venue=%s, date=%s", req.Venue, date.Format(domain.DateFormat))

	if _, err := uc.venueRepo.GetByName(ctx, req.Venue); err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("GetVenueSchedule: venue=%s not found", req.Venue)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("GetVenueSchedule: failed to get venue=%s: %v", req.Venue, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}

	venue := req.Venue
	bookings, err := uc.bookingRepo.List(ctx, domain.BookingsFilter{Venue: &venue})
	if err != nil {
		uc.logger.Error("GetVenueSchedule: failed to list bookings for venue=%s: %v", req.Venue, err)
		return nil, fmt.Errorf("%w: failed to list bookings: %v", ErrInternal, err)
	}

	resp := &Response{
		Venue:    req.Venue,
		Date:     date,
		Occupied: []Occupancy{},
		Pending:  []Occupancy{},
	}

	for _, b := range bookings {
		if b.Status != domain.StatusApproved && b.Status != domain.StatusPending {
			continue
		}
		for _, interval := range b.NormalizedDayIntervals(uc.location) {
			if !interval.Date.Equal(date) {
				continue
			}
			occ := Occupancy{
				BookingID:        b.ID,
				OrganizationName: b.OrganizationName,
				EventTitle:       b.EventTitle,
				StartTime:        interval.StartTime,
				EndTime:          interval.EndTime,
			}
			if b.Status == domain.StatusApproved {
				resp.Occupied = append(resp.Occupied, occ)
			} else {
				resp.Pending = append(resp.Pending, occ)
			}
		}
	}

	sortByStart(resp.Occupied)
	sortByStart(resp.Pending)

	uc.logger.Info("GetVenueSchedule: venue=%s, date=%s, occupied=%d, pending=%d",
		req.Venue, date.Format(domain.DateFormat), len(resp.Occupied), len(resp.Pending))

	return resp, nil
}

func sortByStart(list []Occupancy) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].StartTime.MustMinutes() < list[j].StartTime.MustMinutes()
	})
}
