package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	venueRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venue"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

// UseCase use case для создания заявки на площадку
type UseCase struct {
	bookingRepo BookingRepository
	venueRepo   VenueRepository
	notifier    NotificationSink
	txManager   TransactionManager
	metrics     Metrics
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	venueRepo VenueRepository,
	notifier NotificationSink,
	txManager TransactionManager,
	metrics Metrics,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		bookingRepo: bookingRepo,
		venueRepo:   venueRepo,
		notifier:    notifier,
		txManager:   txManager,
		metrics:     metrics,
		location:    loc,
		logger:      logger,
	}
}

// Execute выполняет use case создания заявки
// Заявка и её интервалы сохраняются в одной транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: empty request", ErrInvalidInput)
	}

	uc.logger.Info("CreateBooking: user=%d, venue=%s, org=%s, intervals=%d",
		req.UserID, req.Venue, req.OrganizationName, len(req.DayIntervals))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	booking := &domain.BookingRequest{
		Venue:            req.Venue,
		EventTitle:       req.EventTitle,
		OrganizationName: req.OrganizationName,
		RequestedBy:      req.UserID,
		Status:           domain.StatusPending,
		StartAt:          req.StartAt,
		EndAt:            req.EndAt,
	}

	// 2. Интервалы по дням или общий диапазон
	if len(req.DayIntervals) > 0 {
		intervals, err := normalizeIntervals(req.DayIntervals)
		if err != nil {
			uc.logger.Warn("CreateBooking: invalid day intervals: %v", err)
			return nil, err
		}
		booking.DayIntervals = intervals
	} else if err := validateTimeRange(*req.StartAt, *req.EndAt, uc.location); err != nil {
		uc.logger.Warn("CreateBooking: invalid time range: %v", err)
		return nil, err
	}

	// 3. Площадка должна существовать и быть активной
	venue, err := uc.venueRepo.GetByName(ctx, req.Venue)
	if err != nil {
		if errors.Is(err, venueRepo.ErrVenueNotFound) {
			uc.logger.Warn("CreateBooking: venue=%s not found", req.Venue)
			return nil, ErrVenueNotFound
		}
		uc.logger.Error("CreateBooking: failed to get venue=%s: %v", req.Venue, err)
		return nil, fmt.Errorf("%w: failed to get venue: %v", ErrInternal, err)
	}
	if !venue.IsActive {
		uc.logger.Warn("CreateBooking: venue=%s is inactive", req.Venue)
		return nil, ErrVenueInactive
	}

	// 4. Сохраняем заявку с интервалами
	var result *domain.BookingRequest
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		result = created
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return nil, err
	}

	uc.metrics.IncBookingCreated(result.Venue)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	// 5. Уведомляем администраторов о новой заявке
	uc.notifyAdmins(ctx, result)

	return &Response{
		ID:               result.ID,
		Venue:            result.Venue,
		EventTitle:       result.EventTitle,
		OrganizationName: result.OrganizationName,
		RequestedBy:      result.RequestedBy,
		Status:           string(result.Status),
		DayIntervals:     result.DayIntervals,
		StartAt:          result.StartAt,
		EndAt:            result.EndAt,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

func (uc *UseCase) notifyAdmins(ctx context.Context, booking *domain.BookingRequest) {
	payload := domain.NotificationPayload{
		Type: domain.NotificationBookingCreated,
		Message: fmt.Sprintf("New booking request #%d from %s for %s awaits review.",
			booking.ID, booking.OrganizationName, booking.Venue),
		RelatedRequestID: ptr.Ptr(booking.ID),
		Role:             domain.RoleAdmin,
		Data: map[string]string{
			"status":  string(domain.StatusPending),
			"venue":   booking.Venue,
			"orgName": booking.OrganizationName,
		},
	}
	if err := uc.notifier.NotifyRole(ctx, domain.RoleAdmin, payload); err != nil {
		uc.logger.Warn("CreateBooking: failed to notify admins about booking id=%d: %v", booking.ID, err)
	}
}
