package approve_booking

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venuelock"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

// UseCase use case для одобрения заявки администратором
type UseCase struct {
	bookingRepo  BookingRepository
	locker       VenueLocker
	resolver     ConflictResolver
	notifier     NotificationSink
	metrics      Metrics
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	locker VenueLocker,
	resolver ConflictResolver,
	notifier NotificationSink,
	metrics Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		locker:       locker,
		resolver:     resolver,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute одобряет заявку и разрешает конфликты с ожидающими заявками той же площадки
// Одобрение и сканирование выполняются под блокировкой площадки, поэтому
// два одобрения пересекающихся заявок не могут пройти одновременно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ApproveBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ApproveBooking: booking id=%d, admin=%d", req.BookingID, req.AdminID)

	// 1. Загружаем заявку, чтобы узнать площадку
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.CanBeApproved() {
		uc.logger.Warn("ApproveBooking: booking id=%d has status=%s", booking.ID, booking.Status)
		return nil, ErrNotPending
	}

	response := &Response{}

	// 2. Одобрение и поиск конфликтов под блокировкой площадки
	err = uc.locker.WithVenueLock(ctx, booking.Venue, func(lockCtx context.Context) error {
		err := uc.bookingRepo.UpdateStatus(lockCtx, booking.ID, domain.StatusUpdate{
			From:       []domain.BookingStatus{domain.StatusPending},
			To:         domain.StatusApproved,
			ReviewedBy: ptr.Ptr(req.AdminID),
			ReviewedAt: uc.timeProvider.Now(),
		})
		if err != nil {
			switch {
			case errors.Is(err, bookingRepo.ErrStatusConflict):
				uc.logger.Warn("ApproveBooking: booking id=%d is no longer pending", booking.ID)
				return ErrNotPending
			case errors.Is(err, bookingRepo.ErrBookingNotFound):
				return ErrBookingNotFound
			}
			uc.logger.Error("ApproveBooking: failed to approve booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update status: %v", ErrInternal, err)
		}

		approved, err := uc.getBooking(lockCtx, booking.ID)
		if err != nil {
			return err
		}
		response.Booking = approved
		uc.metrics.IncBookingApproved(approved.Venue)

		result, err := uc.resolver.Execute(lockCtx, approved)
		if err != nil {
			// одобрение остается в силе
			uc.logger.Warn("ApproveBooking: conflicts of booking id=%d not resolved: %v", approved.ID, err)
			return nil
		}

		response.ConflictsChecked = true
		response.AutoRejected = result.Rejected
		response.FailedRejections = result.Failed
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, venuelock.ErrRelease) && response.Booking != nil:
		// одобрение и отклонения уже зафиксированы, соединение с блокировкой закрыто
		uc.logger.Warn("ApproveBooking: booking id=%d approved, but venue lock not released cleanly: %v",
			booking.ID, err)
	case errors.Is(err, ErrNotPending) || errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrInternal):
		return nil, err
	default:
		uc.logger.Error("ApproveBooking: venue lock failed for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// 3. Уведомления отправляются после снятия блокировки
	uc.notifyRequester(ctx, response.Booking)
	if len(response.AutoRejected) > 0 {
		uc.notifyAdmins(ctx, response.Booking, response.AutoRejected)
	}

	uc.logger.Info("ApproveBooking: booking id=%d approved, auto-rejected=%d",
		response.Booking.ID, len(response.AutoRejected))

	return response, nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("ApproveBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("ApproveBooking: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}
	return booking, nil
}

func (uc *UseCase) notifyRequester(ctx context.Context, booking *domain.BookingRequest) {
	payload := domain.NotificationPayload{
		Type:             domain.NotificationBookingApproved,
		Message:          fmt.Sprintf("Your booking of %s for %q has been approved.", booking.Venue, booking.EventTitle),
		RelatedRequestID: ptr.Ptr(booking.ID),
		Role:             domain.RoleUser,
		Data: map[string]string{
			"status":  string(domain.StatusApproved),
			"venue":   booking.Venue,
			"orgName": booking.OrganizationName,
		},
	}
	if err := uc.notifier.Notify(ctx, booking.RequestedBy, payload); err != nil {
		uc.logger.Warn("ApproveBooking: failed to notify user=%d: %v", booking.RequestedBy, err)
	}
}

func (uc *UseCase) notifyAdmins(ctx context.Context, booking *domain.BookingRequest, rejected []int64) {
	ids := make([]string, 0, len(rejected))
	for _, id := range rejected {
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	payload := domain.NotificationPayload{
		Type: domain.NotificationConflictsResolved,
		Message: fmt.Sprintf("Booking #%d for %s was approved, %d conflicting request(s) were rejected automatically.",
			booking.ID, booking.Venue, len(rejected)),
		RelatedRequestID: ptr.Ptr(booking.ID),
		Role:             domain.RoleAdmin,
		Data: map[string]string{
			"venue":       booking.Venue,
			"orgName":     booking.OrganizationName,
			"rejectedIds": strings.Join(ids, ","),
		},
	}
	if err := uc.notifier.NotifyRole(ctx, domain.RoleAdmin, payload); err != nil {
		uc.logger.Warn("ApproveBooking: failed to notify admins: %v", err)
	}
}
