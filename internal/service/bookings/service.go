package bookings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
)

// Service сервис для работы с заявками
type Service struct {
	bookingRepo  BookingRepository
	notifier     NotificationSink
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса заявок
func NewService(
	bookingRepo BookingRepository,
	notifier NotificationSink,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает заявку по ID
// Доступно автору заявки и администраторам
func (s *Service) GetByID(ctx context.Context, id int64, actor models.Actor) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.UserID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin && booking.RequestedBy != actor.UserID {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", actor.UserID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// List получает список заявок
// Администратор видит все заявки, пользователь только свои
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for user=%d, admin=%t", req.Actor.UserID, req.Actor.IsAdmin)

	filter := domain.BookingsFilter{Venue: req.Venue}

	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	if !req.Actor.IsAdmin {
		filter.RequestedBy = ptr.Ptr(req.Actor.UserID)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}

// Reject отклоняет ожидающую заявку вручную
// Причина обязательна, автор заявки получает уведомление
func (s *Service) Reject(ctx context.Context, bookingID int64, req *models.RejectBookingRequest) (*models.BookingResponse, error) {
	s.logger.Info("Reject: rejecting booking id=%d by admin=%d", bookingID, req.AdminID)

	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}
	if len(reason) > domain.MaxRejectionReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	booking, err := s.getBooking(ctx, "Reject", bookingID)
	if err != nil {
		return nil, err
	}

	if !booking.CanBeRejected() {
		s.logger.Warn("Reject: booking id=%d cannot be rejected, status=%s", bookingID, booking.Status)
		return nil, ErrCannotReject
	}

	err = s.bookingRepo.UpdateStatus(ctx, bookingID, domain.StatusUpdate{
		From:            []domain.BookingStatus{domain.StatusPending},
		To:              domain.StatusRejected,
		RejectionReason: &reason,
		ReviewedBy:      ptr.Ptr(req.AdminID),
		ReviewedAt:      s.timeProvider.Now(),
	})
	if err != nil {
		return nil, s.mapUpdateError("Reject", bookingID, err, ErrCannotReject)
	}

	updated, err := s.getBooking(ctx, "Reject", bookingID)
	if err != nil {
		return nil, err
	}

	s.notify(ctx, updated, domain.NotificationBookingRejected, reason)

	s.logger.Info("Reject: successfully rejected booking id=%d", bookingID)
	return models.FromDomainBooking(updated), nil
}

// Cancel отменяет заявку
// Автор может отозвать ожидающую заявку, администратор может отменить и одобренную
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d, admin=%t", bookingID, req.UserID, req.IsAdmin)

	booking, err := s.getBooking(ctx, "Cancel", bookingID)
	if err != nil {
		return err
	}

	if !req.IsAdmin && booking.RequestedBy != req.UserID {
		s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
		return ErrAccessDenied
	}

	if !booking.CanBeCancelled(req.IsAdmin) {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// отзыв автором не является рассмотрением, reviewed_* не заполняются
	upd := domain.StatusUpdate{
		From: []domain.BookingStatus{domain.StatusPending},
		To:   domain.StatusCancelled,
	}
	if req.IsAdmin {
		upd.From = append(upd.From, domain.StatusApproved)
		upd.ReviewedBy = ptr.Ptr(req.UserID)
		upd.ReviewedAt = s.timeProvider.Now()
	}

	if err := s.bookingRepo.UpdateStatus(ctx, bookingID, upd); err != nil {
		return s.mapUpdateError("Cancel", bookingID, err, ErrCannotCancel)
	}

	// автор сам знает об отзыве своей заявки
	if booking.RequestedBy != req.UserID {
		s.notify(ctx, booking, domain.NotificationBookingCancelled,
			fmt.Sprintf("Your booking of %s for %q has been cancelled by an administrator.", booking.Venue, booking.EventTitle))
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.BookingRequest, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// mapUpdateError переводит ошибки guarded-обновления статуса
// ErrStatusConflict означает, что статус изменился после проверки
func (s *Service) mapUpdateError(op string, id int64, err error, conflictErr error) error {
	switch {
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found during update", op, id)
		return ErrBookingNotFound
	case errors.Is(err, bookingRepo.ErrStatusConflict):
		s.logger.Warn("%s: booking id=%d status changed concurrently", op, id)
		return conflictErr
	}
	s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
}

func (s *Service) notify(ctx context.Context, booking *domain.BookingRequest, notificationType domain.NotificationType, message string) {
	status := domain.StatusRejected
	if notificationType == domain.NotificationBookingCancelled {
		status = domain.StatusCancelled
	}

	data := map[string]string{
		"status":  string(status),
		"venue":   booking.Venue,
		"orgName": booking.OrganizationName,
	}
	if booking.RejectionReason != nil {
		data["rejectionReason"] = *booking.RejectionReason
	}

	payload := domain.NotificationPayload{
		Type:             notificationType,
		Message:          message,
		RelatedRequestID: ptr.Ptr(booking.ID),
		Role:             domain.RoleUser,
		Data:             data,
	}
	if err := s.notifier.Notify(ctx, booking.RequestedBy, payload); err != nil {
		s.logger.Warn("notify: failed to notify user=%d about booking id=%d: %v", booking.RequestedBy, booking.ID, err)
	}
}
