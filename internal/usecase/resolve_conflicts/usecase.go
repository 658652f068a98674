package resolve_conflicts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
)

// UseCase автоматически отклоняет ожидающие заявки, пересекающиеся с одобренной
type UseCase struct {
	bookingRepo  BookingRepository
	notifier     NotificationSink
	metrics      Metrics
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
// loc - часовой пояс, в котором start/end заявки переводятся в календарную дату
func NewUseCase(
	bookingRepo BookingRepository,
	notifier NotificationSink,
	metrics Metrics,
	loc *time.Location,
	logger Logger,
) *UseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &UseCase{
		bookingRepo:  bookingRepo,
		notifier:     notifier,
		metrics:      metrics,
		timeProvider: &RealTimeProvider{},
		location:     loc,
		logger:       logger,
	}
}

// Execute сканирует ожидающие заявки той же площадки и отклоняет пересекающиеся с approved
// Вызывается после того, как approved уже сохранена в статусе approved
// Каждая заявка обрабатывается независимо: сбой на одной не откатывает и не останавливает остальные
func (uc *UseCase) Execute(ctx context.Context, approved *domain.BookingRequest) (*Result, error) {
	if approved == nil || approved.ID <= 0 {
		return nil, ErrInvalidInput
	}

	result := &Result{}

	approvedDays := approved.NormalizedDayIntervals(uc.location)
	if len(approvedDays) == 0 {
		uc.logger.Info("ResolveConflicts: booking id=%d has no time windows, nothing to resolve", approved.ID)
		return result, nil
	}

	candidates, err := uc.bookingRepo.ListPending(ctx, &approved.Venue, approved.ID)
	if err != nil {
		uc.metrics.IncConflictFailure(failureLookup)
		uc.logger.Error("ResolveConflicts: failed to list pending requests for venue=%s: %v", approved.Venue, err)
		return nil, fmt.Errorf("%w: %v", ErrLookupFailed, err)
	}

	uc.logger.Info("ResolveConflicts: booking id=%d venue=%s, checking %d pending requests",
		approved.ID, approved.Venue, len(candidates))

	now := uc.timeProvider.Now()

	for _, candidate := range candidates {
		if candidate.ID == approved.ID || candidate.Venue != approved.Venue || !candidate.IsPending() {
			continue
		}

		hit, conflicting := domain.FirstConflict(approvedDays, candidate.NormalizedDayIntervals(uc.location))
		if !conflicting {
			continue
		}

		switch err := uc.reject(ctx, approved, candidate, hit, now); {
		case err == nil:
			result.Rejected = append(result.Rejected, candidate.ID)
		case errors.Is(err, bookingRepo.ErrStatusConflict), errors.Is(err, bookingRepo.ErrBookingNotFound):
			uc.logger.Info("ResolveConflicts: request id=%d is no longer pending, skipped", candidate.ID)
			result.Skipped = append(result.Skipped, candidate.ID)
		default:
			uc.metrics.IncConflictFailure(failureUpdate)
			uc.logger.Error("ResolveConflicts: failed to reject request id=%d: %v", candidate.ID, err)
			result.Failed = append(result.Failed, candidate.ID)
		}
	}

	uc.logger.Info("ResolveConflicts: booking id=%d done, rejected=%d skipped=%d failed=%d",
		approved.ID, len(result.Rejected), len(result.Skipped), len(result.Failed))

	return result, nil
}

// reject переводит candidate в rejected и уведомляет автора
// Ошибка уведомления не возвращается: статус уже изменен
func (uc *UseCase) reject(
	ctx context.Context,
	approved *domain.BookingRequest,
	candidate *domain.BookingRequest,
	hit domain.DayInterval,
	now time.Time,
) error {
	reason := domain.AutoRejectionReason(approved.OrganizationName)

	err := uc.bookingRepo.UpdateStatus(ctx, candidate.ID, domain.StatusUpdate{
		From:            []domain.BookingStatus{domain.StatusPending},
		To:              domain.StatusRejected,
		RejectionReason: &reason,
		ReviewedAt:      now,
	})
	if err != nil {
		return err
	}

	uc.metrics.IncAutoRejected(approved.Venue)
	uc.logger.Info("ResolveConflicts: request id=%d rejected, conflicts with booking id=%d on %s",
		candidate.ID, approved.ID, hit.DateKey())

	requestID := candidate.ID
	payload := domain.NotificationPayload{
		Type:             domain.NotificationBookingRejected,
		Message:          reason,
		RelatedRequestID: &requestID,
		Role:             domain.RoleUser,
		Data: map[string]string{
			"status":          string(domain.StatusRejected),
			"venue":           approved.Venue,
			"date":            hit.DateKey(),
			"orgName":         approved.OrganizationName,
			"rejectionReason": reason,
		},
	}

	if err := uc.notifier.Notify(ctx, candidate.RequestedBy, payload); err != nil {
		uc.metrics.IncConflictFailure(failureNotification)
		uc.logger.Warn("ResolveConflicts: request id=%d rejected but user=%d not notified: %v",
			candidate.ID, candidate.RequestedBy, err)
	}

	return nil
}
