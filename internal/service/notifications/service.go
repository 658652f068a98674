package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-VenueBookingService/internal/integrations/broker"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/notifications/models"
)

// Service лента уведомлений пользователей
// Уведомление сохраняется в БД, затем (best-effort) публикуется в брокер для внешней доставки
type Service struct {
	repo      NotificationRepository
	publisher Publisher
	identity  IdentityServiceClient
	metrics   Metrics
	logger    Logger
}

// NewService создает новый экземпляр сервиса уведомлений
// publisher может быть nil, тогда уведомления только сохраняются
func NewService(
	repo NotificationRepository,
	publisher Publisher,
	identity IdentityServiceClient,
	metrics Metrics,
	logger Logger,
) *Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		identity:  identity,
		metrics:   metrics,
		logger:    logger,
	}
}

// Notify доставляет уведомление в ленту пользователя
// Ошибка сохранения возвращается, ошибка публикации только логируется
func (s *Service) Notify(ctx context.Context, userID int64, payload domain.NotificationPayload) error {
	if userID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	role := payload.Role
	if role == "" {
		role = domain.RoleUser
	}

	created, err := s.repo.Create(ctx, &domain.Notification{
		UserID:           userID,
		Role:             role,
		Type:             payload.Type,
		Message:          payload.Message,
		RelatedRequestID: payload.RelatedRequestID,
		Data:             payload.Data,
	})
	if err != nil {
		s.logger.Error("Notify: failed to store notification type=%s for user=%d: %v", payload.Type, userID, err)
		return fmt.Errorf("%w: Notify - repository error: %v", ErrInternal, err)
	}

	s.metrics.IncNotificationSent(string(payload.Type))

	msg := broker.NotificationMessage{
		MessageID:        uuid.NewString(),
		NotificationID:   created.ID,
		UserID:           userID,
		Role:             string(role),
		Type:             string(created.Type),
		Message:          created.Message,
		RelatedRequestID: created.RelatedRequestID,
		Data:             created.Data,
		CreatedAt:        created.CreatedAt,
	}
	if err := s.publisher.PublishJSON(ctx, broker.RoutingKeyUserNotification, msg.MessageID, msg); err != nil {
		s.logger.Warn("Notify: notification id=%d stored but not published: %v", created.ID, err)
	}

	return nil
}

// NotifyRole рассылает уведомление всем пользователям роли
// Ошибка доставки отдельному пользователю не прерывает рассылку
func (s *Service) NotifyRole(ctx context.Context, role domain.Role, payload domain.NotificationPayload) error {
	userIDs, err := s.identity.GetUserIDsByRole(ctx, string(role))
	if err != nil {
		s.logger.Error("NotifyRole: failed to resolve members of role=%s: %v", role, err)
		return fmt.Errorf("%w: NotifyRole - identity service error: %v", ErrInternal, err)
	}

	payload.Role = role
	delivered := 0
	for _, userID := range userIDs {
		if err := s.Notify(ctx, userID, payload); err != nil {
			s.logger.Warn("NotifyRole: failed to notify user=%d of role=%s: %v", userID, role, err)
			continue
		}
		delivered++
	}

	s.logger.Info("NotifyRole: delivered type=%s to %d/%d members of role=%s",
		payload.Type, delivered, len(userIDs), role)
	return nil
}

// GetUserNotifications получает ленту уведомлений пользователя
// Пользователь может читать только свою ленту
func (s *Service) GetUserNotifications(ctx context.Context, req *models.GetUserNotificationsRequest) (*models.NotificationListResponse, error) {
	if req.UserID != req.ActorID {
		s.logger.Warn("GetUserNotifications: user=%d tried to read feed of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	list, err := s.repo.GetByUserID(ctx, req.UserID, req.UnreadOnly)
	if err != nil {
		s.logger.Error("GetUserNotifications: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserNotifications - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainNotificationList(list), nil
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id int64, userID int64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, notificationRepo.ErrNotificationNotFound) {
			s.logger.Warn("MarkRead: notification id=%d not found for user=%d", id, userID)
			return ErrNotificationNotFound
		}
		s.logger.Error("MarkRead: repository error for notification id=%d: %v", id, err)
		return fmt.Errorf("%w: MarkRead - repository error: %v", ErrInternal, err)
	}

	return nil
}
