package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	notificationRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/notification"
	"github.com/m04kA/SMC-VenueBookingService/internal/service/notifications/models"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type fakeRepo struct {
	created   []*domain.Notification
	failFor   map[int64]bool
	list      []*domain.Notification
	markErr   error
	createErr error
}

func (f *fakeRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	if f.createErr != nil || f.failFor[n.UserID] {
		return nil, errors.New("insert failed")
	}
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return n, nil
}

func (f *fakeRepo) GetByUserID(context.Context, int64, bool) ([]*domain.Notification, error) {
	return f.list, nil
}

func (f *fakeRepo) MarkRead(context.Context, int64, int64) error {
	return f.markErr
}

type fakePublisher struct {
	keys []string
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, key string, _ string, _ any) error {
	f.keys = append(f.keys, key)
	return f.err
}

type fakeIdentity struct {
	ids []int64
	err error
}

func (f *fakeIdentity) GetUserIDsByRole(context.Context, string) ([]int64, error) {
	return f.ids, f.err
}

type fakeMetrics struct{ sent int }

func (f *fakeMetrics) IncNotificationSent(string) { f.sent++ }

func payload() domain.NotificationPayload {
	return domain.NotificationPayload{
		Type:    domain.NotificationBookingRejected,
		Message: "taken",
		Data:    map[string]string{"status": "rejected"},
	}
}

func TestNotify_StoresAndPublishes(t *testing.T) {
	repo := &fakeRepo{}
	pub := &fakePublisher{}
	m := &fakeMetrics{}
	svc := NewService(repo, pub, &fakeIdentity{}, m, logger.NewNop())

	err := svc.Notify(context.Background(), 43, payload())

	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, domain.RoleUser, repo.created[0].Role)
	assert.Equal(t, []string{"notification.user"}, pub.keys)
	assert.Equal(t, 1, m.sent)
}

func TestNotify_PublishFailureIsNotFatal(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakePublisher{err: errors.New("channel closed")}, &fakeIdentity{}, &fakeMetrics{}, logger.NewNop())

	err := svc.Notify(context.Background(), 43, payload())

	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestNotify_StoreFailure(t *testing.T) {
	svc := NewService(&fakeRepo{createErr: errors.New("db down")}, nil, &fakeIdentity{}, &fakeMetrics{}, logger.NewNop())

	err := svc.Notify(context.Background(), 43, payload())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestNotifyRole_ContinuesAfterFailure(t *testing.T) {
	repo := &fakeRepo{failFor: map[int64]bool{2: true}}
	svc := NewService(repo, nil, &fakeIdentity{ids: []int64{1, 2, 3}}, &fakeMetrics{}, logger.NewNop())

	err := svc.NotifyRole(context.Background(), domain.RoleAdmin, payload())

	require.NoError(t, err)
	require.Len(t, repo.created, 2)
	assert.Equal(t, int64(1), repo.created[0].UserID)
	assert.Equal(t, int64(3), repo.created[1].UserID)
	assert.Equal(t, domain.RoleAdmin, repo.created[1].Role)
}

func TestNotifyRole_IdentityFailure(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, &fakeIdentity{err: errors.New("timeout")}, &fakeMetrics{}, logger.NewNop())

	err := svc.NotifyRole(context.Background(), domain.RoleAdmin, payload())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestGetUserNotifications(t *testing.T) {
	repo := &fakeRepo{list: []*domain.Notification{
		{ID: 2, UserID: 43, IsRead: false},
		{ID: 1, UserID: 43, IsRead: true},
	}}
	svc := NewService(repo, nil, &fakeIdentity{}, &fakeMetrics{}, logger.NewNop())

	resp, err := svc.GetUserNotifications(context.Background(), &models.GetUserNotificationsRequest{UserID: 43, ActorID: 43})
	require.NoError(t, err)
	assert.Len(t, resp.Notifications, 2)
	assert.Equal(t, 1, resp.UnreadCount)

	_, err = svc.GetUserNotifications(context.Background(), &models.GetUserNotificationsRequest{UserID: 43, ActorID: 44})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestMarkRead_NotFound(t *testing.T) {
	svc := NewService(&fakeRepo{markErr: notificationRepo.ErrNotificationNotFound}, nil, &fakeIdentity{}, &fakeMetrics{}, logger.NewNop())

	err := svc.MarkRead(context.Background(), 5, 43)

	assert.ErrorIs(t, err, ErrNotificationNotFound)
}
