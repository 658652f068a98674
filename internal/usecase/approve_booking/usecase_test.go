package approve_booking

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/venuelock"
	"github.com/m04kA/SMC-VenueBookingService/internal/usecase/resolve_conflicts"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
)

type stubRepo struct {
	booking   *domain.BookingRequest
	getErr    error
	updateErr error
	updates   []domain.StatusUpdate
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*domain.BookingRequest, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	if r.booking == nil || r.booking.ID != id {
		return nil, bookingRepo.ErrBookingNotFound
	}
	b := *r.booking
	return &b, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, _ int64, upd domain.StatusUpdate) error {
	r.updates = append(r.updates, upd)
	if r.updateErr != nil {
		return r.updateErr
	}
	r.booking.Status = upd.To
	r.booking.ReviewedBy = upd.ReviewedBy
	return nil
}

type stubLocker struct {
	venues     []string
	held       bool
	err        error
	releaseErr error
}

func (l *stubLocker) WithVenueLock(ctx context.Context, venue string, fn func(ctx context.Context) error) error {
	if l.err != nil {
		return l.err
	}
	l.venues = append(l.venues, venue)
	l.held = true
	defer func() { l.held = false }()
	if err := fn(ctx); err != nil {
		return err
	}
	return l.releaseErr
}

type stubResolver struct {
	locker   *stubLocker
	result   *resolve_conflicts.Result
	err      error
	calls    int
	lockHeld bool
	approved *domain.BookingRequest
}

func (r *stubResolver) Execute(_ context.Context, approved *domain.BookingRequest) (*resolve_conflicts.Result, error) {
	r.calls++
	r.lockHeld = r.locker.held
	r.approved = approved
	if r.err != nil {
		return nil, r.err
	}
	return r.result, nil
}

type stubNotifier struct {
	users     []int64
	roles     []domain.Role
	payloads  []domain.NotificationPayload
	notifyErr error
}

func (n *stubNotifier) Notify(_ context.Context, userID int64, p domain.NotificationPayload) error {
	n.users = append(n.users, userID)
	n.payloads = append(n.payloads, p)
	return n.notifyErr
}

func (n *stubNotifier) NotifyRole(_ context.Context, role domain.Role, p domain.NotificationPayload) error {
	n.roles = append(n.roles, role)
	n.payloads = append(n.payloads, p)
	return n.notifyErr
}

type stubMetrics struct{ approved int }

func (m *stubMetrics) IncBookingApproved(string) { m.approved++ }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type fixture struct {
	repo     *stubRepo
	locker   *stubLocker
	resolver *stubResolver
	notifier *stubNotifier
	metrics  *stubMetrics
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo: &stubRepo{booking: &domain.BookingRequest{
			ID:               7,
			Venue:            "Hall A",
			EventTitle:       "Tournament",
			OrganizationName: "Chess Club",
			RequestedBy:      42,
			Status:           domain.StatusPending,
		}},
		locker:   &stubLocker{},
		notifier: &stubNotifier{},
		metrics:  &stubMetrics{},
	}
	f.resolver = &stubResolver{locker: f.locker, result: &resolve_conflicts.Result{}}
	f.uc = NewUseCase(f.repo, f.locker, f.resolver, f.notifier, f.metrics, logger.NewNop())
	f.uc.timeProvider = fixedTime{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	return f
}

func TestExecute_ApprovesAndResolvesUnderLock(t *testing.T) {
	f := newFixture()
	f.resolver.result = &resolve_conflicts.Result{Rejected: []int64{8, 9}, Failed: []int64{10}}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})
	require.NoError(t, err)

	assert.Equal(t, []string{"Hall A"}, f.locker.venues)
	require.Len(t, f.repo.updates, 1)
	upd := f.repo.updates[0]
	assert.Equal(t, []domain.BookingStatus{domain.StatusPending}, upd.From)
	assert.Equal(t, domain.StatusApproved, upd.To)
	require.NotNil(t, upd.ReviewedBy)
	assert.Equal(t, int64(1), *upd.ReviewedBy)

	assert.Equal(t, 1, f.resolver.calls)
	assert.True(t, f.resolver.lockHeld)
	assert.Equal(t, domain.StatusApproved, f.resolver.approved.Status)

	assert.Equal(t, domain.StatusApproved, resp.Booking.Status)
	assert.Equal(t, []int64{8, 9}, resp.AutoRejected)
	assert.Equal(t, []int64{10}, resp.FailedRejections)
	assert.True(t, resp.ConflictsChecked)
	assert.Equal(t, 1, f.metrics.approved)

	assert.Equal(t, []int64{42}, f.notifier.users)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, f.notifier.roles)
	require.Len(t, f.notifier.payloads, 2)
	assert.Equal(t, domain.NotificationBookingApproved, f.notifier.payloads[0].Type)
	assert.Equal(t, domain.NotificationConflictsResolved, f.notifier.payloads[1].Type)
	assert.Equal(t, "8,9", f.notifier.payloads[1].Data["rejectedIds"])
}

func TestExecute_NoAdminSummaryWithoutRejections(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})
	require.NoError(t, err)

	assert.Empty(t, resp.AutoRejected)
	assert.Empty(t, f.notifier.roles)
	assert.Equal(t, []int64{42}, f.notifier.users)
}

func TestExecute_LookupFailureKeepsApproval(t *testing.T) {
	f := newFixture()
	f.resolver.err = resolve_conflicts.ErrLookupFailed

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})
	require.NoError(t, err)

	assert.False(t, resp.ConflictsChecked)
	assert.Equal(t, domain.StatusApproved, f.repo.booking.Status)
	assert.Equal(t, []int64{42}, f.notifier.users)
}

func TestExecute_ReleaseFailureKeepsApproval(t *testing.T) {
	f := newFixture()
	f.locker.releaseErr = fmt.Errorf("%w: venue=Hall A: connection reset", venuelock.ErrRelease)
	f.resolver.result = &resolve_conflicts.Result{Rejected: []int64{8}}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})
	require.NoError(t, err)

	require.NotNil(t, resp)
	assert.Equal(t, domain.StatusApproved, resp.Booking.Status)
	assert.Equal(t, []int64{8}, resp.AutoRejected)
	assert.Equal(t, 1, f.resolver.calls)
	assert.Equal(t, []int64{42}, f.notifier.users)
	assert.Equal(t, []domain.Role{domain.RoleAdmin}, f.notifier.roles)
}

func TestExecute_ReleaseFailureAfterFailedApproval(t *testing.T) {
	f := newFixture()
	f.repo.updateErr = bookingRepo.ErrStatusConflict
	f.locker.releaseErr = venuelock.ErrRelease

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})

	assert.ErrorIs(t, err, ErrNotPending)
	assert.Nil(t, resp)
	assert.Empty(t, f.notifier.payloads)
}

func TestExecute_NotificationFailureIgnored(t *testing.T) {
	f := newFixture()
	f.notifier.notifyErr = errors.New("broker down")
	f.resolver.result = &resolve_conflicts.Result{Rejected: []int64{8}}

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 7, AdminID: 1})
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, resp.AutoRejected)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		prepare func(f *fixture)
		wantErr error
	}{
		{
			name:    "nil request",
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing admin",
			req:     &Request{BookingID: 7},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown booking",
			req:     &Request{BookingID: 99, AdminID: 1},
			wantErr: ErrBookingNotFound,
		},
		{
			name:    "already rejected",
			req:     &Request{BookingID: 7, AdminID: 1},
			prepare: func(f *fixture) { f.repo.booking.Status = domain.StatusRejected },
			wantErr: ErrNotPending,
		},
		{
			name:    "rejected while waiting for the lock",
			req:     &Request{BookingID: 7, AdminID: 1},
			prepare: func(f *fixture) { f.repo.updateErr = bookingRepo.ErrStatusConflict },
			wantErr: ErrNotPending,
		},
		{
			name:    "update failure",
			req:     &Request{BookingID: 7, AdminID: 1},
			prepare: func(f *fixture) { f.repo.updateErr = errors.New("connection reset") },
			wantErr: ErrInternal,
		},
		{
			name:    "lock failure",
			req:     &Request{BookingID: 7, AdminID: 1},
			prepare: func(f *fixture) { f.locker.err = errors.New("pool exhausted") },
			wantErr: ErrInternal,
		},
		{
			name:    "repository failure",
			req:     &Request{BookingID: 7, AdminID: 1},
			prepare: func(f *fixture) { f.repo.getErr = errors.New("timeout") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}

			resp, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, resp)
			assert.Zero(t, f.resolver.calls)
			assert.Empty(t, f.notifier.payloads)
		})
	}
}
