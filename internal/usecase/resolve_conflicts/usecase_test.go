package resolve_conflicts

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-VenueBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-VenueBookingService/pkg/logger"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

// memRepo ignores the venue filter and the exclusion on purpose:
// the use case must not rely on the store for either.
type memRepo struct {
	bookings  map[int64]*domain.BookingRequest
	listErr   error
	updateErr map[int64]error
	// stale returns this snapshot from ListPending instead of live state
	stale []*domain.BookingRequest
}

func newMemRepo(bs ...*domain.BookingRequest) *memRepo {
	r := &memRepo{bookings: map[int64]*domain.BookingRequest{}, updateErr: map[int64]error{}}
	for _, b := range bs {
		r.bookings[b.ID] = b
	}
	return r
}

func (r *memRepo) ListPending(context.Context, *string, int64) ([]*domain.BookingRequest, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if r.stale != nil {
		return r.stale, nil
	}
	ids := make([]int64, 0, len(r.bookings))
	for id := range r.bookings {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var out []*domain.BookingRequest
	for _, id := range ids {
		b := *r.bookings[id]
		if b.Status == domain.StatusPending || id == 1 {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (r *memRepo) UpdateStatus(_ context.Context, id int64, upd domain.StatusUpdate) error {
	if err := r.updateErr[id]; err != nil {
		return err
	}
	b, ok := r.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	allowed := false
	for _, s := range upd.From {
		if b.Status == s {
			allowed = true
		}
	}
	if !allowed {
		return bookingRepo.ErrStatusConflict
	}
	b.Status = upd.To
	b.RejectionReason = upd.RejectionReason
	reviewedAt := upd.ReviewedAt
	b.ReviewedAt = &reviewedAt
	return nil
}

type sentNotification struct {
	userID  int64
	payload domain.NotificationPayload
}

type memSink struct {
	sent []sentNotification
	err  error
}

func (s *memSink) Notify(_ context.Context, userID int64, p domain.NotificationPayload) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentNotification{userID: userID, payload: p})
	return nil
}

type countMetrics struct {
	rejected int
	failures map[string]int
}

func newCountMetrics() *countMetrics { return &countMetrics{failures: map[string]int{}} }

func (m *countMetrics) IncAutoRejected(string)         { m.rejected++ }
func (m *countMetrics) IncConflictFailure(kind string) { m.failures[kind]++ }

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

var reviewTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int, start, end string) domain.DayInterval {
	return domain.DayInterval{
		Date:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		StartTime: types.TimeString(start),
		EndTime:   types.TimeString(end),
	}
}

func request(id int64, venue string, status domain.BookingStatus, days ...domain.DayInterval) *domain.BookingRequest {
	return &domain.BookingRequest{
		ID:               id,
		Venue:            venue,
		EventTitle:       "Event",
		OrganizationName: "Org",
		RequestedBy:      id + 40,
		Status:           status,
		DayIntervals:     days,
	}
}

func approvedBooking(days ...domain.DayInterval) *domain.BookingRequest {
	b := request(1, "Hall A", domain.StatusApproved, days...)
	b.OrganizationName = "Chess Club"
	return b
}

func newTestUseCase(repo BookingRepository, sink NotificationSink, m Metrics) *UseCase {
	uc := NewUseCase(repo, sink, m, time.UTC, logger.NewNop())
	uc.timeProvider = fixedTime{t: reviewTime}
	return uc
}

func TestExecute_RejectsOverlappingPendingRequest(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	candidate := request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "10:00", "14:00"))
	repo := newMemRepo(approved, candidate)
	sink := &memSink{}
	m := newCountMetrics()

	res, err := newTestUseCase(repo, sink, m).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, res.Rejected)
	assert.Empty(t, res.Failed)

	got := repo.bookings[2]
	assert.Equal(t, domain.StatusRejected, got.Status)
	require.NotNil(t, got.RejectionReason)
	assert.Equal(t,
		"This venue has been booked by Chess Club on this date/time. Please request another date or time.",
		*got.RejectionReason)
	require.NotNil(t, got.ReviewedAt)
	assert.Equal(t, reviewTime, *got.ReviewedAt)
	assert.Equal(t, domain.StatusApproved, repo.bookings[1].Status)
	assert.Equal(t, 1, m.rejected)

	require.Len(t, sink.sent, 1)
	n := sink.sent[0]
	assert.Equal(t, int64(42), n.userID)
	assert.Equal(t, domain.NotificationBookingRejected, n.payload.Type)
	assert.Equal(t, domain.RoleUser, n.payload.Role)
	require.NotNil(t, n.payload.RelatedRequestID)
	assert.Equal(t, int64(2), *n.payload.RelatedRequestID)
	assert.Equal(t, map[string]string{
		"status":          "rejected",
		"venue":           "Hall A",
		"date":            "2025-03-10",
		"orgName":         "Chess Club",
		"rejectionReason": *got.RejectionReason,
	}, n.payload.Data)
}

func TestExecute_OnlyRejectsConflicting(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))

	tests := []struct {
		name      string
		candidate *domain.BookingRequest
		rejected  bool
	}{
		{
			name:      "other venue same time",
			candidate: request(2, "Hall B", domain.StatusPending, day(2025, 3, 10, "08:00", "12:00")),
		},
		{
			name:      "venue name differs only by case",
			candidate: request(2, "hall a", domain.StatusPending, day(2025, 3, 10, "08:00", "12:00")),
		},
		{
			name:      "other date",
			candidate: request(2, "Hall A", domain.StatusPending, day(2025, 3, 11, "08:00", "12:00")),
		},
		{
			name:      "touching at the boundary",
			candidate: request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "12:00", "15:00")),
		},
		{
			name:      "afternoon slot at 13:00",
			candidate: request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "13:00", "17:00")),
		},
		{
			name:      "candidate inside approved window",
			candidate: request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "09:00", "10:00")),
			rejected:  true,
		},
		{
			name:      "already cancelled",
			candidate: request(2, "Hall A", domain.StatusCancelled, day(2025, 3, 10, "08:00", "12:00")),
		},
		{
			name:      "no time windows",
			candidate: request(2, "Hall A", domain.StatusPending),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemRepo(approved, tt.candidate)
			sink := &memSink{}
			before := tt.candidate.Status

			res, err := newTestUseCase(repo, sink, newCountMetrics()).Execute(context.Background(), approved)
			require.NoError(t, err)

			if tt.rejected {
				assert.Equal(t, []int64{2}, res.Rejected)
				assert.Equal(t, domain.StatusRejected, repo.bookings[2].Status)
				assert.Len(t, sink.sent, 1)
				return
			}
			assert.Empty(t, res.Rejected)
			assert.Equal(t, before, repo.bookings[2].Status)
			assert.Empty(t, sink.sent)
		})
	}
}

func TestExecute_HalfDayCarveOut(t *testing.T) {
	tests := []struct {
		name     string
		approved domain.DayInterval
		pending  domain.DayInterval
		rejected bool
	}{
		{"morning to 12:30, afternoon at 13:00", day(2025, 3, 10, "08:00", "12:30"), day(2025, 3, 10, "13:00", "17:00"), false},
		{"morning to 12:00, afternoon at 13:00", day(2025, 3, 10, "08:00", "12:00"), day(2025, 3, 10, "13:00", "18:00"), false},
		{"morning to 12:30, afternoon at 12:45", day(2025, 3, 10, "08:00", "12:30"), day(2025, 3, 10, "12:45", "17:00"), false},
		{"morning to 12:31, afternoon at 12:00", day(2025, 3, 10, "08:00", "12:31"), day(2025, 3, 10, "12:00", "17:00"), true},
		{"approved runs past 13:00", day(2025, 3, 10, "08:00", "14:00"), day(2025, 3, 10, "13:00", "17:00"), true},
		{"afternoon approved, morning pending", day(2025, 3, 10, "13:00", "17:00"), day(2025, 3, 10, "08:00", "12:30"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approved := approvedBooking(tt.approved)
			candidate := request(2, "Hall A", domain.StatusPending, tt.pending)
			repo := newMemRepo(approved, candidate)

			res, err := newTestUseCase(repo, &memSink{}, newCountMetrics()).Execute(context.Background(), approved)
			require.NoError(t, err)

			if tt.rejected {
				assert.Equal(t, []int64{2}, res.Rejected)
			} else {
				assert.Empty(t, res.Rejected)
				assert.Equal(t, domain.StatusPending, repo.bookings[2].Status)
			}
		})
	}
}

func TestExecute_MultiDayCandidateRejectedOnFirstConflictingDay(t *testing.T) {
	approved := approvedBooking(
		day(2025, 3, 10, "08:00", "12:00"),
		day(2025, 3, 12, "08:00", "12:00"),
	)
	candidate := request(2, "Hall A", domain.StatusPending,
		day(2025, 3, 11, "08:00", "12:00"),
		day(2025, 3, 12, "11:00", "13:00"),
		day(2025, 3, 13, "08:00", "12:00"),
	)
	repo := newMemRepo(approved, candidate)
	sink := &memSink{}

	res, err := newTestUseCase(repo, sink, newCountMetrics()).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, res.Rejected)
	require.Len(t, sink.sent, 1)
	assert.Equal(t, "2025-03-12", sink.sent[0].payload.Data["date"])
}

func TestExecute_FallsBackToOverallTimes(t *testing.T) {
	manila := time.FixedZone("PHT", 8*60*60)

	// 00:00-02:00 UTC on the 10th is 08:00-10:00 Manila on the 10th
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	approved := approvedBooking()
	approved.StartAt, approved.EndAt = &start, &end

	candidate := request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "09:00", "11:00"))
	repo := newMemRepo(approved, candidate)

	uc := NewUseCase(repo, &memSink{}, newCountMetrics(), manila, logger.NewNop())
	res, err := uc.Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Equal(t, []int64{2}, res.Rejected)
}

func TestExecute_NeverRejectsApprovedItself(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	approved.Status = domain.StatusPending // store hands it back as a pending row
	repo := newMemRepo(approved)

	res, err := newTestUseCase(repo, &memSink{}, newCountMetrics()).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Empty(t, res.Rejected)
	assert.Equal(t, domain.StatusPending, repo.bookings[1].Status)
}

func TestExecute_SecondRunChangesNothing(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	repo := newMemRepo(
		approved,
		request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "10:00", "11:00")),
		request(3, "Hall A", domain.StatusPending, day(2025, 3, 10, "11:00", "13:00")),
	)
	sink := &memSink{}
	uc := newTestUseCase(repo, sink, newCountMetrics())

	first, err := uc.Execute(context.Background(), approved)
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, first.Rejected)

	second, err := uc.Execute(context.Background(), approved)
	require.NoError(t, err)
	assert.Empty(t, second.Rejected)
	assert.Len(t, sink.sent, 2)
}

func TestExecute_CandidateChangedConcurrently(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	candidate := request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "10:00", "11:00"))
	snapshot := *candidate

	repo := newMemRepo(approved, candidate)
	repo.stale = []*domain.BookingRequest{&snapshot}
	candidate.Status = domain.StatusCancelled

	sink := &memSink{}
	m := newCountMetrics()

	res, err := newTestUseCase(repo, sink, m).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Empty(t, res.Rejected)
	assert.Equal(t, []int64{2}, res.Skipped)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[2].Status)
	assert.Empty(t, sink.sent)
	assert.Zero(t, m.rejected)
}

func TestExecute_UpdateFailureDoesNotStopOthers(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	repo := newMemRepo(
		approved,
		request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "09:00", "10:00")),
		request(3, "Hall A", domain.StatusPending, day(2025, 3, 10, "10:00", "11:00")),
	)
	repo.updateErr[2] = errors.New("connection reset")
	sink := &memSink{}
	m := newCountMetrics()

	res, err := newTestUseCase(repo, sink, m).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Equal(t, []int64{3}, res.Rejected)
	assert.Equal(t, []int64{2}, res.Failed)
	assert.Equal(t, domain.StatusPending, repo.bookings[2].Status)
	assert.Equal(t, domain.StatusRejected, repo.bookings[3].Status)
	assert.Equal(t, 1, m.failures[failureUpdate])
	require.Len(t, sink.sent, 1)
	assert.Equal(t, int64(43), sink.sent[0].userID)
}

func TestExecute_NotificationFailureKeepsRejection(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	repo := newMemRepo(
		approved,
		request(2, "Hall A", domain.StatusPending, day(2025, 3, 10, "09:00", "10:00")),
		request(3, "Hall A", domain.StatusPending, day(2025, 3, 10, "10:00", "11:00")),
	)
	m := newCountMetrics()

	res, err := newTestUseCase(repo, &memSink{err: errors.New("smtp down")}, m).Execute(context.Background(), approved)
	require.NoError(t, err)

	assert.Equal(t, []int64{2, 3}, res.Rejected)
	assert.Equal(t, domain.StatusRejected, repo.bookings[2].Status)
	assert.Equal(t, domain.StatusRejected, repo.bookings[3].Status)
	assert.Equal(t, 2, m.failures[failureNotification])
}

func TestExecute_LookupFailure(t *testing.T) {
	approved := approvedBooking(day(2025, 3, 10, "08:00", "12:00"))
	repo := newMemRepo(approved)
	repo.listErr = errors.New("timeout")
	m := newCountMetrics()

	res, err := newTestUseCase(repo, &memSink{}, m).Execute(context.Background(), approved)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.Nil(t, res)
	assert.Equal(t, 1, m.failures[failureLookup])
	assert.Equal(t, domain.StatusApproved, repo.bookings[1].Status)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(newMemRepo(), &memSink{}, newCountMetrics())

	_, err := uc.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &domain.BookingRequest{Venue: "Hall A"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
