package booking

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/ptr"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

func newTestRepository(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(dbmetrics.Wrap(db, nil)), mock
}

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows(bookingColumns)
}

func TestRepository_Create(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO booking_requests`).
		WithArgs("Main Hall", "Annual Meeting", "Chess Club", int64(42), "pending", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))
	mock.ExpectExec(`INSERT INTO booking_day_intervals`).
		WithArgs(
			int64(7), 0, day, "09:00", "11:00",
			int64(7), 1, day.AddDate(0, 0, 1), "13:00", "15:00",
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	created, err := repo.Create(context.Background(), &domain.BookingRequest{
		Venue:            "Main Hall",
		EventTitle:       "Annual Meeting",
		OrganizationName: "Chess Club",
		RequestedBy:      42,
		Status:           domain.StatusPending,
		DayIntervals: []domain.DayInterval{
			{Date: day, StartTime: "09:00", EndTime: "11:00"},
			{Date: day.AddDate(0, 0, 1), StartTime: "13:00", EndTime: "15:00"},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(7), created.ID)
	assert.Equal(t, now, created.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	day := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM booking_requests WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(bookingRows().AddRow(
			int64(7), "Main Hall", "Annual Meeting", "Chess Club", int64(42), "approved",
			nil, nil, nil, int64(1), now, now, now,
		))
	mock.ExpectQuery(`SELECT booking_id, day, start_time, end_time FROM booking_day_intervals`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "day", "start_time", "end_time"}).
			AddRow(int64(7), day, []byte("09:00:00"), []byte("11:00:00")))

	got, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.Equal(t, int64(1), *got.ReviewedBy)
	assert.Nil(t, got.StartAt)
	require.Len(t, got.DayIntervals, 1)
	assert.Equal(t, types.TimeString("09:00"), got.DayIntervals[0].StartTime)
	assert.Equal(t, "2025-05-10", got.DayIntervals[0].DateKey())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`SELECT .+ FROM booking_requests`).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_ListPending(t *testing.T) {
	repo, mock := newTestRepository(t)
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM booking_requests WHERE status = \$1 AND id <> \$2 AND venue = \$3 ORDER BY created_at ASC, id ASC`).
		WithArgs("pending", int64(7), "Main Hall").
		WillReturnRows(bookingRows().
			AddRow(int64(8), "Main Hall", "Rehearsal", "Drama Club", int64(43), "pending",
				now, now.Add(2*time.Hour), nil, nil, nil, now, now).
			AddRow(int64(9), "Main Hall", "Practice", "Choir", int64(44), "pending",
				nil, nil, nil, nil, nil, now, now))
	mock.ExpectQuery(`FROM booking_day_intervals WHERE booking_id IN \(\$1,\$2\)`).
		WithArgs(int64(8), int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"booking_id", "day", "start_time", "end_time"}).
			AddRow(int64(9), now, "10:00:00", "12:00:00"))

	got, err := repo.ListPending(context.Background(), ptr.Ptr("Main Hall"), 7)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Empty(t, got[0].DayIntervals)
	require.NotNil(t, got[0].StartAt)
	assert.Len(t, got[1].DayIntervals, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListPending_Empty(t *testing.T) {
	repo, mock := newTestRepository(t)

	mock.ExpectQuery(`FROM booking_requests`).
		WillReturnRows(bookingRows())

	got, err := repo.ListPending(context.Background(), nil, 7)

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	reviewedAt := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	upd := domain.StatusUpdate{
		From:            []domain.BookingStatus{domain.StatusPending},
		To:              domain.StatusRejected,
		RejectionReason: ptr.Ptr("taken"),
		ReviewedAt:      reviewedAt,
	}

	t.Run("updated", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		mock.ExpectExec(`UPDATE booking_requests SET status = \$1, reviewed_at = \$2, updated_at = NOW\(\), rejection_reason = \$3 WHERE id = \$4 AND status IN \(\$5\)`).
			WithArgs("rejected", reviewedAt, "taken", int64(8), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), 8, upd))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("withdrawal keeps reviewed_at untouched", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		mock.ExpectExec(`UPDATE booking_requests SET status = \$1, updated_at = NOW\(\) WHERE id = \$2 AND status IN \(\$3\)`).
			WithArgs("cancelled", int64(8), "pending").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(context.Background(), 8, domain.StatusUpdate{
			From: []domain.BookingStatus{domain.StatusPending},
			To:   domain.StatusCancelled,
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("status already changed", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		mock.ExpectExec(`UPDATE booking_requests`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM booking_requests WHERE id = \$1`).
			WithArgs(int64(8)).
			WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

		err := repo.UpdateStatus(context.Background(), 8, upd)
		assert.ErrorIs(t, err, ErrStatusConflict)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newTestRepository(t)
		mock.ExpectExec(`UPDATE booking_requests`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT 1 FROM booking_requests`).
			WillReturnError(sql.ErrNoRows)

		err := repo.UpdateStatus(context.Background(), 8, upd)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}
