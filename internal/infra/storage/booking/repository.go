package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
)

const (
	bookingsTable  = "booking_requests"
	intervalsTable = "booking_day_intervals"
)

var bookingColumns = []string{
	"id",
	"venue",
	"event_title",
	"organization_name",
	"requested_by",
	"status",
	"start_at",
	"end_at",
	"rejection_reason",
	"reviewed_by",
	"reviewed_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий заявок на бронирование площадок
// Интервалы по дням хранятся в отдельной таблице booking_day_intervals
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает заявку вместе с её интервалами
// Вызывать внутри транзакции (TransactionManager), иначе заявка может сохраниться без интервалов
func (r *Repository) Create(ctx context.Context, booking *domain.BookingRequest) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(bookingsTable).
		Columns(
			"venue",
			"event_title",
			"organization_name",
			"requested_by",
			"status",
			"start_at",
			"end_at",
		).
		Values(
			booking.Venue,
			booking.EventTitle,
			booking.OrganizationName,
			booking.RequestedBy,
			booking.Status,
			booking.StartAt,
			booking.EndAt,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&booking.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if len(booking.DayIntervals) == 0 {
		return booking, nil
	}

	insert := psqlbuilder.Insert(intervalsTable).
		Columns("booking_id", "position", "day", "start_time", "end_time")
	for i, interval := range booking.DayIntervals {
		insert = insert.Values(booking.ID, i, interval.Date, interval.StartTime, interval.EndTime)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build intervals insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert intervals: %v", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает заявку по ID вместе с интервалами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	if err := r.attachIntervals(ctx, executor, []*domain.BookingRequest{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// List получает заявки с фильтрацией по площадке, статусу и автору
// Сортировка: сначала новые
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		OrderBy("created_at DESC", "id DESC")

	if filter.Venue != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue": *filter.Venue})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.RequestedBy != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"requested_by": *filter.RequestedBy})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "List", query, args)
}

// ListPending получает все заявки в статусе pending, кроме excludeID
// Если venue задан, выборка ограничивается этой площадкой
// Порядок: по времени создания (старые заявки обрабатываются первыми)
func (r *Repository) ListPending(ctx context.Context, venue *string, excludeID int64) ([]*domain.BookingRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From(bookingsTable).
		Where(squirrel.Eq{"status": domain.StatusPending}).
		Where(squirrel.NotEq{"id": excludeID}).
		OrderBy("created_at ASC", "id ASC")

	if venue != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"venue": *venue})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListPending - build select query: %v", ErrBuildQuery, err)
	}

	return r.queryBookings(ctx, executor, "ListPending", query, args)
}

// UpdateStatus выполняет переход статуса с проверкой текущего статуса (compare-and-set)
// Возвращает ErrStatusConflict, если заявка существует, но её статус не входит в upd.From
func (r *Repository) UpdateStatus(ctx context.Context, id int64, upd domain.StatusUpdate) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	from := make([]string, len(upd.From))
	for i, s := range upd.From {
		from[i] = string(s)
	}

	updateBuilder := psqlbuilder.Update(bookingsTable).
		Set("status", upd.To)

	if !upd.ReviewedAt.IsZero() {
		updateBuilder = updateBuilder.Set("reviewed_at", upd.ReviewedAt)
	}

	updateBuilder = updateBuilder.
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Eq{"status": from})

	if upd.RejectionReason != nil {
		updateBuilder = updateBuilder.Set("rejection_reason", *upd.RejectionReason)
	}
	if upd.ReviewedBy != nil {
		updateBuilder = updateBuilder.Set("reviewed_by", *upd.ReviewedBy)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected > 0 {
		return nil
	}

	exists, err := r.exists(ctx, executor, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrBookingNotFound
	}
	return ErrStatusConflict
}

func (r *Repository) exists(ctx context.Context, executor DBExecutor, id int64) (bool, error) {
	query, args, err := psqlbuilder.Select("1").
		From(bookingsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("%w: exists - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: exists - scan: %v", ErrScanRow, err)
	}
	return true, nil
}

func (r *Repository) queryBookings(ctx context.Context, executor DBExecutor, op string, query string, args []interface{}) ([]*domain.BookingRequest, error) {
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	bookings := make([]*domain.BookingRequest, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan row: %v", ErrScanRow, op, err)
		}
		bookings = append(bookings, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	if err := r.attachIntervals(ctx, executor, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// attachIntervals загружает интервалы одним запросом для всех заявок
func (r *Repository) attachIntervals(ctx context.Context, executor DBExecutor, bookings []*domain.BookingRequest) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]int64, len(bookings))
	byID := make(map[int64]*domain.BookingRequest, len(bookings))
	for i, b := range bookings {
		ids[i] = b.ID
		byID[b.ID] = b
	}

	query, args, err := psqlbuilder.Select("booking_id", "day", "start_time", "end_time").
		From(intervalsTable).
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: attachIntervals - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachIntervals - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var interval domain.DayInterval
		if err := rows.Scan(&bookingID, &interval.Date, &interval.StartTime, &interval.EndTime); err != nil {
			return fmt.Errorf("%w: attachIntervals - scan row: %v", ErrScanRow, err)
		}
		interval.Date = domain.DateOnly(interval.Date)

		if b, ok := byID[bookingID]; ok {
			b.DayIntervals = append(b.DayIntervals, interval)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachIntervals - rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.BookingRequest, error) {
	var booking domain.BookingRequest
	var startAt, endAt, reviewedAt, createdAt, updatedAt sql.NullTime
	var rejectionReason sql.NullString
	var reviewedBy sql.NullInt64

	err := row.Scan(
		&booking.ID,
		&booking.Venue,
		&booking.EventTitle,
		&booking.OrganizationName,
		&booking.RequestedBy,
		&booking.Status,
		&startAt,
		&endAt,
		&rejectionReason,
		&reviewedBy,
		&reviewedAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if startAt.Valid {
		booking.StartAt = &startAt.Time
	}
	if endAt.Valid {
		booking.EndAt = &endAt.Time
	}
	if rejectionReason.Valid {
		booking.RejectionReason = &rejectionReason.String
	}
	if reviewedBy.Valid {
		booking.ReviewedBy = &reviewedBy.Int64
	}
	if reviewedAt.Valid {
		booking.ReviewedAt = &reviewedAt.Time
	}
	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}
