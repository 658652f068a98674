package venuelock

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-VenueBookingService/pkg/psqlbuilder"
)

var (
	// ErrAcquire возвращается, когда не удалось получить блокировку площадки
	ErrAcquire = errors.New("venuelock: failed to acquire venue lock")

	// ErrRelease возвращается, когда не удалось снять блокировку площадки
	ErrRelease = errors.New("venuelock: failed to release venue lock")
)

// ConnProvider источник выделенных соединений (*sql.DB, *dbmetrics.DB)
type ConnProvider interface {
	Conn(ctx context.Context) (*sql.Conn, error)
}

// Locker сериализует операции над одной площадкой через advisory lock PostgreSQL
// Блокировка session-level и держится на выделенном соединении,
// поэтому запросы внутри fn могут идти через пул и фиксироваться независимо
type Locker struct {
	db ConnProvider
}

// NewLocker создает новый экземпляр Locker
func NewLocker(db ConnProvider) *Locker {
	return &Locker{db: db}
}

// WithVenueLock выполняет fn, удерживая блокировку площадки venue
// Ожидание блокировки прерывается отменой ctx
func (l *Locker) WithVenueLock(ctx context.Context, venue string, fn func(ctx context.Context) error) (err error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("%w: get connection: %v", ErrAcquire, err)
	}
	defer conn.Close()

	if err := l.exec(ctx, conn, "pg_advisory_lock(hashtext(?))", venue); err != nil {
		return fmt.Errorf("%w: venue=%s: %v", ErrAcquire, venue, err)
	}

	defer func() {
		unlockErr := l.exec(context.WithoutCancel(ctx), conn, "pg_advisory_unlock(hashtext(?))", venue)
		if unlockErr == nil {
			return
		}
		// Соединение с неснятой блокировкой нельзя возвращать в пул
		_ = conn.Raw(func(interface{}) error { return driver.ErrBadConn })
		if err == nil {
			err = fmt.Errorf("%w: venue=%s: %v", ErrRelease, venue, unlockErr)
		}
	}()

	return fn(ctx)
}

func (l *Locker) exec(ctx context.Context, conn *sql.Conn, expr string, venue string) error {
	query, args, err := psqlbuilder.Select().Column(squirrel.Expr(expr, venue)).ToSql()
	if err != nil {
		return err
	}
	_, err = conn.ExecContext(ctx, query, args...)
	return err
}
