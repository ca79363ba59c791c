package repositories

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Error kinds every backend failure is classified into.
var (
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrQuery            = errors.New("query failed")
	ErrIntegrity        = errors.New("integrity violation")
)

// classify wraps err with its kind so callers can test the kind with
// errors.Is and still reach the driver error.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", kindOf(err), op, err)
}

func kindOf(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "08", "57", "53": // connection exception, operator intervention, insufficient resources
			return ErrStoreUnavailable
		case "23":
			return ErrIntegrity
		default:
			return ErrQuery
		}
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return ErrIntegrity
		case sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR:
			return ErrStoreUnavailable
		default:
			return ErrQuery
		}
	}

	var netErr net.Error
	switch {
	case errors.Is(err, errPlayerNotRegistered):
		return ErrIntegrity
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, redis.ErrClosed),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return ErrStoreUnavailable
	}
	return ErrQuery
}
