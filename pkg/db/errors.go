package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	pkgerrors "github.com/tanakritw/officestock-backend/pkg/errors"
)

const (
	pgForeignKeyViolation = "23503"
	pgLockNotAvailable    = "55P03"
	pgUniqueViolation     = "23505"
)

func pgCode(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsForeignKeyViolation reports whether the error is a Postgres foreign key
// constraint failure. SQLite surfaces the same condition as a plain message.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// IsUniqueViolation reports whether the error is a unique constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key value")
}

// IsLockTimeout reports whether the error came from a lock wait exceeding the
// store's timeout, either Postgres lock_timeout or a context deadline.
func IsLockTimeout(err error) bool {
	if err == nil {
		return false
	}
	if pgCode(err) == pgLockNotAvailable {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConnectionFailure reports whether the error means the store connection
// could not be established or was lost, rather than the statement failing.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// WrapError converts a store-level failure into the ledger error taxonomy.
func WrapError(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case IsLockTimeout(err):
		return pkgerrors.Wrap(pkgerrors.CodeOperationTimeout, err, msg)
	case IsConnectionFailure(err):
		return pkgerrors.Wrap(pkgerrors.CodeStoreUnavailable, err, msg)
	case IsForeignKeyViolation(err):
		return pkgerrors.Wrap(pkgerrors.CodeReferentialConflict, err, msg)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, msg)
	}
}
