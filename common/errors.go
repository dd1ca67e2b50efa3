package common

import (
	"errors"
	"fmt"

	"github.com/go-mysql-org/go-mysql/mysql"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrTableDoesNotExist      = fmt.Errorf("table does not exist")
	ErrTableAlreadyExists     = fmt.Errorf("table already exists")
	ErrColumnDoesNotExist     = fmt.Errorf("column does not exist")
	ErrTableHasNoColumns      = fmt.Errorf("table has no visible columns")
	ErrShardAlreadyCommitted  = fmt.Errorf("shard already committed")
	ErrDataSourceNotSupported = fmt.Errorf("data source not supported")
	ErrDataTypeNotSupported   = fmt.Errorf("data type not supported")
	ErrMethodNotSupported     = fmt.Errorf("method not supported")
	ErrPredicateNotSupported  = fmt.Errorf("predicate not supported")
	ErrInvalidRequest         = fmt.Errorf("invalid request")
	ErrInvalidFragment        = fmt.Errorf("invalid shard commit fragment")
	ErrEmptyTableName         = fmt.Errorf("empty table name")
	ErrInvariantViolation     = fmt.Errorf("implementation error (invariant violation)")
)

// IsConstraintViolation reports whether err is a unique or primary key
// violation raised by one of the supported database drivers. The catalog
// relies on this to turn duplicate inserts into domain errors.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.UniqueViolation
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var myErr *mysql.MyError
	if errors.As(err, &myErr) {
		return myErr.Code == mysql.ER_DUP_ENTRY
	}

	return false
}

// IsRetriableError reports whether the operation that produced err may
// succeed on a fresh attempt (connection-level failures, serialization
// conflicts). Constraint violations are never retriable.
func IsRetriableError(err error) bool {
	if err == nil {
		return false
	}

	if IsConstraintViolation(err) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.SerializationFailure,
			pgerrcode.DeadlockDetected,
			pgerrcode.ConnectionException,
			pgerrcode.ConnectionFailure,
			pgerrcode.AdminShutdown,
			pgerrcode.CannotConnectNow:
			return true
		}

		return false
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}

	return false
}
