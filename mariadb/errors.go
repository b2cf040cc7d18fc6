package mariadb

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
var (
	// ErrRecordNotFound is returned when a query doesn't find any matching records
	ErrRecordNotFound = errors.New("record not found")

	// ErrDuplicateKey is returned when an insert or update violates a unique constraint
	ErrDuplicateKey = errors.New("duplicate key violation")

	// ErrForeignKey is returned when an operation violates a foreign key constraint
	ErrForeignKey = errors.New("foreign key violation")

	// ErrNotNullViolation is returned when trying to insert null into a not-null column
	ErrNotNullViolation = errors.New("not null constraint violation")

	// ErrCheckConstraintViolation is returned when a check constraint is violated
	ErrCheckConstraintViolation = errors.New("check constraint violation")

	// ErrDataTooLong is returned when data exceeds column length limits
	ErrDataTooLong = errors.New("data too long for column")

	// ErrNumericOverflow is returned when a numeric value is out of range
	ErrNumericOverflow = errors.New("numeric value out of range")

	// ErrInvalidQuery is returned when the SQL query is malformed or invalid
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTableNotFound is returned when trying to access a non-existent table
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when trying to access a non-existent column
	ErrColumnNotFound = errors.New("column not found")

	// ErrDatabaseNotFound is returned when the configured database does not exist
	ErrDatabaseNotFound = errors.New("database not found")

	// ErrPermissionDenied is returned when the user lacks necessary permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConnectionFailed is returned when database connection cannot be established
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrConnectionLost is returned when database connection is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrTooManyConnections is returned when the server refuses new connections
	ErrTooManyConnections = errors.New("too many connections")

	// ErrTransactionFailed is returned when a transaction fails to commit or rollback
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrDeadlock is returned when a deadlock is detected during transaction
	ErrDeadlock = errors.New("deadlock detected")

	// ErrLockTimeout is returned when a row lock cannot be acquired in time
	ErrLockTimeout = errors.New("lock wait timeout")

	// ErrQueryTimeout is returned when a statement exceeds its time limit
	ErrQueryTimeout = errors.New("query timeout exceeded")

	// ErrDiskFull is returned when the server runs out of disk space
	ErrDiskFull = errors.New("disk full")
)

// TranslateError converts gorm and MySQL/MariaDB errors into the standardized
// errors above. Errors it does not recognize are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrRecordNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrForeignKey
	case errors.Is(err, gorm.ErrInvalidTransaction):
		return ErrTransactionFailed
	case errors.Is(err, mysql.ErrInvalidConn):
		return ErrConnectionLost
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return translateMySQLError(mysqlErr, err)
	}

	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

func translateMySQLError(mysqlErr *mysql.MySQLError, originalErr error) error {
	switch mysqlErr.Number {
	case 1062, 1586: // ER_DUP_ENTRY, ER_DUP_ENTRY_WITH_KEY_NAME
		return ErrDuplicateKey
	case 1216, 1217, 1451, 1452: // ER_NO_REFERENCED_ROW(_2), ER_ROW_IS_REFERENCED(_2)
		return ErrForeignKey
	case 1048, 1364: // ER_BAD_NULL_ERROR, ER_NO_DEFAULT_FOR_FIELD
		return ErrNotNullViolation
	case 3819, 4025: // ER_CHECK_CONSTRAINT_VIOLATED (MySQL 8.0.16+, MariaDB 10.2+)
		return ErrCheckConstraintViolation
	case 1406: // ER_DATA_TOO_LONG
		return ErrDataTooLong
	case 1264, 1690: // ER_WARN_DATA_OUT_OF_RANGE, ER_DATA_OUT_OF_RANGE
		return ErrNumericOverflow
	case 1064, 1065, 1149: // ER_PARSE_ERROR, ER_EMPTY_QUERY, ER_SYNTAX_ERROR
		return ErrInvalidQuery
	case 1146, 1051: // ER_NO_SUCH_TABLE, ER_BAD_TABLE_ERROR
		return ErrTableNotFound
	case 1054: // ER_BAD_FIELD_ERROR
		return ErrColumnNotFound
	case 1049: // ER_BAD_DB_ERROR
		return ErrDatabaseNotFound
	case 1044, 1045, 1142, 1143, 1227: // access denied family
		return ErrPermissionDenied
	case 1205: // ER_LOCK_WAIT_TIMEOUT
		return ErrLockTimeout
	case 1213: // ER_LOCK_DEADLOCK
		return ErrDeadlock
	case 1040: // ER_CON_COUNT_ERROR
		return ErrTooManyConnections
	case 1158, 1159, 1160, 1161, 2006, 2013, 2055: // network errors, server gone or lost
		return ErrConnectionLost
	case 2002, 2003: // CR_CONNECTION_ERROR, CR_CONN_HOST_ERROR
		return ErrConnectionFailed
	case 1969, 3024: // ER_STATEMENT_TIMEOUT (MariaDB), ER_QUERY_TIMEOUT (MySQL)
		return ErrQueryTimeout
	case 1021: // ER_DISK_FULL
		return ErrDiskFull
	case 1568, 1792: // commit not allowed, read-only transaction
		return ErrTransactionFailed
	default:
		return originalErr
	}
}

// translateByErrorMessage translates errors based on error message patterns (fallback)
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "broken pipe"), strings.Contains(errMsg, "connection reset"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "deadlock"):
		return ErrDeadlock
	case strings.Contains(errMsg, "lock wait timeout"):
		return ErrLockTimeout
	default:
		return originalErr
	}
}

// IsRetryable returns true if the error might be resolved by retrying the
// operation, usually in a fresh transaction. Raw driver errors are translated
// first.
func IsRetryable(err error) bool {
	err = TranslateError(err)
	for _, retryable := range []error{
		ErrConnectionFailed,
		ErrConnectionLost,
		ErrTooManyConnections,
		ErrDeadlock,
		ErrLockTimeout,
		ErrQueryTimeout,
	} {
		if errors.Is(err, retryable) {
			return true
		}
	}
	return false
}
