package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Common database error types that can be used by consumers of this package.
// dbscope returns driver errors unchanged; TranslateError maps them onto these
// when an application wants database-agnostic handling.
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

	// ErrConstraintViolation is returned for general constraint violations
	ErrConstraintViolation = errors.New("constraint violation")

	// ErrInvalidData is returned when the data being saved doesn't meet validation rules
	ErrInvalidData = errors.New("invalid data")

	// ErrDataTooLong is returned when data exceeds column length limits
	ErrDataTooLong = errors.New("data too long for column")

	// ErrNumericOverflow is returned when a numeric value is out of range
	ErrNumericOverflow = errors.New("numeric value out of range")

	// ErrDivisionByZero is returned on division by zero
	ErrDivisionByZero = errors.New("division by zero")

	// ErrInvalidQuery is returned when the SQL query is malformed or invalid
	ErrInvalidQuery = errors.New("invalid query")

	// ErrTableNotFound is returned when trying to access a non-existent table
	ErrTableNotFound = errors.New("table not found")

	// ErrColumnNotFound is returned when trying to access a non-existent column
	ErrColumnNotFound = errors.New("column not found")

	// ErrPermissionDenied is returned when the user lacks necessary permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidPassword is returned when authentication fails
	ErrInvalidPassword = errors.New("invalid password")

	// ErrConnectionFailed is returned when database connection cannot be established
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrConnectionLost is returned when database connection is lost
	ErrConnectionLost = errors.New("connection lost")

	// ErrTooManyConnections is returned when the server refuses new connections
	ErrTooManyConnections = errors.New("too many connections")

	// ErrTransactionFailed is returned when a transaction fails to commit or rollback
	ErrTransactionFailed = errors.New("transaction failed")

	// ErrSerializationFailure is returned when a serializable transaction cannot be completed
	ErrSerializationFailure = errors.New("serialization failure")

	// ErrDeadlock is returned when a deadlock is detected during transaction
	ErrDeadlock = errors.New("deadlock detected")

	// ErrLockTimeout is returned when a lock cannot be acquired in time
	ErrLockTimeout = errors.New("lock timeout")

	// ErrQueryTimeout is returned when a query exceeds the allowed timeout
	ErrQueryTimeout = errors.New("query timeout exceeded")

	// ErrQueryCanceled is returned when the server canceled a statement on request
	ErrQueryCanceled = errors.New("query canceled")

	// ErrIdleInTransaction is returned when an idle transaction was terminated
	ErrIdleInTransaction = errors.New("idle in transaction timeout")

	// ErrDiskFull is returned when the server runs out of disk space
	ErrDiskFull = errors.New("disk full")

	// ErrUnsupportedOperation is returned for features the server does not support
	ErrUnsupportedOperation = errors.New("unsupported operation")

	// ErrInternalError is returned for internal database errors
	ErrInternalError = errors.New("internal database error")
)

// TranslateError converts gorm and PostgreSQL errors into the standardized
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
	case errors.Is(err, gorm.ErrInvalidData):
		return ErrInvalidData
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return translateCode(pgErr.Code, err)
	}

	return translateByErrorMessage(strings.ToLower(err.Error()), err)
}

// translateCode maps SQLSTATE codes, falling back to the code class.
func translateCode(code string, originalErr error) error {
	switch code {
	case "23505": // unique_violation
		return ErrDuplicateKey
	case "23503": // foreign_key_violation
		return ErrForeignKey
	case "23502": // not_null_violation
		return ErrNotNullViolation
	case "23514": // check_violation
		return ErrCheckConstraintViolation
	case "22001": // string_data_right_truncation
		return ErrDataTooLong
	case "22003", "22008", "22015": // numeric_value_out_of_range, datetime_field_overflow, interval_field_overflow
		return ErrNumericOverflow
	case "22012": // division_by_zero
		return ErrDivisionByZero
	case "42P01": // undefined_table
		return ErrTableNotFound
	case "42703": // undefined_column
		return ErrColumnNotFound
	case "42501": // insufficient_privilege
		return ErrPermissionDenied
	case "28P01", "28000": // invalid_password, invalid_authorization_specification
		return ErrInvalidPassword
	case "40001": // serialization_failure
		return ErrSerializationFailure
	case "40P01": // deadlock_detected
		return ErrDeadlock
	case "55P03": // lock_not_available
		return ErrLockTimeout
	case "57014": // query_canceled
		return ErrQueryCanceled
	case "25P03": // idle_in_transaction_session_timeout
		return ErrIdleInTransaction
	case "53300": // too_many_connections
		return ErrTooManyConnections
	case "53100": // disk_full
		return ErrDiskFull
	case "08003", "08006", "57P01": // connection_does_not_exist, connection_failure, admin_shutdown
		return ErrConnectionLost
	case "0A000": // feature_not_supported
		return ErrUnsupportedOperation
	}

	if len(code) < 2 {
		return originalErr
	}
	switch code[:2] {
	case "08":
		return ErrConnectionFailed
	case "22":
		return ErrInvalidData
	case "23":
		return ErrConstraintViolation
	case "25", "40":
		return ErrTransactionFailed
	case "42":
		return ErrInvalidQuery
	case "XX":
		return ErrInternalError
	default:
		return originalErr
	}
}

// translateByErrorMessage translates errors based on error message patterns (fallback)
func translateByErrorMessage(errMsg string, originalErr error) error {
	switch {
	case strings.Contains(errMsg, "connection refused"):
		return ErrConnectionFailed
	case strings.Contains(errMsg, "connection reset"),
		strings.Contains(errMsg, "server closed the connection"),
		strings.Contains(errMsg, "conn closed"):
		return ErrConnectionLost
	case strings.Contains(errMsg, "too many clients"):
		return ErrTooManyConnections
	case strings.Contains(errMsg, "deadlock"):
		return ErrDeadlock
	case strings.Contains(errMsg, "lock timeout"):
		return ErrLockTimeout
	case strings.Contains(errMsg, "timeout"):
		return ErrQueryTimeout
	default:
		return originalErr
	}
}

// ErrorCategory represents different categories of database errors
type ErrorCategory int

const (
	CategoryUnknown ErrorCategory = iota
	CategoryConnection
	CategoryQuery
	CategoryData
	CategoryConstraint
	CategoryPermission
	CategoryTransaction
	CategoryResource
	CategorySystem
)

// GetErrorCategory returns the category of a translated error.
func GetErrorCategory(err error) ErrorCategory {
	switch {
	case errors.Is(err, ErrConnectionFailed), errors.Is(err, ErrConnectionLost), errors.Is(err, ErrTooManyConnections):
		return CategoryConnection
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrQueryTimeout), errors.Is(err, ErrQueryCanceled),
		errors.Is(err, ErrTableNotFound), errors.Is(err, ErrColumnNotFound), errors.Is(err, ErrRecordNotFound):
		return CategoryQuery
	case errors.Is(err, ErrInvalidData), errors.Is(err, ErrDataTooLong), errors.Is(err, ErrNumericOverflow), errors.Is(err, ErrDivisionByZero):
		return CategoryData
	case errors.Is(err, ErrDuplicateKey), errors.Is(err, ErrForeignKey), errors.Is(err, ErrConstraintViolation),
		errors.Is(err, ErrCheckConstraintViolation), errors.Is(err, ErrNotNullViolation):
		return CategoryConstraint
	case errors.Is(err, ErrPermissionDenied), errors.Is(err, ErrInvalidPassword):
		return CategoryPermission
	case errors.Is(err, ErrTransactionFailed), errors.Is(err, ErrDeadlock), errors.Is(err, ErrSerializationFailure), errors.Is(err, ErrIdleInTransaction):
		return CategoryTransaction
	case errors.Is(err, ErrDiskFull), errors.Is(err, ErrLockTimeout):
		return CategoryResource
	case errors.Is(err, ErrInternalError), errors.Is(err, ErrUnsupportedOperation):
		return CategorySystem
	default:
		return CategoryUnknown
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
		ErrQueryTimeout,
		ErrDeadlock,
		ErrLockTimeout,
		ErrSerializationFailure,
		ErrIdleInTransaction,
	} {
		if errors.Is(err, retryable) {
			return true
		}
	}
	return false
}
