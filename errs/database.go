package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseConnection = errors.New("database connection failed")
)

// Database & Storage Specific Errors
var (
	ErrUniqueConstraintViolation = errors.New("unique constraint violation")
	ErrForeignKeyConstraint      = errors.New("foreign key constraint violation")
	ErrMigrationFailed           = errors.New("migration failed")
)

func NewNotFound(entity string, identifier string) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
		Details:    identifier,
	}
}

// NewDatabaseError wraps an unexpected storage failure. The details never reach clients.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrDatabaseQuery,
		Details:    fmt.Sprintf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

func NewDatabaseConnectionError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        ErrDatabaseConnection,
		Details:    "unable to connect to database",
		Cause:      cause,
	}
}

// NewUniqueConstraintViolationError answers 409 and keeps the driver error as the cause
func NewUniqueConstraintViolationError(entity, identifier string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        fmt.Errorf("%s %w", entity, ErrAlreadyExists),
		Details:    identifier,
		Cause:      fmt.Errorf("%w: %w", ErrUniqueConstraintViolation, cause),
	}
}

// NewForeignKeyConstraintError answers 404: the row being referenced does not exist
func NewForeignKeyConstraintError(entity, identifier string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%s %w", entity, ErrNotFound),
		Details:    identifier,
		Cause:      fmt.Errorf("%w: %w", ErrForeignKeyConstraint, cause),
	}
}

func NewMigrationError(version int, description string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        ErrMigrationFailed,
		Details:    fmt.Sprintf("migration %d (%s)", version, description),
		Cause:      cause,
	}
}

// Database & Storage Error Type Checkers
func IsUniqueConstraintViolationError(err error) bool {
	return causeIs(err, ErrUniqueConstraintViolation)
}

func IsForeignKeyConstraintError(err error) bool {
	return causeIs(err, ErrForeignKeyConstraint)
}

func causeIs(err, target error) bool {
	var apiErr *ApiErr
	if errors.As(err, &apiErr) && apiErr.Cause != nil {
		return errors.Is(apiErr.Cause, target)
	}
	return errors.Is(err, target)
}
