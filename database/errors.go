package database

import (
	"errors"
	"strings"

	"github.com/rpupo63/personal-blog-backend/errs"
	"gorm.io/gorm"
)

// Driver messages for constraint failures that slip past gorm's TranslateError
var (
	uniqueViolationMessages = []string{
		"UNIQUE constraint failed",
		"duplicate key value",
		"SQLSTATE 23505",
	}
	foreignKeyViolationMessages = []string{
		"FOREIGN KEY constraint failed",
		"violates foreign key constraint",
		"SQLSTATE 23503",
	}
)

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || containsAny(err.Error(), uniqueViolationMessages)
}

func isForeignKeyViolation(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) || containsAny(err.Error(), foreignKeyViolationMessages)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// translateError maps a storage failure onto the API error taxonomy.
// identifier names the offending value (e.g. `slug "hello"`) and is only shown for 404 and 409.
// ApiErrs pass through untouched.
func translateError(err error, operation, entity, identifier string) error {
	if err == nil {
		return nil
	}

	var apiErr *errs.ApiErr
	if errors.As(err, &apiErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errs.NewNotFound(entity, identifier)
	case isUniqueViolation(err):
		return errs.NewUniqueConstraintViolationError(entity, identifier, err)
	case isForeignKeyViolation(err):
		return errs.NewForeignKeyConstraintError(entity, identifier, err)
	default:
		return errs.NewDatabaseError(operation, entity, err)
	}
}
