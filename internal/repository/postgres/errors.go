// internal/repository/postgres/errors.go
package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"portfolio-tracker/internal/util"
)

// SQLSTATE codes mapped to sentinel errors.
const (
	uniqueViolation        = pq.ErrorCode("23505")
	checkViolation         = pq.ErrorCode("23514")
	numericValueOutOfRange = pq.ErrorCode("22003")
)

// mapError converts driver errors into the application's sentinel errors.
// Unrecognised errors are wrapped with msg.
func mapError(err error, msg string, args ...interface{}) error {
	if errors.Is(err, sql.ErrNoRows) {
		return util.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), util.ErrDuplicateEntry)
		case checkViolation, numericValueOutOfRange:
			return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), util.ErrValidation)
		}
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(msg, args...), err)
}
