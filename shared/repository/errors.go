package repository

import (
	"errors"

	"gamasa/shared/constant"

	"github.com/lib/pq"
)

// IsUniqueViolation reports whether err comes from a unique constraint, so callers can map
// concurrent duplicate inserts to a conflict.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
	}

	return false
}
