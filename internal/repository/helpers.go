package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

// HandleNotFound processes a database query result, converting sql.ErrNoRows
// to a nil result without error. This is a common pattern for Find* operations
// where a missing row is not an error condition.
func HandleNotFound[T any](result *T, err error) (*T, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation. Used by the room-code insert retry loop.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
