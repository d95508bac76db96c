package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

// ConflictError reports a unique constraint rejected a write.
// Field names the column the user can fix: username, email or title.
type ConflictError struct {
	Field string
	Err   error
}

func (e *ConflictError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s already exists", e.Field)
	}
	return fmt.Sprintf("%s already exists: %v", e.Field, e.Err)
}

func (e *ConflictError) Unwrap() error { return e.Err }
