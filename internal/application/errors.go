package application

import (
	"errors"

	"github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/pkg/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// takenMessage is shown when a unique field collides with another record.
func takenMessage(field string) string {
	return field + " already taken. Choose a different one"
}

// conflictToValidation converts a unique-constraint violation raised at
// write time into the same report the pre-check would have produced.
func conflictToValidation(err error) error {
	var conflict *repository.ConflictError
	if errors.As(err, &conflict) {
		return validation.Errors{conflict.Field: takenMessage(conflict.Field)}
	}
	return err
}
