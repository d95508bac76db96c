package entity

import (
	"time"
)

// DefaultImage is the avatar a user keeps until they upload their own.
const DefaultImage = "default.jpg"

// User is the aggregate root for the user domain.
// Password holds a bcrypt hash, never the plaintext.
// Image is a bare filename; the avatar store turns it into a URL.
type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string
	Image     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCustomImage reports whether the user replaced the default avatar.
func (u *User) HasCustomImage() bool {
	return u.Image != "" && u.Image != DefaultImage
}
