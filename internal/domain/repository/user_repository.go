package repository

import (
	"context"

	"github.com/wasihun-code/goblog/internal/domain/entity"
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// Update persists username, email and image.
	Update(ctx context.Context, u *entity.User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
}
