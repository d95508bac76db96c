package repository

import (
	"context"

	"github.com/wasihun-code/goblog/internal/domain/entity"
)

// PostRepository defines post persistence. List queries are ordered newest
// first (date_posted DESC, id DESC) and return the unpaged total alongside.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id int64) (*entity.Post, error)
	GetByTitle(ctx context.Context, title string) (*entity.Post, error)
	// Update persists title, content and date_posted. The owner is never written.
	Update(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]entity.Post, int, error)
	ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]entity.Post, int, error)
}
