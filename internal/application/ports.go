package application

import (
	"context"
	"time"

	"github.com/wasihun-code/goblog/internal/domain/entity"
)

// AvatarStore persists profile pictures and resolves their public URL.
type AvatarStore interface {
	Save(ctx context.Context, name, contentType string, data []byte) error
	URL(name string) string
}

// ResetMessage carries everything a notifier needs to deliver a reset link.
type ResetMessage struct {
	User      *entity.User
	Token     string
	Link      string
	ExpiresAt time.Time
	IP        string
	UserAgent string
}

// Notifier delivers password reset links out of band.
type Notifier interface {
	SendReset(ctx context.Context, msg ResetMessage) error
}

// SearchHit is one post matched by a full text search.
type SearchHit struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Author     string    `json:"author"`
	DatePosted time.Time `json:"date_posted"`
	Score      float64   `json:"score"`
}

// PostIndexer mirrors posts into a search engine.
type PostIndexer interface {
	Index(ctx context.Context, p *entity.Post) error
	Remove(ctx context.Context, id int64) error
	Search(ctx context.Context, q string, size int) ([]SearchHit, error)
}
