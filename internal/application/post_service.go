package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	repo "github.com/wasihun-code/goblog/internal/domain/repository"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/validation"
)

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 5

type PostService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Indexer PostIndexer
	Logger  *logrus.Logger

	now func() time.Time
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, indexer PostIndexer, logger *logrus.Logger) *PostService {
	return &PostService{Posts: posts, Users: users, Indexer: indexer, Logger: logger, now: time.Now}
}

func (s *PostService) clock() time.Time {
	if s.now == nil {
		return time.Now().UTC()
	}
	return s.now().UTC()
}

type PostInput struct {
	Title   string `json:"title" form:"title" validate:"required,title"`
	Content string `json:"content" form:"content" validate:"required"`
}

func (s *PostService) validate(ctx context.Context, self int64, in *PostInput) error {
	in.Title = strings.TrimSpace(in.Title)

	errs := validation.Struct(*in)
	if _, bad := errs["title"]; !bad {
		p, err := s.Posts.GetByTitle(ctx, in.Title)
		switch {
		case errors.Is(err, repo.ErrNotFound):
		case err != nil:
			return fmt.Errorf("lookup post: %w", err)
		case p.ID != self:
			errs.Add("title", takenMessage("title"))
		}
	}
	return errs.Err()
}

// Create stores a new post owned by ownerID, stamped with the current time.
func (s *PostService) Create(ctx context.Context, ownerID int64, in PostInput) (*entity.Post, error) {
	if err := s.validate(ctx, 0, &in); err != nil {
		return nil, err
	}
	p := &entity.Post{
		Title:      in.Title,
		Content:    in.Content,
		DatePosted: s.clock(),
		UserID:     ownerID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, conflictToValidation(err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return p, nil
}

// Authorize loads the post and checks editorID owns it.
func (s *PostService) Authorize(ctx context.Context, id, editorID int64) (*entity.Post, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.OwnedBy(editorID) {
		return nil, ErrForbidden
	}
	return p, nil
}

// Update replaces title and content and refreshes DatePosted. Only the owner
// may edit; the owner itself never changes.
func (s *PostService) Update(ctx context.Context, id, editorID int64, in PostInput) (*entity.Post, error) {
	p, err := s.Authorize(ctx, id, editorID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, p.ID, &in); err != nil {
		return nil, err
	}
	p.Title = in.Title
	p.Content = in.Content
	p.DatePosted = s.clock()
	if err := s.Posts.Update(ctx, p); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, conflictToValidation(err)
	}
	s.index(ctx, p)
	return p, nil
}

func (s *PostService) Delete(ctx context.Context, id, editorID int64) error {
	p, err := s.Authorize(ctx, id, editorID)
	if err != nil {
		return err
	}
	if err := s.Posts.Delete(ctx, p.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}
	if s.Indexer != nil {
		if err := s.Indexer.Remove(ctx, p.ID); err != nil {
			helpers.LogError(s.Logger, "search remove failed", err, logrus.Fields{"post_id": p.ID})
		}
	}
	return nil
}

// List returns one page of all posts, newest first. Pages past the end are empty.
func (s *PostService) List(ctx context.Context, page, size int) (entity.Page[entity.Post], error) {
	page, size = normalizePage(page, size)
	items, total, err := s.Posts.List(ctx, size, entity.Offset(page, size))
	if err != nil {
		return entity.Page[entity.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return entity.NewPage(items, page, size, total), nil
}

// ListByAuthor returns one page of username's posts, newest first.
func (s *PostService) ListByAuthor(ctx context.Context, username string, page, size int) (*entity.User, entity.Page[entity.Post], error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, entity.Page[entity.Post]{}, ErrUserNotFound
	}
	if err != nil {
		return nil, entity.Page[entity.Post]{}, fmt.Errorf("lookup user: %w", err)
	}

	page, size = normalizePage(page, size)
	items, total, err := s.Posts.ListByAuthor(ctx, u.ID, size, entity.Offset(page, size))
	if err != nil {
		return nil, entity.Page[entity.Post]{}, fmt.Errorf("list posts: %w", err)
	}
	return u, entity.NewPage(items, page, size, total), nil
}

// Search queries the post index. Without an indexer it finds nothing.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]SearchHit, error) {
	q = strings.TrimSpace(q)
	if s.Indexer == nil || q == "" {
		return []SearchHit{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	hits, err := s.Indexer.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return hits, nil
}

func (s *PostService) index(ctx context.Context, p *entity.Post) {
	if s.Indexer == nil {
		return
	}
	if p.Author == nil && s.Users != nil {
		if u, err := s.Users.GetByID(ctx, p.UserID); err == nil {
			p.Author = u
		}
	}
	if err := s.Indexer.Index(ctx, p); err != nil {
		helpers.LogError(s.Logger, "search index failed", err, logrus.Fields{"post_id": p.ID})
	}
}

func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return page, size
}
