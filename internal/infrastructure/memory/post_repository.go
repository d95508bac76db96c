package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/internal/domain/repository"
)

// PostRepository keeps posts in process memory. Authors are resolved from
// users on read, mirroring the join the Postgres repository performs.
type PostRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]entity.Post
	users  *UserRepository
}

func NewPostRepository(users *UserRepository) *PostRepository {
	return &PostRepository{byID: make(map[int64]entity.Post), users: users}
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkTitle(0, p.Title); err != nil {
		return err
	}
	if _, ok := r.users.lookup(p.UserID); !ok {
		return repository.ErrNotFound
	}
	r.nextID++
	p.ID = r.nextID
	stored := *p
	stored.Author = nil
	r.byID[p.ID] = stored
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id int64) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return r.withAuthor(p), nil
}

func (r *PostRepository) GetByTitle(_ context.Context, title string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.Title == title {
			return r.withAuthor(p), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkTitle(p.ID, p.Title); err != nil {
		return err
	}
	cur.Title = p.Title
	cur.Content = p.Content
	cur.DatePosted = p.DatePosted
	r.byID[p.ID] = cur
	return nil
}

func (r *PostRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *PostRepository) List(_ context.Context, limit, offset int) ([]entity.Post, int, error) {
	return r.page(func(entity.Post) bool { return true }, limit, offset)
}

func (r *PostRepository) ListByAuthor(_ context.Context, userID int64, limit, offset int) ([]entity.Post, int, error) {
	return r.page(func(p entity.Post) bool { return p.UserID == userID }, limit, offset)
}

// Len reports how many posts are stored.
func (r *PostRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

func (r *PostRepository) page(keep func(entity.Post) bool, limit, offset int) ([]entity.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]entity.Post, 0, len(r.byID))
	for _, p := range r.byID {
		if keep(p) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.DatePosted.Equal(b.DatePosted) {
			return a.DatePosted.After(b.DatePosted)
		}
		return a.ID > b.ID
	})

	total := len(matched)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []entity.Post{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]entity.Post, 0, end-offset)
	for _, p := range matched[offset:end] {
		out = append(out, *r.withAuthor(p))
	}
	return out, total, nil
}

func (r *PostRepository) withAuthor(p entity.Post) *entity.Post {
	if u, ok := r.users.lookup(p.UserID); ok {
		p.Author = &u
	}
	return &p
}

// checkTitle must be called with mu held.
func (r *PostRepository) checkTitle(self int64, title string) error {
	for id, p := range r.byID {
		if id != self && p.Title == title {
			return &repository.ConflictError{Field: "title"}
		}
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
