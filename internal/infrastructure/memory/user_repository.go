package memory

import (
	"context"
	"sync"
	"time"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/internal/domain/repository"
)

// UserRepository keeps users in process memory. It enforces the same
// unique username and email constraints as the users table.
type UserRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]entity.User
	now    func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{byID: make(map[int64]entity.User), now: time.Now}
}

func (r *UserRepository) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.checkUnique(0, u.Username, u.Email); err != nil {
		return err
	}
	if u.Image == "" {
		u.Image = entity.DefaultImage
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = r.now().UTC()
	u.UpdatedAt = u.CreatedAt
	r.byID[u.ID] = *u
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Username == username })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u entity.User) bool { return u.Email == email })
}

func (r *UserRepository) find(match func(entity.User) bool) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.byID {
		if match(u) {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[u.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(u.ID, u.Username, u.Email); err != nil {
		return err
	}
	cur.Username = u.Username
	cur.Email = u.Email
	cur.Image = u.Image
	cur.UpdatedAt = r.now().UTC()
	r.byID[u.ID] = cur
	u.UpdatedAt = cur.UpdatedAt
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	cur.Password = hash
	cur.UpdatedAt = r.now().UTC()
	r.byID[id] = cur
	return nil
}

// Len reports how many users are stored.
func (r *UserRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// checkUnique must be called with mu held. self is excluded from the check.
func (r *UserRepository) checkUnique(self int64, username, email string) error {
	for id, u := range r.byID {
		if id == self {
			continue
		}
		if u.Username == username {
			return &repository.ConflictError{Field: "username"}
		}
		if u.Email == email {
			return &repository.ConflictError{Field: "email"}
		}
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)

// lookup is used by PostRepository to resolve authors.
func (r *UserRepository) lookup(id int64) (entity.User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	return u, ok
}
