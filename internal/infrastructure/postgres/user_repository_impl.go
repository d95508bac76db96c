package postgres

import (
	"context"
	"fmt"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/internal/domain/repository"
)

const userColumns = `id, username, email, password, image, created_at, updated_at`

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	if u.Image == "" {
		u.Image = entity.DefaultImage
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, image)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Username, u.Email, u.Password, u.Image)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, query, arg)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Image,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET username = $1, email = $2, image = $3, updated_at = now()
		WHERE id = $4
		RETURNING updated_at
	`, u.Username, u.Email, u.Image, u.ID)

	if err := row.Scan(&u.UpdatedAt); err != nil {
		return fmt.Errorf("update user: %w", translate(err))
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, hash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = now() WHERE id = $2
	`, hash, id)
	if err != nil {
		return fmt.Errorf("update password: %w", translate(err))
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
