package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/internal/domain/repository"
)

// postSelect joins the owner so listings carry author name and avatar.
const postSelect = `
		SELECT p.id, p.title, p.content, p.date_posted, p.user_id,
		       u.username, u.email, u.image
		FROM posts p
		JOIN users u ON u.id = p.user_id`

type PostRepository struct {
	db DBTX
}

func NewPostRepository(db DBTX) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO posts (title, content, date_posted, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, p.Title, p.Content, p.DatePosted, p.UserID)

	if err := row.Scan(&p.ID); err != nil {
		return fmt.Errorf("insert post: %w", translate(err))
	}
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*entity.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.id = $1`, id)
}

func (r *PostRepository) GetByTitle(ctx context.Context, title string) (*entity.Post, error) {
	return r.getOne(ctx, postSelect+` WHERE p.title = $1`, title)
}

func (r *PostRepository) getOne(ctx context.Context, query string, arg any) (*entity.Post, error) {
	p, err := scanPost(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	res, err := r.db.Exec(ctx, `
		UPDATE posts SET title = $1, content = $2, date_posted = $3
		WHERE id = $4
	`, p.Title, p.Content, p.DatePosted, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", translate(err))
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *PostRepository) List(ctx context.Context, limit, offset int) ([]entity.Post, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	posts, err := r.list(ctx, postSelect+`
		ORDER BY p.date_posted DESC, p.id DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, userID int64, limit, offset int) ([]entity.Post, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM posts WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	posts, err := r.list(ctx, postSelect+`
		WHERE p.user_id = $1
		ORDER BY p.date_posted DESC, p.id DESC
		LIMIT $2 OFFSET $3`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]entity.Post, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

func scanPost(row pgx.Row) (*entity.Post, error) {
	p := &entity.Post{Author: &entity.User{}}
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.DatePosted, &p.UserID,
		&p.Author.Username, &p.Author.Email, &p.Author.Image); err != nil {
		return nil, err
	}
	p.Author.ID = p.UserID
	return p, nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
