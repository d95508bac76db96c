package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/internal/domain/repository"
)

func seedUser(t *testing.T, r *UserRepository, name string) *entity.User {
	t.Helper()
	u := &entity.User{Username: name, Email: name + "@example.com", Password: "hash"}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestUserRepository_CreateDefaults(t *testing.T) {
	r := NewUserRepository()
	u := seedUser(t, r, "alice")

	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, entity.DefaultImage, u.Image)

	got, err := r.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	seedUser(t, r, "alice")

	err := r.Create(ctx, &entity.User{Username: "alice", Email: "other@example.com"})
	var conflict *repository.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "username", conflict.Field)

	err = r.Create(ctx, &entity.User{Username: "bob", Email: "alice@example.com"})
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "email", conflict.Field)
	assert.Equal(t, 1, r.Len())
}

func TestUserRepository_UpdateKeepsOwnValues(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seedUser(t, r, "alice")
	seedUser(t, r, "bob")

	u.Image = "abc.png"
	require.NoError(t, r.Update(ctx, u))

	u.Username = "bob"
	var conflict *repository.ConflictError
	require.True(t, errors.As(r.Update(ctx, u), &conflict))

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "abc.png", got.Image)
}

func TestUserRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()

	_, err := r.GetByID(ctx, 99)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = r.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, r.UpdatePassword(ctx, 99, "x"), repository.ErrNotFound)
}

func TestPostRepository_ListOrderAndPaging(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := seedUser(t, users, "alice")
	bob := seedUser(t, users, "bob")
	posts := NewPostRepository(users)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, owner := range []int64{alice.ID, bob.ID, alice.ID, bob.ID, alice.ID} {
		p := &entity.Post{
			Title:      "post " + string(rune('a'+i)),
			Content:    "body",
			DatePosted: base.Add(time.Duration(i) * time.Hour),
			UserID:     owner,
		}
		require.NoError(t, posts.Create(ctx, p))
	}

	first, total, err := posts.List(ctx, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, first, 2)
	assert.Equal(t, "post e", first[0].Title)
	assert.Equal(t, "post d", first[1].Title)
	require.NotNil(t, first[0].Author)
	assert.Equal(t, "alice", first[0].Author.Username)

	empty, total, err := posts.List(ctx, 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	assert.Empty(t, empty)

	mine, total, err := posts.ListByAuthor(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "post d", mine[0].Title)
	assert.Equal(t, "post b", mine[1].Title)
}

func TestPostRepository_TitleUniqueAndDelete(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository()
	alice := seedUser(t, users, "alice")
	posts := NewPostRepository(users)

	p := &entity.Post{Title: "Hello", Content: "x", UserID: alice.ID, DatePosted: time.Now()}
	require.NoError(t, posts.Create(ctx, p))

	var conflict *repository.ConflictError
	err := posts.Create(ctx, &entity.Post{Title: "Hello", UserID: alice.ID})
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "title", conflict.Field)

	p.Content = "updated"
	require.NoError(t, posts.Update(ctx, p))

	require.NoError(t, posts.Delete(ctx, p.ID))
	assert.ErrorIs(t, posts.Delete(ctx, p.ID), repository.ErrNotFound)
	assert.Equal(t, 0, posts.Len())
}

func TestPostRepository_UnknownOwner(t *testing.T) {
	posts := NewPostRepository(NewUserRepository())
	err := posts.Create(context.Background(), &entity.Post{Title: "x", UserID: 42})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
