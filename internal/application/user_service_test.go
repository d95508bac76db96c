package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/pkg/helpers"
)

func TestRegister_StoresHashNotPlaintext(t *testing.T) {
	f := newFixture(t)
	u := f.register(t, "alice")

	assert.NotEqual(t, "pw123456", u.Password)
	assert.Equal(t, entity.DefaultImage, u.Image)

	sess, err := f.userSvc.Login(context.Background(), "alice", "pw123456", false)
	require.NoError(t, err)
	assert.Equal(t, u.ID, sess.User.ID)
}

func TestRegister_DuplicateEmailLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.userSvc.Register(context.Background(), RegisterInput{
		Username: "bob", Email: "alice@example.com", Password: "pw123456", ConfirmPassword: "pw123456",
	})

	errs := validationErrors(t, err)
	assert.Equal(t, "email already taken. Choose a different one", errs["email"])
	assert.NotContains(t, errs, "username")
	assert.Equal(t, 1, f.users.Len())
}

func TestRegister_DuplicateUsername(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")

	_, err := f.userSvc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "other@example.com", Password: "pw123456", ConfirmPassword: "pw123456",
	})
	assert.Contains(t, validationErrors(t, err), "username")
	assert.Equal(t, 1, f.users.Len())
}

func TestRegister_FieldRules(t *testing.T) {
	f := newFixture(t)

	_, err := f.userSvc.Register(context.Background(), RegisterInput{
		Username: "a", Email: "not-an-email", Password: "pw123456", ConfirmPassword: "pw654321",
	})

	errs := validationErrors(t, err)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Equal(t, "Field must be equal to password.", errs["confirm_password"])
	assert.Equal(t, 0, f.users.Len())
}

func TestRegister_PasswordTooLong(t *testing.T) {
	f := newFixture(t)
	long := strings.Repeat("x", 80)

	_, err := f.userSvc.Register(context.Background(), RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: long, ConfirmPassword: long,
	})
	assert.Contains(t, validationErrors(t, err), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	ctx := context.Background()

	_, err := f.userSvc.Login(ctx, "alice", "wrong-password", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.userSvc.Login(ctx, "nobody", "pw123456", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_RememberExtendsSession(t *testing.T) {
	f := newFixture(t)
	f.register(t, "alice")
	ctx := context.Background()

	short, err := f.userSvc.Login(ctx, "alice", "pw123456", false)
	require.NoError(t, err)
	long, err := f.userSvc.Login(ctx, "alice", "pw123456", true)
	require.NoError(t, err)

	assert.False(t, short.Persistent)
	assert.True(t, long.Persistent)
	assert.True(t, long.ExpiresAt.After(short.ExpiresAt))
	assert.NotEqual(t, short.ID, long.ID)

	claims, err := f.jwt.ParseSessionToken(long.Token)
	require.NoError(t, err)
	assert.Equal(t, long.ID, claims.SessionID)
}

func TestLogout_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	assert.NoError(t, f.userSvc.Logout(context.Background(), ""))
	assert.NoError(t, f.userSvc.Logout(context.Background(), "missing"))
}

func TestUpdateProfile_KeepsOwnValues(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	u, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "alice", Email: "alice@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultImage, u.Image)
}

func TestUpdateProfile_RejectsOtherUsersValues(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.register(t, "bob")

	_, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "bob", Email: "bob@example.com",
	})
	errs := validationErrors(t, err)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")

	got, err := f.userSvc.GetByID(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestUpdateProfile_Picture(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	u, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "alice2", Email: "alice@example.com", Picture: pngUpload(t, 400, 300),
	})
	require.NoError(t, err)

	assert.Equal(t, "alice2", u.Username)
	assert.True(t, u.HasCustomImage())
	assert.True(t, strings.HasSuffix(u.Image, ".png"))
	assert.Len(t, u.Image, 16+len(".png"))
	assert.Contains(t, f.avatars.saved, u.Image)
	assert.Equal(t, "https://cdn.test/"+u.Image, f.userSvc.AvatarURL(u))
}

func TestUpdateProfile_RejectsExtension(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	up := pngUpload(t, 10, 10)
	up.Filename = "me.gif"
	_, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "alice", Email: "alice@example.com", Picture: up,
	})
	assert.Equal(t, "File does not have an approved extension: jpg, png", validationErrors(t, err)["picture"])
	assert.Empty(t, f.avatars.saved)
}

func TestUpdateProfile_RejectsOversizedImage(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")

	_, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "alice", Email: "alice@example.com", Picture: pngUpload(t, helpers.MaxImageSide+1, 1),
	})
	assert.Equal(t, "Invalid image file.", validationErrors(t, err)["picture"])
	assert.Empty(t, f.avatars.saved)
}

func TestUpdateProfile_StorageFailureAborts(t *testing.T) {
	f := newFixture(t)
	alice := f.register(t, "alice")
	f.avatars.err = errors.New("disk full")

	_, err := f.userSvc.UpdateProfile(context.Background(), alice.ID, UpdateProfileInput{
		Username: "renamed", Email: "alice@example.com", Picture: pngUpload(t, 10, 10),
	})
	require.Error(t, err)

	got, _ := f.userSvc.GetByID(context.Background(), alice.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, entity.DefaultImage, got.Image)
}

func TestGetByUsername_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.userSvc.GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
