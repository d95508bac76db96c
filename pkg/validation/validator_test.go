package validation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username        string `json:"username" validate:"required,username"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwd"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(signup{Username: "alice", Email: "alice@example.com", Password: "pw123456", ConfirmPassword: "pw123456"})
	assert.Empty(t, errs)
	assert.NoError(t, errs.Err())
}

func TestStruct_CollectsEveryField(t *testing.T) {
	errs := Struct(signup{Username: "a", Email: "nope", Password: "short", ConfirmPassword: "other"})

	require.Len(t, errs, 4)
	assert.Equal(t, "Field must be between 2 and 20 characters long.", errs["username"])
	assert.Equal(t, "Invalid email address.", errs["email"])
	assert.Equal(t, "Field must be at least 8 characters long.", errs["password"])
	assert.Equal(t, "Field must be equal to password.", errs["confirm_password"])
}

func TestStruct_Required(t *testing.T) {
	errs := Struct(signup{})
	assert.Equal(t, "This field is required.", errs["username"])
	assert.Equal(t, "This field is required.", errs["email"])
}

func TestVar(t *testing.T) {
	assert.Empty(t, Var("email", "bob@example.com", "required,email"))
	assert.Equal(t, Errors{"email": "Invalid email address."}, Var("email", "bob", "required,email"))
}

func TestErrors_AddKeepsFirstMessage(t *testing.T) {
	errs := Errors{}
	errs.Add("username", "first")
	errs.Add("username", "second")
	assert.Equal(t, "first", errs["username"])
}

func TestErrors_ErrorIsStable(t *testing.T) {
	errs := Errors{"b": "two", "a": "one"}
	assert.Equal(t, "validation failed: a: one; b: two", errs.Error())
}

func TestToDetails(t *testing.T) {
	assert.Nil(t, ToDetails(nil))

	wrapped := fmt.Errorf("register: %w", Errors{"email": "taken"})
	assert.Equal(t, map[string]string{"email": "taken"}, ToDetails(wrapped))

	assert.Equal(t, map[string]string{"payload": "invalid payload"}, ToDetails(errors.New("boom")))
}
