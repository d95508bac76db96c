package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_ResetPassword(t *testing.T) {
	data := NewResetPasswordData(
		Brand{AppName: "goblog", CompanyName: "Flask Blog"},
		"alice", "alice@example.com", "http://localhost:8080/reset_password/tok",
		WithExpiresAt(time.Date(2026, 1, 2, 3, 4, 0, 0, time.UTC)),
		WithIP("10.0.0.1"),
	)

	subject, text, html, err := Render(ResetPassword, data)
	require.NoError(t, err)

	assert.Equal(t, "Password reset request", subject)
	assert.Contains(t, text, "Hi alice,")
	assert.Contains(t, text, "http://localhost:8080/reset_password/tok")
	assert.Contains(t, text, "02 January 2026, 03:04 UTC")
	assert.Contains(t, text, "Requested from 10.0.0.1")
	assert.Contains(t, html, `href="http://localhost:8080/reset_password/tok"`)
	assert.Contains(t, html, "Flask Blog")
}

func TestRender_FallsBackToAppName(t *testing.T) {
	data := NewResetPasswordData(Brand{AppName: "goblog"}, "", "x@example.com", "http://x")

	_, text, _, err := Render(ResetPassword, data)
	require.NoError(t, err)
	assert.Contains(t, text, "Hi there,")
	assert.Contains(t, text, "-- goblog")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", nil)
	assert.Error(t, err)
}
