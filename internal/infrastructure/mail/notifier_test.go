package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/internal/domain/entity"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/mailer"
	"github.com/wasihun-code/goblog/pkg/mailer/templates"
)

var brand = templates.Brand{AppName: "goblog", CompanyName: "Flask Blog"}

func resetMessage() application.ResetMessage {
	return application.ResetMessage{
		User:      &entity.User{ID: 1, Username: "alice", Email: "alice@example.com"},
		Token:     "tok",
		Link:      "http://localhost:8080/reset_password/tok",
		ExpiresAt: time.Date(2026, 1, 2, 3, 34, 0, 0, time.UTC),
		IP:        "10.0.0.1",
	}
}

type capturePublisher struct {
	body any
	err  error
}

func (p *capturePublisher) PublishJSON(_ context.Context, body any) error {
	p.body = body
	return p.err
}

type captureSender struct {
	to, subject, text, html string
}

func (s *captureSender) Send(_ context.Context, to, subject, text, html string) error {
	s.to, s.subject, s.text, s.html = to, subject, text, html
	return nil
}

func TestResetJob(t *testing.T) {
	job := ResetJob(brand, resetMessage(), time.Now())

	assert.Equal(t, "alice@example.com", job.To)
	assert.Equal(t, templates.ResetPassword, job.Template)
	assert.Equal(t, "http://localhost:8080/reset_password/tok", job.Data["ResetURL"])
	assert.Equal(t, "alice", job.Data["Username"])
	assert.Equal(t, "02 January 2026, 03:34 UTC", job.Data["ExpiresAtText"])
}

func TestQueueNotifier_Publishes(t *testing.T) {
	pub := &capturePublisher{}
	require.NoError(t, NewQueueNotifier(pub, brand).SendReset(context.Background(), resetMessage()))

	job, ok := pub.body.(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", job.To)

	pub.err = errors.New("channel closed")
	assert.Error(t, NewQueueNotifier(pub, brand).SendReset(context.Background(), resetMessage()))
}

func TestDirectNotifier_RendersTemplates(t *testing.T) {
	s := &captureSender{}
	require.NoError(t, NewDirectNotifier(s, brand).SendReset(context.Background(), resetMessage()))

	assert.Equal(t, "alice@example.com", s.to)
	assert.Equal(t, "Password reset request", s.subject)
	assert.Contains(t, s.text, "http://localhost:8080/reset_password/tok")
	assert.Contains(t, s.html, "Reset my password")
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, NewLogNotifier(helpers.NewNopLogger()).SendReset(context.Background(), resetMessage()))
}
