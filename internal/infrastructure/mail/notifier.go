package mail

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/internal/application"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/mailer"
	"github.com/wasihun-code/goblog/pkg/mailer/templates"
)

// ResetJob builds the templated email job for a reset message.
func ResetJob(brand templates.Brand, msg application.ResetMessage, now time.Time) mailer.EmailJob {
	data := templates.NewResetPasswordData(brand, msg.User.Username, msg.User.Email, msg.Link,
		templates.WithExpiresAt(msg.ExpiresAt),
		templates.WithIP(msg.IP),
		templates.WithUserAgent(msg.UserAgent),
		templates.WithTime(now),
	)
	return mailer.EmailJob{
		To:       msg.User.Email,
		Template: templates.ResetPassword,
		Data:     data,
	}
}

// Publisher is the part of helpers.RabbitPublisher the queue notifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueNotifier puts reset emails on RabbitMQ for the email worker.
type QueueNotifier struct {
	Pub   Publisher
	Brand templates.Brand
}

func NewQueueNotifier(pub Publisher, brand templates.Brand) *QueueNotifier {
	return &QueueNotifier{Pub: pub, Brand: brand}
}

func (n *QueueNotifier) SendReset(ctx context.Context, msg application.ResetMessage) error {
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return n.Pub.PublishJSON(c, ResetJob(n.Brand, msg, time.Now()))
}

// DirectNotifier renders and sends reset emails in the request path.
type DirectNotifier struct {
	Sender mailer.Sender
	Brand  templates.Brand
}

func NewDirectNotifier(sender mailer.Sender, brand templates.Brand) *DirectNotifier {
	return &DirectNotifier{Sender: sender, Brand: brand}
}

func (n *DirectNotifier) SendReset(ctx context.Context, msg application.ResetMessage) error {
	return mailer.Deliver(ctx, n.Sender, ResetJob(n.Brand, msg, time.Now()), templates.Render)
}

// LogNotifier only logs the reset link. Meant for local development.
type LogNotifier struct {
	Logger *logrus.Logger
}

func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (n *LogNotifier) SendReset(_ context.Context, msg application.ResetMessage) error {
	helpers.LogInfo(n.Logger, "password reset link", logrus.Fields{
		"user_id":    msg.User.ID,
		"email":      msg.User.Email,
		"link":       msg.Link,
		"expires_at": msg.ExpiresAt.UTC().Format(time.RFC3339),
	})
	return nil
}

var (
	_ application.Notifier = (*QueueNotifier)(nil)
	_ application.Notifier = (*DirectNotifier)(nil)
	_ application.Notifier = (*LogNotifier)(nil)
)
