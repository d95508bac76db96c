package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/wasihun-code/goblog/config"
	"github.com/wasihun-code/goblog/pkg/helpers"
	"github.com/wasihun-code/goblog/pkg/mailer"
	"github.com/wasihun-code/goblog/pkg/mailer/templates"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-email-worker", cfg.Env)

	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; email worker disabled (no real emails will be sent)")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQEmailQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	if !mg.Configured() {
		logger.Fatal("Mailgun not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		logger.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// prefetch for fair dispatch across workers
	if err := ch.Qos(16, 0, false); err != nil {
		logger.Fatalf("qos: %v", err)
	}
	if err := helpers.DeclareQueue(ch, cfg.RabbitMQEmailQueue); err != nil {
		logger.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEmailQueue, "", false, false, false, false, nil)
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, logger, mg, msg)
		}
	}()

	logger.Infof("email worker listening on queue=%s", cfg.RabbitMQEmailQueue)
	<-stop
	logger.Info("shutting down...")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

// handle sends one job. Undecodable or unrenderable jobs are dropped; send
// failures are requeued.
func handle(ctx context.Context, logger *logrus.Logger, sender mailer.Sender, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil || job.To == "" {
		helpers.LogError(logger, "bad message", err, logrus.Fields{"message_id": msg.MessageId})
		_ = msg.Nack(false, false)
		return
	}
	if job.Template == "" && !job.Rendered() {
		helpers.LogError(logger, "empty email job", nil, logrus.Fields{"to": job.To})
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if job.Template != "" {
		subject, text, html, err := templates.Render(job.Template, job.Data)
		if err != nil {
			helpers.LogError(logger, "render failed", err, logrus.Fields{"template": job.Template})
			_ = msg.Nack(false, false)
			return
		}
		job = mailer.EmailJob{To: job.To, Subject: subject, Text: text, HTML: html}
	}
	if err := mailer.Deliver(c, sender, job, templates.Render); err != nil {
		helpers.LogError(logger, "send failed", err, logrus.Fields{"to": job.To})
		_ = msg.Nack(false, true)
		return
	}
	helpers.LogInfo(logger, "email sent", logrus.Fields{"to": job.To, "subject": job.Subject})
	_ = msg.Ack(false)
}
