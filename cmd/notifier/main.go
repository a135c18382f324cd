package main

import (
	"context"
	"encoding/json"
	"html/template"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotaworks/roster-engine/backend/internal/config"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
	"github.com/wneessen/go-mail"
)

// templateFor maps a notification type to its email template and subject.
func templateFor(notificationType string) (string, string, bool) {
	switch notificationType {
	case domain.NotificationUserInvited:
		return "./templates/user_invited_email.html", "Roster Engine - your account", true
	case domain.NotificationApprovalRequired:
		return "./templates/approval_required_email.html", "Roster Engine - a roster needs your approval", true
	case domain.NotificationRosterRejected:
		return "./templates/roster_rejected_email.html", "Roster Engine - changes requested on your roster", true
	case domain.NotificationRosterActivated:
		return "./templates/roster_activated_email.html", "Roster Engine - your roster went live", true
	case domain.NotificationSwapCreated:
		return "./templates/swap_created_email.html", "Roster Engine - a shift swap was proposed to you", true
	}
	return "", "", false
}

func main() {
	/**********************************************
	 * set up the logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	/**********************************************
	 * load configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * create the mail client
	 **********************************************/
	client, err := mail.NewClient(cfg.Email.SMTP.Host,
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithSSL(),
		mail.WithPort(cfg.Email.SMTP.Port),
		mail.WithUsername(cfg.Email.SMTP.Username),
		mail.WithPassword(cfg.Email.SMTP.Password),
	)
	if err != nil {
		logger.Error("failed to create the mail client", slog.String("error", err.Error()))
		return
	}
	defer client.Close()

	clientDialCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Email.SMTP.DialTimeout)*time.Second)
	defer cancel()
	if err := client.DialWithContext(clientDialCtx); err != nil {
		logger.Error("failed to reach the mail server", slog.String("error", err.Error()))
		return
	}

	/**********************************************
	 * connect to rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("failed to connect to rabbitmq", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open a rabbitmq channel", slog.String("error", err.Error()))
		return
	}
	defer ch.Close()

	q, err := ch.QueueDeclare(
		"notification_queue",
		true,  // durable, survives a broker restart
		false, // no auto-delete when the last consumer goes away
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to declare the notification queue", slog.String("error", err.Error()))
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	msgs, err := ch.Consume(
		q.Name,
		"",
		false, // manual ack so a failed send can be requeued
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("failed to start consuming", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	wg := sync.WaitGroup{}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-msgs:
				logger.Info("received notification", slog.String("message", string(msg.Body)))

				notification := domain.NotificationMessage{}
				if err := json.Unmarshal(msg.Body, &notification); err != nil {
					logger.Error("failed to decode notification", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				templatePath, subject, ok := templateFor(notification.Type)
				if !ok {
					logger.Error("unsupported notification type", slog.String("type", notification.Type))
					_ = msg.Nack(false, false)
					continue
				}

				email := mail.NewMsg()
				if err := email.From(cfg.Email.SMTP.Username); err != nil {
					logger.Error("failed to set the sender", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := email.To(notification.To); err != nil {
					logger.Error("failed to set the recipient", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}

				tmpl, err := template.ParseFiles(templatePath)
				if err != nil {
					logger.Error("failed to parse the email template", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				if err := email.SetBodyHTMLTemplate(tmpl, notification.Data); err != nil {
					logger.Error("failed to render the email body", slog.String("error", err.Error()))
					_ = msg.Nack(false, false)
					continue
				}
				email.Subject(subject)

				if err := client.DialAndSend(email); err != nil {
					logger.Error("failed to send the email", slog.String("error", err.Error()))
					_ = msg.Nack(false, true) // requeue for a later retry
					continue
				}

				_ = msg.Ack(false)
			}
		}
	}()

	logger.Info("waiting for notifications... (CTRL+C to quit)")
	<-sigChan

	slog.Info("shutting down notifier...")
	cancel()
	wg.Wait()
	slog.Info("notifier stopped")
}
