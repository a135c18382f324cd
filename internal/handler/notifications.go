package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotaworks/roster-engine/backend/internal/domain"
)

const notificationQueueName = "notification_queue"

// publishNotification hands a message to the notifier queue. Delivery is
// fire-and-forget: a publish failure is logged and swallowed so a broker
// hiccup never fails the request that triggered the notification.
func (h *Handler) publishNotification(message domain.NotificationMessage) {
	body, err := json.Marshal(message)
	if err != nil {
		slog.Error("failed to marshal notification", "type", message.Type, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.notificationChannel.PublishWithContext(
		ctx,
		"",
		notificationQueueName,
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	); err != nil {
		slog.Error("failed to publish notification", "type", message.Type, "to", message.To, "error", err)
	}
}
