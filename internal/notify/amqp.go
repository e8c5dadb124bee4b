package notify

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPChannel publishes notifications onto a durable RabbitMQ queue so a
// downstream worker (SMS gateway, push service) can deliver them.
type AMQPChannel struct {
	ch    *amqp.Channel
	queue string
}

func NewAMQPChannel(conn *amqp.Connection, queue string) (*AMQPChannel, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare notification queue: %w", err)
	}
	return &AMQPChannel{ch: ch, queue: queue}, nil
}

func (c *AMQPChannel) Notify(ctx context.Context, recipient, message string, meta map[string]string) error {
	body, err := json.Marshal(webhookPayload{
		Recipient: recipient,
		Message:   message,
		Meta:      meta,
	})
	if err != nil {
		return fmt.Errorf("amqp channel: encode payload: %w", err)
	}

	err = c.ch.PublishWithContext(ctx, "", c.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("amqp channel: publish: %w", err)
	}
	return nil
}

func (c *AMQPChannel) Close() error {
	return c.ch.Close()
}
