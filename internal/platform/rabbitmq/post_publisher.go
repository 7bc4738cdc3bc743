package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"musicwebsite/internal/model"
)

// PostPublisher is the producer side of the post ingest queue, used by
// publishing tools rather than the site itself.
type PostPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewPostPublisher(conn *amqp.Connection, queueName string) *PostPublisher {
	return &PostPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *PostPublisher) Publish(ctx context.Context, post model.Post) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish post failed: %w", err)
	}
	return nil
}
