package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"musicwebsite/internal/model"
	"musicwebsite/internal/repository"
)

// PostIngestWorker consumes news posts published by external tooling and
// persists them. The site itself has no post-creation route; this queue is
// the only way posts get in.
type PostIngestWorker struct {
	conn      *amqp.Connection
	repo      *repository.PostRepository
	queueName string

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewPostIngestWorker(conn *amqp.Connection, repo *repository.PostRepository, queueName string) *PostIngestWorker {
	return &PostIngestWorker{
		conn:      conn,
		repo:      repo,
		queueName: queueName,
	}
}

func (w *PostIngestWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var post model.Post
				if err := json.Unmarshal(d.Body, &post); err != nil {
					log.Printf("worker decode post failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}
				if post.Title == "" {
					log.Printf("worker dropped post without title")
					_ = d.Nack(false, false)
					continue
				}

				// A new record regardless of what the producer put in the id
				// field; the timestamp defaults to now when absent.
				post.ID = 0
				if err := w.repo.Create(&post); err != nil {
					log.Printf("worker persist post failed: %v", err)
					_ = d.Nack(false, false)
					continue
				}

				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *PostIngestWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
