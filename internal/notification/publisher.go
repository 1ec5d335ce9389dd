package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher hands a message to the delivery pipeline.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}

// NewPublisher returns a Kafka-backed publisher when w is non-nil and a
// direct one otherwise.
func NewPublisher(w *kafka.Writer, svc Service) Publisher {
	if w == nil {
		return &directPublisher{svc: svc}
	}
	return &kafkaPublisher{writer: w}
}

type kafkaPublisher struct {
	writer *kafka.Writer
}

func (p *kafkaPublisher) Publish(ctx context.Context, msg Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	// keyed by user so one user's messages stay ordered on a partition
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.UserID),
		Value: value,
	})
}

type directPublisher struct {
	svc Service
}

func (p *directPublisher) Publish(ctx context.Context, msg Message) error {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now().UTC()
	}
	return p.svc.Deliver(ctx, msg)
}

// Reader is the subset of *kafka.Reader the consumer needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// deliveryBackoff is the wait before each redelivery attempt of one
// message. A group reader only tracks the highest committed offset, so a
// message is retried in place rather than skipped and revisited.
var deliveryBackoff = []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}

// StartConsumer delivers messages from r until ctx is cancelled. A message
// that cannot be decoded is logged and committed so it does not block the
// partition. A failed delivery is retried on the same message with backoff;
// once the attempts run out it is logged and committed, and the message is
// dropped. Cancellation mid-retry leaves it uncommitted for the next start.
func StartConsumer(ctx context.Context, r Reader, svc Service) {
	log.Println("📬 Notification consumer started")
	defer func() {
		if err := r.Close(); err != nil {
			log.Printf("⚠️ kafka reader close: %v", err)
		}
		log.Println("📭 Notification consumer stopped")
	}()

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("❌ kafka fetch: %v", err)
			if !sleep(ctx, time.Second) {
				return
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(m.Value, &msg); err != nil {
			log.Printf("⚠️ dropping malformed notification at offset %d: %v", m.Offset, err)
		} else if err := deliverWithRetry(ctx, svc, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("❌ dropping notification for user %s at offset %d after %d attempts: %v",
				msg.UserID, m.Offset, len(deliveryBackoff)+1, err)
		}

		if err := r.CommitMessages(ctx, m); err != nil && ctx.Err() == nil {
			log.Printf("⚠️ kafka commit: %v", err)
		}
	}
}

func deliverWithRetry(ctx context.Context, svc Service, msg Message) error {
	err := svc.Deliver(ctx, msg)
	for _, wait := range deliveryBackoff {
		if err == nil {
			return nil
		}
		log.Printf("⚠️ deliver notification for user %s: %v (retry in %s)", msg.UserID, err, wait)
		if !sleep(ctx, wait) {
			return ctx.Err()
		}
		err = svc.Deliver(ctx, msg)
	}
	return err
}

// sleep waits for d and reports false if ctx ended first.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
