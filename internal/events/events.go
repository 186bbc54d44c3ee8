// Package events publishes catalog changes and sync outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

const (
	TypeSyncRequested = "sync.requested"
	TypeSyncCompleted = "sync.completed"
	TypeSyncFailed    = "sync.failed"
	TypePublished     = "catalog.published"
	TypeUnpublished   = "catalog.unpublished"
)

type Event struct {
	Type       string    `json:"type"`
	Kind       string    `json:"kind,omitempty"`
	RemoteID   string    `json:"remote_id,omitempty"`
	LocalID    string    `json:"local_id,omitempty"`
	RunID      string    `json:"run_id,omitempty"`
	Generation uint64    `json:"generation,omitempty"`
	Trigger    string    `json:"trigger,omitempty"`
	Message    string    `json:"message,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Key groups every event about one record on the same partition.
func (e Event) Key() string {
	if e.Kind != "" && e.RemoteID != "" {
		return e.Kind + ":" + e.RemoteID
	}
	return e.Type
}

type Publisher interface {
	Publish(ctx context.Context, events ...Event) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

type PublisherOption func(*kafka.Writer)

// Async makes Publish return without waiting for the broker. Delivery
// failures are reported to onError; Close flushes pending messages.
func Async(onError func(err error, count int)) PublisherOption {
	return func(w *kafka.Writer) {
		w.Async = true
		w.Completion = func(messages []kafka.Message, err error) {
			if err != nil && onError != nil {
				onError(err, len(messages))
			}
		}
	}
}

func NewKafkaPublisher(brokers []string, topic string, opts ...PublisherOption) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events ...Event) error {
	messages, err := Messages(events...)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish %d events: %w", len(messages), err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// Messages encodes events as Kafka messages keyed by Event.Key.
func Messages(events ...Event) ([]kafka.Message, error) {
	messages := make([]kafka.Message, 0, len(events))
	for _, e := range events {
		if e.Timestamp.IsZero() {
			e.Timestamp = time.Now().UTC()
		}
		value, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s event: %w", e.Type, err)
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(e.Key()),
			Value: value,
			Time:  e.Timestamp,
		})
	}
	return messages, nil
}

// NopPublisher drops every event. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, ...Event) error { return nil }
func (NopPublisher) Close() error                           { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, events ...Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *Recorder) Close() error { return nil }

func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// OfType returns recorded events with the given type.
func (r *Recorder) OfType(eventType string) []Event {
	var out []Event
	for _, e := range r.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
