// Package events publishes portfolio change notifications.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/ndewijer/Stock-Portfolio-Analyzer-Backend/internal/model"
)

// Publisher delivers portfolio events.
type Publisher interface {
	Publish(ctx context.Context, event model.PortfolioEvent) error
	Close() error
}

// NopPublisher drops every event. It is used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.PortfolioEvent) error { return nil }
func (NopPublisher) Close() error                                        { return nil }

// messageWriter is the subset of *kafka.Writer used by Producer.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer handles publishing events to Kafka
type Producer struct {
	writer messageWriter
	topic  string
	log    zerolog.Logger
}

// NewProducer creates a new Kafka producer
func NewProducer(brokers []string, topic string, log zerolog.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return newProducer(writer, topic, log)
}

func newProducer(writer messageWriter, topic string, log zerolog.Logger) *Producer {
	return &Producer{
		writer: writer,
		topic:  topic,
		log:    log,
	}
}

// Publish writes the event keyed by ticker, or by event type for portfolio-wide events.
func (p *Producer) Publish(ctx context.Context, event model.PortfolioEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := event.Ticker
	if key == "" {
		key = event.EventType
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}

	p.log.Debug().Str("topic", p.topic).Str("event_type", event.EventType).Str("key", key).Msg("event published")
	return nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	return p.writer.Close()
}
