// Package events publishes conversion lifecycle events to Kafka.
// Publishing is optional; a nil *Publisher is safe to call and does
// nothing, so the pipeline never branches on whether Kafka is wired.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"

	"pdfcon/types"
)

// Event is the message emitted when a conversion reaches a terminal state.
type Event struct {
	ConversionID string       `json:"conversionId"`
	FileName     string       `json:"fileName"`
	Status       types.Status `json:"status"`
	Variant      string       `json:"variant,omitempty"`
	Method       string       `json:"method,omitempty"`
	Tokens       int          `json:"tokens,omitempty"`
	OutputURL    string       `json:"outputUrl,omitempty"`
	OccurredAt   time.Time    `json:"occurredAt"`
}

// Publisher writes conversion events to a single topic.
type Publisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewPublisher connects a synchronous producer to the given brokers.
func NewPublisher(brokers []string, topic string) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V3_6_0_0
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}

	log.Printf("[Events] kafka producer ready (topic: %s)", topic)
	return &Publisher{producer: producer, topic: topic}, nil
}

// Publish emits one event, keyed by conversion ID so events for the same
// job stay ordered within a partition. Safe on a nil receiver.
func (p *Publisher) Publish(ctx context.Context, ev Event) error {
	if p == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.ConversionID),
		Value: sarama.ByteEncoder(payload),
	}
	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("send event: %w", err)
	}

	log.Printf("[Events] published %s for %s (partition=%d, offset=%d)",
		ev.Status, ev.ConversionID, partition, offset)
	return nil
}

// Close shuts the producer down. Safe on a nil receiver.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
