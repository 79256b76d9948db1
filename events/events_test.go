package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"pdfcon/types"
)

func TestPublish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "conv-1" {
			t.Fatalf("key = %q, want conv-1", key)
		}

		value, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var ev Event
		if err := json.Unmarshal(value, &ev); err != nil {
			return err
		}
		if ev.Status != types.StatusCompleted || ev.Method != "gemini-json" {
			t.Fatalf("event payload wrong: %+v", ev)
		}
		if ev.OccurredAt.IsZero() {
			t.Fatal("OccurredAt not set")
		}
		return nil
	})

	p := &Publisher{producer: producer, topic: "conversion_events"}
	err := p.Publish(context.Background(), Event{
		ConversionID: "conv-1",
		FileName:     "보도자료.pdf",
		Status:       types.StatusCompleted,
		Method:       "gemini-json",
		Tokens:       1234,
	})
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := producer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestPublishNilReceiver(t *testing.T) {
	var p *Publisher
	if err := p.Publish(context.Background(), Event{ConversionID: "x"}); err != nil {
		t.Fatalf("nil publisher returned error: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("nil Close returned error: %v", err)
	}
}
