package storage

import (
	"context"
	"encoding/json"

	"cafe-tab/internal/domain"

	"github.com/segmentio/kafka-go"
)

const EventTypeHeader = "event_type"

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher forwards committed envelopes to the tab-events topic, keyed
// by tab so a tab's events stay on one partition in order.
type KafkaPublisher struct {
	Writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) *KafkaPublisher {
	return &KafkaPublisher{Writer: writer}
}

func (p *KafkaPublisher) Name() string { return "kafka" }

func (p *KafkaPublisher) Handle(ctx context.Context, envs []domain.Envelope) error {
	if len(envs) == 0 {
		return nil
	}
	msgs := make([]kafka.Message, 0, len(envs))
	for _, env := range envs {
		payload, err := json.Marshal(env)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:     []byte(env.TabID.String()),
			Value:   payload,
			Headers: []kafka.Header{{Key: EventTypeHeader, Value: []byte(env.Type)}},
		})
	}
	return p.Writer.WriteMessages(ctx, msgs...)
}
