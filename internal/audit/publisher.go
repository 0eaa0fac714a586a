package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Publisher delivers drained outbox events to a downstream sink.
type Publisher interface {
	Publish(ctx context.Context, events []Event) error
}

// KafkaPublisher writes audit events to a Kafka topic, keyed by user so one
// user's calculation history stays ordered within a partition.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
}

// NewKafkaPublisher connects a franz-go producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("connect kafka producer: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic}, nil
}

// Publish produces the batch synchronously; the worker only marks events
// published after every record is acknowledged.
func (p *KafkaPublisher) Publish(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	records := make([]*kgo.Record, 0, len(events))
	for _, e := range events {
		value, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal audit event %s: %w", e.ID, err)
		}
		records = append(records, &kgo.Record{
			Key:   []byte(e.UserID.String()),
			Value: value,
		})
	}

	if err := p.client.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce audit events: %w", err)
	}
	return nil
}

// Close flushes and shuts down the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}
