package sink

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meridianhq/go-psi/internal/infrastructure/redpanda"
)

// KafkaSink publishes records to the outbound classifications topic.
// Records are keyed by encounter ID so one encounter's classifications
// stay ordered on a single partition.
type KafkaSink struct {
	producer *redpanda.Producer
	topic    string
}

func NewKafkaSink(producer *redpanda.Producer, topic string) *KafkaSink {
	if topic == "" {
		topic = redpanda.TopicClassificationsOutbound
	}
	return &KafkaSink{producer: producer, topic: topic}
}

func (s *KafkaSink) Write(ctx context.Context, batchID string, records []Record) error {
	out := make([]*redpanda.Record, 0, len(records))
	for _, r := range records {
		value, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		out = append(out, &redpanda.Record{
			Topic: s.topic,
			Key:   r.EncounterID,
			Value: value,
			Headers: map[string]string{
				"batch_id": batchID,
			},
		})
	}
	return s.producer.ProduceBatch(ctx, out)
}

// Close flushes buffered records; the producer itself is owned by the caller
func (s *KafkaSink) Close() error {
	return s.producer.Flush(context.Background())
}
