package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"residency/internal/verification/models"
	id "residency/pkg/domain"
)

// Producer is the part of *kgo.Client the dispatcher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Topics routes each effect to a topic. Effects without a topic are skipped.
type Topics map[models.Effect]string

// KafkaDispatcher produces one record per effect, keyed by citizen ID so a
// citizen's effects stay ordered within a partition.
type KafkaDispatcher struct {
	producer Producer
	topics   Topics
}

func NewKafkaDispatcher(producer Producer, topics Topics) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topics: topics}
}

func (d *KafkaDispatcher) Dispatch(ctx context.Context, citizenID id.CitizenID, result *models.Result) error {
	msgs := Messages(ctx, citizenID, result)
	records := make([]*kgo.Record, 0, len(msgs))
	for _, msg := range msgs {
		topic, ok := d.topics[models.Effect(msg.Effect)]
		if !ok || topic == "" {
			continue
		}
		value, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("encode %s message: %w", msg.Effect, err)
		}
		records = append(records, &kgo.Record{
			Topic: topic,
			Key:   []byte(msg.CitizenID),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "effect", Value: []byte(msg.Effect)},
			},
		})
	}
	if len(records) == 0 {
		return nil
	}
	if err := d.producer.ProduceSync(ctx, records...).FirstErr(); err != nil {
		return fmt.Errorf("produce verification effects: %w", err)
	}
	return nil
}
