// Package kafka builds franz-go clients and bootstraps topics.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// NewProducer returns a client configured for idempotent, fully acknowledged
// produces. Returns nil when no brokers are configured.
func NewProducer(brokers []string, clientID string, opts ...kgo.Opt) (*kgo.Client, error) {
	if len(brokers) == 0 {
		return nil, nil
	}
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopics creates any missing topics with broker-default replication.
// Topics that already exist are left untouched.
func EnsureTopics(ctx context.Context, client *kgo.Client, logger *slog.Logger, partitions int32, topics ...string) error {
	admin := kadm.NewClient(client)
	resps, err := admin.CreateTopics(ctx, partitions, -1, nil, topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, resp := range resps.Sorted() {
		if resp.Err == nil {
			logger.InfoContext(ctx, "kafka topic created", "topic", resp.Topic)
			continue
		}
		if errors.Is(resp.Err, kerr.TopicAlreadyExists) {
			continue
		}
		return fmt.Errorf("create topic %s: %w", resp.Topic, resp.Err)
	}
	return nil
}
