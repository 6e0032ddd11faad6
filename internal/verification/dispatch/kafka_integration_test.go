//go:build integration

package dispatch

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"residency/internal/platform/kafka"
	"residency/internal/verification/models"
	id "residency/pkg/domain"
	"residency/pkg/testutil/containers"
)

type KafkaDispatcherSuite struct {
	suite.Suite
	brokers []string
}

func TestKafkaDispatcherSuite(t *testing.T) {
	suite.Run(t, new(KafkaDispatcherSuite))
}

func (s *KafkaDispatcherSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaDispatcherSuite) TestMailRequestReachesTopic() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	topic := "security-code-mail-" + id.NewCitizenID().String()

	producer, err := kafka.NewProducer(s.brokers, "residency-test")
	s.Require().NoError(err)
	defer producer.Close()
	s.Require().NoError(kafka.EnsureTopics(ctx, producer, slog.New(slog.NewTextHandler(io.Discard, nil)), 1, topic))
	// Second call tolerates the existing topic.
	s.Require().NoError(kafka.EnsureTopics(ctx, producer, slog.New(slog.NewTextHandler(io.Discard, nil)), 1, topic))

	citizenID := id.NewCitizenID()
	d := NewKafkaDispatcher(producer, Topics{models.EffectSendSecurityCodeByMail: topic})
	s.Require().NoError(d.Dispatch(ctx, citizenID, &models.Result{
		Outcome:     models.ManualReviewRequested{Reason: models.ReasonDocumentAlreadyVerifiedByAnother},
		Effects:     []models.Effect{models.EffectSendSecurityCodeByMail},
		EvaluatedAt: time.Now().UTC(),
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().Empty(fetches.Errors())
	records := fetches.Records()
	s.Require().Len(records, 1)
	s.Equal(citizenID.String(), string(records[0].Key))

	var msg Message
	require.NoError(s.T(), json.Unmarshal(records[0].Value, &msg))
	s.Equal("send_security_code_by_mail", msg.Effect)
	s.Equal("manual_review_requested", msg.Status)
}
