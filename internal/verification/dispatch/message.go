// Package dispatch carries out the side effects of verification results.
//
// The engine has already persisted the citizen's state when a dispatcher
// runs. Dispatchers turn each requested effect into a Message and deliver
// it: to Kafka for the mail and notification consumers, or to the log.
package dispatch

import (
	"context"
	"time"

	"residency/internal/verification/models"
	id "residency/pkg/domain"
	"residency/pkg/requestcontext"
)

// Message is the wire form of one requested effect.
type Message struct {
	CitizenID   string    `json:"citizen_id"`
	Effect      string    `json:"effect"`
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	RequestID   string    `json:"request_id,omitempty"`
}

// Messages expands a result into one Message per effect.
func Messages(ctx context.Context, citizenID id.CitizenID, result *models.Result) []Message {
	msgs := make([]Message, 0, len(result.Effects))
	for _, effect := range result.Effects {
		msgs = append(msgs, Message{
			CitizenID:   citizenID.String(),
			Effect:      string(effect),
			Status:      string(result.Outcome.Status()),
			Reason:      models.ReasonOf(result.Outcome),
			EvaluatedAt: result.EvaluatedAt,
			RequestID:   requestcontext.RequestID(ctx),
		})
	}
	return msgs
}
