package handler

import (
	"time"

	citizenmodels "residency/internal/citizen/models"
	"residency/internal/verification/models"
)

// VerifyResponse is the HTTP response for POST /verify.
type VerifyResponse struct {
	Status      string    `json:"status"`
	Reason      string    `json:"reason,omitempty"`
	Message     string    `json:"message"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// FromResult converts an engine result to an HTTP response. The claim
// ledger annotation and the effect list stay server side, and so does the
// reason for a manual review: it would tell the caller that someone else
// holds the document.
func FromResult(result *models.Result) *VerifyResponse {
	resp := &VerifyResponse{
		Status:      string(result.Outcome.Status()),
		Message:     models.Message(result.Outcome),
		EvaluatedAt: result.EvaluatedAt,
	}
	if _, review := result.Outcome.(models.ManualReviewRequested); !review {
		resp.Reason = models.ReasonOf(result.Outcome)
	}
	return resp
}

// AccountResponse is the HTTP response for GET /account.
type AccountResponse struct {
	CitizenID  string     `json:"citizen_id"`
	Level      string     `json:"level"`
	Verified   bool       `json:"verified"`
	CanVerify  bool       `json:"can_verify"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
}

func FromCitizen(c *citizenmodels.Citizen) *AccountResponse {
	return &AccountResponse{
		CitizenID:  c.ID.String(),
		Level:      string(c.Level),
		Verified:   c.IsVerified(),
		CanVerify:  c.Level == citizenmodels.LevelUnverified,
		VerifiedAt: c.VerifiedAt,
	}
}
