package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeStatusAndReason(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		status  Status
		reason  string
		message string
	}{
		{"verified", Verified{}, StatusVerified, "", MessageVerified},
		{"under age", Rejected{Reason: ReasonUnderAge}, StatusRejected, "under_age", MessageUnderAge},
		{"ineligible postal code", Rejected{Reason: ReasonIneligiblePostalCode}, StatusRejected, "ineligible_postal_code", MessageIneligiblePostalCode},
		{"document mismatch", Rejected{Reason: ReasonDocumentMismatch}, StatusRejected, "document_mismatch", MessageDocumentMismatch},
		{"duplicate document", ManualReviewRequested{Reason: ReasonDocumentAlreadyVerifiedByAnother}, StatusManualReviewRequested, "document_already_verified_by_another", MessageManualReview},
		{"review in progress", ManualReviewRequested{Reason: ReasonReviewInProgress}, StatusManualReviewRequested, "review_in_progress", MessageManualReview},
		{"validation", ValidationError{Field: FieldPostalCode}, StatusValidationError, "postal_code", MessageValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.outcome.Status())
			assert.Equal(t, tt.reason, ReasonOf(tt.outcome))
			assert.Equal(t, tt.message, Message(tt.outcome))
		})
	}
}

func TestManualReviewMessageDoesNotSoundLikeFailure(t *testing.T) {
	msg := Message(ManualReviewRequested{Reason: ReasonDocumentAlreadyVerifiedByAnother})
	assert.Contains(t, msg, "Thank you")
	assert.NotContains(t, msg, "already")
	assert.NotContains(t, msg, "invalid")
}

func TestValidationErrorCustomMessage(t *testing.T) {
	assert.Equal(t, "postal_code is required", Message(ValidationError{Field: FieldPostalCode, Message: "postal_code is required"}))
}

func TestResultHasEffect(t *testing.T) {
	r := &Result{Outcome: Verified{}, Effects: []Effect{EffectMarkVerified}}
	assert.True(t, r.HasEffect(EffectMarkVerified))
	assert.False(t, r.HasEffect(EffectSendSecurityCodeByMail))
}
