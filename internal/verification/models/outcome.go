package models

import "time"

// Status is the kind of a verification outcome.
type Status string

const (
	StatusVerified              Status = "verified"
	StatusRejected              Status = "rejected"
	StatusManualReviewRequested Status = "manual_review_requested"
	StatusValidationError       Status = "validation_error"
)

// Reason explains a Rejected or ManualReviewRequested outcome.
type Reason string

const (
	// Rejected reasons. The citizen may correct the data and retry.
	ReasonUnderAge             Reason = "under_age"
	ReasonIneligiblePostalCode Reason = "ineligible_postal_code"
	ReasonDocumentMismatch     Reason = "document_mismatch"

	// Manual review reasons. Resolved out of band by physical mail.
	ReasonDocumentAlreadyVerifiedByAnother Reason = "document_already_verified_by_another"
	ReasonReviewInProgress                 Reason = "review_in_progress"
)

// Outcome is the result of evaluating an Attempt. It is one of Verified,
// Rejected, ManualReviewRequested or ValidationError.
type Outcome interface {
	Status() Status
	isOutcome()
}

// Verified means the citizen now holds the document binding.
type Verified struct{}

// Rejected is a business rule failure the citizen can correct.
type Rejected struct {
	Reason Reason
}

// ManualReviewRequested escalates a suspected identity conflict to the
// paper process. It is never presented to the citizen as a failure.
type ManualReviewRequested struct {
	Reason Reason
}

// ValidationError is a form-level defect. It consumes no attempt.
type ValidationError struct {
	Field   string
	Message string
}

func (Verified) Status() Status              { return StatusVerified }
func (Rejected) Status() Status              { return StatusRejected }
func (ManualReviewRequested) Status() Status { return StatusManualReviewRequested }
func (ValidationError) Status() Status       { return StatusValidationError }

func (Verified) isOutcome()              {}
func (Rejected) isOutcome()              {}
func (ManualReviewRequested) isOutcome() {}
func (ValidationError) isOutcome()       {}

// ReasonOf returns the reason code of o: the Reason for Rejected and
// ManualReviewRequested, the field for ValidationError, empty for Verified.
func ReasonOf(o Outcome) string {
	switch v := o.(type) {
	case Rejected:
		return string(v.Reason)
	case ManualReviewRequested:
		return string(v.Reason)
	case ValidationError:
		return v.Field
	}
	return ""
}

// Effect is a side effect the dispatcher must carry out for an outcome.
type Effect string

const (
	EffectMarkVerified           Effect = "mark_verified"
	EffectSendSecurityCodeByMail Effect = "send_security_code_by_mail"
)

// Result is an Outcome plus the side effects it requests.
type Result struct {
	Outcome     Outcome
	Effects     []Effect
	PriorClaim  bool
	EvaluatedAt time.Time
}

// HasEffect reports whether the result requests e.
func (r *Result) HasEffect(e Effect) bool {
	for _, got := range r.Effects {
		if got == e {
			return true
		}
	}
	return false
}
