package models

import (
	"time"

	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
)

// Level is a citizen's residency verification level.
type Level string

const (
	LevelUnverified          Level = "unverified"
	LevelVerified            Level = "verified"
	LevelManualReviewPending Level = "manual_review_pending"
)

// IsValid reports whether the level is one of the known levels.
func (l Level) IsValid() bool {
	switch l {
	case LevelUnverified, LevelVerified, LevelManualReviewPending:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from l to next is allowed.
// Levels only move forward: a verified citizen never drops back, and a
// pending manual review can only be resolved into verified.
func (l Level) CanTransitionTo(next Level) bool {
	switch l {
	case LevelUnverified:
		return next == LevelVerified || next == LevelManualReviewPending
	case LevelManualReviewPending:
		return next == LevelVerified
	}
	return false
}

// Predecessors lists the levels that may move to l. Stores use it to make a
// state write conditional on the level still being one of these.
func (l Level) Predecessors() []Level {
	var from []Level
	for _, candidate := range []Level{LevelUnverified, LevelVerified, LevelManualReviewPending} {
		if candidate.CanTransitionTo(l) {
			from = append(from, candidate)
		}
	}
	return from
}

func (l Level) String() string {
	return string(l)
}

// Citizen is the aggregate holding a citizen's verification state.
//
// Invariants:
//   - Level is always a known level
//   - Document is set if and only if Level is verified
//   - VerifiedAt is set if and only if Level is verified
type Citizen struct {
	ID                      id.CitizenID         `json:"id"`
	Level                   Level                `json:"level"`
	Document                *id.DocumentIdentity `json:"-"`
	DateOfBirth             *time.Time           `json:"-"`
	PostalCode              string               `json:"-"`
	VerifiedAt              *time.Time           `json:"verified_at,omitempty"`
	ManualReviewRequestedAt *time.Time           `json:"manual_review_requested_at,omitempty"`
	CreatedAt               time.Time            `json:"created_at"`
	UpdatedAt               time.Time            `json:"updated_at"`
}

// NewCitizen creates an unverified citizen.
func NewCitizen(citizenID id.CitizenID, now time.Time) (*Citizen, error) {
	if citizenID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "citizen ID cannot be nil")
	}
	return &Citizen{
		ID:        citizenID,
		Level:     LevelUnverified,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (c *Citizen) IsVerified() bool {
	return c.Level == LevelVerified
}

func (c *Citizen) IsPendingReview() bool {
	return c.Level == LevelManualReviewPending
}

// HoldsDocument reports whether the citizen is verified with exactly doc.
func (c *Citizen) HoldsDocument(doc id.DocumentIdentity) bool {
	return c.Document != nil && c.Document.Key() == doc.Key()
}

// Residence is the data a successful verification records on the citizen.
type Residence struct {
	Document    id.DocumentIdentity
	DateOfBirth time.Time
	PostalCode  string
}

// CanVerify checks that the citizen may move to verified.
func (c *Citizen) CanVerify() error {
	if !c.Level.CanTransitionTo(LevelVerified) {
		return dErrors.New(dErrors.CodeInvariantViolation, "citizen cannot be verified from level "+c.Level.String())
	}
	return nil
}

// ApplyVerification records the verified residence. Call CanVerify first.
func (c *Citizen) ApplyVerification(residence Residence, now time.Time) {
	doc := residence.Document
	dob := residence.DateOfBirth
	c.Level = LevelVerified
	c.Document = &doc
	c.DateOfBirth = &dob
	c.PostalCode = residence.PostalCode
	c.VerifiedAt = &now
	c.UpdatedAt = now
}

// Verify validates and applies verification in one call.
func (c *Citizen) Verify(residence Residence, now time.Time) error {
	if err := c.CanVerify(); err != nil {
		return err
	}
	c.ApplyVerification(residence, now)
	return nil
}

// CanRequestManualReview checks that the citizen may move to manual review.
func (c *Citizen) CanRequestManualReview() error {
	if !c.Level.CanTransitionTo(LevelManualReviewPending) {
		return dErrors.New(dErrors.CodeInvariantViolation, "citizen cannot enter manual review from level "+c.Level.String())
	}
	return nil
}

// ApplyManualReview flags the citizen for manual review.
// Call CanRequestManualReview first.
func (c *Citizen) ApplyManualReview(now time.Time) {
	c.Level = LevelManualReviewPending
	c.ManualReviewRequestedAt = &now
	c.UpdatedAt = now
}

// RequestManualReview validates and applies the manual review transition.
func (c *Citizen) RequestManualReview(now time.Time) error {
	if err := c.CanRequestManualReview(); err != nil {
		return err
	}
	c.ApplyManualReview(now)
	return nil
}
