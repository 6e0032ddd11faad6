// Package ports declares the collaborators the verification service calls.
package ports

//go:generate mockgen -source=ports.go -destination=../mocks/mocks.go -package=mocks

import (
	"context"

	citizenmodels "residency/internal/citizen/models"
	"residency/internal/verification/models"
	id "residency/pkg/domain"
	"residency/pkg/platform/audit"
)

// CitizenStore reads and writes citizen verification state.
type CitizenStore interface {
	FindByID(ctx context.Context, citizenID id.CitizenID) (*citizenmodels.Citizen, error)
	UpdateVerification(ctx context.Context, citizen *citizenmodels.Citizen) error
}

// DocumentIndex maps document identities to their verified holder. Bind is
// an atomic check-and-set.
type DocumentIndex interface {
	FindBoundCitizen(ctx context.Context, doc id.DocumentIdentity) (id.CitizenID, bool, error)
	Bind(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error
	HasPriorClaim(ctx context.Context, doc id.DocumentIdentity) (bool, error)
	RecordClaim(ctx context.Context, citizenID id.CitizenID, doc id.DocumentIdentity) error
}

// ZipcodeRegistry answers postal code eligibility.
type ZipcodeRegistry interface {
	IsEligible(postalCode string) bool
}

// Dispatcher carries out the side effects of a verification result.
type Dispatcher interface {
	Dispatch(ctx context.Context, citizenID id.CitizenID, result *models.Result) error
}

// AuditPublisher records compliance events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}
