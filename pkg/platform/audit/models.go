// Package audit records compliance events for verification decisions and
// operational events for the service itself.
//
// Events never carry raw document numbers. SubjectIDHash holds the SHA-256
// of the document identity so decisions stay traceable without PII.
package audit

import (
	"context"
	"time"

	id "residency/pkg/domain"
)

// EventCategory classifies audit events by retention and routing needs.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance that require
	// durable storage and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers routine events that may be sampled.
	CategoryOperations EventCategory = "operations"
)

// AuditEvent names an auditable action.
type AuditEvent string

const (
	EventVerificationVerified     AuditEvent = "verification_verified"
	EventVerificationRejected     AuditEvent = "verification_rejected"
	EventVerificationManualReview AuditEvent = "verification_manual_review"
	EventZipcodesLoaded           AuditEvent = "zipcodes_loaded"
	EventDispatchCircuitOpened    AuditEvent = "dispatch_circuit_opened"
	EventDispatchCircuitClosed    AuditEvent = "dispatch_circuit_closed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventVerificationVerified:     CategoryCompliance,
	EventVerificationRejected:     CategoryCompliance,
	EventVerificationManualReview: CategoryCompliance,
	EventZipcodesLoaded:           CategoryOperations,
	EventDispatchCircuitOpened:    CategoryOperations,
	EventDispatchCircuitClosed:    CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Event is the stored form of an audit record.
type Event struct {
	Category      EventCategory
	Timestamp     time.Time
	CitizenID     id.CitizenID
	Action        string
	Decision      string
	Reason        string
	SubjectIDHash string
	PriorClaim    bool
	RequestID     string
}

// ComplianceEvent captures a verification decision. CitizenID and Action
// are required.
type ComplianceEvent struct {
	Timestamp     time.Time    // set automatically if zero
	CitizenID     id.CitizenID // the citizen who submitted the attempt
	Action        string       // e.g. "verification_verified"
	Decision      string       // outcome status
	Reason        string       // outcome reason, empty for verified
	SubjectIDHash string       // SHA-256 of the document identity
	PriorClaim    bool         // document was submitted before by anyone
	RequestID     string       // correlation ID for request tracing
}

// ToEvent converts to the stored Event form.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:      CategoryCompliance,
		Timestamp:     e.Timestamp,
		CitizenID:     e.CitizenID,
		Action:        e.Action,
		Decision:      e.Decision,
		Reason:        e.Reason,
		SubjectIDHash: e.SubjectIDHash,
		PriorClaim:    e.PriorClaim,
		RequestID:     e.RequestID,
	}
}

// OpsEvent captures a routine operational fact, such as a registry reload.
// It is not tied to a citizen.
type OpsEvent struct {
	Timestamp time.Time
	Action    string
	Decision  string // short result, e.g. "loaded"
	Reason    string // free-form detail, e.g. "codes=412"
	RequestID string
}

// ToEvent converts to the stored Event form.
func (e OpsEvent) ToEvent() Event {
	return Event{
		Category:  CategoryOperations,
		Timestamp: e.Timestamp,
		Action:    e.Action,
		Decision:  e.Decision,
		Reason:    e.Reason,
		RequestID: e.RequestID,
	}
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]Event, error)
}
