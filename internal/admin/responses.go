package admin

import (
	"time"

	"residency/internal/admin/types"
	"residency/pkg/platform/audit"
)

// CitizenResponse is the HTTP response DTO for GET /admin/citizens/{id}.
type CitizenResponse struct {
	ID                      string          `json:"id"`
	Level                   string          `json:"level"`
	DocumentType            string          `json:"document_type,omitempty"`
	DocumentHash            string          `json:"document_hash,omitempty"`
	PostalCode              string          `json:"postal_code,omitempty"`
	VerifiedAt              *time.Time      `json:"verified_at,omitempty"`
	ManualReviewRequestedAt *time.Time      `json:"manual_review_requested_at,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
	Events                  []EventResponse `json:"events"`
}

// EventResponse is one audit event in the citizen's history.
type EventResponse struct {
	Action     string    `json:"action"`
	Decision   string    `json:"decision"`
	Reason     string    `json:"reason,omitempty"`
	PriorClaim bool      `json:"prior_claim"`
	Timestamp  time.Time `json:"timestamp"`
}

// ZipcodesResponse is the HTTP response DTO for GET /admin/zipcodes.
type ZipcodesResponse struct {
	Codes []string `json:"codes"`
	Total int      `json:"total"`
}

func toCitizenResponse(c *types.AdminCitizen, events []audit.Event) *CitizenResponse {
	resp := &CitizenResponse{
		ID:                      c.ID.String(),
		Level:                   c.Level,
		DocumentType:            c.DocumentType,
		DocumentHash:            c.DocumentHash,
		PostalCode:              c.PostalCode,
		VerifiedAt:              c.VerifiedAt,
		ManualReviewRequestedAt: c.ManualReviewRequestedAt,
		CreatedAt:               c.CreatedAt,
		Events:                  make([]EventResponse, 0, len(events)),
	}
	for _, e := range events {
		resp.Events = append(resp.Events, EventResponse{
			Action:     e.Action,
			Decision:   e.Decision,
			Reason:     e.Reason,
			PriorClaim: e.PriorClaim,
			Timestamp:  e.Timestamp,
		})
	}
	return resp
}
