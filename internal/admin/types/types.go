// Package types holds the operator view of residency data.
package types

import (
	"time"

	id "residency/pkg/domain"
)

// AdminCitizen is a citizen as shown to operators. The document is reduced
// to its type and hash.
type AdminCitizen struct {
	ID                      id.CitizenID
	Level                   string
	DocumentType            string
	DocumentHash            string
	PostalCode              string
	VerifiedAt              *time.Time
	ManualReviewRequestedAt *time.Time
	CreatedAt               time.Time
}
