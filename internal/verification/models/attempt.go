// Package models defines the inputs and outcomes of residency verification.
package models

import (
	id "residency/pkg/domain"
)

// Input field names, as reported in ValidationError.Field.
const (
	FieldDocumentType   = "document_type"
	FieldDocumentNumber = "document_number"
	FieldDateOfBirth    = "date_of_birth"
	FieldPostalCode     = "postal_code"
	FieldTermsOfService = "terms_of_service"
)

// DateLayout is the wire format of DateOfBirth.
const DateLayout = "2006-01-02"

// Attempt is one citizen's submission of the residency form. Fields are raw
// form values; the engine validates and normalises them.
type Attempt struct {
	CitizenID      id.CitizenID
	DocumentType   string
	DocumentNumber string
	DateOfBirth    string // YYYY-MM-DD
	PostalCode     string
}
