package handler

import (
	"strings"

	"residency/internal/verification/models"
	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
)

// maxFieldLength bounds every text field before it reaches the engine.
const maxFieldLength = 64

// VerifyRequest is the HTTP request body for POST /verify.
type VerifyRequest struct {
	DocumentType   string `json:"document_type"`
	DocumentNumber string `json:"document_number"`
	DateOfBirth    string `json:"date_of_birth"`
	PostalCode     string `json:"postal_code"`
	TermsOfService *bool  `json:"terms_of_service"`
}

// fieldError is a 400 pointing at one request field.
type fieldError struct {
	field   string
	message string
}

func (e *fieldError) Error() string     { return e.message }
func (e *fieldError) FieldName() string { return e.field }

// Validate checks the fields the engine does not own: sizes and the terms
// of service acceptance. Format rules are applied by the engine so that a
// malformed attempt is reported the same way from every caller.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	fields := []struct {
		name  string
		value *string
	}{
		{models.FieldDocumentType, &r.DocumentType},
		{models.FieldDocumentNumber, &r.DocumentNumber},
		{models.FieldDateOfBirth, &r.DateOfBirth},
		{models.FieldPostalCode, &r.PostalCode},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if len(*f.value) > maxFieldLength {
			return &fieldError{field: f.name, message: f.name + " is too long"}
		}
	}

	if r.TermsOfService == nil || !*r.TermsOfService {
		return &fieldError{field: models.FieldTermsOfService, message: "terms of service must be accepted"}
	}
	return nil
}

// ToAttempt builds the engine input for the authenticated citizen.
func (r *VerifyRequest) ToAttempt(citizenID id.CitizenID) models.Attempt {
	return models.Attempt{
		CitizenID:      citizenID,
		DocumentType:   r.DocumentType,
		DocumentNumber: r.DocumentNumber,
		DateOfBirth:    r.DateOfBirth,
		PostalCode:     r.PostalCode,
	}
}
