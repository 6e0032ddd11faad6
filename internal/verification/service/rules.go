package service

import (
	"fmt"
	"strings"
	"time"

	"residency/internal/verification/models"
	"residency/internal/zipcode"
	id "residency/pkg/domain"
	dErrors "residency/pkg/domain-errors"
)

// DefaultMinimumAge is the minimum voting age when none is configured.
const DefaultMinimumAge = 16

// maxPostalCodeLength bounds postal codes before registry lookup.
const maxPostalCodeLength = 16

// Config holds the eligibility rules passed into the engine.
type Config struct {
	MinimumAge    int
	DocumentTypes []id.DocumentType
}

// DefaultConfig accepts every known document type from age 16.
func DefaultConfig() Config {
	return Config{
		MinimumAge: DefaultMinimumAge,
		DocumentTypes: []id.DocumentType{
			id.DocumentTypeNationalID,
			id.DocumentTypePassport,
			id.DocumentTypeResidencePermit,
		},
	}
}

// ConfigFrom builds a Config from configured document type names.
func ConfigFrom(minimumAge int, documentTypes []string) (Config, error) {
	cfg := Config{MinimumAge: minimumAge}
	for _, raw := range documentTypes {
		t, err := id.ParseDocumentType(raw)
		if err != nil {
			return Config{}, fmt.Errorf("verification.document_types: %w", err)
		}
		cfg.DocumentTypes = append(cfg.DocumentTypes, t)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the rules are usable.
func (c Config) Validate() error {
	if c.MinimumAge <= 0 {
		return fmt.Errorf("minimum age must be positive, got %d", c.MinimumAge)
	}
	if len(c.DocumentTypes) == 0 {
		return fmt.Errorf("at least one document type must be accepted")
	}
	return nil
}

func (c Config) accepts(t id.DocumentType) bool {
	for _, allowed := range c.DocumentTypes {
		if allowed == t {
			return true
		}
	}
	return false
}

// parsedAttempt is an Attempt that passed validation.
type parsedAttempt struct {
	document    id.DocumentIdentity
	dateOfBirth time.Time
	postalCode  string
}

// validateAttempt checks form-level constraints in field order and returns
// the first failing field. It performs no lookups.
func validateAttempt(a models.Attempt, cfg Config, now time.Time) (parsedAttempt, *models.ValidationError) {
	docType, err := id.ParseDocumentType(a.DocumentType)
	if err != nil {
		return parsedAttempt{}, invalid(models.FieldDocumentType, err)
	}
	if !cfg.accepts(docType) {
		return parsedAttempt{}, &models.ValidationError{
			Field:   models.FieldDocumentType,
			Message: "document_type is not accepted",
		}
	}

	doc, err := id.NewDocumentIdentity(docType, a.DocumentNumber)
	if err != nil {
		return parsedAttempt{}, invalid(models.FieldDocumentNumber, err)
	}

	dob, verr := parseDateOfBirth(a.DateOfBirth, now)
	if verr != nil {
		return parsedAttempt{}, verr
	}

	postalCode := zipcode.Normalize(a.PostalCode)
	if postalCode == "" {
		return parsedAttempt{}, &models.ValidationError{Field: models.FieldPostalCode, Message: "postal_code is required"}
	}
	if len(postalCode) > maxPostalCodeLength {
		return parsedAttempt{}, &models.ValidationError{Field: models.FieldPostalCode, Message: "postal_code is too long"}
	}

	return parsedAttempt{document: doc, dateOfBirth: dob, postalCode: postalCode}, nil
}

func parseDateOfBirth(raw string, now time.Time) (time.Time, *models.ValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "date_of_birth is required"}
	}
	dob, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "date_of_birth must be a valid YYYY-MM-DD date"}
	}
	if dob.After(dateOf(now)) {
		return time.Time{}, &models.ValidationError{Field: models.FieldDateOfBirth, Message: "date_of_birth cannot be in the future"}
	}
	return dob, nil
}

func invalid(field string, err error) *models.ValidationError {
	return &models.ValidationError{Field: field, Message: dErrors.MessageOf(err)}
}

// dateOf truncates t to its UTC calendar date.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeAt returns the completed years between dateOfBirth and now. A birthday
// on 29 February is reached on 1 March in non-leap years.
func AgeAt(dateOfBirth, now time.Time) int {
	today := dateOf(now)
	dob := dateOf(dateOfBirth)
	years := today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years
}
