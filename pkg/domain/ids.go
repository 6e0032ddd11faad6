package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "residency/pkg/domain-errors"
)

// CitizenID identifies a citizen account. It is created by the account layer
// and never reused.
type CitizenID uuid.UUID

// maxIDLength bounds input before it reaches the UUID parser.
const maxIDLength = 64

// ParseCitizenID validates and returns a CitizenID.
// Rejects empty strings, malformed UUIDs, and the nil UUID.
func ParseCitizenID(s string) (CitizenID, error) {
	u, err := parseUUID(s, "citizen ID")
	if err != nil {
		return CitizenID{}, err
	}
	return CitizenID(u), nil
}

// NewCitizenID returns a fresh random CitizenID.
func NewCitizenID() CitizenID {
	return CitizenID(uuid.New())
}

func (c CitizenID) String() string {
	return uuid.UUID(c).String()
}

// IsNil returns true if the ID is the zero value.
func (c CitizenID) IsNil() bool {
	return uuid.UUID(c) == uuid.Nil
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is too long")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be nil")
	}
	return u, nil
}
