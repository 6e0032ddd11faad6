// Package models defines the document identity index vocabulary.
package models

import (
	"errors"
	"fmt"

	id "residency/pkg/domain"
	"residency/pkg/platform/sentinel"
)

// AlreadyBoundError reports that a document is already verified for a
// different citizen. It matches sentinel.ErrConflict.
type AlreadyBoundError struct {
	Document id.DocumentIdentity
	Holder   id.CitizenID
}

func (e *AlreadyBoundError) Error() string {
	return fmt.Sprintf("document %s already bound to another citizen", e.Document.Hash()[:12])
}

func (e *AlreadyBoundError) Is(target error) bool {
	return target == sentinel.ErrConflict
}

// IsAlreadyBound extracts an AlreadyBoundError from err.
func IsAlreadyBound(err error) (*AlreadyBoundError, bool) {
	var bound *AlreadyBoundError
	if errors.As(err, &bound) {
		return bound, true
	}
	return nil, false
}

// ErrCitizenHasDocument is returned by Bind when the citizen already holds a
// binding for a different document.
var ErrCitizenHasDocument = fmt.Errorf("citizen already bound to a different document: %w", sentinel.ErrInvalidState)
