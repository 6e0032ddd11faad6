// Package zipcode holds the allow-list of postal codes whose residents may
// take part in residency-restricted votes.
//
// The registry is built once at startup from one or more sources and is
// immutable afterwards, so lookups need no locking.
package zipcode

import (
	"sort"
	"strings"

	pstrings "residency/pkg/platform/strings"
)

// Registry answers whether a postal code is eligible.
type Registry interface {
	IsEligible(postalCode string) bool
}

// Set is an immutable Registry.
type Set struct {
	codes map[string]struct{}
}

// NewSet builds a Set from raw codes. Blank entries are dropped and
// duplicates collapse after normalisation.
func NewSet(codes ...string) *Set {
	normalized := pstrings.DedupeAndTrimUpper(codes)
	s := &Set{codes: make(map[string]struct{}, len(normalized))}
	for _, c := range normalized {
		s.codes[c] = struct{}{}
	}
	return s
}

// Normalize trims and upper-cases a postal code.
func Normalize(postalCode string) string {
	return strings.ToUpper(strings.TrimSpace(postalCode))
}

// IsEligible reports exact membership after normalisation. Unknown and empty
// codes are simply not eligible.
func (s *Set) IsEligible(postalCode string) bool {
	if s == nil {
		return false
	}
	code := Normalize(postalCode)
	if code == "" {
		return false
	}
	_, ok := s.codes[code]
	return ok
}

// Len returns the number of eligible codes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.codes)
}

// Codes returns the eligible codes in sorted order.
func (s *Set) Codes() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.codes))
	for c := range s.codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
