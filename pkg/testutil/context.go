package testutil

import (
	"net/http"
	"time"

	id "residency/pkg/domain"
	"residency/pkg/requestcontext"
)

// WithCitizenID adds a citizen ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
// If the citizenID is not a valid UUID, it will not be added to the context.
func WithCitizenID(req *http.Request, citizenID string) *http.Request {
	parsed, err := id.ParseCitizenID(citizenID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCitizenID(req.Context(), parsed))
}

// WithTime pins the request time, as the requesttime middleware would.
func WithTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
