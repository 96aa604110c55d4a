// Package apperr defines the error taxonomy shared by the HTTP handlers
// and the background jobs. Callers classify failures with errors.Is and
// wrap with fmt.Errorf("...: %w", err) to add context.
package apperr

import "errors"

var (
	// ErrAuth covers missing sessions, OAuth state mismatches and failed
	// token refreshes. Never retried automatically.
	ErrAuth = errors.New("authentication failed")

	// ErrNotConnected means the user has no stored calendar token.
	ErrNotConnected = errors.New("calendar not connected")

	// ErrUpstream covers non-success responses from the calendar or
	// enrichment provider.
	ErrUpstream = errors.New("upstream provider error")

	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrRateLimited is surfaced verbatim to the caller; the server does
	// not retry on its behalf.
	ErrRateLimited = errors.New("rate limited")

	// ErrStorage covers failed persistence operations.
	ErrStorage = errors.New("storage failure")
)
