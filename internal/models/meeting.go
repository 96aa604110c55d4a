package models

import (
	"time"
)

// Attendee represents a single invitee on a calendar event.
// DisplayName is empty when the provider did not supply one.
type Attendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus"`
}

// Meeting is the canonical, provider-agnostic view of a calendar event.
// It is derived on every fetch and never persisted.
type Meeting struct {
	ID        string     `json:"id"`
	Summary   string     `json:"summary"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Attendees []Attendee `json:"attendees"`
}
