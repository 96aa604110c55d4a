package models

import (
	"time"
)

// TokenRecord stores a user's OAuth credentials for one calendar provider.
// The refresh token is long-lived; the access token is ephemeral and only
// cached opportunistically.
type TokenRecord struct {
	UserID       string    `db:"user_id"`
	Provider     string    `db:"provider"`
	Email        string    `db:"email"`
	RefreshToken string    `db:"refresh_token"`
	AccessToken  string    `db:"access_token"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// SentBriefing marks that a briefing email went out for a meeting.
// Existence of the row is the sole idempotency signal.
type SentBriefing struct {
	UserID    string    `db:"user_id"`
	MeetingID string    `db:"meeting_id"`
	SentAt    time.Time `db:"sent_at"`
}
