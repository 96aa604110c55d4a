package models

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a directory entry derived from calendar attendee history.
// Name, Company, Title and LinkedInURL are empty when unknown.
type Contact struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          string    `json:"user_id" db:"user_id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name,omitempty" db:"name"`
	Company         string    `json:"company,omitempty" db:"company"`
	Title           string    `json:"title,omitempty" db:"title"`
	LinkedInURL     string    `json:"linkedin_url,omitempty" db:"linkedin_url"`
	Enriched        bool      `json:"enriched" db:"enriched"`
	LastMeetingDate time.Time `json:"last_meeting_date" db:"last_meeting_date"`
	MeetingCount    int       `json:"meeting_count" db:"meeting_count"`
}
