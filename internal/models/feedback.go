package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	RatingThumbsUp   = "thumbs_up"
	RatingThumbsDown = "thumbs_down"
)

// Feedback is a user rating with an optional free-text message,
// stored verbatim.
type Feedback struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Rating    string    `json:"rating" db:"rating"`
	Message   string    `json:"message,omitempty" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
