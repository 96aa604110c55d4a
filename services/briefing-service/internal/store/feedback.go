package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
)

// FeedbackStore persists thumbs-up/down ratings verbatim.
type FeedbackStore struct {
	pool *pgxpool.Pool
}

func NewFeedbackStore(pool *pgxpool.Pool) *FeedbackStore {
	return &FeedbackStore{pool: pool}
}

func (s *FeedbackStore) Insert(ctx context.Context, fb models.Feedback) error {
	if fb.ID == uuid.Nil {
		fb.ID = uuid.New()
	}

	query := `
		INSERT INTO feedback (id, user_id, rating, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := s.pool.Exec(ctx, query, fb.ID, fb.UserID, fb.Rating, fb.Message, fb.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert feedback: %v", apperr.ErrStorage, err)
	}

	return nil
}
