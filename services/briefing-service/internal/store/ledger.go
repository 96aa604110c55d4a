package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
)

// Ledger records which (user, meeting) pairs already received a briefing.
// Rows are append-only and never deleted.
type Ledger struct {
	pool *pgxpool.Pool
}

func NewLedger(pool *pgxpool.Pool) *Ledger {
	return &Ledger{pool: pool}
}

// HasSent reports whether a briefing was already sent for the pair.
func (l *Ledger) HasSent(ctx context.Context, userID, meetingID string) (bool, error) {
	query := `SELECT 1 FROM sent_briefings WHERE user_id = $1 AND meeting_id = $2`

	var one int
	err := l.pool.QueryRow(ctx, query, userID, meetingID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: ledger lookup: %v", apperr.ErrStorage, err)
	}

	return true, nil
}

// MarkSent inserts the pair. The primary key makes the insert a no-op when
// a concurrent run already recorded it, so the pair stays unique.
func (l *Ledger) MarkSent(ctx context.Context, userID, meetingID string) error {
	query := `
		INSERT INTO sent_briefings (user_id, meeting_id, sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, meeting_id) DO NOTHING
	`

	_, err := l.pool.Exec(ctx, query, userID, meetingID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: ledger insert: %v", apperr.ErrStorage, err)
	}

	return nil
}
