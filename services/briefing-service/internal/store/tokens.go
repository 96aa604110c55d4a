package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
)

// TokenStore persists per-user OAuth refresh tokens, one row per
// (user_id, provider).
type TokenStore struct {
	pool *pgxpool.Pool
}

func NewTokenStore(pool *pgxpool.Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Upsert creates or overwrites the token row for (user_id, provider).
func (s *TokenStore) Upsert(ctx context.Context, rec models.TokenRecord) error {
	query := `
		INSERT INTO user_tokens (user_id, provider, email, refresh_token, access_token, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, provider)
		DO UPDATE SET email = EXCLUDED.email,
			refresh_token = EXCLUDED.refresh_token,
			access_token = EXCLUDED.access_token,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		rec.UserID,
		rec.Provider,
		rec.Email,
		rec.RefreshToken,
		rec.AccessToken,
		rec.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert token: %v", apperr.ErrStorage, err)
	}

	return nil
}

// Get returns the token row for one user, or apperr.ErrNotConnected when
// the user never linked the provider.
func (s *TokenStore) Get(ctx context.Context, userID, provider string) (models.TokenRecord, error) {
	query := `SELECT user_id, provider, email, refresh_token, access_token, updated_at
		FROM user_tokens WHERE user_id = $1 AND provider = $2`

	var rec models.TokenRecord
	err := s.pool.QueryRow(ctx, query, userID, provider).Scan(
		&rec.UserID,
		&rec.Provider,
		&rec.Email,
		&rec.RefreshToken,
		&rec.AccessToken,
		&rec.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.TokenRecord{}, apperr.ErrNotConnected
	}
	if err != nil {
		return models.TokenRecord{}, fmt.Errorf("%w: get token: %v", apperr.ErrStorage, err)
	}

	return rec, nil
}

// ListByProvider returns every connected user for one provider.
func (s *TokenStore) ListByProvider(ctx context.Context, provider string) ([]models.TokenRecord, error) {
	query := `SELECT user_id, provider, email, refresh_token, access_token, updated_at
		FROM user_tokens WHERE provider = $1`

	rows, err := s.pool.Query(ctx, query, provider)
	if err != nil {
		return nil, fmt.Errorf("%w: list tokens: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var recs []models.TokenRecord
	for rows.Next() {
		var rec models.TokenRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.Provider,
			&rec.Email,
			&rec.RefreshToken,
			&rec.AccessToken,
			&rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: scan token: %v", apperr.ErrStorage, err)
		}
		recs = append(recs, rec)
	}

	return recs, rows.Err()
}
