package calendar

import (
	"context"
	"time"

	"github.com/premeet/premeet/internal/models"
)

// TokenResponse is the provider's answer to a code exchange or refresh.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// Client defines the calendar provider operations the service depends on.
type Client interface {
	// ExchangeCode trades an OAuth authorization code for tokens.
	ExchangeCode(ctx context.Context, code, redirectURI string) (TokenResponse, error)

	// RefreshAccessToken trades a stored refresh token for a short-lived
	// access token.
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)

	// ListEvents returns normalized meetings in [timeMin, timeMax],
	// ordered by start time, with recurring events expanded.
	// maxResults <= 0 leaves the provider default in place.
	ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time, maxResults int) ([]models.Meeting, error)
}
