package server

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/premeet/premeet/services/briefing-service/internal/briefing"
)

// Read-only calendar scopes requested at consent.
var oauthScopes = []string{
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/calendar.events.readonly",
}

// handleAuthorize redirects the browser to the provider's consent screen.
// state carries the caller's user id and is checked again on callback.
func (s *Server) handleAuthorize(c *gin.Context) {
	if s.clientID == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "missing google client id"})
		return
	}

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI())
	params.Set("response_type", "code")
	params.Set("scope", strings.Join(oauthScopes, " "))
	params.Set("access_type", "offline")
	params.Set("prompt", "consent")
	params.Set("state", c.GetString(ctxUserID))

	c.Redirect(http.StatusFound, s.authURL+"?"+params.Encode())
}

// handleCallback finishes the OAuth flow: it binds state to the session
// user, exchanges the code and persists the refresh token. Failures
// redirect to the dashboard with an error code instead of rendering JSON.
func (s *Server) handleCallback(c *gin.Context) {
	userID := c.GetString(ctxUserID)

	code := c.Query("code")
	if code == "" {
		s.dashboardRedirect(c, "error=missing_code")
		return
	}
	if c.Query("state") != userID {
		s.dashboardRedirect(c, "error=invalid_state")
		return
	}

	tokens, err := s.calendar.ExchangeCode(c.Request.Context(), code, s.redirectURI())
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("oauth code exchange failed")
		s.dashboardRedirect(c, "error=exchange_failed")
		return
	}
	if tokens.RefreshToken == "" {
		s.dashboardRedirect(c, "error=no_refresh_token")
		return
	}

	rec := models.TokenRecord{
		UserID:       userID,
		Provider:     briefing.Provider,
		Email:        c.GetString(ctxEmail),
		RefreshToken: tokens.RefreshToken,
		AccessToken:  tokens.AccessToken,
		UpdatedAt:    s.now(),
	}
	if err := s.tokens.Upsert(c.Request.Context(), rec); err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("token upsert failed")
		s.dashboardRedirect(c, "error=storage_failed")
		return
	}

	s.dashboardRedirect(c, "connected=1")
}

// handleStatus reports whether the session user has a stored calendar
// token.
func (s *Server) handleStatus(c *gin.Context) {
	_, err := s.tokens.Get(c.Request.Context(), c.GetString(ctxUserID), briefing.Provider)
	if errors.Is(err, apperr.ErrNotConnected) {
		c.JSON(http.StatusOK, gin.H{"connected": false})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("status check failed")
		c.JSON(http.StatusInternalServerError, gin.H{"connected": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"connected": true})
}
