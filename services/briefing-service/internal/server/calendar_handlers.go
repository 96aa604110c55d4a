package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/premeet/premeet/services/briefing-service/internal/briefing"
)

// handleListEvents returns the session user's events for the next 24
// hours in the canonical meeting shape.
func (s *Server) handleListEvents(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(ctxUserID)

	rec, err := s.tokens.Get(ctx, userID, briefing.Provider)
	if errors.Is(err, apperr.ErrNotConnected) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "calendar not connected"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("token lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	accessToken, err := s.calendar.RefreshAccessToken(ctx, rec.RefreshToken)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("access token refresh failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get access token"})
		return
	}

	now := s.now()
	events, err := s.calendar.ListEvents(ctx, accessToken, now, now.Add(24*time.Hour), 0)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("event fetch failed")
		status := http.StatusInternalServerError
		if errors.Is(err, apperr.ErrUpstream) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "failed to fetch calendar events"})
		return
	}

	if events == nil {
		events = []models.Meeting{}
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

type sendBriefingRequest struct {
	Meeting *models.Meeting `json:"meeting"`
}

// handleSendBriefing sends one briefing immediately for a caller-supplied
// meeting. It deliberately bypasses the ledger: preview sends are not
// deduplicated.
func (s *Server) handleSendBriefing(c *gin.Context) {
	var req sendBriefingRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Meeting == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "meeting data required"})
		return
	}

	to := c.GetString(ctxEmail)
	if s.overrideTo != "" {
		to = s.overrideTo
	}
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no email found"})
		return
	}

	subject, html := briefing.Render(*req.Meeting, s.now())
	if err := s.sender.Send(c.Request.Context(), to, subject, html); err != nil {
		s.log.Error().Err(err).Msg("manual briefing send failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send email"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
