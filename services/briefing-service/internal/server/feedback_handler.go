package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/premeet/premeet/internal/models"
)

type feedbackRequest struct {
	Rating  string `json:"rating"`
	Message string `json:"message"`
}

// handleFeedback stores a thumbs-up/down rating with an optional message.
func (s *Server) handleFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Rating != models.RatingThumbsUp && req.Rating != models.RatingThumbsDown {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rating must be 'thumbs_up' or 'thumbs_down'"})
		return
	}

	fb := models.Feedback{
		UserID:    c.GetString(ctxUserID),
		Rating:    req.Rating,
		Message:   req.Message,
		CreatedAt: s.now(),
	}
	if err := s.feedback.Insert(c.Request.Context(), fb); err != nil {
		s.log.Error().Err(err).Msg("feedback insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
