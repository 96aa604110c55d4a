package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/premeet/premeet/services/briefing-service/internal/briefing"
	"github.com/premeet/premeet/services/briefing-service/internal/store"
)

// handleListContacts returns the directory with search/filter/company
// parameters applied, the distinct companies for the filter dropdown and
// derived stats.
func (s *Server) handleListContacts(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(ctxUserID)

	search := c.Query("search")
	sort := c.DefaultQuery("filter", store.SortRecent)
	company := c.Query("company")

	contactList, err := s.contacts.List(ctx, userID, search, company, sort)
	if err != nil {
		s.log.Error().Err(err).Msg("contact list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contacts"})
		return
	}
	if contactList == nil {
		contactList = []models.Contact{}
	}

	companies, err := s.contacts.Companies(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("company list failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contacts"})
		return
	}
	if companies == nil {
		companies = []string{}
	}

	total, err := s.contacts.Count(ctx, userID)
	if err != nil {
		s.log.Error().Err(err).Msg("contact count failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contacts"})
		return
	}

	recent, err := s.contacts.Recent(ctx, userID, 5)
	if err != nil {
		s.log.Error().Err(err).Msg("recent contacts failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch contacts"})
		return
	}
	if recent == nil {
		recent = []models.Contact{}
	}

	c.JSON(http.StatusOK, gin.H{
		"contacts":  contactList,
		"companies": companies,
		"stats": gin.H{
			"total":  total,
			"recent": recent,
		},
	})
}

// handleImportContacts triggers the batch importer against the user's
// calendar history.
func (s *Server) handleImportContacts(c *gin.Context) {
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

	result, err := s.importer.Run(ctx, userID, rec.RefreshToken)
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("contact import failed")
		status := http.StatusInternalServerError
		if errors.Is(err, apperr.ErrUpstream) {
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": "failed to import contacts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        fmt.Sprintf("Imported %d contacts", result.Imported),
		"totalEvents":    result.TotalEvents,
		"uniqueContacts": result.UniqueContacts,
	})
}

type enrichRequest struct {
	ContactID string `json:"contactId"`
}

// handleEnrichContact looks up one contact through the enrichment
// provider. Already-enriched contacts are an idempotent no-op; a
// provider miss marks the contact enriched so it is never retried.
func (s *Server) handleEnrichContact(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.GetString(ctxUserID)

	var req enrichRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ContactID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "contactId is required"})
		return
	}
	contactID, err := uuid.Parse(req.ContactID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contactId"})
		return
	}

	contact, err := s.contacts.GetByID(ctx, userID, contactID)
	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "contact not found"})
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("contact lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if contact.Enriched {
		c.JSON(http.StatusOK, gin.H{
			"contact": contact,
			"message": "Contact already enriched",
		})
		return
	}

	profile, err := s.enricher.Lookup(ctx, contact.Email)
	switch {
	case errors.Is(err, apperr.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Rate limit reached. Free tier allows 100 enrichments/month.",
		})
		return
	case errors.Is(err, apperr.ErrNotFound):
		if err := s.contacts.MarkEnriched(ctx, userID, contactID); err != nil {
			s.log.Error().Err(err).Msg("mark enriched failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save enrichment data"})
			return
		}
		contact.Enriched = true
		c.JSON(http.StatusOK, gin.H{
			"contact": contact,
			"message": "No enrichment data found for this contact",
		})
		return
	case err != nil:
		s.log.Error().Err(err).Msg("enrichment lookup failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "enrichment API error"})
		return
	}

	// Only non-empty provider fields overwrite what we already have.
	if profile.FullName != "" {
		contact.Name = profile.FullName
	}
	if profile.JobTitle != "" {
		contact.Title = profile.JobTitle
	}
	if profile.Company != "" {
		contact.Company = profile.Company
	}
	if profile.LinkedInURL != "" {
		contact.LinkedInURL = profile.LinkedInURL
	}
	contact.Enriched = true

	if err := s.contacts.SaveEnrichment(ctx, contact); err != nil {
		s.log.Error().Err(err).Msg("save enrichment failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save enrichment data"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"contact": contact,
		"message": "Contact enriched successfully",
	})
}
