package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/premeet/premeet/services/mock-server/internal/mock"
)

// Local stand-in for the Google OAuth/Calendar APIs, the transactional
// email API and the enrichment API, so the briefing service can run
// end-to-end without real credentials.
func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Google OAuth2 token endpoint
	r.POST("/oauth2/token", handleToken)

	// Google Calendar events endpoint
	r.GET("/calendar/v3/calendars/primary/events", handleListEvents)

	// Resend-style email delivery
	r.POST("/emails", handleSendEmail)

	// PeopleDataLabs-style person enrichment
	r.GET("/v5/person/enrich", handleEnrich)

	// Admin endpoints for testing
	admin := r.Group("/admin")
	{
		admin.GET("/emails", handleListSentEmails)
		admin.POST("/events", handleAddEvent)
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Starting PreMeet mock API server on %s", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

func handleToken(c *gin.Context) {
	grantType := c.PostForm("grant_type")

	switch grantType {
	case "authorization_code":
		if c.PostForm("code") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
			return
		}
		c.JSON(http.StatusOK, mock.IssueTokens(true))
	case "refresh_token":
		if c.PostForm("refresh_token") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_grant"})
			return
		}
		c.JSON(http.StatusOK, mock.IssueTokens(false))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported_grant_type"})
	}
}

func handleListEvents(c *gin.Context) {
	if c.GetHeader("Authorization") == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing access token"})
		return
	}

	events, err := mock.ListEvents(c.Query("timeMin"), c.Query("timeMax"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": events})
}

func handleSendEmail(c *gin.Context) {
	var req mock.SentEmail
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	id := mock.RecordEmail(req)
	c.JSON(http.StatusOK, gin.H{"id": id})
}

func handleEnrich(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	profile, found := mock.LookupProfile(email)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"status": 404})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": 200, "data": profile})
}

func handleListSentEmails(c *gin.Context) {
	c.JSON(http.StatusOK, mock.SentEmails())
}

func handleAddEvent(c *gin.Context) {
	var ev mock.Event
	if err := c.ShouldBindJSON(&ev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event"})
		return
	}

	mock.AddEvent(ev)
	c.JSON(http.StatusOK, gin.H{"added": ev.ID})
}
