package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/calendar"
	"github.com/premeet/premeet/services/briefing-service/internal/contacts"
	"github.com/premeet/premeet/services/briefing-service/internal/enrich"
	"github.com/premeet/premeet/services/briefing-service/internal/mailer"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// TokenStore is the slice of token persistence the handlers need.
type TokenStore interface {
	Upsert(ctx context.Context, rec models.TokenRecord) error
	Get(ctx context.Context, userID, provider string) (models.TokenRecord, error)
}

// ContactStore is the slice of contact persistence the handlers need.
type ContactStore interface {
	List(ctx context.Context, userID, search, company, sort string) ([]models.Contact, error)
	Companies(ctx context.Context, userID string) ([]string, error)
	Count(ctx context.Context, userID string) (int, error)
	Recent(ctx context.Context, userID string, limit int) ([]models.Contact, error)
	GetByID(ctx context.Context, userID string, id uuid.UUID) (models.Contact, error)
	SaveEnrichment(ctx context.Context, c models.Contact) error
	MarkEnriched(ctx context.Context, userID string, id uuid.UUID) error
}

// FeedbackStore persists user feedback.
type FeedbackStore interface {
	Insert(ctx context.Context, fb models.Feedback) error
}

// ContactImporter runs the batch contact derivation.
type ContactImporter interface {
	Run(ctx context.Context, userID, refreshToken string) (contacts.Result, error)
}

// Server holds the handler dependencies and builds the gin router.
type Server struct {
	tokens   TokenStore
	contacts ContactStore
	feedback FeedbackStore
	calendar calendar.Client
	sender   mailer.Sender
	enricher enrich.Client
	importer ContactImporter

	baseURL       string
	authURL       string
	clientID      string
	sessionSecret []byte
	overrideTo    string

	now func() time.Time
	log zerolog.Logger
}

// New wires a server from its collaborators; URLs and the session secret
// come from configuration.
func New(tokens TokenStore, contactStore ContactStore, feedback FeedbackStore, cal calendar.Client, sender mailer.Sender, enricher enrich.Client, importer ContactImporter, logger zerolog.Logger) *Server {
	baseURL := viper.GetString("app.base_url")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	authURL := viper.GetString("google.auth_url")
	if authURL == "" {
		authURL = "https://accounts.google.com/o/oauth2/v2/auth"
	}

	return &Server{
		tokens:        tokens,
		contacts:      contactStore,
		feedback:      feedback,
		calendar:      cal,
		sender:        sender,
		enricher:      enricher,
		importer:      importer,
		baseURL:       baseURL,
		authURL:       authURL,
		clientID:      viper.GetString("google.client_id"),
		sessionSecret: []byte(viper.GetString("session.secret")),
		overrideTo:    viper.GetString("email.override_to"),
		now:           time.Now,
		log:           logger,
	}
}

// Router builds the HTTP surface. Everything under /api requires an
// authenticated session; /health does not.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", s.requireSession)
	{
		google := api.Group("/google")
		{
			google.GET("", s.handleAuthorize)
			google.GET("/callback", s.handleCallback)
			google.GET("/status", s.handleStatus)
		}

		api.GET("/calendar/events", s.handleListEvents)
		api.POST("/send-briefing", s.handleSendBriefing)

		contactsGroup := api.Group("/contacts")
		{
			contactsGroup.GET("", s.handleListContacts)
			contactsGroup.POST("/import", s.handleImportContacts)
			contactsGroup.POST("/enrich", s.handleEnrichContact)
		}

		api.POST("/feedback", s.handleFeedback)
	}

	return r
}

func (s *Server) redirectURI() string {
	return s.baseURL + "/api/google/callback"
}

func (s *Server) dashboardRedirect(c *gin.Context, query string) {
	c.Redirect(http.StatusFound, s.baseURL+"/dashboard?"+query)
}
