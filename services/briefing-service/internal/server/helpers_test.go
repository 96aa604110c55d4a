package server

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/premeet/premeet/services/briefing-service/internal/calendar"
	"github.com/premeet/premeet/services/briefing-service/internal/contacts"
	"github.com/premeet/premeet/services/briefing-service/internal/enrich"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("test-session-secret")
	testNow    = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
)

type stubTokens struct {
	records   map[string]models.TokenRecord // keyed by userID
	upserted  []models.TokenRecord
	upsertErr error
	getErr    error
}

func (s *stubTokens) Upsert(ctx context.Context, rec models.TokenRecord) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserted = append(s.upserted, rec)
	return nil
}

func (s *stubTokens) Get(ctx context.Context, userID, provider string) (models.TokenRecord, error) {
	if s.getErr != nil {
		return models.TokenRecord{}, s.getErr
	}
	rec, ok := s.records[userID]
	if !ok {
		return models.TokenRecord{}, apperr.ErrNotConnected
	}
	return rec, nil
}

type stubContacts struct {
	contacts    []models.Contact
	companies   []string
	byID        map[uuid.UUID]models.Contact
	saved       []models.Contact
	marked      []uuid.UUID
	listErr     error
	getErr      error
	saveErr     error
	markErr     error
	lastSort    string
	lastSearch  string
	lastCompany string
	recentLimit int
}

func (s *stubContacts) List(ctx context.Context, userID, search, company, sort string) ([]models.Contact, error) {
	s.lastSearch, s.lastCompany, s.lastSort = search, company, sort
	return s.contacts, s.listErr
}

func (s *stubContacts) Companies(ctx context.Context, userID string) ([]string, error) {
	return s.companies, nil
}

func (s *stubContacts) Count(ctx context.Context, userID string) (int, error) {
	return len(s.contacts), nil
}

func (s *stubContacts) Recent(ctx context.Context, userID string, limit int) ([]models.Contact, error) {
	s.recentLimit = limit
	if len(s.contacts) > limit {
		return s.contacts[:limit], nil
	}
	return s.contacts, nil
}

func (s *stubContacts) GetByID(ctx context.Context, userID string, id uuid.UUID) (models.Contact, error) {
	if s.getErr != nil {
		return models.Contact{}, s.getErr
	}
	c, ok := s.byID[id]
	if !ok {
		return models.Contact{}, apperr.ErrNotFound
	}
	return c, nil
}

func (s *stubContacts) SaveEnrichment(ctx context.Context, c models.Contact) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, c)
	return nil
}

func (s *stubContacts) MarkEnriched(ctx context.Context, userID string, id uuid.UUID) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.marked = append(s.marked, id)
	return nil
}

type stubFeedback struct {
	inserted []models.Feedback
	err      error
}

func (s *stubFeedback) Insert(ctx context.Context, fb models.Feedback) error {
	if s.err != nil {
		return s.err
	}
	s.inserted = append(s.inserted, fb)
	return nil
}

type stubCalendar struct {
	exchange    calendar.TokenResponse
	exchangeErr error
	refreshErr  error
	events      []models.Meeting
	listErr     error
}

func (s *stubCalendar) ExchangeCode(ctx context.Context, code, redirectURI string) (calendar.TokenResponse, error) {
	if s.exchangeErr != nil {
		return calendar.TokenResponse{}, s.exchangeErr
	}
	return s.exchange, nil
}

func (s *stubCalendar) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	return "access-token", nil
}

func (s *stubCalendar) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time, maxResults int) ([]models.Meeting, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.events, nil
}

type stubSender struct {
	sent []struct{ to, subject, html string }
	err  error
}

func (s *stubSender) Send(ctx context.Context, to, subject, html string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, struct{ to, subject, html string }{to, subject, html})
	return nil
}

type stubEnricher struct {
	profile enrich.Profile
	err     error
}

func (s *stubEnricher) Lookup(ctx context.Context, email string) (enrich.Profile, error) {
	if s.err != nil {
		return enrich.Profile{}, s.err
	}
	return s.profile, nil
}

type stubImporter struct {
	result contacts.Result
	err    error
	ranFor []string
}

func (s *stubImporter) Run(ctx context.Context, userID, refreshToken string) (contacts.Result, error) {
	s.ranFor = append(s.ranFor, userID)
	if s.err != nil {
		return contacts.Result{}, s.err
	}
	return s.result, nil
}

type testDeps struct {
	tokens   *stubTokens
	contacts *stubContacts
	feedback *stubFeedback
	calendar *stubCalendar
	sender   *stubSender
	enricher *stubEnricher
	importer *stubImporter
}

func newTestServer(t *testing.T) (*Server, *testDeps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	deps := &testDeps{
		tokens:   &stubTokens{records: map[string]models.TokenRecord{}},
		contacts: &stubContacts{byID: map[uuid.UUID]models.Contact{}},
		feedback: &stubFeedback{},
		calendar: &stubCalendar{},
		sender:   &stubSender{},
		enricher: &stubEnricher{},
		importer: &stubImporter{},
	}

	s := &Server{
		tokens:        deps.tokens,
		contacts:      deps.contacts,
		feedback:      deps.feedback,
		calendar:      deps.calendar,
		sender:        deps.sender,
		enricher:      deps.enricher,
		importer:      deps.importer,
		baseURL:       "http://localhost:3000",
		authURL:       "https://accounts.google.com/o/oauth2/v2/auth",
		clientID:      "test-client-id",
		sessionSecret: testSecret,
		now:           func() time.Time { return testNow },
		log:           zerolog.Nop(),
	}
	return s, deps
}

// signSession issues an HS256 session token the middleware accepts.
func signSession(t *testing.T, sub, email string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   sub,
		"email": email,
		"exp":   time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func doRequest(t *testing.T, s *Server, method, target, sessionToken, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sessionToken != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken)
	}

	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}
