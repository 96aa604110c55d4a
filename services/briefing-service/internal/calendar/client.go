package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/spf13/viper"
)

// Placeholder summary for events without a title.
const noTitle = "(No title)"

// GoogleClient implements Client against the Google OAuth2 and Calendar
// APIs. Endpoints are configurable so the mock server can stand in.
type GoogleClient struct {
	clientID     string
	clientSecret string
	tokenURL     string
	eventsURL    string
	client       *http.Client
}

// NewGoogleClient creates a Google calendar client from configuration.
func NewGoogleClient() *GoogleClient {
	tokenURL := viper.GetString("google.token_url")
	if tokenURL == "" {
		tokenURL = "https://oauth2.googleapis.com/token"
	}
	eventsURL := viper.GetString("google.calendar_url")
	if eventsURL == "" {
		eventsURL = "https://www.googleapis.com/calendar/v3/calendars/primary/events"
	}

	return &GoogleClient{
		clientID:     viper.GetString("google.client_id"),
		clientSecret: viper.GetString("google.client_secret"),
		tokenURL:     tokenURL,
		eventsURL:    eventsURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExchangeCode implements Client.ExchangeCode.
func (g *GoogleClient) ExchangeCode(ctx context.Context, code, redirectURI string) (TokenResponse, error) {
	form := url.Values{}
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", redirectURI)
	form.Set("grant_type", "authorization_code")

	return g.postToken(ctx, form)
}

// RefreshAccessToken implements Client.RefreshAccessToken. It fails with an
// auth error when the provider rejects the refresh token or returns no
// access token.
func (g *GoogleClient) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("refresh_token", refreshToken)
	form.Set("grant_type", "refresh_token")

	tokens, err := g.postToken(ctx, form)
	if err != nil {
		return "", err
	}
	if tokens.AccessToken == "" {
		return "", fmt.Errorf("%w: no access token in refresh response", apperr.ErrAuth)
	}

	return tokens.AccessToken, nil
}

func (g *GoogleClient) postToken(ctx context.Context, form url.Values) (TokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return TokenResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(req)
	if err != nil {
		return TokenResponse{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return TokenResponse{}, fmt.Errorf("%w: token endpoint status %d: %s", apperr.ErrAuth, resp.StatusCode, string(body))
	}

	var tokens TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokens); err != nil {
		return TokenResponse{}, fmt.Errorf("failed to decode token response: %w", err)
	}

	return tokens, nil
}

// Raw wire shapes of the events-list response.
type rawEventTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

type rawAttendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	ResponseStatus string `json:"responseStatus"`
}

type rawEvent struct {
	ID        string        `json:"id"`
	Summary   string        `json:"summary"`
	Start     rawEventTime  `json:"start"`
	End       rawEventTime  `json:"end"`
	Attendees []rawAttendee `json:"attendees"`
}

type rawEventList struct {
	Items []rawEvent `json:"items"`
}

// ListEvents implements Client.ListEvents.
func (g *GoogleClient) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time, maxResults int) ([]models.Meeting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("timeMin", timeMin.Format(time.RFC3339))
	q.Set("timeMax", timeMax.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	if maxResults > 0 {
		q.Set("maxResults", strconv.Itoa(maxResults))
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: events endpoint status %d: %s", apperr.ErrUpstream, resp.StatusCode, string(body))
	}

	var list rawEventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to decode events response: %w", err)
	}

	meetings := make([]models.Meeting, 0, len(list.Items))
	for _, ev := range list.Items {
		meetings = append(meetings, normalizeEvent(ev))
	}

	return meetings, nil
}

// normalizeEvent maps a raw provider event to the canonical meeting shape:
// missing summaries get a placeholder, all-day events fall back to the
// date-only field, and a missing attendee list becomes an empty one.
func normalizeEvent(ev rawEvent) models.Meeting {
	summary := ev.Summary
	if summary == "" {
		summary = noTitle
	}

	attendees := make([]models.Attendee, 0, len(ev.Attendees))
	for _, a := range ev.Attendees {
		attendees = append(attendees, models.Attendee{
			Email:          a.Email,
			DisplayName:    a.DisplayName,
			ResponseStatus: a.ResponseStatus,
		})
	}

	return models.Meeting{
		ID:        ev.ID,
		Summary:   summary,
		Start:     parseEventTime(ev.Start),
		End:       parseEventTime(ev.End),
		Attendees: attendees,
	}
}

func parseEventTime(t rawEventTime) time.Time {
	if t.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, t.DateTime); err == nil {
			return parsed
		}
	}
	if t.Date != "" {
		if parsed, err := time.Parse("2006-01-02", t.Date); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
