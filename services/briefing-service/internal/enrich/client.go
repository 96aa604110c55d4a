package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/spf13/viper"
)

// Profile is the professional metadata an enrichment lookup may return.
// Empty fields mean the provider had no data for them.
type Profile struct {
	FullName    string
	JobTitle    string
	Company     string
	LinkedInURL string
}

// Client looks up a contact's professional profile by email.
type Client interface {
	Lookup(ctx context.Context, email string) (Profile, error)
}

// PDLClient implements Client against a PeopleDataLabs-style person
// enrichment API.
type PDLClient struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewPDLClient() *PDLClient {
	apiURL := viper.GetString("enrich.api_url")
	if apiURL == "" {
		apiURL = "https://api.peopledatalabs.com/v5/person/enrich"
	}

	return &PDLClient{
		apiURL: apiURL,
		apiKey: viper.GetString("enrich.api_key"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type pdlResponse struct {
	Data struct {
		FullName       string `json:"full_name"`
		JobTitle       string `json:"job_title"`
		JobCompanyName string `json:"job_company_name"`
		LinkedInURL    string `json:"linkedin_url"`
	} `json:"data"`
}

// Lookup implements Client. A 429 maps to apperr.ErrRateLimited and a 404
// to apperr.ErrNotFound so callers can mark the contact enriched without
// data.
func (p *PDLClient) Lookup(ctx context.Context, email string) (Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL, nil)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to create request: %w", err)
	}

	q := req.URL.Query()
	q.Set("email", email)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("X-Api-Key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return Profile{}, fmt.Errorf("enrichment request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return Profile{}, apperr.ErrRateLimited
	case http.StatusNotFound:
		return Profile{}, apperr.ErrNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return Profile{}, fmt.Errorf("%w: enrichment API status %d: %s", apperr.ErrUpstream, resp.StatusCode, string(body))
	}

	var pdl pdlResponse
	if err := json.NewDecoder(resp.Body).Decode(&pdl); err != nil {
		return Profile{}, fmt.Errorf("failed to decode enrichment response: %w", err)
	}

	return Profile{
		FullName:    pdl.Data.FullName,
		JobTitle:    pdl.Data.JobTitle,
		Company:     pdl.Data.JobCompanyName,
		LinkedInURL: pdl.Data.LinkedInURL,
	}, nil
}
