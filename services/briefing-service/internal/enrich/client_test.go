package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPDL(apiURL string) *PDLClient {
	return &PDLClient{
		apiURL: apiURL,
		apiKey: "pdl_test_key",
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestLookupSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pdl_test_key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "alice@acme.com", r.URL.Query().Get("email"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"data":{
			"full_name":"Alice Smith",
			"job_title":"VP of Engineering",
			"job_company_name":"Acme",
			"linkedin_url":"https://linkedin.com/in/alicesmith"
		}}`))
	}))
	defer srv.Close()

	p := testPDL(srv.URL)
	profile, err := p.Lookup(context.Background(), "alice@acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice Smith", profile.FullName)
	assert.Equal(t, "VP of Engineering", profile.JobTitle)
	assert.Equal(t, "Acme", profile.Company)
	assert.Equal(t, "https://linkedin.com/in/alicesmith", profile.LinkedInURL)
}

func TestLookupRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := testPDL(srv.URL)
	_, err := p.Lookup(context.Background(), "alice@acme.com")
	assert.ErrorIs(t, err, apperr.ErrRateLimited)
}

func TestLookupNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := testPDL(srv.URL)
	_, err := p.Lookup(context.Background(), "nobody@gmail.com")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLookupUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"server error"}`))
	}))
	defer srv.Close()

	p := testPDL(srv.URL)
	_, err := p.Lookup(context.Background(), "alice@acme.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), "500")
}
