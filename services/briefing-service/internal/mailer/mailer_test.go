package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMailer(apiURL string) *ResendMailer {
	return &ResendMailer{
		apiURL: apiURL,
		apiKey: "re_test_key",
		from:   "PreMeet <briefings@premeet.app>",
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSendPayloadAndAuth(t *testing.T) {
	var got sendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test_key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"email-1"}`))
	}))
	defer srv.Close()

	m := testMailer(srv.URL)
	err := m.Send(context.Background(), "alice@acme.com", "Briefing: Product sync today at 9:05 AM", "<html></html>")
	require.NoError(t, err)

	assert.Equal(t, "PreMeet <briefings@premeet.app>", got.From)
	assert.Equal(t, "alice@acme.com", got.To)
	assert.Equal(t, "Briefing: Product sync today at 9:05 AM", got.Subject)
	assert.Equal(t, "<html></html>", got.HTML)
}

func TestSendAcceptsAnySuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	m := testMailer(srv.URL)
	assert.NoError(t, m.Send(context.Background(), "a@b.c", "s", "h"))
}

func TestSendUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid recipient"}`))
	}))
	defer srv.Close()

	m := testMailer(srv.URL)
	err := m.Send(context.Background(), "not-an-address", "s", "h")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrUpstream)
	assert.Contains(t, err.Error(), "invalid recipient")
}
