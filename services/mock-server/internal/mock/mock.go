package mock

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	firstNames = []string{"John", "Jane", "Bob", "Alice", "Charlie", "Diana", "Eve", "Frank"}
	lastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis"}
	domains    = []string{"example.com", "company.com", "business.org", "enterprise.net"}
	summaries  = []string{
		"Product sync",
		"1:1 with manager",
		"Quarterly planning",
		"Design review",
		"Customer call",
	}

	extraEvents []Event
	eventsMutex sync.RWMutex

	sentEmails  []SentEmail
	emailsMutex sync.RWMutex
)

// EventTime mirrors the Google Calendar wire shape: timed events carry
// dateTime, all-day events carry date only.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
}

type EventAttendee struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName,omitempty"`
	ResponseStatus string `json:"responseStatus"`
}

type Event struct {
	ID        string          `json:"id"`
	Summary   string          `json:"summary,omitempty"`
	Start     EventTime       `json:"start"`
	End       EventTime       `json:"end"`
	Attendees []EventAttendee `json:"attendees,omitempty"`
}

// SentEmail is what the fake delivery endpoint captures.
type SentEmail struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// TokenResponse mirrors the OAuth token endpoint payload.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// IssueTokens returns fresh mock tokens. A refresh token is only included
// on the initial code exchange, matching the provider's offline flow.
func IssueTokens(withRefresh bool) TokenResponse {
	resp := TokenResponse{
		AccessToken: "mock-access-" + uuid.NewString(),
		ExpiresIn:   3600,
		TokenType:   "Bearer",
	}
	if withRefresh {
		resp.RefreshToken = "mock-refresh-" + uuid.NewString()
	}
	return resp
}

// generatedEvents builds a deterministic schedule around now: one meeting
// in the briefing send window, one later today, one tomorrow and one
// all-day event.
func generatedEvents(now time.Time) []Event {
	mk := func(idx int, start time.Time, dur time.Duration, attendeeCount int) Event {
		attendees := make([]EventAttendee, 0, attendeeCount)
		for i := 0; i < attendeeCount; i++ {
			first := firstNames[(idx+i)%len(firstNames)]
			last := lastNames[(idx+i)%len(lastNames)]
			attendee := EventAttendee{
				Email:          fmt.Sprintf("%s.%s@%s", strings.ToLower(first), strings.ToLower(last), domains[(idx+i)%len(domains)]),
				ResponseStatus: "accepted",
			}
			// Leave every other display name empty to exercise the
			// email-only fallback.
			if i%2 == 0 {
				attendee.DisplayName = first + " " + last
			}
			attendees = append(attendees, attendee)
		}

		return Event{
			ID:      fmt.Sprintf("mock-event-%d", idx),
			Summary: summaries[idx%len(summaries)],
			Start:   EventTime{DateTime: start.Format(time.RFC3339)},
			End:     EventTime{DateTime: start.Add(dur).Format(time.RFC3339)},
			Attendees: attendees,
		}
	}

	events := []Event{
		mk(0, now.Add(5*time.Minute), 30*time.Minute, 2),
		mk(1, now.Add(2*time.Hour), 45*time.Minute, 3),
		mk(2, now.Add(26*time.Hour), 30*time.Minute, 1),
	}

	// All-day event with a date-only start, and a title-less meeting.
	events = append(events, Event{
		ID:    "mock-event-allday",
		Summary: "Offsite",
		Start: EventTime{Date: now.AddDate(0, 0, 2).Format("2006-01-02")},
		End:   EventTime{Date: now.AddDate(0, 0, 3).Format("2006-01-02")},
	})
	events = append(events, Event{
		ID:    "mock-event-untitled",
		Start: EventTime{DateTime: now.Add(10 * time.Minute).Format(time.RFC3339)},
		End:   EventTime{DateTime: now.Add(40 * time.Minute).Format(time.RFC3339)},
	})

	return events
}

// ListEvents returns the generated schedule plus any admin-injected
// events, filtered to [timeMin, timeMax] when provided.
func ListEvents(timeMinStr, timeMaxStr string) ([]Event, error) {
	now := time.Now()

	var timeMin, timeMax time.Time
	var err error
	if timeMinStr != "" {
		if timeMin, err = time.Parse(time.RFC3339, timeMinStr); err != nil {
			return nil, fmt.Errorf("invalid timeMin format (use RFC3339)")
		}
	}
	if timeMaxStr != "" {
		if timeMax, err = time.Parse(time.RFC3339, timeMaxStr); err != nil {
			return nil, fmt.Errorf("invalid timeMax format (use RFC3339)")
		}
	}

	eventsMutex.RLock()
	all := append(generatedEvents(now), extraEvents...)
	eventsMutex.RUnlock()

	filtered := make([]Event, 0, len(all))
	for _, ev := range all {
		start := eventStart(ev)
		if !timeMin.IsZero() && start.Before(timeMin) {
			continue
		}
		if !timeMax.IsZero() && start.After(timeMax) {
			continue
		}
		filtered = append(filtered, ev)
	}

	return filtered, nil
}

func eventStart(ev Event) time.Time {
	if ev.Start.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			return t
		}
	}
	if ev.Start.Date != "" {
		if t, err := time.Parse("2006-01-02", ev.Start.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// AddEvent injects a custom event for testing.
func AddEvent(ev Event) {
	eventsMutex.Lock()
	extraEvents = append(extraEvents, ev)
	eventsMutex.Unlock()
}

// RecordEmail captures a delivery request and returns a message id.
func RecordEmail(email SentEmail) string {
	emailsMutex.Lock()
	sentEmails = append(sentEmails, email)
	emailsMutex.Unlock()
	return uuid.NewString()
}

// SentEmails returns every captured delivery.
func SentEmails() []SentEmail {
	emailsMutex.RLock()
	defer emailsMutex.RUnlock()

	out := make([]SentEmail, len(sentEmails))
	copy(out, sentEmails)
	return out
}

// LookupProfile returns a deterministic profile for corporate addresses
// and no data for personal ones, mimicking the enrichment provider's hit
// rate.
func LookupProfile(email string) (map[string]string, bool) {
	local, domain, found := strings.Cut(strings.ToLower(email), "@")
	if !found || domain == "gmail.com" || domain == "yahoo.com" {
		return nil, false
	}

	first := local
	if dot := strings.Index(local, "."); dot > 0 {
		first = local[:dot]
	}
	name := strings.ToUpper(first[:1]) + first[1:]
	companyLabel, _, _ := strings.Cut(domain, ".")

	return map[string]string{
		"full_name":        name + " " + strings.ToUpper(companyLabel[:1]) + companyLabel[1:],
		"job_title":        "Engineer",
		"job_company_name": strings.ToUpper(companyLabel[:1]) + companyLabel[1:],
		"linkedin_url":     "https://linkedin.com/in/" + local,
	}, true
}
