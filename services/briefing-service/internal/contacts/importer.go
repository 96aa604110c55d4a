package contacts

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/calendar"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Upserter is the slice of contact storage the importer needs.
type Upserter interface {
	Upsert(ctx context.Context, c models.Contact) error
}

// Result summarizes one import run.
type Result struct {
	TotalEvents    int `json:"totalEvents"`
	UniqueContacts int `json:"uniqueContacts"`
	Imported       int `json:"imported"`
}

// Importer derives a contacts directory from calendar attendee history.
// The inference tables (personal email domains, title keywords, excluded
// address markers) come from configuration.
type Importer struct {
	calendar calendar.Client
	contacts Upserter

	personalDomains  map[string]struct{}
	titlePatterns    []*regexp.Regexp
	exclusionMarkers []string
	historyDays      int
	maxResults       int

	now func() time.Time
	log zerolog.Logger
}

// NewImporter builds an importer from configuration defaults set in the
// app package.
func NewImporter(cal calendar.Client, contacts Upserter, logger zerolog.Logger) *Importer {
	personal := make(map[string]struct{})
	for _, d := range viper.GetStringSlice("contacts.personal_domains") {
		personal[strings.ToLower(d)] = struct{}{}
	}

	var patterns []*regexp.Regexp
	for _, p := range viper.GetStringSlice("contacts.title_patterns") {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Warn().Str("pattern", p).Err(err).Msg("skipping invalid title pattern")
			continue
		}
		patterns = append(patterns, re)
	}

	historyDays := viper.GetInt("contacts.history_days")
	if historyDays <= 0 {
		historyDays = 180
	}
	maxResults := viper.GetInt("contacts.max_results")
	if maxResults <= 0 {
		maxResults = 2500
	}

	return &Importer{
		calendar:         cal,
		contacts:         contacts,
		personalDomains:  personal,
		titlePatterns:    patterns,
		exclusionMarkers: viper.GetStringSlice("contacts.exclusion_markers"),
		historyDays:      historyDays,
		maxResults:       maxResults,
		now:              time.Now,
		log:              logger,
	}
}

// Run fetches the user's calendar history and upserts every derived
// contact. Individual upsert failures are logged and skipped so one bad
// row does not abort the batch.
func (i *Importer) Run(ctx context.Context, userID, refreshToken string) (Result, error) {
	accessToken, err := i.calendar.RefreshAccessToken(ctx, refreshToken)
	if err != nil {
		return Result{}, fmt.Errorf("refresh access token: %w", err)
	}

	now := i.now()
	timeMin := now.AddDate(0, 0, -i.historyDays)

	events, err := i.calendar.ListEvents(ctx, accessToken, timeMin, now, i.maxResults)
	if err != nil {
		return Result{}, fmt.Errorf("fetch events: %w", err)
	}

	derived := i.derive(userID, events)

	result := Result{TotalEvents: len(events), UniqueContacts: len(derived)}
	for _, c := range derived {
		if err := i.contacts.Upsert(ctx, c); err != nil {
			i.log.Warn().Err(err).Str("email", c.Email).Msg("failed to upsert contact")
			continue
		}
		result.Imported++
	}

	i.log.Info().
		Str("user_id", userID).
		Int("events", result.TotalEvents).
		Int("contacts", result.Imported).
		Msg("contact import complete")

	return result, nil
}

// derive folds all event attendees into contacts keyed by lowercased
// email. The first occurrence seeds the record; later ones bump the
// meeting count, advance the last meeting date and backfill a missing
// display name.
func (i *Importer) derive(userID string, events []models.Meeting) []models.Contact {
	byEmail := make(map[string]*models.Contact)
	var order []string

	for _, event := range events {
		for _, a := range event.Attendees {
			email := strings.ToLower(a.Email)
			if email == "" || i.excluded(email) {
				continue
			}

			if existing, ok := byEmail[email]; ok {
				existing.MeetingCount++
				if event.Start.After(existing.LastMeetingDate) {
					existing.LastMeetingDate = event.Start
				}
				if existing.Name == "" && a.DisplayName != "" {
					existing.Name = a.DisplayName
				}
				continue
			}

			byEmail[email] = &models.Contact{
				UserID:          userID,
				Email:           email,
				Name:            a.DisplayName,
				Company:         i.extractCompany(email),
				Title:           i.extractTitle(a.DisplayName),
				LastMeetingDate: event.Start,
				MeetingCount:    1,
			}
			order = append(order, email)
		}
	}

	contacts := make([]models.Contact, 0, len(order))
	for _, email := range order {
		contacts = append(contacts, *byEmail[email])
	}
	return contacts
}

// excluded reports whether the address carries a resource-room or
// no-reply marker.
func (i *Importer) excluded(email string) bool {
	for _, marker := range i.exclusionMarkers {
		if strings.Contains(email, marker) {
			return true
		}
	}
	return false
}

// extractCompany guesses a company from the email domain: personal-email
// domains yield nothing, otherwise the domain's first label is
// title-cased.
func (i *Importer) extractCompany(email string) string {
	_, domain, found := strings.Cut(email, "@")
	if !found || domain == "" {
		return ""
	}
	if _, personal := i.personalDomains[strings.ToLower(domain)]; personal {
		return ""
	}

	label, _, _ := strings.Cut(domain, ".")
	if label == "" {
		return ""
	}

	r := []rune(label)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// extractTitle returns the first role keyword found in the display name.
func (i *Importer) extractTitle(name string) string {
	if name == "" {
		return ""
	}
	for _, re := range i.titlePatterns {
		if match := re.FindString(name); match != "" {
			return match
		}
	}
	return ""
}
