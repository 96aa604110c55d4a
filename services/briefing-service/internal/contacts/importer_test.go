package contacts

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/calendar"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCalendar struct {
	events     []models.Meeting
	refreshErr error
	listErr    error
}

func (f *fakeCalendar) ExchangeCode(ctx context.Context, code, redirectURI string) (calendar.TokenResponse, error) {
	return calendar.TokenResponse{}, errors.New("not implemented")
}

func (f *fakeCalendar) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	if f.refreshErr != nil {
		return "", f.refreshErr
	}
	return "access-token", nil
}

func (f *fakeCalendar) ListEvents(ctx context.Context, accessToken string, timeMin, timeMax time.Time, maxResults int) ([]models.Meeting, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.events, nil
}

type fakeUpserter struct {
	upserted []models.Contact
	failFor  map[string]error
}

func (f *fakeUpserter) Upsert(ctx context.Context, c models.Contact) error {
	if err := f.failFor[c.Email]; err != nil {
		return err
	}
	f.upserted = append(f.upserted, c)
	return nil
}

var importNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestImporter(cal *fakeCalendar, store *fakeUpserter) *Importer {
	return &Importer{
		calendar: cal,
		contacts: store,
		personalDomains: map[string]struct{}{
			"gmail.com": {},
			"yahoo.com": {},
		},
		titlePatterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(CEO|CTO|CFO|COO|CMO|CIO|VP of|VP)\b`),
			regexp.MustCompile(`(?i)\b(Director|Manager|Lead|Head of)\b`),
			regexp.MustCompile(`(?i)\b(Engineer|Developer|Designer|Product|Sales|Marketing)\b`),
			regexp.MustCompile(`(?i)\b(Founder|Co-founder|Partner|Principal)\b`),
		},
		exclusionMarkers: []string{"resource.calendar.google.com", "no-reply", "noreply"},
		historyDays:      180,
		maxResults:       2500,
		now:              func() time.Time { return importNow },
		log:              zerolog.Nop(),
	}
}

func meetingWith(start time.Time, attendees ...models.Attendee) models.Meeting {
	return models.Meeting{
		ID:        "evt-" + start.Format("20060102T1504"),
		Summary:   "Sync",
		Start:     start,
		End:       start.Add(30 * time.Minute),
		Attendees: attendees,
	}
}

func contactByEmail(t *testing.T, contacts []models.Contact, email string) models.Contact {
	t.Helper()
	for _, c := range contacts {
		if c.Email == email {
			return c
		}
	}
	t.Fatalf("contact %s not found", email)
	return models.Contact{}
}

func TestRunDerivesCompanyAndTitle(t *testing.T) {
	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(importNow.AddDate(0, 0, -3),
			models.Attendee{Email: "alice@acme.com", DisplayName: "Alice CEO of Acme", ResponseStatus: "accepted"},
			models.Attendee{Email: "room-1@resource.calendar.google.com", ResponseStatus: "accepted"},
		),
	}}
	store := &fakeUpserter{}

	result, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.TotalEvents)
	assert.Equal(t, 1, result.UniqueContacts)
	assert.Equal(t, 1, result.Imported)

	require.Len(t, store.upserted, 1)
	alice := store.upserted[0]
	assert.Equal(t, "u1", alice.UserID)
	assert.Equal(t, "alice@acme.com", alice.Email)
	assert.Equal(t, "Acme", alice.Company)
	assert.Equal(t, "CEO", alice.Title)
	assert.Equal(t, 1, alice.MeetingCount)
}

func TestRunAccumulatesAcrossMeetings(t *testing.T) {
	older := importNow.AddDate(0, 0, -30)
	newer := importNow.AddDate(0, 0, -2)

	cal := &fakeCalendar{events: []models.Meeting{
		// Unnamed first so the later occurrence backfills the name.
		meetingWith(older, models.Attendee{Email: "Bob@Acme.com", ResponseStatus: "accepted"}),
		meetingWith(newer, models.Attendee{Email: "bob@acme.com", DisplayName: "Bob Jones", ResponseStatus: "accepted"}),
	}}
	store := &fakeUpserter{}

	result, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalEvents)
	assert.Equal(t, 1, result.UniqueContacts)

	bob := contactByEmail(t, store.upserted, "bob@acme.com")
	assert.Equal(t, 2, bob.MeetingCount)
	assert.Equal(t, newer, bob.LastMeetingDate)
	assert.Equal(t, "Bob Jones", bob.Name)
}

func TestRunLastMeetingDateNeverRegresses(t *testing.T) {
	newer := importNow.AddDate(0, 0, -2)
	older := importNow.AddDate(0, 0, -30)

	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(newer, models.Attendee{Email: "bob@acme.com", ResponseStatus: "accepted"}),
		meetingWith(older, models.Attendee{Email: "bob@acme.com", ResponseStatus: "accepted"}),
	}}
	store := &fakeUpserter{}

	_, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)

	bob := contactByEmail(t, store.upserted, "bob@acme.com")
	assert.Equal(t, newer, bob.LastMeetingDate)
}

func TestRunSkipsPersonalDomainCompany(t *testing.T) {
	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(importNow.AddDate(0, 0, -1),
			models.Attendee{Email: "carol@gmail.com", DisplayName: "Carol", ResponseStatus: "accepted"},
		),
	}}
	store := &fakeUpserter{}

	_, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)

	carol := contactByEmail(t, store.upserted, "carol@gmail.com")
	assert.Equal(t, "", carol.Company)
}

func TestRunSkipsExcludedAndEmptyAddresses(t *testing.T) {
	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(importNow.AddDate(0, 0, -1),
			models.Attendee{Email: "noreply@calendar-system.com"},
			models.Attendee{Email: ""},
			models.Attendee{Email: "dave@initech.com", DisplayName: "Dave"},
		),
	}}
	store := &fakeUpserter{}

	result, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)
	assert.Equal(t, 1, result.UniqueContacts)
	require.Len(t, store.upserted, 1)
	assert.Equal(t, "dave@initech.com", store.upserted[0].Email)
}

func TestRunUpsertFailureSkipsRow(t *testing.T) {
	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(importNow.AddDate(0, 0, -1),
			models.Attendee{Email: "alice@acme.com"},
			models.Attendee{Email: "bob@initech.com"},
		),
	}}
	store := &fakeUpserter{failFor: map[string]error{
		"alice@acme.com": errors.New("constraint violation"),
	}}

	result, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.UniqueContacts)
	assert.Equal(t, 1, result.Imported)
}

func TestRunRefreshFailure(t *testing.T) {
	cal := &fakeCalendar{refreshErr: errors.New("invalid_grant")}
	store := &fakeUpserter{}

	_, err := newTestImporter(cal, store).Run(context.Background(), "u1", "rt-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh access token")
	assert.Empty(t, store.upserted)
}

func TestRunIsDeterministicAcrossReimports(t *testing.T) {
	cal := &fakeCalendar{events: []models.Meeting{
		meetingWith(importNow.AddDate(0, 0, -10), models.Attendee{Email: "alice@acme.com", DisplayName: "Alice"}),
		meetingWith(importNow.AddDate(0, 0, -5), models.Attendee{Email: "alice@acme.com"}),
	}}

	first := &fakeUpserter{}
	imp := newTestImporter(cal, first)
	_, err := imp.Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)

	second := &fakeUpserter{}
	imp.contacts = second
	_, err = imp.Run(context.Background(), "u1", "rt-1")
	require.NoError(t, err)

	// Counts are recomputed from scratch, so a re-import produces the
	// same rows rather than inflating meeting counts.
	assert.Equal(t, first.upserted, second.upserted)
}
