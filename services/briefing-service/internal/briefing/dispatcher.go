package briefing

import (
	"context"
	"fmt"
	"time"

	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/calendar"
	"github.com/premeet/premeet/services/briefing-service/internal/mailer"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Provider key used for calendar token rows.
const Provider = "google"

// TokenSource enumerates connected users.
type TokenSource interface {
	ListByProvider(ctx context.Context, provider string) ([]models.TokenRecord, error)
}

// Ledger is the at-most-once gate per (user, meeting) pair.
type Ledger interface {
	HasSent(ctx context.Context, userID, meetingID string) (bool, error)
	MarkSent(ctx context.Context, userID, meetingID string) error
}

// Summary is what one dispatcher cycle reports. The run itself never
// fails: per-user failures land in Errors and processing continues.
type Summary struct {
	Processed  int      `json:"processed"`
	EmailsSent int      `json:"emailsSent"`
	Errors     []string `json:"errors,omitempty"`
}

// Dispatcher drives one polling cycle: for every connected user it fetches
// near-term events, filters them to the pre-meeting send window, consults
// the ledger and sends at most one briefing per meeting.
type Dispatcher struct {
	tokens   TokenSource
	calendar calendar.Client
	ledger   Ledger
	sender   mailer.Sender

	fetchWindow time.Duration // how far ahead events are fetched
	minLead     time.Duration // inclusive lower bound of the send window
	maxLead     time.Duration // inclusive upper bound of the send window
	overrideTo  string        // optional config override for the recipient

	now func() time.Time
	log zerolog.Logger
}

// NewDispatcher wires a dispatcher from its collaborators. Window bounds
// and the recipient override come from configuration.
func NewDispatcher(tokens TokenSource, cal calendar.Client, ledger Ledger, sender mailer.Sender, logger zerolog.Logger) *Dispatcher {
	fetchWindow := viper.GetDuration("briefing.fetch_window")
	if fetchWindow <= 0 {
		fetchWindow = 30 * time.Minute
	}
	minLead := viper.GetDuration("briefing.min_lead")
	if minLead <= 0 {
		minLead = 4 * time.Minute
	}
	maxLead := viper.GetDuration("briefing.max_lead")
	if maxLead <= 0 {
		maxLead = 6 * time.Minute
	}

	return &Dispatcher{
		tokens:      tokens,
		calendar:    cal,
		ledger:      ledger,
		sender:      sender,
		fetchWindow: fetchWindow,
		minLead:     minLead,
		maxLead:     maxLead,
		overrideTo:  viper.GetString("email.override_to"),
		now:         time.Now,
		log:         logger,
	}
}

// RunOnce executes a single dispatcher cycle. A failing user is recorded
// in the summary and never aborts the run.
func (d *Dispatcher) RunOnce(ctx context.Context) Summary {
	now := d.now()
	summary := Summary{}

	records, err := d.tokens.ListByProvider(ctx, Provider)
	if err != nil {
		summary.Errors = append(summary.Errors, fmt.Sprintf("list connected users: %v", err))
		return summary
	}
	if len(records) == 0 {
		d.log.Debug().Msg("no users with connected calendars")
		return summary
	}

	for _, rec := range records {
		sent, err := d.processUser(ctx, rec, now)
		summary.EmailsSent += sent
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("user %s: %v", rec.UserID, err))
			d.log.Warn().Err(err).Str("user_id", rec.UserID).Msg("user processing failed")
			continue
		}
		summary.Processed++
	}

	d.log.Info().
		Int("processed", summary.Processed).
		Int("emails_sent", summary.EmailsSent).
		Int("errors", len(summary.Errors)).
		Msg("dispatcher cycle complete")

	return summary
}

// processUser handles one user in the fixed order: token refresh, event
// fetch, per-event window filter, ledger check, send, record. It returns
// how many emails went out even when it also returns an error.
func (d *Dispatcher) processUser(ctx context.Context, rec models.TokenRecord, now time.Time) (int, error) {
	accessToken, err := d.calendar.RefreshAccessToken(ctx, rec.RefreshToken)
	if err != nil {
		return 0, fmt.Errorf("refresh access token: %w", err)
	}

	events, err := d.calendar.ListEvents(ctx, accessToken, now, now.Add(d.fetchWindow), 0)
	if err != nil {
		return 0, fmt.Errorf("fetch events: %w", err)
	}

	sent := 0
	for _, event := range events {
		if !d.eligible(event, now) {
			continue
		}

		already, err := d.ledger.HasSent(ctx, rec.UserID, event.ID)
		if err != nil {
			return sent, fmt.Errorf("ledger lookup for meeting %s: %w", event.ID, err)
		}
		if already {
			continue
		}

		if err := d.send(ctx, rec, event, now); err != nil {
			return sent, fmt.Errorf("send briefing for meeting %s: %w", event.ID, err)
		}
		sent++

		// Ledger write is best-effort: the email is already out, so a
		// failure here is logged rather than failing the user.
		if err := d.ledger.MarkSent(ctx, rec.UserID, event.ID); err != nil {
			d.log.Error().Err(err).
				Str("user_id", rec.UserID).
				Str("meeting_id", event.ID).
				Msg("ledger write failed after send, duplicate possible next cycle")
		}
	}

	return sent, nil
}

// eligible applies the inclusive pre-meeting send window to one event.
func (d *Dispatcher) eligible(event models.Meeting, now time.Time) bool {
	lead := event.Start.Sub(now)
	return lead >= d.minLead && lead <= d.maxLead
}

func (d *Dispatcher) send(ctx context.Context, rec models.TokenRecord, event models.Meeting, now time.Time) error {
	to := rec.Email
	if d.overrideTo != "" {
		to = d.overrideTo
	}
	if to == "" {
		return fmt.Errorf("no recipient address on record")
	}

	subject, html := Render(event, now)
	return d.sender.Send(ctx, to, subject, html)
}
