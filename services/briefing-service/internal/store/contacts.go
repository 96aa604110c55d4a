package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/premeet/premeet/internal/models"
	"github.com/premeet/premeet/services/briefing-service/internal/apperr"
)

// Sort orders accepted by ContactStore.List.
const (
	SortRecent       = "recent"
	SortCompany      = "company"
	SortAlphabetical = "alphabetical"
)

// ContactStore persists the derived contacts directory, one row per
// (user_id, email).
type ContactStore struct {
	pool *pgxpool.Pool
}

func NewContactStore(pool *pgxpool.Pool) *ContactStore {
	return &ContactStore{pool: pool}
}

const contactColumns = `id, user_id, email, name, company, title, linkedin_url, enriched, last_meeting_date, meeting_count`

func scanContact(row pgx.Row) (models.Contact, error) {
	var c models.Contact
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Email,
		&c.Name,
		&c.Company,
		&c.Title,
		&c.LinkedInURL,
		&c.Enriched,
		&c.LastMeetingDate,
		&c.MeetingCount,
	)
	return c, err
}

// Upsert writes an imported contact. On conflict the row keeps its id and
// enrichment state; name/company/title are only overwritten with non-empty
// values, last_meeting_date only ever advances, and meeting_count takes the
// freshly computed total so re-imports stay idempotent.
func (s *ContactStore) Upsert(ctx context.Context, c models.Contact) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}

	query := `
		INSERT INTO contacts (id, user_id, email, name, company, title, linkedin_url, enriched, last_meeting_date, meeting_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, email)
		DO UPDATE SET
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE contacts.name END,
			company = CASE WHEN EXCLUDED.company <> '' THEN EXCLUDED.company ELSE contacts.company END,
			title = CASE WHEN EXCLUDED.title <> '' THEN EXCLUDED.title ELSE contacts.title END,
			last_meeting_date = GREATEST(contacts.last_meeting_date, EXCLUDED.last_meeting_date),
			meeting_count = EXCLUDED.meeting_count
	`

	_, err := s.pool.Exec(ctx, query,
		c.ID,
		c.UserID,
		c.Email,
		c.Name,
		c.Company,
		c.Title,
		c.LinkedInURL,
		c.Enriched,
		c.LastMeetingDate,
		c.MeetingCount,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert contact: %v", apperr.ErrStorage, err)
	}

	return nil
}

// List returns one user's contacts filtered by a free-text search and a
// company substring, ordered per the sort key.
func (s *ContactStore) List(ctx context.Context, userID, search, company, sort string) ([]models.Contact, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`)

	args := []interface{}{userID}
	if search != "" {
		args = append(args, "%"+search+"%")
		n := len(args)
		sb.WriteString(fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)`, n, n, n))
	}
	if company != "" {
		args = append(args, "%"+company+"%")
		sb.WriteString(fmt.Sprintf(` AND company ILIKE $%d`, len(args)))
	}

	switch sort {
	case SortCompany:
		sb.WriteString(` ORDER BY company ASC`)
	case SortAlphabetical:
		sb.WriteString(` ORDER BY name ASC`)
	default:
		sb.WriteString(` ORDER BY last_meeting_date DESC`)
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: list contacts: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan contact: %v", apperr.ErrStorage, err)
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// Companies returns the distinct non-empty company names for the filter
// dropdown, sorted alphabetically.
func (s *ContactStore) Companies(ctx context.Context, userID string) ([]string, error) {
	query := `SELECT DISTINCT company FROM contacts
		WHERE user_id = $1 AND company <> '' ORDER BY company ASC`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list companies: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var companies []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("%w: scan company: %v", apperr.ErrStorage, err)
		}
		companies = append(companies, c)
	}

	return companies, rows.Err()
}

// Count returns the user's total number of contacts.
func (s *ContactStore) Count(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM contacts WHERE user_id = $1`, userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count contacts: %v", apperr.ErrStorage, err)
	}
	return count, nil
}

// Recent returns the most recently met contacts.
func (s *ContactStore) Recent(ctx context.Context, userID string, limit int) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 ORDER BY last_meeting_date DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: recent contacts: %v", apperr.ErrStorage, err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan contact: %v", apperr.ErrStorage, err)
		}
		contacts = append(contacts, c)
	}

	return contacts, rows.Err()
}

// GetByID returns one contact scoped to its owner.
func (s *ContactStore) GetByID(ctx context.Context, userID string, id uuid.UUID) (models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`

	c, err := scanContact(s.pool.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Contact{}, apperr.ErrNotFound
	}
	if err != nil {
		return models.Contact{}, fmt.Errorf("%w: get contact: %v", apperr.ErrStorage, err)
	}

	return c, nil
}

// SaveEnrichment overwrites the enrichment fields of a contact and marks it
// enriched. Callers pass the already-merged values.
func (s *ContactStore) SaveEnrichment(ctx context.Context, c models.Contact) error {
	query := `
		UPDATE contacts
		SET name = $3, company = $4, title = $5, linkedin_url = $6, enriched = TRUE
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query, c.ID, c.UserID, c.Name, c.Company, c.Title, c.LinkedInURL)
	if err != nil {
		return fmt.Errorf("%w: save enrichment: %v", apperr.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}

// MarkEnriched flags a contact as enriched without touching its fields,
// used when the provider had no data so the lookup is never repeated.
func (s *ContactStore) MarkEnriched(ctx context.Context, userID string, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE contacts SET enriched = TRUE WHERE id = $1 AND user_id = $2`, id, userID,
	)
	if err != nil {
		return fmt.Errorf("%w: mark enriched: %v", apperr.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}

	return nil
}
