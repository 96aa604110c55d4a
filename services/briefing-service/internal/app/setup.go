package app

import (
	"context"
	"fmt"

	"github.com/premeet/premeet/services/briefing-service/internal/db"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create database tables",
	Long:  "Creates the user_tokens, sent_briefings, contacts and feedback tables if they do not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		pool, err := db.Connect(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer pool.Close()

		fmt.Println("Running migrations...")
		migrationSQL := `
			-- OAuth tokens, one row per (user, provider)
			CREATE TABLE IF NOT EXISTS user_tokens (
			    user_id VARCHAR(255) NOT NULL,
			    provider VARCHAR(32) NOT NULL,
			    email VARCHAR(255) NOT NULL DEFAULT '',
			    refresh_token TEXT NOT NULL,
			    access_token TEXT NOT NULL DEFAULT '',
			    updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
			    PRIMARY KEY (user_id, provider)
			);

			-- Sent-briefing ledger: append-only, pair is unique for the
			-- lifetime of the system
			CREATE TABLE IF NOT EXISTS sent_briefings (
			    user_id VARCHAR(255) NOT NULL,
			    meeting_id VARCHAR(255) NOT NULL,
			    sent_at TIMESTAMP WITH TIME ZONE NOT NULL,
			    PRIMARY KEY (user_id, meeting_id)
			);

			-- Derived contacts directory
			CREATE TABLE IF NOT EXISTS contacts (
			    id UUID PRIMARY KEY,
			    user_id VARCHAR(255) NOT NULL,
			    email VARCHAR(255) NOT NULL,
			    name TEXT NOT NULL DEFAULT '',
			    company TEXT NOT NULL DEFAULT '',
			    title TEXT NOT NULL DEFAULT '',
			    linkedin_url TEXT NOT NULL DEFAULT '',
			    enriched BOOLEAN NOT NULL DEFAULT FALSE,
			    last_meeting_date TIMESTAMP WITH TIME ZONE NOT NULL,
			    meeting_count INTEGER NOT NULL DEFAULT 0,
			    UNIQUE (user_id, email)
			);

			CREATE INDEX IF NOT EXISTS idx_contacts_user_id ON contacts(user_id);
			CREATE INDEX IF NOT EXISTS idx_contacts_last_meeting ON contacts(last_meeting_date);

			-- User feedback, stored verbatim
			CREATE TABLE IF NOT EXISTS feedback (
			    id UUID PRIMARY KEY,
			    user_id VARCHAR(255) NOT NULL,
			    rating VARCHAR(16) NOT NULL,
			    message TEXT NOT NULL DEFAULT '',
			    created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);
		`

		if _, err := pool.Exec(ctx, migrationSQL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		fmt.Println("✓ Database setup complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
