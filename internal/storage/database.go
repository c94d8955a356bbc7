package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/conorfennell/recall/internal/domain"
	_ "modernc.org/sqlite" // Registers the sqlite driver
)

// DB is the local review journal. It never holds scheduling state; the API
// is the source of truth for what is due.
type DB struct {
	conn *sql.DB
}

// Open creates a new database connection and ensures the schema is up to date.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Execute the schema to create tables if they don't exist.
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record inserts a journal entry. It satisfies session.Recorder.
func (db *DB) Record(ctx context.Context, e domain.ReviewLog) error {
	var errText sql.NullString
	if e.Error != "" {
		errText = sql.NullString{String: e.Error, Valid: true}
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO review_events (deck_id, card_id, action, outcome, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.DeckID,
		e.CardID,
		string(e.Action),
		string(e.Outcome),
		errText,
		e.Timestamp.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s for card %d: %w", e.Action, e.CardID, err)
	}
	return nil
}

// RecentEvents returns the newest journal entries for a deck, newest first.
func (db *DB) RecentEvents(ctx context.Context, deckID int64, limit int) ([]domain.ReviewLog, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT deck_id, card_id, action, outcome, error, created_at
		FROM review_events
		WHERE deck_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, deckID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get events for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var events []domain.ReviewLog
	for rows.Next() {
		var (
			e       domain.ReviewLog
			action  string
			outcome string
			errText sql.NullString
		)
		if err := rows.Scan(&e.DeckID, &e.CardID, &action, &outcome, &errText, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan event row for deck %d: %w", deckID, err)
		}
		e.Action = domain.Action(action)
		e.Outcome = domain.Outcome(outcome)
		e.Error = errText.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events for deck %d: %w", deckID, err)
	}
	return events, nil
}

// CountSince returns how many successful actions were journaled for a deck
// at or after since.
func (db *DB) CountSince(ctx context.Context, deckID int64, since time.Time) (int, error) {
	var n int
	err := db.conn.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM review_events
		WHERE deck_id = ? AND outcome = ? AND created_at >= ?
	`, deckID, string(domain.OutcomeOK), since.UTC()).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count events for deck %d: %w", deckID, err)
	}
	return n, nil
}
