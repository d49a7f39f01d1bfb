package persist

import (
	"context"
	"fmt"
	"time"
)

// JournalEntry is one lifecycle event of one creature in one caretaker run.
type JournalEntry struct {
	SessionID string
	Creature  string
	Kind      string // "born", "soiled", "died", ...
	Detail    string
	At        time.Time
}

// JournalWriter is the write side of the journal.
type JournalWriter interface {
	Write(ctx context.Context, entries []JournalEntry) error
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// Write appends a batch of entries in a single transaction. Either all of
// them are stored or none.
func (r *JournalRepo) Write(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO lifecycle_journal (session_id, creature_id, kind, detail, at)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.SessionID, e.Creature, e.Kind, e.Detail, e.At,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// CountSession returns how many entries a session has written.
func (r *JournalRepo) CountSession(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM lifecycle_journal WHERE session_id = $1`, sessionID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("journal count: %w", err)
	}
	return n, nil
}
