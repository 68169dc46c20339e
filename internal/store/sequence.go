package store

// Session counter infrastructure.
//
// Session numbers are dense and 1-based per character. They are assigned
// from a counter row per character rather than MAX(session_number)+1 so
// that two processes sharing the database file never hand out the same
// number: the UPSERT with RETURNING makes the increment atomic at the
// database level, and the mutex serializes within the process.

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

type sessionCounter struct {
	mu sync.Mutex
}

// newSessionCounter ensures the tracking table exists.
func newSessionCounter(db *sql.DB) (*sessionCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS session_counters (
		character_id TEXT PRIMARY KEY,
		next_val INTEGER NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create session counter table: %w", err)
	}
	return &sessionCounter{}, nil
}

// Next returns the next session number for a character.
func (sc *sessionCounter) Next(ctx context.Context, q querier, characterID string) (int, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var n int
	err := q.QueryRowContext(ctx,
		`INSERT INTO session_counters (character_id, next_val) VALUES (?, 2)
		ON CONFLICT(character_id) DO UPDATE SET next_val = next_val + 1
		RETURNING next_val - 1`,
		characterID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next session number: %w", err)
	}
	return n, nil
}
