package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/advancer/internal/record"
)

// AppendHistory files a payload under its character with the next
// session number.
func (s *Store) AppendHistory(ctx context.Context, p record.Payload) (record.HistoryEntry, error) {
	raw, err := record.Encode(p)
	if err != nil {
		return record.HistoryEntry{}, err
	}

	entry := record.HistoryEntry{RecordedAt: time.Now(), Payload: p}
	err = s.inTx(ctx, func(tx *sql.Tx) error {
		n, err := s.sessions.Next(ctx, tx, p.CharacterID)
		if err != nil {
			return err
		}
		entry.SessionNumber = n

		query, args := builder().Insert(SessionHistoryTable.Name).
			Columns("character_id", "session_number", "payload_id", "payload", "recorded_at").
			Values(p.CharacterID, n, p.ID, string(raw), entry.RecordedAt.UnixMilli()).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert session history: %w", err)
		}
		return nil
	})
	if err != nil {
		return record.HistoryEntry{}, fmt.Errorf("append history for %s: %w", p.CharacterName, err)
	}
	return entry, nil
}

// History returns a character's sessions, oldest first.
func (s *Store) History(ctx context.Context, characterID string) ([]record.HistoryEntry, error) {
	query, args := builder().Select("session_number", "payload", "recorded_at").
		From(entsql.Table(SessionHistoryTable.Name)).
		Where(entsql.EQ("character_id", characterID)).
		OrderBy("session_number").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var out []record.HistoryEntry
	for rows.Next() {
		var (
			e      record.HistoryEntry
			raw    string
			millis int64
		)
		if err := rows.Scan(&e.SessionNumber, &raw, &millis); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		p, err := record.Decode([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode session %d: %w", e.SessionNumber, err)
		}
		e.Payload = p
		e.RecordedAt = time.UnixMilli(millis)
		out = append(out, e)
	}
	return out, rows.Err()
}
