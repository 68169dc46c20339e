package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/advancer/internal/character"
)

var characterColumns = []string{"id", "name", "owner", "weakness"}

// CreateCharacter inserts c, assigning an id when c.ID is empty.
func (s *Store) CreateCharacter(ctx context.Context, c character.Character) (character.Character, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query, args := builder().Insert(CharactersTable.Name).
		Columns("id", "name", "owner", "weakness", "created_at").
		Values(c.ID, c.Name, c.Owner, c.Weakness, time.Now().UnixMilli()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return character.Character{}, fmt.Errorf("create character %s: %w", c.Name, err)
	}
	return c, nil
}

// Character loads one character by id.
func (s *Store) Character(ctx context.Context, id string) (character.Character, error) {
	return s.characterWhere(ctx, entsql.EQ("id", id), id)
}

// CharacterByName loads one character by its unique name.
func (s *Store) CharacterByName(ctx context.Context, name string) (character.Character, error) {
	return s.characterWhere(ctx, entsql.EQ("name", name), name)
}

func (s *Store) characterWhere(ctx context.Context, p *entsql.Predicate, key string) (character.Character, error) {
	query, args := builder().Select(characterColumns...).
		From(entsql.Table(CharactersTable.Name)).
		Where(p).
		Query()

	var c character.Character
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &c.Owner, &c.Weakness)
	if errors.Is(err, sql.ErrNoRows) {
		return character.Character{}, fmt.Errorf("character %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return character.Character{}, fmt.Errorf("query character %s: %w", key, err)
	}
	return c, nil
}

// Characters lists every character ordered by name.
func (s *Store) Characters(ctx context.Context) ([]character.Character, error) {
	query, args := builder().Select(characterColumns...).
		From(entsql.Table(CharactersTable.Name)).
		OrderBy("name").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query characters: %w", err)
	}
	defer rows.Close()

	var out []character.Character
	for rows.Next() {
		var c character.Character
		if err := rows.Scan(&c.ID, &c.Name, &c.Owner, &c.Weakness); err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// SetWeakness replaces a character's weakness text. Empty clears it.
func (s *Store) SetWeakness(ctx context.Context, characterID, text string) error {
	query, args := builder().Update(CharactersTable.Name).
		Set("weakness", text).
		Where(entsql.EQ("id", characterID)).
		Query()
	return s.execOne(ctx, s.db, query, args, "set weakness", characterID)
}

// execOne runs a write that must touch exactly one row.
func (s *Store) execOne(ctx context.Context, q querier, query string, args []any, what, key string) error {
	res, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s %s: %w", what, key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s: %w", what, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", what, key, ErrNotFound)
	}
	return nil
}
