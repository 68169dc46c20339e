package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/advancer/internal/character"
)

// AddSkill appends a skill to a character's list.
func (s *Store) AddSkill(ctx context.Context, characterID string, sk character.Skill) (character.Skill, error) {
	if sk.Level < 0 || sk.Level > character.MaxLevel {
		return character.Skill{}, fmt.Errorf("add skill %s: level %d outside 0..%d", sk.Name, sk.Level, character.MaxLevel)
	}
	if sk.ID == "" {
		sk.ID = uuid.NewString()
	}

	countQuery, countArgs := builder().Select(entsql.Count("*")).
		From(entsql.Table(SkillsTable.Name)).
		Where(entsql.EQ("character_id", characterID)).
		Query()
	var pos int
	if err := s.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&pos); err != nil {
		return character.Skill{}, fmt.Errorf("count skills: %w", err)
	}

	query, args := builder().Insert(SkillsTable.Name).
		Columns("id", "character_id", "name", "level", "marked", "taught", "position").
		Values(sk.ID, characterID, sk.Name, sk.Level, sk.Marked, sk.Taught, pos).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return character.Skill{}, fmt.Errorf("add skill %s: %w", sk.Name, err)
	}
	return sk, nil
}

// Skills returns a character's skills in insertion order.
func (s *Store) Skills(ctx context.Context, characterID string) ([]character.Skill, error) {
	query, args := builder().Select("id", "name", "level", "marked", "taught").
		From(entsql.Table(SkillsTable.Name)).
		Where(entsql.EQ("character_id", characterID)).
		OrderBy("position", "name").
		Query()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	var out []character.Skill
	for rows.Next() {
		var sk character.Skill
		if err := rows.Scan(&sk.ID, &sk.Name, &sk.Level, &sk.Marked, &sk.Taught); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		out = append(out, sk)
	}
	return out, rows.Err()
}

// UpdateSkill applies a partial update to one skill.
func (s *Store) UpdateSkill(ctx context.Context, characterID, skillID string, u character.SkillUpdate) error {
	if u.IsZero() {
		return nil
	}
	if u.Level != nil && (*u.Level < 0 || *u.Level > character.MaxLevel) {
		return fmt.Errorf("update skill %s: level %d outside 0..%d", skillID, *u.Level, character.MaxLevel)
	}

	upd := builder().Update(SkillsTable.Name)
	if u.Level != nil {
		upd.Set("level", *u.Level)
	}
	if u.Marked != nil {
		upd.Set("marked", *u.Marked)
	}
	if u.Taught != nil {
		upd.Set("taught", *u.Taught)
	}
	query, args := upd.Where(entsql.And(
		entsql.EQ("id", skillID),
		entsql.EQ("character_id", characterID),
	)).Query()

	return s.execOne(ctx, s.db, query, args, "update skill", skillID)
}
