package roll

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/notify"
)

// ErrAtMaximum is returned when asked to roll a skill already at the cap.
var ErrAtMaximum = errors.New("skill is at maximum level")

// Outcome is the result of one advancement roll.
type Outcome struct {
	SkillID        string `json:"skillId"`
	SkillName      string `json:"skillName"`
	OldLevel       int    `json:"oldLevel"`
	NewLevel       int    `json:"newLevel"`
	Roll           int    `json:"roll"`
	Success        bool   `json:"success"`
	ReachedMaximum bool   `json:"reachedMaximum"`
}

// Apply resolves a draw against a skill without side effects.
// A roll succeeds when it is strictly greater than the current level.
func Apply(s character.Skill, draw int) Outcome {
	o := Outcome{
		SkillID:   s.ID,
		SkillName: s.Name,
		OldLevel:  s.Level,
		NewLevel:  s.Level,
		Roll:      draw,
		Success:   draw > s.Level,
	}
	if o.Success {
		o.NewLevel = min(s.Level+1, character.MaxLevel)
		o.ReachedMaximum = o.NewLevel == character.MaxLevel && o.OldLevel < character.MaxLevel
	}
	return o
}

// Update returns the store write that records o on its skill.
func (o Outcome) Update() character.SkillUpdate {
	marked, taught := false, false
	u := character.SkillUpdate{Marked: &marked, Taught: &taught}
	if o.NewLevel != o.OldLevel {
		lvl := o.NewLevel
		u.Level = &lvl
	}
	return u
}

// SkillUpdater writes partial skill updates.
type SkillUpdater interface {
	UpdateSkill(ctx context.Context, characterID, skillID string, u character.SkillUpdate) error
}

// Resolver rolls marked skills and records the results.
type Resolver struct {
	Die      Die
	Skills   SkillUpdater
	Notifier notify.Notifier
	Printer  *message.Printer
}

// Resolve rolls once for s, writes the outcome, and announces it.
// Nothing is announced when the write fails.
func (r *Resolver) Resolve(ctx context.Context, ch character.Character, s character.Skill) (Outcome, error) {
	if s.AtMaximum() {
		return Outcome{}, fmt.Errorf("roll %s: %w", s.Name, ErrAtMaximum)
	}

	o := Apply(s, r.Die.Roll())
	if err := r.Skills.UpdateSkill(ctx, ch.ID, s.ID, o.Update()); err != nil {
		return Outcome{}, fmt.Errorf("record roll for %s: %w", s.Name, err)
	}

	if r.Notifier == nil {
		return o, nil
	}
	n := notify.Notice{Level: notify.LevelInfo, CharacterID: ch.ID}
	if o.Success {
		n.Key = "roll.success"
		n.Text = r.Printer.Sprintf(n.Key, ch.Name, o.Roll, o.SkillName, o.OldLevel, o.NewLevel)
	} else {
		n.Key = "roll.failure"
		n.Text = r.Printer.Sprintf(n.Key, ch.Name, o.Roll, o.SkillName, o.OldLevel)
	}
	r.Notifier.Notify(ctx, n)

	if o.ReachedMaximum {
		r.Notifier.Notify(ctx, notify.Notice{
			Level:       notify.LevelInfo,
			Key:         "info.skill_maxed",
			Text:        r.Printer.Sprintf("info.skill_maxed", ch.Name, o.SkillName),
			CharacterID: ch.ID,
		})
	}
	return o, nil
}
