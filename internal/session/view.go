package session

import (
	"context"
	"fmt"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/marks"
	"github.com/abhisek/advancer/internal/roll"
)

// SkillRow is one skill as the wizard presents it.
type SkillRow struct {
	Skill       character.Skill
	Selected    bool
	NewlyMarked bool
	Rolled      bool
	Outcome     *roll.Outcome
}

// View is everything a renderer needs for the current step.
type View struct {
	Character character.Character
	Step      Step
	Status    Status
	Mode      config.RollMode
	Pending   Confirmation

	Prompts         []marks.Prompt
	Answers         marks.Answers
	WeaknessApplies bool

	Budget    marks.Breakdown
	Remaining int

	Markable []SkillRow
	Marked   []SkillRow

	Results     []roll.Outcome
	CanComplete bool
}

// View re-reads the skills and builds a fresh view. The store may have
// changed since the last call; nothing here is cached.
func (w *Wizard) View(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return View{}, fmt.Errorf("load skills: %w", err)
	}

	st := w.state.clone()
	b := w.budget()
	v := View{
		Character:       w.char,
		Step:            st.Step,
		Status:          st.Status,
		Mode:            st.Mode,
		Pending:         st.Pending,
		Prompts:         marks.Visible(w.marksCfg),
		Answers:         st.Answers,
		WeaknessApplies: w.weaknessApplies(),
		Budget:          b,
		Remaining:       max(0, b.Total()-st.Selected.Len()),
		Results:         st.Results,
		CanComplete:     w.canComplete(),
	}

	outcomes := make(map[string]*roll.Outcome, len(st.Results))
	for i := range st.Results {
		outcomes[st.Results[i].SkillID] = &st.Results[i]
	}
	row := func(sk character.Skill) SkillRow {
		return SkillRow{
			Skill:       sk,
			Selected:    st.Selected.Has(sk.ID),
			NewlyMarked: st.MarkedThisSession.Has(sk.ID),
			Rolled:      st.Rolled.Has(sk.ID),
			Outcome:     outcomes[sk.ID],
		}
	}

	p := character.Eligibility(skills)
	for _, sk := range p.Markable {
		v.Markable = append(v.Markable, row(sk))
	}

	keepRolled := st.Step == StepResolution && st.Mode == config.RollIndividual
	for _, sk := range skills {
		if sk.Marked || (keepRolled && st.ToRoll.Has(sk.ID)) {
			v.Marked = append(v.Marked, row(sk))
		}
	}
	return v, nil
}
