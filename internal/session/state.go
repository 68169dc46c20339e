package session

import (
	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/marks"
	"github.com/abhisek/advancer/internal/roll"
)

// Step is the wizard page.
type Step int

const (
	StepQuestions  Step = 1 // Answer questions, budget recomputes live
	StepSelection  Step = 2 // Choose skills to spend marks on
	StepResolution Step = 3 // Roll marked skills
)

// Status tracks whether the wizard is still running.
type Status int

const (
	StatusOpen Status = iota
	StatusCompleted
	StatusCancelled
)

// Confirmation is a prompt the operator must answer before anything else.
type Confirmation int

const (
	ConfirmNone           Confirmation = iota // No prompt open
	ConfirmRemoveWeakness                     // Leaving step 1 after overcoming the weakness
	ConfirmRollAll                            // Batch roll of every marked skill
	ConfirmComplete                           // Finishing an individual-mode session
	ConfirmCancel                             // Cancelling after rolls were committed
)

// State is a snapshot of one wizard. Transitions build a new value and
// replace the old one; nothing in a State is shared with a later one.
type State struct {
	Step    Step
	Status  Status
	Mode    config.RollMode
	Pending Confirmation

	Answers marks.Answers

	// Selected is bounded by the marks budget.
	Selected character.IDSet

	// OriginalMarked is the marked set when the wizard opened.
	OriginalMarked character.IDSet

	// MarkedThisSession holds skills marked by leaving step 2.
	MarkedThisSession character.IDSet

	// ToRoll is frozen when entering step 3 in individual mode.
	ToRoll character.IDSet
	Rolled character.IDSet

	// Results is in roll order.
	Results []roll.Outcome

	WeaknessAtOpen string
}

// clone returns a copy whose Results slice can be appended to safely.
func (s State) clone() State {
	out := s
	out.Results = make([]roll.Outcome, len(s.Results))
	copy(out.Results, s.Results)
	return out
}

// withResult returns a copy with o appended and its skill marked rolled.
func (s State) withResult(o roll.Outcome) State {
	out := s.clone()
	out.Results = append(out.Results, o)
	out.Rolled = out.Rolled.With(o.SkillID)
	return out
}
