// Package session runs the three-step advancement wizard for one
// character: questions, skill selection, and rolling.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/marks"
	"github.com/abhisek/advancer/internal/notify"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/roll"
	"github.com/abhisek/advancer/internal/summary"
)

// CharacterStore is the character and skill store the wizard reads and
// writes. Every call may fail; a failed write aborts the action.
type CharacterStore interface {
	Character(ctx context.Context, id string) (character.Character, error)
	Skills(ctx context.Context, characterID string) ([]character.Skill, error)
	UpdateSkill(ctx context.Context, characterID, skillID string, u character.SkillUpdate) error
	SetWeakness(ctx context.Context, characterID, text string) error
	AppendHistory(ctx context.Context, p record.Payload) (record.HistoryEntry, error)
}

// Publisher hands a finished session to the durable record writer.
type Publisher interface {
	Publish(ctx context.Context, p record.Payload) error
}

// Deps are the collaborators of a wizard.
type Deps struct {
	Store     CharacterStore
	Publisher Publisher
	Die       roll.Die
	Notifier  notify.Notifier
	Printer   *message.Printer
	Logger    *slog.Logger
	Now       func() time.Time
}

// Wizard is one open advancement session. All methods are safe for
// concurrent use and are applied one at a time.
type Wizard struct {
	mu       sync.Mutex
	deps     Deps
	settings config.Settings
	marksCfg marks.Config
	char     character.Character
	resolver *roll.Resolver
	state    State
	finished *record.Payload
}

// Open starts a wizard for the character with the given id.
func Open(ctx context.Context, deps Deps, settings config.Settings, characterID string) (*Wizard, error) {
	if !settings.Enabled {
		return nil, ErrDisabled
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Printer == nil {
		deps.Printer = i18n.Printer(settings.Language)
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.Log{Logger: deps.Logger}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Die == nil {
		d, err := roll.NewD20()
		if err != nil {
			return nil, err
		}
		deps.Die = d
	}

	mode, err := config.ParseRollMode(string(settings.RollMode))
	if err != nil {
		return nil, err
	}

	ch, err := deps.Store.Character(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("open wizard: %w", err)
	}
	skills, err := deps.Store.Skills(ctx, characterID)
	if err != nil {
		return nil, fmt.Errorf("open wizard: %w", err)
	}

	w := &Wizard{
		deps:     deps,
		settings: settings,
		marksCfg: settings.Marks(),
		char:     ch,
		resolver: &roll.Resolver{
			Die:      deps.Die,
			Skills:   deps.Store,
			Notifier: deps.Notifier,
			Printer:  deps.Printer,
		},
		state: State{
			Step:           StepQuestions,
			Status:         StatusOpen,
			Mode:           mode,
			Answers:        marks.NewAnswers(),
			OriginalMarked: character.MarkedIDs(skills),
			WeaknessAtOpen: ch.Weakness,
		},
	}
	deps.Logger.Debug("wizard opened", "character", ch.Name, "mode", mode, "marked", w.state.OriginalMarked.Len())
	return w, nil
}

// Character returns the character the wizard was opened for.
func (w *Wizard) Character() character.Character {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.char
}

// State returns a snapshot of the wizard state.
func (w *Wizard) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.clone()
}

// Prompts returns the questions shown in step 1.
func (w *Wizard) Prompts() []marks.Prompt {
	return marks.Visible(w.marksCfg)
}

// WeaknessApplies reports whether the weakness question is shown.
func (w *Wizard) WeaknessApplies() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.weaknessApplies()
}

func (w *Wizard) weaknessApplies() bool {
	return w.marksCfg.WeaknessRule && w.state.WeaknessAtOpen != ""
}

// Budget returns the current marks budget.
func (w *Wizard) Budget() marks.Breakdown {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.budget()
}

func (w *Wizard) budget() marks.Breakdown {
	return marks.Calculate(w.state.Answers, w.marksCfg)
}

// Finished returns the payload of a completed session.
func (w *Wizard) Finished() (record.Payload, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.finished == nil {
		return record.Payload{}, false
	}
	return *w.finished, true
}

// guard checks the preconditions shared by every action.
func (w *Wizard) guard(step Step) error {
	if w.state.Status != StatusOpen {
		return ErrClosed
	}
	if w.state.Pending != ConfirmNone {
		return ErrAwaitingConfirmation
	}
	if step != 0 && w.state.Step != step {
		return fmt.Errorf("%w: at step %d", ErrWrongStep, w.state.Step)
	}
	return nil
}

// SetAnswer records the answer to a built-in question.
func (w *Wizard) SetAnswer(q marks.Question, v bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepQuestions); err != nil {
		return err
	}
	next := w.state.clone()
	next.Answers = next.Answers.WithBuiltin(q, v)
	w.state = next
	return nil
}

// SetCustomAnswer records the answer to the custom question at index i.
func (w *Wizard) SetCustomAnswer(i int, v bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepQuestions); err != nil {
		return err
	}
	if i < 0 || i >= len(w.marksCfg.CustomQuestions) {
		return fmt.Errorf("%w: custom %d", ErrUnknownQuestion, i)
	}
	next := w.state.clone()
	next.Answers = next.Answers.WithCustom(marks.CustomID(i), v)
	w.state = next
	return nil
}

// SetWeakness records the weakness choice. It is forced to none when the
// rule is off or the character had no weakness.
func (w *Wizard) SetWeakness(c marks.WeaknessChoice) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepQuestions); err != nil {
		return err
	}
	if !w.weaknessApplies() {
		c = marks.WeaknessNone
	}
	next := w.state.clone()
	next.Answers = next.Answers.WithWeakness(c)
	w.state = next
	return nil
}

// Next leaves step 1. Overcoming the weakness asks for confirmation first.
func (w *Wizard) Next(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepQuestions); err != nil {
		return err
	}
	next := w.state.clone()
	if w.weaknessApplies() && next.Answers.Weakness == marks.WeaknessOvercame {
		next.Pending = ConfirmRemoveWeakness
	} else {
		next.Step = StepSelection
	}
	w.state = next
	return nil
}

// ToggleSkill adds or removes a markable skill from the selection.
func (w *Wizard) ToggleSkill(ctx context.Context, skillID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepSelection); err != nil {
		return err
	}

	next := w.state.clone()
	if next.Selected.Has(skillID) {
		next.Selected = next.Selected.Without(skillID)
		w.state = next
		return nil
	}

	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return fmt.Errorf("toggle skill: %w", err)
	}
	if _, ok := character.Find(character.Eligibility(skills).Markable, skillID); !ok {
		return fmt.Errorf("%w: %s is not markable", ErrUnknownSkill, skillID)
	}
	if next.Selected.Len() >= w.budget().Total() {
		return w.reject(ctx, "warn.no_more_marks")
	}

	next.Selected = next.Selected.With(skillID)
	w.state = next
	return nil
}

// MarkSelected marks every selected skill and moves to step 3.
func (w *Wizard) MarkSelected(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepSelection); err != nil {
		return err
	}
	if w.state.Selected.Len() == 0 {
		return w.reject(ctx, "warn.no_skills_selected")
	}

	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return fmt.Errorf("mark skills: %w", err)
	}
	var toMark []character.Skill
	for _, id := range w.state.Selected.IDs() {
		sk, ok := character.Find(skills, id)
		if !ok {
			return fmt.Errorf("mark skills: %w: %s", ErrUnknownSkill, id)
		}
		if !sk.Marked {
			toMark = append(toMark, sk)
		}
	}

	marked, err := w.markAll(ctx, toMark)
	if err != nil {
		w.unmarkBestEffort(ctx, marked)
		return err
	}

	next := w.state.clone()
	for _, id := range marked {
		next.MarkedThisSession = next.MarkedThisSession.With(id)
	}
	next.Selected = character.IDSet{}
	next.Step = StepResolution

	if next.Mode == config.RollIndividual {
		after, err := w.deps.Store.Skills(ctx, w.char.ID)
		if err != nil {
			w.unmarkBestEffort(ctx, marked)
			return fmt.Errorf("mark skills: %w", err)
		}
		var ids []string
		for _, sk := range character.Rollable(after) {
			ids = append(ids, sk.ID)
		}
		next.ToRoll = character.NewIDSet(ids...)
	}
	w.state = next
	w.deps.Logger.Debug("skills marked", "character", w.char.Name, "count", len(marked))
	return nil
}

// markAll marks skills concurrently and returns the ids that were written.
func (w *Wizard) markAll(ctx context.Context, skills []character.Skill) ([]string, error) {
	var (
		mu   sync.Mutex
		done []string
	)
	g, gctx := errgroup.WithContext(ctx)
	for _, sk := range skills {
		g.Go(func() error {
			if err := w.deps.Store.UpdateSkill(gctx, w.char.ID, sk.ID, character.SetMarked(true)); err != nil {
				return fmt.Errorf("mark skill %s: %w", sk.Name, err)
			}
			mu.Lock()
			done = append(done, sk.ID)
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()
	return done, err
}

func (w *Wizard) unmarkBestEffort(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := w.deps.Store.UpdateSkill(ctx, w.char.ID, id, character.SetMarked(false)); err != nil {
			w.deps.Logger.Error("undo mark failed", "character", w.char.Name, "skill", id, "error", err)
		}
	}
}

// RollAll asks to roll every marked skill at once (batch mode).
func (w *Wizard) RollAll(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepResolution); err != nil {
		return err
	}
	if w.state.Mode != config.RollBatch {
		return fmt.Errorf("%w: roll all is a batch action", ErrWrongStep)
	}
	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return fmt.Errorf("roll all: %w", err)
	}
	if len(character.Rollable(skills)) == 0 {
		return w.reject(ctx, "warn.no_marked_skills", w.char.Name)
	}
	next := w.state.clone()
	next.Pending = ConfirmRollAll
	w.state = next
	return nil
}

// RollSkill rolls one frozen skill (individual mode). Rolling a skill
// twice is a no-op.
func (w *Wizard) RollSkill(ctx context.Context, skillID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepResolution); err != nil {
		return err
	}
	if w.state.Mode != config.RollIndividual {
		return fmt.Errorf("%w: single rolls need individual mode", ErrWrongStep)
	}
	if !w.state.ToRoll.Has(skillID) {
		return fmt.Errorf("%w: %s is not waiting for a roll", ErrUnknownSkill, skillID)
	}
	if w.state.Rolled.Has(skillID) {
		return nil
	}

	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return fmt.Errorf("roll skill: %w", err)
	}
	sk, ok := character.Find(skills, skillID)
	if !ok || sk.AtMaximum() {
		// The skill changed outside the wizard and can never be rolled.
		next := w.state.clone()
		next.ToRoll = next.ToRoll.Without(skillID)
		w.state = next
		w.deps.Logger.Warn("dropping skill from roll list", "character", w.char.Name, "skill", skillID, "found", ok)
		if ok {
			return fmt.Errorf("roll skill: %w", roll.ErrAtMaximum)
		}
		return fmt.Errorf("roll skill: %w: %s", ErrUnknownSkill, skillID)
	}

	o, err := w.resolver.Resolve(ctx, w.char, sk)
	if err != nil {
		return err
	}
	w.state = w.state.withResult(o)
	return nil
}

// CanComplete reports whether an individual-mode session may finish:
// at least one skill is frozen for rolling and every one has been rolled.
func (w *Wizard) CanComplete() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canComplete()
}

func (w *Wizard) canComplete() bool {
	if w.state.Status != StatusOpen || w.state.Step != StepResolution {
		return false
	}
	if w.state.Mode == config.RollBatch {
		// Only reachable when a batch finished rolling but completion failed.
		return len(w.state.Results) > 0
	}
	return w.state.ToRoll.Len() > 0 && w.state.Rolled.Equal(w.state.ToRoll)
}

// Complete asks to finish the session.
func (w *Wizard) Complete(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(StepResolution); err != nil {
		return err
	}
	if !w.canComplete() {
		return ErrNotReady
	}
	next := w.state.clone()
	next.Pending = ConfirmComplete
	w.state = next
	return nil
}

// Cancel aborts the session. With rolls already committed it asks for
// confirmation first, since cancelling reverts them.
func (w *Wizard) Cancel(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guard(0); err != nil {
		return err
	}
	if w.state.Step == StepResolution && len(w.state.Results) > 0 {
		next := w.state.clone()
		next.Pending = ConfirmCancel
		w.state = next
		return nil
	}
	return w.cancel(ctx)
}

// Confirm accepts the pending prompt and runs its action.
func (w *Wizard) Confirm(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Status != StatusOpen {
		return ErrClosed
	}

	pending := w.state.Pending
	if pending == ConfirmNone {
		return ErrNothingPending
	}
	next := w.state.clone()
	next.Pending = ConfirmNone
	w.state = next

	switch pending {
	case ConfirmRemoveWeakness:
		return w.removeWeakness(ctx)
	case ConfirmRollAll:
		return w.rollAll(ctx)
	case ConfirmComplete:
		return w.complete(ctx)
	case ConfirmCancel:
		return w.cancel(ctx)
	}
	return nil
}

// Decline rejects the pending prompt. Declining the weakness removal
// resets the weakness choice to none.
func (w *Wizard) Decline(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state.Status != StatusOpen {
		return ErrClosed
	}
	if w.state.Pending == ConfirmNone {
		return ErrNothingPending
	}
	next := w.state.clone()
	if next.Pending == ConfirmRemoveWeakness {
		next.Answers = next.Answers.WithWeakness(marks.WeaknessNone)
	}
	next.Pending = ConfirmNone
	w.state = next
	return nil
}

func (w *Wizard) removeWeakness(ctx context.Context) error {
	if err := w.deps.Store.SetWeakness(ctx, w.char.ID, ""); err != nil {
		return fmt.Errorf("remove weakness: %w", err)
	}
	w.char.Weakness = ""
	w.notice(ctx, notify.LevelInfo, "info.weakness_removed", w.char.Name)

	next := w.state.clone()
	next.Step = StepSelection
	w.state = next
	return nil
}

func (w *Wizard) rollAll(ctx context.Context) error {
	skills, err := w.deps.Store.Skills(ctx, w.char.ID)
	if err != nil {
		return fmt.Errorf("roll all: %w", err)
	}
	for _, sk := range character.Rollable(skills) {
		o, err := w.resolver.Resolve(ctx, w.char, sk)
		if err != nil {
			w.deps.Logger.Error("batch roll stopped", "character", w.char.Name, "skill", sk.Name, "rolled", len(w.state.Results), "error", err)
			return err
		}
		w.state = w.state.withResult(o)
	}
	return w.complete(ctx)
}

func (w *Wizard) complete(ctx context.Context) error {
	p := w.payload()

	if w.settings.TrackHistory {
		entry, err := w.deps.Store.AppendHistory(ctx, p)
		if err != nil {
			return fmt.Errorf("complete session: %w", err)
		}
		w.deps.Logger.Debug("session recorded", "character", w.char.Name, "session", entry.SessionNumber)
	}

	w.deps.Notifier.Notify(ctx, notify.Notice{
		Level:       notify.LevelInfo,
		Key:         "summary",
		Text:        summary.Transient(w.deps.Printer, w.char.Name, p.Results),
		CharacterID: w.char.ID,
	})

	if w.deps.Publisher == nil {
		w.deps.Logger.Error("no publisher for finished session", "character", w.char.Name, "payload", p.ID)
		w.notice(ctx, notify.LevelError, "error.publish_failed")
	} else if err := w.deps.Publisher.Publish(ctx, p); err != nil {
		w.deps.Logger.Error("publish finished session", "character", w.char.Name, "payload", p.ID, "error", err)
		w.notice(ctx, notify.LevelError, "error.publish_failed")
	}

	next := w.state.clone()
	next.Status = StatusCompleted
	w.state = next
	w.finished = &p
	return nil
}

func (w *Wizard) payload() record.Payload {
	var questions []record.Answer
	for _, pr := range marks.Visible(w.marksCfg) {
		a := record.Answer{ID: pr.ID, Custom: pr.Custom, Label: pr.Label}
		if pr.Custom {
			a.Answer = w.state.Answers.Custom(pr.ID)
		} else {
			a.Answer = w.state.Answers.Builtin(marks.Question(pr.ID))
		}
		questions = append(questions, a)
	}

	choice := w.state.Answers.Weakness
	if !w.weaknessApplies() {
		choice = marks.WeaknessNone
	}

	results := make([]roll.Outcome, len(w.state.Results))
	copy(results, w.state.Results)

	return record.Payload{
		ID:                record.NewID(),
		SchemaVersion:     record.SchemaVersion,
		CharacterID:       w.char.ID,
		CharacterName:     w.char.Name,
		Timestamp:         w.deps.Now().UTC(),
		Questions:         questions,
		Weakness:          record.Weakness{Text: w.state.WeaknessAtOpen, Choice: choice},
		Marks:             record.MarksFor(w.budget(), len(results)),
		Results:           results,
		MarkedThisSession: w.state.MarkedThisSession.IDs(),
	}
}

// cancel reverts committed rolls, then undoes this session's marks.
// Each failure is logged; the wizard closes regardless.
func (w *Wizard) cancel(ctx context.Context) error {
	var (
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	var g errgroup.Group
	for _, o := range w.state.Results {
		g.Go(func() error {
			if err := w.deps.Store.UpdateSkill(ctx, w.char.ID, o.SkillID, character.Restore(o.OldLevel)); err != nil {
				w.deps.Logger.Error("revert roll failed", "character", w.char.Name, "skill", o.SkillID, "level", o.OldLevel, "error", err)
				fail(fmt.Errorf("revert %s: %w", o.SkillName, err))
			}
			return nil
		})
	}
	_ = g.Wait()

	if w.state.Step >= StepSelection {
		skills, err := w.deps.Store.Skills(ctx, w.char.ID)
		if err != nil {
			w.deps.Logger.Error("load skills for cancel", "character", w.char.Name, "error", err)
			fail(fmt.Errorf("unmark skills: %w", err))
		}
		for _, sk := range skills {
			if !sk.Marked || w.state.OriginalMarked.Has(sk.ID) {
				continue
			}
			if err := w.deps.Store.UpdateSkill(ctx, w.char.ID, sk.ID, character.SetMarked(false)); err != nil {
				w.deps.Logger.Error("unmark failed", "character", w.char.Name, "skill", sk.ID, "error", err)
				fail(fmt.Errorf("unmark %s: %w", sk.Name, err))
			}
		}
	}

	next := w.state.clone()
	next.Status = StatusCancelled
	w.state = next

	if len(errs) > 0 {
		w.notice(ctx, notify.LevelWarn, "info.cancel_partial", w.char.Name)
		return errors.Join(errs...)
	}
	w.notice(ctx, notify.LevelInfo, "info.cancelled", w.char.Name)
	return nil
}

func (w *Wizard) reject(ctx context.Context, key string, args ...any) error {
	text := w.deps.Printer.Sprintf(key, args...)
	w.deps.Notifier.Notify(ctx, notify.Notice{Level: notify.LevelWarn, Key: key, Text: text, CharacterID: w.char.ID})
	return &Rejection{Key: key, Text: text}
}

func (w *Wizard) notice(ctx context.Context, level notify.Level, key string, args ...any) {
	w.deps.Notifier.Notify(ctx, notify.Notice{
		Level:       level,
		Key:         key,
		Text:        w.deps.Printer.Sprintf(key, args...),
		CharacterID: w.char.ID,
	})
}
