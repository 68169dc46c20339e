// Package wizard is the terminal front end of the advancement session.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/marks"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/screens/summary"
	"github.com/abhisek/advancer/internal/session"
	"github.com/abhisek/advancer/internal/ui/components"
	"github.com/abhisek/advancer/internal/ui/layout"
)

const weaknessKey = "weakness"

// Options configures a wizard screen.
type Options struct {
	Character character.Character
	Printer   *message.Printer

	// Open starts the session; it runs off the UI goroutine.
	Open func(ctx context.Context) (*session.Wizard, error)
}

// WizardScreen drives one advancement session.
type WizardScreen struct {
	opts   Options
	w      *session.Wizard
	view   session.View
	loaded bool
	busy   bool
	errMsg string // fatal, the screen can only be closed
	errLine string

	list   components.Checklist
	filter components.FilterInput
}

var _ screen.Screen = (*WizardScreen)(nil)
var _ screen.KeyHintProvider = (*WizardScreen)(nil)
var _ screen.StatusProvider = (*WizardScreen)(nil)

// New creates a wizard screen for the character.
func New(opts Options) *WizardScreen {
	return &WizardScreen{
		opts:   opts,
		filter: components.NewFilterInput("filter skills", 32),
	}
}

func (s *WizardScreen) Init() tea.Cmd {
	open := s.opts.Open
	return func() tea.Msg {
		ctx := context.Background()
		w, err := open(ctx)
		if err != nil {
			return openedMsg{Err: err}
		}
		v, err := w.View(ctx)
		if err != nil {
			return openedMsg{Err: err}
		}
		return openedMsg{Wizard: w, View: v}
	}
}

func (s *WizardScreen) Title() string {
	return "Advance " + s.opts.Character.Name
}

// Status shows the marks budget while it matters.
func (s *WizardScreen) Status() string {
	if !s.loaded {
		return ""
	}
	switch s.view.Step {
	case session.StepQuestions:
		return fmt.Sprintf("%d marks", s.view.Budget.Total())
	case session.StepSelection:
		return fmt.Sprintf("%d of %d marks left", s.view.Remaining, s.view.Budget.Total())
	}
	return ""
}

func (s *WizardScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case !s.loaded:
		return nil
	case s.view.Pending != session.ConfirmNone:
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Go back"},
		}
	case s.filter.Focused():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Apply"},
			{Key: "Esc", Description: "Clear"},
		}
	}

	hints := []layout.KeyHint{{Key: "↑↓", Description: "Move"}}
	switch s.view.Step {
	case session.StepQuestions:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Answer"},
			layout.KeyHint{Key: "Enter", Description: "Next"},
		)
	case session.StepSelection:
		hints = append(hints,
			layout.KeyHint{Key: "Space", Description: "Select"},
			layout.KeyHint{Key: "/", Description: "Filter"},
			layout.KeyHint{Key: "Enter", Description: "Mark"},
		)
	case session.StepResolution:
		if s.view.Mode == config.RollBatch {
			hints = append(hints, layout.KeyHint{Key: "R", Description: "Roll all"})
		} else {
			hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Roll"})
		}
		if s.view.CanComplete {
			hints = append(hints, layout.KeyHint{Key: "C", Description: "Complete"})
		}
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Cancel"})
}

func (s *WizardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case openedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.w = msg.Wizard
		s.loaded = true
		s.apply(msg.View)
		return s, nil

	case actionDoneMsg:
		s.busy = false
		s.errLine = ""
		if msg.Err != nil && !session.IsRejection(msg.Err) {
			s.errLine = msg.Err.Error()
		}
		s.apply(msg.View)
		return s, s.afterAction()

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.filter.Focused() {
		var cmd tea.Cmd
		s.filter, cmd = s.filter.Update(msg)
		return s, cmd
	}
	return s, nil
}

// afterAction leaves the screen once the session has closed.
func (s *WizardScreen) afterAction() tea.Cmd {
	switch s.view.Status {
	case session.StatusCompleted:
		p, ok := s.w.Finished()
		if !ok {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}
		next := summary.New(s.opts.Printer, p)
		return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case session.StatusCancelled:
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	return nil
}

// do runs an action against the wizard and reloads the view.
func (s *WizardScreen) do(action func(ctx context.Context, w *session.Wizard) error) tea.Cmd {
	s.busy = true
	w := s.w
	return func() tea.Msg {
		ctx := context.Background()
		err := action(ctx, w)
		v, verr := w.View(ctx)
		return actionDoneMsg{View: v, Err: errors.Join(err, verr)}
	}
}

func (s *WizardScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if !s.loaded || s.busy {
		return s, nil
	}

	if s.view.Pending != session.ConfirmNone {
		switch key {
		case "y", "Y", "enter":
			return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.Confirm(ctx) })
		case "n", "N", "esc":
			return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.Decline(ctx) })
		}
		return s, nil
	}

	if s.filter.Focused() {
		switch key {
		case "esc":
			s.filter.Reset()
		case "enter":
			s.filter.Blur()
		default:
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.rebuild()
			return s, cmd
		}
		s.rebuild()
		return s, nil
	}

	if key == "esc" {
		return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.Cancel(ctx) })
	}

	switch s.view.Step {
	case session.StepQuestions:
		return s.handleQuestionsKey(msg, key)
	case session.StepSelection:
		return s.handleSelectionKey(msg, key)
	case session.StepResolution:
		return s.handleResolutionKey(msg, key)
	}
	return s, nil
}

func (s *WizardScreen) handleQuestionsKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter":
		return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.Next(ctx) })
	case "left", "h", "right", "l":
		cur, ok := s.list.Current()
		if !ok || cur.Key != weaknessKey {
			return s, nil
		}
		step := 1
		if key == "left" || key == "h" {
			step = -1
		}
		choice := cycleWeakness(s.view.Answers.Weakness, step)
		return s, s.do(func(_ context.Context, w *session.Wizard) error { return w.SetWeakness(choice) })
	}

	var toggled *components.Toggled
	s.list, toggled = s.list.Update(msg)
	if toggled == nil {
		return s, nil
	}
	return s, s.answer(toggled.Key)
}

// answer flips the answer behind a checklist row.
func (s *WizardScreen) answer(key string) tea.Cmd {
	a := s.view.Answers
	switch {
	case key == weaknessKey:
		choice := cycleWeakness(a.Weakness, 1)
		return s.do(func(_ context.Context, w *session.Wizard) error { return w.SetWeakness(choice) })
	case strings.HasPrefix(key, "c:"):
		i, err := strconv.Atoi(strings.TrimPrefix(key, "c:"))
		if err != nil {
			return nil
		}
		v := !a.Custom(marks.CustomID(i))
		return s.do(func(_ context.Context, w *session.Wizard) error { return w.SetCustomAnswer(i, v) })
	default:
		q := marks.Question(strings.TrimPrefix(key, "q:"))
		v := !a.Builtin(q)
		return s.do(func(_ context.Context, w *session.Wizard) error { return w.SetAnswer(q, v) })
	}
}

func (s *WizardScreen) handleSelectionKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "enter":
		return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.MarkSelected(ctx) })
	case "/":
		return s, s.filter.Focus()
	}

	var toggled *components.Toggled
	s.list, toggled = s.list.Update(msg)
	if toggled == nil {
		return s, nil
	}
	id := toggled.Key
	return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.ToggleSkill(ctx, id) })
}

func (s *WizardScreen) handleResolutionKey(msg tea.KeyPressMsg, key string) (screen.Screen, tea.Cmd) {
	switch key {
	case "c", "C":
		if !s.view.CanComplete {
			return s, nil
		}
		return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.Complete(ctx) })
	case "r", "R":
		if s.view.Mode == config.RollBatch {
			return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.RollAll(ctx) })
		}
	}

	if s.view.Mode == config.RollBatch {
		s.list, _ = s.list.Update(msg)
		return s, nil
	}

	if key == "enter" {
		cur, ok := s.list.Current()
		if !ok || cur.Disabled {
			return s, nil
		}
		id := cur.Key
		return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.RollSkill(ctx, id) })
	}

	var toggled *components.Toggled
	s.list, toggled = s.list.Update(msg)
	if toggled == nil {
		return s, nil
	}
	id := toggled.Key
	return s, s.do(func(ctx context.Context, w *session.Wizard) error { return w.RollSkill(ctx, id) })
}

// apply stores a fresh view and rebuilds the rows shown for its step.
func (s *WizardScreen) apply(v session.View) {
	prevStep := s.view.Step
	s.view = v
	if v.Step != prevStep {
		s.list.Cursor = 0
		s.filter.Reset()
	}
	s.rebuild()
}

func (s *WizardScreen) rebuild() {
	p := s.opts.Printer
	v := s.view
	var items []components.CheckItem

	switch v.Step {
	case session.StepQuestions:
		for _, pr := range v.Prompts {
			it := components.CheckItem{Key: "q:" + pr.ID, Label: p.Sprintf("question." + pr.ID)}
			if pr.Custom {
				it.Key = fmt.Sprintf("c:%d", pr.Index)
				it.Label = pr.Label
				it.Checked = v.Answers.Custom(pr.ID)
			} else {
				it.Checked = v.Answers.Builtin(marks.Question(pr.ID))
			}
			it.Detail = yesNo(p, it.Checked)
			items = append(items, it)
		}
		if v.WeaknessApplies {
			items = append(items, components.CheckItem{
				Key:     weaknessKey,
				Label:   p.Sprintf("question.weakness"),
				Detail:  "◂ " + p.Sprintf("weakness."+string(v.Answers.Weakness)) + " ▸",
				Checked: v.Answers.Weakness != marks.WeaknessNone,
			})
		}

	case session.StepSelection:
		for _, row := range v.Markable {
			if !s.filter.Matches(row.Skill.Name) {
				continue
			}
			items = append(items, components.CheckItem{
				Key:     row.Skill.ID,
				Label:   fmt.Sprintf("%s (%d)", row.Skill.Name, row.Skill.Level),
				Checked: row.Selected,
			})
		}

	case session.StepResolution:
		for _, row := range v.Marked {
			it := components.CheckItem{
				Key:     row.Skill.ID,
				Label:   fmt.Sprintf("%s (%d)", row.Skill.Name, row.Skill.Level),
				Checked: row.Outcome != nil,
			}
			switch {
			case row.Outcome != nil:
				it.Detail = outcomeDetail(*row.Outcome)
				it.Disabled = true
			case row.Skill.AtMaximum():
				it.Detail = p.Sprintf("summary.max_level")
				it.Disabled = true
			case row.NewlyMarked:
				it.Detail = p.Sprintf("summary.marked_this_session")
			}
			items = append(items, it)
		}
	}
	s.list.SetItems(items)
}

func cycleWeakness(c marks.WeaknessChoice, step int) marks.WeaknessChoice {
	order := []marks.WeaknessChoice{marks.WeaknessNone, marks.WeaknessGaveIn, marks.WeaknessOvercame}
	i := 0
	for j, o := range order {
		if o == c {
			i = j
		}
	}
	return order[(i+step+len(order))%len(order)]
}

func yesNo(p *message.Printer, v bool) string {
	if v {
		return p.Sprintf("answer.yes")
	}
	return p.Sprintf("answer.no")
}
