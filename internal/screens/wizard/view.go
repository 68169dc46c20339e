package wizard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/roll"
	"github.com/abhisek/advancer/internal/session"
	"github.com/abhisek/advancer/internal/ui/components"
	"github.com/abhisek/advancer/internal/ui/theme"
)

func (s *WizardScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.NoticeError.Render(s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  Opening session...")
	}
	if s.view.Pending != session.ConfirmNone {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, s.renderConfirm())
	}

	var b strings.Builder
	b.WriteString(s.renderStepLine(width))
	b.WriteString("\n\n")

	switch s.view.Step {
	case session.StepQuestions:
		b.WriteString(s.renderQuestions())
	case session.StepSelection:
		b.WriteString(s.renderSelection())
	case session.StepResolution:
		b.WriteString(s.renderResolution())
	}

	if s.errLine != "" {
		b.WriteString("\n")
		b.WriteString(theme.NoticeError.Render(s.errLine))
	}
	return lipgloss.NewStyle().Padding(0, 2).Render(b.String())
}

func (s *WizardScreen) renderStepLine(width int) string {
	p := s.opts.Printer
	titles := map[session.Step]string{
		session.StepQuestions:  p.Sprintf("step.questions"),
		session.StepSelection:  p.Sprintf("step.marking"),
		session.StepResolution: p.Sprintf("step.rolling"),
	}
	left := theme.Title.Render(fmt.Sprintf("Step %d of 3: %s", s.view.Step, titles[s.view.Step]))

	var dots []string
	for st := session.StepQuestions; st <= session.StepResolution; st++ {
		if st <= s.view.Step {
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Primary).Render("●"))
		} else {
			dots = append(dots, lipgloss.NewStyle().Foreground(theme.Border).Render("○"))
		}
	}
	right := strings.Join(dots, " ")

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func (s *WizardScreen) renderQuestions() string {
	v := s.view
	var b strings.Builder
	b.WriteString(s.list.View())
	b.WriteString("\n")

	meter := components.NewMarksMeter(s.opts.Printer.Sprintf("summary.marks"), v.Budget.Total(), v.Budget.Total())
	b.WriteString(meter.View())
	b.WriteString("\n")

	var parts []string
	parts = append(parts, s.opts.Printer.Sprintf("summary.from_questions", v.Budget.FromQuestions()))
	if v.Budget.WeaknessBonus > 0 {
		parts = append(parts, s.opts.Printer.Sprintf("summary.weakness_bonus", v.Budget.WeaknessBonus))
	}
	b.WriteString(theme.Hint.Render(strings.Join(parts, "   ")))
	if v.WeaknessApplies {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(s.opts.Printer.Sprintf("summary.weakness") + ": " + v.Character.Weakness))
	}
	return b.String()
}

func (s *WizardScreen) renderSelection() string {
	v := s.view
	var b strings.Builder

	used := v.Budget.Total() - v.Remaining
	b.WriteString(components.NewMarksMeter(s.opts.Printer.Sprintf("summary.marks"), used, v.Budget.Total()).View())
	b.WriteString("\n\n")

	if s.filter.Focused() || s.filter.Value() != "" {
		b.WriteString(s.filter.View())
		b.WriteString("\n\n")
	}

	if len(s.list.Items) == 0 {
		b.WriteString(theme.Hint.Render("No skills can be marked."))
		b.WriteString("\n")
	} else {
		b.WriteString(s.list.View())
	}

	if len(v.Marked) > 0 {
		b.WriteString("\n")
		b.WriteString(theme.Subtitle.Render("Already marked"))
		b.WriteString("\n")
		for _, row := range v.Marked {
			b.WriteString(theme.Disabled.Render(fmt.Sprintf("  ✓ %s (%d)", row.Skill.Name, row.Skill.Level)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *WizardScreen) renderResolution() string {
	v := s.view
	var b strings.Builder

	if v.Mode == config.RollBatch {
		b.WriteString(theme.Hint.Render("Every marked skill is rolled at once."))
	} else {
		b.WriteString(theme.Hint.Render("Roll each marked skill, then complete the session."))
	}
	b.WriteString("\n\n")

	if len(s.list.Items) == 0 {
		b.WriteString(theme.Hint.Render("No marked skills."))
		b.WriteString("\n")
	} else {
		b.WriteString(s.list.View())
	}

	if n := len(v.Results); n > 0 {
		advanced := 0
		for _, o := range v.Results {
			if o.Success {
				advanced++
			}
		}
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(s.opts.Printer.Sprintf("summary.marks_used", n)))
		b.WriteString("   ")
		b.WriteString(theme.Body.Render(s.opts.Printer.Sprintf("summary.skills_advanced", advanced)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *WizardScreen) renderConfirm() string {
	p := s.opts.Printer
	var msg string
	switch s.view.Pending {
	case session.ConfirmRemoveWeakness:
		msg = p.Sprintf("confirm.remove_weakness", s.view.Character.Name)
	case session.ConfirmRollAll:
		msg = p.Sprintf("confirm.roll_all")
	case session.ConfirmComplete:
		msg = p.Sprintf("confirm.complete")
	case session.ConfirmCancel:
		msg = p.Sprintf("confirm.cancel")
	}
	return components.ConfirmDialog{
		Title:   p.Sprintf("confirm.title"),
		Message: msg,
		Yes:     p.Sprintf("answer.yes"),
		No:      p.Sprintf("answer.no"),
	}.View()
}

// outcomeDetail shows a roll against the old level, e.g. "rolled 12 vs 9 → 10".
func outcomeDetail(o roll.Outcome) string {
	if o.Success {
		return theme.Advanced.Render(fmt.Sprintf("rolled %d vs %d → %d", o.Roll, o.OldLevel, o.NewLevel))
	}
	return theme.NotAdvanced.Render(fmt.Sprintf("rolled %d vs %d", o.Roll, o.OldLevel))
}
