// Package summary shows a finished advancement session.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	sum "github.com/abhisek/advancer/internal/summary"
	"github.com/abhisek/advancer/internal/ui/layout"
	"github.com/abhisek/advancer/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	printer *message.Printer
	payload record.Payload
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(p *message.Printer, payload record.Payload) *SummaryScreen {
	return &SummaryScreen{printer: p, payload: payload}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	p := s.printer
	pl := s.payload
	center := func(st lipgloss.Style, text string) string {
		return st.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true), "Session complete!"))
	b.WriteString("\n\n")

	// The transient message carries the title, counts and advanced skills.
	for _, line := range strings.Split(sum.Transient(p, pl.CharacterName, pl.Results), "\n") {
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Text), line))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(
		strings.Repeat("─", max(0, min(width-8, 60))))

	if failed := notAdvanced(pl); len(failed) > 0 {
		b.WriteString(center(theme.Hint, p.Sprintf("summary.not_advanced")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		for _, name := range failed {
			b.WriteString(center(theme.NotAdvanced, name))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(pl.MarkedThisSession) > 0 {
		b.WriteString(center(theme.Hint, p.Sprintf("summary.marked_this_session")))
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
		b.WriteString("\n")
		b.WriteString(center(theme.Body, strings.Join(markedNames(pl), ", ")))
		b.WriteString("\n\n")
	}

	marksLine := p.Sprintf("summary.from_questions", pl.Marks.FromQuestions) + "    " +
		p.Sprintf("summary.from_auto", pl.Marks.FromAuto)
	if pl.Marks.WeaknessBonus > 0 {
		marksLine += "    " + p.Sprintf("summary.weakness_bonus", pl.Marks.WeaknessBonus)
	}
	b.WriteString(center(lipgloss.NewStyle().Foreground(theme.TextDim), marksLine))
	return b.String()
}

func notAdvanced(pl record.Payload) []string {
	var out []string
	for _, o := range pl.Results {
		if !o.Success {
			out = append(out, fmt.Sprintf("%s (%d)", o.SkillName, o.OldLevel))
		}
	}
	return out
}

// markedNames resolves skill ids through the results; ids without a roll
// are shown as is.
func markedNames(pl record.Payload) []string {
	names := make(map[string]string, len(pl.Results))
	for _, o := range pl.Results {
		names[o.SkillID] = o.SkillName
	}
	out := make([]string, 0, len(pl.MarkedThisSession))
	for _, id := range pl.MarkedThisSession {
		if n, ok := names[id]; ok {
			out = append(out, n)
		} else {
			out = append(out, id)
		}
	}
	return out
}
