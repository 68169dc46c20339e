// Package history lists a character's recorded advancement sessions.
package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/summary"
	"github.com/abhisek/advancer/internal/ui/layout"
	"github.com/abhisek/advancer/internal/ui/theme"
)

// Source loads the session history of a character, oldest first.
type Source interface {
	History(ctx context.Context, characterID string) ([]record.HistoryEntry, error)
}

type historyLoadedMsg struct {
	Entries []record.HistoryEntry
	Err     error
}

// HistoryScreen displays past sessions of one character.
type HistoryScreen struct {
	src      Source
	char     character.Character
	printer  *message.Printer
	entries  []record.HistoryEntry
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(src Source, ch character.Character, p *message.Printer) *HistoryScreen {
	return &HistoryScreen{
		src:      src,
		char:     ch,
		printer:  p,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	src, id := s.src, s.char.ID
	return func() tea.Msg {
		entries, err := src.History(context.Background(), id)
		if err != nil {
			return historyLoadedMsg{Err: err}
		}
		// Newest first.
		for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
			entries[i], entries[j] = entries[j], entries[i]
		}
		return historyLoadedMsg{Entries: entries}
	}
}

func (s *HistoryScreen) Title() string {
	return s.char.Name + " History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.entries = msg.Entries
		}
		s.loaded = true
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.entries)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.entries) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No sessions recorded yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, e := range s.entries {
		st := summary.Summarize(e.Payload.Results)
		line := fmt.Sprintf("  #%-3d %s    %d rolled    %d advanced",
			e.SessionNumber, e.RecordedAt.Format("Jan 02, 2006"), st.Used, st.Advanced)

		style := theme.Unselected
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(style.Render(prefix + line))
		b.WriteString("\n")

		if s.expanded[i] {
			b.WriteString(s.renderDetail(e.Payload, width))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *HistoryScreen) renderDetail(p record.Payload, width int) string {
	var lines []string
	for _, q := range p.Questions {
		label := q.Label
		if !q.Custom {
			label = s.printer.Sprintf("question." + q.ID)
		}
		answer := s.printer.Sprintf("answer.no")
		if q.Answer {
			answer = s.printer.Sprintf("answer.yes")
		}
		lines = append(lines, fmt.Sprintf("%s %s", label, answer))
	}
	if p.Weakness.Text != "" {
		lines = append(lines, fmt.Sprintf("%s: %s", p.Weakness.Text, s.printer.Sprintf("weakness."+string(p.Weakness.Choice))))
	}
	for _, o := range p.Results {
		if o.Success {
			lines = append(lines, theme.Advanced.Render("+ "+summary.Transition(s.printer, o)))
		} else {
			lines = append(lines, theme.NotAdvanced.Render(fmt.Sprintf("- %s (%d)", o.SkillName, o.OldLevel)))
		}
	}
	return theme.Card.Width(max(20, min(width-8, 70))).Render(strings.Join(lines, "\n"))
}
