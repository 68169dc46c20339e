// Package home is the character roster shown when the terminal UI starts.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/ui/components"
	"github.com/abhisek/advancer/internal/ui/layout"
	"github.com/abhisek/advancer/internal/ui/theme"
)

// Roster is the read side of the character store.
type Roster interface {
	Characters(ctx context.Context) ([]character.Character, error)
	Skills(ctx context.Context, characterID string) ([]character.Skill, error)
}

// Options configures the home screen. Advance and History return the
// command that opens the respective screen for a character.
type Options struct {
	Roster      Roster
	ShowAdvance bool
	Advance     func(ch character.Character) tea.Cmd
	History     func(ch character.Character) tea.Cmd
}

type rosterEntry struct {
	Char   character.Character
	Skills int
	Marked int
	Maxed  int
}

type rosterLoadedMsg struct {
	Entries []rosterEntry
	Err     error
}

// HomeScreen lists the characters and opens their wizard or history.
type HomeScreen struct {
	opts    Options
	entries []rosterEntry
	menu    components.Menu
	loaded  bool
	errMsg  string
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)
var _ screen.Refresher = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(opts Options) *HomeScreen {
	return &HomeScreen{opts: opts}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.load()
}

// Refresh reloads the roster, since a finished session changes levels.
func (h *HomeScreen) Refresh() tea.Cmd {
	return h.load()
}

func (h *HomeScreen) load() tea.Cmd {
	roster := h.opts.Roster
	return func() tea.Msg {
		ctx := context.Background()
		chars, err := roster.Characters(ctx)
		if err != nil {
			return rosterLoadedMsg{Err: err}
		}
		entries := make([]rosterEntry, 0, len(chars))
		for _, ch := range chars {
			skills, err := roster.Skills(ctx, ch.ID)
			if err != nil {
				return rosterLoadedMsg{Err: err}
			}
			e := rosterEntry{Char: ch, Skills: len(skills)}
			for _, sk := range skills {
				if sk.Marked {
					e.Marked++
				}
				if sk.AtMaximum() {
					e.Maxed++
				}
			}
			entries = append(entries, e)
		}
		return rosterLoadedMsg{Entries: entries}
	}
}

func (h *HomeScreen) Title() string {
	return "Characters"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Select"}}
	if h.opts.ShowAdvance {
		hints = append(hints, layout.KeyHint{Key: "Enter", Description: "Advance"})
	}
	return append(hints,
		layout.KeyHint{Key: "H", Description: "History"},
		layout.KeyHint{Key: "Q", Description: "Quit"},
	)
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case rosterLoadedMsg:
		h.loaded = true
		h.errMsg = ""
		if msg.Err != nil {
			h.errMsg = msg.Err.Error()
			return h, nil
		}
		h.entries = msg.Entries
		h.rebuild()
		return h, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "q":
			return h, tea.Quit
		case "h", "H":
			if ch, ok := h.current(); ok && h.opts.History != nil {
				return h, h.opts.History(ch)
			}
			return h, nil
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) current() (character.Character, bool) {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.entries) {
		return character.Character{}, false
	}
	return h.entries[h.menu.Selected].Char, true
}

func (h *HomeScreen) rebuild() {
	selected := h.menu.Selected
	items := make([]components.MenuItem, 0, len(h.entries)+1)
	for _, e := range h.entries {
		ch := e.Char
		item := components.MenuItem{
			Label: ch.Name,
			Hint:  fmt.Sprintf("%d skills · %d marked", e.Skills, e.Marked),
		}
		switch {
		case h.opts.ShowAdvance && h.opts.Advance != nil:
			item.Action = func() tea.Cmd { return h.opts.Advance(ch) }
		case h.opts.History != nil:
			item.Action = func() tea.Cmd { return h.opts.History(ch) }
		}
		items = append(items, item)
	}
	items = append(items, components.MenuItem{Label: "Exit", Action: func() tea.Cmd { return tea.Quit }})

	h.menu = components.NewMenu(items)
	if selected > 0 && selected < len(items) {
		h.menu.Selected = selected
	}
}

func (h *HomeScreen) View(width, height int) string {
	cw := contentWidth(width)

	var body string
	switch {
	case h.errMsg != "":
		body = theme.NoticeError.Render("Error: " + h.errMsg)
	case !h.loaded:
		body = theme.Hint.Render("Loading characters...")
	case len(h.entries) == 0:
		body = lipgloss.JoinVertical(lipgloss.Center,
			theme.Hint.Render("No characters yet."),
			"",
			theme.Body.Render("advancer character add <name>"),
		)
	default:
		body = lipgloss.JoinVertical(lipgloss.Left,
			h.menu.View(),
			renderDetail(h.selectedEntry(), cw),
		)
	}

	return renderFrame(lipgloss.NewStyle().Width(cw).Render(body), width, height)
}

func (h *HomeScreen) selectedEntry() *rosterEntry {
	if h.menu.Selected < 0 || h.menu.Selected >= len(h.entries) {
		return nil
	}
	return &h.entries[h.menu.Selected]
}

// renderDetail renders a card for the selected character.
func renderDetail(e *rosterEntry, cw int) string {
	if e == nil {
		return ""
	}
	lines := []string{theme.Subtitle.Render(e.Char.Name)}
	if e.Char.HasWeakness() {
		lines = append(lines, theme.Body.Render("Weakness: "+e.Char.Weakness))
	}
	stats := []string{
		fmt.Sprintf("%d skills", e.Skills),
		fmt.Sprintf("%d marked", e.Marked),
	}
	if e.Maxed > 0 {
		stats = append(stats, theme.Maxed.Render(fmt.Sprintf("%d at level %d", e.Maxed, character.MaxLevel)))
	}
	lines = append(lines, theme.Hint.Render(strings.Join(stats, " · ")))
	if e.Char.Owner != "" {
		lines = append(lines, theme.Hint.Render("Player: "+e.Char.Owner))
	}
	return theme.Card.Width(cw).Render(strings.Join(lines, "\n"))
}

// contentWidth returns the inner width shared by every section.
func contentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 60)
}

// renderFrame centers content inside a rounded border.
func renderFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(max(width-2, 0)).
		Height(max(height-2, 0)).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}
