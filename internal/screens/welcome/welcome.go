// Package welcome is the splash shown when the terminal UI starts.
package welcome

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/ui/theme"
)

const (
	tickInterval = 80 * time.Millisecond
	settleAfter  = 1200 * time.Millisecond
	bannerAfter  = 1600 * time.Millisecond
)

const dieTemplate = `    ╱╲
   ╱  ╲
  ╱ %2s ╲
 ╱──────╲
 ╲      ╱
  ╲    ╱
   ╲  ╱
    ╲╱`

// tumble is the sequence of faces shown while the die is rolling.
var tumble = []int{7, 13, 2, 18, 9, 15, 4, 11, 16, 1, 19, 6}

type tickMsg time.Time

// WelcomeScreen rolls a d20 and shows the banner, then hands over to the
// screen built by nextFactory on the first key press.
type WelcomeScreen struct {
	nextFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by nextFactory.
func New(nextFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{nextFactory: nextFactory}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		w.tickCount++
		w.elapsed += tickInterval
		if w.elapsed >= bannerAfter {
			// Nothing moves after the banner is up.
			return w, nil
		}
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.nextFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// face is the number currently on top of the die.
func (w *WelcomeScreen) face() int {
	if w.elapsed >= settleAfter {
		return 20
	}
	return tumble[w.tickCount%len(tumble)]
}

func (w *WelcomeScreen) View(width, height int) string {
	dieStyle := lipgloss.NewStyle().Foreground(theme.Secondary)
	if w.elapsed >= settleAfter {
		dieStyle = lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	}
	sections := []string{dieStyle.Render(fmt.Sprintf(dieTemplate, fmt.Sprint(w.face())))}

	if w.elapsed >= bannerAfter {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render("Every session leaves a mark."),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
