// Package app wires the store, the message bus, and the journal keeper to
// the terminal UI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/config"
	"github.com/abhisek/advancer/internal/notify"
	"github.com/abhisek/advancer/internal/roll"
	"github.com/abhisek/advancer/internal/router"
	"github.com/abhisek/advancer/internal/screen"
	"github.com/abhisek/advancer/internal/screens/welcome"
	"github.com/abhisek/advancer/internal/store"
	"github.com/abhisek/advancer/internal/ui/layout"
)

const (
	inboxSize  = 32
	maxNotices = 3
)

// Options configures the terminal UI.
type Options struct {
	Store    *store.Store
	Settings config.Settings
	Logger   *slog.Logger

	// Die defaults to a crypto-seeded d20.
	Die roll.Die

	// Splash shows the welcome screen before the roster.
	Splash bool
}

// noticeMsg carries a notice from any goroutine into the UI loop.
type noticeMsg notify.Notice

// inboxMsg wraps a message that arrived through the inbox, so the
// listener is re-armed exactly once per message.
type inboxMsg struct {
	Msg tea.Msg
}

// openWizardMsg asks the UI to open a wizard, usually on behalf of another
// member of the bus.
type openWizardMsg struct {
	CharacterID string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	env     *env
	router  *router.Router
	width   int
	height  int
	inbox   <-chan tea.Msg
	notices []notify.Notice
}

// newAppModel creates the root model with the roster (or splash) screen.
func newAppModel(e *env, inbox <-chan tea.Msg, splash bool) AppModel {
	var first screen.Screen = e.homeScreen()
	if splash {
		first = welcome.New(func() screen.Screen { return e.homeScreen() })
	}
	return AppModel{
		env:    e,
		router: router.New(first),
		inbox:  inbox,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.listen())
}

// listen waits for the next message posted from outside the UI loop.
func (m AppModel) listen() tea.Cmd {
	inbox := m.inbox
	if inbox == nil {
		return nil
	}
	return func() tea.Msg {
		msg, ok := <-inbox
		if !ok {
			return nil
		}
		return inboxMsg{Msg: msg}
	}
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case inboxMsg:
		updated, cmd := m.Update(msg.Msg)
		return updated, tea.Batch(cmd, m.listen())

	case noticeMsg:
		m.notices = append(m.notices, notify.Notice(msg))
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		return m, nil

	case openWizardMsg:
		return m, m.env.openByID(msg.CharacterID)

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

// render draws the whole frame as a string.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title, status := "", ""
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
	}
	header := layout.RenderHeader(title, status, m.width)

	footerHints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(kp.KeyHints(), footerHints...)
	}
	footer := layout.RenderFooter(footerHints, m.width)
	if notices := m.renderNotices(); notices != "" {
		footer = notices + "\n" + footer
	}

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

func (m AppModel) renderNotices() string {
	lines := make([]layout.NoticeLine, 0, len(m.notices))
	for _, n := range m.notices {
		lines = append(lines, layout.NoticeLine{Level: string(n.Level), Text: n.Text})
	}
	return layout.RenderNotices(lines, m.width)
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(ctx context.Context, opts Options) error {
	e, inbox, closeBus, err := setup(opts)
	if err != nil {
		return err
	}
	defer closeBus()

	p := tea.NewProgram(newAppModel(e, inbox, opts.Splash), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		// Cancelling ctx is a normal way to stop.
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}
