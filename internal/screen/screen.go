package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/advancer/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider is an optional interface for a short status shown on the
// right of the header, such as the remaining marks.
type StatusProvider interface {
	Status() string
}

// Refresher is implemented by screens that reload their data when they
// become active again after the screen above them was popped.
type Refresher interface {
	Refresh() tea.Cmd
}
