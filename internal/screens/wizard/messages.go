package wizard

import (
	"github.com/abhisek/advancer/internal/session"
)

// openedMsg is sent when the wizard has been opened and first rendered.
type openedMsg struct {
	Wizard *session.Wizard
	View   session.View
	Err    error
}

// actionDoneMsg is sent after a wizard action ran, with a fresh view.
type actionDoneMsg struct {
	View session.View
	Err  error
}
