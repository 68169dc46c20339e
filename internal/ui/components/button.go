package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/ui/theme"
)

// Button is a styled button label.
type Button struct {
	Label  string
	Active bool
}

// View renders the button.
func (b Button) View() string {
	if b.Active {
		return theme.ButtonActive.Render(b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}

// ConfirmDialog is a yes/no prompt drawn over a screen.
type ConfirmDialog struct {
	Title   string
	Message string
	Yes     string
	No      string
}

// View renders the dialog with the yes button highlighted.
func (d ConfirmDialog) View() string {
	yes := Button{Label: "[Y] " + d.Yes, Active: true}
	no := Button{Label: "[N] " + d.No}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yes.View(), "   ", no.View())

	body := lipgloss.JoinVertical(lipgloss.Center,
		theme.Title.Render(d.Title),
		"",
		theme.Body.Render(d.Message),
		"",
		buttons,
	)
	return theme.Dialog.Render(body)
}
