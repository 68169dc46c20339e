package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/ui/theme"
)

// MarksMeter shows how much of the marks budget is spent, one cell per mark.
type MarksMeter struct {
	Label string
	Used  int
	Total int
}

// NewMarksMeter creates a meter.
func NewMarksMeter(label string, used, total int) MarksMeter {
	return MarksMeter{Label: label, Used: used, Total: total}
}

// View renders the meter, e.g. "Marks  ■■□  2/3".
func (m MarksMeter) View() string {
	var result string
	if m.Label != "" {
		result = lipgloss.NewStyle().Foreground(theme.Text).Render(m.Label) + "  "
	}

	used := min(max(m.Used, 0), m.Total)
	if m.Total > 0 {
		result += theme.MeterFilled.Render(strings.Repeat("■", used))
		result += theme.MeterEmpty.Render(strings.Repeat("□", m.Total-used))
		result += "  "
	}

	return result + lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d/%d", m.Used, m.Total))
}
