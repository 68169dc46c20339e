package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"golang.org/x/text/cases"
)

// FilterInput wraps bubbles/textinput as a name filter for long lists.
type FilterInput struct {
	Model textinput.Model
	fold  cases.Caser
}

// NewFilterInput creates an unfocused filter.
func NewFilterInput(placeholder string, maxWidth int) FilterInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "/ "
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return FilterInput{Model: ti, fold: cases.Fold()}
}

// Focus starts editing the filter.
func (f *FilterInput) Focus() tea.Cmd {
	return f.Model.Focus()
}

// Blur stops editing and keeps the current value.
func (f *FilterInput) Blur() {
	f.Model.Blur()
}

// Focused reports whether keys go to the filter.
func (f FilterInput) Focused() bool {
	return f.Model.Focused()
}

// Reset clears the filter and stops editing.
func (f *FilterInput) Reset() {
	f.Model.SetValue("")
	f.Model.Blur()
}

// Update handles messages while focused.
func (f FilterInput) Update(msg tea.Msg) (FilterInput, tea.Cmd) {
	var cmd tea.Cmd
	f.Model, cmd = f.Model.Update(msg)
	return f, cmd
}

// View renders the filter.
func (f FilterInput) View() string {
	return f.Model.View()
}

// Value returns the current filter text.
func (f FilterInput) Value() string {
	return f.Model.Value()
}

// Matches reports whether name contains the filter text, ignoring case.
// An empty filter matches everything.
func (f FilterInput) Matches(name string) bool {
	q := strings.TrimSpace(f.Model.Value())
	if q == "" {
		return true
	}
	return strings.Contains(f.fold.String(name), f.fold.String(q))
}
