package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/advancer/internal/ui/theme"
)

// CheckItem is one row of a checklist.
type CheckItem struct {
	Key      string
	Label    string
	Detail   string
	Checked  bool
	Disabled bool
}

// Checklist is a cursor over toggleable rows. It does not toggle rows
// itself; the owning screen reacts to Toggled and rebuilds the items.
type Checklist struct {
	Items  []CheckItem
	Cursor int
}

// NewChecklist creates a checklist with the cursor on the first row.
func NewChecklist(items []CheckItem) Checklist {
	return Checklist{Items: items}
}

// SetItems replaces the rows and keeps the cursor in range.
func (c *Checklist) SetItems(items []CheckItem) {
	c.Items = items
	if c.Cursor >= len(items) {
		c.Cursor = max(0, len(items)-1)
	}
}

// Current returns the row under the cursor.
func (c Checklist) Current() (CheckItem, bool) {
	if c.Cursor < 0 || c.Cursor >= len(c.Items) {
		return CheckItem{}, false
	}
	return c.Items[c.Cursor], true
}

// Toggled is returned by Update when space or enter is pressed on a row.
type Toggled struct {
	Key string
}

// Update moves the cursor and reports toggles.
func (c Checklist) Update(msg tea.Msg) (Checklist, *Toggled) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Items)-1 {
			c.Cursor++
		}
	case "space", " ", "x":
		if it, ok := c.Current(); ok && !it.Disabled {
			return c, &Toggled{Key: it.Key}
		}
	}
	return c, nil
}

// View renders the checklist.
func (c Checklist) View() string {
	var b strings.Builder
	for i, it := range c.Items {
		box := "[ ]"
		if it.Checked {
			box = "[x]"
		}
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}

		style := theme.Unselected
		switch {
		case it.Disabled:
			style = theme.Disabled
		case i == c.Cursor:
			style = theme.Selected
		}
		line := style.Render(prefix + box + " " + it.Label)
		if it.Detail != "" {
			line += "  " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(it.Detail)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
