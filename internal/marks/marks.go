package marks

import (
	"fmt"
	"strings"
)

// Question identifies one of the built-in yes/no questions.
type Question string

const (
	Participated Question = "participated"
	Explored     Question = "explored"
	Defeated     Question = "defeated"
	Overcame     Question = "overcame"
)

// Builtins returns the built-in questions in display order.
func Builtins() []Question {
	return []Question{Participated, Explored, Defeated, Overcame}
}

// WeaknessChoice is the answer to the weakness question.
type WeaknessChoice string

const (
	WeaknessNone     WeaknessChoice = "none"
	WeaknessGaveIn   WeaknessChoice = "gavein"
	WeaknessOvercame WeaknessChoice = "overcame"
)

// ParseWeaknessChoice parses a stored or user-supplied choice.
func ParseWeaknessChoice(s string) (WeaknessChoice, error) {
	switch WeaknessChoice(strings.ToLower(strings.TrimSpace(s))) {
	case WeaknessNone, "":
		return WeaknessNone, nil
	case WeaknessGaveIn, "gave-in", "gave_in":
		return WeaknessGaveIn, nil
	case WeaknessOvercame:
		return WeaknessOvercame, nil
	}
	return WeaknessNone, fmt.Errorf("unknown weakness choice %q", s)
}

// Bonus returns the marks the choice is worth when the weakness rule is on.
func (c WeaknessChoice) Bonus() int {
	switch c {
	case WeaknessGaveIn:
		return 1
	case WeaknessOvercame:
		return 2
	default:
		return 0
	}
}

// CustomID returns the answer key of the custom question at index i.
func CustomID(i int) string {
	return fmt.Sprintf("custom_%d", i)
}

// ParseCustomQuestions splits a semicolon-delimited setting into labels.
// Blank entries are dropped.
func ParseCustomQuestions(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ";") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Config is the subset of settings that shapes the question step.
type Config struct {
	Hidden          map[Question]bool
	WeaknessRule    bool
	CustomQuestions []string
}

// Prompt is one question shown to the operator.
type Prompt struct {
	// ID is the Question for built-ins or CustomID(i) for custom ones.
	ID     string
	Custom bool
	Index  int

	// Label is set for custom questions only; built-in labels are localized.
	Label string
}

// Visible returns the prompts to display: unhidden built-ins, then custom.
func Visible(cfg Config) []Prompt {
	var out []Prompt
	for i, q := range Builtins() {
		if cfg.Hidden[q] {
			continue
		}
		out = append(out, Prompt{ID: string(q), Index: i})
	}
	for i, label := range cfg.CustomQuestions {
		out = append(out, Prompt{ID: CustomID(i), Custom: true, Index: i, Label: label})
	}
	return out
}
