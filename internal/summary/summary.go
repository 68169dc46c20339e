// Package summary renders finished sessions, both as a short transient
// message and as a durable journal entry.
package summary

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"golang.org/x/text/message"

	"github.com/abhisek/advancer/internal/character"
	"github.com/abhisek/advancer/internal/i18n"
	"github.com/abhisek/advancer/internal/record"
	"github.com/abhisek/advancer/internal/roll"
)

// DateLayout is the heading format of a journal entry.
const DateLayout = "January 2, 2006"

// Stats are the aggregate numbers shown in both renderings.
type Stats struct {
	Used     int
	Advanced int
	Heroic   int
}

// Summarize counts rolls, successes, and skills that reached the cap.
func Summarize(results []roll.Outcome) Stats {
	s := Stats{Used: len(results)}
	for _, o := range results {
		if o.Success {
			s.Advanced++
		}
		if o.ReachedMaximum {
			s.Heroic++
		}
	}
	return s
}

// Transition formats one successful outcome, e.g. "Swords (4 → 5)".
func Transition(p *message.Printer, o roll.Outcome) string {
	s := fmt.Sprintf("%s (%d → %d)", o.SkillName, o.OldLevel, o.NewLevel)
	if o.NewLevel == character.MaxLevel {
		s += " " + p.Sprintf("summary.max_level")
	}
	return s
}

// Transient renders the short message posted when a session completes.
func Transient(p *message.Printer, name string, results []roll.Outcome) string {
	st := Summarize(results)

	var b strings.Builder
	b.WriteString(p.Sprintf("summary.title", name))
	b.WriteString("\n")
	b.WriteString(p.Sprintf("summary.marks_used", st.Used))
	b.WriteString("\n")
	b.WriteString(p.Sprintf("summary.skills_advanced", st.Advanced))
	if st.Heroic > 0 {
		b.WriteString("\n")
		b.WriteString(p.Sprintf(i18n.KeyHeroic, st.Heroic))
	}
	if st.Advanced == 0 {
		b.WriteString("\n")
		b.WriteString(p.Sprintf("summary.none_advanced"))
		return b.String()
	}
	for _, o := range results {
		if o.Success {
			b.WriteString("\n  • ")
			b.WriteString(Transition(p, o))
		}
	}
	return b.String()
}

// EntryMarkdown renders the durable journal entry for a payload.
func EntryMarkdown(p *message.Printer, pl record.Payload) string {
	var b strings.Builder
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "## %s\n\n", pl.Timestamp.Format(DateLayout))

	if len(pl.Questions) > 0 {
		fmt.Fprintf(&b, "### %s\n\n", p.Sprintf("summary.questions"))
		for _, q := range pl.Questions {
			label := q.Label
			if !q.Custom {
				label = p.Sprintf("question." + q.ID)
			}
			answer := p.Sprintf("answer.no")
			if q.Answer {
				answer = p.Sprintf("answer.yes")
			}
			fmt.Fprintf(&b, "- %s %s\n", escape(label), answer)
		}
		b.WriteString("\n")
	}

	if pl.Weakness.Text != "" {
		fmt.Fprintf(&b, "### %s\n\n", p.Sprintf("summary.weakness"))
		fmt.Fprintf(&b, "%s: %s\n\n", escape(pl.Weakness.Text), p.Sprintf("weakness."+string(pl.Weakness.Choice)))
	}

	fmt.Fprintf(&b, "### %s\n\n", p.Sprintf("summary.marks"))
	fmt.Fprintf(&b, "- %s\n", p.Sprintf("summary.from_questions", pl.Marks.FromQuestions))
	fmt.Fprintf(&b, "- %s\n", p.Sprintf("summary.from_auto", pl.Marks.FromAuto))
	if pl.Marks.WeaknessBonus > 0 {
		fmt.Fprintf(&b, "- %s\n", p.Sprintf("summary.weakness_bonus", pl.Marks.WeaknessBonus))
	}
	b.WriteString("\n")

	st := Summarize(pl.Results)
	fmt.Fprintf(&b, "### %s\n\n", p.Sprintf("summary.results"))
	fmt.Fprintf(&b, "- %s\n", p.Sprintf("summary.marks_used", st.Used))
	fmt.Fprintf(&b, "- %s\n", p.Sprintf("summary.skills_advanced", st.Advanced))
	if st.Heroic > 0 {
		fmt.Fprintf(&b, "- %s\n", p.Sprintf(i18n.KeyHeroic, st.Heroic))
	}
	b.WriteString("\n")

	if st.Advanced == 0 {
		fmt.Fprintf(&b, "%s\n", p.Sprintf("summary.none_advanced"))
	} else {
		for _, o := range pl.Results {
			if o.Success {
				fmt.Fprintf(&b, "- %s\n", escape(Transition(p, o)))
			}
		}
	}

	if failed := st.Used - st.Advanced; failed > 0 {
		fmt.Fprintf(&b, "\n**%s**\n\n", p.Sprintf("summary.not_advanced"))
		for _, o := range pl.Results {
			if !o.Success {
				fmt.Fprintf(&b, "- %s (%d)\n", escape(o.SkillName), o.OldLevel)
			}
		}
	}
	return b.String()
}

// EntryHTML renders the journal entry as HTML.
func EntryHTML(p *message.Printer, pl record.Payload) (string, error) {
	var buf bytes.Buffer
	md := goldmark.New()
	if err := md.Convert([]byte(EntryMarkdown(p, pl)), &buf); err != nil {
		return "", fmt.Errorf("render entry: %w", err)
	}
	return buf.String(), nil
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`",
	"[", `\[`, "]", `\]`, "<", `\<`, ">", `\>`, "#", `\#`,
)

func escape(s string) string {
	return mdEscaper.Replace(s)
}
