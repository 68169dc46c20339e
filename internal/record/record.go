// Package record defines the finished-session payload that travels from a
// wizard to the journal keeper and into per-character history.
package record

import (
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/advancer/internal/marks"
	"github.com/abhisek/advancer/internal/roll"
)

// SchemaVersion is stamped on every payload this build produces.
const SchemaVersion = "v1.0.0"

// Answer is one question shown during the session and its answer.
type Answer struct {
	ID     string `json:"id"`
	Custom bool   `json:"custom,omitempty"`
	Label  string `json:"label,omitempty"`
	Answer bool   `json:"answer"`
}

// Weakness captures the weakness text at open time and the choice made.
type Weakness struct {
	Text   string               `json:"text"`
	Choice marks.WeaknessChoice `json:"choice"`
}

// Marks is the marks budget snapshot.
type Marks struct {
	// FromQuestions is every mark earned this session, the weakness
	// bonus included.
	FromQuestions int `json:"fromQuestions"`

	// FromAuto counts rolled skills that were not paid for this session,
	// such as marks carried over from earlier play.
	FromAuto      int `json:"fromAuto"`
	WeaknessBonus int `json:"weaknessBonus"`
	Total         int `json:"total"`
}

// Payload is the immutable record of one completed session.
type Payload struct {
	ID            string    `json:"id"`
	SchemaVersion string    `json:"schemaVersion"`
	CharacterID   string    `json:"characterId"`
	CharacterName string    `json:"characterName"`
	Timestamp     time.Time `json:"timestamp"`

	Questions         []Answer       `json:"questions"`
	Weakness          Weakness       `json:"weakness"`
	Marks             Marks          `json:"marks"`
	Results           []roll.Outcome `json:"results"`
	MarkedThisSession []string       `json:"markedThisSession"`
}

// NewID returns a fresh payload id.
func NewID() string {
	return uuid.NewString()
}

// MarksFor derives the marks snapshot from the budget and the roll count.
func MarksFor(b marks.Breakdown, rolled int) Marks {
	return Marks{
		FromQuestions: b.Total(),
		FromAuto:      max(0, rolled-b.Total()),
		WeaknessBonus: b.WeaknessBonus,
		Total:         rolled,
	}
}

// Advanced returns the outcomes that raised a level.
func (p Payload) Advanced() []roll.Outcome {
	var out []roll.Outcome
	for _, o := range p.Results {
		if o.Success {
			out = append(out, o)
		}
	}
	return out
}

// HistoryEntry is a payload filed under a character's session history.
type HistoryEntry struct {
	SessionNumber int
	RecordedAt    time.Time
	Payload       Payload
}
