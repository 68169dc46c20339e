package marks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	base := Config{CustomQuestions: []string{"Did you sing?", "Did you pray?"}}

	tests := []struct {
		name    string
		answers func() Answers
		cfg     Config
		want    Breakdown
	}{
		{
			name:    "nothing answered",
			answers: NewAnswers,
			cfg:     base,
			want:    Breakdown{},
		},
		{
			name: "builtins and custom",
			answers: func() Answers {
				return NewAnswers().
					WithBuiltin(Participated, true).
					WithBuiltin(Defeated, true).
					WithCustom(CustomID(1), true)
			},
			cfg:  base,
			want: Breakdown{FromBuiltins: 2, FromCustom: 1},
		},
		{
			name: "hidden builtin ignored",
			answers: func() Answers {
				return NewAnswers().WithBuiltin(Explored, true).WithBuiltin(Overcame, true)
			},
			cfg:  Config{Hidden: map[Question]bool{Explored: true}},
			want: Breakdown{FromBuiltins: 1},
		},
		{
			name: "unknown custom id ignored",
			answers: func() Answers {
				return NewAnswers().WithCustom(CustomID(5), true).WithCustom("bogus", true)
			},
			cfg:  base,
			want: Breakdown{},
		},
		{
			name: "weakness overcame with rule",
			answers: func() Answers {
				return NewAnswers().WithWeakness(WeaknessOvercame)
			},
			cfg:  Config{WeaknessRule: true},
			want: Breakdown{WeaknessBonus: 2},
		},
		{
			name: "weakness gave in with rule",
			answers: func() Answers {
				return NewAnswers().WithWeakness(WeaknessGaveIn)
			},
			cfg:  Config{WeaknessRule: true},
			want: Breakdown{WeaknessBonus: 1},
		},
		{
			name: "weakness ignored without rule",
			answers: func() Answers {
				return NewAnswers().WithWeakness(WeaknessOvercame)
			},
			cfg:  Config{},
			want: Breakdown{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.answers(), tt.cfg)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got.Total(), 0)
		})
	}
}

func TestTotal(t *testing.T) {
	b := Breakdown{FromBuiltins: 3, FromCustom: 2, WeaknessBonus: 1}
	assert.Equal(t, 5, b.FromQuestions())
	assert.Equal(t, 6, b.Total())
}

func TestAnswersCopyOnWrite(t *testing.T) {
	a := NewAnswers()
	b := a.WithBuiltin(Participated, true)
	c := b.WithCustom(CustomID(0), true)

	assert.False(t, a.Builtin(Participated))
	assert.True(t, b.Builtin(Participated))
	assert.False(t, b.Custom(CustomID(0)))
	assert.True(t, c.Custom(CustomID(0)))
}

func TestParseCustomQuestions(t *testing.T) {
	got := ParseCustomQuestions(" Did you sing? ;; Did you pray?;  ")
	assert.Equal(t, []string{"Did you sing?", "Did you pray?"}, got)
	assert.Empty(t, ParseCustomQuestions(""))
}

func TestVisible(t *testing.T) {
	cfg := Config{
		Hidden:          map[Question]bool{Defeated: true},
		CustomQuestions: []string{"Sang?"},
	}
	got := Visible(cfg)
	require.Len(t, got, 4)
	assert.Equal(t, "participated", got[0].ID)
	assert.Equal(t, "explored", got[1].ID)
	assert.Equal(t, "overcame", got[2].ID)
	assert.Equal(t, Prompt{ID: "custom_0", Custom: true, Index: 0, Label: "Sang?"}, got[3])
}

func TestParseWeaknessChoice(t *testing.T) {
	for in, want := range map[string]WeaknessChoice{
		"":         WeaknessNone,
		"none":     WeaknessNone,
		"GaveIn":   WeaknessGaveIn,
		"gave-in":  WeaknessGaveIn,
		"overcame": WeaknessOvercame,
	} {
		got, err := ParseWeaknessChoice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseWeaknessChoice("maybe")
	assert.Error(t, err)
}
