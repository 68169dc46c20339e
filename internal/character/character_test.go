package character

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEligibility(t *testing.T) {
	skills := []Skill{
		{ID: "a", Name: "Swords", Level: 5},
		{ID: "b", Name: "Bows", Level: 18},
		{ID: "c", Name: "Lore", Level: 7, Marked: true},
		{ID: "d", Name: "Climb", Level: 18, Marked: true},
		{ID: "e", Name: "Hunt", Level: 0},
	}

	p := Eligibility(skills)

	var markable, marked []string
	for _, s := range p.Markable {
		markable = append(markable, s.ID)
	}
	for _, s := range p.Marked {
		marked = append(marked, s.ID)
	}

	assert.Equal(t, []string{"a", "e"}, markable)
	assert.Equal(t, []string{"c", "d"}, marked)
}

func TestEligibilityNeverOffersMaxLevel(t *testing.T) {
	for lvl := 0; lvl <= MaxLevel; lvl++ {
		p := Eligibility([]Skill{{ID: "x", Level: lvl}})
		if lvl == MaxLevel && len(p.Markable) != 0 {
			t.Errorf("level %d: expected not markable", lvl)
		}
		if lvl < MaxLevel && len(p.Markable) != 1 {
			t.Errorf("level %d: expected markable", lvl)
		}
	}
}

func TestRollableSkipsMaxLevel(t *testing.T) {
	got := Rollable([]Skill{
		{ID: "a", Level: 3, Marked: true},
		{ID: "b", Level: 18, Marked: true},
		{ID: "c", Level: 4},
	})
	assert.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestIDSetImmutable(t *testing.T) {
	a := NewIDSet("x")
	b := a.With("y")
	c := b.Without("x")

	assert.Equal(t, []string{"x"}, a.IDs())
	assert.Equal(t, []string{"x", "y"}, b.IDs())
	assert.Equal(t, []string{"y"}, c.IDs())
	assert.True(t, NewIDSet("y", "x").Equal(b))
	assert.False(t, a.Equal(b))
	assert.True(t, IDSet{}.Equal(NewIDSet()))
}

func TestSkillUpdateApply(t *testing.T) {
	s := Skill{ID: "a", Level: 4, Marked: true, Taught: true}

	got := Restore(9).Apply(s)
	assert.Equal(t, 9, got.Level)
	assert.True(t, got.Marked)
	assert.True(t, got.Taught)

	got = SetMarked(false).Apply(s)
	assert.Equal(t, 4, got.Level)
	assert.False(t, got.Marked)

	assert.True(t, SkillUpdate{}.IsZero())
}
