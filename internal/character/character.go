package character

// MaxLevel is the level cap for every skill.
const MaxLevel = 18

// Character is a player character as seen by the advancement workflow.
type Character struct {
	ID    string
	Name  string
	Owner string

	// Weakness is free text; empty means the character has none.
	Weakness string
}

// HasWeakness reports whether the character carries weakness text.
func (c Character) HasWeakness() bool {
	return c.Weakness != ""
}

// Skill is a named trained ability with a level in [0, MaxLevel].
type Skill struct {
	ID     string
	Name   string
	Level  int
	Marked bool
	Taught bool
}

// AtMaximum reports whether the skill has reached the level cap.
func (s Skill) AtMaximum() bool {
	return s.Level >= MaxLevel
}

// SkillUpdate is a partial write to a skill. Nil fields are left untouched.
type SkillUpdate struct {
	Level  *int
	Marked *bool
	Taught *bool
}

// IsZero reports whether the update changes nothing.
func (u SkillUpdate) IsZero() bool {
	return u.Level == nil && u.Marked == nil && u.Taught == nil
}

// Apply returns s with the update applied.
func (u SkillUpdate) Apply(s Skill) Skill {
	if u.Level != nil {
		s.Level = *u.Level
	}
	if u.Marked != nil {
		s.Marked = *u.Marked
	}
	if u.Taught != nil {
		s.Taught = *u.Taught
	}
	return s
}

// SetMarked builds an update that only flips the mark flag.
func SetMarked(marked bool) SkillUpdate {
	return SkillUpdate{Marked: &marked}
}

// Restore builds an update that puts a skill back to level and marked.
func Restore(level int) SkillUpdate {
	marked := true
	return SkillUpdate{Level: &level, Marked: &marked}
}

// Find returns the skill with the given id.
func Find(skills []Skill, id string) (Skill, bool) {
	for _, s := range skills {
		if s.ID == id {
			return s, true
		}
	}
	return Skill{}, false
}
