package character

// Partition splits a character's skills for the selection step.
// Markable and Marked are disjoint and keep the input order.
type Partition struct {
	// Markable skills are unmarked and below MaxLevel.
	Markable []Skill

	// Marked skills carry the mark flag regardless of level.
	Marked []Skill
}

// Eligibility partitions skills into markable and marked sets.
func Eligibility(skills []Skill) Partition {
	var p Partition
	for _, s := range skills {
		switch {
		case s.Marked:
			p.Marked = append(p.Marked, s)
		case s.Level < MaxLevel:
			p.Markable = append(p.Markable, s)
		}
	}
	return p
}

// MarkedIDs returns the ids of all marked skills.
func MarkedIDs(skills []Skill) IDSet {
	var ids []string
	for _, s := range skills {
		if s.Marked {
			ids = append(ids, s.ID)
		}
	}
	return NewIDSet(ids...)
}

// Rollable returns the marked skills below MaxLevel, in input order.
func Rollable(skills []Skill) []Skill {
	var out []Skill
	for _, s := range skills {
		if s.Marked && s.Level < MaxLevel {
			out = append(out, s)
		}
	}
	return out
}
