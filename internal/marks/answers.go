package marks

// Answers holds the operator's responses for one session.
// Setters return a new value; the receiver is never modified.
type Answers struct {
	builtin  map[Question]bool
	custom   map[string]bool
	Weakness WeaknessChoice
}

// NewAnswers returns all-no answers with weakness none.
func NewAnswers() Answers {
	return Answers{Weakness: WeaknessNone}
}

// Builtin returns the answer to a built-in question.
func (a Answers) Builtin(q Question) bool {
	return a.builtin[q]
}

// Custom returns the answer stored under a custom question id.
func (a Answers) Custom(id string) bool {
	return a.custom[id]
}

// WithBuiltin returns a copy with the built-in answer set.
func (a Answers) WithBuiltin(q Question, v bool) Answers {
	m := make(map[Question]bool, len(a.builtin)+1)
	for k, old := range a.builtin {
		m[k] = old
	}
	m[q] = v
	a.builtin = m
	return a
}

// WithCustom returns a copy with the custom answer set.
func (a Answers) WithCustom(id string, v bool) Answers {
	m := make(map[string]bool, len(a.custom)+1)
	for k, old := range a.custom {
		m[k] = old
	}
	m[id] = v
	a.custom = m
	return a
}

// WithWeakness returns a copy with the weakness choice set.
func (a Answers) WithWeakness(c WeaknessChoice) Answers {
	a.Weakness = c
	return a
}

// BuiltinMap returns a copy of the built-in answers for visible questions.
func (a Answers) BuiltinMap(cfg Config) map[string]bool {
	out := make(map[string]bool)
	for _, q := range Builtins() {
		if !cfg.Hidden[q] {
			out[string(q)] = a.builtin[q]
		}
	}
	return out
}
