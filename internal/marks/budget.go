package marks

// Breakdown is the marks budget split by source.
type Breakdown struct {
	FromBuiltins  int
	FromCustom    int
	WeaknessBonus int
}

// FromQuestions is the number of marks earned by yes answers.
func (b Breakdown) FromQuestions() int {
	return b.FromBuiltins + b.FromCustom
}

// Total is the number of skills the operator may select.
func (b Breakdown) Total() int {
	return b.FromQuestions() + b.WeaknessBonus
}

// Calculate derives the marks budget from answers and configuration.
//
// Hidden built-ins never count. Custom answers count only for the ids of
// configured questions, so stale ids from an older configuration are
// ignored. The weakness bonus applies only when the rule is enabled.
func Calculate(a Answers, cfg Config) Breakdown {
	var b Breakdown
	for _, q := range Builtins() {
		if !cfg.Hidden[q] && a.Builtin(q) {
			b.FromBuiltins++
		}
	}
	for i := range cfg.CustomQuestions {
		if a.Custom(CustomID(i)) {
			b.FromCustom++
		}
	}
	if cfg.WeaknessRule {
		b.WeaknessBonus = a.Weakness.Bonus()
	}
	return b
}
