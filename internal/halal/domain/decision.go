package domain

// Decision is the outcome of classifying one material name.
// Pure value type, no external dependencies.
type Decision struct {
	Matched bool   // false means no rule applied (null status)
	Status  Status // valid only when Matched
	Rule    Rule   // the rule that matched
	Reason  string // human-readable explanation written to the reason column
}

// IsNull reports whether no rule matched.
func (d Decision) IsNull() bool { return !d.Matched }

// NullDecision returns the decision for an unmatched name.
func NullDecision() Decision { return Decision{} }

// DecisionFor materializes the decision produced by a matching rule.
func DecisionFor(r Rule) Decision {
	return Decision{Matched: true, Status: r.Status, Rule: r, Reason: r.Reason}
}
