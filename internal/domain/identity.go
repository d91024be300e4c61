package domain

import "fmt"

// RuleIdentity pairs the spans a rule occupies in the input and output
// templates. Two rules whose identities overlap claim the same text.
type RuleIdentity struct {
	Input  Region
	Output Region
}

// NewRuleIdentity creates a RuleIdentity. At least one region must be non-empty.
func NewRuleIdentity(input, output Region) (RuleIdentity, error) {
	if input.IsEmpty() && output.IsEmpty() {
		return RuleIdentity{}, fmt.Errorf("%w: rule identity has zero-length regions for both input and output template",
			ErrInvalidArgument)
	}
	return RuleIdentity{Input: input, Output: output}, nil
}

// Overlaps reports whether either the input or the output regions overlap.
func (id RuleIdentity) Overlaps(other RuleIdentity) bool {
	return id.Input.Overlaps(other.Input) || id.Output.Overlaps(other.Output)
}

func (id RuleIdentity) String() string {
	return fmt.Sprintf("input%s output%s", id.Input, id.Output)
}
