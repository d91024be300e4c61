package domain

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// AbbrEnumeration marks a running number shared by all files of one task
const AbbrEnumeration = "E"

// DefaultEnumerationFormat renders the counter without padding
const DefaultEnumerationFormat = "%d"

// EnumerationRule writes the next value of the task's counter into the output name.
type EnumerationRule struct {
	identity RuleIdentity
	format   string
	counter  *atomic.Int64
}

func generateEnumerationRule(f *RuleFactory, _, output string) (Rule, bool, error) {
	match, region, ok := markerRegion(output, AbbrEnumeration)
	if !ok {
		return nil, false, nil
	}

	format := match.Arguments
	if strings.TrimSpace(format) == "" {
		format = DefaultEnumerationFormat
	}
	if err := validateNumberFormat(format); err != nil {
		return nil, false, err
	}

	identity, err := NewRuleIdentity(EmptyRegion, region)
	if err != nil {
		return nil, false, err
	}
	counter := f.Counter
	if counter == nil {
		counter = new(atomic.Int64)
	}
	return &EnumerationRule{identity: identity, format: format, counter: counter}, true, nil
}

// validateNumberFormat performs a trial format. fmt reports bad verbs,
// missing and extra operands inline with a "%!" prefix.
func validateNumberFormat(format string) error {
	out := fmt.Sprintf(format, int64(1))
	if strings.Contains(out, "%!") {
		return &FormatError{Format: format, Reason: fmt.Sprintf("trial format produced %q", out)}
	}
	return nil
}

func (r *EnumerationRule) Abbreviation() string   { return AbbrEnumeration }
func (r *EnumerationRule) Identity() RuleIdentity { return r.identity }

// SearchExpression leaves the input pattern unchanged
func (r *EnumerationRule) SearchExpression(pattern string) string {
	return pattern
}

// Value takes the next counter value. The increment is atomic, so concurrent
// jobs never observe the same value.
func (r *EnumerationRule) Value(Subject) (string, error) {
	n := r.counter.Add(1) - 1
	return fmt.Sprintf(r.format, n), nil
}

func (r *EnumerationRule) String() string {
	return fmt.Sprintf("Enumeration rule: format %q, 12 is written as %q", r.format, fmt.Sprintf(r.format, int64(12)))
}
