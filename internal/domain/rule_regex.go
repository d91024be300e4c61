package domain

import (
	"fmt"
	"regexp"
)

// AbbrRegex marks free-form text captured from the file name by a user regex
const AbbrRegex = "R"

// RegexRule copies the text its regular expression captures from the file
// name into the output name. The output marker is optional.
type RegexRule struct {
	identity   RuleIdentity
	expression string
	group      string
	own        *regexp.Regexp
}

func generateRegexRule(_ *RuleFactory, input, output string) (Rule, bool, error) {
	match, inRegion, ok := markerRegion(input, AbbrRegex)
	if !ok {
		return nil, false, nil
	}
	if match.Arguments == "" {
		return nil, false, &FormatError{Format: match.Raw, Reason: "regex marker in source pattern requires an expression"}
	}
	_, outRegion, _ := markerRegion(output, AbbrRegex)

	group := namedGroup(AbbrRegex, match.Arguments)
	own, err := regexp.Compile(group)
	if err != nil {
		return nil, false, &FormatError{Format: match.Arguments, Reason: err.Error()}
	}
	identity, err := NewRuleIdentity(inRegion, outRegion)
	if err != nil {
		return nil, false, err
	}
	return &RegexRule{identity: identity, expression: match.Arguments, group: group, own: own}, true, nil
}

func (r *RegexRule) Abbreviation() string   { return AbbrRegex }
func (r *RegexRule) Identity() RuleIdentity { return r.identity }

// SearchExpression replaces the marker with the user's expression as a named group
func (r *RegexRule) SearchExpression(pattern string) string {
	return substitute(pattern, AbbrRegex, r.group)
}

// Value returns the text the expression captured from the file name
func (r *RegexRule) Value(subject Subject) (string, error) {
	captured, err := captureOrMatch(subject, AbbrRegex, r.own)
	if err != nil {
		return "", &RuleError{Rule: AbbrRegex, File: subject.Name(), Err: err}
	}
	return captured, nil
}

func (r *RegexRule) String() string {
	return fmt.Sprintf("Regex rule: copying matches of %q from the input name", r.expression)
}
