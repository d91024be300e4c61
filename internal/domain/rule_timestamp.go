package domain

import (
	"fmt"
	"regexp"
	"time"
)

// AbbrTimestamp marks a timestamp read from the file name and reformatted
const AbbrTimestamp = "TS"

// TimestampRule parses a date embedded in the file name with the input
// pattern and writes it back with the output pattern.
type TimestampRule struct {
	identity RuleIdentity
	in       *DateFormat
	out      *DateFormat
	own      *regexp.Regexp
	loc      *time.Location
}

func generateTimestampRule(f *RuleFactory, input, output string) (Rule, bool, error) {
	inMatch, inRegion, inOK := markerRegion(input, AbbrTimestamp)
	outMatch, outRegion, outOK := markerRegion(output, AbbrTimestamp)
	switch {
	case !inOK && !outOK:
		return nil, false, nil
	case inOK && !outOK:
		return nil, false, &TemplateError{Template: output, Marker: inMatch.Raw,
			Reason: "marker present in source pattern but not target pattern"}
	case !inOK && outOK:
		return nil, false, &TemplateError{Template: input, Marker: outMatch.Raw,
			Reason: "marker present in target pattern but not source pattern"}
	}

	if inMatch.Arguments == "" {
		return nil, false, &FormatError{Format: inMatch.Raw, Reason: "timestamp marker in source pattern requires a date pattern"}
	}
	in, err := ParseDateFormat(inMatch.Arguments)
	if err != nil {
		return nil, false, err
	}
	out := in
	if outMatch.Arguments != "" {
		if out, err = ParseDateFormat(outMatch.Arguments); err != nil {
			return nil, false, err
		}
	}

	identity, err := NewRuleIdentity(inRegion, outRegion)
	if err != nil {
		return nil, false, err
	}
	own, err := regexp.Compile(namedGroup(AbbrTimestamp, in.Expression()))
	if err != nil {
		return nil, false, &FormatError{Format: in.Pattern(), Reason: err.Error()}
	}

	return &TimestampRule{identity: identity, in: in, out: out, own: own, loc: f.location()}, true, nil
}

func (r *TimestampRule) Abbreviation() string   { return AbbrTimestamp }
func (r *TimestampRule) Identity() RuleIdentity { return r.identity }

// SearchExpression replaces the marker with a group shaped like the input pattern
func (r *TimestampRule) SearchExpression(pattern string) string {
	return substitute(pattern, AbbrTimestamp, namedGroup(AbbrTimestamp, r.in.Expression()))
}

func (r *TimestampRule) Value(subject Subject) (string, error) {
	raw, err := captureOrMatch(subject, AbbrTimestamp, r.own)
	if err != nil {
		return "", &RuleError{Rule: AbbrTimestamp, File: subject.Name(), Err: err}
	}
	ts, err := r.in.Parse(raw, r.loc)
	if err != nil {
		return "", &RuleError{Rule: AbbrTimestamp, File: subject.Name(), Err: err}
	}
	return r.out.Format(ts), nil
}

func (r *TimestampRule) String() string {
	sample := time.Date(1990, time.October, 15, 10, 35, 22, 0, time.UTC)
	return fmt.Sprintf("Timestamp rule: reformatting %q as %q (e.g. %s -> %s)",
		r.in.Pattern(), r.out.Pattern(), r.in.Format(sample), r.out.Format(sample))
}
