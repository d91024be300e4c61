package domain

import (
	"fmt"
	"regexp"
	"sort"
	"sync/atomic"
	"time"
)

// ruleGenerator instantiates a rule variant when its marker is present.
// It returns false, without error, when the variant does not apply.
type ruleGenerator func(f *RuleFactory, input, output string) (Rule, bool, error)

// ruleGenerators lists every known variant in priority order
var ruleGenerators = []struct {
	abbreviation string
	generate     ruleGenerator
}{
	{AbbrEnumeration, generateEnumerationRule},
	{AbbrRegex, generateRegexRule},
	{AbbrTimestamp, generateTimestampRule},
	{AbbrCreationDate, generateCreationDateRule},
}

// KnownAbbreviations returns the marker keywords in priority order
func KnownAbbreviations() []string {
	out := make([]string, len(ruleGenerators))
	for i, g := range ruleGenerators {
		out[i] = g.abbreviation
	}
	return out
}

func isKnownAbbreviation(abbr string) bool {
	for _, g := range ruleGenerators {
		if g.abbreviation == abbr {
			return true
		}
	}
	return false
}

// RuleFactory builds the ordered rule list for a template pair.
// Counter is the task-owned enumeration cell; Metadata serves creation dates.
type RuleFactory struct {
	Metadata MetadataReader
	Counter  *atomic.Int64
	Location *time.Location
}

func (f *RuleFactory) location() *time.Location {
	if f.Location == nil {
		return time.Local
	}
	return f.Location
}

// Build validates both templates and returns the applicable rules.
// Any error is a construction-time error fatal to the whole task.
func (f *RuleFactory) Build(input, output string) (*RuleSet, error) {
	inputMarkers, err := lexTemplate(input)
	if err != nil {
		return nil, err
	}
	outputMarkers, err := lexTemplate(output)
	if err != nil {
		return nil, err
	}

	var rules []Rule
	for _, g := range ruleGenerators {
		rule, ok, err := g.generate(f, input, output)
		if err != nil {
			return nil, err
		}
		if ok {
			rules = append(rules, rule)
		}
	}

	if err := checkClaimed(input, inputMarkers, rules, func(id RuleIdentity) Region { return id.Input }); err != nil {
		return nil, err
	}
	if err := checkClaimed(output, outputMarkers, rules, func(id RuleIdentity) Region { return id.Output }); err != nil {
		return nil, err
	}
	if err := checkOverlaps(input, rules); err != nil {
		return nil, err
	}

	return &RuleSet{input: input, output: output, rules: rules}, nil
}

// lexTemplate scans a template and rejects unknown, malformed, and duplicate markers.
func lexTemplate(template string) ([]Marker, error) {
	markers := ScanMarkers(template)
	seen := make(map[string]bool, len(markers))
	for _, m := range markers {
		if !isKnownAbbreviation(m.Abbreviation) {
			return nil, &TemplateError{Template: template, Marker: m.Raw, Reason: "unknown marker"}
		}
		if m.Malformed() {
			return nil, &TemplateError{Template: template, Marker: m.Raw, Reason: "separator without arguments"}
		}
		if seen[m.Abbreviation] {
			return nil, &TemplateError{Template: template, Marker: m.Raw, Reason: "marker appears more than once"}
		}
		seen[m.Abbreviation] = true
	}
	return markers, nil
}

// checkClaimed ensures every marker in template is owned by a rule.
// Unclaimed markers sit on the wrong side of the pair or lack a file suffix.
func checkClaimed(template string, markers []Marker, rules []Rule, side func(RuleIdentity) Region) error {
	for _, m := range markers {
		claimed := false
		for _, r := range rules {
			if side(r.Identity()) == m.Span {
				claimed = true
				break
			}
		}
		if !claimed {
			return &TemplateError{Template: template, Marker: m.Raw,
				Reason: "marker does not apply here (markers must precede a .suffix and appear in the template their rule reads)"}
		}
	}
	return nil
}

// checkOverlaps rejects any pair of rules claiming the same span
func checkOverlaps(template string, rules []Rule) error {
	for i := 0; i < len(rules); i++ {
		for j := i + 1; j < len(rules); j++ {
			if rules[i].Identity().Overlaps(rules[j].Identity()) {
				return &TemplateError{Template: template,
					Reason: fmt.Sprintf("rules %s and %s overlap (%s / %s)",
						rules[i].Abbreviation(), rules[j].Abbreviation(), rules[i].Identity(), rules[j].Identity())}
			}
		}
	}
	return nil
}

// RuleSet is the ordered list of rules for one template pair
type RuleSet struct {
	input  string
	output string
	rules  []Rule
}

// Rules returns the rules in priority order
func (s *RuleSet) Rules() []Rule {
	return s.rules
}

// Len returns the number of applicable rules
func (s *RuleSet) Len() int {
	return len(s.rules)
}

// InputTemplate returns the raw input template
func (s *RuleSet) InputTemplate() string { return s.input }

// OutputTemplate returns the raw output template
func (s *RuleSet) OutputTemplate() string { return s.output }

// SearchExpression folds every rule's SearchExpression over the input template.
// Literal template text keeps its regular expression meaning.
func (s *RuleSet) SearchExpression() string {
	pattern := s.input
	for _, r := range s.rules {
		pattern = r.SearchExpression(pattern)
	}
	return pattern
}

// CompileSearch compiles the search expression anchored to the whole file name
func (s *RuleSet) CompileSearch() (*regexp.Regexp, error) {
	expr := s.SearchExpression()
	re, err := regexp.Compile("^(?:" + expr + ")$")
	if err != nil {
		return nil, &TemplateError{Template: s.input, Reason: fmt.Sprintf("search expression %q does not compile: %v", expr, err)}
	}
	return re, nil
}

// Resolve computes every rule's value for one file, in priority order, and
// splices the values into the output template at the spans recorded when
// the rules were built. Inserted text is never scanned for markers.
func (s *RuleSet) Resolve(subject Subject) (string, error) {
	type splice struct {
		span  Region
		value string
	}
	splices := make([]splice, 0, len(s.rules))
	for _, r := range s.rules {
		v, err := r.Value(subject)
		if err != nil {
			return "", err
		}
		if span := r.Identity().Output; !span.IsEmpty() {
			splices = append(splices, splice{span: span, value: v})
		}
	}

	// right to left, so earlier spans keep their offsets
	sort.Slice(splices, func(i, j int) bool {
		return splices[i].span.From() > splices[j].span.From()
	})
	name := s.output
	for _, sp := range splices {
		name = replaceRegion(name, sp.span, sp.value)
	}
	return name, nil
}
