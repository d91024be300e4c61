package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// Rule is one placeholder transformation bound to a template pair.
//
// SearchExpression rewrites the rule's marker in an input template into a
// regular expression fragment; rules that only touch the output template
// return the pattern unchanged. Value computes the text the rule writes into
// its output span for the given file.
//
// Value may be called concurrently for different files.
type Rule interface {
	Abbreviation() string
	Identity() RuleIdentity
	SearchExpression(pattern string) string
	Value(subject Subject) (string, error)
	String() string
}

// Subject is the file a rule is applied to, together with the named groups
// captured when its name matched the task's search expression.
type Subject struct {
	Path     string
	captures map[string]string
}

// NewSubject matches the base name of path against search and records its
// named groups. A nil search expression yields a subject without captures.
func NewSubject(path string, search *regexp.Regexp) Subject {
	s := Subject{Path: path}
	if search == nil {
		return s
	}
	groups := search.FindStringSubmatch(filepath.Base(path))
	if groups == nil {
		return s
	}
	s.captures = make(map[string]string)
	for i, name := range search.SubexpNames() {
		if name != "" && i < len(groups) {
			s.captures[name] = groups[i]
		}
	}
	return s
}

// Name returns the base file name
func (s Subject) Name() string {
	return filepath.Base(s.Path)
}

// Capture returns the text captured by the named group
func (s Subject) Capture(group string) (string, bool) {
	v, ok := s.captures[group]
	return v, ok
}

// captureOrMatch returns the named group from the subject's captures, falling
// back to matching the rule's own fragment against the file name.
func captureOrMatch(s Subject, group string, own *regexp.Regexp) (string, error) {
	if v, ok := s.Capture(group); ok {
		return v, nil
	}
	if own != nil {
		if m := own.FindStringSubmatch(s.Name()); m != nil {
			if i := own.SubexpIndex(group); i >= 0 {
				return m[i], nil
			}
		}
	}
	return "", fmt.Errorf("%w: group %s not found in %q", ErrNoMatch, group, s.Name())
}

// namedGroup wraps expression in a named capture group
func namedGroup(name, expression string) string {
	return fmt.Sprintf("(?P<%s>%s)", name, expression)
}

// substitute replaces the first well-formed marker for abbreviation in
// pattern with value. Patterns without the marker are returned unchanged.
func substitute(pattern, abbreviation, value string) string {
	m, ok := FindMarker(pattern, abbreviation)
	if !ok {
		return pattern
	}
	return replaceRegion(pattern, m.Rule, value)
}

// markerRegion returns the span of abbreviation's marker, or EmptyRegion
func markerRegion(template, abbreviation string) (TemplateMatch, Region, bool) {
	m, ok := FindMarker(template, abbreviation)
	if !ok {
		return TemplateMatch{}, EmptyRegion, false
	}
	return m, m.Rule, true
}
