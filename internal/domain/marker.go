package domain

import "strings"

const (
	markerOpen      = "<<"
	markerClose     = ">>"
	markerSeparator = '|'
)

// Marker is one <<ABBR>> or <<ABBR|ARGUMENTS>> token located in a template.
type Marker struct {
	Abbreviation string
	Arguments    string
	// HasSeparator is true when the marker contains "|", even if no arguments follow it.
	HasSeparator bool
	Span         Region
	Raw          string
}

// Malformed reports whether the marker has a separator but no arguments (e.g. <<CD|>>).
func (m Marker) Malformed() bool {
	return m.HasSeparator && m.Arguments == ""
}

// ScanMarkers lexes every marker-shaped token in template in a single pass.
// Text that does not follow the grammar is treated as literal and skipped.
//
//	marker       := "<<" abbreviation ["|" arguments] ">>"
//	abbreviation := [A-Z]+
//	arguments    := any text not containing ">>"
func ScanMarkers(template string) []Marker {
	var markers []Marker
	i := 0
	for i < len(template) {
		start := strings.Index(template[i:], markerOpen)
		if start < 0 {
			break
		}
		start += i
		m, end, ok := scanMarkerAt(template, start)
		if !ok {
			i = start + 1
			continue
		}
		markers = append(markers, m)
		i = end
	}
	return markers
}

// scanMarkerAt tries to read a marker beginning at offset start, which must
// point at "<<". It returns the marker and the offset just past it.
func scanMarkerAt(template string, start int) (Marker, int, bool) {
	j := start + len(markerOpen)
	abbrStart := j
	for j < len(template) && template[j] >= 'A' && template[j] <= 'Z' {
		j++
	}
	if j == abbrStart || j >= len(template) {
		return Marker{}, 0, false
	}
	abbr := template[abbrStart:j]

	var (
		args         string
		hasSeparator bool
		end          int
	)
	switch {
	case strings.HasPrefix(template[j:], markerClose):
		end = j + len(markerClose)
	case template[j] == markerSeparator:
		closeAt := strings.Index(template[j+1:], markerClose)
		if closeAt < 0 {
			return Marker{}, 0, false
		}
		hasSeparator = true
		args = template[j+1 : j+1+closeAt]
		end = j + 1 + closeAt + len(markerClose)
	default:
		return Marker{}, 0, false
	}

	return Marker{
		Abbreviation: abbr,
		Arguments:    args,
		HasSeparator: hasSeparator,
		Span:         Region{from: start, to: end},
		Raw:          template[start:end],
	}, end, true
}

// TemplateMatch is the result of locating one rule's marker inside a filename
// template shaped as leading + marker + trailing + "." + suffix.
type TemplateMatch struct {
	Leading   string
	Trailing  string
	Suffix    string
	Rule      Region
	Arguments string
	Raw       string
}

// FindMarker locates the first well-formed marker for abbreviation that is
// followed by a file suffix. The second return value is false when the rule
// is not present, which is not an error.
func FindMarker(template, abbreviation string) (TemplateMatch, bool) {
	for _, m := range ScanMarkers(template) {
		if m.Abbreviation != abbreviation || m.Malformed() {
			continue
		}
		rest := template[m.Span.To():]
		trailing, suffix, ok := splitSuffix(rest)
		if !ok {
			continue
		}
		return TemplateMatch{
			Leading:   template[:m.Span.From()],
			Trailing:  trailing,
			Suffix:    suffix,
			Rule:      m.Span,
			Arguments: m.Arguments,
			Raw:       m.Raw,
		}, true
	}
	return TemplateMatch{}, false
}

// splitSuffix splits s at the first "." that is followed by a non-empty suffix.
func splitSuffix(s string) (trailing, suffix string, ok bool) {
	for i := 0; i < len(s)-1; i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return "", "", false
}

// replaceRegion returns s with the bytes covered by r replaced by replacement.
func replaceRegion(s string, r Region, replacement string) string {
	return s[:r.From()] + replacement + s[r.To():]
}
