package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type dateField int

const (
	fieldLiteral dateField = iota
	fieldYear
	fieldMonth
	fieldDay
	fieldHour24
	fieldHour12
	fieldMinute
	fieldSecond
	fieldFraction
	fieldAmPm
	fieldWeekday
	fieldZone
)

var patternLetters = map[byte]dateField{
	'y': fieldYear,
	'u': fieldYear,
	'M': fieldMonth,
	'L': fieldMonth,
	'd': fieldDay,
	'H': fieldHour24,
	'h': fieldHour12,
	'm': fieldMinute,
	's': fieldSecond,
	'S': fieldFraction,
	'a': fieldAmPm,
	'E': fieldWeekday,
	'Z': fieldZone,
}

type dateToken struct {
	field dateField
	width int
	text  string
}

// DateFormat is a compiled date/time pattern using the letters
// yyyy yy MM MMM MMMM dd HH hh mm ss S.. a EEE EEEE Z and 'quoted' literals.
// Formatting and parsing work on the tokens directly, so literal text never
// collides with layout directives.
type DateFormat struct {
	pattern string
	tokens  []dateToken
	parser  *regexp.Regexp
}

// ISODateTimePattern is the default pattern for file creation dates
const ISODateTimePattern = "yyyy-MM-dd'T'HH:mm:ss"

// ParseDateFormat compiles pattern. Unknown pattern letters and unterminated
// quotes fail with a FormatError.
func ParseDateFormat(pattern string) (*DateFormat, error) {
	if strings.TrimSpace(pattern) == "" {
		return nil, &FormatError{Format: pattern, Reason: "date pattern is empty"}
	}

	var tokens []dateToken
	for i := 0; i < len(pattern); {
		c := pattern[i]
		switch {
		case c == '\'':
			lit, next, err := readQuoted(pattern, i)
			if err != nil {
				return nil, err
			}
			tokens = appendLiteral(tokens, lit)
			i = next
		case isASCIILetter(c):
			field, ok := patternLetters[c]
			if !ok {
				return nil, &FormatError{Format: pattern, Reason: fmt.Sprintf("unknown pattern letter: %c", c)}
			}
			j := i
			for j < len(pattern) && pattern[j] == c {
				j++
			}
			tokens = append(tokens, dateToken{field: field, width: j - i})
			i = j
		default:
			tokens = appendLiteral(tokens, string(c))
			i++
		}
	}

	f := &DateFormat{pattern: pattern, tokens: tokens}
	parser, err := regexp.Compile("^" + f.expression(true) + "$")
	if err != nil {
		return nil, &FormatError{Format: pattern, Reason: err.Error()}
	}
	f.parser = parser
	return f, nil
}

func readQuoted(pattern string, start int) (string, int, error) {
	// '' is an escaped single quote
	if start+1 < len(pattern) && pattern[start+1] == '\'' {
		return "'", start + 2, nil
	}
	var b strings.Builder
	for i := start + 1; i < len(pattern); i++ {
		if pattern[i] != '\'' {
			b.WriteByte(pattern[i])
			continue
		}
		if i+1 < len(pattern) && pattern[i+1] == '\'' {
			b.WriteByte('\'')
			i++
			continue
		}
		return b.String(), i + 1, nil
	}
	return "", 0, &FormatError{Format: pattern, Reason: "unterminated quoted literal"}
}

func appendLiteral(tokens []dateToken, s string) []dateToken {
	if n := len(tokens); n > 0 && tokens[n-1].field == fieldLiteral {
		tokens[n-1].text += s
		return tokens
	}
	return append(tokens, dateToken{field: fieldLiteral, text: s})
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// Pattern returns the source pattern
func (f *DateFormat) Pattern() string { return f.pattern }

// Expression returns a regular expression fragment matching text produced
// by this format, derived from the shape of each token.
func (f *DateFormat) Expression() string {
	return f.expression(false)
}

func (f *DateFormat) expression(capture bool) string {
	var b strings.Builder
	for _, tok := range f.tokens {
		frag := tok.expression()
		if capture && tok.field != fieldLiteral {
			frag = "(" + frag + ")"
		}
		b.WriteString(frag)
	}
	return b.String()
}

func (t dateToken) expression() string {
	switch t.field {
	case fieldLiteral:
		return regexp.QuoteMeta(t.text)
	case fieldYear:
		switch t.width {
		case 1:
			return `\d{1,9}`
		default:
			return fmt.Sprintf(`\d{%d}`, t.width)
		}
	case fieldMonth:
		switch {
		case t.width == 3:
			return `[A-Za-z]{3}`
		case t.width >= 4:
			return `[A-Za-z]+`
		}
		return numericExpression(t.width)
	case fieldDay, fieldHour24, fieldHour12, fieldMinute, fieldSecond:
		return numericExpression(t.width)
	case fieldFraction:
		return fmt.Sprintf(`\d{%d}`, t.width)
	case fieldAmPm:
		return `(?i:AM|PM)`
	case fieldWeekday:
		if t.width >= 4 {
			return `[A-Za-z]+`
		}
		return `[A-Za-z]{3}`
	case fieldZone:
		return `[+-]\d{4}`
	}
	return ""
}

func numericExpression(width int) string {
	if width == 1 {
		return `\d{1,2}`
	}
	return fmt.Sprintf(`\d{%d}`, width)
}

// Format renders t according to the pattern
func (f *DateFormat) Format(t time.Time) string {
	var b strings.Builder
	for _, tok := range f.tokens {
		b.WriteString(tok.format(t))
	}
	return b.String()
}

func (t dateToken) format(ts time.Time) string {
	switch t.field {
	case fieldLiteral:
		return t.text
	case fieldYear:
		if t.width == 2 {
			return pad(ts.Year()%100, 2)
		}
		return pad(ts.Year(), t.width)
	case fieldMonth:
		switch {
		case t.width == 3:
			return ts.Month().String()[:3]
		case t.width >= 4:
			return ts.Month().String()
		}
		return pad(int(ts.Month()), t.width)
	case fieldDay:
		return pad(ts.Day(), t.width)
	case fieldHour24:
		return pad(ts.Hour(), t.width)
	case fieldHour12:
		h := ts.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, t.width)
	case fieldMinute:
		return pad(ts.Minute(), t.width)
	case fieldSecond:
		return pad(ts.Second(), t.width)
	case fieldFraction:
		digits := fmt.Sprintf("%09d", ts.Nanosecond())
		if t.width <= len(digits) {
			return digits[:t.width]
		}
		return digits + strings.Repeat("0", t.width-len(digits))
	case fieldAmPm:
		if ts.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case fieldWeekday:
		if t.width >= 4 {
			return ts.Weekday().String()
		}
		return ts.Weekday().String()[:3]
	case fieldZone:
		return ts.Format("-0700")
	}
	return ""
}

func pad(v, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}

// Parse reads s, which must match the whole pattern, into a time in loc.
// Fields absent from the pattern default to their zero values
// (year 1, January, day 1, midnight).
func (f *DateFormat) Parse(s string, loc *time.Location) (time.Time, error) {
	groups := f.parser.FindStringSubmatch(s)
	if groups == nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match pattern %q", ErrDateParse, s, f.pattern)
	}

	year, month, day := 1, 1, 1
	var hour, minute, second, nsec int
	pm, hasAmPm, hour12 := false, false, false
	idx := 1
	for _, tok := range f.tokens {
		if tok.field == fieldLiteral {
			continue
		}
		v := groups[idx]
		idx++

		var err error
		switch tok.field {
		case fieldYear:
			year, err = strconv.Atoi(v)
			if tok.width == 2 {
				year += 2000
			}
		case fieldMonth:
			if tok.width >= 3 {
				month, err = monthFromName(v)
			} else {
				month, err = strconv.Atoi(v)
			}
		case fieldDay:
			day, err = strconv.Atoi(v)
		case fieldHour24:
			hour, err = strconv.Atoi(v)
		case fieldHour12:
			hour, err = strconv.Atoi(v)
			hour12 = true
		case fieldMinute:
			minute, err = strconv.Atoi(v)
		case fieldSecond:
			second, err = strconv.Atoi(v)
		case fieldFraction:
			digits := v
			if len(digits) > 9 {
				digits = digits[:9]
			}
			nsec, err = strconv.Atoi(digits + strings.Repeat("0", 9-len(digits)))
		case fieldAmPm:
			hasAmPm = true
			pm = strings.EqualFold(v, "PM")
		case fieldZone:
			var zt time.Time
			zt, err = time.Parse("-0700", v)
			if err == nil {
				loc = zt.Location()
			}
		}
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q: %v", ErrDateParse, s, err)
		}
	}

	if hour12 {
		if hour < 1 || hour > 12 {
			return time.Time{}, fmt.Errorf("%w: %q: hour %d out of range", ErrDateParse, s, hour)
		}
		hour %= 12
		if hasAmPm && pm {
			hour += 12
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, fmt.Errorf("%w: %q: field out of range", ErrDateParse, s)
	}

	t := time.Date(year, time.Month(month), day, hour, minute, second, nsec, loc)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("%w: %q: day %d does not exist in %s %d", ErrDateParse, s, day, time.Month(month), year)
	}
	return t, nil
}

func monthFromName(name string) (int, error) {
	for m := time.January; m <= time.December; m++ {
		full := m.String()
		if strings.EqualFold(name, full) || strings.EqualFold(name, full[:3]) {
			return int(m), nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", name)
}
