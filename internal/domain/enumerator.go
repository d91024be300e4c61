package domain

import (
	"fmt"
	"strings"
)

// FileEnumerator derives alternative names for a filename in conflict by
// replacing the separator before the suffix with "-N." on every call.
// An instance belongs to a single job and is not safe for concurrent use.
type FileEnumerator struct {
	filename string
	dot      Region
	next     int
}

// NewFileEnumerator creates an enumerator for filename, which must be
// non-blank and have the shape name "." suffix.
func NewFileEnumerator(filename string) (*FileEnumerator, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is blank", ErrInvalidArgument)
	}
	dot := suffixSeparator(filename)
	if dot < 0 {
		return nil, fmt.Errorf("%w: filename %q has no suffix separator", ErrInvalidArgument, filename)
	}
	return &FileEnumerator{
		filename: filename,
		dot:      Region{from: dot, to: dot + 1},
		next:     1,
	}, nil
}

// suffixSeparator returns the offset of the last "." that has text on both sides.
func suffixSeparator(filename string) int {
	for i := len(filename) - 2; i >= 1; i-- {
		if filename[i] == '.' {
			return i
		}
	}
	return -1
}

// Next returns the next candidate name: foo-1.bar, foo-2.bar, ...
func (e *FileEnumerator) Next() string {
	name := replaceRegion(e.filename, e.dot, fmt.Sprintf("-%d.", e.next))
	e.next++
	return name
}

// Filename returns the name the enumerator was created for
func (e *FileEnumerator) Filename() string {
	return e.filename
}
