package domain

import "fmt"

// Region is an immutable half-open interval [From, To) over a string.
type Region struct {
	from int
	to   int
}

// NewRegion creates a Region, rejecting negative offsets and inverted bounds.
func NewRegion(from, to int) (Region, error) {
	if from < 0 || to < 0 {
		return Region{}, fmt.Errorf("%w: offset values must not be < 0", ErrInvalidArgument)
	}
	if to < from {
		return Region{}, fmt.Errorf("%w: ending offset (%d) is smaller than starting offset (%d)",
			ErrInvalidArgument, to, from)
	}
	return Region{from: from, to: to}, nil
}

// EmptyRegion is the zero-length region used when a rule does not anchor to a template.
var EmptyRegion = Region{}

// From returns the inclusive start offset
func (r Region) From() int { return r.from }

// To returns the exclusive end offset
func (r Region) To() int { return r.to }

// Len returns the number of bytes covered by the region
func (r Region) Len() int { return r.to - r.from }

// IsEmpty reports whether the region has zero length
func (r Region) IsEmpty() bool { return r.Len() == 0 }

// Overlaps reports whether both regions are non-empty and intersect.
// Touching regions (r.To == other.From) do not overlap.
func (r Region) Overlaps(other Region) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return false
	}
	return r.from < other.to && other.from < r.to
}

func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)", r.from, r.to)
}
