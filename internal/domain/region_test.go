package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRegion(t *testing.T, from, to int) Region {
	t.Helper()
	r, err := NewRegion(from, to)
	require.NoError(t, err)
	return r
}

func TestNewRegion_RejectsInvalidBounds(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
	}{
		{"negative end", 0, -1},
		{"negative start", -1, 0},
		{"both negative", -1, -1},
		{"inverted", 4, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegion(tt.from, tt.to)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
		})
	}
}

func TestRegion_Overlaps(t *testing.T) {
	tests := []struct {
		name       string
		a, b       [2]int
		overlapped bool
	}{
		{"this starts before other", [2]int{1, 3}, [2]int{2, 4}, true},
		{"other starts before this", [2]int{2, 4}, [2]int{1, 3}, true},
		{"this contains other", [2]int{1, 4}, [2]int{2, 3}, true},
		{"other contains this", [2]int{2, 3}, [2]int{1, 4}, true},
		{"identical", [2]int{1, 3}, [2]int{1, 3}, true},
		{"touching", [2]int{1, 3}, [2]int{3, 5}, false},
		{"disjoint", [2]int{1, 2}, [2]int{5, 6}, false},
		{"zero length inside", [2]int{2, 2}, [2]int{1, 4}, false},
		{"both zero length", [2]int{0, 0}, [2]int{0, 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustRegion(t, tt.a[0], tt.a[1])
			b := mustRegion(t, tt.b[0], tt.b[1])
			assert.Equal(t, tt.overlapped, a.Overlaps(b))
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestRegion_ZeroLengthNeverOverlapsItself(t *testing.T) {
	for i := 0; i < 5; i++ {
		r := mustRegion(t, i, i)
		assert.False(t, r.Overlaps(r))
		assert.True(t, r.IsEmpty())
	}
}

func TestRegion_Len(t *testing.T) {
	r := mustRegion(t, 3, 10)
	assert.Equal(t, 7, r.Len())
	assert.Equal(t, "[3,10)", r.String())
}

func TestNewRuleIdentity_RejectsDoubleEmpty(t *testing.T) {
	_, err := NewRuleIdentity(EmptyRegion, EmptyRegion)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))

	_, err = NewRuleIdentity(EmptyRegion, mustRegion(t, 1, 2))
	assert.NoError(t, err)
}

func TestRuleIdentity_Overlaps(t *testing.T) {
	tests := []struct {
		name       string
		a, b       RuleIdentity
		overlapped bool
	}{
		{
			name:       "input overlap",
			a:          RuleIdentity{Input: Region{1, 3}, Output: Region{1, 2}},
			b:          RuleIdentity{Input: Region{2, 4}, Output: Region{3, 4}},
			overlapped: true,
		},
		{
			name:       "output overlap",
			a:          RuleIdentity{Input: Region{1, 2}, Output: Region{1, 3}},
			b:          RuleIdentity{Input: Region{3, 4}, Output: Region{2, 4}},
			overlapped: true,
		},
		{
			name:       "no overlap",
			a:          RuleIdentity{Input: Region{1, 2}, Output: Region{1, 2}},
			b:          RuleIdentity{Input: Region{2, 4}, Output: Region{2, 4}},
			overlapped: false,
		},
		{
			name:       "output-only rules on distinct spans",
			a:          RuleIdentity{Output: Region{0, 5}},
			b:          RuleIdentity{Output: Region{5, 10}},
			overlapped: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlapped, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.overlapped, tt.b.Overlaps(tt.a))
		})
	}
}
