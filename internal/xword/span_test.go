package xword

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanKeyRoundTrip(t *testing.T) {
	spans := []Span{
		{Start: Position{0, 0}, End: Position{0, 0}},
		{Start: Position{0, 0}, End: Position{14, 0}},
		{Start: Position{3, 7}, End: Position{3, 12}},
		{Start: Position{MaxDimension - 1, 0}, End: Position{MaxDimension - 1, MaxDimension - 1}},
		{Start: Position{0, MaxDimension - 1}, End: Position{MaxDimension - 1, MaxDimension - 1}},
	}
	for _, s := range spans {
		k, err := s.Key()
		require.NoError(t, err)
		assert.Equal(t, s, k.Span(), "round trip of %v", s)
	}
}

func TestSpanKeyOutOfRange(t *testing.T) {
	for _, s := range []Span{
		{Start: Position{MaxDimension, 0}, End: Position{MaxDimension, 0}},
		{Start: Position{0, 0}, End: Position{0, MaxDimension}},
		{Start: Position{-1, 0}, End: Position{2, 0}},
	} {
		_, err := s.Key()
		assert.ErrorIs(t, err, ErrCoordinateOutOfRange, "span %v", s)
	}
}

func TestSpanKeyReadingOrder(t *testing.T) {
	// Listed in reading order of their start cells.
	want := []Span{
		{Start: Position{2, 0}, End: Position{4, 0}},
		{Start: Position{6, 0}, End: Position{7, 0}},
		{Start: Position{0, 1}, End: Position{4, 1}},
		{Start: Position{1, 3}, End: Position{1, 3}},
		{Start: Position{5, 3}, End: Position{9, 3}},
	}
	got := slices.Clone(want)
	slices.Reverse(got)
	slices.SortFunc(got, CompareSpans)
	assert.Equal(t, want, got)

	for i := 1; i < len(want); i++ {
		a, err := want[i-1].Key()
		require.NoError(t, err)
		b, err := want[i].Key()
		require.NoError(t, err)
		assert.Less(t, a, b, "%v should sort before %v", want[i-1], want[i])
	}
}

func TestNewSpan(t *testing.T) {
	s, err := NewSpan(Position{1, 2}, Position{4, 2})
	require.NoError(t, err)
	assert.Equal(t, 4, s.Len())
	assert.True(t, s.Contains(Position{3, 2}))
	assert.False(t, s.Contains(Position{3, 3}))
	assert.Equal(t, []Position{{1, 2}, {2, 2}, {3, 2}, {4, 2}}, s.Positions())

	s, err = NewSpan(Position{0, 1}, Position{0, 3})
	require.NoError(t, err)
	assert.Equal(t, []Position{{0, 1}, {0, 2}, {0, 3}}, s.Positions())

	_, err = NewSpan(Position{0, 0}, Position{1, 1})
	assert.ErrorIs(t, err, ErrSpanMismatch)

	_, err = NewSpan(Position{3, 0}, Position{1, 0})
	assert.ErrorIs(t, err, ErrSpanMismatch)
}
