package xword

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hspan(y, x0, x1 int) Span {
	return Span{Start: Position{x0, y}, End: Position{x1, y}}
}

func vspan(x, y0, y1 int) Span {
	return Span{Start: Position{x, y0}, End: Position{x, y1}}
}

func entries(c *Crossword, o Orientation) map[Span]string {
	out := make(map[Span]string)
	for s, w := range c.Entries(o) {
		out[s] = w.Text()
	}
	return out
}

func TestNewBoard(t *testing.T) {
	c, err := New(4, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, c.WordCount(Horizontal))
	assert.Equal(t, 4, c.WordCount(Vertical))

	var got []Span
	for s, w := range c.Entries(Horizontal) {
		got = append(got, s)
		assert.Equal(t, 4, w.Len())
		assert.Empty(t, w.Clue)
	}
	assert.Equal(t, []Span{hspan(0, 0, 3), hspan(1, 0, 3), hspan(2, 0, 3)}, got)
	require.NoError(t, c.Check())

	_, err = New(0, 3)
	assert.ErrorIs(t, err, ErrInvalidDimensions)
}

func TestSplitOnBlock(t *testing.T) {
	c, err := FromRows([]string{"HELLO"})
	require.NoError(t, err)

	require.NoError(t, c.Mutate(Position{2, 0}, Blocked))

	assert.Equal(t, map[Span]string{
		hspan(0, 0, 1): "HE",
		hspan(0, 3, 4): "LO",
	}, entries(c, Horizontal))
	_, ok := c.Word(hspan(0, 0, 4), Horizontal)
	assert.False(t, ok, "the original span must be gone")

	_, ok = c.Word(vspan(2, 0, 0), Vertical)
	assert.False(t, ok, "a blocked cell belongs to no vertical word")
	assert.Equal(t, 4, c.WordCount(Vertical))
	require.NoError(t, c.Check())
}

func TestMergeOnUnblock(t *testing.T) {
	c, err := FromRows([]string{"HELLO"})
	require.NoError(t, err)
	require.NoError(t, c.Mutate(Position{2, 0}, Blocked))

	require.NoError(t, c.Mutate(Position{2, 0}, O))

	assert.Equal(t, map[Span]string{hspan(0, 0, 4): "HEOLO"}, entries(c, Horizontal))
	w, ok := c.Word(vspan(2, 0, 0), Vertical)
	require.True(t, ok)
	assert.Equal(t, "O", w.Text())
	require.NoError(t, c.Check())
}

func TestBlockUnblockRoundTrip(t *testing.T) {
	c, err := FromRows([]string{
		"CAT",
		"ORE",
		"WET",
	})
	require.NoError(t, err)
	require.NoError(t, c.SetClue(hspan(1, 0, 2), Horizontal, "Mined rock"))
	require.NoError(t, c.SetClue(vspan(1, 0, 2), Vertical, "Possess"))

	require.NoError(t, c.Mutate(Position{1, 1}, Blocked))

	// Both halves inherit the clue.
	for _, s := range []Span{hspan(1, 0, 0), hspan(1, 2, 2)} {
		w, ok := c.Word(s, Horizontal)
		require.True(t, ok, "span %v", s)
		assert.Equal(t, "Mined rock", w.Clue)
	}
	for _, s := range []Span{vspan(1, 0, 0), vspan(1, 2, 2)} {
		w, ok := c.Word(s, Vertical)
		require.True(t, ok, "span %v", s)
		assert.Equal(t, "Possess", w.Clue)
	}

	require.NoError(t, c.Mutate(Position{1, 1}, R))

	w, ok := c.Word(hspan(1, 0, 2), Horizontal)
	require.True(t, ok)
	assert.Equal(t, []Value{O, R, E}, w.Values)
	assert.Empty(t, w.Clue, "merging discards clues by default")

	w, ok = c.Word(vspan(1, 0, 2), Vertical)
	require.True(t, ok)
	assert.Equal(t, "ARE", w.Text())
	assert.Empty(t, w.Clue)
	require.NoError(t, c.Check())
}

func TestSingleLengthRun(t *testing.T) {
	c, err := New(3, 1)
	require.NoError(t, err)
	require.NoError(t, c.Mutate(Position{1, 0}, Blocked))
	require.NoError(t, c.Mutate(Position{0, 0}, Blocked))

	assert.Equal(t, map[Span]string{hspan(0, 2, 2): " "}, entries(c, Horizontal))
	assert.Equal(t, map[Span]string{vspan(2, 0, 0): " "}, entries(c, Vertical))
	require.NoError(t, c.Check())

	c, err = New(1, 1)
	require.NoError(t, err)
	require.NoError(t, c.Mutate(Position{0, 0}, Blocked))
	assert.Equal(t, 0, c.WordCount(Horizontal))
	assert.Equal(t, 0, c.WordCount(Vertical))
}

func TestMergeCluePolicies(t *testing.T) {
	setup := func(t *testing.T, p CluePolicy) *Crossword {
		c, err := FromRows([]string{"AB#CDE"}, WithMergeCluePolicy(p))
		require.NoError(t, err)
		require.NoError(t, c.SetClue(hspan(0, 0, 1), Horizontal, "left"))
		require.NoError(t, c.SetClue(hspan(0, 3, 5), Horizontal, "right"))
		require.NoError(t, c.Mutate(Position{2, 0}, X))
		return c
	}

	tests := []struct {
		policy CluePolicy
		want   string
	}{
		{ClueDiscard, ""},
		{ClueKeepLonger, "right"},
		{ClueConcatenate, "left / right"},
	}
	for _, tt := range tests {
		c := setup(t, tt.policy)
		w, ok := c.Word(hspan(0, 0, 5), Horizontal)
		require.True(t, ok)
		assert.Equal(t, "ABXCDE", w.Text())
		assert.Equal(t, tt.want, w.Clue, "policy %d", tt.policy)
	}
}

func TestOverwriteKeepsSpanAndClue(t *testing.T) {
	c, err := New(3, 3)
	require.NoError(t, err)
	require.NoError(t, c.SetClue(hspan(1, 0, 2), Horizontal, "Middle row"))

	require.NoError(t, c.Mutate(Position{1, 1}, Q))
	require.NoError(t, c.Mutate(Position{1, 1}, Q))

	ref, ok, err := c.HorizontalWordAt(Position{1, 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, hspan(1, 0, 2), ref.Span)
	assert.Equal(t, 1, ref.Index)
	assert.Equal(t, " Q ", ref.Word.Text())
	assert.Equal(t, "Middle row", ref.Word.Clue)

	ref, ok, err = c.VerticalWordAt(Position{1, 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, vspan(1, 0, 2), ref.Span)
	assert.Equal(t, 1, ref.Index)

	// Returned words are copies.
	ref.Word.Values[1] = Z
	cell, err := c.CellAt(Position{1, 1})
	require.NoError(t, err)
	assert.Equal(t, Q, cell.Value)
	require.NoError(t, c.Check())
}

func TestWordAtBlocked(t *testing.T) {
	c, err := FromRows([]string{"A#B"})
	require.NoError(t, err)
	_, ok, err := c.HorizontalWordAt(Position{1, 0})
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = c.VerticalWordAt(Position{1, 0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOutOfBounds(t *testing.T) {
	c, err := New(5, 2)
	require.NoError(t, err)

	_, err = c.CellAt(Position{5, 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.ErrorIs(t, c.Mutate(Position{5, 0}, A), ErrOutOfBounds)
	_, _, err = c.HorizontalWordAt(Position{0, 2})
	assert.ErrorIs(t, err, ErrOutOfBounds)
}

func TestInvalidTransitions(t *testing.T) {
	c, err := New(2, 2)
	require.NoError(t, err)
	require.NoError(t, c.Mutate(Position{0, 0}, Blocked))
	assert.ErrorIs(t, c.Mutate(Position{0, 0}, Blocked), ErrInvalidTransition)
	assert.ErrorIs(t, c.Mutate(Position{1, 1}, Value(42)), ErrInvalidValue)
	require.NoError(t, c.Check())
}

func TestSetClueNotFound(t *testing.T) {
	c, err := New(3, 3)
	require.NoError(t, err)
	assert.ErrorIs(t, c.SetClue(hspan(0, 0, 1), Horizontal, "too short"), ErrNotFound)
	assert.ErrorIs(t, c.SetClue(hspan(0, 0, 2), Vertical, "wrong index"), ErrNotFound)
	require.NoError(t, c.SetClue(vspan(2, 0, 2), Vertical, "Last column"))
}

func TestInvariantViolationLeavesBoardUntouched(t *testing.T) {
	c, err := New(3, 3)
	require.NoError(t, err)
	require.True(t, c.indexes[Vertical].Delete(vspan(1, 0, 2)))

	_, _, err = c.VerticalWordAt(Position{1, 1})
	assert.ErrorIs(t, err, ErrInvariantViolation)

	assert.ErrorIs(t, c.Mutate(Position{1, 1}, Blocked), ErrInvariantViolation)
	assert.Equal(t, 3, c.WordCount(Horizontal), "horizontal split must not run")
	cell, err := c.CellAt(Position{1, 1})
	require.NoError(t, err)
	assert.Equal(t, Blank, cell.Value)

	assert.ErrorIs(t, c.Mutate(Position{1, 1}, S), ErrInvariantViolation)
	w, ok := c.Word(hspan(1, 0, 2), Horizontal)
	require.True(t, ok)
	assert.Equal(t, "   ", w.Text())

	assert.ErrorIs(t, c.Check(), ErrInvariantViolation)
}

func TestFillWord(t *testing.T) {
	c, err := FromRows([]string{
		"#  ",
		"   ",
		"   ",
	})
	require.NoError(t, err)

	require.NoError(t, c.FillWord(hspan(0, 1, 2), Horizontal, "oé"))
	require.NoError(t, c.FillWord(vspan(0, 1, 2), Vertical, "T?"))

	assert.Equal(t, "OE", entries(c, Horizontal)[hspan(0, 1, 2)])
	assert.Equal(t, "T ", entries(c, Vertical)[vspan(0, 1, 2)])
	assert.Equal(t, "O  ", entries(c, Vertical)[vspan(1, 0, 2)])

	assert.ErrorIs(t, c.FillWord(hspan(0, 1, 2), Horizontal, "ABC"), ErrInvalidValue)
	assert.ErrorIs(t, c.FillWord(hspan(1, 0, 2), Horizontal, "A1C"), ErrInvalidValue)
	assert.ErrorIs(t, c.FillWord(hspan(0, 0, 2), Horizontal, "ABC"), ErrNotFound)
	assert.Equal(t, "T  ", entries(c, Horizontal)[hspan(1, 0, 2)], "failed fills write nothing")
	assert.Equal(t, "   ", entries(c, Horizontal)[hspan(2, 0, 2)])
	require.NoError(t, c.Check())
}

func TestRandomMutationsKeepInvariants(t *testing.T) {
	const width, height = 7, 6
	rng := rand.New(rand.NewPCG(1, 2))

	c, err := New(width, height)
	require.NoError(t, err)
	want := make([][]Value, height)
	for y := range want {
		want[y] = make([]Value, width)
	}

	for step := range 2000 {
		p := Position{rng.IntN(width), rng.IntN(height)}
		// Bias toward blocks so splits and merges happen often.
		v := Value(rng.IntN(int(Z)+2) - 1)
		if rng.IntN(3) == 0 {
			v = Blocked
		}

		err := c.Mutate(p, v)
		if want[p.Y][p.X].IsBlocked() && v.IsBlocked() {
			require.ErrorIs(t, err, ErrInvalidTransition, "step %d", step)
			continue
		}
		require.NoError(t, err, "step %d: %v <- %v", step, p, v)
		want[p.Y][p.X] = v
		require.NoError(t, c.Check(), "step %d: %v <- %v\n%s", step, p, v, c.Dump())
	}
	assert.Equal(t, want, c.Cells())
}
