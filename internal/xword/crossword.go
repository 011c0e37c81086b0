package xword

import (
	"fmt"
	"iter"
	"slices"
	"strings"
)

// CluePolicy decides which clue a word keeps when unblocking a cell merges
// it with its neighbors.
type CluePolicy int

const (
	// ClueDiscard gives the merged word an empty clue.
	ClueDiscard CluePolicy = iota
	// ClueKeepLonger keeps the clue of the longer absorbed word.
	ClueKeepLonger
	// ClueConcatenate joins the non-empty clues of the absorbed words.
	ClueConcatenate
)

// ClueSeparator joins clues under ClueConcatenate.
const ClueSeparator = " / "

// Option configures a Crossword.
type Option func(*Crossword)

// WithMergeCluePolicy sets how clues survive a merge. The default is ClueDiscard.
func WithMergeCluePolicy(p CluePolicy) Option {
	return func(c *Crossword) { c.mergeClues = p }
}

// Crossword is a grid together with its horizontal and vertical word indexes.
type Crossword struct {
	grid       *Grid
	indexes    [2]*WordIndex
	mergeClues CluePolicy
}

// New returns a blank width x height board where every row is one
// horizontal word and every column is one vertical word, all without clues.
func New(width, height int, opts ...Option) (*Crossword, error) {
	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	c := &Crossword{
		grid:    grid,
		indexes: [2]*WordIndex{NewWordIndex(Horizontal), NewWordIndex(Vertical)},
	}
	for _, opt := range opts {
		opt(c)
	}
	for y := range height {
		c.indexes[Horizontal].Set(
			Span{Start: Position{X: 0, Y: y}, End: Position{X: width - 1, Y: y}},
			&Word{Values: make([]Value, width)},
		)
	}
	for x := range width {
		c.indexes[Vertical].Set(
			Span{Start: Position{X: x, Y: 0}, End: Position{X: x, Y: height - 1}},
			&Word{Values: make([]Value, height)},
		)
	}
	return c, nil
}

// FromRows builds a board from one string per row, each rune parsed with
// ParseValue ('#' blocks a cell, ' ' leaves it blank). Rows must share a length.
func FromRows(rows []string, opts ...Option) (*Crossword, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	width := len([]rune(rows[0]))
	c, err := New(width, len(rows), opts...)
	if err != nil {
		return nil, err
	}
	for y, row := range rows {
		rs := []rune(row)
		if len(rs) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidDimensions, y, len(rs), width)
		}
		for x, r := range rs {
			v, err := ParseValue(string(r))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", y, err)
			}
			if v == Blank {
				continue
			}
			if err := c.Mutate(Position{X: x, Y: y}, v); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

func (c *Crossword) Width() int  { return c.grid.Width() }
func (c *Crossword) Height() int { return c.grid.Height() }

// CellAt returns the cell at p.
func (c *Crossword) CellAt(p Position) (Cell, error) {
	return c.grid.Get(p)
}

// Cells returns a copy of the board contents, indexed [y][x].
func (c *Crossword) Cells() [][]Value {
	rows := make([][]Value, c.grid.height)
	for y := range rows {
		rows[y] = slices.Clone(c.grid.cells[y*c.grid.width : (y+1)*c.grid.width])
	}
	return rows
}

// WordRef locates a word and the offset of one of its cells.
type WordRef struct {
	Span  Span `json:"span"`
	Index int  `json:"index"`
	Word  Word `json:"word"`
}

// located is the live counterpart of WordRef used during mutation.
type located struct {
	span  Span
	index int
	word  *Word
}

// locate finds the word along o through the non-blocked cell p.
func (c *Crossword) locate(p Position, o Orientation) (located, error) {
	span, index := c.grid.walk(p, o)
	w, ok := c.indexes[o].Get(span)
	if !ok {
		return located{}, fmt.Errorf("%w: no %s word for %v through %v", ErrInvariantViolation, o, span, p)
	}
	return located{span: span, index: index, word: w}, nil
}

// WordAt returns the word along o through p. The second result is false
// when p is blocked.
func (c *Crossword) WordAt(p Position, o Orientation) (WordRef, bool, error) {
	cell, err := c.grid.Get(p)
	if err != nil {
		return WordRef{}, false, err
	}
	if cell.Value.IsBlocked() {
		return WordRef{}, false, nil
	}
	l, err := c.locate(p, o)
	if err != nil {
		return WordRef{}, false, err
	}
	return WordRef{Span: l.span, Index: l.index, Word: l.word.clone()}, true, nil
}

// HorizontalWordAt is WordAt(p, Horizontal).
func (c *Crossword) HorizontalWordAt(p Position) (WordRef, bool, error) {
	return c.WordAt(p, Horizontal)
}

// VerticalWordAt is WordAt(p, Vertical).
func (c *Crossword) VerticalWordAt(p Position) (WordRef, bool, error) {
	return c.WordAt(p, Vertical)
}

// Word returns a copy of the word at s in o.
func (c *Crossword) Word(s Span, o Orientation) (Word, bool) {
	w, ok := c.indexes[o].Get(s)
	if !ok {
		return Word{}, false
	}
	return w.clone(), true
}

// WordCount returns the number of words in o.
func (c *Crossword) WordCount(o Orientation) int {
	return c.indexes[o].Len()
}

// Entries yields the words of o in reading order. Words are copies.
func (c *Crossword) Entries(o Orientation) iter.Seq2[Span, Word] {
	return func(yield func(Span, Word) bool) {
		for s, w := range c.indexes[o].Entries() {
			if !yield(s, w.clone()) {
				return
			}
		}
	}
}

// SetClue replaces the clue of the word at s in o.
func (c *Crossword) SetClue(s Span, o Orientation, clue string) error {
	if o != Horizontal && o != Vertical {
		return fmt.Errorf("%w: unknown %v", ErrNotFound, o)
	}
	return c.indexes[o].SetClue(s, clue)
}

// Mutate sets the cell at p to v and updates both word indexes:
// blocking a cell splits the words through it, unblocking merges the
// words on either side, and any other change rewrites one letter in place.
// Blocking an already blocked cell fails with ErrInvalidTransition.
// Nothing is written unless the whole transition can be applied.
func (c *Crossword) Mutate(p Position, v Value) error {
	if err := c.grid.checkBounds(p); err != nil {
		return err
	}
	if v < Blocked || v > Z {
		return fmt.Errorf("%w: %d", ErrInvalidValue, int(v))
	}
	old := c.grid.value(p)
	switch {
	case !old.IsBlocked() && v.IsBlocked():
		return c.block(p)
	case old.IsBlocked() && !v.IsBlocked():
		return c.unblock(p, v)
	case old.IsBlocked():
		return fmt.Errorf("%w: %v is already blocked", ErrInvalidTransition, p)
	default:
		return c.overwrite(p, v)
	}
}

func (c *Crossword) block(p Position) error {
	var found [2]located
	for _, o := range Orientations {
		l, err := c.locate(p, o)
		if err != nil {
			return err
		}
		found[o] = l
	}
	for _, o := range Orientations {
		c.split(p, o, found[o])
	}
	c.grid.SetValue(p, Blocked)
	return nil
}

// split replaces the word l by the parts before and after p. Both parts
// inherit the clue; an empty part produces no word.
func (c *Crossword) split(p Position, o Orientation, l located) {
	ix := c.indexes[o]
	ix.Delete(l.span)
	if l.index > 0 {
		ix.Set(Span{Start: l.span.Start, End: p.step(o, -1)}, &Word{
			Values: slices.Clone(l.word.Values[:l.index]),
			Clue:   l.word.Clue,
		})
	}
	if l.index < l.word.Len()-1 {
		ix.Set(Span{Start: p.step(o, 1), End: l.span.End}, &Word{
			Values: slices.Clone(l.word.Values[l.index+1:]),
			Clue:   l.word.Clue,
		})
	}
}

// neighbors holds the words adjacent to a blocked cell along one orientation.
type neighbors struct {
	before, after *located
}

func (c *Crossword) unblock(p Position, v Value) error {
	var found [2]neighbors
	for _, o := range Orientations {
		if n, ok := c.grid.connected(p, backward(o)); ok {
			l, err := c.locate(n, o)
			if err != nil {
				return err
			}
			found[o].before = &l
		}
		if n, ok := c.grid.connected(p, forward(o)); ok {
			l, err := c.locate(n, o)
			if err != nil {
				return err
			}
			found[o].after = &l
		}
	}
	for _, o := range Orientations {
		c.merge(p, v, o, found[o])
	}
	c.grid.SetValue(p, v)
	return nil
}

// merge joins the words on either side of p, and p itself, into one word.
func (c *Crossword) merge(p Position, v Value, o Orientation, nb neighbors) {
	ix := c.indexes[o]
	span := Span{Start: p, End: p}
	var values []Value
	if nb.before != nil {
		ix.Delete(nb.before.span)
		span.Start = nb.before.span.Start
		values = append(values, nb.before.word.Values...)
	}
	values = append(values, v)
	if nb.after != nil {
		ix.Delete(nb.after.span)
		span.End = nb.after.span.End
		values = append(values, nb.after.word.Values...)
	}
	ix.Set(span, &Word{Values: values, Clue: c.mergedClue(nb)})
}

func (c *Crossword) mergedClue(nb neighbors) string {
	var absorbed []*Word
	for _, l := range [...]*located{nb.before, nb.after} {
		if l != nil && l.word.Clue != "" {
			absorbed = append(absorbed, l.word)
		}
	}
	if len(absorbed) == 0 {
		return ""
	}
	switch c.mergeClues {
	case ClueKeepLonger:
		keep := absorbed[0]
		for _, w := range absorbed[1:] {
			if w.Len() > keep.Len() {
				keep = w
			}
		}
		return keep.Clue
	case ClueConcatenate:
		clues := make([]string, len(absorbed))
		for i, w := range absorbed {
			clues[i] = w.Clue
		}
		return strings.Join(clues, ClueSeparator)
	}
	return ""
}

func (c *Crossword) overwrite(p Position, v Value) error {
	var found [2]located
	for _, o := range Orientations {
		l, err := c.locate(p, o)
		if err != nil {
			return err
		}
		found[o] = l
	}
	for _, l := range found {
		l.word.Values[l.index] = v
	}
	c.grid.SetValue(p, v)
	return nil
}

// FillWord writes text into the word at s in o, one cell at a time.
// Accents are folded, and ' ', '?' and '_' leave a cell blank. text must
// have exactly one rune per cell.
func (c *Crossword) FillWord(s Span, o Orientation, text string) error {
	if o != Horizontal && o != Vertical {
		return fmt.Errorf("%w: unknown %v", ErrNotFound, o)
	}
	if _, ok := c.indexes[o].Get(s); !ok {
		return fmt.Errorf("%w: %s %v", ErrNotFound, o, s)
	}
	rs := []rune(Fold(text))
	if len(rs) != s.Len() {
		return fmt.Errorf("%w: %q has %d letters, span %v has %d cells", ErrInvalidValue, text, len(rs), s, s.Len())
	}
	values := make([]Value, len(rs))
	for i, r := range rs {
		switch r {
		case ' ', '?', '_':
			values[i] = Blank
			continue
		}
		v, ok := Letter(r)
		if !ok {
			return fmt.Errorf("%w: %q in %q", ErrInvalidValue, r, text)
		}
		values[i] = v
	}
	for i, p := range s.Positions() {
		if err := c.overwrite(p, values[i]); err != nil {
			return err
		}
	}
	return nil
}
