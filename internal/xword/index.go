package xword

import (
	"fmt"
	"iter"
	"slices"
)

// Word is the content bound to one span in one index.
type Word struct {
	Values []Value `json:"values"`
	Clue   string  `json:"clue"`
}

// Len returns the number of cells in the word.
func (w *Word) Len() int { return len(w.Values) }

// Text renders the letters of the word, blanks as spaces.
func (w *Word) Text() string { return ValuesString(w.Values) }

func (w *Word) clone() Word {
	return Word{Values: slices.Clone(w.Values), Clue: w.Clue}
}

// WordIndex maps spans of one orientation to their words.
type WordIndex struct {
	orientation Orientation
	words       map[Span]*Word
}

// NewWordIndex returns an empty index for o.
func NewWordIndex(o Orientation) *WordIndex {
	return &WordIndex{
		orientation: o,
		words:       make(map[Span]*Word),
	}
}

func (ix *WordIndex) Orientation() Orientation { return ix.orientation }

// Len returns the number of words in the index.
func (ix *WordIndex) Len() int { return len(ix.words) }

// Get returns the word occupying s.
func (ix *WordIndex) Get(s Span) (*Word, bool) {
	w, ok := ix.words[s]
	return w, ok
}

// Set binds w to s, replacing any previous word there.
func (ix *WordIndex) Set(s Span, w *Word) {
	ix.words[s] = w
}

// Delete removes the word at s and reports whether one was present.
func (ix *WordIndex) Delete(s Span) bool {
	if _, ok := ix.words[s]; !ok {
		return false
	}
	delete(ix.words, s)
	return true
}

// SetClue replaces the clue of the word at s.
func (ix *WordIndex) SetClue(s Span, clue string) error {
	w, ok := ix.words[s]
	if !ok {
		return fmt.Errorf("%w: %s %v", ErrNotFound, ix.orientation, s)
	}
	w.Clue = clue
	return nil
}

// Spans returns the occupied spans in reading order.
func (ix *WordIndex) Spans() []Span {
	spans := make([]Span, 0, len(ix.words))
	for s := range ix.words {
		spans = append(spans, s)
	}
	slices.SortFunc(spans, CompareSpans)
	return spans
}

// Entries yields every span and its word in reading order. Each call sorts
// afresh; the words are live and must not be modified by the caller.
func (ix *WordIndex) Entries() iter.Seq2[Span, *Word] {
	return func(yield func(Span, *Word) bool) {
		for _, s := range ix.Spans() {
			if !yield(s, ix.words[s]) {
				return
			}
		}
	}
}
