// Package xword implements the crossword grid and its two word indexes.
//
// A Crossword owns a rectangular Grid of cells and one WordIndex per
// Orientation. Every run of non-blocked cells in a row is an across word and
// every run in a column is a down word; Mutate keeps both indexes in step with
// the grid as single cells change, splitting and merging words when a cell is
// blocked or unblocked.
//
// A Crossword is not safe for concurrent use. Callers sharing one across
// goroutines must serialize access themselves.
package xword

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Value is the content of a single cell: a letter, a blank or a block.
type Value int8

const (
	Blocked Value = iota - 1
	Blank
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
)

// Letter returns the value for an ASCII letter, either case.
func Letter(r rune) (Value, bool) {
	switch {
	case r >= 'A' && r <= 'Z':
		return Value(r-'A') + A, true
	case r >= 'a' && r <= 'z':
		return Value(r-'a') + A, true
	}
	return Blank, false
}

// IsBlocked reports whether v is the blocked marker.
func (v Value) IsBlocked() bool { return v == Blocked }

// IsLetter reports whether v holds a letter A-Z.
func (v Value) IsLetter() bool { return v >= A && v <= Z }

// Rune returns the display rune for v.
func (v Value) Rune() rune {
	switch {
	case v == Blocked:
		return '█'
	case v.IsLetter():
		return 'A' + rune(v-A)
	}
	return ' '
}

func (v Value) String() string { return string(v.Rune()) }

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold strips diacritics and upper-cases s, so "été" becomes "ETE".
func Fold(s string) string {
	out, _, err := transform.String(foldAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(out)
}

// ParseValue converts user input into a Value. The empty string and a single
// space are blank, "#" and "." are blocked, and a single letter (accents are
// folded, so "é" is E) is that letter.
func ParseValue(s string) (Value, error) {
	switch s {
	case "", " ":
		return Blank, nil
	case "#", ".":
		return Blocked, nil
	}
	folded := []rune(Fold(s))
	if len(folded) == 1 {
		if v, ok := Letter(folded[0]); ok {
			return v, nil
		}
	}
	return Blank, fmt.Errorf("%w: %q", ErrInvalidValue, s)
}

// ValuesString renders a run of values, blanks as spaces.
func ValuesString(vs []Value) string {
	var sb strings.Builder
	for _, v := range vs {
		sb.WriteRune(v.Rune())
	}
	return sb.String()
}

// Orientation selects one of the two word indexes.
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// Orientations lists both orientations in display order.
var Orientations = [...]Orientation{Horizontal, Vertical}

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("Orientation(%d)", int(o))
}

// ParseOrientation accepts "horizontal"/"across"/"h" and "vertical"/"down"/"v".
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(s) {
	case "horizontal", "across", "h", "a":
		return Horizontal, nil
	case "vertical", "down", "v", "d":
		return Vertical, nil
	}
	return Horizontal, fmt.Errorf("unknown orientation %q", s)
}

// Position identifies a cell by column X and row Y.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Position) String() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }

// step returns the position n cells along o.
func (p Position) step(o Orientation, n int) Position {
	if o == Horizontal {
		return Position{X: p.X + n, Y: p.Y}
	}
	return Position{X: p.X, Y: p.Y + n}
}
