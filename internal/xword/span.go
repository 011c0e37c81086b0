package xword

import (
	"cmp"
	"fmt"
)

// KeyFieldBits is the width of each coordinate field in a SpanKey.
const KeyFieldBits = 13

// MaxDimension is the largest board width or height whose spans can be keyed.
const MaxDimension = 1 << KeyFieldBits

const keyFieldMask = MaxDimension - 1

// SpanKey packs a span into one integer. Keys of spans in the same
// orientation sort in reading order of their start cell.
type SpanKey uint64

// Span is an inclusive run of cells along one row or one column.
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// NewSpan returns the span from start to end. The endpoints must share a
// row or a column and start must not come after end.
func NewSpan(start, end Position) (Span, error) {
	s := Span{Start: start, End: end}
	if err := s.validate(); err != nil {
		return Span{}, err
	}
	return s, nil
}

func (s Span) validate() error {
	if s.Start.Y == s.End.Y && s.Start.X <= s.End.X {
		return nil
	}
	if s.Start.X == s.End.X && s.Start.Y <= s.End.Y {
		return nil
	}
	return fmt.Errorf("%w: %v to %v", ErrSpanMismatch, s.Start, s.End)
}

// Len returns the number of cells covered by s.
func (s Span) Len() int {
	return s.End.X - s.Start.X + s.End.Y - s.Start.Y + 1
}

// Contains reports whether p is one of the cells of s.
func (s Span) Contains(p Position) bool {
	return p.X >= s.Start.X && p.X <= s.End.X && p.Y >= s.Start.Y && p.Y <= s.End.Y
}

// Positions lists the cells of s from start to end.
func (s Span) Positions() []Position {
	ps := make([]Position, 0, s.Len())
	for y := s.Start.Y; y <= s.End.Y; y++ {
		for x := s.Start.X; x <= s.End.X; x++ {
			ps = append(ps, Position{X: x, Y: y})
		}
	}
	return ps
}

func (s Span) String() string {
	return fmt.Sprintf("%v to %v", s.Start, s.End)
}

// Key encodes s. Fields are packed most significant first as start row,
// start column, end row, end column, so that integer order is reading order.
func (s Span) Key() (SpanKey, error) {
	for _, c := range [...]int{s.Start.X, s.Start.Y, s.End.X, s.End.Y} {
		if c < 0 || c >= MaxDimension {
			return 0, fmt.Errorf("%w: %d in span %v", ErrCoordinateOutOfRange, c, s)
		}
	}
	return s.key(), nil
}

// key packs s without range checks. Grid dimensions are validated at
// construction so every span inside a board fits.
func (s Span) key() SpanKey {
	k := SpanKey(s.Start.Y)
	k = k<<KeyFieldBits | SpanKey(s.Start.X)
	k = k<<KeyFieldBits | SpanKey(s.End.Y)
	k = k<<KeyFieldBits | SpanKey(s.End.X)
	return k
}

// Span decodes k. It is the exact inverse of Span.Key.
func (k SpanKey) Span() Span {
	endX := int(k & keyFieldMask)
	k >>= KeyFieldBits
	endY := int(k & keyFieldMask)
	k >>= KeyFieldBits
	startX := int(k & keyFieldMask)
	k >>= KeyFieldBits
	startY := int(k & keyFieldMask)
	return Span{
		Start: Position{X: startX, Y: startY},
		End:   Position{X: endX, Y: endY},
	}
}

// CompareSpans orders spans by their keys.
func CompareSpans(a, b Span) int {
	return cmp.Compare(a.key(), b.key())
}
