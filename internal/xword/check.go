package xword

import "fmt"

// Check verifies that both indexes agree with the grid: every open cell is
// covered by exactly one maximal word per orientation, blocked cells by
// none, and each word holds the live contents of its cells.
func (c *Crossword) Check() error {
	for _, o := range Orientations {
		if err := c.checkIndex(o); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crossword) checkIndex(o Orientation) error {
	g := c.grid
	covered := make([]int, len(g.cells))
	for s, w := range c.indexes[o].Entries() {
		if err := s.validate(); err != nil {
			return fmt.Errorf("%w: %s %v", ErrInvariantViolation, o, err)
		}
		if (o == Horizontal) != (s.Start.Y == s.End.Y) && s.Len() > 1 {
			return fmt.Errorf("%w: %s index holds %v", ErrInvariantViolation, o, s)
		}
		if !g.InBounds(s.Start) || !g.InBounds(s.End) {
			return fmt.Errorf("%w: %s %v leaves the board", ErrInvariantViolation, o, s)
		}
		if w.Len() != s.Len() {
			return fmt.Errorf("%w: %s %v has %d values for %d cells", ErrInvariantViolation, o, s, w.Len(), s.Len())
		}
		if _, ok := g.connected(s.Start, backward(o)); ok {
			return fmt.Errorf("%w: %s %v does not start at a boundary", ErrInvariantViolation, o, s)
		}
		if _, ok := g.connected(s.End, forward(o)); ok {
			return fmt.Errorf("%w: %s %v does not end at a boundary", ErrInvariantViolation, o, s)
		}
		for i, p := range s.Positions() {
			got := g.value(p)
			if got.IsBlocked() {
				return fmt.Errorf("%w: %s %v covers blocked cell %v", ErrInvariantViolation, o, s, p)
			}
			if got != w.Values[i] {
				return fmt.Errorf("%w: %s %v holds %q at %v, cell holds %q", ErrInvariantViolation, o, s, w.Values[i], p, got)
			}
			covered[p.Y*g.width+p.X]++
		}
	}
	for i, n := range covered {
		p := Position{X: i % g.width, Y: i / g.width}
		if g.cells[i].IsBlocked() {
			continue
		}
		if n != 1 {
			return fmt.Errorf("%w: cell %v is covered by %d %s words", ErrInvariantViolation, p, n, o)
		}
	}
	return nil
}
