package xword

import "fmt"

// Cell is a snapshot of one grid cell.
type Cell struct {
	Position Position `json:"position"`
	Value    Value    `json:"value"`
}

// Direction names one of the four neighbors of a cell.
type Direction int

const (
	Left Direction = iota
	Right
	Up
	Down
)

// Grid stores cell values in a flat row-major slice. Adjacency is derived
// from coordinates, so blocking a cell never rewrites any link and
// unblocking it restores the same neighbors.
type Grid struct {
	width  int
	height int
	cells  []Value
}

// NewGrid returns a width x height grid of blank cells.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 || width > MaxDimension || height > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d (each side must be between 1 and %d)",
			ErrInvalidDimensions, width, height, MaxDimension)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Value, width*height),
	}, nil
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether p lies on the board.
func (g *Grid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.width && p.Y >= 0 && p.Y < g.height
}

func (g *Grid) checkBounds(p Position) error {
	if !g.InBounds(p) {
		return fmt.Errorf("%w: %v on a %dx%d board", ErrOutOfBounds, p, g.width, g.height)
	}
	return nil
}

// Get returns the cell at p.
func (g *Grid) Get(p Position) (Cell, error) {
	if err := g.checkBounds(p); err != nil {
		return Cell{}, err
	}
	return Cell{Position: p, Value: g.value(p)}, nil
}

// SetValue overwrites the value at p without touching any word index.
// Positions off the board are ignored.
func (g *Grid) SetValue(p Position, v Value) {
	if g.InBounds(p) {
		g.cells[p.Y*g.width+p.X] = v
	}
}

func (g *Grid) value(p Position) Value {
	return g.cells[p.Y*g.width+p.X]
}

// Neighbor returns the cell next to p in direction d. The second result is
// false only at the physical edge of the board; blocked neighbors are
// still returned.
func (g *Grid) Neighbor(p Position, d Direction) (Position, bool) {
	var n Position
	switch d {
	case Left:
		n = Position{X: p.X - 1, Y: p.Y}
	case Right:
		n = Position{X: p.X + 1, Y: p.Y}
	case Up:
		n = Position{X: p.X, Y: p.Y - 1}
	case Down:
		n = Position{X: p.X, Y: p.Y + 1}
	default:
		return Position{}, false
	}
	return n, g.InBounds(n)
}

// backward and forward return the directions that lead to the start and
// the end of a run along o.
func backward(o Orientation) Direction {
	if o == Horizontal {
		return Left
	}
	return Up
}

func forward(o Orientation) Direction {
	if o == Horizontal {
		return Right
	}
	return Down
}

// connected returns the neighbor of p in direction d if it continues the
// run, meaning it exists and is not blocked.
func (g *Grid) connected(p Position, d Direction) (Position, bool) {
	n, ok := g.Neighbor(p, d)
	if !ok || g.value(n).IsBlocked() {
		return Position{}, false
	}
	return n, true
}

// walk finds the run along o that contains p, and the offset of p in it.
// p itself must not be blocked.
func (g *Grid) walk(p Position, o Orientation) (Span, int) {
	start, index := p, 0
	for {
		n, ok := g.connected(start, backward(o))
		if !ok {
			break
		}
		start = n
		index++
	}
	end := p
	for {
		n, ok := g.connected(end, forward(o))
		if !ok {
			break
		}
		end = n
	}
	return Span{Start: start, End: end}, index
}
