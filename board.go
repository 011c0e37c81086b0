package main

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bodul/xwedit/internal/xword"
)

// Editor is a person connected to a board.
type Editor struct {
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	JoinedAt time.Time `json:"joined_at"`
}

// editorColors is the palette assigned to editors in order.
var editorColors = []string{
	"#2563eb", "#dc2626", "#16a34a", "#9333ea",
	"#ea580c", "#0891b2", "#c026d3", "#ca8a04",
}

// Board is one crossword being edited. The engine is not safe for
// concurrent use, so every access goes through mu.
type Board struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	xw      *xword.Crossword
	editors map[string]*Editor
}

// Entry is a word as sent to clients.
type Entry struct {
	Start xword.Position `json:"start"`
	End   xword.Position `json:"end"`
	Text  string         `json:"text"`
	Clue  string         `json:"clue"`
}

// BoardSnapshot is the full state of a board at one instant.
type BoardSnapshot struct {
	ID        string     `json:"id"`
	Width     int        `json:"width"`
	Height    int        `json:"height"`
	Cells     [][]string `json:"cells"` // "#" blocked, "" blank
	Across    []Entry    `json:"across"`
	Down      []Entry    `json:"down"`
	Editors   []*Editor  `json:"editors"`
	CreatedAt time.Time  `json:"created_at"`
}

// AddEditor adds an editor to the board and returns it.
func (b *Board) AddEditor(name string) *Editor {
	b.mu.Lock()
	defer b.mu.Unlock()

	if e, ok := b.editors[name]; ok {
		return e
	}

	e := &Editor{
		Name:     name,
		Color:    editorColors[len(b.editors)%len(editorColors)],
		JoinedAt: time.Now(),
	}
	b.editors[name] = e
	return e
}

// RemoveEditor removes an editor from the board.
func (b *Board) RemoveEditor(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.editors, name)
}

// Editors returns connected editors, first joined first.
func (b *Board) Editors() []*Editor {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.editorsLocked()
}

func (b *Board) editorsLocked() []*Editor {
	list := make([]*Editor, 0, len(b.editors))
	for _, e := range b.editors {
		cp := *e
		list = append(list, &cp)
	}
	slices.SortFunc(list, func(x, y *Editor) int {
		if c := x.JoinedAt.Compare(y.JoinedAt); c != 0 {
			return c
		}
		return strings.Compare(x.Name, y.Name)
	})
	return list
}

// Mutate sets one cell.
func (b *Board) Mutate(p xword.Position, v xword.Value) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.xw.Mutate(p, v)
}

// SetClue replaces the clue of a word.
func (b *Board) SetClue(s xword.Span, o xword.Orientation, clue string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.xw.SetClue(s, o, clue)
}

// FillWord writes a whole word into an existing span.
func (b *Board) FillWord(s xword.Span, o xword.Orientation, text string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.xw.FillWord(s, o, text)
}

// WordAt returns the word along o through p.
func (b *Board) WordAt(p xword.Position, o xword.Orientation) (xword.WordRef, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.xw.WordAt(p, o)
}

// Dump returns the text dump of the board and its words.
func (b *Board) Dump() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.xw.Dump()
}

// Snapshot returns a copy of the board state.
func (b *Board) Snapshot() BoardSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	snap := BoardSnapshot{
		ID:        b.ID,
		Width:     b.xw.Width(),
		Height:    b.xw.Height(),
		Across:    entries(b.xw, xword.Horizontal),
		Down:      entries(b.xw, xword.Vertical),
		Editors:   b.editorsLocked(),
		CreatedAt: b.CreatedAt,
	}
	for _, row := range b.xw.Cells() {
		cells := make([]string, len(row))
		for x, v := range row {
			cells[x] = cellString(v)
		}
		snap.Cells = append(snap.Cells, cells)
	}
	return snap
}

func entries(xw *xword.Crossword, o xword.Orientation) []Entry {
	list := make([]Entry, 0, xw.WordCount(o))
	for s, w := range xw.Entries(o) {
		list = append(list, Entry{Start: s.Start, End: s.End, Text: w.Text(), Clue: w.Clue})
	}
	return list
}

func cellString(v xword.Value) string {
	switch {
	case v.IsBlocked():
		return "#"
	case v.IsLetter():
		return v.String()
	}
	return ""
}
