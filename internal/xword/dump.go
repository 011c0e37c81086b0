package xword

import (
	"fmt"
	"strings"
)

// DumpBoard renders the grid as text, one bordered row per line.
func (c *Crossword) DumpBoard() string {
	var sb strings.Builder
	line := strings.Repeat("-", 2*c.grid.width+1)
	sb.WriteString(line)
	sb.WriteByte('\n')
	for y := range c.grid.height {
		for x := range c.grid.width {
			sb.WriteByte('|')
			sb.WriteRune(c.grid.value(Position{X: x, Y: y}).Rune())
		}
		sb.WriteString("|\n")
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// DumpIndex renders the words of o in reading order with their clues.
func (c *Crossword) DumpIndex(o Orientation) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", strings.ToUpper(o.String()))
	for s, w := range c.indexes[o].Entries() {
		text := w.Text()
		if strings.TrimSpace(text) == "" {
			text = "[No word]"
		}
		clue := w.Clue
		if clue == "" {
			clue = "[No clue]"
		}
		fmt.Fprintf(&sb, "\t%v\n\t%s\n\t%s\n\n", s, text, clue)
	}
	return sb.String()
}

// Dump renders the board followed by both indexes.
func (c *Crossword) Dump() string {
	var sb strings.Builder
	sb.WriteString(c.DumpBoard())
	sb.WriteByte('\n')
	for _, o := range Orientations {
		sb.WriteString(c.DumpIndex(o))
	}
	return sb.String()
}
