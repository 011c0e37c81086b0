// Package hints stores the clue corpus used to suggest words for a partly
// filled span: known words, each with the clues it has appeared under.
package hints

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bodul/xwedit/internal/xword"
)

var (
	// ErrInvalidWord indicates a word that is not made of letters A-Z once folded.
	ErrInvalidWord = errors.New("word must be capital letters A-Z")

	// ErrInvalidClue indicates an empty clue text or a malformed year.
	ErrInvalidClue = errors.New("invalid clue")
)

var yearRe = regexp.MustCompile(`^\d{4}$`)

// Clue is one published clue for a word.
type Clue struct {
	Text   string `yaml:"clue" json:"clue"`
	Source string `yaml:"source,omitempty" json:"source,omitempty"`
	Year   string `yaml:"year,omitempty" json:"year,omitempty"`
}

func (c Clue) validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: empty text", ErrInvalidClue)
	}
	if c.Year != "" && !yearRe.MatchString(c.Year) {
		return fmt.Errorf("%w: %q is not a valid year", ErrInvalidClue, c.Year)
	}
	return nil
}

// Hint is a candidate word and its known clues.
type Hint struct {
	Word  string `yaml:"word" json:"word"`
	Clues []Clue `yaml:"clues" json:"clues"`
}

// NormalizeWord folds accents and case and drops spaces, hyphens and
// apostrophes, so "Arc-en-ciel" becomes "ARCENCIEL".
func NormalizeWord(w string) (string, error) {
	folded := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '\'', '’':
			return -1
		}
		return r
	}, xword.Fold(w))
	if folded == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidWord, w)
	}
	for _, r := range folded {
		if r < 'A' || r > 'Z' {
			return "", fmt.Errorf("%w: %q", ErrInvalidWord, w)
		}
	}
	return folded, nil
}

// Pattern turns the letters of a span into a lookup pattern, '?' for each
// blank cell.
func Pattern(values []xword.Value) string {
	var sb strings.Builder
	for _, v := range values {
		if v.IsLetter() {
			sb.WriteRune(v.Rune())
		} else {
			sb.WriteByte('?')
		}
	}
	return sb.String()
}

// likePattern converts a '?' pattern to SQL LIKE syntax. Space, '_' and '.'
// are accepted as unknown letters too.
func likePattern(pattern string) (string, error) {
	var sb strings.Builder
	for _, r := range xword.Fold(pattern) {
		switch {
		case r == '?' || r == ' ' || r == '_' || r == '.':
			sb.WriteByte('_')
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r)
		default:
			return "", fmt.Errorf("%w: pattern %q", ErrInvalidWord, pattern)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty pattern", ErrInvalidWord)
	}
	return sb.String(), nil
}

// Match reports whether word fits pattern: same length, and equal letters
// wherever the pattern is not '?'.
func Match(pattern, word string) bool {
	like, err := likePattern(pattern)
	if err != nil {
		return false
	}
	w, err := NormalizeWord(word)
	if err != nil || len(w) != len(like) {
		return false
	}
	for i := range len(like) {
		if like[i] != '_' && like[i] != w[i] {
			return false
		}
	}
	return true
}
