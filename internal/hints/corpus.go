package hints

import (
	"context"
	"fmt"
	"os"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// ImportStats summarizes an import.
type ImportStats struct {
	Files int
	Words int
	Clues int
}

// LoadFile reads a YAML corpus file holding a list of hints:
//
//	- word: ABA
//	  clues:
//	    - clue: Litigator's group
//	      source: atc
//	      year: "1997"
func LoadFile(path string) ([]Hint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var hints []Hint
	if err := yaml.Unmarshal(data, &hints); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return hints, nil
}

// ImportFile loads one corpus file into s.
func ImportFile(ctx context.Context, s *Store, path string) (ImportStats, error) {
	hints, err := LoadFile(path)
	if err != nil {
		return ImportStats{}, err
	}
	stats := ImportStats{Files: 1}
	for _, h := range hints {
		if err := s.Add(ctx, h.Word, h.Clues...); err != nil {
			return stats, fmt.Errorf("%s: %w", path, err)
		}
		stats.Words++
		stats.Clues += len(h.Clues)
	}
	return stats, nil
}

// Import loads every file matching the given doublestar patterns, such as
// "corpus/**/*.yaml".
func Import(ctx context.Context, s *Store, patterns ...string) (ImportStats, error) {
	var total ImportStats
	for _, pattern := range patterns {
		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return total, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, path := range paths {
			if err := ctx.Err(); err != nil {
				return total, err
			}
			stats, err := ImportFile(ctx, s, path)
			total.Files += stats.Files
			total.Words += stats.Words
			total.Clues += stats.Clues
			if err != nil {
				return total, err
			}
			logger().Debug("imported corpus file", "path", path, "words", stats.Words)
		}
	}
	return total, nil
}
