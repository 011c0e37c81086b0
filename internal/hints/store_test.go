package hints

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "hints.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreAddAndLookup(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.Add(ctx, "aba", Clue{Text: "Litigator's group", Source: "atc", Year: "1997"}))
	require.NoError(t, s.Add(ctx, "ABA", Clue{Text: "Bar org.", Source: "nyt", Year: "2004"}))
	require.NoError(t, s.Add(ctx, "ABA", Clue{Text: "Bar org.", Source: "nyt", Year: "2004"}))
	require.NoError(t, s.Add(ctx, "ABE", Clue{Text: "Honest one"}))
	require.NoError(t, s.Add(ctx, "ABET"))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	hints, err := s.Lookup(ctx, "AB?", 0)
	require.NoError(t, err)
	require.Len(t, hints, 2)
	assert.Equal(t, "ABA", hints[0].Word)
	assert.Equal(t, []Clue{
		{Text: "Bar org.", Source: "nyt", Year: "2004"},
		{Text: "Litigator's group", Source: "atc", Year: "1997"},
	}, hints[0].Clues)
	assert.Equal(t, "ABE", hints[1].Word)

	hints, err = s.Lookup(ctx, "?B??", 10)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "ABET", hints[0].Word)
	assert.Empty(t, hints[0].Clues)

	hints, err = s.Lookup(ctx, "AB?", 1)
	require.NoError(t, err)
	assert.Len(t, hints, 1)

	hints, err = s.Lookup(ctx, "Z??", 1)
	require.NoError(t, err)
	assert.Empty(t, hints)
}

func TestStoreRejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	assert.ErrorIs(t, s.Add(ctx, "4EVER"), ErrInvalidWord)
	assert.ErrorIs(t, s.Add(ctx, "ABA", Clue{Text: " "}), ErrInvalidClue)
	assert.ErrorIs(t, s.Add(ctx, "ABA", Clue{Text: "Bar org.", Year: "'97"}), ErrInvalidClue)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "hints.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Add(ctx, "OREO", Clue{Text: "Cookie"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	hints, err := s.Lookup(ctx, "O??O", 0)
	require.NoError(t, err)
	require.Len(t, hints, 1)
	assert.Equal(t, "Cookie", hints[0].Clues[0].Text)
}

func TestOpenInMemory(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Add(context.Background(), "ERA"))
	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
