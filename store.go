package main

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodul/xwedit/internal/xword"
)

// Store holds all boards in memory.
type Store struct {
	mu     sync.RWMutex
	boards map[string]*Board
	opts   []xword.Option
}

// NewStore creates an empty store. opts apply to every board it creates.
func NewStore(opts ...xword.Option) *Store {
	return &Store{
		boards: make(map[string]*Board),
		opts:   opts,
	}
}

// CreateBoard creates a blank width x height board.
func (s *Store) CreateBoard(width, height int) (*Board, error) {
	xw, err := xword.New(width, height, s.opts...)
	if err != nil {
		return nil, err
	}

	b := &Board{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		xw:        xw,
		editors:   make(map[string]*Editor),
	}

	s.mu.Lock()
	s.boards[b.ID] = b
	s.mu.Unlock()

	return b, nil
}

// GetBoard returns a board by ID, or nil if not found.
func (s *Store) GetBoard(id string) *Board {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boards[id]
}

// DeleteBoard removes a board and reports whether it existed.
func (s *Store) DeleteBoard(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.boards[id]; !ok {
		return false
	}
	delete(s.boards, id)
	return true
}

// ListBoards returns all boards, most recent first.
func (s *Store) ListBoards() []*Board {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*Board, 0, len(s.boards))
	for _, b := range s.boards {
		list = append(list, b)
	}
	slices.SortFunc(list, func(a, b *Board) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return list
}
