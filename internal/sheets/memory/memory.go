// Package memory is an in-process sheet mirror for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"

	"rocel/internal/core"
)

// Row is one recorded change.
type Row struct {
	Op          string
	Transaction core.Transaction
}

type Store struct {
	mu   sync.Mutex
	rows []Row
}

func New() *Store {
	return &Store{}
}

// AppendChange records the change and returns a synthetic row reference.
func (s *Store) AppendChange(_ context.Context, op string, tx core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, Row{Op: op, Transaction: tx})
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything recorded so far.
func (s *Store) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Row(nil), s.rows...)
}
