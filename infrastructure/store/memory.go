// Package store provides the interchangeable ReviewStore backends:
// an in-memory store and a SQLite-backed store. Both enforce the
// uniqueness constraint on (submitter token, instructor) that makes the
// store the authoritative duplicate-vote guard.
package store

import (
	"context"
	"sync"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

var _ ports.ReviewStore = (*MemoryStore)(nil)

// MemoryStore is the in-memory ReviewStore, used for tests and
// single-process deployments without persistence. It is safe for
// concurrent use; the uniqueness check and append happen under one
// lock, closing the check-then-insert race at this layer.
type MemoryStore struct {
	mu      sync.RWMutex
	reviews []domain.Review
	pairs   map[pairKey]bool
}

type pairKey struct {
	token      string
	instructor string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pairs: make(map[pairKey]bool)}
}

// Append stores a review, returning a conflict StoreError when the
// (submitter token, instructor) pair already exists.
func (s *MemoryStore) Append(_ context.Context, review domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{token: review.SubmitterToken, instructor: review.Instructor}
	if s.pairs[key] {
		return ports.NewStoreError("memory", "append", ports.ErrConflict)
	}
	s.pairs[key] = true
	s.reviews = append(s.reviews, review)
	return nil
}

// ScanAll returns a copy of every stored review in insertion order.
func (s *MemoryStore) ScanAll(_ context.Context) ([]domain.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Review, len(s.reviews))
	copy(out, s.reviews)
	return out, nil
}

// Len returns the number of stored reviews.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reviews)
}
