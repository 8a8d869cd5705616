package application

import (
	"context"
	"fmt"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// DuplicateVoteGuard decides whether a (submitter token, instructor)
// pair already has a review on record. Both comparisons are exact
// strings; the instructor name must be the resolved canonical form, so
// two misspellings of the same instructor are recognized as duplicates.
//
// The guard's read-then-check is a best-effort fast path: two
// concurrent submissions could both pass it before either insert
// commits. The store's uniqueness constraint is the authoritative
// enforcement, and Append conflicts surface as ErrDuplicateSubmission
// through the same error.
type DuplicateVoteGuard struct {
	store ports.ReviewStore
}

// NewDuplicateVoteGuard creates a guard backed by the given store.
func NewDuplicateVoteGuard(store ports.ReviewStore) *DuplicateVoteGuard {
	return &DuplicateVoteGuard{store: store}
}

// Check returns domain.ErrDuplicateSubmission when a prior review from
// the exact (submitterToken, instructor) pair exists, nil when the
// caller may proceed with the append.
func (g *DuplicateVoteGuard) Check(ctx context.Context, submitterToken, instructor string) error {
	reviews, err := g.store.ScanAll(ctx)
	if err != nil {
		return fmt.Errorf("duplicate check: %w", err)
	}
	for _, r := range reviews {
		if r.SubmitterToken == submitterToken && r.Instructor == instructor {
			return fmt.Errorf("%w: submitter already reviewed %s",
				domain.ErrDuplicateSubmission, instructor)
		}
	}
	return nil
}
