// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/abeaupre/go-classement/internal/domain"
)

// ReviewStore is the append-only review collection. Implementations may
// be in-memory, flat-file backed, or relational; the engine only needs
// this contract.
//
// The store is the authoritative duplicate-vote guard: implementations
// must enforce a uniqueness constraint on (submitter token, instructor)
// and return ErrConflict from Append when it is violated. The
// application-level check before Append is a best-effort fast path for
// user feedback, not the sole enforcement.
type ReviewStore interface {
	// Append persists a review. It returns an error wrapping
	// ErrConflict when the uniqueness constraint is violated, or a
	// StoreError on persistence failure.
	Append(ctx context.Context, review domain.Review) error

	// ScanAll returns every currently persisted review. Order is not
	// guaranteed. An empty store yields an empty slice, not an error.
	ScanAll(ctx context.Context) ([]domain.Review, error)
}

// NameResolver resolves a free-text instructor name against a set of
// known canonical names. Resolution is a pure function of the
// submission and the known set; there is no ambient session state.
type NameResolver interface {
	// Resolve returns the canonical name for the submission. When the
	// normalized submission is sufficiently similar to a known name,
	// that name's stored spelling is returned and isNew is false.
	// Otherwise the trimmed submission becomes a new canonical name and
	// isNew is true. An empty normalized submission yields a
	// domain.ValidationError.
	Resolve(ctx context.Context, submitted string, known []string) (canonical string, isNew bool, err error)
}

// IdentityStrategy validates submitter tokens. Two strategies exist:
// opaque per-session tokens and validated institutional IDs. Both feed
// the same duplicate-vote guard.
type IdentityStrategy interface {
	// Name identifies the strategy in configuration.
	Name() string

	// Verify checks the token format. Failures are reported as a
	// domain.ValidationError wrapping domain.ErrInvalidIdentifier,
	// independent of duplicate-vote logic.
	Verify(token string) error
}

// Catalog exposes the static program reference data. The course list
// for a program is ordered and immutable at runtime.
type Catalog interface {
	// Programs returns the program names in canonical order.
	Programs() []string

	// Courses returns the ordered course list for a program and whether
	// the program exists.
	Courses(program string) ([]string, bool)
}

// MetricsCollector records operational metrics for submissions and
// ranking queries. Implementations must be safe for concurrent use.
type MetricsCollector interface {
	// RecordSubmission counts one submission attempt with its outcome
	// ("accepted", "rejected", "duplicate", "error").
	RecordSubmission(program, outcome string)

	// RecordRanking counts one ranking query for a profile.
	RecordRanking(profile string)

	// RecordLatency records the duration in seconds of an operation.
	RecordLatency(operation string, seconds float64)
}
