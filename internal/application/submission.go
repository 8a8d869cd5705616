package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// Submission is a raw review submission before validation and name
// resolution.
type Submission struct {
	// Instructor is the free-text instructor name as typed.
	Instructor string `json:"instructor"`

	// Program is the academic program name.
	Program string `json:"program"`

	// Course is the course code; it must belong to Program's catalog
	// course list.
	Course string `json:"course"`

	// Scores holds the raw criterion values, keyed by criterion name.
	Scores map[domain.Criterion]float64 `json:"scores"`

	// SubmitterToken is the reviewer identity for the active strategy.
	SubmitterToken string `json:"submitter_token"`
}

// SubmissionService runs the ingestion pipeline: validate, resolve
// the instructor name against the known set, run the duplicate guard,
// and append to the store. The service is safe for concurrent use; the
// store's uniqueness constraint covers the guard's check-then-insert
// window.
type SubmissionService struct {
	store    ports.ReviewStore
	resolver ports.NameResolver
	identity ports.IdentityStrategy
	catalog  ports.Catalog
	guard    *DuplicateVoteGuard
	scale    domain.Scale
	metrics  ports.MetricsCollector
	now      func() time.Time
}

// NewSubmissionService wires the ingestion pipeline. metrics may be nil
// when no collector is configured.
func NewSubmissionService(
	store ports.ReviewStore,
	resolver ports.NameResolver,
	identity ports.IdentityStrategy,
	catalog ports.Catalog,
	scale domain.Scale,
	metrics ports.MetricsCollector,
) (*SubmissionService, error) {
	if store == nil || resolver == nil || identity == nil || catalog == nil {
		return nil, fmt.Errorf("%w: submission service requires store, resolver, identity, and catalog",
			domain.ErrInvalidConfiguration)
	}
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	return &SubmissionService{
		store:    store,
		resolver: resolver,
		identity: identity,
		catalog:  catalog,
		guard:    NewDuplicateVoteGuard(store),
		scale:    scale,
		metrics:  metrics,
		now:      time.Now,
	}, nil
}

// Submit validates and persists one review. On success it returns the
// stored review with the resolved canonical instructor name.
//
// Error taxonomy: *domain.ValidationError for rejected input,
// domain.ErrDuplicateSubmission for a repeat vote (including store
// conflicts from the race window), and a wrapped ports.StoreError for
// persistence failures.
func (s *SubmissionService) Submit(ctx context.Context, sub Submission) (domain.Review, error) {
	review, err := s.submit(ctx, sub)
	if s.metrics != nil {
		s.metrics.RecordSubmission(sub.Program, submissionOutcome(err))
	}
	return review, err
}

func (s *SubmissionService) submit(ctx context.Context, sub Submission) (domain.Review, error) {
	if err := s.validate(sub); err != nil {
		return domain.Review{}, err
	}

	known, err := s.knownInstructors(ctx)
	if err != nil {
		return domain.Review{}, err
	}

	canonical, _, err := s.resolver.Resolve(ctx, sub.Instructor, known)
	if err != nil {
		return domain.Review{}, err
	}

	// Fast path for user feedback; the store constraint is authoritative.
	if err := s.guard.Check(ctx, sub.SubmitterToken, canonical); err != nil {
		return domain.Review{}, err
	}

	review := domain.Review{
		Instructor:     canonical,
		Program:        sub.Program,
		Course:         sub.Course,
		Scores:         cloneScores(sub.Scores),
		SubmitterToken: sub.SubmitterToken,
		SubmittedAt:    s.now().UTC(),
	}

	if err := s.store.Append(ctx, review); err != nil {
		var se *ports.StoreError
		if errors.As(err, &se) && se.IsConflict() {
			return domain.Review{}, fmt.Errorf("%w: submitter already reviewed %s",
				domain.ErrDuplicateSubmission, canonical)
		}
		return domain.Review{}, fmt.Errorf("persist review: %w", err)
	}
	return review, nil
}

// validate enforces the whole-submission rules: identity format,
// catalog referential consistency, and criterion bounds. Failures are
// collected into a single ValidationError and the submission is
// discarded with no partial write.
func (s *SubmissionService) validate(sub Submission) error {
	ve := domain.NewValidationError("submission")

	if err := s.identity.Verify(sub.SubmitterToken); err != nil {
		ve.Addf("submitter_token: %v", err)
	}

	courses, ok := s.catalog.Courses(sub.Program)
	if !ok {
		ve.Addf("program: unknown program %q", sub.Program)
	} else if !contains(courses, sub.Course) {
		ve.Addf("course: %q is not offered in program %q", sub.Course, sub.Program)
	}

	for _, c := range domain.Criteria {
		v, ok := sub.Scores[c]
		if !ok {
			ve.Addf("scores.%s: missing", c)
			continue
		}
		if !s.scale.Contains(v) {
			ve.Addf("scores.%s: %.2f outside [%.2f, %.2f]", c, v, s.scale.Min, s.scale.Max)
		}
	}

	if ve.HasErrors() {
		return ve
	}
	return nil
}

// knownInstructors builds the canonical name set from the store in a
// deterministic first-seen order, so tie-breaking during resolution is
// stable across requests.
func (s *SubmissionService) knownInstructors(ctx context.Context) ([]string, error) {
	reviews, err := s.store.ScanAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load known instructors: %w", err)
	}

	// ScanAll guarantees no order; sort by insertion time, then name,
	// to fix the canonical ordering used for ties.
	sort.SliceStable(reviews, func(i, j int) bool {
		if !reviews[i].SubmittedAt.Equal(reviews[j].SubmittedAt) {
			return reviews[i].SubmittedAt.Before(reviews[j].SubmittedAt)
		}
		return reviews[i].Instructor < reviews[j].Instructor
	})

	seen := make(map[string]bool, len(reviews))
	known := make([]string, 0, len(reviews))
	for _, r := range reviews {
		if !seen[r.Instructor] {
			seen[r.Instructor] = true
			known = append(known, r.Instructor)
		}
	}
	return known, nil
}

func submissionOutcome(err error) string {
	switch {
	case err == nil:
		return "accepted"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return "duplicate"
	case domain.IsValidation(err):
		return "rejected"
	default:
		return "error"
	}
}

func cloneScores(scores map[domain.Criterion]float64) map[domain.Criterion]float64 {
	out := make(map[domain.Criterion]float64, len(scores))
	for k, v := range scores {
		out[k] = v
	}
	return out
}

func contains(list []string, want string) bool {
	for _, v := range list {
		if v == want {
			return true
		}
	}
	return false
}
