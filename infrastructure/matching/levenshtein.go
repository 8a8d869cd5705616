// Package matching implements instructor name resolution with
// approximate string matching, deduplicating names submitted with
// typos against the known canonical set.
package matching

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/cases"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

var (
	_ ports.NameResolver = (*LevenshteinResolver)(nil)

	// foldCaser is a package-level Unicode case folder for performance.
	// This avoids creating a new caser for each normalization.
	foldCaser = cases.Fold()
)

// DefaultThreshold is the minimum 0-100 similarity for a submitted name
// to resolve to an existing canonical name. The max-length Levenshtein
// normalization scores a single accent typo in a short name around 84,
// so the threshold is fixed at 80 rather than the stricter 85 used with
// alignment-based measures.
const DefaultThreshold = 80.0

// LevenshteinResolver resolves free-text instructor names against a
// known canonical set using a token-order-insensitive Levenshtein
// ratio. Resolution is a pure function of (submission, known set):
// there is no ambient session state, which keeps it deterministic and
// directly testable.
//
// The resolver is stateless and thread-safe for concurrent use.
type LevenshteinResolver struct {
	threshold float64
	tracer    trace.Tracer
}

// NewLevenshteinResolver creates a resolver with the given similarity
// threshold on the 0-100 scale.
func NewLevenshteinResolver(threshold float64) (*LevenshteinResolver, error) {
	if threshold < 0 || threshold > 100 {
		return nil, fmt.Errorf("%w: matching threshold %.2f outside [0, 100]",
			domain.ErrInvalidConfiguration, threshold)
	}
	return &LevenshteinResolver{
		threshold: threshold,
		tracer:    otel.Tracer("name-resolver"),
	}, nil
}

// Resolve maps a submitted name to its canonical form.
//
// The submission and every known name are normalized (trimmed,
// whitespace collapsed, Unicode case folded) and compared with a
// token-sort Levenshtein ratio scored 0-100. The best-scoring candidate
// wins when its score reaches the threshold; its stored spelling, not
// the normalized form, is returned. Equal maximal scores resolve to the
// candidate appearing first in the known set's ordering. Below the
// threshold the trimmed submission becomes a new canonical name.
func (r *LevenshteinResolver) Resolve(ctx context.Context, submitted string, known []string) (string, bool, error) {
	_, span := r.tracer.Start(ctx, "LevenshteinResolver.Resolve",
		trace.WithAttributes(
			attribute.Float64("match.threshold", r.threshold),
			attribute.Int("match.known_count", len(known)),
		),
	)
	defer span.End()

	trimmed := strings.TrimSpace(submitted)
	normalized := Normalize(submitted)
	if normalized == "" {
		ve := domain.NewValidationError("instructor")
		ve.Addf("name is empty after normalization: %v", domain.ErrEmptyName)
		span.RecordError(ve)
		return "", false, ve
	}

	if len(known) == 0 {
		span.SetAttributes(attribute.Bool("match.new_canonical", true))
		return trimmed, true, nil
	}

	bestIdx := -1
	bestScore := -1.0
	for i, candidate := range known {
		score := Similarity(normalized, Normalize(candidate))
		// Strict inequality keeps the first of tied candidates.
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	span.SetAttributes(attribute.Float64("match.best_score", bestScore))
	if bestScore >= r.threshold {
		span.SetAttributes(attribute.String("match.resolved", known[bestIdx]))
		return known[bestIdx], false, nil
	}

	span.SetAttributes(attribute.Bool("match.new_canonical", true))
	return trimmed, true, nil
}

// Normalize trims the name, collapses internal whitespace runs to a
// single space, and applies Unicode case folding.
func Normalize(name string) string {
	fields := strings.Fields(name)
	return foldCaser.String(strings.Join(fields, " "))
}

// Similarity computes the token-order-insensitive similarity between
// two normalized names on a 0-100 scale. Both inputs are split into
// tokens, the tokens sorted, and the rejoined strings compared with a
// Levenshtein ratio, so "Tremblay Jean" and "Jean Tremblay" score 100.
func Similarity(a, b string) float64 {
	return ratio(tokenSort(a), tokenSort(b)) * 100
}

func tokenSort(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// ratio returns 1 - distance/maxRuneLen, clamped to [0, 1]. The
// levenshtein library operates on runes, so rune counts keep the
// normalization consistent for multi-byte names like "Tremblé".
func ratio(s1, s2 string) float64 {
	if s1 == s2 {
		return 1.0
	}

	distance := levenshtein.ComputeDistance(s1, s2)

	maxLen := utf8.RuneCountInString(s1)
	if n := utf8.RuneCountInString(s2); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	similarity := 1.0 - float64(distance)/float64(maxLen)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}
