// Package application orchestrates the review pipeline: validation,
// name resolution, the duplicate-vote guard, aggregation, scoring, and
// ranking presentation.
package application

import (
	"sort"

	"github.com/abeaupre/go-classement/internal/domain"
)

// Aggregator groups reviews by (instructor, course) and averages raw
// criteria into CompositeRecords. It is stateless and safe for
// concurrent use.
//
// Grouping runs over the global review collection before filtering to
// the target course, so an instructor's averages reflect only their
// rows for that course and are never mixed across courses. Filtering
// first and grouping after would be equivalent; the engine groups first.
type Aggregator struct {
	scale domain.Scale
}

// NewAggregator creates an Aggregator for the given criterion scale.
func NewAggregator(scale domain.Scale) *Aggregator {
	return &Aggregator{scale: scale}
}

type groupKey struct {
	instructor string
	course     string
}

// Aggregate produces one CompositeRecord per instructor having at least
// one valid review for the target course. Per-criterion means are
// computed over in-range values only; a criterion with zero valid
// values in a group is missing and stays excluded downstream. A review
// whose criteria are all invalid contributes nothing.
//
// Sub-scores are derived after averaging: pedagogy from clarity and
// organization, experience from inverted stress and motivation.
// Inversion is linear, so invert-then-average and average-then-invert
// agree; the engine inverts the computed mean.
func (a *Aggregator) Aggregate(reviews []domain.Review, course string) []domain.CompositeRecord {
	type accum struct {
		sums   map[domain.Criterion]float64
		counts map[domain.Criterion]int
		rows   int
	}

	groups := make(map[groupKey]*accum)
	for _, r := range reviews {
		key := groupKey{instructor: r.Instructor, course: r.Course}
		acc, ok := groups[key]
		if !ok {
			acc = &accum{
				sums:   make(map[domain.Criterion]float64, len(domain.Criteria)),
				counts: make(map[domain.Criterion]int, len(domain.Criteria)),
			}
			groups[key] = acc
		}

		valid := false
		for _, c := range domain.Criteria {
			v, ok := r.Score(c, a.scale)
			if !ok {
				continue
			}
			acc.sums[c] += v
			acc.counts[c]++
			valid = true
		}
		if valid {
			acc.rows++
		}
	}

	records := make([]domain.CompositeRecord, 0, len(groups))
	for key, acc := range groups {
		if key.course != course || acc.rows == 0 {
			continue
		}

		means := make(map[domain.Criterion]domain.Mean, len(domain.Criteria))
		for _, c := range domain.Criteria {
			if n := acc.counts[c]; n > 0 {
				means[c] = domain.Mean{Value: acc.sums[c] / float64(n), N: n}
			} else {
				means[c] = domain.Mean{}
			}
		}

		records = append(records, domain.CompositeRecord{
			Instructor: key.instructor,
			Course:     key.course,
			Reviews:    acc.rows,
			Means:      means,
			Pedagogy: domain.MeanOf(
				means[domain.CriterionClarity],
				means[domain.CriterionOrganization],
			),
			Experience: domain.MeanOf(
				means[domain.CriterionStress].Invert(a.scale),
				means[domain.CriterionMotivation],
			),
		})
	}

	// Map iteration order is random; fix a stable base order so callers
	// see deterministic output before ranking applies its own order.
	sort.Slice(records, func(i, j int) bool {
		return records[i].Instructor < records[j].Instructor
	})
	return records
}
