package application

import (
	"fmt"

	"github.com/abeaupre/go-classement/internal/domain"
)

// Scorer applies a named weighting profile to CompositeRecords to
// produce the final ranking score. The profile catalog is fixed at
// construction and validated once; an unknown profile name at scoring
// time is an explicit failure, never a silent default.
type Scorer struct {
	scale    domain.Scale
	profiles map[string]domain.Profile
}

// NewScorer creates a Scorer over the given profile catalog. Every
// profile is validated up front; a malformed weight table (negative
// weight, sum not 1.0 within tolerance) fails construction.
func NewScorer(scale domain.Scale, profiles map[string]domain.Profile) (*Scorer, error) {
	if err := scale.Validate(); err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("%w: profile catalog is empty", domain.ErrInvalidConfiguration)
	}
	for name, p := range profiles {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if name != p.Name {
			return nil, fmt.Errorf("%w: profile registered as %q but named %q",
				domain.ErrInvalidConfiguration, name, p.Name)
		}
	}
	return &Scorer{scale: scale, profiles: profiles}, nil
}

// Profiles returns the catalog's profile names in sorted order.
func (s *Scorer) Profiles() []string { return domain.ProfileNames(s.profiles) }

// Score computes score_final for each record under the named profile.
// Records whose referenced sub-scores are all missing are dropped.
// The returned scores stay on the criterion scale at full precision.
//
// A weighted profile skips missing sub-scores and renormalizes over the
// weights of the sub-scores that are present, so a missing criterion is
// excluded rather than counted as zero and the result stays inside the
// scale bounds.
func (s *Scorer) Score(records []domain.CompositeRecord, profile string) ([]domain.RankedRecord, error) {
	p, ok := s.profiles[profile]
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)",
			domain.ErrUnknownProfile, profile, s.Profiles())
	}

	scored := make([]domain.RankedRecord, 0, len(records))
	for _, rec := range records {
		var final float64
		var ok bool
		if p.Ordinary {
			final, ok = s.ordinaryScore(rec)
		} else {
			final, ok = s.weightedScore(rec, p)
		}
		if !ok {
			continue
		}
		scored = append(scored, domain.RankedRecord{
			CompositeRecord: rec,
			ScoreFinal:      final,
		})
	}
	return scored, nil
}

// weightedScore computes the weighted sum of the profile's sub-scores,
// renormalized over the weights of present sub-scores.
func (s *Scorer) weightedScore(rec domain.CompositeRecord, p domain.Profile) (float64, bool) {
	var sum, weightSum float64
	for sub, w := range p.Weights {
		v := rec.SubScoreValue(sub, s.scale)
		if !v.Valid() {
			continue
		}
		sum += w * v.Value
		weightSum += w
	}
	if weightSum == 0 {
		return 0, false
	}
	return sum / weightSum, true
}

// ordinaryScore is the unweighted mean of all raw criteria with the
// negative ones inverted: clarity, organization, fairness, help,
// motivation, inverted stress, inverted impact.
func (s *Scorer) ordinaryScore(rec domain.CompositeRecord) (float64, bool) {
	operands := make([]domain.Mean, 0, len(domain.Criteria))
	for _, c := range domain.Criteria {
		m := rec.Means[c]
		if domain.NegativeCriteria[c] {
			m = m.Invert(s.scale)
		}
		operands = append(operands, m)
	}
	mean := domain.MeanOf(operands...)
	if !mean.Valid() {
		return 0, false
	}
	return mean.Value, true
}
