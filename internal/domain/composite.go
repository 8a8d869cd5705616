package domain

// Mean is an average together with the number of observations behind it.
// N == 0 means the value is missing: the instructor/course group had no
// valid observation for the criterion. Missing means are excluded from
// every downstream composite, never treated as zero.
type Mean struct {
	Value float64 `json:"value"`
	N     int     `json:"n"`
}

// Valid reports whether the mean is backed by at least one observation.
func (m Mean) Valid() bool { return m.N > 0 }

// MeanOf averages the valid operands. The result is missing when every
// operand is missing. The observation count of the result is the sum of
// the operands' counts.
func MeanOf(means ...Mean) Mean {
	var sum float64
	var n, parts int
	for _, m := range means {
		if !m.Valid() {
			continue
		}
		sum += m.Value
		n += m.N
		parts++
	}
	if parts == 0 {
		return Mean{}
	}
	return Mean{Value: sum / float64(parts), N: n}
}

// Invert reflects a mean across the scale midpoint, preserving the
// observation count. Missing stays missing.
func (m Mean) Invert(scale Scale) Mean {
	if !m.Valid() {
		return m
	}
	return Mean{Value: scale.Invert(m.Value), N: m.N}
}

// CompositeRecord is the per-(instructor, course) aggregate derived from
// the review collection. It is transient: recomputed on every ranking
// request, never persisted.
type CompositeRecord struct {
	// Instructor is the canonical instructor name.
	Instructor string `json:"instructor"`

	// Course is the course the averages were computed for. An
	// instructor's record for one course never mixes in their reviews
	// for another course.
	Course string `json:"course"`

	// Reviews is the number of reviews in the group.
	Reviews int `json:"reviews"`

	// Means holds the per-criterion averages over valid values only.
	Means map[Criterion]Mean `json:"means"`

	// Pedagogy is mean(clarity, organization).
	Pedagogy Mean `json:"pedagogy"`

	// Experience is mean(invert(stress), motivation).
	Experience Mean `json:"experience"`
}

// SubScore names one weighted component of a profile.
type SubScore string

// The sub-scores a weighting profile may reference.
const (
	SubScorePedagogy   SubScore = "pedagogy"
	SubScoreImpact     SubScore = "impact" // inverted before weighting
	SubScoreFairness   SubScore = "fairness"
	SubScoreHelp       SubScore = "help"
	SubScoreExperience SubScore = "experience"
)

// SubScoreValue returns the named sub-score for the record. Negative
// criteria are already inverted here, so every returned value is
// positively oriented on the given scale.
func (cr CompositeRecord) SubScoreValue(name SubScore, scale Scale) Mean {
	switch name {
	case SubScorePedagogy:
		return cr.Pedagogy
	case SubScoreImpact:
		return cr.Means[CriterionImpact].Invert(scale)
	case SubScoreFairness:
		return cr.Means[CriterionFairness]
	case SubScoreHelp:
		return cr.Means[CriterionHelp]
	case SubScoreExperience:
		return cr.Experience
	default:
		return Mean{}
	}
}

// RankedRecord is a CompositeRecord with its final profile score and
// 1-based display position.
type RankedRecord struct {
	CompositeRecord

	// ScoreFinal is the profile-weighted score on the criterion scale.
	// Full precision is kept internally; rounding to two decimals
	// happens only in the presentation layer.
	ScoreFinal float64 `json:"score_final"`

	// Rank is the 1-based position after deterministic ordering.
	Rank int `json:"rank"`
}
