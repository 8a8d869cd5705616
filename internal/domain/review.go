// Package domain contains pure, dependency-free domain models and types
// for the review ranking engine.
package domain

import "time"

// Criterion identifies one rated dimension of a review.
type Criterion string

// The fixed set of rated criteria. Stress and Impact are negatively
// oriented: a high raw value is bad and must be inverted before it is
// combined into a sub-score or final score.
const (
	// CriterionClarity rates how clearly the instructor explains material.
	CriterionClarity Criterion = "clarity"

	// CriterionOrganization rates course structure and preparation.
	CriterionOrganization Criterion = "organization"

	// CriterionFairness rates grading equity and exam fairness.
	CriterionFairness Criterion = "fairness"

	// CriterionHelp rates availability and willingness to help.
	CriterionHelp Criterion = "help"

	// CriterionStress rates how stressful the course is (negative).
	CriterionStress Criterion = "stress"

	// CriterionMotivation rates how motivating the instructor is.
	CriterionMotivation Criterion = "motivation"

	// CriterionImpact rates the penalty on the student's academic
	// standing (negative).
	CriterionImpact Criterion = "impact"
)

// Criteria lists every criterion in canonical order.
// The order is stable and used wherever criteria are iterated.
var Criteria = []Criterion{
	CriterionClarity,
	CriterionOrganization,
	CriterionFairness,
	CriterionHelp,
	CriterionStress,
	CriterionMotivation,
	CriterionImpact,
}

// NegativeCriteria marks the criteria whose raw values are inverted
// before entering any composite.
var NegativeCriteria = map[Criterion]bool{
	CriterionStress: true,
	CriterionImpact: true,
}

// Review is one immutable student submission about an instructor for a
// specific course. Reviews are never updated or deleted once stored.
type Review struct {
	// Instructor is the canonical instructor name, post name resolution.
	Instructor string `json:"instructor"`

	// Program is the academic program the course belongs to.
	Program string `json:"program"`

	// Course is the course code within Program.
	Course string `json:"course"`

	// Scores holds the raw criterion values. Values outside the
	// configured scale are tolerated in stored data and treated as
	// missing during aggregation.
	Scores map[Criterion]float64 `json:"scores"`

	// SubmitterToken is the opaque identity of the reviewer. Exactly one
	// review may exist per (SubmitterToken, Instructor) pair.
	SubmitterToken string `json:"submitter_token"`

	// SubmittedAt records when the review was accepted.
	SubmittedAt time.Time `json:"submitted_at"`
}

// Score returns the raw value for criterion c and whether it is present
// and within the given scale. Out-of-range values are reported as absent
// so that a malformed stored value never contaminates an average.
func (r Review) Score(c Criterion, scale Scale) (float64, bool) {
	v, ok := r.Scores[c]
	if !ok || !scale.Contains(v) {
		return 0, false
	}
	return v, true
}
