package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeaupre/go-classement/internal/domain"
)

func review(instructor, course string, scores map[domain.Criterion]float64) domain.Review {
	return domain.Review{
		Instructor:     instructor,
		Program:        "Sciences de la nature",
		Course:         course,
		Scores:         scores,
		SubmitterToken: "token-" + instructor + course,
	}
}

func fullScores(v float64) map[domain.Criterion]float64 {
	scores := make(map[domain.Criterion]float64, len(domain.Criteria))
	for _, c := range domain.Criteria {
		scores[c] = v
	}
	return scores
}

func TestAggregator_PedagogyMean(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	first := fullScores(5)
	first[domain.CriterionClarity] = 8
	first[domain.CriterionOrganization] = 6
	second := fullScores(5)
	second[domain.CriterionClarity] = 6
	second[domain.CriterionOrganization] = 8

	records := agg.Aggregate([]domain.Review{
		review("Dupont", "MATH101", first),
		review("Dupont", "MATH101", second),
	}, "MATH101")

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, "Dupont", rec.Instructor)
	assert.Equal(t, 2, rec.Reviews)
	assert.Equal(t, 7.0, rec.Means[domain.CriterionClarity].Value)
	assert.Equal(t, 7.0, rec.Means[domain.CriterionOrganization].Value)
	require.True(t, rec.Pedagogy.Valid())
	assert.Equal(t, 7.0, rec.Pedagogy.Value)
}

func TestAggregator_CoursesNeverMix(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	reviews := []domain.Review{
		review("Dupont", "MATH101", fullScores(9)),
		review("Dupont", "PHYS101", fullScores(2)),
	}

	math := agg.Aggregate(reviews, "MATH101")
	require.Len(t, math, 1)
	assert.Equal(t, 9.0, math[0].Means[domain.CriterionClarity].Value)

	phys := agg.Aggregate(reviews, "PHYS101")
	require.Len(t, phys, 1)
	assert.Equal(t, 2.0, phys[0].Means[domain.CriterionClarity].Value)
}

func TestAggregator_InvalidValuesAreMissing(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	bad := fullScores(6)
	bad[domain.CriterionClarity] = 99 // out of range, per-value missing
	good := fullScores(6)
	good[domain.CriterionClarity] = 4

	records := agg.Aggregate([]domain.Review{
		review("Dupont", "MATH101", bad),
		{
			Instructor:     "Dupont",
			Course:         "MATH101",
			Scores:         good,
			SubmitterToken: "other",
		},
	}, "MATH101")

	require.Len(t, records, 1)
	rec := records[0]
	// Clarity mean comes from the one valid value only.
	assert.Equal(t, domain.Mean{Value: 4, N: 1}, rec.Means[domain.CriterionClarity])
	// The other criteria average both rows.
	assert.Equal(t, domain.Mean{Value: 6, N: 2}, rec.Means[domain.CriterionFairness])
}

func TestAggregator_AllCriteriaMissingForGroup(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	scores := fullScores(5)
	delete(scores, domain.CriterionStress)
	delete(scores, domain.CriterionMotivation)

	records := agg.Aggregate([]domain.Review{review("Lavoie", "BIO101", scores)}, "BIO101")
	require.Len(t, records, 1)
	rec := records[0]

	assert.False(t, rec.Means[domain.CriterionStress].Valid())
	assert.False(t, rec.Means[domain.CriterionMotivation].Valid())
	// Experience references only missing inputs, so it is missing too.
	assert.False(t, rec.Experience.Valid())
	assert.True(t, rec.Pedagogy.Valid())
}

func TestAggregator_FullyInvalidRowExcluded(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	records := agg.Aggregate([]domain.Review{
		review("Fantome", "MATH101", fullScores(-3)), // every value out of range
	}, "MATH101")
	assert.Empty(t, records)
}

func TestAggregator_ExperienceInvertsStress(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	scores := fullScores(5)
	scores[domain.CriterionStress] = 2     // inverted to 8
	scores[domain.CriterionMotivation] = 6 // experience = (8+6)/2 = 7

	records := agg.Aggregate([]domain.Review{review("Roy", "CHIM101", scores)}, "CHIM101")
	require.Len(t, records, 1)
	assert.Equal(t, 7.0, records[0].Experience.Value)
}

func TestAggregator_EmptyCollection(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())
	assert.Empty(t, agg.Aggregate(nil, "MATH101"))
}

func TestAggregator_StableOutputOrder(t *testing.T) {
	agg := NewAggregator(domain.DefaultScale())

	reviews := []domain.Review{
		review("Zidane", "MATH101", fullScores(5)),
		review("Allard", "MATH101", fullScores(5)),
		review("Morin", "MATH101", fullScores(5)),
	}
	records := agg.Aggregate(reviews, "MATH101")
	require.Len(t, records, 3)
	assert.Equal(t, "Allard", records[0].Instructor)
	assert.Equal(t, "Morin", records[1].Instructor)
	assert.Equal(t, "Zidane", records[2].Instructor)
}
