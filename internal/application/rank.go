package application

import (
	"math"
	"sort"

	"github.com/abeaupre/go-classement/internal/domain"
)

// HighlightSize is the size of the top slice exposed for highlight
// display (charting).
const HighlightSize = 3

// Ranking is what the presentation layer receives: the full ordered
// list plus the top-N highlight slice. The engine performs no rendering.
type Ranking struct {
	// Course is the course the ranking was computed for.
	Course string `json:"course"`

	// Profile is the weighting profile applied.
	Profile string `json:"profile"`

	// Records is the full list, descending by ScoreFinal with ties
	// broken by ascending instructor name, Rank assigned 1-based.
	Records []domain.RankedRecord `json:"records"`

	// Top is the leading HighlightSize records for chart rendering.
	Top []Highlight `json:"top"`
}

// Highlight is the minimal chart payload for one top instructor.
type Highlight struct {
	Instructor string  `json:"instructor"`
	Score      float64 `json:"score"`
}

// Rank sorts scored records into their deterministic display order and
// assigns 1-based positions. Ordering is a total order: descending
// score_final, then ascending instructor name for equal scores.
func Rank(course, profile string, scored []domain.RankedRecord) Ranking {
	records := make([]domain.RankedRecord, len(scored))
	copy(records, scored)

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].ScoreFinal != records[j].ScoreFinal {
			return records[i].ScoreFinal > records[j].ScoreFinal
		}
		return records[i].Instructor < records[j].Instructor
	})
	for i := range records {
		records[i].Rank = i + 1
	}

	top := make([]Highlight, 0, HighlightSize)
	for i := 0; i < len(records) && i < HighlightSize; i++ {
		top = append(top, Highlight{
			Instructor: records[i].Instructor,
			Score:      DisplayScore(records[i].ScoreFinal),
		})
	}

	return Ranking{
		Course:  course,
		Profile: profile,
		Records: records,
		Top:     top,
	}
}

// DisplayScore rounds a score to the fixed display precision of two
// decimal places. Internal computation always keeps full precision;
// only presentation values pass through here.
func DisplayScore(v float64) float64 {
	return math.Round(v*100) / 100
}
