package store

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

// csvColumns maps the historical flat-file export's French headers to
// criteria. The legacy column order was:
// prof,cours,clarte,organisation,equite,aide,stress,motivation,cote_r.
var csvColumns = map[string]domain.Criterion{
	"clarte":       domain.CriterionClarity,
	"organisation": domain.CriterionOrganization,
	"equite":       domain.CriterionFairness,
	"aide":         domain.CriterionHelp,
	"stress":       domain.CriterionStress,
	"motivation":   domain.CriterionMotivation,
	"cote_r":       domain.CriterionImpact,
}

// ImportCSV loads a legacy avis.csv export into the store. The flat
// file carried no submitter identity or program, so each row gets a
// synthetic import token and the caller supplies the program. Rows
// whose numeric cells fail to parse keep their parseable values;
// the aggregation layer already treats out-of-range values as missing.
// Duplicate rows (conflicts) are skipped, not fatal.
//
// Returns the number of rows imported.
func ImportCSV(ctx context.Context, dst ports.ReviewStore, r io.Reader, program string) (int, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	profIdx, coursIdx := -1, -1
	criterionIdx := make(map[int]domain.Criterion)
	for i, col := range header {
		switch col {
		case "prof":
			profIdx = i
		case "cours":
			coursIdx = i
		default:
			if c, ok := csvColumns[col]; ok {
				criterionIdx[i] = c
			}
		}
	}
	if profIdx < 0 || coursIdx < 0 {
		return 0, fmt.Errorf("csv missing prof/cours columns, got %v", header)
	}

	imported := 0
	for row := 1; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read csv row %d: %w", row, err)
		}

		scores := make(map[domain.Criterion]float64, len(criterionIdx))
		for i, c := range criterionIdx {
			if i >= len(record) {
				continue
			}
			if v, err := strconv.ParseFloat(record[i], 64); err == nil {
				scores[c] = v
			}
		}

		review := domain.Review{
			Instructor:     record[profIdx],
			Program:        program,
			Course:         record[coursIdx],
			Scores:         scores,
			SubmitterToken: fmt.Sprintf("import-%d", row),
			SubmittedAt:    time.Now().UTC(),
		}
		if err := dst.Append(ctx, review); err != nil {
			var se *ports.StoreError
			if errors.As(err, &se) && se.IsConflict() {
				continue
			}
			return imported, fmt.Errorf("import csv row %d: %w", row, err)
		}
		imported++
	}
	return imported, nil
}
