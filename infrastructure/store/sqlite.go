package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/abeaupre/go-classement/internal/domain"
	"github.com/abeaupre/go-classement/internal/ports"
)

var _ ports.ReviewStore = (*SQLiteStore)(nil)

// Schema for the reviews table. The UNIQUE constraint on
// (submitter_token, instructor) is the authoritative duplicate-vote
// guard: two concurrent submissions that both pass the application's
// fast-path check cannot both commit.
const Schema = `
CREATE TABLE IF NOT EXISTS reviews (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	instructor TEXT NOT NULL,
	program TEXT NOT NULL,
	course TEXT NOT NULL,
	clarity REAL,
	organization REAL,
	fairness REAL,
	help REAL,
	stress REAL,
	motivation REAL,
	impact REAL,
	submitter_token TEXT NOT NULL,
	submitted_at INTEGER NOT NULL,
	UNIQUE (submitter_token, instructor)
);
CREATE INDEX IF NOT EXISTS idx_reviews_course ON reviews(course);
CREATE INDEX IF NOT EXISTS idx_reviews_instructor ON reviews(instructor);
`

// SQLiteStore persists reviews in a SQLite database using the pure-Go
// modernc.org/sqlite driver.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if necessary) the database at path and
// applies the schema. Use ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, ports.NewStoreError("sqlite", "open", err)
	}
	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent submissions.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Init creates the reviews table if it doesn't exist.
func (s *SQLiteStore) Init() error {
	if _, err := s.db.Exec(Schema); err != nil {
		return ports.NewStoreError("sqlite", "init", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Append inserts a review. A violation of the uniqueness constraint is
// reported as a conflict StoreError, which the application maps to a
// duplicate submission rather than a fatal error.
func (s *SQLiteStore) Append(ctx context.Context, review domain.Review) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reviews (
			instructor, program, course,
			clarity, organization, fairness, help, stress, motivation, impact,
			submitter_token, submitted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		review.Instructor, review.Program, review.Course,
		nullableScore(review, domain.CriterionClarity),
		nullableScore(review, domain.CriterionOrganization),
		nullableScore(review, domain.CriterionFairness),
		nullableScore(review, domain.CriterionHelp),
		nullableScore(review, domain.CriterionStress),
		nullableScore(review, domain.CriterionMotivation),
		nullableScore(review, domain.CriterionImpact),
		review.SubmitterToken, review.SubmittedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ports.NewStoreError("sqlite", "append", ports.ErrConflict)
		}
		return ports.NewStoreError("sqlite", "append", fmt.Errorf("%w: %v", ports.ErrIO, err))
	}
	return nil
}

// ScanAll returns every persisted review. Order follows insertion but
// callers must not rely on it.
func (s *SQLiteStore) ScanAll(ctx context.Context) ([]domain.Review, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT instructor, program, course,
			clarity, organization, fairness, help, stress, motivation, impact,
			submitter_token, submitted_at
		FROM reviews ORDER BY id`)
	if err != nil {
		return nil, ports.NewStoreError("sqlite", "scan", fmt.Errorf("%w: %v", ports.ErrIO, err))
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var (
			r         domain.Review
			scores    [7]sql.NullFloat64
			submitted int64
		)
		if err := rows.Scan(
			&r.Instructor, &r.Program, &r.Course,
			&scores[0], &scores[1], &scores[2], &scores[3], &scores[4], &scores[5], &scores[6],
			&r.SubmitterToken, &submitted,
		); err != nil {
			return nil, ports.NewStoreError("sqlite", "scan", fmt.Errorf("%w: %v", ports.ErrIO, err))
		}
		r.SubmittedAt = time.Unix(submitted, 0).UTC()
		r.Scores = make(map[domain.Criterion]float64, len(domain.Criteria))
		for i, c := range domain.Criteria {
			if scores[i].Valid {
				r.Scores[c] = scores[i].Float64
			}
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, ports.NewStoreError("sqlite", "scan", fmt.Errorf("%w: %v", ports.ErrIO, err))
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}

func nullableScore(r domain.Review, c domain.Criterion) any {
	if v, ok := r.Scores[c]; ok {
		return v
	}
	return nil
}

// isUniqueViolation detects SQLITE_CONSTRAINT_UNIQUE without depending
// on driver-internal error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
