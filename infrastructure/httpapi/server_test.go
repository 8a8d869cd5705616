package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abeaupre/go-classement/infrastructure/identity"
	"github.com/abeaupre/go-classement/infrastructure/matching"
	"github.com/abeaupre/go-classement/infrastructure/store"
	"github.com/abeaupre/go-classement/internal/application"
	"github.com/abeaupre/go-classement/internal/domain"
)

func newTestServer(t *testing.T, opts Options) (*Server, *store.MemoryStore) {
	t.Helper()

	mem := store.NewMemoryStore()
	resolver, err := matching.NewLevenshteinResolver(matching.DefaultThreshold)
	require.NoError(t, err)
	catalog := application.DefaultCatalog()
	scale := domain.DefaultScale()

	submissions, err := application.NewSubmissionService(
		mem, resolver, identity.NewSessionStrategy(), catalog, scale, nil)
	require.NoError(t, err)
	rankings, err := application.NewRankingService(
		mem, scale, domain.BuiltinProfiles(), nil)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(submissions, rankings, catalog, scale, logger, opts), mem
}

func submitBody(token, instructor string, scores map[string]float64) []byte {
	body, _ := json.Marshal(map[string]any{
		"instructor":      instructor,
		"program":         "Sciences de la nature",
		"course":          "MATH101",
		"scores":          scores,
		"submitter_token": token,
	})
	return body
}

func fullScoreSet() map[string]float64 {
	return map[string]float64{
		"clarity": 8, "organization": 7, "fairness": 8, "help": 6,
		"stress": 3, "motivation": 8, "impact": 2,
	}
}

func postReview(t *testing.T, h http.Handler, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/reviews", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSubmitEndpoint(t *testing.T) {
	srv, mem := newTestServer(t, Options{})
	h := srv.Handler()

	rec := postReview(t, h, submitBody("alice", "Jean Tremblay", fullScoreSet()))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Jean Tremblay", created["instructor"])
	assert.Equal(t, "MATH101", created["course"])
	assert.Equal(t, 1, mem.Len())

	// A misspelled resubmission from the same reviewer is a duplicate.
	rec = postReview(t, h, submitBody("alice", "jean  tremblay", fullScoreSet()))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, mem.Len())

	// A different reviewer may review the same instructor.
	rec = postReview(t, h, submitBody("bob", "Jean Tremblay", fullScoreSet()))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 2, mem.Len())
}

func TestSubmitEndpoint_Rejections(t *testing.T) {
	srv, mem := newTestServer(t, Options{})
	h := srv.Handler()

	t.Run("malformed body", func(t *testing.T) {
		rec := postReview(t, h, []byte("{not json"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing criterion", func(t *testing.T) {
		scores := fullScoreSet()
		delete(scores, "stress")
		rec := postReview(t, h, submitBody("carol", "Jean Tremblay", scores))
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("out of range score", func(t *testing.T) {
		scores := fullScoreSet()
		scores["clarity"] = 11
		rec := postReview(t, h, submitBody("carol", "Jean Tremblay", scores))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("course outside program", func(t *testing.T) {
		body, _ := json.Marshal(map[string]any{
			"instructor":      "Jean Tremblay",
			"program":         "Sciences humaines",
			"course":          "MATH101",
			"scores":          fullScoreSet(),
			"submitter_token": "carol",
		})
		rec := postReview(t, h, body)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	assert.Equal(t, 0, mem.Len())
}

func TestRankingsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	// Four reviewers across two instructors in the same course.
	for i, instructor := range []string{"Jean Tremblay", "Jean Tremblay", "Marie Curie", "Marie Curie"} {
		scores := fullScoreSet()
		if instructor == "Marie Curie" {
			scores["clarity"] = 10
			scores["organization"] = 10
		}
		rec := postReview(t, h, submitBody(fmt.Sprintf("reviewer-%d", i), instructor, scores))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rankings?course=MATH101&profile=cote_r", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Course  string                  `json:"course"`
		Profile string                  `json:"profile"`
		Records []rankingRecord         `json:"records"`
		Top     []application.Highlight `json:"top"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, "MATH101", resp.Course)
	assert.Equal(t, "cote_r", resp.Profile)
	require.Len(t, resp.Records, 2)

	// Curie's higher pedagogy scores put her first under cote_r.
	assert.Equal(t, "Marie Curie", resp.Records[0].Instructor)
	assert.Equal(t, 1, resp.Records[0].Rank)
	assert.Equal(t, "Jean Tremblay", resp.Records[1].Instructor)
	assert.Equal(t, 2, resp.Records[1].Rank)
	assert.Equal(t, 2, resp.Records[0].Reviews)
	assert.Greater(t, resp.Records[0].ScoreFinal, resp.Records[1].ScoreFinal)
	require.NotNil(t, resp.Records[0].Pedagogy)
	assert.Equal(t, 10.0, *resp.Records[0].Pedagogy)

	require.Len(t, resp.Top, 2)
	assert.Equal(t, "Marie Curie", resp.Top[0].Instructor)
}

func TestRankingsEndpoint_Errors(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	t.Run("missing params", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rankings?course=MATH101", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown profile", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rankings?course=MATH101&profile=bogus", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("empty course ranks to empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/rankings?course=BIO101&profile=ordinaire", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Records []rankingRecord `json:"records"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Empty(t, resp.Records)
	})
}

func TestCatalogEndpoints(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	t.Run("programs", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/programs", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Programs map[string][]string `json:"programs"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Programs, "Sciences de la nature")
		assert.Contains(t, resp.Programs["Sciences de la nature"], "MATH101")
	})

	t.Run("profiles", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/profiles", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Profiles []string `json:"profiles"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Profiles, domain.ProfileCoteR)
		assert.Contains(t, resp.Profiles, domain.ProfileOrdinaire)
	})

	t.Run("session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp["token"], 32)
	})

	t.Run("healthz", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestSubmitRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{SubmissionsPerMinute: 2})
	h := srv.Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := postReview(t, h, submitBody(fmt.Sprintf("limited-%d", i), fmt.Sprintf("Prof %d", i), fullScoreSet()))
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusCreated, codes[0])
	assert.Equal(t, http.StatusCreated, codes[1])
	assert.Equal(t, http.StatusTooManyRequests, codes[2])
}
