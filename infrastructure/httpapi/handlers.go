package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/abeaupre/go-classement/infrastructure/identity"
	"github.com/abeaupre/go-classement/internal/application"
	"github.com/abeaupre/go-classement/internal/domain"
)

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

// handleSubmit accepts one review submission.
// 201 on success, 422 on validation failure, 409 on duplicate vote.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub application.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body", nil)
		return
	}

	review, err := s.submissions.Submit(r.Context(), sub)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			writeError(w, http.StatusUnprocessableEntity, "submission rejected", ve.Errors)
		case errors.Is(err, domain.ErrDuplicateSubmission):
			writeError(w, http.StatusConflict, "a review from this submitter already exists for this instructor", nil)
		default:
			s.logger.Error("submit failed", "err", err)
			writeError(w, http.StatusInternalServerError, "persistence failure, review not saved", nil)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"instructor": review.Instructor,
		"course":     review.Course,
	})
}

// rankingRecord is the presentation DTO: scores rounded to the fixed
// two-decimal display precision.
type rankingRecord struct {
	Rank       int      `json:"rank"`
	Instructor string   `json:"instructor"`
	Course     string   `json:"course"`
	Reviews    int      `json:"reviews"`
	ScoreFinal float64  `json:"score_final"`
	Pedagogy   *float64 `json:"pedagogy,omitempty"`
	Impact     *float64 `json:"impact,omitempty"`
	Fairness   *float64 `json:"fairness,omitempty"`
	Help       *float64 `json:"help,omitempty"`
	Experience *float64 `json:"experience,omitempty"`
}

// handleRankings serves the ranked list plus the top-3 highlight slice.
// An unknown profile yields 422 "ranking unavailable".
func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	course := r.URL.Query().Get("course")
	profile := r.URL.Query().Get("profile")
	if course == "" || profile == "" {
		writeError(w, http.StatusBadRequest, "course and profile query parameters are required", nil)
		return
	}

	ranking, err := s.rankings.Rank(r.Context(), course, profile)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownProfile) || errors.Is(err, domain.ErrInvalidConfiguration) {
			writeError(w, http.StatusUnprocessableEntity, "ranking unavailable: "+err.Error(), nil)
			return
		}
		s.logger.Error("ranking failed", "course", course, "profile", profile, "err", err)
		writeError(w, http.StatusInternalServerError, "ranking unavailable", nil)
		return
	}

	records := make([]rankingRecord, 0, len(ranking.Records))
	scale := s.scale
	for _, rec := range ranking.Records {
		records = append(records, rankingRecord{
			Rank:       rec.Rank,
			Instructor: rec.Instructor,
			Course:     rec.Course,
			Reviews:    rec.Reviews,
			ScoreFinal: application.DisplayScore(rec.ScoreFinal),
			Pedagogy:   displayMean(rec.SubScoreValue(domain.SubScorePedagogy, scale)),
			Impact:     displayMean(rec.SubScoreValue(domain.SubScoreImpact, scale)),
			Fairness:   displayMean(rec.SubScoreValue(domain.SubScoreFairness, scale)),
			Help:       displayMean(rec.SubScoreValue(domain.SubScoreHelp, scale)),
			Experience: displayMean(rec.SubScoreValue(domain.SubScoreExperience, scale)),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"course":  ranking.Course,
		"profile": ranking.Profile,
		"records": records,
		"top":     ranking.Top,
	})
}

// handlePrograms serves the static program catalog.
func (s *Server) handlePrograms(w http.ResponseWriter, _ *http.Request) {
	programs := make(map[string][]string)
	for _, p := range s.catalog.Programs() {
		courses, _ := s.catalog.Courses(p)
		programs[p] = courses
	}
	writeJSON(w, http.StatusOK, map[string]any{"programs": programs})
}

// handleProfiles serves the available profile names.
func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"profiles": s.rankings.Profiles()})
}

// handleSession mints an opaque session token for the session identity
// strategy.
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	token, err := identity.NewSessionToken()
	if err != nil {
		s.logger.Error("mint session token", "err", err)
		writeError(w, http.StatusInternalServerError, "could not create session", nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string, details []string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

func displayMean(m domain.Mean) *float64 {
	if !m.Valid() {
		return nil
	}
	v := application.DisplayScore(m.Value)
	return &v
}
