package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizrank-service/internal/domain"
)

func (s *Server) handleResultsIndex(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.quizzes.ResultsIndex(r.Context(), "")
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleParticipation(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	summaries, err := s.scores.ParticipatedQuizzes(r.Context(), claims.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleUserResult(w http.ResponseWriter, r *http.Request) {
	lb, err := s.leaderboards.Leaderboard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (s *Server) handleAdminResultsIndex(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	summaries, err := s.quizzes.ResultsIndex(r.Context(), claims.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

// adminRankedEntry hides time-taken columns from the admin view. Presentation
// only; ranking is identical to the user view.
type adminRankedEntry struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type adminLeaderboardView struct {
	QuizID         string             `json:"quizId"`
	TotalQuestions int                `json:"totalQuestions"`
	Entries        []adminRankedEntry `json:"leaderboard"`
}

func (s *Server) handleAdminResult(w http.ResponseWriter, r *http.Request) {
	lb, err := s.leaderboards.Leaderboard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adminLeaderboardView{
		QuizID:         lb.QuizID,
		TotalQuestions: lb.TotalQuestions,
		Entries:        adminEntries(lb.Entries),
	})
}

func adminEntries(entries []domain.RankedEntry) []adminRankedEntry {
	out := make([]adminRankedEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, adminRankedEntry{Rank: e.Rank, Name: e.Name, Username: e.Username, Score: e.Score})
	}
	return out
}
