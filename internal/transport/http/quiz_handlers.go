package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
)

// optionView and questionView are the quiz-taker's view of quiz content.
// Correct flags never leave the server here.
type optionView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionView struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []optionView `json:"options"`
}

type quizView struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Code      string         `json:"code"`
	Questions []questionView `json:"questions"`
}

func userQuizView(quiz domain.Quiz) quizView {
	view := quizView{ID: quiz.ID, Title: quiz.Title, Code: quiz.Code}
	for _, q := range quiz.Questions {
		qv := questionView{ID: q.ID, Text: q.Text}
		for _, opt := range q.Options {
			qv.Options = append(qv.Options, optionView{ID: opt.ID, Text: opt.Text})
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

type createQuizRequest struct {
	Title     string              `json:"title"`
	Code      string              `json:"code"`
	Questions []app.QuestionInput `json:"questions"`
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := claimsFrom(r.Context())
	quiz, err := s.quizzes.Create(r.Context(), claims.AccountID, req.Title, req.Code, req.Questions)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, struct {
		Message string      `json:"message"`
		Quiz    domain.Quiz `json:"quiz"`
	}{Message: "quiz created", Quiz: quiz})
}

func (s *Server) handleAdminQuizzes(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	summaries, err := s.quizzes.ListForAdmin(r.Context(), claims.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleAdminQuiz(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	quiz, err := s.quizzes.QuizForAdmin(r.Context(), mux.Vars(r)["id"], claims.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

type visibilityRequest struct {
	Hidden bool `json:"hidden"`
}

func (s *Server) handleSetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := claimsFrom(r.Context())
	if err := s.quizzes.SetVisibility(r.Context(), mux.Vars(r)["id"], claims.AccountID, req.Hidden); err != nil {
		s.writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "quiz visibility updated")
}

func (s *Server) handleVisibleQuizzes(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.quizzes.ListVisible(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleQuizByCode(w http.ResponseWriter, r *http.Request) {
	summary, err := s.quizzes.FindByCode(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUserQuiz(w http.ResponseWriter, r *http.Request) {
	quiz, err := s.quizzes.QuizForUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userQuizView(quiz))
}

type submitRequest struct {
	Responses []domain.AnswerSelection `json:"responses"`
	TimeTaken int                      `json:"timeTaken"`
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := decodeBody(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims := claimsFrom(r.Context())
	summary, err := s.scores.Submit(r.Context(), mux.Vars(r)["id"], claims.AccountID, domain.Submission{
		Answers:   req.Responses,
		TimeTaken: req.TimeTaken,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAttempted(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	ids, err := s.scores.AttemptedQuizIDs(r.Context(), claims.AccountID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		QuizIDs []string `json:"quizIds"`
	}{QuizIDs: ids})
}
