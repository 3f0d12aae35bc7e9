package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizrank-service/internal/domain"
)

type messagePayload struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messagePayload{Message: message})
}

// writeError maps domain errors onto the response taxonomy. Store failures
// stay opaque to callers.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptySubmission),
		errors.Is(err, domain.ErrInvalidQuiz):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrQuizNotFound),
		errors.Is(err, domain.ErrLeaderboardNotFound),
		errors.Is(err, domain.ErrAccountNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadySubmitted),
		errors.Is(err, domain.ErrUsernameTaken):
		writeMessage(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		s.log.Error("request failed", "err", err)
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
