package http

import (
	"net/http"
	"strings"

	"quizrank-service/internal/domain"
)

type signupRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type signinRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type accountView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func (s *Server) handleSignup(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
			writeMessage(w, http.StatusBadRequest, "username and password are required")
			return
		}

		account, err := s.auth.Register(r.Context(), role, req.Username, req.Name, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, struct {
			Message string      `json:"message"`
			Account accountView `json:"account"`
		}{
			Message: "account created",
			Account: accountView{ID: account.ID, Username: account.Username, Name: account.Name},
		})
	}
}

func (s *Server) handleSignin(role domain.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signinRequest
		if err := decodeBody(r, &req); err != nil {
			writeMessage(w, http.StatusBadRequest, "invalid request body")
			return
		}

		token, account, err := s.auth.Login(r.Context(), role, req.Username, req.Password)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, struct {
			Message string      `json:"message"`
			Token   string      `json:"token"`
			Account accountView `json:"account"`
		}{
			Message: "signin successful",
			Token:   token,
			Account: accountView{ID: account.ID, Username: account.Username, Name: account.Name},
		})
	}
}
