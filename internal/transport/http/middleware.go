package http

import (
	"context"
	"net/http"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
)

type claimsContextKey struct{}

// requireRole verifies the token header and checks the caller's role. The
// token travels in a bare "token" header, matching the existing clients.
func (s *Server) requireRole(role domain.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("token")
		if token == "" {
			writeMessage(w, http.StatusBadRequest, "token missing")
			return
		}
		claims, err := s.auth.VerifyToken(token)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Role != role {
			writeMessage(w, http.StatusUnauthorized, "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
		next(w, r.WithContext(ctx))
	}
}

func claimsFrom(ctx context.Context) app.Claims {
	claims, _ := ctx.Value(claimsContextKey{}).(app.Claims)
	return claims
}
