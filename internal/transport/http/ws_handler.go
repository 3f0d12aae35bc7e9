package http

import (
	"net/http"

	"quizrank-service/internal/domain"
)

type outboundMessage struct {
	Type    string             `json:"type"`
	Payload domain.Leaderboard `json:"payload"`
}

// handleLeaderboardWS upgrades the request and streams ranked leaderboard
// snapshots for a quiz: one on connect (when standings exist) and one after
// each accepted submission. The stream is read-only; submissions stay REST.
func (s *Server) handleLeaderboardWS(w http.ResponseWriter, r *http.Request) {
	quizID := r.URL.Query().Get("quizId")
	if quizID == "" {
		writeMessage(w, http.StatusBadRequest, "missing quizId")
		return
	}

	updates, cancel, err := s.leaderboards.Watch(r.Context(), quizID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		cancel()
		s.log.Warn("ws upgrade failed", "err", err)
		return
	}
	defer conn.Close()
	defer cancel()

	closed := make(chan struct{})
	go func() {
		// Inbound frames are discarded; reading only detects the close.
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case lb, ok := <-updates:
			if !ok {
				return
			}
			if err := conn.WriteJSON(outboundMessage{Type: "leaderboard", Payload: lb}); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}
