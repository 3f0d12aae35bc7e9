package http

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
)

// Server wires the quiz use cases into an HTTP surface.
type Server struct {
	log          *slog.Logger
	auth         *app.AuthService
	quizzes      *app.QuizService
	scores       *app.ScoreService
	leaderboards *app.LeaderboardService
	upgrader     websocket.Upgrader
}

func NewServer(log *slog.Logger, auth *app.AuthService, quizzes *app.QuizService, scores *app.ScoreService, leaderboards *app.LeaderboardService) *Server {
	return &Server{
		log:          log,
		auth:         auth,
		quizzes:      quizzes,
		scores:       scores,
		leaderboards: leaderboards,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router builds the full route table. Routes match in registration order, so
// the viacode lookup is registered before the {id} pattern.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/user/signup", s.handleSignup(domain.RoleUser)).Methods(http.MethodPost)
	r.HandleFunc("/user/signin", s.handleSignin(domain.RoleUser)).Methods(http.MethodPost)
	r.HandleFunc("/admin/signup", s.handleSignup(domain.RoleAdmin)).Methods(http.MethodPost)
	r.HandleFunc("/admin/signin", s.handleSignin(domain.RoleAdmin)).Methods(http.MethodPost)

	r.HandleFunc("/user/quiz/viacode/{code}", s.requireRole(domain.RoleUser, s.handleQuizByCode)).Methods(http.MethodGet)
	r.HandleFunc("/user/quiz/{id}", s.requireRole(domain.RoleUser, s.handleUserQuiz)).Methods(http.MethodGet)
	r.HandleFunc("/user/quiz/{id}", s.requireRole(domain.RoleUser, s.handleSubmit)).Methods(http.MethodPost)
	r.HandleFunc("/user/quiz", s.requireRole(domain.RoleUser, s.handleVisibleQuizzes)).Methods(http.MethodGet)
	r.HandleFunc("/user/attempted", s.requireRole(domain.RoleUser, s.handleAttempted)).Methods(http.MethodGet)
	r.HandleFunc("/user/results/{id}", s.requireRole(domain.RoleUser, s.handleUserResult)).Methods(http.MethodGet)
	r.HandleFunc("/user/results", s.requireRole(domain.RoleUser, s.handleResultsIndex)).Methods(http.MethodGet)
	r.HandleFunc("/user/participation", s.requireRole(domain.RoleUser, s.handleParticipation)).Methods(http.MethodGet)

	r.HandleFunc("/admin/quiz/{id}/visibility", s.requireRole(domain.RoleAdmin, s.handleSetVisibility)).Methods(http.MethodPatch)
	r.HandleFunc("/admin/quiz/{id}", s.requireRole(domain.RoleAdmin, s.handleAdminQuiz)).Methods(http.MethodGet)
	r.HandleFunc("/admin/quiz", s.requireRole(domain.RoleAdmin, s.handleAdminQuizzes)).Methods(http.MethodGet)
	r.HandleFunc("/admin/quiz", s.requireRole(domain.RoleAdmin, s.handleCreateQuiz)).Methods(http.MethodPost)
	r.HandleFunc("/admin/results/{id}", s.requireRole(domain.RoleAdmin, s.handleAdminResult)).Methods(http.MethodGet)
	r.HandleFunc("/admin/results", s.requireRole(domain.RoleAdmin, s.handleAdminResultsIndex)).Methods(http.MethodGet)

	r.HandleFunc("/ws/leaderboard", s.handleLeaderboardWS).Methods(http.MethodGet)

	return r
}
