package domain

import "errors"

var (
	// ErrQuizNotFound indicates the quiz content could not be loaded.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrLeaderboardNotFound is returned when a quiz has no submissions yet.
	// Distinct from an empty leaderboard; callers branch on it.
	ErrLeaderboardNotFound = errors.New("leaderboard not found")
	// ErrEmptySubmission is returned when no questions were attempted.
	ErrEmptySubmission = errors.New("no questions attempted")
	// ErrAlreadySubmitted is returned when a user submits a quiz twice.
	ErrAlreadySubmitted = errors.New("quiz already submitted")
	// ErrInvalidCredentials is returned on a failed signin.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when a signup reuses a username.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAccountNotFound is returned when no account matches a lookup.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidQuiz is returned when a quiz definition fails validation.
	ErrInvalidQuiz = errors.New("invalid quiz definition")
	// ErrInvalidToken is returned when an auth token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)
