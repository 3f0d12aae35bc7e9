package domain

import "time"

// Role distinguishes quiz takers from quiz authors.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Account is a registered user or admin.
type Account struct {
	ID        string
	Role      Role
	Username  string
	Name      string
	PassHash  []byte
	CreatedAt time.Time
}

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question. Authoring tools aim for exactly one
// correct option, but nothing enforces it; scoring tolerates zero or many.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []Option `json:"options"`
}

// Quiz is an ordered collection of questions with a human-entry join code.
type Quiz struct {
	ID        string     `json:"id"`
	AdminID   string     `json:"adminId"`
	Title     string     `json:"title"`
	Code      string     `json:"code"`
	Hidden    bool       `json:"hidden"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// QuizSummary is the listing view of a quiz (no question content).
type QuizSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Code      string `json:"code"`
	Hidden    bool   `json:"hidden"`
	AdminName string `json:"adminName,omitempty"`
}

// AnswerSelection is one submitted (question, option) pair.
type AnswerSelection struct {
	QuestionID string `json:"questionId"`
	OptionID   string `json:"selectedOptionId"`
}

// Submission is a user's full answer set for a quiz, with the client-reported
// elapsed time in seconds.
type Submission struct {
	Answers   []AnswerSelection
	TimeTaken int
}

// ScoreSummary is the outcome of scoring one submission.
type ScoreSummary struct {
	TotalAttended int `json:"totalAttended"`
	TotalCorrect  int `json:"totalCorrect"`
	TimeTaken     int `json:"timeTaken"`
}

// LeaderboardEntry is one user's recorded result for a quiz.
type LeaderboardEntry struct {
	UserID      string
	Name        string
	Username    string
	Score       int
	TimeTaken   int
	SubmittedAt time.Time
}

// RankedEntry is a leaderboard entry after rank assignment.
type RankedEntry struct {
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Score     int    `json:"score"`
	TimeTaken int    `json:"timeTaken"`
}

// Leaderboard is the ranked scoreboard for one quiz.
type Leaderboard struct {
	QuizID         string        `json:"quizId"`
	TotalQuestions int           `json:"totalQuestions"`
	Entries        []RankedEntry `json:"leaderboard"`
}
