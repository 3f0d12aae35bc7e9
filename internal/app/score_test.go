package app_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"quizrank-service/internal/app"
	"quizrank-service/internal/domain"
	"quizrank-service/internal/infra/memory"
)

type testEnv struct {
	store        *memory.Store
	scores       *app.ScoreService
	leaderboards *app.LeaderboardService
	quizzes      *app.QuizService
	auth         *app.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := slog.New(slog.NewTextHandler(testWriter{t}, &slog.HandlerOptions{Level: slog.LevelError}))
	store := memory.NewStore()
	leaderboards := app.NewLeaderboardService(log, store, store)
	return &testEnv{
		store:        store,
		scores:       app.NewScoreService(log, store, store, leaderboards),
		leaderboards: leaderboards,
		quizzes:      app.NewQuizService(log, store, store, nil),
		auth:         app.NewAuthService(log, store, "test-secret", time.Hour),
	}
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

// mathQuiz is the two-question fixture: 2+2 (correct "4") and 5*1 (correct "5").
func mathQuiz() domain.Quiz {
	return domain.Quiz{
		ID:      "quiz-1",
		AdminID: "admin-1",
		Title:   "Basic Math",
		Code:    "12345678",
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "2 + 2 = ?",
				Options: []domain.Option{
					{ID: "q1-o1", Text: "3"},
					{ID: "q1-o2", Text: "4", Correct: true},
					{ID: "q1-o3", Text: "5"},
				},
			},
			{
				ID:   "q2",
				Text: "5 x 1 = ?",
				Options: []domain.Option{
					{ID: "q2-o1", Text: "5", Correct: true},
					{ID: "q2-o2", Text: "1"},
					{ID: "q2-o3", Text: "10"},
				},
			},
		},
	}
}

func seedQuiz(t *testing.T, env *testEnv, quiz domain.Quiz) {
	t.Helper()
	require.NoError(t, env.store.CreateQuiz(context.Background(), quiz))
}

func seedUser(t *testing.T, env *testEnv, id, username, name string) {
	t.Helper()
	require.NoError(t, env.store.SaveAccount(context.Background(), domain.Account{
		ID: id, Role: domain.RoleUser, Username: username, Name: name,
	}))
}

func TestSubmitAllCorrect(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{
			{QuestionID: "q1", OptionID: "q1-o2"},
			{QuestionID: "q2", OptionID: "q2-o1"},
		},
		TimeTaken: 30,
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalAttended)
	require.Equal(t, 2, summary.TotalCorrect)
	require.Equal(t, 30, summary.TimeTaken)
}

func TestSubmitPartialAttempt(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers:   []domain.AnswerSelection{{QuestionID: "q1", OptionID: "q1-o2"}},
		TimeTaken: 10,
	})
	require.NoError(t, err)
	require.Equal(t, 1, summary.TotalAttended)
	require.Equal(t, 1, summary.TotalCorrect)
}

func TestSubmitWrongAnswerCountsAttendedOnly(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{
			{QuestionID: "q1", OptionID: "q1-o2"}, // correct
			{QuestionID: "q2", OptionID: "q2-o2"}, // wrong
		},
		TimeTaken: 42,
	})
	require.NoError(t, err)
	require.Equal(t, domain.ScoreSummary{TotalAttended: 2, TotalCorrect: 1, TimeTaken: 42}, summary)
}

func TestSubmitEmptyRejected(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	_, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{})
	require.ErrorIs(t, err, domain.ErrEmptySubmission)

	// Nothing persisted: no leaderboard comes into existence.
	_, err = env.leaderboards.Leaderboard(context.Background(), "quiz-1")
	require.ErrorIs(t, err, domain.ErrLeaderboardNotFound)
}

func TestSubmitDuplicateAnswersLastWins(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{
			{QuestionID: "q1", OptionID: "q1-o2"}, // correct, overwritten below
			{QuestionID: "q1", OptionID: "q1-o1"}, // wrong, wins
			{QuestionID: "q2", OptionID: "q2-o1"}, // correct
		},
		TimeTaken: 15,
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalAttended, "duplicates collapse to one answer per question")
	require.Equal(t, 1, summary.TotalCorrect)
}

func TestSubmitUnknownIDsAreLenient(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{
			{QuestionID: "q1", OptionID: "no-such-option"},
			{QuestionID: "no-such-question", OptionID: "q2-o1"},
		},
		TimeTaken: 5,
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalAttended)
	require.Equal(t, 0, summary.TotalCorrect)
}

func TestSubmitQuestionWithoutCorrectOption(t *testing.T) {
	env := newTestEnv(t)
	quiz := mathQuiz()
	quiz.Questions[0].Options[1].Correct = false // q1 now has zero correct options
	seedQuiz(t, env, quiz)
	seedUser(t, env, "u1", "alice", "Alice")

	summary, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{
			{QuestionID: "q1", OptionID: "q1-o2"},
			{QuestionID: "q2", OptionID: "q2-o1"},
		},
		TimeTaken: 20,
	})
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalAttended)
	require.Equal(t, 1, summary.TotalCorrect, "no option of q1 can score")
}

func TestSubmitTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	sub := domain.Submission{
		Answers:   []domain.AnswerSelection{{QuestionID: "q1", OptionID: "q1-o2"}},
		TimeTaken: 9,
	}
	_, err := env.scores.Submit(context.Background(), "quiz-1", "u1", sub)
	require.NoError(t, err)

	_, err = env.scores.Submit(context.Background(), "quiz-1", "u1", sub)
	require.ErrorIs(t, err, domain.ErrAlreadySubmitted)
}

func TestSubmitUnknownQuiz(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "u1", "alice", "Alice")

	_, err := env.scores.Submit(context.Background(), "nope", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{{QuestionID: "q1", OptionID: "o1"}},
	})
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestSubmitHiddenQuizLooksMissing(t *testing.T) {
	env := newTestEnv(t)
	quiz := mathQuiz()
	quiz.Hidden = true
	seedQuiz(t, env, quiz)
	seedUser(t, env, "u1", "alice", "Alice")

	_, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers: []domain.AnswerSelection{{QuestionID: "q1", OptionID: "q1-o2"}},
	})
	require.ErrorIs(t, err, domain.ErrQuizNotFound)
}

func TestAttemptedAndParticipation(t *testing.T) {
	env := newTestEnv(t)
	seedQuiz(t, env, mathQuiz())
	seedUser(t, env, "u1", "alice", "Alice")

	_, err := env.scores.Submit(context.Background(), "quiz-1", "u1", domain.Submission{
		Answers:   []domain.AnswerSelection{{QuestionID: "q1", OptionID: "q1-o2"}},
		TimeTaken: 12,
	})
	require.NoError(t, err)

	ids, err := env.scores.AttemptedQuizIDs(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, []string{"quiz-1"}, ids)

	participated, err := env.scores.ParticipatedQuizzes(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, participated, 1)
	require.Equal(t, "Basic Math", participated[0].Title)
}
