package app

import (
	"context"
	"fmt"
	"log/slog"

	"quizrank-service/internal/domain"
)

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// SubmissionStore persists submissions and serves recorded results.
// RecordSubmission is all-or-nothing: responses, the lazily created
// leaderboard, and the entry land together or not at all. A second
// submission by the same user returns domain.ErrAlreadySubmitted.
type SubmissionStore interface {
	RecordSubmission(ctx context.Context, quizID, userID string, answers []domain.AnswerSelection, score, timeTaken int) error
	LeaderboardEntries(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, error)
	AttemptedQuizIDs(ctx context.Context, userID string) ([]string, error)
	ParticipatedQuizzes(ctx context.Context, userID string) ([]domain.QuizSummary, error)
}

// LeaderboardNotifier lets the score engine push fresh standings to watchers.
type LeaderboardNotifier interface {
	Notify(ctx context.Context, quizID string)
}

// ScoreService scores submissions and records timed leaderboard entries.
type ScoreService struct {
	log      *slog.Logger
	quizzes  QuizRepository
	store    SubmissionStore
	notifier LeaderboardNotifier
}

func NewScoreService(log *slog.Logger, quizzes QuizRepository, store SubmissionStore, notifier LeaderboardNotifier) *ScoreService {
	return &ScoreService{log: log, quizzes: quizzes, store: store, notifier: notifier}
}

// Submit scores a user's answers against the quiz schema and persists the
// result. Answers are deduped per question (last write wins) before counting,
// so totalAttended is the number of distinct questions answered. Unknown
// question or option IDs count as attended but never as correct.
func (s *ScoreService) Submit(ctx context.Context, quizID, userID string, sub domain.Submission) (domain.ScoreSummary, error) {
	const op = "app.ScoreService.Submit"

	log := s.log.With(slog.String("op", op), slog.String("quizId", quizID), slog.String("userId", userID))

	if len(sub.Answers) == 0 {
		return domain.ScoreSummary{}, domain.ErrEmptySubmission
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.ScoreSummary{}, fmt.Errorf("%s: %w", op, err)
	}
	if quiz.Hidden {
		return domain.ScoreSummary{}, fmt.Errorf("%s: %w", op, domain.ErrQuizNotFound)
	}

	answers := dedupeAnswers(sub.Answers)
	if dropped := len(sub.Answers) - len(answers); dropped > 0 {
		log.Warn("duplicate answers collapsed", slog.Int("dropped", dropped))
	}

	attended, correct := scoreAnswers(log, quiz, answers)

	if err := s.store.RecordSubmission(ctx, quizID, userID, answers, correct, sub.TimeTaken); err != nil {
		return domain.ScoreSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("submission recorded",
		slog.Int("attended", attended),
		slog.Int("correct", correct),
		slog.Int("timeTaken", sub.TimeTaken),
	)

	if s.notifier != nil {
		s.notifier.Notify(ctx, quizID)
	}

	return domain.ScoreSummary{
		TotalAttended: attended,
		TotalCorrect:  correct,
		TimeTaken:     sub.TimeTaken,
	}, nil
}

// AttemptedQuizIDs lists quizzes the user has responded to.
func (s *ScoreService) AttemptedQuizIDs(ctx context.Context, userID string) ([]string, error) {
	return s.store.AttemptedQuizIDs(ctx, userID)
}

// ParticipatedQuizzes lists quizzes the user holds a leaderboard entry in.
func (s *ScoreService) ParticipatedQuizzes(ctx context.Context, userID string) ([]domain.QuizSummary, error) {
	return s.store.ParticipatedQuizzes(ctx, userID)
}

// dedupeAnswers keeps one answer per question, last write wins. The first
// occurrence fixes the question's position in the result.
func dedupeAnswers(in []domain.AnswerSelection) []domain.AnswerSelection {
	index := make(map[string]int, len(in))
	out := make([]domain.AnswerSelection, 0, len(in))
	for _, ans := range in {
		if i, ok := index[ans.QuestionID]; ok {
			out[i] = ans
			continue
		}
		index[ans.QuestionID] = len(out)
		out = append(out, ans)
	}
	return out
}

// scoreAnswers counts attended and correct answers. An answer is correct when
// its option is in the set of options flagged correct for that question;
// questions with zero or multiple correct options are tolerated and logged.
func scoreAnswers(log *slog.Logger, quiz domain.Quiz, answers []domain.AnswerSelection) (attended, correct int) {
	correctByQuestion := make(map[string]map[string]struct{}, len(quiz.Questions))
	for _, q := range quiz.Questions {
		set := make(map[string]struct{})
		for _, opt := range q.Options {
			if opt.Correct {
				set[opt.ID] = struct{}{}
			}
		}
		if len(set) != 1 {
			log.Warn("question does not have exactly one correct option",
				slog.String("questionId", q.ID),
				slog.Int("correctOptions", len(set)),
			)
		}
		correctByQuestion[q.ID] = set
	}

	attended = len(answers)
	for _, ans := range answers {
		if set, ok := correctByQuestion[ans.QuestionID]; ok {
			if _, ok := set[ans.OptionID]; ok {
				correct++
			}
		}
	}
	return attended, correct
}
