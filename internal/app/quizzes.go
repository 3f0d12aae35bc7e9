package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"quizrank-service/internal/domain"
)

// QuizStore owns quiz persistence beyond cached content reads.
type QuizStore interface {
	CreateQuiz(ctx context.Context, quiz domain.Quiz) error
	QuizByID(ctx context.Context, quizID string) (domain.Quiz, error)
	QuizzesByAdmin(ctx context.Context, adminID string) ([]domain.QuizSummary, error)
	VisibleQuizzes(ctx context.Context) ([]domain.QuizSummary, error)
	VisibleQuizByCode(ctx context.Context, code string) (domain.QuizSummary, error)
	SetHidden(ctx context.Context, quizID, adminID string, hidden bool) error
	QuizzesWithLeaderboard(ctx context.Context, adminID string) ([]domain.QuizSummary, error)
}

// QuestionInput is the authoring shape of a question.
type QuestionInput struct {
	Text    string        `json:"text"`
	Options []OptionInput `json:"options"`
}

type OptionInput struct {
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

// QuizInvalidator drops cached quiz content after a write.
type QuizInvalidator interface {
	Invalidate(ctx context.Context, quizID string)
}

// QuizService covers authoring and listing use cases around quizzes.
type QuizService struct {
	log         *slog.Logger
	store       QuizStore
	quizzes     QuizRepository
	invalidator QuizInvalidator // optional
}

func NewQuizService(log *slog.Logger, store QuizStore, quizzes QuizRepository, invalidator QuizInvalidator) *QuizService {
	return &QuizService{log: log, store: store, quizzes: quizzes, invalidator: invalidator}
}

// Create persists a quiz with its full question set in one write. The
// question set is immutable afterwards; only visibility can change.
func (s *QuizService) Create(ctx context.Context, adminID, title, code string, questions []QuestionInput) (domain.Quiz, error) {
	const op = "app.QuizService.Create"

	if strings.TrimSpace(title) == "" || strings.TrimSpace(code) == "" {
		return domain.Quiz{}, fmt.Errorf("%w: title and code are required", domain.ErrInvalidQuiz)
	}
	if len(questions) == 0 {
		return domain.Quiz{}, fmt.Errorf("%w: need at least one question", domain.ErrInvalidQuiz)
	}

	quiz := domain.Quiz{
		ID:        uuid.NewString(),
		AdminID:   adminID,
		Title:     title,
		Code:      code,
		Questions: make([]domain.Question, 0, len(questions)),
	}
	for i, qin := range questions {
		if strings.TrimSpace(qin.Text) == "" {
			return domain.Quiz{}, fmt.Errorf("%w: question %d has no text", domain.ErrInvalidQuiz, i+1)
		}
		if len(qin.Options) == 0 {
			return domain.Quiz{}, fmt.Errorf("%w: question %d has no options", domain.ErrInvalidQuiz, i+1)
		}
		question := domain.Question{
			ID:      uuid.NewString(),
			Text:    qin.Text,
			Options: make([]domain.Option, 0, len(qin.Options)),
		}
		for _, oin := range qin.Options {
			question.Options = append(question.Options, domain.Option{
				ID:      uuid.NewString(),
				Text:    oin.Text,
				Correct: oin.Correct,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("quiz created", slog.String("op", op), slog.String("quizId", quiz.ID), slog.Int("questions", len(quiz.Questions)))
	return quiz, nil
}

// QuizForUser returns quiz content for a quiz taker. Hidden quizzes are
// indistinguishable from missing ones.
func (s *QuizService) QuizForUser(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.Hidden {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

// QuizForAdmin returns a quiz to its owner only.
func (s *QuizService) QuizForAdmin(ctx context.Context, quizID, adminID string) (domain.Quiz, error) {
	quiz, err := s.store.QuizByID(ctx, quizID)
	if err != nil {
		return domain.Quiz{}, err
	}
	if quiz.AdminID != adminID {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *QuizService) ListForAdmin(ctx context.Context, adminID string) ([]domain.QuizSummary, error) {
	return s.store.QuizzesByAdmin(ctx, adminID)
}

func (s *QuizService) ListVisible(ctx context.Context) ([]domain.QuizSummary, error) {
	return s.store.VisibleQuizzes(ctx)
}

func (s *QuizService) FindByCode(ctx context.Context, code string) (domain.QuizSummary, error) {
	return s.store.VisibleQuizByCode(ctx, code)
}

// SetVisibility toggles the hidden flag on the admin's own quiz.
func (s *QuizService) SetVisibility(ctx context.Context, quizID, adminID string, hidden bool) error {
	const op = "app.QuizService.SetVisibility"
	if err := s.store.SetHidden(ctx, quizID, adminID, hidden); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, quizID)
	}
	s.log.Info("quiz visibility changed", slog.String("op", op), slog.String("quizId", quizID), slog.Bool("hidden", hidden))
	return nil
}

// ResultsIndex lists quizzes that have a leaderboard. An empty adminID lists
// across all admins (user-facing results index).
func (s *QuizService) ResultsIndex(ctx context.Context, adminID string) ([]domain.QuizSummary, error) {
	return s.store.QuizzesWithLeaderboard(ctx, adminID)
}
