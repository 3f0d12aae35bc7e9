package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizrank-service/internal/domain"
)

// QuizStore persists quizzes in Postgres. Question content lives in a JSONB
// document per quiz; listing columns stay relational.
type QuizStore struct {
	pool *pgxpool.Pool
}

func NewQuizStore(pool *pgxpool.Pool) *QuizStore {
	return &QuizStore{pool: pool}
}

func (s *QuizStore) CreateQuiz(ctx context.Context, quiz domain.Quiz) error {
	data, err := json.Marshal(quiz.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO quizzes (id, admin_id, title, code, hidden, data)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, quiz.ID, quiz.AdminID, quiz.Title, quiz.Code, quiz.Hidden, data)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: code already in use", domain.ErrInvalidQuiz)
		}
		return fmt.Errorf("create quiz: %w", err)
	}
	return nil
}

// LoadQuiz implements the cache loader interface.
func (s *QuizStore) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.QuizByID(ctx, quizID)
}

func (s *QuizStore) QuizByID(ctx context.Context, quizID string) (domain.Quiz, error) {
	quiz := domain.Quiz{ID: quizID}
	var raw []byte
	err := s.pool.QueryRow(ctx, `
		SELECT admin_id, title, code, hidden, data, created_at
		FROM quizzes WHERE id=$1
	`, quizID).Scan(&quiz.AdminID, &quiz.Title, &quiz.Code, &quiz.Hidden, &raw, &quiz.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz: %w", err)
	}
	if err := json.Unmarshal(raw, &quiz.Questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal questions: %w", err)
	}
	return quiz, nil
}

func (s *QuizStore) QuizzesByAdmin(ctx context.Context, adminID string) ([]domain.QuizSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, code, hidden FROM quizzes
		WHERE admin_id=$1 ORDER BY created_at
	`, adminID)
	if err != nil {
		return nil, fmt.Errorf("quizzes by admin: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}

func (s *QuizStore) VisibleQuizzes(ctx context.Context) ([]domain.QuizSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.title, q.code, q.hidden, a.name
		FROM quizzes q JOIN accounts a ON a.id = q.admin_id
		WHERE NOT q.hidden ORDER BY q.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("visible quizzes: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, true)
}

func (s *QuizStore) VisibleQuizByCode(ctx context.Context, code string) (domain.QuizSummary, error) {
	var summary domain.QuizSummary
	err := s.pool.QueryRow(ctx, `
		SELECT q.id, q.title, q.code, q.hidden, a.name
		FROM quizzes q JOIN accounts a ON a.id = q.admin_id
		WHERE NOT q.hidden AND q.code=$1
	`, code).Scan(&summary.ID, &summary.Title, &summary.Code, &summary.Hidden, &summary.AdminName)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizSummary{}, domain.ErrQuizNotFound
	}
	if err != nil {
		return domain.QuizSummary{}, fmt.Errorf("quiz by code: %w", err)
	}
	return summary, nil
}

func (s *QuizStore) SetHidden(ctx context.Context, quizID, adminID string, hidden bool) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE quizzes SET hidden=$3 WHERE id=$1 AND admin_id=$2
	`, quizID, adminID, hidden)
	if err != nil {
		return fmt.Errorf("set hidden: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrQuizNotFound
	}
	return nil
}

func (s *QuizStore) QuizzesWithLeaderboard(ctx context.Context, adminID string) ([]domain.QuizSummary, error) {
	query := `
		SELECT q.id, q.title, q.code, q.hidden
		FROM quizzes q JOIN leaderboards l ON l.quiz_id = q.id
	`
	args := []interface{}{}
	if adminID != "" {
		query += ` WHERE q.admin_id=$1`
		args = append(args, adminID)
	}
	query += ` ORDER BY q.created_at`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("quizzes with leaderboard: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}

func scanSummaries(rows pgx.Rows, withAdminName bool) ([]domain.QuizSummary, error) {
	summaries := make([]domain.QuizSummary, 0)
	for rows.Next() {
		var s domain.QuizSummary
		var err error
		if withAdminName {
			err = rows.Scan(&s.ID, &s.Title, &s.Code, &s.Hidden, &s.AdminName)
		} else {
			err = rows.Scan(&s.ID, &s.Title, &s.Code, &s.Hidden)
		}
		if err != nil {
			return nil, fmt.Errorf("scan quiz summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz summaries: %w", err)
	}
	return summaries, nil
}
