package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"quizrank-service/internal/domain"
)

// SubmissionStore records submissions and serves leaderboard reads.
type SubmissionStore struct {
	pool *pgxpool.Pool
}

func NewSubmissionStore(pool *pgxpool.Pool) *SubmissionStore {
	return &SubmissionStore{pool: pool}
}

// RecordSubmission writes all response rows, the lazily created leaderboard
// and the entry in one transaction. The leaderboard find-or-create is a
// single upsert, so concurrent first submissions cannot create duplicates;
// the (leaderboard_id, user_id) unique constraint rejects resubmissions
// atomically with entry creation.
func (s *SubmissionStore) RecordSubmission(ctx context.Context, quizID, userID string, answers []domain.AnswerSelection, score, timeTaken int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin submission: %w", err)
	}
	defer tx.Rollback(ctx)

	var leaderboardID string
	err = tx.QueryRow(ctx, `
		INSERT INTO leaderboards (id, quiz_id) VALUES ($1, $2)
		ON CONFLICT (quiz_id) DO UPDATE SET quiz_id = EXCLUDED.quiz_id
		RETURNING id
	`, uuid.NewString(), quizID).Scan(&leaderboardID)
	if err != nil {
		return fmt.Errorf("upsert leaderboard: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO leaderboard_entries (id, leaderboard_id, user_id, score, time_taken)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (leaderboard_id, user_id) DO NOTHING
	`, uuid.NewString(), leaderboardID, userID, score, timeTaken)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadySubmitted
	}

	for _, ans := range answers {
		_, err := tx.Exec(ctx, `
			INSERT INTO responses (id, quiz_id, user_id, question_id, selected_option_id)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), quizID, userID, ans.QuestionID, ans.OptionID)
		if err != nil {
			return fmt.Errorf("insert response: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// LeaderboardEntries returns all entries in submission order. A quiz without
// a leaderboard row yields domain.ErrLeaderboardNotFound.
func (s *SubmissionStore) LeaderboardEntries(ctx context.Context, quizID string) ([]domain.LeaderboardEntry, error) {
	var leaderboardID string
	err := s.pool.QueryRow(ctx, `SELECT id FROM leaderboards WHERE quiz_id=$1`, quizID).Scan(&leaderboardID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLeaderboardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find leaderboard: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT e.user_id, a.name, a.username, e.score, e.time_taken, e.created_at
		FROM leaderboard_entries e JOIN accounts a ON a.id = e.user_id
		WHERE e.leaderboard_id=$1
		ORDER BY e.created_at
	`, leaderboardID)
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.Username, &e.Score, &e.TimeTaken, &e.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func (s *SubmissionStore) AttemptedQuizIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT quiz_id FROM responses WHERE user_id=$1
		GROUP BY quiz_id ORDER BY MIN(created_at)
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("attempted quizzes: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan quiz id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quiz ids: %w", err)
	}
	return ids, nil
}

func (s *SubmissionStore) ParticipatedQuizzes(ctx context.Context, userID string) ([]domain.QuizSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT q.id, q.title, q.code, q.hidden
		FROM leaderboard_entries e
		JOIN leaderboards l ON l.id = e.leaderboard_id
		JOIN quizzes q ON q.id = l.quiz_id
		WHERE e.user_id=$1
		ORDER BY e.created_at
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("participated quizzes: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}
