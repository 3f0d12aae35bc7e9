package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"quizrank-service/internal/domain"
)

// LeaderboardService ranks recorded submissions for a quiz and fans out live
// updates to watchers.
type LeaderboardService struct {
	log     *slog.Logger
	quizzes QuizRepository
	store   SubmissionStore

	mu       sync.Mutex
	watchers map[string]map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardService(log *slog.Logger, quizzes QuizRepository, store SubmissionStore) *LeaderboardService {
	return &LeaderboardService{
		log:      log,
		quizzes:  quizzes,
		store:    store,
		watchers: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

// Leaderboard returns the ranked standings for a quiz. A quiz with zero
// submissions yields domain.ErrLeaderboardNotFound, never an empty list.
// Standings are recomputed on every call.
func (s *LeaderboardService) Leaderboard(ctx context.Context, quizID string) (domain.Leaderboard, error) {
	const op = "app.LeaderboardService.Leaderboard"

	entries, err := s.store.LeaderboardEntries(ctx, quizID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("%s: %w", op, err)
	}

	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.Leaderboard{}, fmt.Errorf("%s: %w", op, err)
	}

	return domain.Leaderboard{
		QuizID:         quizID,
		TotalQuestions: len(quiz.Questions),
		Entries:        rankEntries(entries),
	}, nil
}

// rankEntries orders entries by score descending, then timeTaken ascending;
// remaining ties keep submission order. Rank is positional: the Nth sorted
// entry gets rank N even on an exact tie.
func rankEntries(entries []domain.LeaderboardEntry) []domain.RankedEntry {
	sorted := append([]domain.LeaderboardEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].TimeTaken < sorted[j].TimeTaken
	})

	ranked := make([]domain.RankedEntry, 0, len(sorted))
	for i, e := range sorted {
		ranked = append(ranked, domain.RankedEntry{
			Rank:      i + 1,
			Name:      e.Name,
			Username:  e.Username,
			Score:     e.Score,
			TimeTaken: e.TimeTaken,
		})
	}
	return ranked
}

// Watch returns a channel that receives leaderboard snapshots for a quiz.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *LeaderboardService) Watch(ctx context.Context, quizID string) (<-chan domain.Leaderboard, func(), error) {
	if _, err := s.quizzes.GetQuiz(ctx, quizID); err != nil {
		return nil, nil, err
	}

	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	if s.watchers[quizID] == nil {
		s.watchers[quizID] = make(map[chan domain.Leaderboard]struct{})
	}
	s.watchers[quizID][ch] = struct{}{}
	s.mu.Unlock()

	// Initial snapshot, when a leaderboard already exists.
	if lb, err := s.Leaderboard(ctx, quizID); err == nil {
		ch <- lb
	}

	cancel := func() {
		s.mu.Lock()
		if set, ok := s.watchers[quizID]; ok {
			if _, ok := set[ch]; ok {
				delete(set, ch)
				close(ch)
			}
			if len(set) == 0 {
				delete(s.watchers, quizID)
			}
		}
		s.mu.Unlock()
	}
	return ch, cancel, nil
}

// Notify recomputes the standings and broadcasts them to watchers. Failures
// are logged, not propagated; the submission itself already succeeded.
func (s *LeaderboardService) Notify(ctx context.Context, quizID string) {
	const op = "app.LeaderboardService.Notify"

	lb, err := s.Leaderboard(ctx, quizID)
	if err != nil {
		s.log.Warn("leaderboard refresh failed", slog.String("op", op), slog.String("quizId", quizID), slog.Any("err", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.watchers[quizID] {
		select {
		case ch <- lb:
		default:
			// Slow watcher: drop the stale snapshot so broadcast never blocks.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}
