package memory

import (
	"context"
	"sync"
	"time"

	"quizrank-service/internal/domain"
)

// Store is an in-memory backing store covering accounts, quizzes and
// submissions. It serves unit tests and the no-database dev mode.
type Store struct {
	mu            sync.RWMutex
	accountsByKey map[string]domain.Account // role + "/" + username
	accountsByID  map[string]domain.Account
	quizzes       map[string]domain.Quiz
	quizOrder     []string
	responses     []storedResponse
	entries       map[string][]storedEntry // quizID -> entries in submission order
}

type storedResponse struct {
	quizID     string
	userID     string
	questionID string
	optionID   string
}

type storedEntry struct {
	userID      string
	score       int
	timeTaken   int
	submittedAt time.Time
}

func NewStore() *Store {
	return &Store{
		accountsByKey: make(map[string]domain.Account),
		accountsByID:  make(map[string]domain.Account),
		quizzes:       make(map[string]domain.Quiz),
		entries:       make(map[string][]storedEntry),
	}
}

func accountKey(role domain.Role, username string) string {
	return string(role) + "/" + username
}

func (s *Store) SaveAccount(_ context.Context, account domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := accountKey(account.Role, account.Username)
	if _, ok := s.accountsByKey[key]; ok {
		return domain.ErrUsernameTaken
	}
	s.accountsByKey[key] = account
	s.accountsByID[account.ID] = account
	return nil
}

func (s *Store) AccountByUsername(_ context.Context, role domain.Role, username string) (domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accountsByKey[accountKey(role, username)]
	if !ok {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func (s *Store) CreateQuiz(_ context.Context, quiz domain.Quiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if quiz.CreatedAt.IsZero() {
		quiz.CreatedAt = time.Now()
	}
	s.quizzes[quiz.ID] = quiz
	s.quizOrder = append(s.quizOrder, quiz.ID)
	return nil
}

// GetQuiz implements app.QuizRepository so the Store can stand in for the
// cache + loader pair when neither Redis nor Postgres is configured.
func (s *Store) GetQuiz(_ context.Context, quizID string) (domain.Quiz, error) {
	return s.quizByID(quizID)
}

func (s *Store) LoadQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.GetQuiz(ctx, quizID)
}

func (s *Store) QuizByID(_ context.Context, quizID string) (domain.Quiz, error) {
	return s.quizByID(quizID)
}

func (s *Store) quizByID(quizID string) (domain.Quiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quiz, ok := s.quizzes[quizID]
	if !ok {
		return domain.Quiz{}, domain.ErrQuizNotFound
	}
	return quiz, nil
}

func (s *Store) QuizzesByAdmin(_ context.Context, adminID string) ([]domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]domain.QuizSummary, 0)
	for _, id := range s.quizOrder {
		quiz := s.quizzes[id]
		if quiz.AdminID == adminID {
			summaries = append(summaries, s.summaryLocked(quiz))
		}
	}
	return summaries, nil
}

func (s *Store) VisibleQuizzes(_ context.Context) ([]domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]domain.QuizSummary, 0)
	for _, id := range s.quizOrder {
		quiz := s.quizzes[id]
		if !quiz.Hidden {
			summaries = append(summaries, s.summaryLocked(quiz))
		}
	}
	return summaries, nil
}

func (s *Store) VisibleQuizByCode(_ context.Context, code string) (domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.quizOrder {
		quiz := s.quizzes[id]
		if !quiz.Hidden && quiz.Code == code {
			return s.summaryLocked(quiz), nil
		}
	}
	return domain.QuizSummary{}, domain.ErrQuizNotFound
}

func (s *Store) SetHidden(_ context.Context, quizID, adminID string, hidden bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[quizID]
	if !ok || quiz.AdminID != adminID {
		return domain.ErrQuizNotFound
	}
	quiz.Hidden = hidden
	s.quizzes[quizID] = quiz
	return nil
}

func (s *Store) QuizzesWithLeaderboard(_ context.Context, adminID string) ([]domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summaries := make([]domain.QuizSummary, 0)
	for _, id := range s.quizOrder {
		if len(s.entries[id]) == 0 {
			continue
		}
		quiz := s.quizzes[id]
		if adminID != "" && quiz.AdminID != adminID {
			continue
		}
		summaries = append(summaries, s.summaryLocked(quiz))
	}
	return summaries, nil
}

func (s *Store) RecordSubmission(_ context.Context, quizID, userID string, answers []domain.AnswerSelection, score, timeTaken int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quizzes[quizID]; !ok {
		return domain.ErrQuizNotFound
	}
	for _, e := range s.entries[quizID] {
		if e.userID == userID {
			return domain.ErrAlreadySubmitted
		}
	}

	for _, ans := range answers {
		s.responses = append(s.responses, storedResponse{
			quizID:     quizID,
			userID:     userID,
			questionID: ans.QuestionID,
			optionID:   ans.OptionID,
		})
	}
	s.entries[quizID] = append(s.entries[quizID], storedEntry{
		userID:      userID,
		score:       score,
		timeTaken:   timeTaken,
		submittedAt: time.Now(),
	})
	return nil
}

func (s *Store) LeaderboardEntries(_ context.Context, quizID string) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.entries[quizID]
	if !ok {
		return nil, domain.ErrLeaderboardNotFound
	}
	entries := make([]domain.LeaderboardEntry, 0, len(stored))
	for _, e := range stored {
		account := s.accountsByID[e.userID]
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      e.userID,
			Name:        account.Name,
			Username:    account.Username,
			Score:       e.score,
			TimeTaken:   e.timeTaken,
			SubmittedAt: e.submittedAt,
		})
	}
	return entries, nil
}

func (s *Store) AttemptedQuizIDs(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, r := range s.responses {
		if r.userID != userID {
			continue
		}
		if _, ok := seen[r.quizID]; ok {
			continue
		}
		seen[r.quizID] = struct{}{}
		ids = append(ids, r.quizID)
	}
	return ids, nil
}

func (s *Store) ParticipatedQuizzes(_ context.Context, userID string) ([]domain.QuizSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]domain.QuizSummary, 0)
	for _, id := range s.quizOrder {
		for _, e := range s.entries[id] {
			if e.userID == userID {
				summaries = append(summaries, s.summaryLocked(s.quizzes[id]))
				break
			}
		}
	}
	return summaries, nil
}

func (s *Store) summaryLocked(quiz domain.Quiz) domain.QuizSummary {
	adminName := ""
	if admin, ok := s.accountsByID[quiz.AdminID]; ok {
		adminName = admin.Name
	}
	return domain.QuizSummary{
		ID:        quiz.ID,
		Title:     quiz.Title,
		Code:      quiz.Code,
		Hidden:    quiz.Hidden,
		AdminName: adminName,
	}
}
