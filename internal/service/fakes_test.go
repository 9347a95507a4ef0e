package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spin2win/internal/model"
	"spin2win/internal/repository"
)

type fakeQuizRepo struct {
	mu      sync.Mutex
	seq     int
	quizzes map[string]*model.Quiz
}

func newFakeQuizRepo() *fakeQuizRepo {
	return &fakeQuizRepo{quizzes: map[string]*model.Quiz{}}
}

func (f *fakeQuizRepo) Create(ctx context.Context, quiz *model.Quiz) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if quiz.ID == "" {
		f.seq++
		quiz.ID = fmt.Sprintf("quiz-%d", f.seq)
	}
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now
	clone := *quiz
	f.quizzes[quiz.ID] = &clone
	return quiz.ID, nil
}

func (f *fakeQuizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quiz, ok := f.quizzes[id]
	if !ok {
		return nil, nil
	}
	clone := *quiz
	return &clone, nil
}

func (f *fakeQuizRepo) GetActive(ctx context.Context) (*model.Quiz, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.Quiz
	for _, quiz := range f.quizzes {
		if quiz.IsActive && !quiz.IsCompleted {
			if latest == nil || quiz.CreatedAt.After(latest.CreatedAt) {
				latest = quiz
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	clone := *latest
	return &clone, nil
}

func (f *fakeQuizRepo) List(ctx context.Context, filter repository.QuizFilter) ([]*model.Quiz, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Quiz
	for _, quiz := range f.quizzes {
		if filter.IsActive != nil && quiz.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsCompleted != nil && quiz.IsCompleted != *filter.IsCompleted {
			continue
		}
		if filter.Category != "" && string(quiz.Category) != filter.Category {
			continue
		}
		if filter.Difficulty != "" && string(quiz.Difficulty) != filter.Difficulty {
			continue
		}
		clone := *quiz
		out = append(out, &clone)
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuizRepo) ReplaceDraft(ctx context.Context, quiz *model.Quiz) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.quizzes[quiz.ID]
	if !ok || current.IsActive || current.IsCompleted {
		return false, nil
	}
	quiz.UpdatedAt = time.Now()
	clone := *quiz
	f.quizzes[quiz.ID] = &clone
	return true, nil
}

func (f *fakeQuizRepo) Start(ctx context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quiz, ok := f.quizzes[id]
	if !ok || quiz.IsActive || quiz.IsCompleted {
		return false, nil
	}
	quiz.IsActive = true
	quiz.StartedAt = &now
	return true, nil
}

func (f *fakeQuizRepo) End(ctx context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	quiz, ok := f.quizzes[id]
	if !ok || !quiz.IsActive {
		return false, nil
	}
	quiz.IsActive = false
	quiz.IsCompleted = true
	quiz.EndedAt = &now
	return true, nil
}

func (f *fakeQuizRepo) IncrementCounters(ctx context.Context, id string, correct bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if quiz, ok := f.quizzes[id]; ok {
		quiz.TotalResponses++
		if correct {
			quiz.CorrectResponses++
		}
	}
	return nil
}

func (f *fakeQuizRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.quizzes, id)
	return nil
}

type fakeQuizSetRepo struct {
	mu   sync.Mutex
	seq  int
	sets map[string]*model.QuizSet
}

func newFakeQuizSetRepo() *fakeQuizSetRepo {
	return &fakeQuizSetRepo{sets: map[string]*model.QuizSet{}}
}

func cloneSet(set *model.QuizSet) *model.QuizSet {
	clone := *set
	clone.Questions = append([]model.Question(nil), set.Questions...)
	return &clone
}

func (f *fakeQuizSetRepo) Create(ctx context.Context, set *model.QuizSet) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.sets {
		if existing.BattleNumber == set.BattleNumber {
			return "", &model.ConflictError{Reason: "quiz set already exists for this battle number"}
		}
	}
	if set.ID == "" {
		f.seq++
		set.ID = fmt.Sprintf("set-%d", f.seq)
	}
	now := time.Now()
	set.CreatedAt = now
	set.UpdatedAt = now
	f.sets[set.ID] = cloneSet(set)
	return set.ID, nil
}

func (f *fakeQuizSetRepo) GetByID(ctx context.Context, id string) (*model.QuizSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok {
		return nil, nil
	}
	return cloneSet(set), nil
}

func (f *fakeQuizSetRepo) GetByBattleNumber(ctx context.Context, battleNumber string) (*model.QuizSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		if set.BattleNumber == battleNumber {
			return cloneSet(set), nil
		}
	}
	return nil, nil
}

func (f *fakeQuizSetRepo) GetByQuestionID(ctx context.Context, questionID string) (*model.QuizSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, set := range f.sets {
		for _, q := range set.Questions {
			if q.ID == questionID {
				return cloneSet(set), nil
			}
		}
	}
	return nil, nil
}

func (f *fakeQuizSetRepo) GetActive(ctx context.Context) (*model.QuizSet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *model.QuizSet
	for _, set := range f.sets {
		if set.IsActive && !set.IsCompleted {
			if latest == nil || set.CreatedAt.After(latest.CreatedAt) {
				latest = set
			}
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneSet(latest), nil
}

func (f *fakeQuizSetRepo) List(ctx context.Context, filter repository.QuizSetFilter) ([]*model.QuizSet, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.QuizSet
	for _, set := range f.sets {
		if filter.IsActive != nil && set.IsActive != *filter.IsActive {
			continue
		}
		if filter.IsCompleted != nil && set.IsCompleted != *filter.IsCompleted {
			continue
		}
		if filter.BattleNumber != "" && set.BattleNumber != filter.BattleNumber {
			continue
		}
		out = append(out, cloneSet(set))
	}
	return out, int64(len(out)), nil
}

func (f *fakeQuizSetRepo) ReplaceDraft(ctx context.Context, set *model.QuizSet) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	current, ok := f.sets[set.ID]
	if !ok || current.IsActive || current.IsCompleted {
		return false, nil
	}
	set.UpdatedAt = time.Now()
	f.sets[set.ID] = cloneSet(set)
	return true, nil
}

func (f *fakeQuizSetRepo) Start(ctx context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok || set.IsActive || set.IsCompleted {
		return false, nil
	}
	set.IsActive = true
	set.StartedAt = &now
	return true, nil
}

func (f *fakeQuizSetRepo) End(ctx context.Context, id string, now time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok || !set.IsActive {
		return false, nil
	}
	set.IsActive = false
	set.IsCompleted = true
	set.EndedAt = &now
	return true, nil
}

func (f *fakeQuizSetRepo) IncrementCounters(ctx context.Context, id string, correct bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set, ok := f.sets[id]; ok {
		set.TotalResponses++
		if correct {
			set.CorrectResponses++
		}
	}
	return nil
}

func (f *fakeQuizSetRepo) SetMatchResult(ctx context.Context, id string, questions []model.Question, result model.MatchResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.sets[id]
	if !ok {
		return &model.NotFoundError{Resource: "quiz set", ID: id}
	}
	set.Questions = append([]model.Question(nil), questions...)
	set.MatchResult = result
	set.UpdatedAt = time.Now()
	return nil
}

func (f *fakeQuizSetRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sets, id)
	return nil
}

type fakeResponseRepo struct {
	mu        sync.Mutex
	seq       int
	responses []*model.Response
}

func newFakeResponseRepo() *fakeResponseRepo {
	return &fakeResponseRepo{}
}

func (f *fakeResponseRepo) Create(ctx context.Context, response *model.Response) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.responses {
		if existing.ParticipantID == response.ParticipantID && existing.QuizID == response.QuizID {
			return &model.ConflictError{Reason: "participant has already responded to this quiz"}
		}
	}
	f.seq++
	response.ID = fmt.Sprintf("response-%d", f.seq)
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
	}
	clone := *response
	f.responses = append(f.responses, &clone)
	return nil
}

func (f *fakeResponseRepo) Get(ctx context.Context, participantID, quizID string) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, response := range f.responses {
		if response.ParticipantID == participantID && response.QuizID == quizID {
			clone := *response
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeResponseRepo) GetLatestByParticipant(ctx context.Context, participantID string) (*model.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.responses) - 1; i >= 0; i-- {
		if f.responses[i].ParticipantID == participantID {
			clone := *f.responses[i]
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeResponseRepo) ListByParticipant(ctx context.Context, participantID string, limit, page int) ([]*model.Response, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Response
	for _, response := range f.responses {
		if response.ParticipantID == participantID {
			clone := *response
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResponseRepo) ListByQuiz(ctx context.Context, quizID string, limit, page int) ([]*model.Response, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Response
	for _, response := range f.responses {
		if response.QuizID == quizID {
			clone := *response
			out = append(out, &clone)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeResponseRepo) ExistsForQuizzes(ctx context.Context, quizIDs []string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, response := range f.responses {
		for _, id := range quizIDs {
			if response.QuizID == id {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeResponseRepo) ParticipantStats(ctx context.Context, participantID string) (*model.UserStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &model.UserStats{}
	var totalTime float64
	for _, response := range f.responses {
		if response.ParticipantID != participantID {
			continue
		}
		stats.TotalResponses++
		if response.IsCorrect {
			stats.CorrectResponses++
		}
		stats.TotalScore += response.Score
		totalTime += response.ResponseTime
		stats.CurrentStreak = response.Streak
		if response.TotalStreak > stats.MaxStreak {
			stats.MaxStreak = response.TotalStreak
		}
	}
	if stats.TotalResponses > 0 {
		stats.AverageResponseTime = totalTime / float64(stats.TotalResponses)
	}
	return stats, nil
}

func (f *fakeResponseRepo) LeaderboardRows(ctx context.Context) ([]model.LeaderboardEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byParticipant := map[string]*model.LeaderboardEntry{}
	var order []string
	for _, response := range f.responses {
		entry, ok := byParticipant[response.ParticipantID]
		if !ok {
			entry = &model.LeaderboardEntry{ParticipantID: response.ParticipantID}
			byParticipant[response.ParticipantID] = entry
			order = append(order, response.ParticipantID)
		}
		entry.TotalScore += response.Score
		entry.TotalResponses++
		if response.IsCorrect {
			entry.CorrectResponses++
		}
	}
	rows := make([]model.LeaderboardEntry, 0, len(order))
	for _, id := range order {
		rows = append(rows, *byParticipant[id])
	}
	return rows, nil
}

type fakeMatchRepo struct {
	matches map[string]*model.Match
}

func newFakeMatchRepo(matches ...*model.Match) *fakeMatchRepo {
	f := &fakeMatchRepo{matches: map[string]*model.Match{}}
	for _, m := range matches {
		f.matches[m.MatchID] = m
	}
	return f
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id string) (*model.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, nil
	}
	clone := *match
	return &clone, nil
}
