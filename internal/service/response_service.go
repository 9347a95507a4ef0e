package service

import (
	"context"
	"log"

	"spin2win/internal/cache"
	"spin2win/internal/model"
	"spin2win/internal/repository"
)

// ResponseService scores and records submissions against the response ledger.
// Scoring is fixed at submission time: a correct answer earns the question's
// point value, a wrong answer earns zero.
type ResponseService struct {
	responses repository.ResponseRepo
	quizzes   repository.QuizRepo
	sets      repository.QuizSetRepo
	profiles  cache.ProfileCache
	lbCache   cache.LeaderboardCache
}

// NewResponseService creates a new response service. The caches may be nil;
// submissions then skip the cached-score and leaderboard-invalidation steps.
func NewResponseService(responses repository.ResponseRepo, quizzes repository.QuizRepo, sets repository.QuizSetRepo, profiles cache.ProfileCache, lbCache cache.LeaderboardCache) *ResponseService {
	return &ResponseService{
		responses: responses,
		quizzes:   quizzes,
		sets:      sets,
		profiles:  profiles,
		lbCache:   lbCache,
	}
}

// resolveUnit locates the answerable unit behind an id: a standalone quiz
// (ObjectID hex) or a question embedded in a set (UUID).
func (s *ResponseService) resolveUnit(ctx context.Context, quizID string) (model.QuizUnit, error) {
	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return model.QuizUnit{}, err
	}
	if quiz != nil {
		return quiz.Unit(), nil
	}

	set, err := s.sets.GetByQuestionID(ctx, quizID)
	if err != nil {
		return model.QuizUnit{}, err
	}
	if set != nil {
		if q := set.QuestionByID(quizID); q != nil {
			return model.QuizUnit{
				QuizID:        q.ID,
				SetID:         set.ID,
				Options:       q.Options,
				CorrectAnswer: q.CorrectAnswer,
				Points:        q.Points,
				IsActive:      set.IsActive,
			}, nil
		}
	}
	return model.QuizUnit{}, &model.NotFoundError{Resource: "quiz", ID: quizID}
}

// Submit validates, scores, and records a participant's answer. The unique
// (participant, quiz) index makes concurrent duplicates lose cleanly; streaks
// are carried forward from the participant's previous response.
func (s *ResponseService) Submit(ctx context.Context, participantID string, req model.SubmitRequest) (*model.SubmitResult, error) {
	if req.QuizID == "" {
		return nil, &model.ValidationError{Field: "quizId", Message: "is required"}
	}
	if req.Answer < 0 {
		return nil, &model.ValidationError{Field: "answer", Message: "must not be negative"}
	}
	if req.ResponseTime < 0 {
		return nil, &model.ValidationError{Field: "responseTime", Message: "must not be negative"}
	}
	if req.TimeRemaining < 0 {
		return nil, &model.ValidationError{Field: "timeRemaining", Message: "must not be negative"}
	}

	unit, err := s.resolveUnit(ctx, req.QuizID)
	if err != nil {
		return nil, err
	}
	if !unit.IsActive {
		return nil, &model.ConflictError{Reason: "quiz is not active"}
	}
	if req.Answer >= len(unit.Options) {
		return nil, &model.ValidationError{Field: "answer", Message: "answer index is out of range"}
	}

	existing, err := s.responses.Get(ctx, participantID, req.QuizID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &model.ConflictError{Reason: "participant has already responded to this quiz"}
	}

	isCorrect := req.Answer == unit.CorrectAnswer
	score := 0
	if isCorrect {
		score = unit.Points
	}

	streak, totalStreak, err := s.nextStreak(ctx, participantID, isCorrect)
	if err != nil {
		return nil, err
	}

	response := &model.Response{
		ParticipantID: participantID,
		QuizID:        req.QuizID,
		Answer:        req.Answer,
		IsCorrect:     isCorrect,
		Score:         score,
		ResponseTime:  req.ResponseTime,
		TimeRemaining: req.TimeRemaining,
		Streak:        streak,
		TotalStreak:   totalStreak,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return nil, err
	}

	// Counters and caches are best-effort after the ledger insert; the ledger
	// is the source of truth and aggregates recompute from it.
	counterID := req.QuizID
	increment := s.quizzes.IncrementCounters
	if unit.SetID != "" {
		counterID = unit.SetID
		increment = s.sets.IncrementCounters
	}
	if err := increment(ctx, counterID, isCorrect); err != nil {
		log.Printf("Warning: failed to increment counters for %s: %v", counterID, err)
	}

	if s.profiles != nil && score > 0 {
		if _, err := s.profiles.AddScore(ctx, participantID, response.ID, score); err != nil {
			log.Printf("Warning: failed to add cached score for %s: %v", participantID, err)
		}
	}
	if s.lbCache != nil {
		if err := s.lbCache.Invalidate(ctx); err != nil {
			log.Printf("Warning: failed to invalidate leaderboard cache: %v", err)
		}
	}

	return &model.SubmitResult{
		ResponseID:  response.ID,
		IsCorrect:   isCorrect,
		Score:       score,
		Streak:      streak,
		TotalStreak: totalStreak,
	}, nil
}

// nextStreak derives the streak counters from the participant's most recent
// response. When the previous answer was correct the streak carries forward
// even on a wrong answer; it only restarts after a previous wrong answer.
// Concurrent submissions by the same participant may read the same previous
// row; the ledger accepts that skew rather than serializing writers.
func (s *ResponseService) nextStreak(ctx context.Context, participantID string, isCorrect bool) (streak, totalStreak int, err error) {
	prev, err := s.responses.GetLatestByParticipant(ctx, participantID)
	if err != nil {
		return 0, 0, err
	}
	if prev == nil {
		if isCorrect {
			return 1, 1, nil
		}
		return 0, 0, nil
	}

	if prev.IsCorrect {
		streak = prev.Streak
		if isCorrect {
			streak++
		}
		totalStreak = prev.TotalStreak
		if streak > totalStreak {
			totalStreak = streak
		}
		return streak, totalStreak, nil
	}

	if isCorrect {
		streak = 1
	}
	return streak, prev.TotalStreak, nil
}

// Get returns one participant's response to one quiz unit.
func (s *ResponseService) Get(ctx context.Context, participantID, quizID string) (*model.Response, error) {
	response, err := s.responses.Get(ctx, participantID, quizID)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, &model.NotFoundError{Resource: "response", ID: quizID}
	}
	return response, nil
}

// ListByParticipant returns a page of a participant's responses, newest first.
func (s *ResponseService) ListByParticipant(ctx context.Context, participantID string, limit, page int) ([]*model.Response, int64, error) {
	return s.responses.ListByParticipant(ctx, participantID, limit, page)
}

// ListByQuiz returns a page of responses for a quiz unit, newest first.
func (s *ResponseService) ListByQuiz(ctx context.Context, quizID string, limit, page int) ([]*model.Response, int64, error) {
	return s.responses.ListByQuiz(ctx, quizID, limit, page)
}

// Stats aggregates a participant's response history.
func (s *ResponseService) Stats(ctx context.Context, participantID string) (*model.UserStats, error) {
	return s.responses.ParticipantStats(ctx, participantID)
}
