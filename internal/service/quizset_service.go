package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"spin2win/internal/model"
	"spin2win/internal/repository"
)

// QuizSetService manages multi-question quiz sets, each bound to exactly one
// tournament match, and applies real match results to resolve prediction
// answer keys after the fact.
type QuizSetService struct {
	sets      repository.QuizSetRepo
	matches   repository.MatchRepo
	responses repository.ResponseRepo
	matcher   AnswerMatcher
}

// NewQuizSetService creates a new quiz set service.
func NewQuizSetService(sets repository.QuizSetRepo, matches repository.MatchRepo, responses repository.ResponseRepo, matcher AnswerMatcher) *QuizSetService {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &QuizSetService{sets: sets, matches: matches, responses: responses, matcher: matcher}
}

// CreateQuizSetRequest is the payload for creating a quiz set.
type CreateQuizSetRequest struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	BattleNumber string           `json:"battleNumber"`
	MatchID      string           `json:"matchId"`
	Questions    []model.Question `json:"questions"`
}

// UpdateQuizSetRequest is the draft-only patch payload. Nil fields are left
// untouched; a non-nil Questions slice replaces the whole question list.
type UpdateQuizSetRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Questions   []model.Question `json:"questions"`
}

// MatchResultRequest carries the real match outcome reported by an operator.
type MatchResultRequest struct {
	Winner         string           `json:"winner"`
	BattleType     model.BattleType `json:"battleType"`
	BattleDuration int              `json:"battleDuration"`
}

func validateSetName(name string) error {
	if len(name) < 3 || len(name) > 100 {
		return &model.ValidationError{Field: "name", Message: "must be between 3 and 100 characters"}
	}
	return nil
}

func validateQuestions(questions []model.Question) error {
	if len(questions) < 1 || len(questions) > 20 {
		return &model.ValidationError{Field: "questions", Message: "must contain between 1 and 20 questions"}
	}
	for i := range questions {
		questions[i].ApplyDefaults()
		if err := questions[i].Validate(fmt.Sprintf("questions[%d].", i)); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and persists a new quiz set in draft state. Each embedded
// question is assigned a stable id so individual submissions can reference it.
func (s *QuizSetService) Create(ctx context.Context, req CreateQuizSetRequest) (*model.QuizSet, error) {
	name := strings.TrimSpace(req.Name)
	if err := validateSetName(name); err != nil {
		return nil, err
	}
	battleNumber := strings.ToUpper(strings.TrimSpace(req.BattleNumber))
	if !model.ValidBattleNumber(battleNumber) {
		return nil, &model.ValidationError{Field: "battleNumber", Message: "must be in format E1, S2, Q3, F1"}
	}
	if req.MatchID == "" {
		return nil, &model.ValidationError{Field: "matchId", Message: "is required"}
	}
	if err := validateQuestions(req.Questions); err != nil {
		return nil, err
	}

	match, err := s.matches.GetByID(ctx, req.MatchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, &model.NotFoundError{Resource: "match", ID: req.MatchID}
	}

	// Pre-check for a friendlier error; the unique battleNumber index is the
	// real guard under concurrency.
	existing, err := s.sets.GetByBattleNumber(ctx, battleNumber)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &model.ConflictError{Reason: "quiz set already exists for this battle number"}
	}

	questions := make([]model.Question, len(req.Questions))
	copy(questions, req.Questions)
	for i := range questions {
		questions[i].ID = uuid.New().String()
		questions[i].IsRevealed = false
	}

	set := &model.QuizSet{
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		BattleNumber: battleNumber,
		MatchID:      req.MatchID,
		Questions:    questions,
	}
	if _, err := s.sets.Create(ctx, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Get returns a quiz set by id.
func (s *QuizSetService) Get(ctx context.Context, id string) (*model.QuizSet, error) {
	set, err := s.sets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if set == nil {
		return nil, &model.NotFoundError{Resource: "quiz set", ID: id}
	}
	return set, nil
}

// GetActive returns the most recently created active set, or nil.
func (s *QuizSetService) GetActive(ctx context.Context) (*model.QuizSet, error) {
	return s.sets.GetActive(ctx)
}

// List returns a filtered page of quiz sets.
func (s *QuizSetService) List(ctx context.Context, filter repository.QuizSetFilter) ([]*model.QuizSet, int64, error) {
	return s.sets.List(ctx, filter)
}

// Update applies a draft-only patch. Replacing the question list reassigns
// question ids: no responses can exist against a draft.
func (s *QuizSetService) Update(ctx context.Context, id string, patch UpdateQuizSetRequest) (*model.QuizSet, error) {
	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if set.IsActive || set.IsCompleted {
		return nil, &model.ConflictError{Reason: "cannot update active or completed quiz set"}
	}

	if patch.Name != nil {
		set.Name = strings.TrimSpace(*patch.Name)
		if err := validateSetName(set.Name); err != nil {
			return nil, err
		}
	}
	if patch.Description != nil {
		set.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Questions != nil {
		if err := validateQuestions(patch.Questions); err != nil {
			return nil, err
		}
		questions := make([]model.Question, len(patch.Questions))
		copy(questions, patch.Questions)
		for i := range questions {
			questions[i].ID = uuid.New().String()
			questions[i].IsRevealed = false
		}
		set.Questions = questions
	}

	matched, err := s.sets.ReplaceDraft(ctx, set)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &model.ConflictError{Reason: "cannot update active or completed quiz set"}
	}
	return set, nil
}

// Start opens the set for submissions.
func (s *QuizSetService) Start(ctx context.Context, id string) (*model.QuizSet, error) {
	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if set.IsActive {
		return nil, &model.ConflictError{Reason: "quiz set is already active"}
	}
	if set.IsCompleted {
		return nil, &model.ConflictError{Reason: "quiz set is already completed"}
	}

	now := time.Now()
	matched, err := s.sets.Start(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &model.ConflictError{Reason: "quiz set is already active"}
	}
	set.IsActive = true
	set.StartedAt = &now
	return set, nil
}

// End closes submissions and marks the set completed (terminal).
func (s *QuizSetService) End(ctx context.Context, id string) (*model.QuizSet, error) {
	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !set.IsActive {
		return nil, &model.ConflictError{Reason: "quiz set is not active"}
	}

	now := time.Now()
	matched, err := s.sets.End(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &model.ConflictError{Reason: "quiz set is not active"}
	}
	set.IsActive = false
	set.IsCompleted = true
	set.EndedAt = &now
	return set, nil
}

// Delete removes a quiz set. Active sets and sets whose questions have
// recorded responses cannot be deleted.
func (s *QuizSetService) Delete(ctx context.Context, id string) error {
	set, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if set.IsActive {
		return &model.ConflictError{Reason: "cannot delete an active quiz set"}
	}

	hasResponses, err := s.responses.ExistsForQuizzes(ctx, set.QuestionIDs())
	if err != nil {
		return err
	}
	if hasResponses {
		return &model.ConflictError{Reason: "cannot delete quiz set with existing responses"}
	}
	return s.sets.Delete(ctx, id)
}

// ApplyMatchResult records the real outcome of the set's match and resolves
// the answer keys of prediction questions against it. Questions whose text
// cannot be matched to the outcome keep their authored key. Re-applying a
// corrected result overwrites the previous resolution.
func (s *QuizSetService) ApplyMatchResult(ctx context.Context, id string, req MatchResultRequest) (*model.QuizSet, error) {
	set, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Winner == "" {
		return nil, &model.ValidationError{Field: "winner", Message: "is required"}
	}
	if !req.BattleType.Valid() {
		return nil, &model.ValidationError{Field: "battleType", Message: "must be one of burst, spin, ring_out, draw"}
	}
	if req.BattleDuration < 0 {
		return nil, &model.ValidationError{Field: "battleDuration", Message: "must not be negative"}
	}

	match, err := s.matches.GetByID(ctx, set.MatchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, &model.NotFoundError{Resource: "match", ID: set.MatchID}
	}
	if !match.HasPlayer(req.Winner) {
		return nil, &model.ValidationError{Field: "winner", Message: "must be one of the match players"}
	}

	winner := match.Player1
	if req.Winner == match.Player2.ID {
		winner = match.Player2
	}
	outcome := model.MatchOutcome{
		Winner:         winner,
		Loser:          match.Opponent(winner.ID),
		BattleType:     req.BattleType,
		BattleDuration: req.BattleDuration,
	}

	resolved := make([]model.Question, len(set.Questions))
	for i, q := range set.Questions {
		resolved[i] = ResolveQuestion(q, outcome, s.matcher)
	}

	result := model.MatchResult{
		WinnerID:       outcome.Winner.ID,
		LoserID:        outcome.Loser.ID,
		BattleType:     req.BattleType,
		BattleDuration: req.BattleDuration,
		IsResultSet:    true,
	}
	if err := s.sets.SetMatchResult(ctx, id, resolved, result); err != nil {
		return nil, err
	}
	set.Questions = resolved
	set.MatchResult = result
	return set, nil
}
