package service

import (
	"context"
	"strings"
	"time"

	"spin2win/internal/model"
	"spin2win/internal/repository"
)

// QuizService handles the lifecycle of standalone quizzes: Draft (neither
// active nor completed) -> Active -> Completed. Question edits are
// draft-only; completion is terminal.
type QuizService struct {
	quizzes   repository.QuizRepo
	responses repository.ResponseRepo
}

// NewQuizService creates a new quiz service.
func NewQuizService(quizzes repository.QuizRepo, responses repository.ResponseRepo) *QuizService {
	return &QuizService{quizzes: quizzes, responses: responses}
}

// CreateQuizRequest is the payload for creating a standalone quiz.
type CreateQuizRequest struct {
	BattleNumber  string                 `json:"battleNumber"`
	Question      string                 `json:"question"`
	Options       []string               `json:"options"`
	CorrectAnswer int                    `json:"correctAnswer"`
	Points        int                    `json:"points"`
	TimeLimit     int                    `json:"timeLimit"`
	Category      model.QuestionCategory `json:"category"`
	Difficulty    model.Difficulty       `json:"difficulty"`
	Description   string                 `json:"description"`
}

// UpdateQuizRequest is the draft-only patch payload. Nil fields are left
// untouched.
type UpdateQuizRequest struct {
	Question      *string                 `json:"question"`
	Options       []string                `json:"options"`
	CorrectAnswer *int                    `json:"correctAnswer"`
	Points        *int                    `json:"points"`
	TimeLimit     *int                    `json:"timeLimit"`
	Category      *model.QuestionCategory `json:"category"`
	Difficulty    *model.Difficulty       `json:"difficulty"`
	Description   *string                 `json:"description"`
}

// Create validates and persists a new quiz in draft state.
func (s *QuizService) Create(ctx context.Context, req CreateQuizRequest) (*model.Quiz, error) {
	battleNumber := strings.ToUpper(strings.TrimSpace(req.BattleNumber))
	if !model.ValidBattleNumber(battleNumber) {
		return nil, &model.ValidationError{Field: "battleNumber", Message: "must be in format E1, S2, Q3, F1"}
	}

	question := model.Question{
		Question:      strings.TrimSpace(req.Question),
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Points:        req.Points,
		TimeLimit:     req.TimeLimit,
		Category:      req.Category,
		Difficulty:    req.Difficulty,
	}
	question.ApplyDefaults()
	if err := question.Validate(""); err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		BattleNumber:  battleNumber,
		Question:      question.Question,
		Options:       question.Options,
		CorrectAnswer: question.CorrectAnswer,
		Points:        question.Points,
		TimeLimit:     question.TimeLimit,
		Category:      question.Category,
		Difficulty:    question.Difficulty,
		Description:   strings.TrimSpace(req.Description),
	}
	if _, err := s.quizzes.Create(ctx, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// Get returns a quiz by id.
func (s *QuizService) Get(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.quizzes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, &model.NotFoundError{Resource: "quiz", ID: id}
	}
	return quiz, nil
}

// GetActive returns the most recently created active quiz, or nil.
func (s *QuizService) GetActive(ctx context.Context) (*model.Quiz, error) {
	return s.quizzes.GetActive(ctx)
}

// List returns a filtered page of quizzes.
func (s *QuizService) List(ctx context.Context, filter repository.QuizFilter) ([]*model.Quiz, int64, error) {
	return s.quizzes.List(ctx, filter)
}

// Update applies a draft-only patch and re-validates the touched question.
func (s *QuizService) Update(ctx context.Context, id string, patch UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.IsActive || quiz.IsCompleted {
		return nil, &model.ConflictError{Reason: "cannot update active or completed quiz"}
	}

	if patch.Question != nil {
		quiz.Question = strings.TrimSpace(*patch.Question)
	}
	if patch.Options != nil {
		quiz.Options = patch.Options
	}
	if patch.CorrectAnswer != nil {
		quiz.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Points != nil {
		quiz.Points = *patch.Points
	}
	if patch.TimeLimit != nil {
		quiz.TimeLimit = *patch.TimeLimit
	}
	if patch.Category != nil {
		quiz.Category = *patch.Category
	}
	if patch.Difficulty != nil {
		quiz.Difficulty = *patch.Difficulty
	}
	if patch.Description != nil {
		quiz.Description = strings.TrimSpace(*patch.Description)
	}

	question := quiz.AsQuestion()
	if err := question.Validate(""); err != nil {
		return nil, err
	}

	matched, err := s.quizzes.ReplaceDraft(ctx, quiz)
	if err != nil {
		return nil, err
	}
	if !matched {
		// Lost the draft guard to a concurrent start.
		return nil, &model.ConflictError{Reason: "cannot update active or completed quiz"}
	}
	return quiz, nil
}

// Start opens the quiz for submissions. The transition is a compare-and-set
// so a double-start under operator retry fails cleanly.
func (s *QuizService) Start(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quiz.IsActive {
		return nil, &model.ConflictError{Reason: "quiz is already active"}
	}
	if quiz.IsCompleted {
		return nil, &model.ConflictError{Reason: "quiz is already completed"}
	}

	now := time.Now()
	matched, err := s.quizzes.Start(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &model.ConflictError{Reason: "quiz is already active"}
	}
	quiz.IsActive = true
	quiz.StartedAt = &now
	return quiz, nil
}

// End closes submissions and marks the quiz completed (terminal).
func (s *QuizService) End(ctx context.Context, id string) (*model.Quiz, error) {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !quiz.IsActive {
		return nil, &model.ConflictError{Reason: "quiz is not active"}
	}

	now := time.Now()
	matched, err := s.quizzes.End(ctx, id, now)
	if err != nil {
		return nil, err
	}
	if !matched {
		return nil, &model.ConflictError{Reason: "quiz is not active"}
	}
	quiz.IsActive = false
	quiz.IsCompleted = true
	quiz.EndedAt = &now
	return quiz, nil
}

// Delete removes a quiz. Active quizzes and quizzes with recorded responses
// cannot be deleted: downstream aggregates depend on the ledger rows.
func (s *QuizService) Delete(ctx context.Context, id string) error {
	quiz, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if quiz.IsActive {
		return &model.ConflictError{Reason: "cannot delete an active quiz"}
	}

	hasResponses, err := s.responses.ExistsForQuizzes(ctx, []string{id})
	if err != nil {
		return err
	}
	if hasResponses {
		return &model.ConflictError{Reason: "cannot delete quiz with existing responses"}
	}
	return s.quizzes.Delete(ctx, id)
}
