package service

import (
	"context"
	"testing"

	"spin2win/internal/model"
)

func validCreateQuizRequest() CreateQuizRequest {
	return CreateQuizRequest{
		BattleNumber:  "E1",
		Question:      "Who will win the opening battle?",
		Options:       []string{"Alice", "Bob"},
		CorrectAnswer: 0,
	}
}

func newQuizTestService() (*QuizService, *fakeQuizRepo, *fakeResponseRepo) {
	quizzes := newFakeQuizRepo()
	responses := newFakeResponseRepo()
	return NewQuizService(quizzes, responses), quizzes, responses
}

func TestCreateQuizAppliesDefaults(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, err := svc.Create(ctx, validCreateQuizRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if quiz.Points != 3 || quiz.TimeLimit != 30 {
		t.Fatalf("expected defaults 3/30, got %d/%d", quiz.Points, quiz.TimeLimit)
	}
	if quiz.Category != model.CategoryBattlePrediction || quiz.Difficulty != model.DifficultyMedium {
		t.Fatalf("expected default category/difficulty, got %s/%s", quiz.Category, quiz.Difficulty)
	}
	if quiz.IsActive || quiz.IsCompleted {
		t.Fatalf("new quiz must start in draft state")
	}
}

func TestCreateQuizValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	cases := []struct {
		name   string
		mutate func(*CreateQuizRequest)
	}{
		{"bad battle number", func(r *CreateQuizRequest) { r.BattleNumber = "X9" }},
		{"short question", func(r *CreateQuizRequest) { r.Question = "short" }},
		{"one option", func(r *CreateQuizRequest) { r.Options = []string{"Alice"} }},
		{"seven options", func(r *CreateQuizRequest) {
			r.Options = []string{"a", "b", "c", "d", "e", "f", "g"}
		}},
		{"answer out of range", func(r *CreateQuizRequest) { r.CorrectAnswer = 2 }},
		{"points too high", func(r *CreateQuizRequest) { r.Points = 11 }},
		{"time limit too low", func(r *CreateQuizRequest) { r.TimeLimit = 5 }},
		{"unknown category", func(r *CreateQuizRequest) { r.Category = "trivia" }},
		{"unknown difficulty", func(r *CreateQuizRequest) { r.Difficulty = "impossible" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateQuizRequest()
			tc.mutate(&req)
			if _, err := svc.Create(ctx, req); !model.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCreateQuizNormalizesBattleNumber(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	req := validCreateQuizRequest()
	req.BattleNumber = " e1 "
	quiz, err := svc.Create(ctx, req)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if quiz.BattleNumber != "E1" {
		t.Fatalf("expected normalized battle number E1, got %q", quiz.BattleNumber)
	}
}

func TestQuizLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, err := svc.Create(ctx, validCreateQuizRequest())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	started, err := svc.Start(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if !started.IsActive || started.IsCompleted || started.StartedAt == nil {
		t.Fatalf("unexpected state after start: %+v", started)
	}

	if _, err := svc.Start(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict on double start, got %v", err)
	}

	ended, err := svc.End(ctx, quiz.ID)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if ended.IsActive || !ended.IsCompleted || ended.EndedAt == nil {
		t.Fatalf("unexpected state after end: %+v", ended)
	}

	// Completion is terminal.
	if _, err := svc.Start(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict restarting completed quiz, got %v", err)
	}
	if _, err := svc.End(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict re-ending completed quiz, got %v", err)
	}
}

func TestEndRequiresActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, _ := svc.Create(ctx, validCreateQuizRequest())
	if _, err := svc.End(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict ending draft quiz, got %v", err)
	}
}

func TestUpdateQuizDraftOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, _ := svc.Create(ctx, validCreateQuizRequest())

	newText := "Who takes the first point of the final?"
	updated, err := svc.Update(ctx, quiz.ID, UpdateQuizRequest{Question: &newText})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Question != newText {
		t.Fatalf("expected updated question, got %q", updated.Question)
	}

	if _, err := svc.Start(ctx, quiz.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := svc.Update(ctx, quiz.ID, UpdateQuizRequest{Question: &newText}); !model.IsConflict(err) {
		t.Fatalf("expected conflict updating active quiz, got %v", err)
	}
}

func TestUpdateQuizRevalidates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, _ := svc.Create(ctx, validCreateQuizRequest())
	badAnswer := 5
	if _, err := svc.Update(ctx, quiz.ID, UpdateQuizRequest{CorrectAnswer: &badAnswer}); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteQuizGuards(t *testing.T) {
	ctx := context.Background()
	svc, _, responses := newQuizTestService()

	quiz, _ := svc.Create(ctx, validCreateQuizRequest())
	if _, err := svc.Start(ctx, quiz.ID); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	if err := svc.Delete(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict deleting active quiz, got %v", err)
	}

	if _, err := svc.End(ctx, quiz.ID); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if err := responses.Create(ctx, &model.Response{ParticipantID: "p1", QuizID: quiz.ID}); err != nil {
		t.Fatalf("seed response failed: %v", err)
	}

	if err := svc.Delete(ctx, quiz.ID); !model.IsConflict(err) {
		t.Fatalf("expected conflict deleting quiz with responses, got %v", err)
	}
}

func TestDeleteQuizWithoutResponses(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	quiz, _ := svc.Create(ctx, validCreateQuizRequest())
	if err := svc.Delete(ctx, quiz.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, quiz.ID); !model.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGetQuizNotFound(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuizTestService()

	if _, err := svc.Get(ctx, "missing"); !model.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
