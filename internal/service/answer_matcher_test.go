package service

import (
	"testing"

	"spin2win/internal/model"
)

func TestSubstringMatcher(t *testing.T) {
	m := SubstringMatcher{}
	options := []string{"Team Alpha wins", "Team Omega wins", "Ends in a draw"}

	cases := []struct {
		target string
		want   int
	}{
		{"Omega", 1},
		{"omega", 1},
		{"ALPHA", 0},
		{"draw", 2},
		{"Nobody", -1},
		{"", -1},
	}
	for _, tc := range cases {
		if got := m.Match(options, tc.target); got != tc.want {
			t.Fatalf("Match(%q) = %d, want %d", tc.target, got, tc.want)
		}
	}
}

func TestResolveQuestionWinner(t *testing.T) {
	q := model.Question{
		Question:      "Who will be the winner of the final?",
		Options:       []string{"Alice", "Bob"},
		CorrectAnswer: 0,
		Category:      model.CategoryBattlePrediction,
	}
	outcome := model.MatchOutcome{
		Winner:     model.MatchPlayer{ID: "bob", Name: "Bob"},
		BattleType: model.BattleTypeBurst,
	}

	resolved := ResolveQuestion(q, outcome, SubstringMatcher{})
	if resolved.CorrectAnswer != 1 {
		t.Fatalf("expected answer rebound to 1, got %d", resolved.CorrectAnswer)
	}
	if !resolved.IsRevealed {
		t.Fatalf("expected question revealed")
	}
	if q.CorrectAnswer != 0 || q.IsRevealed {
		t.Fatalf("input must not be mutated: %+v", q)
	}
}

func TestResolveQuestionBattleType(t *testing.T) {
	q := model.Question{
		Question:      "How will the battle finish?",
		Options:       []string{"By burst", "By ring out", "By spin out"},
		CorrectAnswer: 0,
		Category:      model.CategoryBattlePrediction,
	}
	outcome := model.MatchOutcome{
		Winner:     model.MatchPlayer{ID: "alice", Name: "Alice"},
		BattleType: model.BattleTypeRingOut,
	}

	resolved := ResolveQuestion(q, outcome, SubstringMatcher{})
	if resolved.CorrectAnswer != 1 {
		t.Fatalf("expected ring out option selected, got %d", resolved.CorrectAnswer)
	}
}

func TestResolveQuestionSkipsOtherCategories(t *testing.T) {
	q := model.Question{
		Question:      "Who will be the winner of the final?",
		Options:       []string{"Alice", "Bob"},
		CorrectAnswer: 0,
		Category:      model.CategoryStrategy,
	}
	outcome := model.MatchOutcome{Winner: model.MatchPlayer{ID: "bob", Name: "Bob"}}

	resolved := ResolveQuestion(q, outcome, SubstringMatcher{})
	if resolved.CorrectAnswer != 0 || resolved.IsRevealed {
		t.Fatalf("expected non-prediction question untouched, got %+v", resolved)
	}
}

func TestResolveQuestionUnmatchedTextKeepsKey(t *testing.T) {
	q := model.Question{
		Question:      "Will the crowd favorite take it home?",
		Options:       []string{"Yes", "No"},
		CorrectAnswer: 1,
		Category:      model.CategoryBattlePrediction,
	}
	outcome := model.MatchOutcome{Winner: model.MatchPlayer{ID: "alice", Name: "Alice"}}

	resolved := ResolveQuestion(q, outcome, SubstringMatcher{})
	if resolved.CorrectAnswer != 1 {
		t.Fatalf("expected authored key kept, got %d", resolved.CorrectAnswer)
	}
	if !resolved.IsRevealed {
		t.Fatalf("prediction questions are revealed even without a rebind")
	}
}
