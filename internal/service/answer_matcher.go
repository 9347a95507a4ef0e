package service

import (
	"strings"

	"spin2win/internal/model"
)

// AnswerMatcher locates the option whose text corresponds to a resolved
// outcome label. Question and option text is operator-authored free text, so
// matching is a capability that can be swapped for a stricter scheme
// (structured option ids) without touching the resolution flow.
type AnswerMatcher interface {
	// Match returns the index of the first matching option, or -1.
	Match(options []string, target string) int
}

// SubstringMatcher matches by case-insensitive containment. Known fragility:
// a player name that is a substring of another's matches the wrong option.
type SubstringMatcher struct{}

func (SubstringMatcher) Match(options []string, target string) int {
	if target == "" {
		return -1
	}
	target = strings.ToLower(target)
	for i, option := range options {
		if strings.Contains(strings.ToLower(option), target) {
			return i
		}
	}
	return -1
}

// ResolveQuestion rebinds a battle-prediction question's answer key to the
// real match outcome and marks it revealed. It returns a modified copy; the
// input is never mutated in place. Questions whose options never mention the
// outcome keep their original key (resolution fails open).
func ResolveQuestion(q model.Question, outcome model.MatchOutcome, matcher AnswerMatcher) model.Question {
	if q.Category != model.CategoryBattlePrediction {
		return q
	}

	text := strings.ToLower(q.Question)
	switch {
	case strings.Contains(text, "winner"):
		if i := matcher.Match(q.Options, outcome.Winner.Name); i >= 0 {
			q.CorrectAnswer = i
		}
	case strings.Contains(text, "battle type"), strings.Contains(text, "finish"):
		if i := matcher.Match(q.Options, outcome.BattleType.Label()); i >= 0 {
			q.CorrectAnswer = i
		}
	}
	q.IsRevealed = true
	return q
}
