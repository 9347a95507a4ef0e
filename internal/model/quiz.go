package model

import (
	"math"
	"regexp"
	"time"
)

var battleNumberPattern = regexp.MustCompile(`^[ESQF]\d+$`)

// ValidBattleNumber reports whether the label matches the tournament slot
// format (E1, S2, Q3, F1).
func ValidBattleNumber(label string) bool {
	return battleNumberPattern.MatchString(label)
}

// Quiz is a standalone single-question prediction quiz tied to a tournament
// battle number. It owns its own lifecycle flags and response counters.
type Quiz struct {
	ID               string           `json:"id" bson:"_id,omitempty"`
	BattleNumber     string           `json:"battleNumber" bson:"battleNumber"`
	Question         string           `json:"question" bson:"question"`
	Options          []string         `json:"options" bson:"options"`
	CorrectAnswer    int              `json:"correctAnswer" bson:"correctAnswer"`
	Points           int              `json:"points" bson:"points"`
	TimeLimit        int              `json:"timeLimit" bson:"timeLimit"`
	Category         QuestionCategory `json:"category" bson:"category"`
	Difficulty       Difficulty       `json:"difficulty" bson:"difficulty"`
	Description      string           `json:"description,omitempty" bson:"description,omitempty"`
	IsRevealed       bool             `json:"isRevealed" bson:"isRevealed"`
	IsActive         bool             `json:"isActive" bson:"isActive"`
	IsCompleted      bool             `json:"isCompleted" bson:"isCompleted"`
	StartedAt        *time.Time       `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt          *time.Time       `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	TotalResponses   int              `json:"totalResponses" bson:"totalResponses"`
	CorrectResponses int              `json:"correctResponses" bson:"correctResponses"`
	CreatedAt        time.Time        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt" bson:"updatedAt"`
}

// AccuracyPercentage is the rounded share of correct responses.
func (q *Quiz) AccuracyPercentage() int {
	if q.TotalResponses == 0 {
		return 0
	}
	return int(math.Round(float64(q.CorrectResponses) / float64(q.TotalResponses) * 100))
}

// AsQuestion projects the quiz onto the embedded question shape so it can be
// validated and resolved the same way as set questions.
func (q *Quiz) AsQuestion() Question {
	return Question{
		ID:            q.ID,
		Question:      q.Question,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
		TimeLimit:     q.TimeLimit,
		Category:      q.Category,
		Difficulty:    q.Difficulty,
		IsRevealed:    q.IsRevealed,
	}
}

// Unit projects the quiz onto the generic answerable unit used by the
// response ledger.
func (q *Quiz) Unit() QuizUnit {
	return QuizUnit{
		QuizID:        q.ID,
		Options:       q.Options,
		CorrectAnswer: q.CorrectAnswer,
		Points:        q.Points,
		IsActive:      q.IsActive,
	}
}

// QuizView is the outbound payload shape for a standalone quiz.
type QuizView struct {
	ID               string           `json:"id"`
	BattleNumber     string           `json:"battleNumber"`
	Question         string           `json:"question"`
	Options          []string         `json:"options"`
	CorrectAnswer    *int             `json:"correctAnswer,omitempty"`
	Points           int              `json:"points"`
	TimeLimit        int              `json:"timeLimit"`
	Category         QuestionCategory `json:"category"`
	Difficulty       Difficulty       `json:"difficulty"`
	Description      string           `json:"description,omitempty"`
	IsRevealed       bool             `json:"isRevealed"`
	IsActive         bool             `json:"isActive"`
	IsCompleted      bool             `json:"isCompleted"`
	StartedAt        *time.Time       `json:"startedAt,omitempty"`
	EndedAt          *time.Time       `json:"endedAt,omitempty"`
	TotalResponses   int              `json:"totalResponses"`
	CorrectResponses int              `json:"correctResponses"`
	Accuracy         int              `json:"accuracyPercentage"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// View sanitizes the quiz for a caller.
func (q *Quiz) View(includeAnswer bool) QuizView {
	v := QuizView{
		ID:               q.ID,
		BattleNumber:     q.BattleNumber,
		Question:         q.Question,
		Options:          q.Options,
		Points:           q.Points,
		TimeLimit:        q.TimeLimit,
		Category:         q.Category,
		Difficulty:       q.Difficulty,
		Description:      q.Description,
		IsRevealed:       q.IsRevealed,
		IsActive:         q.IsActive,
		IsCompleted:      q.IsCompleted,
		StartedAt:        q.StartedAt,
		EndedAt:          q.EndedAt,
		TotalResponses:   q.TotalResponses,
		CorrectResponses: q.CorrectResponses,
		Accuracy:         q.AccuracyPercentage(),
		CreatedAt:        q.CreatedAt,
	}
	if includeAnswer || q.IsRevealed {
		answer := q.CorrectAnswer
		v.CorrectAnswer = &answer
	}
	return v
}

// QuizUnit is the answerable unit the response ledger records against:
// a standalone quiz, or one question of a quiz set. SetID is empty for
// standalone quizzes.
type QuizUnit struct {
	QuizID        string
	SetID         string
	Options       []string
	CorrectAnswer int
	Points        int
	IsActive      bool
}
