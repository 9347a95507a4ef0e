package model

import (
	"math"
	"strings"
	"time"
)

// BattleType is how a match concluded.
type BattleType string

const (
	BattleTypeBurst   BattleType = "burst"
	BattleTypeSpin    BattleType = "spin"
	BattleTypeRingOut BattleType = "ring_out"
	BattleTypeDraw    BattleType = "draw"
)

// Valid reports whether the battle type is one of the known values.
func (b BattleType) Valid() bool {
	switch b {
	case BattleTypeBurst, BattleTypeSpin, BattleTypeRingOut, BattleTypeDraw:
		return true
	}
	return false
}

// Label is the human form used when scanning option text ("ring_out" is
// written "ring out" in operator-authored options).
func (b BattleType) Label() string {
	return strings.ReplaceAll(string(b), "_", " ")
}

// MatchResult records the real outcome applied to a quiz set.
type MatchResult struct {
	WinnerID       string     `json:"winner,omitempty" bson:"winner,omitempty"`
	LoserID        string     `json:"loser,omitempty" bson:"loser,omitempty"`
	BattleType     BattleType `json:"battleType,omitempty" bson:"battleType,omitempty"`
	BattleDuration int        `json:"battleDuration" bson:"battleDuration"`
	IsResultSet    bool       `json:"isResultSet" bson:"isResultSet"`
}

// QuizSet owns an ordered list of questions for one tournament battle and a
// reference to exactly one match. Questions may be edited only while the set
// is in draft (neither active nor completed).
type QuizSet struct {
	ID               string      `json:"id" bson:"_id,omitempty"`
	Name             string      `json:"name" bson:"name"`
	Description      string      `json:"description,omitempty" bson:"description,omitempty"`
	BattleNumber     string      `json:"battleNumber" bson:"battleNumber"`
	MatchID          string      `json:"matchId" bson:"matchId"`
	Questions        []Question  `json:"questions" bson:"questions"`
	IsActive         bool        `json:"isActive" bson:"isActive"`
	IsCompleted      bool        `json:"isCompleted" bson:"isCompleted"`
	StartedAt        *time.Time  `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	EndedAt          *time.Time  `json:"endedAt,omitempty" bson:"endedAt,omitempty"`
	TotalResponses   int         `json:"totalResponses" bson:"totalResponses"`
	CorrectResponses int         `json:"correctResponses" bson:"correctResponses"`
	MatchResult      MatchResult `json:"matchResult" bson:"matchResult"`
	CreatedAt        time.Time   `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt" bson:"updatedAt"`
}

// QuestionByID returns the embedded question with the given id, or nil.
func (s *QuizSet) QuestionByID(id string) *Question {
	for i := range s.Questions {
		if s.Questions[i].ID == id {
			return &s.Questions[i]
		}
	}
	return nil
}

// QuestionIDs lists the ids of all embedded questions.
func (s *QuizSet) QuestionIDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

// TotalPoints is the sum of all question point values.
func (s *QuizSet) TotalPoints() int {
	total := 0
	for _, q := range s.Questions {
		total += q.Points
	}
	return total
}

// AccuracyPercentage is the rounded share of correct responses.
func (s *QuizSet) AccuracyPercentage() int {
	if s.TotalResponses == 0 {
		return 0
	}
	return int(math.Round(float64(s.CorrectResponses) / float64(s.TotalResponses) * 100))
}

// QuizSetView is the outbound payload shape for a quiz set.
type QuizSetView struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Description      string         `json:"description,omitempty"`
	BattleNumber     string         `json:"battleNumber"`
	MatchID          string         `json:"matchId"`
	Questions        []QuestionView `json:"questions"`
	TotalQuestions   int            `json:"totalQuestions"`
	TotalPoints      int            `json:"totalPoints"`
	IsActive         bool           `json:"isActive"`
	IsCompleted      bool           `json:"isCompleted"`
	StartedAt        *time.Time     `json:"startedAt,omitempty"`
	EndedAt          *time.Time     `json:"endedAt,omitempty"`
	TotalResponses   int            `json:"totalResponses"`
	CorrectResponses int            `json:"correctResponses"`
	Accuracy         int            `json:"accuracyPercentage"`
	MatchResult      MatchResult    `json:"matchResult"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// View sanitizes the set for a caller, redacting unrevealed answer keys for
// non-privileged callers.
func (s *QuizSet) View(includeAnswers bool) QuizSetView {
	questions := make([]QuestionView, len(s.Questions))
	for i, q := range s.Questions {
		questions[i] = q.View(includeAnswers)
	}
	return QuizSetView{
		ID:               s.ID,
		Name:             s.Name,
		Description:      s.Description,
		BattleNumber:     s.BattleNumber,
		MatchID:          s.MatchID,
		Questions:        questions,
		TotalQuestions:   len(s.Questions),
		TotalPoints:      s.TotalPoints(),
		IsActive:         s.IsActive,
		IsCompleted:      s.IsCompleted,
		StartedAt:        s.StartedAt,
		EndedAt:          s.EndedAt,
		TotalResponses:   s.TotalResponses,
		CorrectResponses: s.CorrectResponses,
		Accuracy:         s.AccuracyPercentage(),
		MatchResult:      s.MatchResult,
		CreatedAt:        s.CreatedAt,
	}
}
