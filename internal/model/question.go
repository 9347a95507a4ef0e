package model

import "fmt"

// QuestionCategory classifies what a question is about.
type QuestionCategory string

const (
	CategoryBattlePrediction QuestionCategory = "battle_prediction"
	CategoryDomainKnowledge  QuestionCategory = "domain_knowledge"
	CategoryStrategy         QuestionCategory = "strategy"
	CategoryGeneral          QuestionCategory = "general"
)

// Valid reports whether the category is one of the known values.
func (c QuestionCategory) Valid() bool {
	switch c {
	case CategoryBattlePrediction, CategoryDomainKnowledge, CategoryStrategy, CategoryGeneral:
		return true
	}
	return false
}

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
	DifficultyExpert Difficulty = "expert"
)

// Valid reports whether the difficulty is one of the known values.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard, DifficultyExpert:
		return true
	}
	return false
}

// Question is a single multiple-choice question. Inside a quiz set every
// question carries its own ID and is an independently answerable unit for
// the response ledger.
type Question struct {
	ID            string           `json:"id" bson:"id"`
	Question      string           `json:"question" bson:"question"`
	Options       []string         `json:"options" bson:"options"`
	CorrectAnswer int              `json:"correctAnswer" bson:"correctAnswer"`
	Points        int              `json:"points" bson:"points"`
	TimeLimit     int              `json:"timeLimit" bson:"timeLimit"`
	Category      QuestionCategory `json:"category" bson:"category"`
	Difficulty    Difficulty       `json:"difficulty" bson:"difficulty"`
	IsRevealed    bool             `json:"isRevealed" bson:"isRevealed"`
}

// ApplyDefaults fills zero-valued fields with the schema defaults.
func (q *Question) ApplyDefaults() {
	if q.Points == 0 {
		q.Points = 3
	}
	if q.TimeLimit == 0 {
		q.TimeLimit = 30
	}
	if q.Category == "" {
		q.Category = CategoryBattlePrediction
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
}

// Validate checks the question against the schema constraints. The field
// prefix is prepended to error fields so set questions report their position.
func (q *Question) Validate(prefix string) error {
	if n := len(q.Question); n < 10 || n > 500 {
		return &ValidationError{Field: prefix + "question", Message: "must be between 10 and 500 characters"}
	}
	if n := len(q.Options); n < 2 || n > 6 {
		return &ValidationError{Field: prefix + "options", Message: "must have between 2 and 6 options"}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		return &ValidationError{Field: prefix + "correctAnswer", Message: "index is out of range"}
	}
	if q.Points < 1 || q.Points > 10 {
		return &ValidationError{Field: prefix + "points", Message: "must be between 1 and 10"}
	}
	if q.TimeLimit < 10 || q.TimeLimit > 300 {
		return &ValidationError{Field: prefix + "timeLimit", Message: "must be between 10 and 300 seconds"}
	}
	if !q.Category.Valid() {
		return &ValidationError{Field: prefix + "category", Message: fmt.Sprintf("unknown category %q", q.Category)}
	}
	if !q.Difficulty.Valid() {
		return &ValidationError{Field: prefix + "difficulty", Message: fmt.Sprintf("unknown difficulty %q", q.Difficulty)}
	}
	return nil
}

// QuestionView is the outbound payload shape. CorrectAnswer is present only
// when the caller is privileged or the question has been revealed.
type QuestionView struct {
	ID            string           `json:"id"`
	Question      string           `json:"question"`
	Options       []string         `json:"options"`
	CorrectAnswer *int             `json:"correctAnswer,omitempty"`
	Points        int              `json:"points"`
	TimeLimit     int              `json:"timeLimit"`
	Category      QuestionCategory `json:"category"`
	Difficulty    Difficulty       `json:"difficulty"`
	IsRevealed    bool             `json:"isRevealed"`
}

// View sanitizes the question for a caller. Non-privileged callers never see
// the answer key of an unrevealed question.
func (q Question) View(includeAnswer bool) QuestionView {
	v := QuestionView{
		ID:         q.ID,
		Question:   q.Question,
		Options:    q.Options,
		Points:     q.Points,
		TimeLimit:  q.TimeLimit,
		Category:   q.Category,
		Difficulty: q.Difficulty,
		IsRevealed: q.IsRevealed,
	}
	if includeAnswer || q.IsRevealed {
		answer := q.CorrectAnswer
		v.CorrectAnswer = &answer
	}
	return v
}
