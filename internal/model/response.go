package model

import "time"

// Response is one participant's single, immutable answer to one quiz unit.
// At most one response exists per (participant, quiz) pair; the pair is
// unique-indexed at the storage layer.
type Response struct {
	ID            string    `json:"id" bson:"_id,omitempty"`
	ParticipantID string    `json:"participantId" bson:"participantId"`
	QuizID        string    `json:"quizId" bson:"quizId"`
	Answer        int       `json:"answer" bson:"answer"`
	IsCorrect     bool      `json:"isCorrect" bson:"isCorrect"`
	Score         int       `json:"score" bson:"score"`
	ResponseTime  float64   `json:"responseTime" bson:"responseTime"`
	TimeRemaining float64   `json:"timeRemaining" bson:"timeRemaining"`
	Streak        int       `json:"streak" bson:"streak"`
	TotalStreak   int       `json:"totalStreak" bson:"totalStreak"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// SubmitRequest is the inbound submission payload. ResponseTime and
// TimeRemaining are client-reported telemetry, not authoritative.
type SubmitRequest struct {
	QuizID        string  `json:"quizId"`
	Answer        int     `json:"answer"`
	ResponseTime  float64 `json:"responseTime"`
	TimeRemaining float64 `json:"timeRemaining"`
}

// SubmitResult is returned to the participant after a successful submission.
// It never includes the correct answer index.
type SubmitResult struct {
	ResponseID  string `json:"id"`
	IsCorrect   bool   `json:"isCorrect"`
	Score       int    `json:"score"`
	Streak      int    `json:"streak"`
	TotalStreak int    `json:"totalStreak"`
}

// UserStats aggregates one participant's response history.
type UserStats struct {
	TotalResponses      int     `json:"totalResponses" bson:"totalResponses"`
	CorrectResponses    int     `json:"correctResponses" bson:"correctResponses"`
	TotalScore          int     `json:"totalScore" bson:"totalScore"`
	AverageResponseTime float64 `json:"averageResponseTime" bson:"averageResponseTime"`
	CurrentStreak       int     `json:"currentStreak" bson:"currentStreak"`
	MaxStreak           int     `json:"maxStreak" bson:"maxStreak"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// PageCount computes the number of pages for a total at the given page size.
func PageCount(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
