package model

// LeaderboardEntry is one participant's ranked aggregate over the response
// ledger. Accuracy is a percentage rounded to two decimal places.
type LeaderboardEntry struct {
	ParticipantID    string  `json:"participantId" bson:"_id"`
	TotalScore       int     `json:"totalScore" bson:"totalScore"`
	TotalResponses   int     `json:"totalResponses" bson:"totalResponses"`
	CorrectResponses int     `json:"correctResponses" bson:"correctResponses"`
	Accuracy         float64 `json:"accuracy" bson:"-"`
	Rank             int     `json:"rank" bson:"-"`
}

// Leaderboard is a page of the ranked view. It is derived on demand from the
// response ledger; no leaderboard state is persisted.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"leaderboard"`
	Pagination Pagination         `json:"pagination"`
}
