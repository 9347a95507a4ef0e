package model

import "time"

// MatchPlayer identifies one side of a match, with the display name used for
// textual answer resolution.
type MatchPlayer struct {
	ID   string `json:"id" bson:"id"`
	Name string `json:"name" bson:"name"`
}

// Match is the read-only view of a tournament match as published by the
// bracket system. The quiz engine never mutates matches; it only reads them
// to validate winners and resolve answer keys.
type Match struct {
	ID           string      `json:"id" bson:"_id,omitempty"`
	MatchID      string      `json:"matchId" bson:"matchId"`
	Round        string      `json:"round" bson:"round"`
	BattleNumber string      `json:"battleNumber" bson:"battleNumber"`
	Player1      MatchPlayer `json:"player1" bson:"player1"`
	Player2      MatchPlayer `json:"player2" bson:"player2"`
	Status       string      `json:"status" bson:"status"`
	ScheduledAt  *time.Time  `json:"scheduledAt,omitempty" bson:"scheduledAt,omitempty"`
}

// HasPlayer reports whether the given id is one of the two players.
func (m *Match) HasPlayer(id string) bool {
	return id == m.Player1.ID || id == m.Player2.ID
}

// Opponent returns the other player of the match. The caller must have
// verified membership with HasPlayer first.
func (m *Match) Opponent(id string) MatchPlayer {
	if id == m.Player1.ID {
		return m.Player2
	}
	return m.Player1
}

// MatchOutcome carries a concluded match's result into answer resolution.
type MatchOutcome struct {
	Winner         MatchPlayer
	Loser          MatchPlayer
	BattleType     BattleType
	BattleDuration int
}
