package models

import "time"

type ChallengeStatus int

const (
	ChallengeStatusOpen       ChallengeStatus = 0
	ChallengeStatusInProgress ChallengeStatus = 1
	ChallengeStatusCompleted  ChallengeStatus = 2
	ChallengeStatusCancelled  ChallengeStatus = 3
)

type Challenge struct {
	ID            int             `json:"id" db:"challenge_id"`
	CompetitionID int             `json:"competition_id" db:"comp_id"`
	ChallengerID  int             `json:"challenger_id" db:"challenger_id"`
	ChallengedID  int             `json:"challenged_id" db:"challenged_id"`
	ChallengeDate time.Time       `json:"challenge_date" db:"chall_date"`
	Status        ChallengeStatus `json:"status" db:"chall_status"`
}

// Involves reports whether playerID is the challenger or the challenged player.
func (c *Challenge) Involves(playerID int) bool {
	return c.ChallengerID == playerID || c.ChallengedID == playerID
}

// Result labels used in Outcome.
const (
	ResultWon        = "Won"
	ResultLost       = "Lost"
	ResultUnreported = "Unreported"
)

// Outcome is the resolved result of a completed challenge.
// Axis and Allies carry the result of whoever played that side.
type Outcome struct {
	Axis       string `json:"axis"`
	Allies     string `json:"allies"`
	MatchID    *int   `json:"match_id,omitempty"`
	PlayerSide *Side  `json:"player_side,omitempty"`
	PlayerWon  bool   `json:"player_won"`
}

type ChallengeRecord struct {
	Challenge
	ChallengerName    string   `json:"challenger_name"`
	ChallengerCountry string   `json:"challenger_country"`
	ChallengedName    string   `json:"challenged_name"`
	ChallengedCountry string   `json:"challenged_country"`
	Outcome           *Outcome `json:"outcome,omitempty"`
}
