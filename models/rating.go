package models

import "time"

// Vote values of a karma rating.
const (
	VoteNegative = -1
	VoteNeutral  = 0
	VotePositive = 1
)

type Rating struct {
	ID          int       `json:"id" db:"rating_id"`
	RaterID     int       `json:"rater_id" db:"rater_id"`
	RatedID     int       `json:"rated_id" db:"rated_id"`
	ChallengeID int       `json:"challenge_id" db:"challenge_id"`
	Value       int       `json:"rating" db:"rating"`
	Comment     string    `json:"comment" db:"comment"`
	RatingDate  time.Time `json:"rating_date" db:"rating_date"`
}

type KarmaSummary struct {
	NumNegative int     `json:"num_negative"`
	NumNeutral  int     `json:"num_neutral"`
	NumPositive int     `json:"num_positive"`
	Karma       float64 `json:"karma_rating"`
}

// KarmaRating is a rating received by a player, annotated with the rater's name.
type KarmaRating struct {
	Rating
	RaterName string `json:"rater_name"`
}

// Obligation is a finished challenge the player has not rated yet.
type Obligation struct {
	ChallengeID    int       `json:"challenge_id"`
	CompetitionID  int       `json:"competition_id"`
	ChallengerID   int       `json:"challenger_id"`
	ChallengedID   int       `json:"challenged_id"`
	ChallengerName string    `json:"challenger_name"`
	ChallengedName string    `json:"challenged_name"`
	ChallengeDate  time.Time `json:"challenge_date"`
}
