package models

import "time"

// Side is the faction the winner of a match played.
type Side int

const (
	SideAxis   Side = 0
	SideAllies Side = 1
)

func (s Side) Name() string {
	if s == SideAxis {
		return "Axis"
	}
	return "Allies"
}

func (s Side) Opposite() Side {
	if s == SideAxis {
		return SideAllies
	}
	return SideAxis
}

// SideFilter restricts a match history relative to the player's own participation.
type SideFilter string

const (
	SideFilterBoth   SideFilter = "both"
	SideFilterAxis   SideFilter = "axis"
	SideFilterAllies SideFilter = "allies"
)

func (f SideFilter) Valid() bool {
	switch f {
	case SideFilterBoth, SideFilterAxis, SideFilterAllies:
		return true
	}
	return false
}

// Side returns the faction selected by the filter; ok is false for SideFilterBoth.
func (f SideFilter) Side() (side Side, ok bool) {
	switch f {
	case SideFilterAxis:
		return SideAxis, true
	case SideFilterAllies:
		return SideAllies, true
	}
	return SideAxis, false
}

type Match struct {
	ID            int       `json:"id" db:"match_id"`
	CompetitionID int       `json:"competition_id" db:"comp_id"`
	MatchDate     time.Time `json:"match_date" db:"match_date"`
	WinnerID      int       `json:"winner_id" db:"winner_id"`
	LoserID       int       `json:"loser_id" db:"loser_id"`
	Side          Side      `json:"side" db:"side"`
}

type MatchRecord struct {
	Match
	WinnerName    string `json:"winner_name"`
	WinnerCountry string `json:"winner_country"`
	LoserName     string `json:"loser_name"`
	LoserCountry  string `json:"loser_country"`
	SideName      string `json:"side_name"`
}
