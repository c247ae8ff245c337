package models

import "time"

// WinStats holds win/loss percentages for one slice of a player's record.
type WinStats struct {
	Matches     int     `json:"matches"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinPercent  float64 `json:"win_percent"`
	LossPercent float64 `json:"loss_percent"`
}

type CompetitionStats struct {
	Participation
	Overall       WinStats          `json:"overall"`
	Allies        WinStats          `json:"allies"`
	Axis          WinStats          `json:"axis"`
	Decoded       OptionSet         `json:"decoded_options"`
	Rank          RankTier          `json:"rank"`
	RankTitle     string            `json:"rank_title"`
	TopPlayer     bool              `json:"top_player"`
	PlayedMatches []MatchRecord     `json:"played_matches"`
	Challenges    []ChallengeRecord `json:"challenges"`
}

type PlayerProfile struct {
	GlobalAccount
	CountryName  string             `json:"country_name"`
	Karma        KarmaSummary       `json:"karma"`
	Competitions []CompetitionStats `json:"competitions"`
}

// ActivePlayer is one row of a competition's player list.
type ActivePlayer struct {
	Participation
	DisplayName  string       `json:"display_name"`
	Country      string       `json:"country"`
	GlobalStatus GlobalStatus `json:"global_status"`
	Decoded      OptionSet    `json:"decoded_options"`
	Rank         RankTier     `json:"rank"`
	RankTitle    string       `json:"rank_title"`
	Karma        KarmaSummary `json:"karma"`
}

type RecentPost struct {
	ID       int       `json:"post_id" db:"post_id"`
	ParentID int       `json:"pid" db:"pid"`
	TopicID  int       `json:"topic_id" db:"topic_id"`
	ForumID  int       `json:"forum_id" db:"forum_id"`
	PostTime time.Time `json:"post_time" db:"post_time"`
	UserID   int       `json:"uid" db:"uid"`
	Subject  string    `json:"subject" db:"subject"`
}

// StandingsSnapshot is the document published for a competition by the snapshot job.
type StandingsSnapshot struct {
	Competition Competition    `json:"competition"`
	GeneratedAt time.Time      `json:"generated_at"`
	Players     []ActivePlayer `json:"players"`
	URL         string         `json:"url,omitempty"`
}
