package models

type LocalStatus int

const (
	LocalStatusActive    LocalStatus = 0
	LocalStatusWithdrawn LocalStatus = 1
)

// OptionFlags are the encoded rule preferences a player stores per competition.
// Observed domain of every field is 1..3.
type OptionFlags struct {
	Rules  int `json:"rules" db:"option_rules"`
	Luck   int `json:"luck" db:"option_luck"`
	Mode   int `json:"mode" db:"option_mode"`
	Escort int `json:"escort" db:"nos"`
	Map    int `json:"map" db:"map"`
}

type Participation struct {
	AccountID       int         `json:"account_id" db:"account_id"`
	CompetitionID   int         `json:"competition_id" db:"comp_id"`
	CompetitionName string      `json:"competition_name" db:"comp_name"`
	Rating          float64     `json:"rating" db:"rating"`
	Options         OptionFlags `json:"options"`
	Status          LocalStatus `json:"status" db:"status"`
	Wins            int         `json:"wins" db:"wins"`
	Losses          int         `json:"losses" db:"losses"`
	AlliesWins      int         `json:"allies_wins" db:"allieswins"`
	AlliesLosses    int         `json:"allies_losses" db:"allieslosses"`
	AxisWins        int         `json:"axis_wins" db:"axiswins"`
	AxisLosses      int         `json:"axis_losses" db:"axislosses"`
}
