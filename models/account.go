package models

import "time"

// GlobalStatus: глобальный статус аккаунта на сайте (0=active … 3=deleted).
type GlobalStatus int

const (
	GlobalStatusActive            GlobalStatus = 0
	GlobalStatusShortTermInactive GlobalStatus = 1
	GlobalStatusLongTermInactive  GlobalStatus = 2
	GlobalStatusDeleted           GlobalStatus = 3
)

// DefaultMaxGlobalStatus is the threshold used when the caller does not supply one.
const DefaultMaxGlobalStatus = GlobalStatusShortTermInactive

func (s GlobalStatus) Valid() bool {
	return s >= GlobalStatusActive && s <= GlobalStatusDeleted
}

type GlobalAccount struct {
	ID           int          `json:"id" db:"id"`
	DisplayName  string       `json:"display_name" db:"uname"`
	Country      string       `json:"country" db:"country"`
	RegisteredAt time.Time    `json:"registered_at" db:"user_regdate"`
	Status       GlobalStatus `json:"global_status" db:"status"`
}

// Identity is the slice of an account used to annotate matches, challenges and ratings.
type Identity struct {
	AccountID   int    `json:"account_id"`
	DisplayName string `json:"display_name"`
	Country     string `json:"country"`
}
