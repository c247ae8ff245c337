package models

type Competition struct {
	ID   int    `json:"id" db:"comp_id"`
	Name string `json:"name" db:"comp_name"`
	Slug string `json:"slug" db:"-"`
}
