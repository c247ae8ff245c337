package models

type OptionDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"desc"`
}

type OptionSet struct {
	Rules  []OptionDescriptor `json:"rules"`
	Luck   []OptionDescriptor `json:"luck"`
	Mode   []OptionDescriptor `json:"mode"`
	Escort []OptionDescriptor `json:"nos"`
	Map    []OptionDescriptor `json:"map"`
}
