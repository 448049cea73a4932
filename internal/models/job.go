package models

// Job is a static catalog entry describing a Mafia42 role.
type Job struct {
	Code  string `json:"code" db:"code"`
	Name  string `json:"name" db:"name"`
	Team  string `json:"team" db:"team"`
	Story string `json:"story,omitempty" db:"story"`
}
