package models

// Settings is the singleton row holding process-wide switches.
type Settings struct {
	ID               int  `db:"id" json:"-"`
	RegistrationOpen bool `db:"registration_open" json:"registrationOpen"`
}
