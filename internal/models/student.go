package models

import (
	"time"

	"github.com/go-playground/validator/v10"
)

type Team string

const (
	TeamAuris  Team = "Auris"
	TeamLibras Team = "Libras"
)

var Teams = []Team{TeamAuris, TeamLibras}

func (t Team) Valid() bool {
	return t == TeamAuris || t == TeamLibras
}

type Category string

const (
	CategoryAlpha    Category = "Alpha"
	CategoryBeta     Category = "Beta"
	CategoryGamma    Category = "Gamma"
	CategoryGeneralA Category = "General-A"
	CategoryGeneralB Category = "General-B"
)

// AgeCategories are the tiers champions are computed for, lowest first.
var AgeCategories = []Category{CategoryAlpha, CategoryBeta, CategoryGamma}

var Categories = []Category{
	CategoryAlpha,
	CategoryBeta,
	CategoryGamma,
	CategoryGeneralA,
	CategoryGeneralB,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) IsGeneral() bool {
	return c == CategoryGeneralA || c == CategoryGeneralB
}

// PairedGeneral returns the general pool a category may also register into.
// General pools pair with themselves.
func (c Category) PairedGeneral() Category {
	switch c {
	case CategoryAlpha:
		return CategoryGeneralB
	case CategoryBeta, CategoryGamma:
		return CategoryGeneralA
	default:
		return c
	}
}

type RegistrationStatus string

const (
	StatusRegistered RegistrationStatus = "registered"
	StatusSent       RegistrationStatus = "sent"
	StatusReported   RegistrationStatus = "reported"
	StatusCompleted  RegistrationStatus = "completed"
)

// CanAdvanceTo reports whether a registration may move from s to next.
// The lifecycle only moves forward; completed is terminal and reachable from any other state.
func (s RegistrationStatus) CanAdvanceTo(next RegistrationStatus) bool {
	if s == StatusCompleted {
		return false
	}
	switch next {
	case StatusCompleted:
		return true
	case StatusSent:
		return s == StatusRegistered
	case StatusReported:
		return s == StatusSent
	default:
		return false
	}
}

type EventRegistration struct {
	StudentID string             `db:"student_id" json:"-"`
	EventID   string             `db:"event_id" json:"eventId" validate:"required"`
	EventName string             `db:"event_name" json:"eventName"`
	EventType EventType          `db:"event_type" json:"eventType"`
	IsStar    bool               `db:"is_star" json:"isStar"`
	Status    RegistrationStatus `db:"status" json:"status"`
}

type Student struct {
	ID            string              `db:"id" json:"id"`
	Name          string              `db:"name" json:"name" validate:"required,max=120"`
	ChestNo       string              `db:"chest_no" json:"chestNo" validate:"required,max=16"`
	Team          Team                `db:"team" json:"team" validate:"required,oneof=Auris Libras"`
	Category      Category            `db:"category" json:"category" validate:"required,oneof=Alpha Beta Gamma General-A General-B"`
	CreatedAt     time.Time           `db:"created_at" json:"createdAt"`
	Registrations []EventRegistration `db:"-" json:"registrations"`
}

func (s *Student) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

func (s *Student) Registration(eventID string) (*EventRegistration, bool) {
	for i := range s.Registrations {
		if s.Registrations[i].EventID == eventID {
			return &s.Registrations[i], true
		}
	}
	return nil, false
}

func (s *Student) HasEvent(eventID string) bool {
	_, ok := s.Registration(eventID)
	return ok
}
