package models

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type EventType string

const (
	EventStage    EventType = "Stage"
	EventNonStage EventType = "Non-Stage"
)

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventCompleted EventStatus = "completed"
)

type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeB     Grade = "B"
	GradeC     Grade = "C"
)

// NormalizeGrade trims and upper-cases a judge's letter grade.
func NormalizeGrade(s string) Grade {
	return Grade(strings.ToUpper(strings.TrimSpace(s)))
}

func (g Grade) Valid() bool {
	switch g {
	case GradeAPlus, GradeA, GradeB, GradeC:
		return true
	}
	return false
}

type Position string

const (
	PositionFirst  Position = "first"
	PositionSecond Position = "second"
	PositionThird  Position = "third"
	PositionOther  Position = "other"
)

type Placement struct {
	EventID   string   `db:"event_id" json:"-"`
	Position  Position `db:"position" json:"position"`
	Rank      int      `db:"rank" json:"-"`
	StudentID string   `db:"student_id" json:"studentId"`
	Grade     Grade    `db:"grade" json:"grade"`
}

type Result struct {
	First  *Placement  `json:"first,omitempty"`
	Second *Placement  `json:"second,omitempty"`
	Third  *Placement  `json:"third,omitempty"`
	Others []Placement `json:"others,omitempty"`
}

// Placements returns the filled placements, podium first.
func (r Result) Placements() []Placement {
	var out []Placement
	for _, p := range []*Placement{r.First, r.Second, r.Third} {
		if p != nil && p.StudentID != "" {
			out = append(out, *p)
		}
	}
	for _, p := range r.Others {
		if p.StudentID != "" {
			out = append(out, p)
		}
	}
	return out
}

func (r Result) IsEmpty() bool {
	return len(r.Placements()) == 0
}

// ResultFromPlacements rebuilds a Result from stored rows.
func ResultFromPlacements(rows []Placement) Result {
	var r Result
	for i := range rows {
		p := rows[i]
		switch p.Position {
		case PositionFirst:
			r.First = &p
		case PositionSecond:
			r.Second = &p
		case PositionThird:
			r.Third = &p
		default:
			r.Others = append(r.Others, p)
		}
	}
	return r
}

type Event struct {
	ID         string      `db:"id" json:"id"`
	Name       string      `db:"name" json:"name" validate:"required,max=160"`
	Category   Category    `db:"category" json:"category" validate:"required,oneof=Alpha Beta Gamma General-A General-B"`
	Type       EventType   `db:"type" json:"type" validate:"required,oneof=Stage Non-Stage"`
	GroupEvent bool        `db:"group_event" json:"groupEvent"`
	TeamLimit  *int        `db:"team_limit" json:"teamLimit,omitempty" validate:"omitempty,min=1"`
	Status     EventStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"createdAt"`
	Result     Result      `db:"-" json:"result"`
}

func (e *Event) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}

func (e *Event) IsStage() bool {
	return e.Type == EventStage
}

func (e *Event) IsCompleted() bool {
	return e.Status == EventCompleted
}
