package rules

import (
	"fmt"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

type Rule string

const (
	RuleCategory     Rule = "category"
	RuleUnknownEvent Rule = "unknown_event"
	RuleDuplicate    Rule = "duplicate"
	RuleTeamLimit    Rule = "team_limit"
	RuleStageCap     Rule = "stage_cap"
	RuleStarCap      Rule = "star_cap"
	RuleStarExcluded Rule = "star_excluded"
)

// Decision is the outcome of a rule check. A rejected decision carries the rule that fired
// and a reason fit for showing to the person doing the registration.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Rule    Rule   `json:"rule,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func allow() Decision {
	return Decision{Allowed: true}
}

func reject(rule Rule, format string, args ...any) Decision {
	return Decision{Rule: rule, Reason: fmt.Sprintf(format, args...)}
}

// Catalog indexes events by id.
type Catalog map[string]models.Event

func NewCatalog(events []models.Event) Catalog {
	c := make(Catalog, len(events))
	for _, e := range events {
		c[e.ID] = e
	}
	return c
}

// Visible reports whether a student of the given category is offered the event at all.
func (r *RuleSet) Visible(category models.Category, e models.Event) bool {
	return e.Category == category || e.Category == category.PairedGeneral()
}

func (r *RuleSet) VisibleEvents(category models.Category, events []models.Event) []models.Event {
	out := make([]models.Event, 0, len(events))
	for _, e := range events {
		if r.Visible(category, e) {
			out = append(out, e)
		}
	}
	return out
}

// TeamLimit returns the per-team, per-category participant cap for the event and whether one applies.
func (r *RuleSet) TeamLimit(e models.Event) (int, bool) {
	if e.TeamLimit != nil && *e.TeamLimit > 0 {
		return *e.TeamLimit, true
	}
	if (e.IsStage() && !r.IsGroupEvent(e)) || r.IsRestricted(e.Name) {
		return r.DefaultTeamLimit, true
	}
	return 0, false
}

// TeamSlotsTaken counts the other students of the same team and category holding the event.
func (r *RuleSet) TeamSlotsTaken(student models.Student, eventID string, roster []models.Student) int {
	n := 0
	for i := range roster {
		other := &roster[i]
		if other.ID == student.ID || other.Team != student.Team || other.Category != student.Category {
			continue
		}
		if other.HasEvent(eventID) {
			n++
		}
	}
	return n
}

// CountsTowardStageCap reports whether the event uses one of a student's individual stage slots.
func (r *RuleSet) CountsTowardStageCap(e models.Event) bool {
	return e.IsStage() && !r.IsGroupEvent(e) && !e.Category.IsGeneral()
}

func (r *RuleSet) stageCount(selections []models.EventRegistration, catalog Catalog) int {
	n := 0
	for _, sel := range selections {
		if e, ok := catalog[sel.EventID]; ok && r.CountsTowardStageCap(e) {
			n++
		}
	}
	return n
}

// CanRegister decides whether the event may be added to the student's current selections.
// The roster is the saved state of every other student; selections is the list being edited.
func (r *RuleSet) CanRegister(
	student models.Student,
	e models.Event,
	roster []models.Student,
	selections []models.EventRegistration,
	catalog Catalog,
) Decision {
	if !r.Visible(student.Category, e) {
		return reject(RuleCategory, "%s (%s) is not offered to %s students", e.Name, e.Category, student.Category)
	}

	for _, sel := range selections {
		if sel.EventID == e.ID {
			return reject(RuleDuplicate, "%s is already selected", e.Name)
		}
	}

	if limit, ok := r.TeamLimit(e); ok {
		if taken := r.TeamSlotsTaken(student, e.ID, roster); taken >= limit {
			return reject(RuleTeamLimit,
				"%s is full for team %s in category %s: limit is %d participants",
				e.Name, student.Team, student.Category, limit)
		}
	}

	if r.CountsTowardStageCap(e) && r.stageCount(selections, catalog) >= r.StageCap {
		return reject(RuleStageCap,
			"a student may take at most %d individual stage events, %s would exceed it", r.StageCap, e.Name)
	}

	return allow()
}

// Remove drops an event from the selections. Removal is never limited.
func Remove(selections []models.EventRegistration, eventID string) []models.EventRegistration {
	out := make([]models.EventRegistration, 0, len(selections))
	for _, sel := range selections {
		if sel.EventID != eventID {
			out = append(out, sel)
		}
	}
	return out
}
