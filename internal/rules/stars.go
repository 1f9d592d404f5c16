package rules

import (
	"github.com/shrimpsizemoose/festboard/internal/models"
)

// StarredCount counts starred non-stage selections.
func (r *RuleSet) StarredCount(selections []models.EventRegistration, catalog Catalog) int {
	n := 0
	for _, sel := range selections {
		if !sel.IsStar {
			continue
		}
		eventType := sel.EventType
		if e, ok := catalog[sel.EventID]; ok {
			eventType = e.Type
		}
		if eventType == models.EventNonStage {
			n++
		}
	}
	return n
}

// ToggleStar flips the star flag of one selection and returns a new selection list.
// General pool and stage events are left untouched; the selections passed in are never modified.
func (r *RuleSet) ToggleStar(
	category models.Category,
	selections []models.EventRegistration,
	eventID string,
	catalog Catalog,
) ([]models.EventRegistration, Decision) {
	idx := -1
	for i, sel := range selections {
		if sel.EventID == eventID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return selections, reject(RuleUnknownEvent, "event %s is not in the selection", eventID)
	}

	e, ok := catalog[eventID]
	if !ok {
		return selections, reject(RuleUnknownEvent, "event %s no longer exists", eventID)
	}

	if e.Category.IsGeneral() || e.IsStage() {
		return selections, allow()
	}

	out := make([]models.EventRegistration, len(selections))
	copy(out, selections)

	if out[idx].IsStar {
		out[idx].IsStar = false
		return out, allow()
	}

	if r.IsAutoCounted(e, category) {
		return selections, reject(RuleStarExcluded,
			"%s counts for %s students without a star and cannot be starred", e.Name, category)
	}

	if limit := r.StarCap(category); r.StarredCount(selections, catalog) >= limit {
		return selections, reject(RuleStarCap,
			"%s students may star at most %d non-stage events", category, limit)
	}

	out[idx].IsStar = true
	return out, allow()
}
