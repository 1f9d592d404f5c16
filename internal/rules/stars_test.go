package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

func nonStageCatalog(cat models.Category, n int) ([]models.Event, Catalog) {
	var events []models.Event
	for i := 0; i < n; i++ {
		events = append(events, models.Event{
			ID:       fmt.Sprintf("ns%d", i),
			Name:     fmt.Sprintf("Writing %d", i),
			Category: cat,
			Type:     models.EventNonStage,
		})
	}
	return events, NewCatalog(events)
}

func selectAll(events []models.Event) []models.EventRegistration {
	out := make([]models.EventRegistration, 0, len(events))
	for _, e := range events {
		out = append(out, models.EventRegistration{EventID: e.ID, EventType: e.Type})
	}
	return out
}

func TestToggleStar_Caps(t *testing.T) {
	r := DefaultRuleSet()

	testCases := []struct {
		category models.Category
		cap      int
	}{
		{models.CategoryAlpha, 6},
		{models.CategoryBeta, 8},
		{models.CategoryGamma, 8},
	}

	for _, tc := range testCases {
		t.Run(string(tc.category), func(t *testing.T) {
			events, catalog := nonStageCatalog(tc.category, tc.cap+2)
			selections := selectAll(events)

			var d Decision
			for i := 0; i < tc.cap; i++ {
				selections, d = r.ToggleStar(tc.category, selections, events[i].ID, catalog)
				require.True(t, d.Allowed, d.Reason)
			}
			assert.Equal(t, tc.cap, r.StarredCount(selections, catalog))

			after, d := r.ToggleStar(tc.category, selections, events[tc.cap].ID, catalog)
			assert.False(t, d.Allowed)
			assert.Equal(t, RuleStarCap, d.Rule)
			assert.Equal(t, tc.cap, r.StarredCount(after, catalog))

			selections, d = r.ToggleStar(tc.category, selections, events[0].ID, catalog)
			require.True(t, d.Allowed, "toggling off is always allowed")
			assert.Equal(t, tc.cap-1, r.StarredCount(selections, catalog))

			selections, d = r.ToggleStar(tc.category, selections, events[tc.cap].ID, catalog)
			assert.True(t, d.Allowed, d.Reason)
			assert.Equal(t, tc.cap, r.StarredCount(selections, catalog))
		})
	}
}

func TestToggleStar_DoesNotMutateInput(t *testing.T) {
	r := DefaultRuleSet()
	events, catalog := nonStageCatalog(models.CategoryBeta, 1)
	selections := selectAll(events)

	out, d := r.ToggleStar(models.CategoryBeta, selections, events[0].ID, catalog)
	require.True(t, d.Allowed)
	assert.True(t, out[0].IsStar)
	assert.False(t, selections[0].IsStar)
}

func TestToggleStar_NoOps(t *testing.T) {
	r := DefaultRuleSet()
	general := models.Event{ID: "g", Name: "Quiz", Category: models.CategoryGeneralA, Type: models.EventNonStage}
	stage := models.Event{ID: "st", Name: "Solo Song", Category: models.CategoryBeta, Type: models.EventStage}
	catalog := NewCatalog([]models.Event{general, stage})
	selections := selectAll([]models.Event{general, stage})

	for _, id := range []string{"g", "st"} {
		out, d := r.ToggleStar(models.CategoryBeta, selections, id, catalog)
		assert.True(t, d.Allowed)
		assert.Equal(t, 0, r.StarredCount(out, catalog))
		for _, s := range out {
			assert.False(t, s.IsStar)
		}
	}
}

func TestToggleStar_AutoCountedEvent(t *testing.T) {
	r := DefaultRuleSet()
	translation := models.Event{ID: "tr", Name: "Speech Translation", Category: models.CategoryGamma, Type: models.EventNonStage}
	catalog := NewCatalog([]models.Event{translation})
	selections := selectAll([]models.Event{translation})

	_, d := r.ToggleStar(models.CategoryGamma, selections, "tr", catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleStarExcluded, d.Rule)

	_, d = r.ToggleStar(models.CategoryBeta, selections, "tr", catalog)
	assert.True(t, d.Allowed, "the exception only applies to its own category")
}

func TestToggleStar_UnknownEvent(t *testing.T) {
	r := DefaultRuleSet()
	events, catalog := nonStageCatalog(models.CategoryBeta, 1)

	_, d := r.ToggleStar(models.CategoryBeta, selectAll(events), "missing", catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleUnknownEvent, d.Rule)

	_, d = r.ToggleStar(models.CategoryBeta, sel("gone"), "gone", catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleUnknownEvent, d.Rule)
}

func TestRuleSet_PrepareDefaults(t *testing.T) {
	r := &RuleSet{StageCap: 4}
	r.Prepare()

	assert.Equal(t, DefaultVersion, r.Version)
	assert.Equal(t, 4, r.StageCap)
	assert.Equal(t, 3, r.DefaultTeamLimit)
	assert.Equal(t, 6, r.StarCap(models.CategoryAlpha))
	assert.Equal(t, 8, r.StarCap(models.CategoryGamma))
	assert.False(t, r.IsRestricted("Quiz"), "no restricted names configured")
}
