package rules

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/festboard/internal/models"
)

func intPtr(v int) *int { return &v }

func student(id string, team models.Team, cat models.Category, eventIDs ...string) models.Student {
	s := models.Student{ID: id, Name: id, ChestNo: id, Team: team, Category: cat}
	for _, eid := range eventIDs {
		s.Registrations = append(s.Registrations, models.EventRegistration{EventID: eid, Status: models.StatusRegistered})
	}
	return s
}

func sel(ids ...string) []models.EventRegistration {
	out := make([]models.EventRegistration, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.EventRegistration{EventID: id, Status: models.StatusRegistered})
	}
	return out
}

func TestVisible(t *testing.T) {
	r := DefaultRuleSet()

	testCases := []struct {
		student models.Category
		event   models.Category
		want    bool
	}{
		{models.CategoryAlpha, models.CategoryAlpha, true},
		{models.CategoryAlpha, models.CategoryGeneralB, true},
		{models.CategoryAlpha, models.CategoryGeneralA, false},
		{models.CategoryAlpha, models.CategoryBeta, false},
		{models.CategoryBeta, models.CategoryGeneralA, true},
		{models.CategoryGamma, models.CategoryGeneralA, true},
		{models.CategoryGamma, models.CategoryGeneralB, false},
		{models.CategoryGeneralA, models.CategoryGeneralA, true},
		{models.CategoryGeneralA, models.CategoryBeta, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s sees %s", tc.student, tc.event), func(t *testing.T) {
			e := models.Event{ID: "e", Name: "e", Category: tc.event, Type: models.EventNonStage}
			assert.Equal(t, tc.want, r.Visible(tc.student, e))
		})
	}
}

func TestVisibleEvents(t *testing.T) {
	r := DefaultRuleSet()
	events := []models.Event{
		{ID: "a", Category: models.CategoryAlpha},
		{ID: "b", Category: models.CategoryBeta},
		{ID: "gb", Category: models.CategoryGeneralB},
		{ID: "ga", Category: models.CategoryGeneralA},
	}

	got := r.VisibleEvents(models.CategoryAlpha, events)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "gb", got[1].ID)
}

func TestTeamLimit(t *testing.T) {
	r := DefaultRuleSet()

	testCases := []struct {
		name    string
		event   models.Event
		limit   int
		limited bool
	}{
		{"explicit limit", models.Event{Name: "Mime", Type: models.EventStage, GroupEvent: true, TeamLimit: intPtr(5)}, 5, true},
		{"individual stage defaults to 3", models.Event{Name: "Solo Song", Type: models.EventStage}, 3, true},
		{"group stage is unlimited", models.Event{Name: "Group Song", Type: models.EventStage, GroupEvent: true}, 0, false},
		{"unflagged group stage matched by name", models.Event{Name: "group song", Type: models.EventStage}, 0, false},
		{"plain non-stage is unlimited", models.Event{Name: "Drawing", Type: models.EventNonStage}, 0, false},
		{"restricted name", models.Event{Name: "essay-writing", Type: models.EventNonStage}, 3, true},
		{"zero limit falls back to rules", models.Event{Name: "Drawing", Type: models.EventNonStage, TeamLimit: intPtr(0)}, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			limit, limited := r.TeamLimit(tc.event)
			assert.Equal(t, tc.limited, limited)
			assert.Equal(t, tc.limit, limit)
		})
	}
}

func TestCanRegister_TeamLimit(t *testing.T) {
	r := DefaultRuleSet()
	e := models.Event{ID: "solo", Name: "Solo Song", Category: models.CategoryAlpha, Type: models.EventStage}
	catalog := NewCatalog([]models.Event{e})

	roster := []models.Student{
		student("s1", models.TeamAuris, models.CategoryAlpha, "solo"),
		student("s2", models.TeamAuris, models.CategoryAlpha, "solo"),
	}

	t.Run("third participant fits", func(t *testing.T) {
		d := r.CanRegister(student("s3", models.TeamAuris, models.CategoryAlpha), e, roster, nil, catalog)
		assert.True(t, d.Allowed, d.Reason)
	})

	roster = append(roster, student("s3", models.TeamAuris, models.CategoryAlpha, "solo"))

	t.Run("fourth participant is rejected", func(t *testing.T) {
		d := r.CanRegister(student("s4", models.TeamAuris, models.CategoryAlpha), e, roster, nil, catalog)
		assert.False(t, d.Allowed)
		assert.Equal(t, RuleTeamLimit, d.Rule)
		assert.Contains(t, d.Reason, "limit is 3")
		assert.Contains(t, d.Reason, "Alpha")
	})

	t.Run("editing a holder does not count itself", func(t *testing.T) {
		d := r.CanRegister(roster[2], e, roster, nil, catalog)
		assert.True(t, d.Allowed, d.Reason)
	})

	t.Run("other team has its own slots", func(t *testing.T) {
		d := r.CanRegister(student("l1", models.TeamLibras, models.CategoryAlpha), e, roster, nil, catalog)
		assert.True(t, d.Allowed, d.Reason)
	})
}

func TestCanRegister_TeamLimitIsPerCategory(t *testing.T) {
	r := DefaultRuleSet()
	e := models.Event{ID: "quiz", Name: "Quiz", Category: models.CategoryGeneralA, Type: models.EventNonStage}
	catalog := NewCatalog([]models.Event{e})

	roster := []models.Student{
		student("g1", models.TeamAuris, models.CategoryGamma, "quiz"),
		student("g2", models.TeamAuris, models.CategoryGamma, "quiz"),
		student("g3", models.TeamAuris, models.CategoryGamma, "quiz"),
	}

	d := r.CanRegister(student("g4", models.TeamAuris, models.CategoryGamma), e, roster, nil, catalog)
	assert.False(t, d.Allowed)

	d = r.CanRegister(student("b1", models.TeamAuris, models.CategoryBeta), e, roster, nil, catalog)
	assert.True(t, d.Allowed, d.Reason)
}

func TestCanRegister_ExplicitLimit(t *testing.T) {
	r := DefaultRuleSet()
	for n := 1; n <= 5; n++ {
		t.Run(fmt.Sprintf("limit %d", n), func(t *testing.T) {
			e := models.Event{ID: "e", Name: "Collage", Category: models.CategoryBeta, Type: models.EventNonStage, TeamLimit: intPtr(n)}
			catalog := NewCatalog([]models.Event{e})

			var roster []models.Student
			for i := 0; i < n-1; i++ {
				roster = append(roster, student(fmt.Sprintf("s%d", i), models.TeamLibras, models.CategoryBeta, "e"))
			}

			d := r.CanRegister(student("nth", models.TeamLibras, models.CategoryBeta), e, roster, nil, catalog)
			require.True(t, d.Allowed, d.Reason)

			roster = append(roster, student("nth", models.TeamLibras, models.CategoryBeta, "e"))
			d = r.CanRegister(student("extra", models.TeamLibras, models.CategoryBeta), e, roster, nil, catalog)
			assert.False(t, d.Allowed)
			assert.Equal(t, RuleTeamLimit, d.Rule)
		})
	}
}

func TestCanRegister_StageCap(t *testing.T) {
	r := DefaultRuleSet()

	var events []models.Event
	for i := 0; i < 8; i++ {
		events = append(events, models.Event{
			ID:       fmt.Sprintf("stage%d", i),
			Name:     fmt.Sprintf("Stage %d", i),
			Category: models.CategoryBeta,
			Type:     models.EventStage,
		})
	}
	group := models.Event{ID: "group", Name: "Group Song", Category: models.CategoryBeta, Type: models.EventStage, GroupEvent: true}
	legacy := models.Event{ID: "legacy", Name: "Qawwali", Category: models.CategoryBeta, Type: models.EventStage}
	general := models.Event{ID: "general", Name: "Debate", Category: models.CategoryGeneralA, Type: models.EventStage}
	events = append(events, group, legacy, general)
	catalog := NewCatalog(events)

	s := student("s", models.TeamAuris, models.CategoryBeta)
	var selections []models.EventRegistration
	for i := 0; i < 6; i++ {
		d := r.CanRegister(s, events[i], nil, selections, catalog)
		require.True(t, d.Allowed, d.Reason)
		selections = append(selections, models.EventRegistration{EventID: events[i].ID})
	}

	d := r.CanRegister(s, events[6], nil, selections, catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleStageCap, d.Rule)

	d = r.CanRegister(s, group, nil, selections, catalog)
	assert.True(t, d.Allowed, "group events do not use stage slots")

	d = r.CanRegister(s, legacy, nil, selections, catalog)
	assert.True(t, d.Allowed, "events named as group events do not use stage slots")

	d = r.CanRegister(s, general, nil, selections, catalog)
	assert.True(t, d.Allowed, "general events do not use stage slots")

	selections = Remove(selections, events[0].ID)
	d = r.CanRegister(s, events[6], nil, selections, catalog)
	assert.True(t, d.Allowed, d.Reason)
}

func TestCanRegister_CategoryAndDuplicate(t *testing.T) {
	r := DefaultRuleSet()
	beta := models.Event{ID: "b", Name: "Painting", Category: models.CategoryBeta, Type: models.EventNonStage}
	alpha := models.Event{ID: "a", Name: "Painting", Category: models.CategoryAlpha, Type: models.EventNonStage}
	catalog := NewCatalog([]models.Event{beta, alpha})

	s := student("s", models.TeamAuris, models.CategoryAlpha)

	d := r.CanRegister(s, beta, nil, nil, catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleCategory, d.Rule)

	d = r.CanRegister(s, alpha, nil, sel("a"), catalog)
	assert.False(t, d.Allowed)
	assert.Equal(t, RuleDuplicate, d.Rule)
}

func TestRemove(t *testing.T) {
	out := Remove(sel("a", "b", "c"), "b")
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].EventID)
	assert.Equal(t, "c", out[1].EventID)

	assert.Len(t, Remove(sel("a"), "zzz"), 1)
}

func TestIsGroupEvent(t *testing.T) {
	r := DefaultRuleSet()

	assert.True(t, r.IsGroupEvent(models.Event{Name: "Mime", GroupEvent: true}))
	assert.True(t, r.IsGroupEvent(models.Event{Name: "QAWWALI!"}))
	assert.False(t, r.IsGroupEvent(models.Event{Name: "Solo Song"}))

	custom := &RuleSet{GroupEventNames: []string{"Oppana"}}
	custom.Prepare()
	assert.True(t, custom.IsGroupEvent(models.Event{Name: "oppana"}))
	assert.False(t, custom.IsGroupEvent(models.Event{Name: "Qawwali"}), "configured list replaces the default")

	legacy := models.Event{Name: "Oppana", Type: models.EventStage}
	_, limited := custom.TeamLimit(legacy)
	assert.False(t, limited)
	assert.False(t, custom.CountsTowardStageCap(legacy))
}
