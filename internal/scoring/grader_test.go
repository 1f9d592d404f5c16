package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/rules"
)

func TestGrader_Points(t *testing.T) {
	group := models.Event{Name: "Mime", Type: models.EventStage, GroupEvent: true}
	solo := models.Event{Name: "Solo Song", Type: models.EventStage}
	namedGroup := models.Event{Name: "group-song", Type: models.EventStage}
	translation := models.Event{Name: "Speech Translation", Type: models.EventNonStage, GroupEvent: true}

	testCases := []struct {
		name     string
		grade    models.Grade
		event    models.Event
		position models.Position
		expected int
	}{
		{"group A+ first", "A+", group, models.PositionFirst, 25},
		{"group A second", "A", group, models.PositionSecond, 16},
		{"group B third", "B", group, models.PositionThird, 8},
		{"group C other", "C", group, models.PositionOther, 2},
		{"individual B second", "B", solo, models.PositionSecond, 6},
		{"individual A+ first", "A+", solo, models.PositionFirst, 11},
		{"individual A third", "A", solo, models.PositionThird, 6},
		{"individual C other", "C", solo, models.PositionOther, 1},
		{"group recognised by name", "A", namedGroup, models.PositionFirst, 20},
		{"individual exception overrides group flag", "A", translation, models.PositionFirst, 10},
		{"grade is normalised", " a+ ", solo, models.PositionFirst, 11},
		{"missing grade scores nothing", "", group, models.PositionFirst, 0},
		{"unknown grade scores nothing", "D", solo, models.PositionFirst, 0},
	}

	grader := DefaultGrader()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, grader.Points(tc.grade, tc.event, tc.position))
		})
	}
}

func TestGrader_Shape(t *testing.T) {
	rs := &rules.RuleSet{GroupEventNames: []string{"Kolkali"}}
	rs.Prepare()
	grader := NewGrader(rs, DefaultGroupTable(), DefaultIndividualTable(), []string{"kolkali"})

	e := models.Event{Name: "KOLKALI"}
	assert.True(t, grader.IsGroupEvent(e))
	assert.False(t, grader.UsesGroupPoints(e))

	flagged := models.Event{Name: "Oppana", GroupEvent: true}
	assert.True(t, grader.UsesGroupPoints(flagged))
}

func TestGrader_PrepareKeepsConfiguredTables(t *testing.T) {
	grader := &Grader{
		Individual: PointsTable{
			Grades:    map[string]int{"A": 7},
			Positions: map[string]int{"first": 3},
		},
	}
	grader.Prepare(nil)

	solo := models.Event{Name: "Solo"}
	assert.Equal(t, 10, grader.Points("A", solo, models.PositionFirst))
	assert.Equal(t, 0, grader.Points("B", solo, models.PositionFirst))
	assert.Equal(t, 25, grader.Points("A+", models.Event{GroupEvent: true}, models.PositionFirst))
}
