package scoring

import (
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/rules"
)

// PointsTable maps letter grades to base points and podium positions to a bonus.
type PointsTable struct {
	Grades    map[string]int `toml:"grades"`
	Positions map[string]int `toml:"positions"`
}

// Score is the bonus for the position plus the grade's base points.
// An unknown or missing grade scores nothing, position included.
func (t PointsTable) Score(grade models.Grade, pos models.Position) int {
	base, ok := t.Grades[string(grade)]
	if !ok {
		return 0
	}
	return base + t.Positions[string(pos)]
}

type Grader struct {
	Group                PointsTable `toml:"group"`
	Individual           PointsTable `toml:"individual"`
	IndividualExceptions []string    `toml:"individual_exceptions"`

	groups     *rules.RuleSet
	exceptions rules.NameSet
}

func DefaultGroupTable() PointsTable {
	return PointsTable{
		Grades:    map[string]int{"A+": 15, "A": 10, "B": 5, "C": 2},
		Positions: map[string]int{"first": 10, "second": 6, "third": 3},
	}
}

func DefaultIndividualTable() PointsTable {
	return PointsTable{
		Grades:    map[string]int{"A+": 6, "A": 5, "B": 3, "C": 1},
		Positions: map[string]int{"first": 5, "second": 3, "third": 1},
	}
}

func NewGrader(groups *rules.RuleSet, group, individual PointsTable, individualExceptions []string) *Grader {
	g := &Grader{
		Group:                group,
		Individual:           individual,
		IndividualExceptions: individualExceptions,
	}
	g.Prepare(groups)
	return g
}

func DefaultGrader() *Grader {
	return NewGrader(
		rules.DefaultRuleSet(),
		DefaultGroupTable(),
		DefaultIndividualTable(),
		[]string{"Speech Translation"},
	)
}

// Prepare fills empty tables with defaults and builds the name sets.
// It must be called after decoding from config. Group events are recognised by the rule set,
// the default one when groups is nil.
func (g *Grader) Prepare(groups *rules.RuleSet) {
	if groups == nil {
		groups = rules.DefaultRuleSet()
	}
	g.groups = groups
	if len(g.Group.Grades) == 0 {
		g.Group = DefaultGroupTable()
	}
	if len(g.Individual.Grades) == 0 {
		g.Individual = DefaultIndividualTable()
	}
	g.exceptions = rules.NewNameSet(g.IndividualExceptions...)
}

func (g *Grader) IsGroupEvent(e models.Event) bool {
	if g.groups == nil {
		return e.GroupEvent
	}
	return g.groups.IsGroupEvent(e)
}

func (g *Grader) UsesGroupPoints(e models.Event) bool {
	return g.IsGroupEvent(e) && !g.exceptions.Contains(e.Name)
}

func (g *Grader) Points(grade models.Grade, e models.Event, pos models.Position) int {
	grade = models.NormalizeGrade(string(grade))
	if g.UsesGroupPoints(e) {
		return g.Group.Score(grade, pos)
	}
	return g.Individual.Score(grade, pos)
}
