package scoring

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/rules"
)

type TeamTotal struct {
	Team   models.Team `json:"team"`
	Points int         `json:"points"`
}

type StudentTotal struct {
	StudentID      string          `json:"studentId"`
	Name           string          `json:"name"`
	ChestNo        string          `json:"chestNo"`
	Team           models.Team     `json:"team"`
	Category       models.Category `json:"category"`
	StagePoints    int             `json:"stagePoints"`
	NonStagePoints int             `json:"nonStagePoints"`
	TeamPoints     int             `json:"teamPoints"`
}

type Champion struct {
	StudentID string          `json:"studentId"`
	Name      string          `json:"name"`
	ChestNo   string          `json:"chestNo"`
	Team      models.Team     `json:"team"`
	Category  models.Category `json:"category"`
	Points    int             `json:"points"`
}

// Champions holds the Star of the Fest (stage points) and Pen of the Fest (starred non-stage points).
type Champions struct {
	Star *Champion `json:"starOfTheFest"`
	Pen  *Champion `json:"penOfTheFest"`
}

type Counts struct {
	Students        int                     `json:"students"`
	Events          int                     `json:"events"`
	CompletedEvents int                     `json:"completedEvents"`
	Registrations   int                     `json:"registrations"`
	ByCategory      map[models.Category]int `json:"byCategory"`
	ByTeam          map[models.Team]int     `json:"byTeam"`
}

type Standings struct {
	Counts            Counts                        `json:"counts"`
	Teams             []TeamTotal                   `json:"teams"`
	Students          []StudentTotal                `json:"students"`
	Champions         Champions                     `json:"champions"`
	CategoryChampions map[models.Category]Champions `json:"categoryChampions"`
	RulesVersion      string                        `json:"rulesVersion"`
}

// Aggregate folds every completed event result into team and student totals.
// Placements that point at unknown students, or at students not registered for the event,
// contribute nothing. The result depends only on the input, never on its order.
func Aggregate(grader *Grader, rs *rules.RuleSet, students []models.Student, events []models.Event) Standings {
	byID := make(map[string]*models.Student, len(students))
	totals := make(map[string]*StudentTotal, len(students))
	teamPoints := make(map[models.Team]int, len(models.Teams))

	counts := Counts{
		Students:   len(students),
		Events:     len(events),
		ByCategory: make(map[models.Category]int),
		ByTeam:     make(map[models.Team]int),
	}

	for i := range students {
		s := &students[i]
		byID[s.ID] = s
		totals[s.ID] = &StudentTotal{
			StudentID: s.ID,
			Name:      s.Name,
			ChestNo:   s.ChestNo,
			Team:      s.Team,
			Category:  s.Category,
		}
		counts.Registrations += len(s.Registrations)
		counts.ByCategory[s.Category]++
		counts.ByTeam[s.Team]++
	}

	for _, e := range events {
		if !e.IsCompleted() {
			continue
		}
		counts.CompletedEvents++

		for _, p := range e.Result.Placements() {
			s, ok := byID[p.StudentID]
			if !ok {
				continue
			}
			reg, ok := s.Registration(e.ID)
			if !ok {
				continue
			}

			points := grader.Points(p.Grade, e, p.Position)
			if points == 0 {
				continue
			}

			teamPoints[s.Team] += points
			total := totals[s.ID]
			total.TeamPoints += points

			switch {
			case e.IsStage():
				total.StagePoints += points
			case reg.IsStar || rs.IsAutoCounted(e, s.Category):
				total.NonStagePoints += points
			}
		}
	}

	st := Standings{
		Counts:            counts,
		CategoryChampions: make(map[models.Category]Champions, len(models.AgeCategories)),
		RulesVersion:      rs.Version,
	}

	for _, team := range models.Teams {
		st.Teams = append(st.Teams, TeamTotal{Team: team, Points: teamPoints[team]})
	}

	st.Students = make([]StudentTotal, 0, len(totals))
	for _, t := range totals {
		st.Students = append(st.Students, *t)
	}
	slices.SortFunc(st.Students, compareTotals)

	st.Champions = pickChampions(st.Students, func(StudentTotal) bool { return true })
	for _, cat := range models.AgeCategories {
		st.CategoryChampions[cat] = pickChampions(st.Students, func(t StudentTotal) bool {
			return t.Category == cat
		})
	}

	return st
}

func pickChampions(sorted []StudentTotal, include func(StudentTotal) bool) Champions {
	return Champions{
		Star: best(sorted, include, func(t StudentTotal) int { return t.StagePoints }),
		Pen:  best(sorted, include, func(t StudentTotal) int { return t.NonStagePoints }),
	}
}

// best expects totals in tie-break order, so the first maximum wins.
func best(sorted []StudentTotal, include func(StudentTotal) bool, points func(StudentTotal) int) *Champion {
	var winner *Champion
	for _, t := range sorted {
		if !include(t) {
			continue
		}
		p := points(t)
		if p <= 0 || (winner != nil && p <= winner.Points) {
			continue
		}
		winner = &Champion{
			StudentID: t.StudentID,
			Name:      t.Name,
			ChestNo:   t.ChestNo,
			Team:      t.Team,
			Category:  t.Category,
			Points:    p,
		}
	}
	return winner
}

// compareTotals orders by chest number (numerically when both are numbers), then by id.
func compareTotals(a, b StudentTotal) int {
	if c := CompareChestNo(a.ChestNo, b.ChestNo); c != 0 {
		return c
	}
	return cmp.Compare(a.StudentID, b.StudentID)
}

func CompareChestNo(a, b string) int {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return cmp.Compare(na, nb)
	}
	return cmp.Compare(a, b)
}
