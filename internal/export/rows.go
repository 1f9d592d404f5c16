package export

import (
	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

const (
	titleStar = "Star of the Fest"
	titlePen  = "Pen of the Fest"
	scopeAll  = "Overall"
)

// Sheet is a named block of rows, header first.
type Sheet struct {
	Name string
	Rows [][]interface{}
}

// StandingsSheets lays standings out as the tables shared by the workbook and the Google Sheet.
func StandingsSheets(st *scoring.Standings) []Sheet {
	return []Sheet{
		{Name: "Teams", Rows: TeamRows(st)},
		{Name: "Students", Rows: StudentRows(st)},
		{Name: "Champions", Rows: ChampionRows(st)},
	}
}

func TeamRows(st *scoring.Standings) [][]interface{} {
	rows := [][]interface{}{{"Team", "Points"}}
	for _, t := range st.Teams {
		rows = append(rows, []interface{}{string(t.Team), t.Points})
	}
	return rows
}

func StudentRows(st *scoring.Standings) [][]interface{} {
	rows := [][]interface{}{{"Chest No", "Name", "Team", "Category", "Stage Points", "Non-Stage Points", "Team Points"}}
	for _, s := range st.Students {
		rows = append(rows, []interface{}{
			s.ChestNo,
			s.Name,
			string(s.Team),
			string(s.Category),
			s.StagePoints,
			s.NonStagePoints,
			s.TeamPoints,
		})
	}
	return rows
}

// ChampionRows lists the overall titles first, then each age category. Vacant titles are left out.
func ChampionRows(st *scoring.Standings) [][]interface{} {
	rows := [][]interface{}{{"Scope", "Title", "Chest No", "Name", "Team", "Points"}}
	add := func(scope string, c scoring.Champions) {
		for _, entry := range []struct {
			title string
			champ *scoring.Champion
		}{{titleStar, c.Star}, {titlePen, c.Pen}} {
			if entry.champ == nil {
				continue
			}
			rows = append(rows, []interface{}{
				scope,
				entry.title,
				entry.champ.ChestNo,
				entry.champ.Name,
				string(entry.champ.Team),
				entry.champ.Points,
			})
		}
	}

	add(scopeAll, st.Champions)
	for _, cat := range models.AgeCategories {
		add(string(cat), st.CategoryChampions[cat])
	}
	return rows
}
