package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

func sampleStandings() *scoring.Standings {
	star := &scoring.Champion{StudentID: "a", Name: "Amina", ChestNo: "101", Team: models.TeamAuris, Category: models.CategoryBeta, Points: 22}
	pen := &scoring.Champion{StudentID: "b", Name: "Rahim", ChestNo: "202", Team: models.TeamLibras, Category: models.CategoryGamma, Points: 10}
	return &scoring.Standings{
		Teams: []scoring.TeamTotal{{Team: models.TeamAuris, Points: 40}, {Team: models.TeamLibras, Points: 31}},
		Students: []scoring.StudentTotal{
			{StudentID: "a", Name: "Amina", ChestNo: "101", Team: models.TeamAuris, Category: models.CategoryBeta, StagePoints: 22, TeamPoints: 22},
			{StudentID: "b", Name: "Rahim", ChestNo: "202", Team: models.TeamLibras, Category: models.CategoryGamma, NonStagePoints: 10, TeamPoints: 10},
		},
		Champions: scoring.Champions{Star: star, Pen: pen},
		CategoryChampions: map[models.Category]scoring.Champions{
			models.CategoryBeta:  {Star: star},
			models.CategoryGamma: {Pen: pen},
		},
		RulesVersion: "2024.1",
	}
}

func TestChampionRows(t *testing.T) {
	rows := ChampionRows(sampleStandings())
	require.Len(t, rows, 5)
	assert.Equal(t, []interface{}{scopeAll, titleStar, "101", "Amina", "Auris", 22}, rows[1])
	assert.Equal(t, []interface{}{scopeAll, titlePen, "202", "Rahim", "Libras", 10}, rows[2])
	assert.Equal(t, "Beta", rows[3][0])
	assert.Equal(t, "Gamma", rows[4][0])
	assert.Equal(t, titlePen, rows[4][1])
}

func TestChampionRowsVacant(t *testing.T) {
	rows := ChampionRows(&scoring.Standings{})
	assert.Len(t, rows, 1, "only the header when nobody scored")
}

func TestStandingsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStandingsWorkbook(&buf, sampleStandings()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Teams", "Students", "Champions"}, f.GetSheetList())

	teams, err := f.GetRows("Teams")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Team", "Points"}, {"Auris", "40"}, {"Libras", "31"}}, teams)

	students, err := f.GetRows("Students")
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, []string{"101", "Amina", "Auris", "Beta", "22", "0", "22"}, students[1])

	champs, err := f.GetRows("Champions")
	require.NoError(t, err)
	assert.Len(t, champs, 5)

	width, err := f.GetColWidth("Students", "G")
	require.NoError(t, err)
	assert.Equal(t, float64(headerWidth), width)

	styleID, err := f.GetCellStyle("Teams", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestStyleHeaderErrors(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	err := styleHeader(f, "Sheet1", 0, 0)
	assert.ErrorContains(t, err, "Sheet1 header")

	err = styleHeader(f, "Missing", 2, 0)
	assert.Error(t, err, "styling an unknown sheet fails")
}

func TestSheetValues(t *testing.T) {
	at := time.Date(2024, 2, 3, 14, 5, 0, 0, time.UTC)
	values := SheetValues(sampleStandings(), at)

	assert.Equal(t, []interface{}{"UPD: 3 February 14:05", "rules 2024.1"}, values[0])
	assert.Equal(t, []interface{}{}, values[1])
	assert.Equal(t, []interface{}{"Teams"}, values[2])
	assert.Equal(t, []interface{}{"Team", "Points"}, values[3])
	// timestamp + 3 * (blank + title) + 3 team rows + 3 student rows + 5 champion rows
	assert.Len(t, values, 1+6+3+3+5)
}
