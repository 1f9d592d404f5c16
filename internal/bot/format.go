package bot

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/shrimpsizemoose/festboard/internal/models"
	"github.com/shrimpsizemoose/festboard/internal/scoring"
)

const topStudents = 5

func formatStandings(st *scoring.Standings, top int) string {
	var msg strings.Builder
	msg.WriteString("🏆 Team standings\n")
	for _, team := range st.Teams {
		msg.WriteString(fmt.Sprintf("%s: %d\n", team.Team, team.Points))
	}

	msg.WriteString(fmt.Sprintf("\n%d of %d events completed, %d students registered\n",
		st.Counts.CompletedEvents, st.Counts.Events, st.Counts.Students))

	students := slices.Clone(st.Students)
	slices.SortStableFunc(students, func(a, b scoring.StudentTotal) int {
		return cmp.Compare(b.TeamPoints, a.TeamPoints)
	})
	if len(students) > top {
		students = students[:top]
	}
	if len(students) > 0 && students[0].TeamPoints > 0 {
		msg.WriteString("\nTop scorers\n")
		for i, s := range students {
			if s.TeamPoints == 0 {
				break
			}
			msg.WriteString(fmt.Sprintf("%d. %s (#%s, %s) %d\n", i+1, s.Name, s.ChestNo, s.Team, s.TeamPoints))
		}
	}
	return strings.TrimRight(msg.String(), "\n")
}

func formatChampion(title string, c *scoring.Champion) string {
	if c == nil {
		return fmt.Sprintf("%s: not awarded yet", title)
	}
	return fmt.Sprintf("%s: %s (#%s, %s) %d", title, c.Name, c.ChestNo, c.Team, c.Points)
}

func formatChampions(st *scoring.Standings) string {
	var msg strings.Builder
	msg.WriteString("⭐ Overall\n")
	msg.WriteString(formatChampion("Star of the Fest", st.Champions.Star) + "\n")
	msg.WriteString(formatChampion("Pen of the Fest", st.Champions.Pen) + "\n")

	for _, cat := range models.AgeCategories {
		ch := st.CategoryChampions[cat]
		msg.WriteString(fmt.Sprintf("\n%s\n", cat))
		msg.WriteString(formatChampion("Star", ch.Star) + "\n")
		msg.WriteString(formatChampion("Pen", ch.Pen) + "\n")
	}
	return strings.TrimRight(msg.String(), "\n")
}

func formatEvents(category models.Category, events []models.Event) string {
	if len(events) == 0 {
		return fmt.Sprintf("No events open to %s yet", category)
	}

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("Events open to %s:\n\n", category))
	for _, e := range events {
		mark := "📝"
		if e.Type == models.EventStage {
			mark = "🎤"
		}
		line := fmt.Sprintf("%s %s (%s)", mark, e.Name, e.Category)
		if e.Status == models.EventCompleted {
			line += " ✔"
		}
		msg.WriteString(line + "\n")
	}
	return strings.TrimRight(msg.String(), "\n")
}

func formatGate(open bool) string {
	if open {
		return "Registration is open"
	}
	return "Registration is closed"
}

func parseGate(arg string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "open", "on":
		return true, nil
	case "close", "closed", "off":
		return false, nil
	}
	return false, fmt.Errorf("usage: /gate open|close")
}

// parseCategory accepts a category name in any case.
func parseCategory(arg string) (models.Category, error) {
	arg = strings.TrimSpace(arg)
	for _, c := range models.Categories {
		if strings.EqualFold(string(c), arg) {
			return c, nil
		}
	}
	return "", fmt.Errorf("usage: /events Alpha|Beta|Gamma|General-A|General-B")
}
