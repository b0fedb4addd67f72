package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/arbor/internal/contract"
	"github.com/charmbracelet/lipgloss"
)

// FormatTime renders an optional timestamp, or a dash when unset.
func FormatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

func FormatProjectList(projects []contract.ProjectResponse) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Code,
			p.Name,
			optionalID(p.ParentID),
			p.State,
			FormatTime(p.Start),
			FormatTime(p.Finish),
		})
	}
	return RenderTable([]string{"ID", "Code", "Name", "Parent", "State", "Start", "Finish"}, rows)
}

func FormatTaskList(tasks []contract.TaskResponse) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			strconv.FormatInt(t.ID, 10),
			strconv.FormatInt(t.ProjectID, 10),
			optionalID(t.ParentID),
			t.Name,
			t.State,
			FormatTime(t.Start),
			FormatTime(t.Finish),
		})
	}
	return RenderTable([]string{"ID", "Project", "Parent", "Name", "State", "Start", "Finish"}, rows)
}

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(0, 2)
	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

func field(label, value string) string {
	return fmt.Sprintf("%s %s", StyleDim.Render(fmt.Sprintf("%-8s", label)), value)
}

func FormatProjectDetail(p contract.ProjectResponse) string {
	lines := []string{
		field("ID", strconv.FormatInt(p.ID, 10)),
		field("Code", Bold(p.Code)),
		field("Parent", optionalID(p.ParentID)),
		field("State", StatePill(p.State)),
		field("Start", FormatTime(p.Start)),
		field("Finish", FormatTime(p.Finish)),
	}
	return RenderBox(p.Name, strings.Join(lines, "\n"))
}

func FormatTaskDetail(t contract.TaskResponse) string {
	lines := []string{
		field("ID", strconv.FormatInt(t.ID, 10)),
		field("Project", strconv.FormatInt(t.ProjectID, 10)),
		field("Parent", optionalID(t.ParentID)),
		field("State", StatePill(t.State)),
		field("Start", FormatTime(t.Start)),
		field("Finish", FormatTime(t.Finish)),
		"",
		t.Description,
	}
	return RenderBox(t.Name, strings.Join(lines, "\n"))
}

// FormatActiveReport prints one table row per active project and one
// indented row per active task below it.
func FormatActiveReport(r contract.ActiveReport) string {
	var b strings.Builder
	b.WriteString(Header("Active on " + r.Date.Format(time.DateOnly)))
	b.WriteString("\n")
	if len(r.Projects) == 0 {
		b.WriteString(Dim("Nothing was active on that day.") + "\n")
		return b.String()
	}
	var rows [][]string
	for _, ap := range r.Projects {
		p := ap.Project
		rows = append(rows, []string{p.Code, p.Name, p.State, FormatTime(p.Start), FormatTime(p.Finish)})
		for _, t := range ap.Tasks {
			rows = append(rows, []string{"", "  " + t.Name, t.State, FormatTime(t.Start), FormatTime(t.Finish)})
		}
	}
	b.WriteString(RenderTable([]string{"Code", "Name", "State", "Start", "Finish"}, rows))
	return b.String()
}
