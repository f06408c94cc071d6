package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"todocal/internal/calendar"
	"todocal/internal/query"
	"todocal/internal/task"
)

const (
	cellWidth    = 14
	cellTaskRows = 2
)

type theme struct {
	title     lipgloss.Style
	cursor    lipgloss.Style
	completed lipgloss.Style
	overdue   lipgloss.Style
	muted     lipgloss.Style
	tag       lipgloss.Style
	warning   lipgloss.Style
	cell      lipgloss.Style
	today     lipgloss.Style
	picked    lipgloss.Style
	outside   lipgloss.Style
}

func newTheme(dark bool) theme {
	fg, bg, accent, muted := lipgloss.Color("#1E1E2E"), lipgloss.Color("#EFF1F5"), lipgloss.Color("#1E66F5"), lipgloss.Color("#8C8FA1")
	if dark {
		fg, bg, accent, muted = lipgloss.Color("#CDD6F4"), lipgloss.Color("#313244"), lipgloss.Color("#89B4FA"), lipgloss.Color("#6C7086")
	}
	cell := lipgloss.NewStyle().Width(cellWidth).Height(cellTaskRows + 1).Foreground(fg)
	return theme{
		title:     lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("#25A065")).Padding(0, 1).Bold(true),
		cursor:    lipgloss.NewStyle().Foreground(accent).Background(bg).Bold(true),
		completed: lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1")).Strikethrough(true),
		overdue:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8")),
		muted:     lipgloss.NewStyle().Foreground(muted),
		tag:       lipgloss.NewStyle().Foreground(accent),
		warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FAB387")).Bold(true),
		cell:      cell,
		today:     cell.Bold(true).Foreground(accent),
		picked:    cell.Background(bg).Foreground(accent).Bold(true),
		outside:   cell.Foreground(muted).Faint(true),
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.theme.title.Render("todocal"))
	b.WriteString(" ")
	b.WriteString(m.theme.muted.Render(m.summary()))
	b.WriteString("\n\n")

	switch m.view {
	case viewCalendar:
		b.WriteString(m.renderCalendar())
	case viewAnalytics:
		b.WriteString(m.renderAnalytics())
	default:
		b.WriteString(m.renderTaskList())
	}

	b.WriteString("\n---\n")
	switch m.mode {
	case modeForm:
		b.WriteString(m.renderForm())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	case modeNotes, modeSearch, modeImport, modeExport:
		b.WriteString(m.input.View())
	default:
		if m.view == viewList {
			b.WriteString(m.renderDetailPanel())
		}
	}

	b.WriteString("\n\n")
	if strings.HasPrefix(m.status, "Warning") {
		b.WriteString(m.theme.warning.Render(m.status))
	} else {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}
	return b.String()
}

func (m Model) summary() string {
	parts := []string{
		fmt.Sprintf("filter:%s", m.params.Status),
		fmt.Sprintf("category:%s", m.params.Category),
	}
	if m.params.Search != "" {
		parts = append(parts, fmt.Sprintf("search:%q", m.params.Search))
	}
	if n := m.tracker.Selection().Len(); n > 0 {
		parts = append(parts, fmt.Sprintf("%d selected", n))
	}
	parts = append(parts, fmt.Sprintf("streak:%d", m.tracker.Streak()))
	return strings.Join(parts, " • ")
}

func (m Model) renderTaskList() string {
	if len(m.visible) == 0 {
		if len(m.tracker.Tasks()) == 0 {
			return fmt.Sprintf("No tasks yet. Press '%s' to add one.", keyLabel(m.cfg.Keys.Add))
		}
		return "No tasks match the current filter."
	}

	today := m.tracker.Today()
	sel := m.tracker.Selection()
	var b strings.Builder
	for i, t := range m.visible {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = ">"
		}
		mark := " "
		if sel.Has(t.ID) {
			mark = "*"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}

		text := t.Text
		switch {
		case t.Completed:
			text = m.theme.completed.Render(text)
		case m.cursor == i:
			text = m.theme.cursor.Render(text)
		}
		line := fmt.Sprintf("%s%s %s %s %s", cursor, mark, checkbox, text, m.theme.tag.Render("#"+t.CategoryOrDefault()))
		if t.DueDate != nil {
			due := "due " + t.DueDate.String()
			if query.IsOverdue(t, today) {
				due = m.theme.overdue.Render(due + " (overdue)")
			} else {
				due = m.theme.muted.Render(due)
			}
			line += " " + due
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderDetailPanel() string {
	t, ok := m.current()
	if !ok {
		return "No task selected"
	}
	var b strings.Builder
	b.WriteString("Details\n")
	b.WriteString(fmt.Sprintf("Text      : %s\n", t.Text))
	b.WriteString(fmt.Sprintf("Status    : %s\n", humanDone(t.Completed)))
	b.WriteString(fmt.Sprintf("Category  : %s\n", t.CategoryOrDefault()))
	b.WriteString(fmt.Sprintf("Due       : %s\n", emptyPlaceholder(formatDate(t.DueDate))))
	b.WriteString(fmt.Sprintf("Notes     : %s\n", emptyPlaceholder(t.Notes)))
	b.WriteString(fmt.Sprintf("Created   : %s\n", m.detailCreated(t)))
	return b.String()
}

func (m Model) detailCreated(t task.Task) string {
	if t.CreatedAt.IsZero() {
		return "(unknown)"
	}
	return fmt.Sprintf("%s (%s)", t.CreatedAt.Local().Format("2006-01-02 15:04"),
		humanize.RelTime(t.CreatedAt, m.tracker.Now(), "ago", "from now"))
}

func (m Model) renderCalendar() string {
	grid := m.tracker.Calendar(m.year, m.month)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(calendar.Title(m.year, m.month)))
	b.WriteString("\n")

	header := make([]string, len(calendar.Weekdays))
	for i, d := range calendar.Weekdays {
		header[i] = m.theme.muted.Width(cellWidth).Render(d)
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, header...))
	b.WriteString("\n")

	for row := 0; row < calendar.GridSize/7; row++ {
		cells := make([]string, 7)
		for col := 0; col < 7; col++ {
			cells[col] = m.renderCell(grid[row*7+col])
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	tasks := m.dayTasks()
	b.WriteString(fmt.Sprintf("\n%s: %d due\n", m.day, len(tasks)))
	cur := clampCursor(m.dayCursor, len(tasks))
	for i, t := range tasks {
		cursor := " "
		if i == cur {
			cursor = ">"
		}
		checkbox := "[ ]"
		if t.Completed {
			checkbox = "[x]"
		}
		b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, checkbox, t.Text))
	}
	return b.String()
}

func (m Model) renderCell(c calendar.Cell) string {
	style := m.theme.cell
	switch {
	case c.Date == m.day:
		style = m.theme.picked
	case c.IsToday:
		style = m.theme.today
	case !c.InMonth:
		style = m.theme.outside
	}

	lines := []string{fmt.Sprintf("%2d", c.Date.Day)}
	for i, t := range c.Tasks {
		if i == cellTaskRows-1 && len(c.Tasks) > cellTaskRows {
			lines = append(lines, fmt.Sprintf("+%d more", len(c.Tasks)-i))
			break
		}
		if i == cellTaskRows {
			break
		}
		prefix := "·"
		if t.Completed {
			prefix = "✓"
		}
		lines = append(lines, truncate(prefix+" "+t.Text, cellWidth-1))
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) renderAnalytics() string {
	a := m.tracker.Analytics()
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Analytics"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total           : %d\n", a.Total))
	b.WriteString(fmt.Sprintf("Completed       : %d\n", a.Completed))
	b.WriteString(fmt.Sprintf("Pending         : %d\n", a.Pending))
	b.WriteString(fmt.Sprintf("Completion rate : %d%%\n", a.CompletionRate))
	b.WriteString(fmt.Sprintf("Added this week : %d\n", a.WeeklyAdded))
	b.WriteString(fmt.Sprintf("Done this week  : %d\n", a.WeeklyCompleted))
	b.WriteString(fmt.Sprintf("Avg per day     : %.1f\n", a.AvgPerDay))
	b.WriteString(fmt.Sprintf("Best day        : %s\n", a.BestDay))
	b.WriteString(fmt.Sprintf("Streak          : %d\n", a.Streak))
	b.WriteString("Categories\n")
	for _, c := range a.CategoryLabels() {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", c, a.Categories[c]))
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
