package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"todocal/internal/calendar"
	"todocal/internal/query"
	"todocal/internal/stats"
	"todocal/internal/task"
)

func (a *app) renderList(tasks []task.Task) error {
	if len(tasks) == 0 {
		_, _ = fmt.Fprintln(a.stdout, "No tasks found. Add one with: todo add \"Buy milk\"")
		return nil
	}
	today := a.tracker.Today()
	now := a.tracker.Now()
	_, _ = fmt.Fprintf(a.stdout, "%-5s %-3s %-32s %-12s %-12s %s\n", "ID", "", "TEXT", "CATEGORY", "DUE", "CREATED")
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		due := "-"
		if t.DueDate != nil {
			due = t.DueDate.String()
			if query.IsOverdue(t, today) {
				due += "!"
			}
		}
		created := "-"
		if !t.CreatedAt.IsZero() {
			created = humanize.RelTime(t.CreatedAt, now, "ago", "from now")
		}
		_, _ = fmt.Fprintf(a.stdout, "%-5d %-3s %-32s %-12s %-12s %s\n", t.ID, check, t.Text, t.CategoryOrDefault(), due, created)
	}
	return nil
}

func (a *app) renderCalendar(year int, month time.Month) error {
	grid := a.tracker.Calendar(year, month)
	w := a.stdout

	_, _ = fmt.Fprintln(w, calendar.Title(year, month))
	for _, d := range calendar.Weekdays {
		_, _ = fmt.Fprintf(w, "%-7s", d)
	}
	_, _ = fmt.Fprintln(w)

	for row := 0; row < calendar.GridSize/7; row++ {
		var line strings.Builder
		for _, c := range grid[row*7 : row*7+7] {
			line.WriteString(fmt.Sprintf("%-7s", cellLabel(c)))
		}
		_, _ = fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	_, _ = fmt.Fprintln(w)
	for _, c := range grid {
		if !c.InMonth {
			continue
		}
		for _, t := range c.Tasks {
			check := "[ ]"
			if t.Completed {
				check = "[x]"
			}
			_, _ = fmt.Fprintf(w, "%s %s #%d %s\n", c.Date, check, t.ID, t.Text)
		}
	}
	return nil
}

// cellLabel renders a day as its number, ">" marking today and "(n)" the
// number of tasks due. Days outside the month are dots.
func cellLabel(c calendar.Cell) string {
	if !c.InMonth {
		return " ."
	}
	label := fmt.Sprintf("%2d", c.Date.Day)
	if c.IsToday {
		label = ">" + strings.TrimSpace(label)
	}
	if n := len(c.Tasks); n > 0 {
		label += fmt.Sprintf("(%d)", n)
	}
	return label
}

func (a *app) renderStats(an stats.Analytics) error {
	w := a.stdout
	_, _ = fmt.Fprintf(w, "Total           : %s\n", humanize.Comma(int64(an.Total)))
	_, _ = fmt.Fprintf(w, "Completed       : %d\n", an.Completed)
	_, _ = fmt.Fprintf(w, "Pending         : %d\n", an.Pending)
	_, _ = fmt.Fprintf(w, "Completion rate : %d%%\n", an.CompletionRate)
	_, _ = fmt.Fprintf(w, "Added this week : %d\n", an.WeeklyAdded)
	_, _ = fmt.Fprintf(w, "Done this week  : %d\n", an.WeeklyCompleted)
	_, _ = fmt.Fprintf(w, "Avg per day     : %.1f\n", an.AvgPerDay)
	_, _ = fmt.Fprintf(w, "Best day        : %s\n", an.BestDay)
	_, _ = fmt.Fprintf(w, "Streak          : %d %s\n", an.Streak, pluralDays(an.Streak))
	if len(an.Categories) > 0 {
		_, _ = fmt.Fprintln(w, "Categories")
		for _, c := range an.CategoryLabels() {
			_, _ = fmt.Fprintf(w, "  %-14s %d\n", c, an.Categories[c])
		}
	}
	return nil
}

func pluralDays(n int) string {
	return english.PluralWord(n, "day", "")
}
