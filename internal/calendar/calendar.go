package calendar

import (
	"fmt"
	"time"

	"todocal/internal/task"
)

// GridSize is six full weeks so every month fits regardless of its first weekday.
const GridSize = 42

var Weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

type Cell struct {
	Date    task.Date
	InMonth bool
	IsToday bool
	Tasks   []task.Task
}

// Project buckets tasks by exact due date into the grid that starts on the
// Sunday on or before the 1st of the month.
func Project(tasks []task.Task, year int, month time.Month, today task.Date) [GridSize]Cell {
	first := task.NewDate(year, month, 1)
	start := first.AddDays(-int(first.Weekday()))

	byDay := make(map[task.Date][]task.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		byDay[*t.DueDate] = append(byDay[*t.DueDate], t)
	}

	var grid [GridSize]Cell
	for i := range grid {
		d := start.AddDays(i)
		grid[i] = Cell{
			Date:    d,
			InMonth: d.Year == first.Year && d.Month == first.Month,
			IsToday: d == today,
			Tasks:   byDay[d],
		}
	}
	return grid
}

// Shift moves a (year, month) pair by delta months.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month+time.Month(delta), 1, 0, 0, 0, 0, time.UTC)
	return t.Year(), t.Month()
}

func Title(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}
