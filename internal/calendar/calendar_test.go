package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/task"
)

func due(d task.Date) *task.Date { return &d }

func TestProject_GridShape(t *testing.T) {
	today := task.NewDate(2026, 10, 19)
	for m := time.January; m <= time.December; m++ {
		grid := Project(nil, 2026, m, today)

		require.Len(t, grid, GridSize)
		assert.Equal(t, time.Sunday, grid[0].Date.Weekday(), "month %s", m)
		assert.Equal(t, grid[0].Date.AddDays(41), grid[41].Date)

		inMonth := 0
		for _, c := range grid {
			if c.InMonth {
				inMonth++
			}
		}
		days := time.Date(2026, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
		assert.Equal(t, days, inMonth, "month %s", m)
	}
}

func TestProject_MonthStartingOnSunday(t *testing.T) {
	// February 2026 starts on a Sunday and ends on a Saturday.
	grid := Project(nil, 2026, time.February, task.NewDate(2026, 2, 10))

	assert.Equal(t, task.NewDate(2026, 2, 1), grid[0].Date)
	assert.True(t, grid[0].InMonth)
	assert.True(t, grid[27].InMonth)
	assert.False(t, grid[28].InMonth)
	assert.Equal(t, task.NewDate(2026, 3, 14), grid[41].Date)
}

func TestProject_Today(t *testing.T) {
	today := task.NewDate(2026, 10, 19)

	grid := Project(nil, 2026, time.October, today)
	count := 0
	for _, c := range grid {
		if c.IsToday {
			count++
			assert.Equal(t, today, c.Date)
		}
	}
	assert.Equal(t, 1, count)

	// The October grid opens on Sunday 27 September.
	grid = Project(nil, 2026, time.October, task.NewDate(2026, 9, 29))
	count = 0
	for _, c := range grid {
		if c.IsToday {
			count++
			assert.False(t, c.InMonth)
		}
	}
	assert.Equal(t, 1, count)

	grid = Project(nil, 2026, time.March, today)
	for _, c := range grid {
		assert.False(t, c.IsToday)
	}
}

func TestProject_BucketsByExactDueDate(t *testing.T) {
	today := task.NewDate(2026, 10, 19)
	tasks := []task.Task{
		{ID: 3, Text: "c", DueDate: due(task.NewDate(2026, 10, 5))},
		{ID: 2, Text: "b", DueDate: due(task.NewDate(2026, 10, 5))},
		{ID: 1, Text: "a", DueDate: due(task.NewDate(2026, 11, 2))},
		{ID: 4, Text: "no due"},
		{ID: 5, Text: "far", DueDate: due(task.NewDate(2027, 1, 1))},
	}

	grid := Project(tasks, 2026, time.October, today)

	placed := 0
	for _, c := range grid {
		placed += len(c.Tasks)
		switch c.Date {
		case task.NewDate(2026, 10, 5):
			require.Len(t, c.Tasks, 2)
			assert.Equal(t, int64(3), c.Tasks[0].ID)
			assert.Equal(t, int64(2), c.Tasks[1].ID)
		case task.NewDate(2026, 11, 2):
			require.Len(t, c.Tasks, 1)
			assert.False(t, c.InMonth)
		}
	}
	assert.Equal(t, 3, placed)
}

func TestShift(t *testing.T) {
	y, m := Shift(2026, time.December, 1)
	assert.Equal(t, 2027, y)
	assert.Equal(t, time.January, m)

	y, m = Shift(2026, time.January, -1)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.December, m)

	y, m = Shift(2026, time.March, -14)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.January, m)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "October 2026", Title(2026, time.October))
}
