package stats

import (
	"cmp"
	"math"
	"slices"
	"time"

	"todocal/internal/task"
)

// MaxLookback bounds the streak walk; a streak never exceeds it.
const MaxLookback = 30

const NoBestDay = "None"

// Streak counts consecutive days, walking back from today, that have at least
// one completed task due on that day. An empty today does not break the streak.
func Streak(tasks []task.Task, today task.Date) int {
	done := make(map[task.Date]struct{})
	for _, t := range tasks {
		if t.Completed && t.DueDate != nil {
			done[*t.DueDate] = struct{}{}
		}
	}

	streak := 0
	for i := 0; i < MaxLookback; i++ {
		if _, ok := done[today.AddDays(-i)]; ok {
			streak++
		} else if i > 0 {
			break
		}
	}
	return streak
}

type Analytics struct {
	Total           int            `json:"total"`
	Completed       int            `json:"completed"`
	Pending         int            `json:"pending"`
	CompletionRate  int            `json:"completionRate"`
	WeeklyAdded     int            `json:"weeklyAdded"`
	WeeklyCompleted int            `json:"weeklyCompleted"`
	Categories      map[string]int `json:"categories"`
	AvgPerDay       float64        `json:"avgPerDay"`
	BestDay         string         `json:"bestDay"`
	Streak          int            `json:"streak"`
}

func Compute(tasks []task.Task, now time.Time) Analytics {
	a := Analytics{
		Total:      len(tasks),
		Categories: make(map[string]int),
		BestDay:    NoBestDay,
		Streak:     Streak(tasks, task.DateOf(now)),
	}

	weekAgo := now.AddDate(0, 0, -7)
	for _, t := range tasks {
		if t.Completed {
			a.Completed++
		}
		if !t.CreatedAt.Before(weekAgo) {
			a.WeeklyAdded++
			if t.Completed {
				a.WeeklyCompleted++
			}
		}
		a.Categories[t.CategoryOrDefault()]++
	}
	a.Pending = a.Total - a.Completed

	if a.Total > 0 {
		a.CompletionRate = int(math.Floor(100*float64(a.Completed)/float64(a.Total) + 0.5))
		a.AvgPerDay = math.Round(float64(a.Total)/float64(daysSinceFirst(tasks, now))*10) / 10
	}
	a.BestDay = bestDay(tasks, now.Location())
	return a
}

// CategoryLabels orders categories by count, then name.
func (a Analytics) CategoryLabels() []string {
	labels := make([]string, 0, len(a.Categories))
	for c := range a.Categories {
		labels = append(labels, c)
	}
	slices.SortFunc(labels, func(x, y string) int {
		if n := cmp.Compare(a.Categories[y], a.Categories[x]); n != 0 {
			return n
		}
		return cmp.Compare(x, y)
	})
	return labels
}

// daysSinceFirst ignores tasks without a creation time.
func daysSinceFirst(tasks []task.Task, now time.Time) int {
	var earliest time.Time
	for _, t := range tasks {
		if t.CreatedAt.IsZero() {
			continue
		}
		if earliest.IsZero() || t.CreatedAt.Before(earliest) {
			earliest = t.CreatedAt
		}
	}
	if earliest.IsZero() {
		return 1
	}
	days := int(math.Ceil(now.Sub(earliest).Hours() / 24))
	return max(1, days)
}

// bestDay picks the creation weekday with the most completed tasks. Ties go to
// the weekday seen first in store order.
func bestDay(tasks []task.Task, loc *time.Location) string {
	counts := make(map[time.Weekday]int)
	var order []time.Weekday
	for _, t := range tasks {
		if !t.Completed || t.CreatedAt.IsZero() {
			continue
		}
		wd := t.CreatedAt.In(loc).Weekday()
		if _, ok := counts[wd]; !ok {
			order = append(order, wd)
		}
		counts[wd]++
	}

	best, bestCount := NoBestDay, 0
	for _, wd := range order {
		if counts[wd] > bestCount {
			best, bestCount = wd.String(), counts[wd]
		}
	}
	return best
}
