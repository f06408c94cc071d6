// Package query derives the visible subset of tasks for a set of view
// parameters. Every stage only removes tasks; store order is preserved.
package query

import (
	"errors"
	"fmt"
	"strings"

	"todocal/internal/task"
)

type Status string

const (
	StatusAll       Status = "all"
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusToday     Status = "today"
	StatusOverdue   Status = "overdue"
)

const AllCategories = "all"

var ErrUnknownStatus = errors.New("unknown status filter")

// Statuses lists the filters in display order.
func Statuses() []Status {
	return []Status{StatusAll, StatusPending, StatusCompleted, StatusToday, StatusOverdue}
}

func ParseStatus(v string) (Status, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return StatusAll, nil
	}
	for _, s := range Statuses() {
		if string(s) == v {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, v)
}

// Next cycles to the following filter, wrapping around.
func (s Status) Next() Status {
	all := Statuses()
	for i, candidate := range all {
		if candidate == s {
			return all[(i+1)%len(all)]
		}
	}
	return StatusAll
}

// Params are the view parameters owned by the presentation layer.
type Params struct {
	Status   Status
	Category string
	Search   string
}

func DefaultParams() Params {
	return Params{Status: StatusAll, Category: AllCategories}
}

func Filter(tasks []task.Task, p Params, today task.Date) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if Match(t, p, today) {
			out = append(out, t)
		}
	}
	return out
}

// Match reports whether t survives search, then category, then status.
func Match(t task.Task, p Params, today task.Date) bool {
	return matchSearch(t, p.Search) && matchCategory(t, p.Category) && matchStatus(t, p.Status, today)
}

func matchSearch(t task.Task, q string) bool {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(t.Text), q) ||
		strings.Contains(strings.ToLower(t.Notes), q)
}

func matchCategory(t task.Task, c string) bool {
	if c == "" || c == AllCategories {
		return true
	}
	return t.Category == c
}

func matchStatus(t task.Task, s Status, today task.Date) bool {
	switch s {
	case StatusCompleted:
		return t.Completed
	case StatusPending:
		return !t.Completed
	case StatusToday:
		return t.DueOn(today)
	case StatusOverdue:
		return IsOverdue(t, today)
	default:
		return true
	}
}

// IsOverdue is true for pending tasks due strictly before today.
func IsOverdue(t task.Task, today task.Date) bool {
	return t.DueDate != nil && !t.Completed && t.DueDate.Before(today)
}

// Categories returns the distinct category labels in first-seen order.
func Categories(tasks []task.Task) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, t := range tasks {
		c := t.CategoryOrDefault()
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
