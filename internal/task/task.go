package task

import (
	"errors"
	"strings"
	"time"
)

const DefaultCategory = "personal"

var (
	ErrEmptyText     = errors.New("task text cannot be empty")
	ErrDuplicateID   = errors.New("duplicate task id")
	ErrInvalidImport = errors.New("invalid import file")
)

type Task struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	DueDate   *Date     `json:"dueDate"`
	Category  string    `json:"category"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
}

// Draft holds the user-supplied fields of a new task.
type Draft struct {
	Text     string
	DueDate  *Date
	Category string
}

// Patch replaces the editable fields of an existing task. A nil DueDate clears it.
type Patch struct {
	Text     string
	DueDate  *Date
	Category string
}

func (t Task) HasDue() bool {
	return t.DueDate != nil
}

func (t Task) DueOn(d Date) bool {
	return t.DueDate != nil && *t.DueDate == d
}

func (t Task) CategoryOrDefault() string {
	return NormalizeCategory(t.Category)
}

func NormalizeCategory(c string) string {
	c = strings.TrimSpace(c)
	if c == "" {
		return DefaultCategory
	}
	return c
}

func (t Task) clone() Task {
	t.DueDate = cloneDate(t.DueDate)
	return t
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
