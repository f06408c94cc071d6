package ui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"todocal/internal/task"
)

// formState backs the add and edit editors. taskID is only meaningful when
// editing is set.
type formState struct {
	editing  bool
	taskID   int64
	text     string
	due      string
	category string
	index    int
}

func formFields() []string {
	return []string{"text", "due date (YYYY-MM-DD)", "category"}
}

func (fs formState) currentLabel() string {
	return formFields()[fs.index]
}

func (fs formState) currentValue() string {
	switch fs.index {
	case 0:
		return fs.text
	case 1:
		return fs.due
	case 2:
		return fs.category
	default:
		return ""
	}
}

func (fs *formState) setCurrentValue(v string) {
	switch fs.index {
	case 0:
		fs.text = v
	case 1:
		fs.due = v
	case 2:
		fs.category = v
	}
}

func (m Model) startForm(t *task.Task, due *task.Date) (tea.Model, tea.Cmd) {
	fs := &formState{category: m.cfg.DefaultCategory}
	if due != nil {
		fs.due = due.String()
	}
	if t != nil {
		fs.editing = true
		fs.taskID = t.ID
		fs.text = t.Text
		fs.due = formatDate(t.DueDate)
		fs.category = t.CategoryOrDefault()
	}
	m.form = fs
	m.mode = modeForm
	m.input.SetValue(fs.currentValue())
	m.input.Placeholder = fs.currentLabel()
	m.input.Focus()
	m.status = m.formPrompt()
	return m, nil
}

func (m Model) updateFormMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		m.form = nil
		m.mode = modeList
		m.input.Blur()
		m.input.SetValue("")
		m.status = "Cancelled"
		return m, nil
	case "tab", "down":
		return m.moveField(1), nil
	case "shift+tab", "up":
		return m.moveField(-1), nil
	case m.cfg.Keys.Confirm, "enter":
		m.form.setCurrentValue(m.input.Value())
		if m.form.index >= len(formFields())-1 {
			return m.saveForm()
		}
		return m.moveField(1), nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) moveField(delta int) Model {
	m.form.setCurrentValue(m.input.Value())
	m.form.index = wrapIndex(m.form.index+delta, len(formFields()))
	m.input.SetValue(m.form.currentValue())
	m.input.Placeholder = m.form.currentLabel()
	m.status = m.formPrompt()
	return m
}

func (m Model) saveForm() (tea.Model, tea.Cmd) {
	fs := m.form
	due, err := parseDate(fs.due)
	if err != nil {
		m.status = fmt.Sprintf("due date invalid: %v", err)
		return m, nil
	}

	id := fs.taskID
	done := "Task updated"
	if !fs.editing {
		var added task.Task
		added, err = m.tracker.Add(m.ctx, task.Draft{Text: fs.text, DueDate: due, Category: fs.category})
		id = added.ID
		done = "Added task"
	} else {
		err = m.tracker.Update(m.ctx, id, task.Patch{Text: fs.text, DueDate: due, Category: fs.category})
	}
	if errors.Is(err, task.ErrEmptyText) {
		m.form.index = 0
		m.input.SetValue(fs.text)
		m.input.Placeholder = fs.currentLabel()
		m.status = "Task text cannot be empty"
		return m, nil
	}

	m.form = nil
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m = m.afterMutation(err, done)
	m.focusTask(id)
	return m, nil
}

func (m Model) formPrompt() string {
	if m.form == nil {
		return ""
	}
	verb := "New task"
	if m.form.editing {
		verb = fmt.Sprintf("Editing task #%d", m.form.taskID)
	}
	return fmt.Sprintf("%s: %s (field %d of %d). Enter to advance, Esc to cancel, tab to move.",
		verb, m.form.currentLabel(), m.form.index+1, len(formFields()))
}

func (m Model) renderForm() string {
	if m.form == nil {
		return ""
	}
	values := []string{m.form.text, m.form.due, m.form.category}
	var b strings.Builder
	for i, name := range formFields() {
		prefix := " "
		if i == m.form.index {
			prefix = ">"
		}
		b.WriteString(fmt.Sprintf("%s %-22s : %s\n", prefix, name, emptyPlaceholder(values[i])))
	}
	return b.String()
}

func parseDate(v string) (*task.Date, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	d, err := task.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func formatDate(d *task.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func emptyPlaceholder(v string) string {
	if strings.TrimSpace(v) == "" {
		return "(empty)"
	}
	return v
}
