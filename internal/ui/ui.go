package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"todocal/internal/calendar"
	"todocal/internal/config"
	"todocal/internal/query"
	"todocal/internal/task"
	"todocal/internal/tracker"
)

const helpTimeout = 5 * time.Second

type mode int

const (
	modeList mode = iota
	modeForm
	modeNotes
	modeSearch
	modeImport
	modeExport
)

type view int

const (
	viewList view = iota
	viewCalendar
	viewAnalytics
)

type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmBulkDelete
	confirmClearCompleted
	confirmImport
)

// Prefs stores UI preferences between runs.
type Prefs interface {
	DarkMode() (bool, error)
	SetDarkMode(on bool) error
}

type importedMsg struct {
	path  string
	tasks []task.Task
	err   error
}

type hideHelpMsg struct {
	seq int
}

type Model struct {
	ctx      context.Context
	tracker  *tracker.Tracker
	prefs    Prefs
	cfg      config.Config
	keys     keyMap
	help     help.Model
	showHelp bool
	helpSeq  int

	params     query.Params
	visible    []task.Task
	cursor     int
	view       view
	mode       mode
	input      textinput.Model
	form       *formState
	confirm    confirmKind
	pendingDel *task.Task
	pendingImp *importedMsg
	notesID    int64
	status     string

	year  int
	month time.Month
	day   task.Date
	// dayCursor indexes the tasks due on day.
	dayCursor int

	dark  bool
	theme theme
}

func NewModel(ctx context.Context, tr *tracker.Tracker, prefs Prefs, cfg config.Config) Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 40

	status := fmt.Sprintf("Press '%s' to add, '%s' for help.", keyLabel(cfg.Keys.Add), keyLabel(cfg.Keys.Help))
	dark, err := prefs.DarkMode()
	if err != nil {
		status = fmt.Sprintf("load theme failed: %v", err)
	}
	today := tr.Today()

	m := Model{
		ctx:     ctx,
		tracker: tr,
		prefs:   prefs,
		cfg:     cfg,
		keys:    newKeyMap(cfg.Keys),
		help:    help.New(),
		params:  cfg.DefaultParams(),
		input:   ti,
		mode:    modeList,
		status:  status,
		year:    today.Year,
		month:   today.Month,
		day:     today,
		dark:    dark,
		theme:   newTheme(dark),
	}
	m.refresh()
	return m
}

func Run(ctx context.Context, tr *tracker.Tracker, prefs Prefs, cfg config.Config) error {
	program := tea.NewProgram(NewModel(ctx, tr, prefs, cfg), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirm != confirmNone {
			return m.updateConfirm(msg.String())
		}
		switch m.mode {
		case modeForm:
			return m.updateFormMode(msg)
		case modeNotes, modeSearch, modeImport, modeExport:
			return m.updateInputMode(msg)
		}
		return m.updateBrowse(msg)
	case importedMsg:
		return m.applyImport(msg), nil
	case hideHelpMsg:
		if msg.seq == m.helpSeq {
			m.showHelp = false
		}
	case tea.WindowSizeMsg:
		m.input.Width = max(10, msg.Width-10)
		m.help.Width = msg.Width
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		return m.toggleHelp()
	case key.Matches(msg, k.View):
		if m.view == viewCalendar {
			m.view = viewList
		} else {
			m.view = viewCalendar
		}
		return m, nil
	case key.Matches(msg, k.Analytics):
		if m.view == viewAnalytics {
			m.view = viewList
		} else {
			m.view = viewAnalytics
		}
		return m, nil
	case key.Matches(msg, k.Back):
		m.showHelp = false
		m.view = viewList
		return m, nil
	case key.Matches(msg, k.DarkMode):
		return m.toggleDark(), nil
	case key.Matches(msg, k.Export):
		return m.startInput(modeExport, "", task.ExportFileName(m.tracker.Now()), "Export to file (empty for default name)"), nil
	case key.Matches(msg, k.Import):
		return m.startInput(modeImport, "", "path/to/backup.json", "Import replaces all tasks. File path"), nil
	}

	switch m.view {
	case viewList:
		return m.updateList(msg)
	case viewCalendar:
		return m.updateCalendar(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	sel := m.tracker.Selection()
	switch {
	case key.Matches(msg, k.Down):
		m.cursor = clampCursor(m.cursor+1, len(m.visible))
	case key.Matches(msg, k.Up):
		m.cursor = clampCursor(m.cursor-1, len(m.visible))
	case key.Matches(msg, k.Add):
		return m.startForm(nil, nil)
	case key.Matches(msg, k.Search):
		return m.startInput(modeSearch, m.params.Search, "search text or notes", "Search"), nil
	case key.Matches(msg, k.Filter):
		m.params.Status = m.params.Status.Next()
		m.refresh()
		m.status = fmt.Sprintf("Filter: %s", m.params.Status)
	case key.Matches(msg, k.Category):
		m.params.Category = nextCategory(m.params.Category, query.Categories(m.tracker.Tasks()))
		m.refresh()
		m.status = fmt.Sprintf("Category: %s", m.params.Category)
	case key.Matches(msg, k.SelectAll):
		sel.ToggleAll(m.visible)
		m.status = fmt.Sprintf("%d selected", sel.Len())
	case key.Matches(msg, k.BulkComplete):
		if sel.Len() == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		n, err := m.tracker.BulkComplete(m.ctx)
		m = m.afterMutation(err, fmt.Sprintf("Completed %d tasks", n))
	case key.Matches(msg, k.BulkDelete):
		if sel.Len() == 0 {
			m.status = "Nothing selected"
			return m, nil
		}
		m.confirm = confirmBulkDelete
		m.status = fmt.Sprintf("Delete %d selected tasks? y/n", sel.Len())
	case key.Matches(msg, k.ClearCompleted):
		n := countCompleted(m.tracker.Tasks())
		if n == 0 {
			m.status = "No completed tasks"
			return m, nil
		}
		m.confirm = confirmClearCompleted
		m.status = fmt.Sprintf("Delete %d completed tasks? y/n", n)
	default:
		return m.updateCurrent(msg)
	}
	return m, nil
}

// updateCurrent handles keys that act on the task under the cursor.
func (m Model) updateCurrent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	cur, ok := m.current()
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(msg, k.Edit):
		return m.startForm(&cur, nil)
	case key.Matches(msg, k.Notes):
		m.notesID = cur.ID
		return m.startInput(modeNotes, cur.Notes, "notes", fmt.Sprintf("Notes for #%d", cur.ID)), nil
	case key.Matches(msg, k.Toggle):
		err := m.tracker.Toggle(m.ctx, cur.ID)
		m = m.afterMutation(err, "Toggled task")
	case key.Matches(msg, k.Select):
		sel := m.tracker.Selection()
		if sel.Toggle(cur.ID) {
			m.cursor = clampCursor(m.cursor+1, len(m.visible))
		}
		m.status = fmt.Sprintf("%d selected", sel.Len())
	case key.Matches(msg, k.Delete):
		m.confirm = confirmDelete
		m.pendingDel = &cur
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", cur.Text)
	case key.Matches(msg, k.Detail):
		m.status = m.detailLine(cur)
	}
	return m, nil
}

// updateCalendar moves the highlighted day; edit, toggle and detail act on
// the task under the day cursor.
func (m Model) updateCalendar(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	switch {
	case key.Matches(msg, k.Left):
		m = m.moveDay(-1)
	case key.Matches(msg, k.Right):
		m = m.moveDay(1)
	case key.Matches(msg, k.Up):
		m = m.moveDay(-7)
	case key.Matches(msg, k.Down):
		m = m.moveDay(7)
	case key.Matches(msg, k.DayNext):
		m.dayCursor = clampCursor(m.dayCursor+1, len(m.dayTasks()))
	case key.Matches(msg, k.DayPrev):
		m.dayCursor = clampCursor(m.dayCursor-1, len(m.dayTasks()))
	case key.Matches(msg, k.PrevMonth):
		m.year, m.month = calendar.Shift(m.year, m.month, -1)
		m.day = task.NewDate(m.year, m.month, 1)
		m.dayCursor = 0
	case key.Matches(msg, k.NextMonth):
		m.year, m.month = calendar.Shift(m.year, m.month, 1)
		m.day = task.NewDate(m.year, m.month, 1)
		m.dayCursor = 0
	case key.Matches(msg, k.Add):
		day := m.day
		return m.startForm(nil, &day)
	case key.Matches(msg, k.Edit), key.Matches(msg, k.Toggle), key.Matches(msg, k.Detail):
		tasks := m.dayTasks()
		if len(tasks) == 0 {
			m.status = fmt.Sprintf("Nothing due on %s", m.day)
			return m, nil
		}
		picked := tasks[clampCursor(m.dayCursor, len(tasks))]
		switch {
		case key.Matches(msg, k.Edit):
			return m.startForm(&picked, nil)
		case key.Matches(msg, k.Toggle):
			err := m.tracker.Toggle(m.ctx, picked.ID)
			m = m.afterMutation(err, "Toggled task")
		default:
			m.status = m.detailLine(picked)
		}
	}
	return m, nil
}

func (m Model) moveDay(delta int) Model {
	m.day = m.day.AddDays(delta)
	m.year, m.month = m.day.Year, m.day.Month
	m.dayCursor = 0
	return m
}

func (m Model) dayTasks() []task.Task {
	var out []task.Task
	for _, t := range m.tracker.Tasks() {
		if t.DueOn(m.day) {
			out = append(out, t)
		}
	}
	return out
}

func (m Model) startInput(md mode, value, placeholder, prompt string) Model {
	m.mode = md
	m.input.SetValue(value)
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	m.input.Focus()
	m.status = prompt + ": Enter to confirm, Esc to cancel"
	return m
}

func (m Model) leaveInput(status string) Model {
	m.mode = modeList
	m.input.Blur()
	m.input.SetValue("")
	m.status = status
	return m
}

func (m Model) updateInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case m.cfg.Keys.Cancel, "esc":
		if m.mode == modeSearch {
			m.params.Search = ""
			m.refresh()
		}
		return m.leaveInput("Cancelled"), nil
	case m.cfg.Keys.Confirm, "enter":
		return m.submitInput()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.mode == modeSearch {
		m.params.Search = m.input.Value()
		m.refresh()
	}
	return m, cmd
}

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	switch m.mode {
	case modeNotes:
		id := m.notesID
		m = m.leaveInput("")
		err := m.tracker.SetNotes(m.ctx, id, value)
		return m.afterMutation(err, "Notes saved"), nil
	case modeSearch:
		m.params.Search = value
		m.refresh()
		return m.leaveInput(fmt.Sprintf("Search %q: %d match", value, len(m.visible))), nil
	case modeExport:
		path, err := m.tracker.ExportFile(value)
		if err != nil {
			return m.leaveInput(fmt.Sprintf("export failed: %v", err)), nil
		}
		return m.leaveInput(fmt.Sprintf("Exported %d tasks to %s", len(m.tracker.Tasks()), path)), nil
	case modeImport:
		if value == "" {
			m.status = "Enter a file path"
			return m, nil
		}
		return m.leaveInput("Reading " + value + "..."), importCmd(m.tracker, value)
	}
	return m.leaveInput(""), nil
}

func importCmd(tr *tracker.Tracker, path string) tea.Cmd {
	return func() tea.Msg {
		tasks, err := tr.ReadImport(path)
		return importedMsg{path: path, tasks: tasks, err: err}
	}
}

// applyImport asks before replacing; the store only changes on "y".
func (m Model) applyImport(msg importedMsg) Model {
	if msg.err != nil {
		m.status = fmt.Sprintf("import failed: %v", msg.err)
		return m
	}
	m.pendingImp = &msg
	m.confirm = confirmImport
	m.status = fmt.Sprintf("Replace all %d current tasks with %d from %s? y/n",
		len(m.tracker.Tasks()), len(msg.tasks), msg.path)
	return m
}

func (m Model) updateConfirm(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "n", "N", m.cfg.Keys.Cancel:
		if m.confirm == confirmImport {
			m.status = "Import cancelled"
		} else {
			m.status = "Delete cancelled"
		}
		m.confirm = confirmNone
		m.pendingDel = nil
		m.pendingImp = nil
		return m, nil
	case "y", "Y":
		kind := m.confirm
		m.confirm = confirmNone
		switch kind {
		case confirmDelete:
			id := m.pendingDel.ID
			m.pendingDel = nil
			err := m.tracker.Remove(m.ctx, id)
			return m.afterMutation(err, "Deleted task"), nil
		case confirmBulkDelete:
			n, err := m.tracker.BulkDelete(m.ctx)
			return m.afterMutation(err, fmt.Sprintf("Deleted %d tasks", n)), nil
		case confirmClearCompleted:
			n, err := m.tracker.ClearCompleted(m.ctx)
			return m.afterMutation(err, fmt.Sprintf("Cleared %d completed tasks", n)), nil
		case confirmImport:
			imp := m.pendingImp
			m.pendingImp = nil
			err := m.tracker.Import(m.ctx, imp.tasks)
			m.cursor = 0
			return m.afterMutation(err, fmt.Sprintf("Imported %d tasks from %s", len(imp.tasks), imp.path)), nil
		}
	}
	return m, nil
}

func (m Model) toggleHelp() (tea.Model, tea.Cmd) {
	m.showHelp = !m.showHelp
	if !m.showHelp {
		return m, nil
	}
	m.helpSeq++
	seq := m.helpSeq
	return m, tea.Tick(helpTimeout, func(time.Time) tea.Msg {
		return hideHelpMsg{seq: seq}
	})
}

func (m Model) toggleDark() Model {
	m.dark = !m.dark
	m.theme = newTheme(m.dark)
	if err := m.prefs.SetDarkMode(m.dark); err != nil {
		m.status = fmt.Sprintf("save theme failed: %v", err)
		return m
	}
	if m.dark {
		m.status = "Dark mode on"
	} else {
		m.status = "Dark mode off"
	}
	return m
}

// afterMutation refreshes the view and reports the outcome. A persistence
// failure is a warning: the change stays applied in memory.
func (m Model) afterMutation(err error, done string) Model {
	m.refresh()
	switch {
	case errors.Is(err, tracker.ErrPersist):
		m.status = fmt.Sprintf("Warning: %v", err)
	case err != nil:
		m.status = fmt.Sprintf("error: %v", err)
	default:
		m.status = done
	}
	return m
}

func (m *Model) refresh() {
	m.visible = m.tracker.Visible(m.params)
	m.cursor = clampCursor(m.cursor, len(m.visible))
}

func (m *Model) focusTask(id int64) {
	for i, t := range m.visible {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
}

func (m Model) current() (task.Task, bool) {
	if len(m.visible) == 0 {
		return task.Task{}, false
	}
	return m.visible[clampCursor(m.cursor, len(m.visible))], true
}

func (m Model) detailLine(t task.Task) string {
	info := fmt.Sprintf("Task #%d • %s • %s • %s", t.ID, t.Text, humanDone(t.Completed), t.CategoryOrDefault())
	if t.DueDate != nil {
		info += " • due:" + t.DueDate.String()
	}
	if !t.CreatedAt.IsZero() {
		info += " • created " + humanize.RelTime(t.CreatedAt, m.tracker.Now(), "ago", "from now")
	}
	return info
}

func nextCategory(cur string, categories []string) string {
	all := append([]string{query.AllCategories}, categories...)
	for i, c := range all {
		if c == cur {
			return all[(i+1)%len(all)]
		}
	}
	return query.AllCategories
}

func countCompleted(tasks []task.Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func humanDone(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
