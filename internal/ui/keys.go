package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"todocal/internal/config"
)

type keyMap struct {
	Up             key.Binding
	Down           key.Binding
	Left           key.Binding
	Right          key.Binding
	Quit           key.Binding
	Add            key.Binding
	Edit           key.Binding
	Notes          key.Binding
	Toggle         key.Binding
	Delete         key.Binding
	Detail         key.Binding
	Select         key.Binding
	SelectAll      key.Binding
	BulkComplete   key.Binding
	BulkDelete     key.Binding
	ClearCompleted key.Binding
	Search         key.Binding
	Filter         key.Binding
	Category       key.Binding
	View           key.Binding
	PrevMonth      key.Binding
	DayNext        key.Binding
	DayPrev        key.Binding
	NextMonth      key.Binding
	Analytics      key.Binding
	DarkMode       key.Binding
	Export         key.Binding
	Import         key.Binding
	Help           key.Binding
	Back           key.Binding
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Up:             bind("move up", k.Up, "up"),
		Down:           bind("move down", k.Down, "down"),
		Left:           bind("prev day", "h", "left"),
		Right:          bind("next day", "l", "right"),
		Quit:           bind("quit", k.Quit, "ctrl+c"),
		Add:            bind("add", k.Add),
		Edit:           bind("edit", k.Edit),
		Notes:          bind("notes", k.Notes),
		Toggle:         bind("toggle", k.Toggle),
		Delete:         bind("delete", k.Delete),
		Detail:         bind("detail", k.Detail),
		Select:         bind("select", k.Select),
		SelectAll:      bind("select all", k.SelectAll),
		BulkComplete:   bind("complete selected", k.BulkComplete),
		BulkDelete:     bind("delete selected", k.BulkDelete),
		ClearCompleted: bind("clear completed", k.ClearCompleted),
		Search:         bind("search", k.Search),
		Filter:         bind("filter", k.Filter),
		Category:       bind("category", k.Category),
		View:           bind("list/calendar", k.View),
		PrevMonth:      bind("prev month", k.PrevMonth),
		DayNext:        bind("next task on day", k.DayNext),
		DayPrev:        bind("prev task on day", k.DayPrev),
		NextMonth:      bind("next month", k.NextMonth),
		Analytics:      bind("analytics", k.Analytics),
		DarkMode:       bind("dark mode", k.DarkMode),
		Export:         bind("export", k.Export),
		Import:         bind("import", k.Import),
		Help:           bind("help", k.Help),
		Back:           bind("back", k.Cancel),
	}
}

// bind builds a binding whose help label is the first configured key.
func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(keyLabel(keys[0]), desc),
	)
}

func keyLabel(k string) string {
	if k == " " {
		return "space"
	}
	return k
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Toggle, k.Delete, k.Search, k.View, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Add, k.Edit, k.Notes, k.Toggle, k.Delete, k.Detail},
		{k.Select, k.SelectAll, k.BulkComplete, k.BulkDelete, k.ClearCompleted},
		{k.Search, k.Filter, k.Category, k.View, k.PrevMonth, k.NextMonth, k.Left, k.Right, k.DayNext, k.DayPrev},
		{k.Analytics, k.DarkMode, k.Export, k.Import, k.Help, k.Back, k.Quit},
	}
}
