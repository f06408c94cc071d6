package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"todocal/internal/query"
	"todocal/internal/task"
)

func (a *app) newAddCmd() *cobra.Command {
	var due, category string
	cmd := &cobra.Command{
		Use:   "add TEXT...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDue(due)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("category") {
				category = a.cfg.DefaultCategory
			}
			added, err := a.tracker.Add(cmd.Context(), task.Draft{
				Text:     strings.Join(args, " "),
				DueDate:  d,
				Category: category,
			})
			if err := a.persisted(err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Added #%d %s\n", added.ID, added.Text)
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date in YYYY-MM-DD format")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Task category")
	return cmd
}

func (a *app) newListCmd() *cobra.Command {
	var status, category, search string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks matching the filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := a.cfg.DefaultParams()
			if cmd.Flags().Changed("status") {
				s, err := query.ParseStatus(status)
				if err != nil {
					return err
				}
				params.Status = s
			}
			if category != "" {
				params.Category = category
			}
			params.Search = search

			tasks := a.tracker.Visible(params)
			if jsonOutput {
				return writeJSON(a.stdout, tasks)
			}
			return a.renderList(tasks)
		},
	}
	cmd.Flags().StringVarP(&status, "status", "s", "", "Status filter (all, pending, completed, today, overdue)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category filter, or \"all\"")
	cmd.Flags().StringVarP(&search, "search", "q", "", "Only tasks whose text or notes contain this")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func (a *app) newEditCmd() *cobra.Command {
	var text, due, category string
	var noDue bool
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a task's text, due date or category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			patch := task.Patch{Text: cur.Text, DueDate: cur.DueDate, Category: cur.Category}
			if cmd.Flags().Changed("text") {
				patch.Text = text
			}
			if cmd.Flags().Changed("category") {
				patch.Category = category
			}
			switch {
			case noDue:
				patch.DueDate = nil
			case cmd.Flags().Changed("due"):
				if patch.DueDate, err = parseDue(due); err != nil {
					return err
				}
			}
			if err := a.persisted(a.tracker.Update(cmd.Context(), cur.ID, patch)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Updated #%d\n", cur.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&text, "text", "", "New task text")
	cmd.Flags().StringVar(&due, "due", "", "New due date in YYYY-MM-DD format")
	cmd.Flags().BoolVar(&noDue, "no-due", false, "Remove the due date")
	cmd.Flags().StringVarP(&category, "category", "c", "", "New category")
	cmd.MarkFlagsMutuallyExclusive("due", "no-due")
	return cmd
}

func (a *app) newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between pending and done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			if err := a.persisted(a.tracker.Toggle(cmd.Context(), cur.ID)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "#%d is now %s\n", cur.ID, doneLabel(!cur.Completed))
			return nil
		},
	}
}

func (a *app) newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete tasks",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			n, err := a.tracker.RemoveMany(cmd.Context(), ids)
			if err := a.persisted(err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Removed %d tasks\n", n)
			return nil
		},
	}
}

func (a *app) newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note ID TEXT...",
		Short: "Set a task's notes (no text clears them)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cur, err := a.lookup(args[0])
			if err != nil {
				return err
			}
			notes := strings.Join(args[1:], " ")
			if err := a.persisted(a.tracker.SetNotes(cmd.Context(), cur.ID, notes)); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Notes saved for #%d\n", cur.ID)
			return nil
		},
	}
}

func (a *app) newClearCompletedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear-completed",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.tracker.ClearCompleted(cmd.Context())
			if err := a.persisted(err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Cleared %d completed tasks\n", n)
			return nil
		},
	}
}

func (a *app) newCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete ID...",
		Short: "Mark several tasks done",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			n, err := a.tracker.CompleteMany(cmd.Context(), ids)
			if err := a.persisted(err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Completed %d tasks\n", n)
			return nil
		},
	}
}

func (a *app) newCalendarCmd() *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Show a month with the tasks due on each day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			today := a.tracker.Today()
			year, mon := today.Year, today.Month
			if month != "" {
				t, err := time.Parse("2006-01", month)
				if err != nil {
					return fmt.Errorf("invalid month %q: want YYYY-MM", month)
				}
				year, mon = t.Year(), t.Month()
			}
			return a.renderCalendar(year, mon)
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "Month to show as YYYY-MM (default: current month)")
	return cmd
}

func (a *app) newStatsCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion analytics and the current streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			an := a.tracker.Analytics()
			if jsonOutput {
				return writeJSON(a.stdout, an)
			}
			return a.renderStats(an)
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [FILE]",
		Short: "Write a JSON backup (\"-\" for stdout)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			if path == "-" {
				return a.tracker.Export(a.stdout)
			}
			written, err := a.tracker.ExportFile(path)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Exported %d tasks to %s\n", len(a.tracker.Tasks()), written)
			return nil
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Replace all tasks with the contents of a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := a.tracker.ImportFile(cmd.Context(), args[0])
			if err := a.persisted(err); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.stdout, "Imported %d tasks\n", n)
			return nil
		},
	}
}

func (a *app) newThemeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the UI theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := a.store.SetDarkMode(args[0] == "dark"); err != nil {
					return err
				}
			}
			dark, err := a.store.DarkMode()
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(a.stdout, themeName(dark))
			return nil
		},
	}
}

func (a *app) lookup(arg string) (task.Task, error) {
	id, err := parseID(arg)
	if err != nil {
		return task.Task{}, err
	}
	t, ok := a.tracker.Get(id)
	if !ok {
		return task.Task{}, fmt.Errorf("%w: #%d", errNotFound, id)
	}
	return t, nil
}

func parseID(v string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(v, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", v)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseDue(v string) (*task.Date, error) {
	if strings.TrimSpace(v) == "" {
		return nil, nil
	}
	d, err := task.ParseDate(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func doneLabel(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
