// Package tracker is the application service the TUI and CLI talk to. It owns
// the task store and the bulk selection, persists after every mutation and
// records metrics. Reads go through the pure query, calendar and stats
// packages.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"todocal/internal/calendar"
	"todocal/internal/clock"
	"todocal/internal/logger"
	"todocal/internal/metrics"
	"todocal/internal/query"
	"todocal/internal/selection"
	"todocal/internal/stats"
	"todocal/internal/task"
)

// ErrPersist marks a mutation that was applied in memory but could not be
// written to disk. The in-memory state is kept.
var ErrPersist = errors.New("changes not saved")

type Persister interface {
	LoadTasks() ([]task.Task, error)
	SaveTasks(tasks []task.Task) error
}

type Tracker struct {
	store   *task.Store
	sel     *selection.Set
	persist Persister
	clock   clock.Clock
	metrics *metrics.Metrics
}

func New(p Persister, c clock.Clock, m *metrics.Metrics) (*Tracker, error) {
	t := &Tracker{
		store:   task.NewStore(c),
		sel:     selection.New(),
		persist: p,
		clock:   c,
		metrics: m,
	}
	saved, err := p.LoadTasks()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	if err := t.store.ReplaceAll(saved); err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	m.Tasks.Set(float64(t.store.Len()))
	return t, nil
}

func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

func (t *Tracker) Today() task.Date {
	return task.DateOf(t.clock.Now())
}

func (t *Tracker) Tasks() []task.Task {
	return t.store.Snapshot()
}

func (t *Tracker) Get(id int64) (task.Task, bool) {
	return t.store.Get(id)
}

func (t *Tracker) Selection() *selection.Set {
	return t.sel
}

func (t *Tracker) Visible(p query.Params) []task.Task {
	return query.Filter(t.store.Snapshot(), p, t.Today())
}

func (t *Tracker) Calendar(year int, month time.Month) [calendar.GridSize]calendar.Cell {
	return calendar.Project(t.store.Snapshot(), year, month, t.Today())
}

func (t *Tracker) Streak() int {
	return stats.Streak(t.store.Snapshot(), t.Today())
}

func (t *Tracker) Analytics() stats.Analytics {
	return stats.Compute(t.store.Snapshot(), t.clock.Now())
}

func (t *Tracker) Add(ctx context.Context, d task.Draft) (task.Task, error) {
	added, err := t.store.Add(d)
	if err != nil {
		t.metrics.Observe("add", metrics.StatusError)
		return task.Task{}, err
	}
	t.metrics.Observe("add", metrics.StatusSuccess)
	t.metrics.TextLength.Observe(float64(len(added.Text)))
	logger.Debug(ctx, "task added", "id", added.ID, "category", added.Category)
	return added, t.save(ctx, "add")
}

func (t *Tracker) Update(ctx context.Context, id int64, p task.Patch) error {
	if _, ok := t.store.Get(id); !ok {
		t.metrics.Observe("update", metrics.StatusNoop)
		return nil
	}
	if err := t.store.Update(id, p); err != nil {
		t.metrics.Observe("update", metrics.StatusError)
		return err
	}
	t.metrics.Observe("update", metrics.StatusSuccess)
	return t.save(ctx, "update")
}

func (t *Tracker) Toggle(ctx context.Context, id int64) error {
	if !t.store.ToggleCompleted(id) {
		t.metrics.Observe("toggle", metrics.StatusNoop)
		return nil
	}
	t.metrics.Observe("toggle", metrics.StatusSuccess)
	return t.save(ctx, "toggle")
}

func (t *Tracker) SetNotes(ctx context.Context, id int64, notes string) error {
	if !t.store.SetNotes(id, notes) {
		t.metrics.Observe("notes", metrics.StatusNoop)
		return nil
	}
	t.metrics.Observe("notes", metrics.StatusSuccess)
	return t.save(ctx, "notes")
}

func (t *Tracker) Remove(ctx context.Context, id int64) error {
	_, err := t.RemoveMany(ctx, []int64{id})
	return err
}

func (t *Tracker) RemoveMany(ctx context.Context, ids []int64) (int, error) {
	n := t.store.RemoveMany(ids)
	if n == 0 {
		t.metrics.Observe("remove", metrics.StatusNoop)
		return 0, nil
	}
	for _, id := range ids {
		t.sel.Remove(id)
	}
	t.metrics.Observe("remove", metrics.StatusSuccess)
	return n, t.save(ctx, "remove")
}

func (t *Tracker) CompleteMany(ctx context.Context, ids []int64) (int, error) {
	n := t.store.CompleteMany(ids)
	if n == 0 {
		t.metrics.Observe("complete", metrics.StatusNoop)
		return 0, nil
	}
	t.metrics.Observe("complete", metrics.StatusSuccess)
	return n, t.save(ctx, "complete")
}

// BulkComplete completes every selected task still present and clears the selection.
func (t *Tracker) BulkComplete(ctx context.Context) (int, error) {
	ids := t.sel.IDs()
	t.sel.Clear()
	return t.CompleteMany(ctx, ids)
}

// BulkDelete removes every selected task still present and clears the selection.
func (t *Tracker) BulkDelete(ctx context.Context) (int, error) {
	ids := t.sel.IDs()
	t.sel.Clear()
	return t.RemoveMany(ctx, ids)
}

func (t *Tracker) ClearCompleted(ctx context.Context) (int, error) {
	n := t.store.RemoveCompleted()
	if n == 0 {
		t.metrics.Observe("clear_completed", metrics.StatusNoop)
		return 0, nil
	}
	t.sel.Retain(func(id int64) bool {
		_, ok := t.store.Get(id)
		return ok
	})
	t.metrics.Observe("clear_completed", metrics.StatusSuccess)
	return n, t.save(ctx, "clear_completed")
}

// Import replaces the whole collection in one step. On error nothing changes.
func (t *Tracker) Import(ctx context.Context, tasks []task.Task) error {
	if err := t.store.ReplaceAll(tasks); err != nil {
		t.metrics.Observe("import", metrics.StatusError)
		return err
	}
	t.sel.Clear()
	t.metrics.Observe("import", metrics.StatusSuccess)
	logger.Info(ctx, "tasks imported", "count", len(tasks))
	return t.save(ctx, "import")
}

func (t *Tracker) ImportFile(ctx context.Context, path string) (int, error) {
	tasks, err := t.ReadImport(path)
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return len(tasks), t.Import(ctx, tasks)
}

// ReadImport reads and decodes an import file without touching the store, so
// the caller can confirm before calling Import. It only records metrics and is
// safe to call off the UI goroutine.
func (t *Tracker) ReadImport(path string) ([]task.Task, error) {
	start := time.Now()
	defer func() {
		t.metrics.ImportDuration.Observe(time.Since(start).Seconds())
	}()

	f, err := os.Open(path)
	if err != nil {
		t.metrics.Observe("import", metrics.StatusError)
		return nil, err
	}
	defer f.Close()
	tasks, err := task.DecodeReader(f)
	if err != nil {
		t.metrics.Observe("import", metrics.StatusError)
		return nil, err
	}
	return tasks, nil
}

func (t *Tracker) Export(w io.Writer) error {
	return task.Export(w, t.store.Snapshot(), t.clock.Now())
}

// ExportFile writes a backup to path, or to the dated default file name in
// the working directory when path is empty. It returns the path written.
func (t *Tracker) ExportFile(path string) (string, error) {
	if path == "" {
		path = task.ExportFileName(t.clock.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := t.Export(f); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

func (t *Tracker) save(ctx context.Context, op string) error {
	t.metrics.Tasks.Set(float64(t.store.Len()))
	if err := t.persist.SaveTasks(t.store.Snapshot()); err != nil {
		t.metrics.SaveFailures.Inc()
		logger.Warn(ctx, "save failed, keeping in-memory state", "op", op, "err", err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
