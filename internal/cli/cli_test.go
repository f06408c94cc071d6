package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/clock"
	"todocal/internal/stats"
	"todocal/internal/task"
)

type env struct {
	t      *testing.T
	dir    string
	config string
	clock  *clock.Fake
}

func newEnv(t *testing.T, extra string) *env {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("db_path = \"todo.db\"\n"+extra), 0o644))
	return &env{
		t:      t,
		dir:    dir,
		config: path,
		clock:  clock.NewFake(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)),
	}
}

func (e *env) run(args ...string) (string, string, int) {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(context.Background(), append([]string{"--config", e.config}, args...), &stdout, &stderr, e.clock)
	return stdout.String(), stderr.String(), code
}

func (e *env) mustRun(args ...string) string {
	e.t.Helper()
	out, errOut, code := e.run(args...)
	require.Equal(e.t, 0, code, errOut)
	return out
}

func (e *env) listJSON(args ...string) []task.Task {
	e.t.Helper()
	var tasks []task.Task
	out := e.mustRun(append([]string{"list", "--json"}, args...)...)
	require.NoError(e.t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func TestCLI_AddAndList(t *testing.T) {
	e := newEnv(t, "")

	assert.Equal(t, "Added #1 Buy milk\n", e.mustRun("add", "Buy", "milk", "--due", "2026-10-18"))
	assert.Equal(t, "Added #2 Write report\n", e.mustRun("add", "Write report", "-c", "work"))

	out := e.mustRun("list")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "2026-10-18!")
	assert.Contains(t, out, "work")

	tasks := e.listJSON()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Write report", tasks[0].Text)
	assert.Equal(t, "personal", tasks[1].Category)

	assert.Equal(t, []string{"Buy milk"}, textsOf(e.listJSON("--status", "overdue")))
	assert.Equal(t, []string{"Write report"}, textsOf(e.listJSON("--category", "work")))
	assert.Equal(t, []string{"Buy milk"}, textsOf(e.listJSON("--search", "MILK")))
}

func TestCLI_AddUsesDefaultCategory(t *testing.T) {
	e := newEnv(t, "default_category = \"home\"\n")

	e.mustRun("add", "Fix sink")
	assert.Equal(t, "home", e.listJSON()[0].Category)
}

func TestCLI_Rejects(t *testing.T) {
	e := newEnv(t, "")

	_, errOut, code := e.run("add", "   ")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, task.ErrEmptyText.Error())

	_, errOut, code = e.run("add", "x", "--due", "tomorrow")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid date")

	_, errOut, code = e.run("list", "--status", "someday")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "unknown status")

	_, errOut, code = e.run("toggle", "42")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "no such task: #42")

	_, errOut, code = e.run("rm", "abc")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid task id")
}

func TestCLI_EditToggleNote(t *testing.T) {
	e := newEnv(t, "")
	e.mustRun("add", "draft", "--due", "2026-10-25")

	e.mustRun("edit", "1", "--text", "final", "--category", "work")
	got := e.listJSON()[0]
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, "work", got.Category)
	require.NotNil(t, got.DueDate)

	e.mustRun("edit", "#1", "--no-due")
	assert.Nil(t, e.listJSON()[0].DueDate)

	assert.Equal(t, "#1 is now done\n", e.mustRun("toggle", "1"))
	assert.True(t, e.listJSON()[0].Completed)

	e.mustRun("note", "1", "call", "Sam", "first")
	assert.Equal(t, "call Sam first", e.listJSON()[0].Notes)
}

func TestCLI_BulkCommands(t *testing.T) {
	e := newEnv(t, "")
	for _, text := range []string{"a", "b", "c", "d"} {
		e.mustRun("add", text)
	}

	assert.Equal(t, "Completed 2 tasks\n", e.mustRun("complete", "1", "3", "99"))
	assert.Equal(t, "Cleared 2 completed tasks\n", e.mustRun("clear-completed"))
	assert.Equal(t, []string{"d", "b"}, textsOf(e.listJSON()))

	assert.Equal(t, "Removed 1 tasks\n", e.mustRun("rm", "2", "7"))
	assert.Equal(t, "Added #5 e\n", e.mustRun("add", "e"))
}

func TestCLI_Calendar(t *testing.T) {
	e := newEnv(t, "")
	e.mustRun("add", "dentist", "--due", "2026-10-21")
	e.mustRun("add", "standup", "--due", "2026-10-21")

	out := e.mustRun("calendar")
	assert.Contains(t, out, "October 2026")
	assert.Contains(t, out, ">19")
	assert.Contains(t, out, "21(2)")
	assert.Contains(t, out, "2026-10-21 [ ] #1 dentist")

	out = e.mustRun("calendar", "--month", "2026-11")
	assert.Contains(t, out, "November 2026")
	assert.NotContains(t, out, "dentist")

	_, _, code := e.run("calendar", "--month", "Nov")
	assert.Equal(t, 1, code)
}

func TestCLI_Stats(t *testing.T) {
	e := newEnv(t, "")
	e.mustRun("add", "today", "--due", "2026-10-19")
	e.mustRun("add", "later")
	e.mustRun("toggle", "1")

	var an stats.Analytics
	require.NoError(t, json.Unmarshal([]byte(e.mustRun("stats", "--json")), &an))
	assert.Equal(t, 2, an.Total)
	assert.Equal(t, 50, an.CompletionRate)
	assert.Equal(t, 1, an.Streak)

	out := e.mustRun("stats")
	assert.Contains(t, out, "Completion rate : 50%")
	assert.Contains(t, out, "Streak          : 1 day")
}

func TestCLI_ExportImport(t *testing.T) {
	src := newEnv(t, "")
	src.mustRun("add", "keep me", "--due", "2026-11-02")
	src.mustRun("note", "1", "with notes")

	backup := filepath.Join(src.dir, "backup.json")
	assert.Contains(t, src.mustRun("export", backup), "Exported 1 tasks")

	var doc task.ExportDocument
	require.NoError(t, json.Unmarshal([]byte(src.mustRun("export", "-")), &doc))
	assert.Equal(t, task.FormatVersion, doc.Version)

	dst := newEnv(t, "")
	dst.mustRun("add", "replaced")
	assert.Equal(t, "Imported 1 tasks\n", dst.mustRun("import", backup))
	assert.Equal(t, src.listJSON(), dst.listJSON())

	bad := filepath.Join(dst.dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version": "1.0"}`), 0o644))
	_, errOut, code := dst.run("import", bad)
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid import")
	assert.Len(t, dst.listJSON(), 1)
}

func TestCLI_Theme(t *testing.T) {
	e := newEnv(t, "")

	assert.Equal(t, "light\n", e.mustRun("theme"))
	assert.Equal(t, "dark\n", e.mustRun("theme", "dark"))
	assert.Equal(t, "dark\n", e.mustRun("theme"))

	_, _, code := e.run("theme", "blue")
	assert.Equal(t, 1, code)
}

func TestCLI_WritesMetricsFile(t *testing.T) {
	e := newEnv(t, "metrics_file = \"metrics.prom\"\n")
	e.mustRun("add", "measured")

	data, err := os.ReadFile(filepath.Join(e.dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `todocal_operations_total{op="add",status="success"} 1`)
	assert.Contains(t, string(data), "todocal_tasks 1")
}

func TestCLI_BadConfig(t *testing.T) {
	e := newEnv(t, "default_filter = \"someday\"\n")

	_, errOut, code := e.run("list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "load config")
}

func textsOf(tasks []task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Text
	}
	return out
}

func TestCLI_LogLevel(t *testing.T) {
	payload := `[{"id": 1, "text": "restored", "completed": false}]`

	e := newEnv(t, "")
	backup := filepath.Join(e.dir, "in.json")
	require.NoError(t, os.WriteFile(backup, []byte(payload), 0o644))
	_, errOut, code := e.run("import", backup)
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "[INFO] tasks imported")

	quiet := newEnv(t, "log_level = \"warn\"\n")
	_, errOut, code = quiet.run("import", backup)
	require.Equal(t, 0, code)
	assert.NotContains(t, errOut, "[INFO]")

	_, errOut, code = quiet.run("--verbose", "add", "loud")
	require.Equal(t, 0, code)
	assert.Contains(t, errOut, "[DEBUG] task added")
}

func TestShutdownSignals(t *testing.T) {
	assert.Contains(t, ShutdownSignals, os.Interrupt)
	assert.Contains(t, ShutdownSignals, syscall.SIGTERM)
}
