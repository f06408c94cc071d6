package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todocal/internal/task"
)

var today = task.NewDate(2026, 10, 19)

func due(d task.Date) *task.Date { return &d }

func fixture() []task.Task {
	return []task.Task{
		{ID: 6, Text: "Dentist", Category: "health", DueDate: due(today)},
		{ID: 5, Text: "Buy GROCERIES", Category: "shopping", Notes: "milk, eggs"},
		{ID: 4, Text: "Quarterly report", Category: "work", DueDate: due(today.AddDays(-1))},
		{ID: 3, Text: "Gym", Category: "health", Completed: true, DueDate: due(today.AddDays(-2))},
		{ID: 2, Text: "Call plumber", Category: "personal", Notes: "Leaky tap", DueDate: due(today.AddDays(3))},
		{ID: 1, Text: "Renew passport", Category: "personal", Completed: true},
	}
}

func ids(tasks []task.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestFilter_Status(t *testing.T) {
	tests := []struct {
		status Status
		want   []int64
	}{
		{StatusAll, []int64{6, 5, 4, 3, 2, 1}},
		{StatusCompleted, []int64{3, 1}},
		{StatusPending, []int64{6, 5, 4, 2}},
		{StatusToday, []int64{6}},
		{StatusOverdue, []int64{4}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			got := Filter(fixture(), Params{Status: tt.status, Category: AllCategories}, today)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilter_SearchIsCaseInsensitiveOverTextAndNotes(t *testing.T) {
	got := Filter(fixture(), Params{Status: StatusAll, Search: "  Groceries "}, today)
	assert.Equal(t, []int64{5}, ids(got))

	got = Filter(fixture(), Params{Status: StatusAll, Search: "TAP"}, today)
	assert.Equal(t, []int64{2}, ids(got))

	got = Filter(fixture(), Params{Status: StatusAll, Search: "zzz"}, today)
	assert.Empty(t, got)
}

func TestFilter_StagesCombine(t *testing.T) {
	got := Filter(fixture(), Params{Status: StatusPending, Category: "health"}, today)
	assert.Equal(t, []int64{6}, ids(got))

	got = Filter(fixture(), Params{Status: StatusCompleted, Category: "personal", Search: "pass"}, today)
	assert.Equal(t, []int64{1}, ids(got))

	got = Filter(fixture(), Params{Status: StatusAll, Category: "work"}, today)
	assert.Equal(t, []int64{4}, ids(got))
}

func TestFilter_DueTodayIsNeverOverdue(t *testing.T) {
	tasks := []task.Task{{ID: 1, Text: "due now", DueDate: due(today)}}
	assert.Empty(t, Filter(tasks, Params{Status: StatusOverdue}, today))
	assert.Len(t, Filter(tasks, Params{Status: StatusToday}, today), 1)
}

func TestFilter_NoDueDate(t *testing.T) {
	tasks := []task.Task{{ID: 1, Text: "someday"}}
	assert.Empty(t, Filter(tasks, Params{Status: StatusToday}, today))
	assert.Empty(t, Filter(tasks, Params{Status: StatusOverdue}, today))
	assert.Len(t, Filter(tasks, Params{Status: StatusAll}, today), 1)
	assert.Len(t, Filter(tasks, Params{Status: StatusPending}, today), 1)
}

func TestFilter_CompletedAndPendingPartitionAll(t *testing.T) {
	tasks := fixture()
	for _, c := range []string{AllCategories, "health", "personal", "nope"} {
		all := Filter(tasks, Params{Status: StatusAll, Category: c}, today)
		done := Filter(tasks, Params{Status: StatusCompleted, Category: c}, today)
		pending := Filter(tasks, Params{Status: StatusPending, Category: c}, today)

		assert.Subset(t, ids(all), ids(done))
		assert.Len(t, all, len(done)+len(pending))
		for _, d := range done {
			assert.NotContains(t, ids(pending), d.ID)
		}
	}
}

func TestFilter_Idempotent(t *testing.T) {
	for _, s := range Statuses() {
		p := Params{Status: s, Category: "health", Search: "e"}
		once := Filter(fixture(), p, today)
		assert.Equal(t, once, Filter(once, p, today), "status %s", s)
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" Overdue ")
	require.NoError(t, err)
	assert.Equal(t, StatusOverdue, s)

	s, err = ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, StatusAll, s)

	_, err = ParseStatus("later")
	assert.ErrorIs(t, err, ErrUnknownStatus)
}

func TestStatus_Next(t *testing.T) {
	assert.Equal(t, StatusPending, StatusAll.Next())
	assert.Equal(t, StatusAll, StatusOverdue.Next())
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"health", "shopping", "work", "personal"}, Categories(fixture()))
}
