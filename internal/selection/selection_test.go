package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"todocal/internal/task"
)

func tasks(ids ...int64) []task.Task {
	out := make([]task.Task, len(ids))
	for i, id := range ids {
		out[i] = task.Task{ID: id, Text: "t"}
	}
	return out
}

func TestSet_ToggleAndOrder(t *testing.T) {
	s := New()

	assert.True(t, s.Toggle(3))
	assert.True(t, s.Toggle(1))
	s.Add(3)
	assert.True(t, s.Toggle(2))
	assert.Equal(t, []int64{3, 1, 2}, s.IDs())

	assert.False(t, s.Toggle(1))
	assert.False(t, s.Has(1))
	assert.Equal(t, []int64{3, 2}, s.IDs())
	assert.Equal(t, 2, s.Len())

	s.Remove(99)
	assert.Equal(t, 2, s.Len())
}

func TestSet_ToggleAll(t *testing.T) {
	s := New()
	visible := tasks(5, 4, 3)

	s.Add(4)
	s.ToggleAll(visible)
	assert.Equal(t, []int64{4, 5, 3}, s.IDs())

	s.ToggleAll(visible)
	assert.Equal(t, 0, s.Len())

	s.ToggleAll(nil)
	assert.Equal(t, 0, s.Len())
}

func TestSet_ToggleAllWithHiddenSelections(t *testing.T) {
	s := New()
	s.Add(9)

	s.ToggleAll(tasks(1, 2))
	assert.Equal(t, []int64{9, 1, 2}, s.IDs())

	s.ToggleAll(tasks(1, 2))
	assert.Equal(t, 0, s.Len())
}

func TestSet_Retain(t *testing.T) {
	s := New()
	for _, id := range []int64{1, 2, 3, 4} {
		s.Add(id)
	}
	s.Retain(func(id int64) bool { return id%2 == 0 })
	assert.Equal(t, []int64{2, 4}, s.IDs())
}

func TestSet_IDsIsACopy(t *testing.T) {
	s := New()
	s.Add(1)
	ids := s.IDs()
	ids[0] = 42
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(42))
}
