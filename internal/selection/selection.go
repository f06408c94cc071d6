package selection

import "todocal/internal/task"

// Set is an insertion-ordered set of task ids chosen for bulk operations.
// Membership does not depend on what the current filter shows.
type Set struct {
	ids   []int64
	index map[int64]struct{}
}

func New() *Set {
	return &Set{index: make(map[int64]struct{})}
}

func (s *Set) Has(id int64) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Set) Len() int {
	return len(s.ids)
}

func (s *Set) Add(id int64) {
	if s.Has(id) {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Set) Remove(id int64) {
	if !s.Has(id) {
		return
	}
	delete(s.index, id)
	for i, v := range s.ids {
		if v == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

// Toggle flips membership and reports whether id is now selected.
func (s *Set) Toggle(id int64) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// ToggleAll clears the set when every visible task is already selected,
// otherwise it adds every visible task.
func (s *Set) ToggleAll(visible []task.Task) {
	if len(visible) > 0 && s.containsAll(visible) {
		s.Clear()
		return
	}
	for _, t := range visible {
		s.Add(t.ID)
	}
}

// Retain drops ids for which present reports false.
func (s *Set) Retain(present func(id int64) bool) {
	for _, id := range s.IDs() {
		if !present(id) {
			s.Remove(id)
		}
	}
}

func (s *Set) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Set) Clear() {
	s.ids = nil
	clear(s.index)
}

func (s *Set) containsAll(tasks []task.Task) bool {
	for _, t := range tasks {
		if !s.Has(t.ID) {
			return false
		}
	}
	return true
}
