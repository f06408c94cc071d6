package task

import (
	"fmt"
	"strings"
	"time"
)

type Clock interface {
	Now() time.Time
}

// Store is the ordered, in-memory task collection. Index 0 is the head
// (most recently added). It is not safe for concurrent use.
type Store struct {
	tasks  []Task
	lastID int64
	clock  Clock
}

func NewStore(c Clock) *Store {
	return &Store{clock: c}
}

func (s *Store) Len() int {
	return len(s.tasks)
}

func (s *Store) Get(id int64) (Task, bool) {
	i := s.index(id)
	if i < 0 {
		return Task{}, false
	}
	return s.tasks[i].clone(), true
}

// Snapshot returns a copy of the collection in store order.
func (s *Store) Snapshot() []Task {
	out := make([]Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.clone()
	}
	return out
}

func (s *Store) Add(d Draft) (Task, error) {
	text := strings.TrimSpace(d.Text)
	if text == "" {
		return Task{}, ErrEmptyText
	}
	s.lastID = s.nextID()
	t := Task{
		ID:        s.lastID,
		Text:      text,
		DueDate:   cloneDate(d.DueDate),
		Category:  NormalizeCategory(d.Category),
		CreatedAt: s.clock.Now().UTC(),
	}
	s.tasks = append([]Task{t}, s.tasks...)
	return t.clone(), nil
}

// nextID is strictly above every id the store has ever held, so ids are not
// reused after deletion.
func (s *Store) nextID() int64 {
	return s.lastID + 1
}

// Update is a no-op when id is unknown.
func (s *Store) Update(id int64, p Patch) error {
	text := strings.TrimSpace(p.Text)
	if text == "" {
		return ErrEmptyText
	}
	i := s.index(id)
	if i < 0 {
		return nil
	}
	s.tasks[i].Text = text
	s.tasks[i].DueDate = cloneDate(p.DueDate)
	s.tasks[i].Category = NormalizeCategory(p.Category)
	return nil
}

func (s *Store) Remove(id int64) bool {
	return s.RemoveMany([]int64{id}) == 1
}

func (s *Store) RemoveMany(ids []int64) int {
	drop := idSet(ids)
	return s.removeWhere(func(t Task) bool {
		_, ok := drop[t.ID]
		return ok
	})
}

func (s *Store) RemoveCompleted() int {
	return s.removeWhere(func(t Task) bool { return t.Completed })
}

func (s *Store) ToggleCompleted(id int64) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Completed = !s.tasks[i].Completed
	return true
}

// CompleteMany marks every present id as completed and returns how many were found.
func (s *Store) CompleteMany(ids []int64) int {
	want := idSet(ids)
	n := 0
	for i := range s.tasks {
		if _, ok := want[s.tasks[i].ID]; ok {
			s.tasks[i].Completed = true
			n++
		}
	}
	return n
}

func (s *Store) SetNotes(id int64, notes string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.tasks[i].Notes = strings.TrimSpace(notes)
	return true
}

// ReplaceAll swaps the whole collection. On error the store is unchanged.
func (s *Store) ReplaceAll(tasks []Task) error {
	seen := make(map[int64]struct{}, len(tasks))
	next := make([]Task, len(tasks))
	maxID := s.lastID
	for i, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
		next[i] = t.clone()
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	s.tasks = next
	s.lastID = maxID
	return nil
}

func (s *Store) index(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeWhere(match func(Task) bool) int {
	kept := s.tasks[:0]
	removed := 0
	for _, t := range s.tasks {
		if match(t) {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	clear(s.tasks[len(kept):])
	s.tasks = kept
	return removed
}

func idSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
