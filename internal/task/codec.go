package task

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"
)

const FormatVersion = "1.0"

// ExportDocument is the on-disk backup format.
type ExportDocument struct {
	Tasks      []Task    `json:"tasks"`
	ExportDate time.Time `json:"exportDate"`
	Version    string    `json:"version"`
}

func Export(w io.Writer, tasks []Task, now time.Time) error {
	if tasks == nil {
		tasks = []Task{}
	}
	doc := ExportDocument{
		Tasks:      tasks,
		ExportDate: now.UTC(),
		Version:    FormatVersion,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func ExportFileName(now time.Time) string {
	return fmt.Sprintf("todo-backup-%s.json", DateOf(now))
}

// Decode parses an import payload. Both the wrapped export document and a
// bare array of tasks are accepted.
func Decode(data []byte) ([]Task, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrInvalidImport)
	}

	var records []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
	case '{':
		var doc struct {
			Tasks json.RawMessage `json:"tasks"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
		tasks := bytes.TrimSpace(doc.Tasks)
		if len(tasks) == 0 || tasks[0] != '[' {
			return nil, fmt.Errorf("%w: missing tasks array", ErrInvalidImport)
		}
		if err := json.Unmarshal(tasks, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected an object or an array", ErrInvalidImport)
	}

	out := make([]Task, 0, len(records))
	seen := make(map[int64]struct{}, len(records))
	for i, raw := range records {
		t, err := decodeRecord(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidImport, i, err)
		}
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("%w: record %d: %w %d", ErrInvalidImport, i, ErrDuplicateID, t.ID)
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func DecodeReader(r io.Reader) ([]Task, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

type wireTask struct {
	ID        *int64  `json:"id"`
	Text      *string `json:"text"`
	Completed *bool   `json:"completed"`
	DueDate   *string `json:"dueDate"`
	Category  *string `json:"category"`
	Notes     *string `json:"notes"`
	CreatedAt *string `json:"createdAt"`
}

var errNotObject = errors.New("not an object")

func decodeRecord(raw json.RawMessage) (Task, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Task{}, errNotObject
	}
	var w wireTask
	if err := json.Unmarshal(raw, &w); err != nil {
		return Task{}, err
	}
	switch {
	case w.ID == nil:
		return Task{}, errors.New("missing id")
	case w.Text == nil:
		return Task{}, errors.New("missing text")
	case w.Completed == nil:
		return Task{}, errors.New("missing completed")
	}

	t := Task{
		ID:        *w.ID,
		Text:      *w.Text,
		Completed: *w.Completed,
		Category:  DefaultCategory,
	}
	if w.DueDate != nil && *w.DueDate != "" {
		d, err := ParseDate(*w.DueDate)
		if err != nil {
			return Task{}, fmt.Errorf("dueDate: %v", err)
		}
		t.DueDate = &d
	}
	if w.Category != nil {
		t.Category = NormalizeCategory(*w.Category)
	}
	if w.Notes != nil {
		t.Notes = *w.Notes
	}
	if w.CreatedAt != nil {
		created, err := time.Parse(time.RFC3339, *w.CreatedAt)
		if err != nil {
			return Task{}, fmt.Errorf("createdAt: %v", err)
		}
		t.CreatedAt = created.UTC()
	}
	return t, nil
}
