// Package tasks owns the task collection and its persisted slot.
package tasks

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSlotKey is the slot the collection is stored under
const DefaultSlotKey = "tasks"

// Slot is a single named value in a key/value storage facility
type Slot interface {
	// Load returns the stored value and whether the key exists
	Load(key string) (string, bool, error)
	// Save replaces the stored value
	Save(key, value string) error
}

// Store holds the authoritative task list and mirrors it to a slot after
// every mutation. It is not safe for concurrent use.
type Store struct {
	slot  Slot
	key   string
	tasks []Task

	now   func() time.Time
	newID func() string
}

// NewStore creates a store over slot and restores the list saved under key.
// An empty key selects DefaultSlotKey.
func NewStore(slot Slot, key string) (*Store, error) {
	if key == "" {
		key = DefaultSlotKey
	}
	s := &Store{
		slot:  slot,
		key:   key,
		now:   time.Now,
		newID: uuid.NewString,
	}
	if err := s.Restore(); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the slot key the store persists to
func (s *Store) Key() string {
	return s.key
}

// Create validates the input, appends a new task and persists the list
func (s *Store) Create(title, description, status string) (Task, error) {
	cleanTitle, st, err := Fields{Title: title, Status: status}.validate()
	if err != nil {
		return Task{}, err
	}

	task := Task{
		ID:          s.newID(),
		Title:       cleanTitle,
		Description: description,
		Status:      st,
		CreatedAt:   s.now().UTC().Round(0),
	}

	next := append(s.Tasks(), task)
	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return task, nil
}

// Remove drops the task with the given id. Unknown ids are ignored; the list
// is persisted either way.
func (s *Store) Remove(id string) error {
	next := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	return s.commit(next)
}

// Update overwrites the mutable fields of the task with the given id
func (s *Store) Update(id string, fields Fields) (Task, error) {
	title, status, err := fields.validate()
	if err != nil {
		return Task{}, err
	}

	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, fmt.Errorf("updating %s: %w", id, ErrTaskNotFound)
	}

	next := s.Tasks()
	next[idx].Title = title
	next[idx].Description = fields.Description
	next[idx].Status = status

	if err := s.commit(next); err != nil {
		return Task{}, err
	}
	return next[idx], nil
}

// FilterByStatus returns the tasks with the given status, or every task for
// FilterAll
func (s *Store) FilterByStatus(status string) []Task {
	if status == FilterAll {
		return s.Tasks()
	}
	matches := []Task{}
	for _, t := range s.tasks {
		if string(t.Status) == status {
			matches = append(matches, t)
		}
	}
	return matches
}

// SearchByText returns the tasks whose title or description contains query,
// ignoring case
func (s *Store) SearchByText(query string) []Task {
	q := strings.ToLower(query)
	matches := []Task{}
	for _, t := range s.tasks {
		if strings.Contains(strings.ToLower(t.Title), q) ||
			strings.Contains(strings.ToLower(t.Description), q) {
			matches = append(matches, t)
		}
	}
	return matches
}

// Tasks returns a copy of the whole collection in insertion order
func (s *Store) Tasks() []Task {
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Get returns the task with the given id
func (s *Store) Get(id string) (Task, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return s.tasks[idx], true
}

// Len returns the number of tasks
func (s *Store) Len() int {
	return len(s.tasks)
}

// Persist writes the whole collection to the slot
func (s *Store) Persist() error {
	return s.write(s.tasks)
}

// Restore replaces the collection with the one stored in the slot. Every
// record is validated; the first bad one aborts the restore and leaves the
// current collection untouched.
func (s *Store) Restore() error {
	raw, ok, err := s.slot.Load(s.key)
	if err != nil {
		return fmt.Errorf("reading slot %q: %w", s.key, err)
	}
	if !ok {
		s.tasks = nil
		return nil
	}

	var records []record
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return fmt.Errorf("decoding slot %q: %w", s.key, err)
	}

	restored := make([]Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		t, err := loadTask(r)
		if err != nil {
			return fmt.Errorf("restoring task %d: %w", i, err)
		}
		if seen[t.ID] {
			return fmt.Errorf("restoring task %d: %w", i,
				NewValidationError(fmt.Sprintf("duplicate id %s", t.ID)))
		}
		seen[t.ID] = true
		restored = append(restored, t)
	}

	s.tasks = restored
	return nil
}

// commit persists next and only then makes it the live collection, so a
// failed write leaves memory matching the slot
func (s *Store) commit(next []Task) error {
	if err := s.write(next); err != nil {
		return err
	}
	s.tasks = next
	return nil
}

func (s *Store) write(list []Task) error {
	records := make([]record, len(list))
	for i, t := range list {
		records[i] = newRecord(t)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.slot.Save(s.key, string(data)); err != nil {
		return fmt.Errorf("persisting tasks: %w", err)
	}
	return nil
}

func (s *Store) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
