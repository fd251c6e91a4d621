package tasks

import (
	"fmt"
	"strings"
	"time"
)

// Status is the progress category of a task
type Status string

// Recognized task statuses
const (
	StatusTodo       Status = "to-do"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// FilterAll is the filter sentinel matching every status
const FilterAll = "all"

// Statuses lists the recognized statuses in display order
var Statuses = []Status{
	StatusTodo,
	StatusInProgress,
	StatusDone,
	StatusBlocked,
}

var statusColors = map[Status]string{
	StatusTodo:       "blue",
	StatusInProgress: "orange",
	StatusDone:       "green",
	StatusBlocked:    "red",
}

// ParseStatus converts user input into a Status. Empty input means to-do.
func ParseStatus(s string) (Status, error) {
	if s == "" {
		return StatusTodo, nil
	}
	status := Status(s)
	if !status.Valid() {
		return "", NewValidationError(fmt.Sprintf("unknown status %q", s))
	}
	return status, nil
}

// Valid reports whether s is one of the recognized statuses
func (s Status) Valid() bool {
	_, ok := statusColors[s]
	return ok
}

// Color returns the display color bound to the status, or "" when unknown
func (s Status) Color() string {
	return statusColors[s]
}

// String returns the status string
func (s Status) String() string {
	return string(s)
}

// Task is a single to-do item
type Task struct {
	ID          string
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
}

// Color is derived from the status so the two can never disagree
func (t Task) Color() string {
	return t.Status.Color()
}

// Fields holds the mutable fields of a task
type Fields struct {
	Title       string
	Description string
	Status      string
}

// validate normalizes and checks user supplied fields
func (f Fields) validate() (title string, status Status, err error) {
	title = strings.TrimSpace(f.Title)
	if title == "" {
		return "", "", NewValidationError("title is required")
	}
	status, err = ParseStatus(f.Status)
	if err != nil {
		return "", "", err
	}
	return title, status, nil
}

// record is the persisted form of a task
type record struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	Color       string `json:"color"`
}

func newRecord(t Task) record {
	return record{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339Nano),
		Color:       t.Color(),
	}
}

// loadTask rebuilds a task from its persisted form, running the same
// validation as creation. The stored color is ignored.
func loadTask(r record) (Task, error) {
	if strings.TrimSpace(r.ID) == "" {
		return Task{}, NewValidationError("id is required")
	}
	// An absent status is corrupt data here, not a request for the default.
	if r.Status == "" {
		return Task{}, NewValidationError("status is required")
	}
	title, status, err := Fields{Title: r.Title, Status: r.Status}.validate()
	if err != nil {
		return Task{}, err
	}
	createdAt, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return Task{}, NewValidationError(fmt.Sprintf("invalid createdAt %q", r.CreatedAt))
	}
	return Task{
		ID:          r.ID,
		Title:       title,
		Description: r.Description,
		Status:      status,
		CreatedAt:   createdAt,
	}, nil
}
