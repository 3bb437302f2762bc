package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Priority is how urgent a todo is.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Priorities lists every priority in rank order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Status is where a todo is in its lifecycle.
type Status string

const (
	StatusNotStarted Status = "Not Started"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists every status in rank order.
var Statuses = []Status{StatusNotStarted, StatusInProgress, StatusCompleted}

var (
	ErrInvalidPriority = errors.New("invalid priority")
	ErrInvalidStatus   = errors.New("invalid status")
)

// Todo is a task record as held by the view layer. Every field is populated;
// ID is assigned by the remote store and never changes.
type Todo struct {
	ID       string
	Title    string
	Priority Priority
	Deadline time.Time
	Status   Status
}

// Values returns the mutable part of the todo.
func (t Todo) Values() Values {
	return Values{
		Title:    t.Title,
		Priority: t.Priority,
		Deadline: t.Deadline,
		Status:   t.Status,
	}
}

// Values is a Todo without its ID: the body of a create or update.
type Values struct {
	Title    string    `json:"title" validate:"required,max=30"`
	Priority Priority  `json:"priority" validate:"required,priority"`
	Deadline time.Time `json:"deadline"`
	Status   Status    `json:"status" validate:"required,status"`
}

// Todo attaches an id to the values.
func (v Values) Todo(id string) Todo {
	return Todo{
		ID:       id,
		Title:    v.Title,
		Priority: v.Priority,
		Deadline: v.Deadline,
		Status:   v.Status,
	}
}

func (p Priority) Valid() bool {
	return p.Rank() >= 0
}

// Rank orders priorities Low < Medium < High. Unknown values rank -1.
func (p Priority) Rank() int {
	for i, v := range Priorities {
		if v == p {
			return i
		}
	}
	return -1
}

func (s Status) Valid() bool {
	return s.Rank() >= 0
}

// Rank orders statuses Not Started < In Progress < Completed.
func (s Status) Rank() int {
	for i, v := range Statuses {
		if v == s {
			return i
		}
	}
	return -1
}

// ParsePriority accepts the wire value or a case-insensitive short form.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low", "l":
		return PriorityLow, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "high", "h":
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("%w: %q (want Low, Medium or High)", ErrInvalidPriority, s)
}

// ParseStatus accepts the wire value or a case-insensitive short form.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", " ", "_", " ").Replace(norm)
	switch norm {
	case "not started", "notstarted", "todo", "new":
		return StatusNotStarted, nil
	case "in progress", "inprogress", "doing", "wip":
		return StatusInProgress, nil
	case "completed", "complete", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("%w: %q (want Not Started, In Progress or Completed)", ErrInvalidStatus, s)
}
