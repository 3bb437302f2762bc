package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrIncompleteTodo is returned for a wire todo lacking a required field.
var ErrIncompleteTodo = errors.New("incomplete todo")

// WireTodo is a todo as exchanged with the remote API.
type WireTodo struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline"`
	Status   string `json:"status"`
}

// ToWire renders values in wire format.
func ToWire(v model.Values) WireTodo {
	w := WireTodo{
		Title:    v.Title,
		Priority: string(v.Priority),
		Status:   string(v.Status),
	}
	if !v.Deadline.IsZero() {
		w.Deadline = model.FormatDeadline(v.Deadline)
	}
	return w
}

// TodoToWire renders a todo, id included.
func TodoToWire(t model.Todo) WireTodo {
	w := ToWire(t.Values())
	w.ID = t.ID
	return w
}

// Model checks every field and parses the wire deadline. A missing
// deadline is an error rather than a silent "today". The id may be blank:
// create responses can echo the body without one.
func (w WireTodo) Model() (model.Todo, error) {
	if strings.TrimSpace(w.Title) == "" {
		return model.Todo{}, fmt.Errorf("todo %q: %w: no title", w.ID, ErrIncompleteTodo)
	}
	priority := model.Priority(w.Priority)
	if !priority.Valid() {
		return model.Todo{}, fmt.Errorf("todo %q: %w: %q", w.ID, model.ErrInvalidPriority, w.Priority)
	}
	status := model.Status(w.Status)
	if !status.Valid() {
		return model.Todo{}, fmt.Errorf("todo %q: %w: %q", w.ID, model.ErrInvalidStatus, w.Status)
	}
	deadline, err := model.ParseDeadline(w.Deadline)
	if err != nil {
		return model.Todo{}, fmt.Errorf("todo %q: %w", w.ID, err)
	}
	return model.Todo{
		ID:       w.ID,
		Title:    w.Title,
		Priority: priority,
		Deadline: deadline,
		Status:   status,
	}, nil
}

// DecodeTodos parses a JSON array of wire todos as the list endpoint sends
// them: every todo must carry an id. An empty or null body is an empty list.
func DecodeTodos(data []byte) ([]model.Todo, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []model.Todo{}, nil
	}
	var items []WireTodo
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}
	todos := make([]model.Todo, 0, len(items))
	for i, it := range items {
		if strings.TrimSpace(it.ID) == "" {
			return nil, fmt.Errorf("todo %d: %w: no id", i, ErrIncompleteTodo)
		}
		t, err := it.Model()
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
	return todos, nil
}
