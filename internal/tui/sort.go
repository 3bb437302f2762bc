package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// Column identifies a table column. The values match the number keys that
// sort by them.
type Column int

const (
	ColumnNone Column = iota
	ColumnTitle
	ColumnPriority
	ColumnDeadline
	ColumnStatus
)

var columnNames = map[Column]string{
	ColumnTitle:    "title",
	ColumnPriority: "priority",
	ColumnDeadline: "deadline",
	ColumnStatus:   "status",
}

func (c Column) String() string {
	if n, ok := columnNames[c]; ok {
		return n
	}
	return "none"
}

// ParseColumn maps a column name (or its 1-based number) to a Column.
func ParseColumn(s string) (Column, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range columnNames {
		if s == n || s == fmt.Sprint(int(c)) {
			return c, nil
		}
	}
	return ColumnNone, fmt.Errorf("unknown column %q (want title, priority, deadline or status)", s)
}

// SortState is the active sort column and direction.
type SortState struct {
	Column Column
	Desc   bool
}

// Toggle returns the state after pressing the key for col: a new column
// sorts ascending, the active one flips direction.
func (s SortState) Toggle(col Column) SortState {
	if s.Column == col {
		return SortState{Column: col, Desc: !s.Desc}
	}
	return SortState{Column: col}
}

// SortTodos returns a sorted copy of todos. Ties keep their input order.
func SortTodos(todos []model.Todo, s SortState) []model.Todo {
	out := slices.Clone(todos)
	if s.Column == ColumnNone {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Todo) int {
		c := compare(a, b, s.Column)
		if s.Desc {
			return -c
		}
		return c
	})
	return out
}

func compare(a, b model.Todo, col Column) int {
	switch col {
	case ColumnTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case ColumnPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case ColumnDeadline:
		return a.Deadline.Compare(b.Deadline)
	case ColumnStatus:
		return a.Status.Rank() - b.Status.Rank()
	}
	return 0
}
