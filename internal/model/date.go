package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DeadlineLayout is the wire format of a deadline: dd-MM-yyyy.
const DeadlineLayout = "02-01-2006"

// DeadlineLayoutHint is DeadlineLayout as shown to users.
const DeadlineLayoutHint = "dd-mm-yyyy"

// ErrMissingDeadline is returned when a todo arrives without a deadline.
var ErrMissingDeadline = errors.New("missing deadline")

// fallback layouts seen from browser clients writing to the same API
var deadlineLayouts = []string{
	DeadlineLayout,
	time.DateOnly,
	time.RFC3339Nano,
}

// FormatDeadline renders the calendar date of t in wire format.
func FormatDeadline(t time.Time) string {
	return t.Format(DeadlineLayout)
}

// ParseDeadline parses a wire deadline into a local calendar date.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingDeadline
	}
	for _, layout := range deadlineLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if layout == time.RFC3339Nano {
			t = t.Local()
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local), nil
	}
	return time.Time{}, fmt.Errorf("parse deadline %q: want dd-MM-yyyy", s)
}

// Today returns the calendar date of now.
func Today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
