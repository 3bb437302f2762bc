package model

import (
	"errors"
	"testing"
	"time"
)

func TestFormatDeadline(t *testing.T) {
	d := time.Date(2026, 3, 7, 18, 45, 0, 0, time.Local)
	if got := FormatDeadline(d); got != "07-03-2026" {
		t.Fatalf("got %q", got)
	}
}

func TestParseDeadline_Layouts(t *testing.T) {
	want := time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)

	for _, in := range []string{"17-10-2026", "2026-10-17", " 17-10-2026 "} {
		got, err := ParseDeadline(in)
		if err != nil {
			t.Fatalf("ParseDeadline(%q): %v", in, err)
		}
		if !got.Equal(want) {
			t.Fatalf("ParseDeadline(%q)=%v want %v", in, got, want)
		}
	}

	local := time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)
	got, err := ParseDeadline(local.UTC().Format(time.RFC3339Nano))
	if err != nil {
		t.Fatalf("rfc3339: %v", err)
	}
	if !SameDate(got, local) {
		t.Fatalf("rfc3339 parsed to %v want date of %v", got, local)
	}
}

func TestParseDeadline_Missing(t *testing.T) {
	if _, err := ParseDeadline(""); !errors.Is(err, ErrMissingDeadline) {
		t.Fatalf("expected ErrMissingDeadline, got %v", err)
	}
	if _, err := ParseDeadline("   "); !errors.Is(err, ErrMissingDeadline) {
		t.Fatalf("expected ErrMissingDeadline for blanks, got %v", err)
	}
}

func TestParseDeadline_Invalid(t *testing.T) {
	for _, in := range []string{"32-01-2026", "tomorrow", "10/17/2026"} {
		if _, err := ParseDeadline(in); err == nil {
			t.Fatalf("ParseDeadline(%q) should fail", in)
		} else if errors.Is(err, ErrMissingDeadline) {
			t.Fatalf("ParseDeadline(%q) reported missing", in)
		}
	}
}

func TestDeadlineRoundTrip(t *testing.T) {
	start := time.Date(1900, 1, 1, 13, 0, 0, 0, time.Local)
	end := time.Date(2999, 12, 31, 0, 0, 0, 0, time.Local)

	// every 7th day plus the bounds keeps this fast while still crossing
	// leap years and DST changes
	check := func(d time.Time) {
		got, err := ParseDeadline(FormatDeadline(d))
		if err != nil {
			t.Fatalf("round trip %v: %v", d, err)
		}
		if !SameDate(got, d) {
			t.Fatalf("round trip %v gave %v", d, got)
		}
	}
	for d := start; d.Before(end); d = d.AddDate(0, 0, 7) {
		check(d)
	}
	check(end)
	check(time.Date(2000, 2, 29, 23, 59, 59, 0, time.Local))
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC)
	got := Today(now)
	if got.Hour() != 0 || got.Minute() != 0 || !SameDate(got, now) {
		t.Fatalf("Today=%v", got)
	}
}
