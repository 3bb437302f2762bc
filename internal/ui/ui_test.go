package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		done, total, width int
		want               string
	}{
		{0, 4, 8, "░░░░░░░░   0%"},
		{2, 4, 8, "████░░░░  50%"},
		{4, 4, 8, "████████ 100%"},
		{0, 0, 2, "░░░░░   0%"},
	}
	for _, c := range cases {
		if got := ProgressBar(c.done, c.total, c.width); got != c.want {
			t.Errorf("ProgressBar(%d,%d,%d)=%q want %q", c.done, c.total, c.width, got, c.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := Pad("abc", 5); got != "abc  " {
		t.Fatalf("pad=%q", got)
	}
	if got := Pad("abcdefgh", 5); got != "abcd…" {
		t.Fatalf("truncate=%q", got)
	}
}

func TestPanel(t *testing.T) {
	SetColorForcing(false, true)
	defer SetColorForcing(false, false)
	if err := SetTheme("mono"); err != nil {
		t.Fatal(err)
	}
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "abcd"})
	want := "+------+\n| ab   |\n| abcd |\n+------+\n"
	if buf.String() != want {
		t.Fatalf("panel:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("classic")
	if err := SetTheme("neon"); err != nil {
		t.Fatal(err)
	}
	if Current().Name != "neon" {
		t.Fatalf("theme=%q", Current().Name)
	}
	if err := SetTheme("sepia"); err == nil {
		t.Fatal("want error for unknown theme")
	}
	if Current().Name != "neon" {
		t.Fatalf("unknown theme changed current to %q", Current().Name)
	}
}

func TestStatusAndPriorityPlain(t *testing.T) {
	SetColorForcing(false, true)
	defer SetColorForcing(false, false)
	defer SetTheme("classic")
	SetTheme("classic")

	if got := Status(model.StatusCompleted); got != "✔ Completed" {
		t.Fatalf("status=%q", got)
	}
	if got := Priority(model.PriorityHigh); got != "High" {
		t.Fatalf("priority=%q", got)
	}
	if got := Status(model.StatusNotStarted); !strings.HasSuffix(got, "Not Started") {
		t.Fatalf("status=%q", got)
	}
}
