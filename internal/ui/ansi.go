package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/Makepad-fr/tada/internal/model"
)

var (
	reset = "\033[0m"
	bold  = "\033[1m"
	dim   = "\033[2m"

	fgGray    = "\033[90m"
	fgGreen   = "\033[32m"
	fgYellow  = "\033[33m"
	fgBlue    = "\033[34m"
	fgRed     = "\033[31m"
	fgMagenta = "\033[35m"

	symCheck = "✔"
	symCross = "✖"
)

var (
	forceColor   bool
	disableColor bool
)

func SetColorForcing(force, disable bool) {
	forceColor = force
	disableColor = disable
}

func isTTY() bool {
	return term.IsTerminal(os.Stdout.Fd())
}

func C(color, s string) string {
	if disableColor || color == "" {
		return s
	}
	if forceColor || isTTY() {
		return color + s + reset
	}
	return s
}

func OK(w io.Writer, msg string)   { fmt.Fprintln(w, C(fgGreen, symCheck+" "+msg)) }
func Fail(w io.Writer, msg string) { fmt.Fprintln(w, C(fgRed, symCross+" "+msg)) }

// Hint prints a muted follow-up line under a failure.
func Hint(w io.Writer, msg string) { fmt.Fprintln(w, C(fgGray, "Hint: "+msg)) }

// Priority colours a priority label with the current theme.
func Priority(p model.Priority) string {
	t := Current()
	switch p {
	case model.PriorityHigh:
		return C(t.High, string(p))
	case model.PriorityMedium:
		return C(t.Medium, string(p))
	default:
		return C(t.Low, string(p))
	}
}

// Status renders a status with its theme symbol.
func Status(s model.Status) string {
	t := Current()
	switch s {
	case model.StatusCompleted:
		return C(t.Success, t.SymDone+" "+string(s))
	case model.StatusInProgress:
		return C(t.Pending, t.SymInProgress+" "+string(s))
	default:
		return C(t.Muted, t.SymUnchecked+" "+string(s))
	}
}
