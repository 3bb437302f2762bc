package ui

import (
	"fmt"
	"strings"
)

// Theme bundles palette + symbols + box borders.
// All UI helpers pull from `current`.
type Theme struct {
	Name                                  string
	Title, Muted, Accent, Success, Error  string
	Pending, Low, Medium, High            string
	CornerTL, CornerTR, CornerBL, CornerBR string
	H, V                                  string
	SymDone, SymInProgress, SymUnchecked  string
}

// Themes lists the names SetTheme accepts.
var Themes = []string{"classic", "neon", "mono"}

var current = classic()

func classic() Theme {
	return Theme{
		Name:  "classic",
		Title: bold, Muted: fgGray, Accent: fgBlue,
		Success: fgGreen, Error: fgRed, Pending: fgYellow,
		Low: fgGray, Medium: fgYellow, High: fgRed,
		CornerTL: "┌", CornerTR: "┐", CornerBL: "└", CornerBR: "┘",
		H: "─", V: "│",
		SymDone: "✔", SymInProgress: "◐", SymUnchecked: "•",
	}
}

// SetTheme switches the current theme. Unknown names leave it unchanged.
func SetTheme(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "classic":
		current = classic()
	case "neon":
		current = Theme{
			Name:  "neon",
			Title: "\033[95m", // bright magenta
			Muted: fgGray, Accent: "\033[96m",
			Success: fgGreen, Error: fgRed, Pending: "\033[93m",
			Low: "\033[96m", Medium: "\033[93m", High: fgMagenta,
			CornerTL: "╭", CornerTR: "╮", CornerBL: "╰", CornerBR: "╯",
			H: "─", V: "│",
			SymDone: "✔", SymInProgress: "◑", SymUnchecked: "•",
		}
	case "mono":
		disableColor = true
		current = Theme{
			Name:     "mono",
			CornerTL: "+", CornerTR: "+", CornerBL: "+", CornerBR: "+",
			H: "-", V: "|",
			SymDone: "x", SymInProgress: "~", SymUnchecked: "-",
		}
	default:
		return fmt.Errorf("unknown theme %q (want %s)", name, strings.Join(Themes, ", "))
	}
	return nil
}

func Current() Theme { return current }
