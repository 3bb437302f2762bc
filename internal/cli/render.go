package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

const (
	priorityWidth = 8
	deadlineWidth = 10
	statusWidth   = 13
	minTitleWidth = 12
	maxTitleWidth = 30
)

func renderList(w io.Writer, todos []model.Todo, termWidth int) {
	t := ui.Current()
	done, doing := counts(todos)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		ui.C(t.Title, "Todos"),
		ui.C(t.Success, t.SymDone), done,
		ui.C(t.Pending, t.SymInProgress), doing,
		ui.C(t.Accent, "Total"), len(todos),
	)

	lines := []string{
		header,
		ui.C(t.Muted, ui.ProgressBar(done, len(todos), 28)),
		"",
	}
	idW := idWidth(todos)
	lines = append(lines, tableLines(todos, idW, titleWidth(termWidth, idW))...)
	lines = append(lines, "")
	lines = append(lines, ui.C(t.Muted, "Tip: add with `tada add -deadline 24-12-2026 \"Water plants\"`"))
	ui.Panel(w, lines)
}

// titleWidth fits the title column to the terminal, leaving room for the
// other columns and the panel frame.
func titleWidth(termWidth, idW int) int {
	fixed := idW + priorityWidth + deadlineWidth + statusWidth + 4*2 + 4
	return min(max(termWidth-fixed, minTitleWidth), maxTitleWidth)
}

// idWidth is the widest id. Ids are never truncated.
func idWidth(todos []model.Todo) int {
	w := len("ID")
	for _, t := range todos {
		w = max(w, len(t.ID))
	}
	return w
}

func tableLines(todos []model.Todo, idW, titleW int) []string {
	if len(todos) == 0 {
		return []string{ui.C(ui.Current().Muted, "no todos")}
	}
	head := strings.Join([]string{
		ui.Pad("ID", idW),
		ui.Pad("Title", titleW),
		ui.Pad("Priority", priorityWidth),
		ui.Pad("Deadline", deadlineWidth),
		"Status",
	}, "  ")
	out := make([]string, 0, len(todos)+1)
	out = append(out, ui.C(ui.Current().Muted, head))
	for _, td := range todos {
		out = append(out, strings.Join([]string{
			ui.C(ui.Current().Muted, ui.Pad(td.ID, idW)),
			ui.Pad(td.Title, titleW),
			// pad before colouring so escape codes don't count
			padColored(ui.Priority(td.Priority), string(td.Priority), priorityWidth),
			ui.Pad(model.FormatDeadline(td.Deadline), deadlineWidth),
			ui.Status(td.Status),
		}, "  "))
	}
	return out
}

func padColored(colored, plain string, width int) string {
	if n := width - len([]rune(plain)); n > 0 {
		return colored + strings.Repeat(" ", n)
	}
	return colored
}

func counts(todos []model.Todo) (done, doing int) {
	for _, t := range todos {
		switch t.Status {
		case model.StatusCompleted:
			done++
		case model.StatusInProgress:
			doing++
		}
	}
	return
}
