package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/x/term"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store/jsonstore"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (r *runner) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.err)
	return fs
}

// fail prints err the way the user needs to see it and returns exit code 1.
func (r *runner) fail(prefix string, err error) int {
	var verr *model.ValidationError
	if errors.As(err, &verr) {
		ui.Fail(r.err, prefix+": invalid todo")
		for _, fe := range verr.Fields {
			fmt.Fprintf(r.err, "  %s: %s\n", fe.Field, fe.Message)
		}
		return 1
	}
	ui.Fail(r.err, prefix+": "+err.Error())
	if api.IsUnauthorized(err) {
		ui.Hint(r.err, "run `tada login` first")
	}
	r.app.Logger.Debug().
		Err(err).
		Str("cmd", prefix).
		Msg("command failed")
	return 1
}

func (r *runner) usage(msg string) int {
	ui.Fail(r.err, "usage: tada "+msg)
	return 2
}

func (r *runner) doInteractive() int {
	if err := r.interactive(r.ctx, r.app); err != nil {
		return r.fail("ls", err)
	}
	return 0
}

func (r *runner) doList(args []string) int {
	fs := r.flagSet("list")
	sortBy := fs.String("sort", "", "sort by title, priority, deadline or status")
	desc := fs.Bool("desc", false, "sort descending")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	state := tui.SortState{Desc: *desc}
	if *sortBy != "" {
		col, err := tui.ParseColumn(*sortBy)
		if err != nil {
			ui.Fail(r.err, "list: "+err.Error())
			return 2
		}
		state.Column = col
	}

	todos, err := r.app.Client.ListTodos(r.ctx)
	if err != nil {
		return r.fail("list", err)
	}
	renderList(r.out, tui.SortTodos(todos, state), terminalWidth())
	return 0
}

// todoFlags are the fields add and edit share.
type todoFlags struct {
	title, priority, deadline, status *string
}

func bindTodoFlags(fs *flag.FlagSet) todoFlags {
	return todoFlags{
		title:    fs.String("title", "", "todo title (max 30 characters)"),
		priority: fs.String("priority", "", "low, medium or high"),
		deadline: fs.String("deadline", "", "deadline as "+model.DeadlineLayoutHint),
		status:   fs.String("status", "", "not-started, in-progress or completed"),
	}
}

// apply overwrites v with the flags that were given on the command line.
func (f todoFlags) apply(fs *flag.FlagSet, v *model.Values) error {
	var err error
	fs.Visit(func(fl *flag.Flag) {
		if err != nil {
			return
		}
		switch fl.Name {
		case "title":
			v.Title = strings.TrimSpace(*f.title)
		case "priority":
			v.Priority, err = model.ParsePriority(*f.priority)
		case "deadline":
			v.Deadline, err = model.ParseDeadline(*f.deadline)
		case "status":
			v.Status, err = model.ParseStatus(*f.status)
		}
	})
	return err
}

func (r *runner) doAdd(args []string) int {
	fs := r.flagSet("add")
	flags := bindTodoFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	// flag stops at the first word; a later -flag would end up in the title
	for i, word := range fs.Args() {
		if i > 0 && len(word) > 1 && strings.HasPrefix(word, "-") {
			ui.Fail(r.err, fmt.Sprintf("add: flag %s after the title; put flags first", word))
			return 2
		}
	}
	v := model.Values{
		Title:    strings.TrimSpace(strings.Join(fs.Args(), " ")),
		Priority: model.PriorityMedium,
		Deadline: model.Today(time.Now()).AddDate(0, 0, 1),
		Status:   model.StatusNotStarted,
	}
	if err := flags.apply(fs, &v); err != nil {
		ui.Fail(r.err, "add: "+err.Error())
		return 2
	}
	if v.Title == "" {
		return r.usage("add [-priority p] [-deadline dd-mm-yyyy] [-status s] <title...>")
	}

	t, err := r.app.Client.CreateTodo(r.ctx, v)
	if err != nil {
		return r.fail("add", err)
	}
	ui.OK(r.out, fmt.Sprintf("added %q (%s)", t.Title, idOrDash(t.ID)))
	return 0
}

func (r *runner) doEdit(args []string) int {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return r.usage("edit <id> [-title t] [-priority p] [-deadline dd-mm-yyyy] [-status s]")
	}
	id, rest := args[0], args[1:]
	fs := r.flagSet("edit")
	flags := bindTodoFlags(fs)
	if err := fs.Parse(rest); err != nil {
		return 2
	}
	if fs.NArg() > 0 {
		ui.Fail(r.err, "edit: unexpected argument "+fs.Arg(0))
		return 2
	}
	if fs.NFlag() == 0 {
		return r.usage("edit <id> needs at least one of -title, -priority, -deadline, -status")
	}

	todos, err := r.app.Client.ListTodos(r.ctx)
	if err != nil {
		return r.fail("edit", err)
	}
	current, ok := find(todos, id)
	if !ok {
		ui.Fail(r.err, "edit: no todo with id "+id)
		ui.Hint(r.err, "run `tada list` to see ids")
		return 1
	}
	v := current.Values()
	if err := flags.apply(fs, &v); err != nil {
		ui.Fail(r.err, "edit: "+err.Error())
		return 2
	}

	t, err := r.app.Client.UpdateTodo(r.ctx, id, v)
	if err != nil {
		return r.fail("edit", err)
	}
	ui.OK(r.out, fmt.Sprintf("updated %q", t.Title))
	return 0
}

func (r *runner) doRemove(args []string) int {
	if len(args) != 1 {
		return r.usage("rm <id>")
	}
	if err := r.app.Client.DeleteTodo(r.ctx, args[0]); err != nil {
		return r.fail("rm", err)
	}
	ui.OK(r.out, "removed "+args[0])
	return 0
}

func (r *runner) doExport(args []string) int {
	fs := r.flagSet("export")
	out := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	todos, err := r.app.Client.ListTodos(r.ctx)
	if err != nil {
		return r.fail("export", err)
	}
	if *out == "" {
		if err := jsonstore.Write(r.out, todos); err != nil {
			return r.fail("export", err)
		}
		return 0
	}
	if err := jsonstore.Save(*out, todos); err != nil {
		return r.fail("export", err)
	}
	ui.OK(r.out, fmt.Sprintf("exported %d todos to %s", len(todos), *out))
	return 0
}

func (r *runner) doImport(args []string) int {
	if len(args) != 1 {
		return r.usage("import <file>")
	}
	todos, err := r.loadImport(args[0])
	if err != nil {
		return r.fail("import", err)
	}
	for i, t := range todos {
		if _, err := r.app.Client.CreateTodo(r.ctx, t.Values()); err != nil {
			ui.Fail(r.err, fmt.Sprintf("import: stopped at todo %d of %d (%q)", i+1, len(todos), t.Title))
			return r.fail("import", err)
		}
	}
	ui.OK(r.out, fmt.Sprintf("imported %d todos", len(todos)))
	return 0
}

func (r *runner) loadImport(path string) ([]model.Todo, error) {
	if path == "-" {
		return jsonstore.Read(r.in)
	}
	return jsonstore.Load(path)
}

func find(todos []model.Todo, id string) (model.Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

func idOrDash(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

func terminalWidth() int {
	if w, _, err := term.GetSize(os.Stdout.Fd()); err == nil && w > 0 {
		return w
	}
	return 80
}
