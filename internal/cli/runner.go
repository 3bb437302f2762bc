package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// Options carry the process streams. Zero values fall back to the os ones.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// ReadPassword reads a line without echo. Defaults to the terminal.
	ReadPassword func() (string, error)
	// Interactive runs the TUI for `ls`.
	Interactive func(ctx context.Context, a *app.App) error
}

type runner struct {
	ctx context.Context
	app *app.App
	in  io.Reader
	out io.Writer
	err io.Writer

	readPassword func() (string, error)
	interactive  func(ctx context.Context, a *app.App) error
}

func newRunner(ctx context.Context, a *app.App, opt Options) *runner {
	r := &runner{
		ctx:          ctx,
		app:          a,
		in:           opt.Stdin,
		out:          opt.Stdout,
		err:          opt.Stderr,
		readPassword: opt.ReadPassword,
		interactive:  opt.Interactive,
	}
	if r.in == nil {
		r.in = os.Stdin
	}
	if r.out == nil {
		r.out = os.Stdout
	}
	if r.err == nil {
		r.err = os.Stderr
	}
	if r.readPassword == nil {
		r.readPassword = func() (string, error) {
			b, err := term.ReadPassword(os.Stdin.Fd())
			return string(b), err
		}
	}
	if r.interactive == nil {
		r.interactive = tui.Run
	}
	return r
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, a *app.App, args []string, opt Options) int {
	r := newRunner(ctx, a, opt)
	if len(args) == 0 {
		PrintHelp(r.err)
		return 2
	}
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return 0
	case "ls":
		return r.doInteractive()
	case "list":
		return r.doList(rest)
	case "add":
		return r.doAdd(rest)
	case "edit":
		return r.doEdit(rest)
	case "rm":
		return r.doRemove(rest)
	case "export":
		return r.doExport(rest)
	case "import":
		return r.doImport(rest)
	case "login":
		return r.doLogin(rest)
	case "logout":
		return r.doLogout()
	case "status":
		return r.doStatus()
	}

	ui.Fail(r.err, "unknown subcommand: "+cmd)
	fmt.Fprintln(r.err)
	PrintHelp(r.err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprintf(w, `%[1]s - todos from your terminal, kept on a remote API

Usage:
  %[1]s [-theme classic|neon|mono] [-no-color] <subcommand> [args]

Subcommands:
  ls                              Interactive table (sort 1-4, a add, e edit, d delete, c copy)
  list [-sort col] [-desc]        Print the todos once
  add [-priority p] [-deadline d] [-status s] <title...>
                                  Create a todo (deadline dd-mm-yyyy, default tomorrow);
                                  flags go before the title
  edit <id> [-title t] [-priority p] [-deadline d] [-status s]
                                  Change the given fields of a todo
  rm <id>                         Delete a todo
  export [-o file]                Write all todos as JSON (stdout by default)
  import <file>                   Create every todo in a JSON export
  login [-u user]                 Log in and remember the session
  logout                          Forget the saved session
  status                          Show the saved session

Examples:
  %[1]s add -priority high -deadline 24-12-2026 "Buy presents"
  %[1]s list -sort deadline
  %[1]s edit 42 -status done
  %[1]s export -o todos.json
`, app.AppName)
}
