package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/cli"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/session"
	"github.com/Makepad-fr/tada/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Root flags (apply to every subcommand)
	theme := flag.String("theme", "", "colour theme: classic, neon or mono (default $TADA_THEME)")
	noColor := flag.Bool("no-color", false, "disable colours")
	flag.Usage = func() {
		cli.PrintHelp(os.Stderr)
		fmt.Fprintln(os.Stderr, "\nEnvironment:")
		fmt.Fprintln(os.Stderr, config.Usage())
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		return 2
	}
	if args[0] == "help" {
		cli.PrintHelp(os.Stdout)
		return 0
	}

	cfg, err := config.NewEnvReader().Read()
	if err != nil {
		ui.Fail(os.Stderr, "config: "+err.Error())
		fmt.Fprintln(os.Stderr, config.Usage())
		return 1
	}

	ui.SetColorForcing(false, *noColor || os.Getenv("NO_COLOR") != "")
	themeName := cfg.Theme
	if *theme != "" {
		themeName = *theme
	}
	if err := ui.SetTheme(themeName); err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 2
	}

	// The TUI owns the terminal; without a log file its logs go nowhere.
	var logOut io.Writer = os.Stderr
	if args[0] == "ls" {
		logOut = nil
	}
	logger, closeLog, err := app.NewLogger(cfg.Env, cfg.Log, logOut)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	defer closeLog()

	sessions, err := session.NewFileStore(cfg.Session.Dir, cfg.Session.Cookie)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		return 1
	}
	a, err := app.New(cfg, logger, sessions)
	if err != nil {
		logger.Error().
			Err(err).
			Msg("failed to set up app")
		ui.Fail(os.Stderr, err.Error())
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	code := cli.Run(ctx, a, args, cli.Options{})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
