package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Makepad-fr/tada/internal/session"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (r *runner) doLogin(args []string) int {
	fs := r.flagSet("login")
	user := fs.String("u", "", "username (prompted when empty)")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	username := strings.TrimSpace(*user)
	if username == "" {
		fmt.Fprint(r.out, "Username: ")
		line, err := bufio.NewReader(r.in).ReadString('\n')
		if err != nil && line == "" {
			ui.Fail(r.err, "login: no username given")
			return 2
		}
		username = strings.TrimSpace(line)
	}
	if username == "" {
		ui.Fail(r.err, "login: no username given")
		return 2
	}

	fmt.Fprint(r.out, "Password: ")
	password, err := r.readPassword()
	fmt.Fprintln(r.out)
	if err != nil {
		ui.Fail(r.err, "login: read password: "+err.Error())
		return 1
	}

	if err := r.app.Login(r.ctx, username, strings.TrimRight(password, "\r\n")); err != nil {
		return r.fail("login", err)
	}
	ui.OK(r.out, "logged in as "+username)
	return 0
}

func (r *runner) doLogout() int {
	if err := r.app.Logout(); err != nil {
		return r.fail("logout", err)
	}
	if r.app.Config.Session.Cookie != "" {
		ui.Hint(r.err, "TADA_SESSION_COOKIE is set and still overrides the saved session")
	}
	ui.OK(r.out, "logged out")
	return 0
}

func (r *runner) doStatus() int {
	sess, err := r.app.Sessions.Load()
	if errors.Is(err, session.ErrNoSession) {
		ui.Fail(r.err, "not logged in")
		ui.Hint(r.err, "run `tada login`")
		return 1
	}
	if err != nil {
		return r.fail("status", err)
	}

	t := ui.Current()
	names := make([]string, 0, len(sess.Cookies))
	for _, c := range sess.Cookies {
		names = append(names, c.Name)
	}
	lines := []string{
		ui.C(t.Title, "Session"),
		"",
		"API      " + r.app.Client.BaseURL(),
		"Source   " + sess.Source,
		"Cookies  " + strings.Join(names, ", "),
	}
	if !sess.CreatedAt.IsZero() {
		lines = append(lines, "Since    "+sess.CreatedAt.Local().Format(time.DateTime))
	}
	ui.Panel(r.out, lines)
	return 0
}
