package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/api"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/session"
)

// AppName names the app in prompts and help.
const AppName = "tada"

// App is the context handed to every view: configuration, logger, API
// client and session store. Nothing here is global.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Client   *api.Client
	Sessions session.Store
}

// New wires an App from cfg. The persisted session, if any, is loaded into
// the client so requests are authenticated straight away.
func New(cfg *config.Config, logger zerolog.Logger, sessions session.Store) (*App, error) {
	opts := []api.Option{api.WithLogger(logger)}
	if cfg.API.LoginURL != "" {
		opts = append(opts, api.WithLoginURL(cfg.API.LoginURL))
	}
	if cfg.API.Timeout > 0 {
		opts = append(opts, api.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}))
	}
	client, err := api.NewClient(cfg.API.BaseURL, opts...)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Logger:   logger,
		Client:   client,
		Sessions: sessions,
	}
	if err := a.restoreSession(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) restoreSession() error {
	sess, err := a.Sessions.Load()
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			a.Logger.Debug().Msg("no saved session")
			return nil
		}
		return fmt.Errorf("load session: %w", err)
	}
	a.Client.SetSessionCookies(sess.HTTPCookies())
	a.Logger.Debug().
		Str("source", sess.Source).
		Int("cookies", len(sess.Cookies)).
		Msg("restored session")
	return nil
}

// Login authenticates against the API and persists the resulting session.
func (a *App) Login(ctx context.Context, username, password string) error {
	if err := a.Client.Login(ctx, username, password); err != nil {
		return err
	}
	cookies := a.Client.SessionCookies()
	if len(cookies) == 0 {
		return errors.New("login succeeded but the server set no session cookie")
	}
	if err := a.Sessions.Save(session.FromHTTPCookies(cookies)); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Logout forgets the persisted session.
func (a *App) Logout() error {
	return a.Sessions.Clear()
}
