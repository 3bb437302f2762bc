package app

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/fakeapi"
	"github.com/Makepad-fr/tada/internal/session"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testConfig(t *testing.T, url string) *config.Config {
	t.Helper()
	cfg := &config.Config{Env: config.EnvProd}
	cfg.API.BaseURL = url
	cfg.Session.Dir = t.TempDir()
	return cfg
}

func TestLoginPersistsAndRestores(t *testing.T) {
	s, err := fakeapi.New("demo@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	store, _ := session.NewFileStore(cfg.Session.Dir, "")
	a, err := New(cfg, zerolog.Nop(), store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := a.Login(context.Background(), "demo@example.com", "password123"); err != nil {
		t.Fatalf("login: %v", err)
	}
	sess, err := store.Load()
	if err != nil || sess.Cookies[0].Name != fakeapi.SessionCookie {
		t.Fatalf("saved session: %+v %v", sess, err)
	}

	// a second process picks the session up from disk
	b, err := New(cfg, zerolog.Nop(), store)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, err := b.Client.ListTodos(context.Background()); err != nil {
		t.Fatalf("list with restored session: %v", err)
	}

	if err := b.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("after logout: %v", err)
	}
}

func TestLoginFailureSavesNothing(t *testing.T) {
	s, err := fakeapi.New("demo@example.com", "password123")
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s)
	defer ts.Close()

	cfg := testConfig(t, ts.URL)
	store, _ := session.NewFileStore(cfg.Session.Dir, "")
	a, err := New(cfg, zerolog.Nop(), store)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Login(context.Background(), "demo@example.com", "nope"); err == nil {
		t.Fatal("want error")
	}
	if _, err := store.Load(); !errors.Is(err, session.ErrNoSession) {
		t.Fatalf("session saved after failed login: %v", err)
	}
}

func TestNewRejectsBadURL(t *testing.T) {
	cfg := testConfig(t, "ftp://example.com")
	store, _ := session.NewFileStore(cfg.Session.Dir, "")
	if _, err := New(cfg, zerolog.Nop(), store); err == nil {
		t.Fatal("want error for non-http url")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	cases := []struct {
		env, override string
		want          zerolog.Level
	}{
		{config.EnvProd, "", zerolog.InfoLevel},
		{config.EnvDev, "", zerolog.DebugLevel},
		{config.EnvLocal, "", zerolog.TraceLevel},
		{config.EnvProd, "WARN", zerolog.WarnLevel},
	}
	for _, c := range cases {
		logger, closeLog, err := NewLogger(c.env, config.LogConfig{Level: c.override}, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("%s/%s: %v", c.env, c.override, err)
		}
		closeLog()
		if logger.GetLevel() != c.want {
			t.Errorf("%s/%s: level=%s want %s", c.env, c.override, logger.GetLevel(), c.want)
		}
	}
	if _, _, err := NewLogger(config.EnvProd, config.LogConfig{Level: "loud"}, nil); err == nil {
		t.Fatal("want error for bad level")
	}
}

func TestNewLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tada.log")
	var fallback bytes.Buffer
	logger, closeLog, err := NewLogger(config.EnvProd, config.LogConfig{File: path}, &fallback)
	if err != nil {
		t.Fatal(err)
	}
	logger.Info().Msg("hello file")
	if err := closeLog(); err != nil {
		t.Fatal(err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"message":"hello file"`) {
		t.Fatalf("log file: %s", b)
	}
	if fallback.Len() != 0 {
		t.Fatal("fallback written despite log file")
	}
}
