package config

import (
	"fmt"
	"strings"
	"time"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env     string `env:"TADA_ENV" env-default:"prod" env-description:"environment: local, dev or prod"`
	Theme   string `env:"TADA_THEME" env-default:"classic" env-description:"CLI theme: classic, neon or mono"`
	API     APIConfig
	Session SessionConfig
	Log     LogConfig
}

type APIConfig struct {
	BaseURL  string        `env:"TADA_API_URL" env-required:"true" env-description:"base URL of the todo API, e.g. https://todo.example.com/api"`
	LoginURL string        `env:"TADA_LOGIN_URL" env-description:"login endpoint (default {TADA_API_URL}/login)"`
	Timeout  time.Duration `env:"TADA_API_TIMEOUT" env-default:"0s" env-description:"HTTP timeout per request, 0 for none"`
}

type SessionConfig struct {
	Dir    string `env:"TADA_SESSION_DIR" env-description:"where the session file lives (default ~/.tada)"`
	Cookie string `env:"TADA_SESSION_COOKIE" env-description:"session cookie as name=value, overrides the saved session"`
}

type LogConfig struct {
	Level string `env:"TADA_LOG_LEVEL" env-description:"log level: trace, debug, info, warn or error (default by environment)"`
	File  string `env:"TADA_LOG_FILE" env-description:"append logs to this file instead of stderr"`
}

// FakeAPIConfig configures the local stand-in API server.
type FakeAPIConfig struct {
	Env      string `env:"TADA_ENV" env-default:"local" env-description:"environment: local, dev or prod"`
	Addr     string `env:"FAKEAPI_ADDR" env-default:":8080" env-description:"listen address"`
	Username string `env:"FAKEAPI_USERNAME" env-default:"demo@example.com" env-description:"the one accepted username"`
	Password string `env:"FAKEAPI_PASSWORD" env-default:"password123" env-description:"its password"`
	Log      LogConfig

	ShutdownTimeout time.Duration `env:"FAKEAPI_SHUTDOWN_TIMEOUT" env-default:"5s" env-description:"grace period for in-flight requests on shutdown"`
}

func (c *Config) Validate() error {
	env, err := normalizeEnv(c.Env)
	if err != nil {
		return err
	}
	c.Env = env
	if c.API.Timeout < 0 {
		return fmt.Errorf("TADA_API_TIMEOUT must not be negative")
	}
	return nil
}

func (c *FakeAPIConfig) Validate() error {
	env, err := normalizeEnv(c.Env)
	if err != nil {
		return err
	}
	c.Env = env
	if c.Username == "" || c.Password == "" {
		return fmt.Errorf("FAKEAPI_USERNAME and FAKEAPI_PASSWORD are required")
	}
	return nil
}

func normalizeEnv(env string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(env))
	switch norm {
	case EnvDev, EnvProd, EnvLocal:
		return norm, nil
	}
	return "", fmt.Errorf("unknown env: %s", env)
}
