package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/Makepad-fr/tada/internal/api"
)

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if _, err := api.ParseBaseURL(cfg.API.BaseURL); err != nil {
		return nil, fmt.Errorf("TADA_API_URL: %w", err)
	}
	if cfg.API.LoginURL != "" {
		if _, err := api.ParseBaseURL(cfg.API.LoginURL); err != nil {
			return nil, fmt.Errorf("TADA_LOGIN_URL: %w", err)
		}
	}
	return cfg, nil
}

// ReadFakeAPI reads the fake API server settings.
func ReadFakeAPI() (*FakeAPIConfig, error) {
	cfg := new(FakeAPIConfig)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Usage describes every variable Config reads.
func Usage() string {
	desc, err := cleanenv.GetDescription(new(Config), nil)
	if err != nil {
		return ""
	}
	return desc
}
