package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog"

	"github.com/Makepad-fr/tada/internal/app"
	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/fakeapi"
)

func main() {
	bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.ReadFakeAPI()
	if err != nil {
		bootLogger.Fatal().
			Err(err).
			Msg("failed to read env")
	}

	logger, closeLog, err := app.NewLogger(cfg.Env, cfg.Log, os.Stderr)
	if err != nil {
		bootLogger.Fatal().
			Err(err).
			Msg("failed to init logger")
	}
	defer closeLog()

	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	server, err := fakeapi.New(cfg.Username, cfg.Password, fakeapi.WithLogger(logger))
	if err != nil {
		logger.Fatal().
			Err(err).
			Msg("failed to create fake api")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("username", cfg.Username).
		Msg("fake api accepts this user")
	if err := server.ListenAndServe(ctx, cfg.Addr, cfg.ShutdownTimeout); err != nil {
		logger.Error().
			Err(err).
			Msg("fake api stopped")
		os.Exit(1)
	}
}
