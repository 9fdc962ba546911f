package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/humanbelnik/kinoswap/rooms/internal/app"
	"github.com/humanbelnik/kinoswap/rooms/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title Rooms API
// @version 1.0
// @description Shared swipe rooms: members swipe on one movie library and get the films they agree on.
// @BasePath /api/v1
// @securityDefinitions.apikey UserToken
// @in header
// @name X-user-token
func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.Log.Level)
	if cfg.Log.Level > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Go(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("service failed")
	}
}
