package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/pnowak/auxparty/internal/adapters/http"
	"github.com/pnowak/auxparty/internal/app"
	"github.com/pnowak/auxparty/internal/config"
	"github.com/pnowak/auxparty/internal/core"
	"github.com/pnowak/auxparty/internal/library"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Mode == "debug" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	store, err := library.NewStore(cfg.LibraryDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open audio library")
	}

	rooms := core.NewRegistry()
	sessions := app.NewSessionRegistry()
	rt := app.NewRouter(rooms, sessions)

	janitor := &app.Janitor{Rooms: rooms, IdleAfter: cfg.RoomIdleTTL, Interval: cfg.SweepInterval}
	go janitor.Run(ctx)

	r := router.SetupRouter(ctx, cfg, rt, store)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("auxparty server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
