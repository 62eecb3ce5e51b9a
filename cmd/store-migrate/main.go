package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/landesnetz/landesnetz-api/internal/config"
	"github.com/landesnetz/landesnetz-api/internal/pkg/database"
	"github.com/landesnetz/landesnetz-api/internal/pkg/logger"
	"github.com/landesnetz/landesnetz-api/internal/pkg/recordstore"
)

// store-migrate copies the JSON documents of a data directory into the
// PostgreSQL record store. Existing documents of the same name are replaced.
func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env, LogFile: cfg.LogFile})

	from := flag.String("from", cfg.DataDir, "data directory to read documents from")
	flag.Parse()

	log.Info().Str("from", *from).Msg("Starting store-migrate")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	go func() {
		<-sigChan
		log.Info().Msg("Shutdown signal received")
		cancel()
	}()

	db, err := database.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	dst, err := recordstore.NewPostgresBackend(ctx, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare documents table")
	}
	src, err := recordstore.NewLocalBackend(*from)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open data directory")
	}

	start := time.Now()
	n, err := recordstore.Copy(ctx, dst, src)
	if err != nil {
		log.Error().Err(err).Int("copied", n).Msg("Migration aborted")
		return
	}

	log.Info().
		Int("documents", n).
		Dur("took", time.Since(start)).
		Msg("Migration done")
}
