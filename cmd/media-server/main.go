package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/dbmongo"
	"seedling/internal/media"
)

func main() {
	cfg := config.LoadConfig()
	common.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	mongoClient, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Close(context.Background())

	storage := dbmongo.NewImageStorage(mongoClient, cfg.Server.MediaBaseURL)
	server := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.MediaServicePort),
		Handler:     media.NewHTTPServer(storage),
		ReadTimeout: cfg.Server.ReadTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", server.Addr).Str("base_url", cfg.Server.MediaBaseURL).Msg("media server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("media server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("media server shutdown")
	}
}
