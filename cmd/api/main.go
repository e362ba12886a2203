package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/reflection"

	"seedling/internal/common"
	"seedling/internal/config"
	"seedling/internal/wire"
)

func main() {
	cfg := config.LoadConfig()
	common.SetupLogger(cfg.Logging.Level, cfg.Logging.Format)

	app, cleanup, err := wire.InitializeApplication(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if app.Relay != nil {
		go app.Relay.Supervise(ctx, time.Second, 30*time.Second)
	}

	httpServer := &http.Server{
		Addr:        net.JoinHostPort(cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:     app.Router,
		ReadTimeout: cfg.Server.ReadTimeout,
		// the event stream clears its own write deadline
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if !cfg.IsProduction() {
		reflection.Register(app.GRPC)
	}
	grpcListener, err := net.Listen("tcp", net.JoinHostPort(cfg.Server.Host, cfg.Server.GRPCPort))
	if err != nil {
		log.Fatal().Err(err).Str("port", cfg.Server.GRPCPort).Msg("failed to listen")
	}

	errCh := make(chan error, 2)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP API listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		log.Info().Str("addr", grpcListener.Addr().String()).Msg("realtime gRPC listening")
		if err := app.GRPC.Serve(grpcListener); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-errCh:
		log.Error().Err(err).Msg("server failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// close live streams first so Shutdown does not wait on them
	app.Hub.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown")
	}
	app.GRPC.GracefulStop()
	app.Notifications.Shutdown(shutdownCtx)

	log.Info().Msg("seedling API stopped")
}
