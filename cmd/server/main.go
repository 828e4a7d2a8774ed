package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	router "github.com/dkeye/Polyglot/internal/adapters/http"
	"github.com/dkeye/Polyglot/internal/adapters/openai"
	"github.com/dkeye/Polyglot/internal/app"
	"github.com/dkeye/Polyglot/internal/app/orch"
	"github.com/dkeye/Polyglot/internal/config"
	"github.com/dkeye/Polyglot/internal/conversion"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping info")
	}

	provider := openai.NewProvider(cfg.OpenAI)
	gateway := conversion.NewGateway(provider, provider, provider, conversion.Options{
		Timeout:       cfg.Conversion.Timeout,
		MaxConcurrent: cfg.Conversion.MaxConcurrent,
		QueueWait:     cfg.Conversion.QueueWait,
	})
	limiter := app.NewClientRateLimiter(cfg.PreviewLimit, cfg.PreviewInterval)
	reg := app.NewRegistry()

	o := &orch.Orchestrator{
		Registry: reg,
		Rooms:    app.NewRoomManager(),
		Gateway:  gateway,
		Policy:   app.PolicyFor(cfg.Backpressure),
		Limiter:  limiter,
	}

	r := router.SetupRouter(ctx, cfg, o)
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().
			Str("addr", addr).
			Str("default_room", cfg.DefaultRoom).
			Str("backpressure", cfg.Backpressure).
			Msg("Polyglot server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down")
		reg.CancelAll()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if cfg.PreviewInterval <= 0 {
			return nil
		}
		ticker := time.NewTicker(cfg.PreviewInterval)
		defer ticker.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-ticker.C:
				limiter.Sweep()
			}
		}
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("Server exited gracefully")
}
