package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rohits-web03/notely/internal/api"
	"github.com/rohits-web03/notely/internal/api/handlers"
	"github.com/rohits-web03/notely/internal/api/services"
	"github.com/rohits-web03/notely/internal/auth"
	"github.com/rohits-web03/notely/internal/config"
	"github.com/rohits-web03/notely/internal/logging"
	"github.com/rohits-web03/notely/internal/metrics"
	"github.com/rohits-web03/notely/internal/repositories"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

// @title Notely API
// @version 1.0
// @description Personal notes with per-user access control.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	logger := logging.New(os.Stdout, cfg.Environment, cfg.LogLevel)

	store, err := repositories.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			logger.Warn(context.Background(), "failed to close store", "error", err)
		}
	}()

	attachments, err := repositories.OpenAttachments(ctx, cfg)
	if err != nil {
		return err
	}

	m := metrics.New()
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	var google *services.GoogleProvider
	if cfg.Google.Enabled() {
		google = services.NewGoogleProvider(cfg.Google)
	}

	h := handlers.New(handlers.Options{
		Accounts:      services.NewAccountService(store, tokens, m, logger),
		Notes:         services.NewNoteService(store, attachments, m, logger),
		Attachments:   attachments,
		Google:        google,
		Log:           logger,
		SecureCookies: cfg.IsProduction(),
	})

	server := &http.Server{
		Addr: fmt.Sprintf(":%s", cfg.Port),
		Handler: api.SetupRouter(api.Deps{
			Config:   cfg,
			Handlers: h,
			Tokens:   tokens,
			Metrics:  m,
			Log:      logger,
		}),
		// Timeouts prevent resource exhaustion from slow clients
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info(gctx, "starting notely server", "port", cfg.Port, "db_driver", cfg.DBDriver, "storage_driver", cfg.StorageDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("could not listen on port %s: %w", cfg.Port, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info(context.Background(), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
