package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/chatwire/internal/config"
	"github.com/vovakirdan/chatwire/internal/server"
	"github.com/vovakirdan/chatwire/internal/store"
	"github.com/vovakirdan/chatwire/internal/store/sqlite"
	"github.com/vovakirdan/chatwire/internal/transport/admin"
)

// App wires the credential store, the chat server and the optional
// admin surface together.
type App struct {
	srv             *server.Server
	adminSrv        *http.Server
	creds           store.Credentials
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	creds, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("init credential store: %w", err)
	}

	logger.Info().Str("db_path", cfg.DatabasePath).Msg("credential store initialized")

	srv := server.New(cfg, creds, logger)

	a := &App{
		srv:             srv,
		creds:           creds,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
	if cfg.AdminAddr != "" {
		a.adminSrv = admin.NewServer(cfg.AdminAddr, srv, logger)
	}
	return a, nil
}

// Run starts the chat server (and admin server, if configured) and
// blocks until context cancellation or a fatal error.
func (a *App) Run(ctx context.Context) error {
	defer a.cleanup()

	serverErr := make(chan error, 2)

	go func() { serverErr <- a.srv.Run(ctx) }()

	if a.adminSrv != nil {
		go func() {
			if err := a.adminSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- fmt.Errorf("admin server: %w", err)
				return
			}
			serverErr <- nil
		}()
	}

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		if a.adminSrv != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
			defer cancel()
			if err := a.adminSrv.Shutdown(shutdownCtx); err != nil {
				a.log.Warn().Err(err).Msg("admin server shutdown")
			}
		}
		// The chat server drains its connections on ctx cancellation.
		return <-serverErr
	}
}

// cleanup closes the credential store.
func (a *App) cleanup() {
	if err := a.creds.Close(); err != nil {
		a.log.Warn().Err(err).Msg("failed to close credential store")
	} else {
		a.log.Info().Msg("credential store closed")
	}
}
