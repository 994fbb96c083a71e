package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"tienda/config"
	"tienda/pkg/logger"

	"go.uber.org/zap"
)

// App HTTP server plus the resources it owns
type App struct {
	config  *config.Config
	server  *http.Server
	closers []func() error
}

// Handler root handler, used by tests without a listener
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is done, then drains in-flight requests for at most
// server.shutdown_timeout
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Close releases database, cache and broker connections in reverse order of creation
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
