package bootstrap

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/yanqian/bazi/internal/domain/bazi"
	"github.com/yanqian/bazi/internal/infra/config"
)

const shutdownTimeout = 10 * time.Second

// App encapsulates the HTTP server lifecycle and the calendar store it reads.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	server   *http.Server
	calendar bazi.CalendarLookup
}

// NewApp is used by Wire to build the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, calendar bazi.CalendarLookup) *App {
	return &App{cfg: cfg, logger: logger.With("component", "bootstrap"), server: server, calendar: calendar}
}

// Run starts the HTTP server and blocks until ctx is done or the server fails.
// The calendar store is closed on the way out when it holds connections.
func (a *App) Run(ctx context.Context) error {
	defer a.closeCalendar()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server starting", "address", a.cfg.HTTP.Address)
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) closeCalendar() {
	closer, ok := a.calendar.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		a.logger.Warn("calendar store close failed", "error", err)
	}
}
