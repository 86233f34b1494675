package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/yangwenmai/herogen/internal/api"
	"github.com/yangwenmai/herogen/internal/config"
	"github.com/yangwenmai/herogen/internal/store"
)

const shutdownTimeout = 5 * time.Second

// serve runs the preview server until ctx is canceled.
func serve(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	opts := []api.Option{
		api.WithCORSOrigin(cfg.CORSOrigin),
		api.WithRunsLimit(cfg.HistoryLimit),
	}
	if cfg.HistoryEnabled() {
		s, err := store.Open(cfg.HistoryDB)
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer s.Close()
		opts = append(opts, api.WithRuns(s))
	}

	ln, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return err
	}
	httpServer := &http.Server{
		Handler:           api.New(cfg.PublicDir, opts...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.Serve(ln) }()
	_, _ = fmt.Fprintf(stdout, "herogen preview listening on http://%s\n", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}
