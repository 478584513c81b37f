package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/solia/internal/config"
	"git.home.luguber.info/inful/solia/internal/logfields"
	"git.home.luguber.info/inful/solia/internal/metrics"
	"git.home.luguber.info/inful/solia/internal/retry"
	"git.home.luguber.info/inful/solia/internal/state"
	"git.home.luguber.info/inful/solia/internal/timer"
	"git.home.luguber.info/inful/solia/internal/watch"
)

// DaemonCmd runs the tracker resident: it recovers any open entry, keeps the
// elapsed tick going, refreshes state when another process writes the
// database, and optionally serves Prometheus metrics.
type DaemonCmd struct{}

func (c *DaemonCmd) Run(_ *Global, root *CLI) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rec, registry := buildRecorder(root)

	app, err := openApp(ctx, root, timer.WithRecorder(rec))
	if err != nil {
		return err
	}
	defer app.Close()

	// The resident honors the configured log level and format; one-shot
	// commands stay on the terse default.
	configureLogging(app.Config, root.Verbose)

	unsubscribe := app.Hub.Subscribe(state.EventElapsedTick, func(evt state.Event) {
		slog.Debug("timer tick", logfields.Elapsed(evt.ElapsedSec))
	})
	defer unsubscribe()

	if app.Config.Watch.Enabled {
		// Another process may still hold the write lock right after the
		// change event, so refresh with backoff.
		policy := retry.DefaultPolicy()
		watcher, err := watch.New(app.Config.DatabasePath(), app.Config.Watch.Debounce, func() {
			refreshCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
			defer done()
			err := policy.Do(refreshCtx, func() error {
				return app.Core.RefreshActiveEntry(refreshCtx)
			})
			if err != nil {
				slog.Warn("refreshing after external change", logfields.Error(err))
				return
			}
			app.Core.NotifyEntriesUpdated()
		})
		if err != nil {
			return err
		}
		if err := watcher.Start(ctx); err != nil {
			return err
		}
		defer watcher.Stop()
	}

	var srv *http.Server
	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.HTTPHandler(registry))
		srv = &http.Server{
			Addr:              app.Config.Metrics.Listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			slog.Info("metrics listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server", logfields.Error(err))
			}
		}()
	}

	slog.Info("daemon running", logfields.Path(app.Config.DatabasePath()))
	<-ctx.Done()
	slog.Info("shutdown signal received")

	if srv != nil {
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("stopping metrics server", logfields.Error(err))
		}
	}
	return nil
}

// buildRecorder returns a Prometheus-backed recorder when metrics are
// enabled, otherwise a noop. The registry is nil in the noop case. Config
// errors are left for openApp to report.
func buildRecorder(root *CLI) (metrics.Recorder, *prometheus.Registry) {
	cfg, err := config.Load(root.configPath())
	if err != nil || !cfg.Metrics.Enabled {
		return metrics.NoopRecorder{}, nil
	}
	registry := prometheus.NewRegistry()
	return metrics.NewPrometheusRecorder(registry), registry
}
