// Package assetproxy runs the asset cache controller as a reverse proxy in
// front of the web app.
package assetproxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/budgetkeeper/internal/assetcache"
	"github.com/dmitrijs2005/budgetkeeper/internal/assetproxy/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const internalPrefix = "/__assetcache"

type App struct {
	config     *config.Config
	log        logging.Logger
	storage    assetcache.CacheStorage
	controller *assetcache.Controller
	registry   *prometheus.Registry
	closer     io.Closer
}

func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	var (
		storage assetcache.CacheStorage = assetcache.NewMemoryStorage()
		closer  io.Closer
	)
	if cfg.CacheDB != "" {
		s, err := assetcache.OpenSQLiteStorage(ctx, cfg.CacheDB)
		if err != nil {
			return nil, fmt.Errorf("cache db init error: %w", err)
		}
		storage, closer = s, s
	}
	return newApp(cfg, log, storage, closer, http.DefaultTransport), nil
}

func newApp(cfg *config.Config, log logging.Logger, storage assetcache.CacheStorage, closer io.Closer, transport http.RoundTripper) *App {
	reg := prometheus.NewRegistry()
	c := assetcache.NewController(cfg.Origin(), storage, log,
		assetcache.WithVersion(cfg.CacheVersion),
		assetcache.WithShellAssets(cfg.ShellAssets),
		assetcache.WithFetchTimeout(cfg.FetchTimeout),
		assetcache.WithTransport(transport),
		assetcache.WithMetrics(assetcache.NewMetrics(reg)),
	)
	return &App{
		config:     cfg,
		log:        log,
		storage:    storage,
		controller: c,
		registry:   reg,
		closer:     closer,
	}
}

// Prepare installs the current generation and, only when that succeeds,
// activates it. A failed install leaves the previous generation serving.
func (app *App) Prepare(ctx context.Context) error {
	if err := app.controller.Install(ctx); err != nil {
		return err
	}
	return app.controller.Activate(ctx)
}

func (app *App) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route(internalPrefix, func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q,"active":%q}`, app.controller.Version(), app.controller.Active())
		})
		r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	})
	r.Handle("/*", app.controller.Handler(app.config.Origin()))

	return r
}

// Run prepares the cache and serves until ctx is done.
func (app *App) Run(ctx context.Context) error {
	app.log.Info(ctx, "Starting asset proxy...", "addr", app.config.ListenAddr, "origin", app.config.OriginURL)

	if err := app.Prepare(ctx); err != nil {
		app.log.Error(ctx, "cache install failed, keeping previous generation", "error", err)
	}

	srv := &http.Server{
		Addr:              app.config.ListenAddr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	app.controller.Wait()

	if app.closer != nil {
		if err := app.closer.Close(); err != nil {
			runErr = errors.Join(runErr, err)
		}
	}
	app.log.Info(ctx, "asset proxy stopped")
	return runErr
}
