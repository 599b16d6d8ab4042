package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/client"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/config"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/connectivity"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/repositories/actions"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/budgetkeeper/internal/client/services"
	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/filex"
	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
)

// App wires the client services for one command invocation.
type App struct {
	config   *config.Config
	log      logging.Logger
	meta     metadata.Repository
	api      client.Client
	signal   connectivity.Signal
	queue    services.QueueService
	tx       services.TransactionService
	registry *prometheus.Registry
	closers  []io.Closer
}

// NewApp opens the local database and builds the API client and the
// connectivity probe selected by cfg.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	dbPath, err := filex.DataFile(cfg.DataDir, "budget.db")
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}
	repos := client.NewRepositories(db)

	token := cfg.AccessToken
	if token == "" {
		saved, err := repos.Metadata.Get(ctx, common.AccessTokenKey)
		if err != nil {
			log.Warn(ctx, "could not read saved token", "error", err)
		}
		token = string(saved)
	}

	api := client.NewHTTPClient(cfg.ServerURL, token, client.WithTimeout(cfg.RequestTimeout))
	closers := []io.Closer{dbCloser{db}}

	var probe connectivity.Probe = connectivity.HTTPProbe(api)
	if cfg.Probe == config.ProbeGRPC {
		gp, err := connectivity.NewGRPCHealthProbe(cfg.GRPCHealthAddr)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		probe = gp
		closers = append(closers, gp)
	}
	signal := connectivity.NewProbeSignal(probe, cfg.OnlineCheckInterval, cfg.RequestTimeout)

	a := newApp(cfg, log, repos.Metadata, api, signal)
	a.closers = closers
	return a, nil
}

func newApp(cfg *config.Config, log logging.Logger, meta metadata.Repository, api client.Client, signal connectivity.Signal) *App {
	reg := prometheus.NewRegistry()
	store := actions.NewStore(meta, log)
	queue := services.NewQueueService(store, api, log, services.NewQueueMetrics(reg))

	return &App{
		config:   cfg,
		log:      log,
		meta:     meta,
		api:      api,
		signal:   signal,
		queue:    queue,
		tx:       services.NewTransactionService(api, queue, signal, cfg.UserID, log),
		registry: reg,
	}
}

type dbCloser struct{ db *sql.DB }

func (d dbCloser) Close() error { return d.db.Close() }

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i].Close())
	}
	return errors.Join(errs...)
}
