package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/pitwall/f1antasy/external/ergast"
	"github.com/pitwall/f1antasy/internal/config"
	"github.com/pitwall/f1antasy/internal/infrastructure/repository/csvstore"
	"github.com/pitwall/f1antasy/internal/infrastructure/repository/rostercsv"
	"github.com/pitwall/f1antasy/internal/interfaces/httpapi"
	"github.com/pitwall/f1antasy/internal/observability"
	"github.com/pitwall/f1antasy/internal/platform/cache"
	"github.com/pitwall/f1antasy/internal/platform/logging"
	"github.com/pitwall/f1antasy/internal/platform/resilience"
	"github.com/pitwall/f1antasy/internal/usecase"
)

// App owns the wired service: the results store and its snapshot
// files, the upstream client, the HTTP API and the background sync.
type App struct {
	Server *http.Server

	cfg          config.Config
	store        *usecase.ResultsStore
	scheduler    *usecase.UpdateScheduler
	pprofSrv     *http.Server
	stopProfiler func() error
	logger       *slog.Logger
	background   conc.WaitGroup
}

func New(cfg config.Config, logger *slog.Logger, appLogger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if appLogger == nil {
		appLogger = logging.Default()
	}

	snapshots := csvstore.NewStore(cfg.DataDir, csvstore.Files{
		Races:        cfg.RacesFile,
		Circuits:     cfg.CircuitsFile,
		Results:      cfg.ResultsFile,
		Drivers:      cfg.DriversFile,
		Constructors: cfg.ConstructorsFile,
	})

	provider := ergast.NewClient(ergast.ClientConfig{
		BaseURL:    cfg.ErgastBaseURL,
		Timeout:    cfg.ErgastTimeout,
		MaxRetries: cfg.ErgastMaxRetries,
		Logger:     appLogger,
		Breaker: resilience.BreakerConfig{
			Enabled:          cfg.ErgastCircuitEnabled,
			FailureThreshold: cfg.ErgastCircuitFailureCount,
			OpenTimeout:      cfg.ErgastCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.ErgastCircuitHalfOpenMaxReq,
		},
	})

	store := usecase.NewResultsStore(provider, snapshots, appLogger, usecase.ResultsStoreConfig{
		SeasonWorkers: cfg.SeasonWorkers,
	})

	rosterRepo, err := rostercsv.NewRepository(cfg.RosterPath)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	var cacheStore *cache.Store
	if cfg.CacheEnabled {
		cacheStore = cache.NewStore(cfg.CacheTTL)
	}
	standings := usecase.NewStandingsService(store, rosterRepo, cacheStore, cfg.LeagueSeason)

	handler := httpapi.NewHandler(store, standings, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	a := &App{
		Server: server,
		cfg:    cfg,
		store:  store,
		logger: logger,
	}

	if cfg.UpdateCronEnabled {
		scheduler, err := usecase.NewUpdateScheduler(cfg.UpdateCronSpec, store, appLogger, cfg.UpdateTimeout)
		if err != nil {
			return nil, err
		}
		a.scheduler = scheduler
	}

	return a, nil
}

// Start loads the persisted snapshot, kicks the catch-up sync in the
// background and starts the side servers. The HTTP server itself is
// run by the caller.
func (a *App) Start(ctx context.Context) error {
	stopProfiler, err := observability.InitPyroscope(a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("init pyroscope: %w", err)
	}
	a.stopProfiler = stopProfiler
	a.pprofSrv = observability.StartPprofServer(a.cfg, a.logger)

	if err := a.store.Load(ctx); err != nil {
		return err
	}

	if a.store.Loaded() && a.cfg.StartupUpdateEnabled {
		a.background.Go(func() {
			updateCtx, cancel := context.WithTimeout(context.Background(), a.cfg.UpdateTimeout)
			defer cancel()

			res, err := a.store.Update(updateCtx)
			if err != nil {
				a.logger.WarnContext(updateCtx, "startup update failed", "error", err)
				return
			}
			a.logger.InfoContext(updateCtx, "startup update finished",
				"status", res.Status,
				"latest_race_id", res.LatestRaceID,
			)
		})
	}

	if a.scheduler != nil {
		a.scheduler.Start()
		a.logger.Info("update scheduler started", "spec", a.cfg.UpdateCronSpec)
	}

	return nil
}

// Shutdown stops the background workers and side servers. The HTTP
// server shutdown is the caller's, so requests drain before the store
// stops syncing underneath them.
func (a *App) Shutdown(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	a.background.Wait()

	if a.stopProfiler != nil {
		if err := a.stopProfiler(); err != nil {
			a.logger.Warn("stop profiler failed", "error", err)
		}
	}

	timeout := 5 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	return observability.StopPprofServer(a.pprofSrv, a.logger, timeout)
}
