package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pitwall/f1antasy/internal/platform/logging"
)

// UpdateScheduler runs the incremental sync on a cron schedule so the
// tables track the season without manual triggers.
type UpdateScheduler struct {
	cron    *cron.Cron
	store   *ResultsStore
	logger  *logging.Logger
	timeout time.Duration
}

func NewUpdateScheduler(spec string, store *ResultsStore, logger *logging.Logger, timeout time.Duration) (*UpdateScheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("results store is required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}

	s := &UpdateScheduler{
		cron:    cron.New(),
		store:   store,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, fmt.Errorf("parse update cron spec %q: %w", spec, err)
	}
	return s, nil
}

func (s *UpdateScheduler) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for an in-flight run to finish.
func (s *UpdateScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *UpdateScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	res, err := s.store.Update(ctx)
	if err != nil {
		if errors.Is(err, ErrNoDataLoaded) {
			s.logger.WarnContext(ctx, "scheduled update skipped: no data loaded, scrape first")
			return
		}
		s.logger.ErrorContext(ctx, "scheduled update failed", "error", err)
		return
	}

	s.logger.InfoContext(ctx, "scheduled update finished",
		"status", res.Status,
		"latest_race_id", res.LatestRaceID,
	)
}
