package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pitwall/f1antasy/internal/domain/circuit"
	"github.com/pitwall/f1antasy/internal/domain/constructor"
	"github.com/pitwall/f1antasy/internal/domain/driver"
	"github.com/pitwall/f1antasy/internal/domain/race"
	"github.com/pitwall/f1antasy/internal/domain/result"
	"github.com/pitwall/f1antasy/internal/platform/logging"
)

// TableSet holds the five relational tables the store owns.
type TableSet struct {
	Races        []race.Race
	Circuits     []circuit.Circuit
	Results      []result.Result
	Drivers      []driver.Driver
	Constructors []constructor.Constructor
}

// SnapshotStore persists a TableSet as one mutually consistent
// snapshot. Load reports loaded=false when any table file is missing;
// a partial load is never returned.
type SnapshotStore interface {
	Load(ctx context.Context) (TableSet, bool, error)
	Save(ctx context.Context, tables TableSet) error
}

const (
	UpdateStatusUpdated  = "updated"
	UpdateStatusUpToDate = "up_to_date"

	PersistStatusSaved   = "saved"
	PersistStatusSkipped = "skipped"
)

type UpdateResult struct {
	Status       string `json:"status"`
	LatestRaceID int    `json:"latest_race_id"`
}

type PersistResult struct {
	Status string `json:"status"`
}

// TableSummary is the diagnostic row-count view of the store.
type TableSummary struct {
	Loaded       bool `json:"loaded"`
	Races        int  `json:"races"`
	Circuits     int  `json:"circuits"`
	Results      int  `json:"results"`
	Drivers      int  `json:"drivers"`
	Constructors int  `json:"constructors"`
}

type ResultsStoreConfig struct {
	// SeasonWorkers bounds the per-season fan-out in multi-year
	// scrapes. Rounds within a season are always sequential.
	SeasonWorkers int
}

// ResultsStore owns the five in-memory tables, syncs them from the
// upstream results API and persists them through a SnapshotStore.
// Lifecycle: Load, then Scrape/Update as needed, then read-only
// queries. Consumers always receive copies, never the backing slices.
type ResultsStore struct {
	provider  RaceEventProvider
	snapshots SnapshotStore
	logger    *logging.Logger
	workers   int
	now       func() time.Time

	mu         sync.RWMutex
	loaded     bool
	tables     TableSet
	generation uint64
}

func NewResultsStore(provider RaceEventProvider, snapshots SnapshotStore, logger *logging.Logger, cfg ResultsStoreConfig) *ResultsStore {
	if logger == nil {
		logger = logging.Default()
	}
	workers := cfg.SeasonWorkers
	if workers < 1 {
		workers = 4
	}

	return &ResultsStore{
		provider:  provider,
		snapshots: snapshots,
		logger:    logger,
		workers:   workers,
		now:       time.Now,
	}
}

// Load reads the persisted snapshot. A missing file leaves the store
// in the "no data loaded" state rather than partially populated.
func (s *ResultsStore) Load(ctx context.Context) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsStore.Load")
	defer span.End()

	tables, loaded, err := s.snapshots.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	s.mu.Lock()
	s.tables = tables
	s.loaded = loaded
	if loaded {
		s.generation++
	}
	s.mu.Unlock()

	if loaded {
		s.logger.InfoContext(ctx, "results store loaded",
			"races", len(tables.Races),
			"results", len(tables.Results),
		)
	} else {
		s.logger.InfoContext(ctx, "results store has no persisted data")
	}
	return nil
}

func (s *ResultsStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Generation increments on every table mutation; consumers use it to
// key derived caches.
func (s *ResultsStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// CollectSeason enumerates rounds from 1 until the upstream reports no
// more. A fetch failure mid-season ends the enumeration like a normal
// season boundary (rows collected so far are kept); it is logged so
// outages stay visible.
func (s *ResultsStore) CollectSeason(ctx context.Context, season int) (TableSet, error) {
	var out TableSet

	for round := 1; ; round++ {
		event, found, err := s.provider.FetchRaceEvent(ctx, season, round)
		if err != nil {
			if ctx.Err() != nil {
				return TableSet{}, ctx.Err()
			}
			s.logger.WarnContext(ctx, "round fetch failed, ending season enumeration early",
				"season", season,
				"round", round,
				"error", err,
			)
			break
		}
		if !found {
			s.logger.DebugContext(ctx, "season enumeration complete",
				"season", season,
				"rounds", round-1,
			)
			break
		}

		appendRaceEvent(&out, event)
	}

	return out, nil
}

// CollectRange gathers seasons [startYear, endYear] inclusive over a
// bounded worker pool. Only the reference tables are deduplicated
// here; Race and Result rows are deduplicated at persist time.
func (s *ResultsStore) CollectRange(ctx context.Context, startYear, endYear int) (TableSet, error) {
	if startYear > endYear {
		return TableSet{}, fmt.Errorf("%w: start year %d is after end year %d", ErrInvalidInput, startYear, endYear)
	}

	years := endYear - startYear + 1
	perYear := make([]TableSet, years)
	errs := make([]error, years)

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return TableSet{}, fmt.Errorf("start season worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < years; i++ {
		i := i
		season := startYear + i
		wg.Add(1)
		if submitErr := pool.Submit(func() {
			defer wg.Done()
			perYear[i], errs[i] = s.CollectSeason(ctx, season)
		}); submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit season %d: %w", season, submitErr)
		}
	}
	wg.Wait()

	var out TableSet
	for i := 0; i < years; i++ {
		if errs[i] != nil {
			return TableSet{}, errs[i]
		}
		out.Races = append(out.Races, perYear[i].Races...)
		out.Circuits = append(out.Circuits, perYear[i].Circuits...)
		out.Results = append(out.Results, perYear[i].Results...)
		out.Drivers = append(out.Drivers, perYear[i].Drivers...)
		out.Constructors = append(out.Constructors, perYear[i].Constructors...)
	}

	out.Circuits = circuit.Normalize(out.Circuits)
	out.Drivers = driver.Normalize(out.Drivers)
	out.Constructors = constructor.Normalize(out.Constructors)
	return out, nil
}

// Scrape is the full-history (re)build path: collect the range, merge
// into any loaded tables (concat plus exact-row dedup) or adopt the
// new tables outright, then persist. endYear <= 0 means the current
// year.
func (s *ResultsStore) Scrape(ctx context.Context, startYear, endYear int) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsStore.Scrape")
	defer span.End()

	if endYear <= 0 {
		endYear = s.now().UTC().Year()
	}

	fresh, err := s.CollectRange(ctx, startYear, endYear)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.loaded {
		s.tables = mergeTableSets(s.tables, fresh)
	} else {
		s.tables = fresh
		s.loaded = true
	}
	s.generation++
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "scrape complete",
		"start_year", startYear,
		"end_year", endYear,
		"races_collected", len(fresh.Races),
	)

	if _, err := s.Persist(ctx); err != nil {
		return err
	}
	return nil
}

// Update is the incremental sync: fetch only the latest race, no-op
// when its RaceID is already known, otherwise re-scrape from the
// latest known season through the present. Requires loaded tables.
func (s *ResultsStore) Update(ctx context.Context) (UpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsStore.Update")
	defer span.End()

	if !s.Loaded() {
		return UpdateResult{}, fmt.Errorf("%w: run a scrape first", ErrNoDataLoaded)
	}

	event, found, err := s.provider.FetchLatestRaceEvent(ctx)
	if err != nil {
		return UpdateResult{}, fmt.Errorf("fetch latest race: %w", err)
	}
	if !found {
		return UpdateResult{}, fmt.Errorf("%w: upstream reported no latest race", ErrNotFound)
	}

	latestID := race.DeriveID(event.Season, event.Round)
	if s.hasRaceID(latestID) {
		s.logger.InfoContext(ctx, "data is up to date", "latest_race_id", latestID)
		return UpdateResult{Status: UpdateStatusUpToDate, LatestRaceID: latestID}, nil
	}

	// Re-scraping the whole current season avoids round-level diffing;
	// per-season volume is one request per round.
	if err := s.Scrape(ctx, s.maxSeason(), 0); err != nil {
		return UpdateResult{}, err
	}

	return UpdateResult{Status: UpdateStatusUpdated, LatestRaceID: latestID}, nil
}

// Persist sorts, deduplicates and writes all five tables. It is a
// no-op (PersistStatusSkipped) while tables are unloaded so the
// on-disk files always form a mutually consistent snapshot.
func (s *ResultsStore) Persist(ctx context.Context) (PersistResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResultsStore.Persist")
	defer span.End()

	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		s.logger.WarnContext(ctx, "persist skipped: tables not loaded")
		return PersistResult{Status: PersistStatusSkipped}, nil
	}
	s.tables = normalizeTableSet(s.tables)
	snapshot := s.tables
	s.mu.Unlock()

	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return PersistResult{}, fmt.Errorf("save snapshot: %w", err)
	}
	return PersistResult{Status: PersistStatusSaved}, nil
}

// Races returns a copy of the race table.
func (s *ResultsStore) Races() []race.Race {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]race.Race(nil), s.tables.Races...)
}

func (s *ResultsStore) Circuits() []circuit.Circuit {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]circuit.Circuit(nil), s.tables.Circuits...)
}

func (s *ResultsStore) Results() []result.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]result.Result(nil), s.tables.Results...)
}

func (s *ResultsStore) Drivers() []driver.Driver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]driver.Driver(nil), s.tables.Drivers...)
}

func (s *ResultsStore) Constructors() []constructor.Constructor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]constructor.Constructor(nil), s.tables.Constructors...)
}

func (s *ResultsStore) Summary() TableSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return TableSummary{
		Loaded:       s.loaded,
		Races:        len(s.tables.Races),
		Circuits:     len(s.tables.Circuits),
		Results:      len(s.tables.Results),
		Drivers:      len(s.tables.Drivers),
		Constructors: len(s.tables.Constructors),
	}
}

func (s *ResultsStore) hasRaceID(raceID int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.tables.Races {
		if r.RaceID == raceID {
			return true
		}
	}
	return false
}

func (s *ResultsStore) maxSeason() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	max := 0
	for _, r := range s.tables.Races {
		if r.Season > max {
			max = r.Season
		}
	}
	return max
}

func appendRaceEvent(out *TableSet, event ExternalRaceEvent) {
	raceID := race.DeriveID(event.Season, event.Round)

	out.Races = append(out.Races, race.Race{
		RaceID:    raceID,
		Season:    event.Season,
		Round:     event.Round,
		RaceName:  event.RaceName,
		CircuitID: event.Circuit.CircuitID,
		DateTime:  event.StartedAt.UTC(),
		URL:       event.URL,
	})
	out.Circuits = append(out.Circuits, circuit.Circuit{
		CircuitID: event.Circuit.CircuitID,
		Name:      event.Circuit.Name,
		Latitude:  event.Circuit.Latitude,
		Longitude: event.Circuit.Longitude,
		Locality:  event.Circuit.Locality,
		Country:   event.Circuit.Country,
		URL:       event.Circuit.URL,
	})

	for _, item := range event.Results {
		out.Results = append(out.Results, result.Result{
			RaceID:          raceID,
			Position:        item.Position,
			Points:          item.Points,
			DriverID:        item.Driver.DriverID,
			ConstructorID:   item.Constructor.ConstructorID,
			Grid:            item.Grid,
			Laps:            item.Laps,
			Status:          item.Status,
			Time:            item.Time,
			FastestLapTime:  item.FastestLapTime,
			FastestLapSpeed: item.FastestLapSpeed,
		})
		out.Drivers = append(out.Drivers, driver.Driver{
			DriverID:    item.Driver.DriverID,
			Code:        item.Driver.Code,
			FirstName:   item.Driver.GivenName,
			LastName:    item.Driver.FamilyName,
			DOB:         item.Driver.DateOfBirth,
			Nationality: item.Driver.Nationality,
			URL:         item.Driver.URL,
		})
		out.Constructors = append(out.Constructors, constructor.Constructor{
			ConstructorID: item.Constructor.ConstructorID,
			Name:          item.Constructor.Name,
			Nationality:   item.Constructor.Nationality,
			URL:           item.Constructor.URL,
		})
	}
}

func mergeTableSets(current, fresh TableSet) TableSet {
	return normalizeTableSet(TableSet{
		Races:        append(current.Races, fresh.Races...),
		Circuits:     append(current.Circuits, fresh.Circuits...),
		Results:      append(current.Results, fresh.Results...),
		Drivers:      append(current.Drivers, fresh.Drivers...),
		Constructors: append(current.Constructors, fresh.Constructors...),
	})
}

func normalizeTableSet(tables TableSet) TableSet {
	return TableSet{
		Races:        race.Normalize(tables.Races),
		Circuits:     circuit.Normalize(tables.Circuits),
		Results:      result.Normalize(tables.Results),
		Drivers:      driver.Normalize(tables.Drivers),
		Constructors: constructor.Normalize(tables.Constructors),
	}
}
