package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pitwall/f1antasy/internal/domain/roster"
	"github.com/pitwall/f1antasy/internal/platform/cache"
)

// TeamPoints is one leaderboard row.
type TeamPoints struct {
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// RoundPoints is one team's points in (or through) one round.
type RoundPoints struct {
	Round  int    `json:"round"`
	Team   string `json:"team"`
	Points int    `json:"points"`
}

// TeamResultRow is one driver classification attributed to a fantasy
// team, for the per-team view.
type TeamResultRow struct {
	Round      int    `json:"round"`
	RaceID     int    `json:"race_id"`
	RaceName   string `json:"race_name"`
	DriverID   string `json:"driver_id"`
	DriverCode string `json:"driver_code"`
	Position   int    `json:"position"`
	Points     int    `json:"points"`
}

// StandingsService derives fantasy-league standings by joining the
// result table against the roster. It only reads store snapshots and
// keeps no state of its own beyond a TTL cache keyed by the store
// generation.
type StandingsService struct {
	store      *ResultsStore
	rosterRepo roster.Repository
	cache      *cache.Store
	season     int
}

// NewStandingsService builds the standings reader. season fixes the
// league season; 0 derives it from the latest known race. cacheStore
// may be nil to disable caching.
func NewStandingsService(store *ResultsStore, rosterRepo roster.Repository, cacheStore *cache.Store, season int) *StandingsService {
	return &StandingsService{
		store:      store,
		rosterRepo: rosterRepo,
		cache:      cacheStore,
		season:     season,
	}
}

// Teams lists the fantasy team names in the roster, sorted.
func (s *StandingsService) Teams(ctx context.Context) ([]string, error) {
	entries, err := s.rosterRepo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Team]; ok {
			continue
		}
		seen[entry.Team] = struct{}{}
		out = append(out, entry.Team)
	}
	sort.Strings(out)
	return out, nil
}

// Leaderboard sums league-season points per fantasy team, highest
// first.
func (s *StandingsService) Leaderboard(ctx context.Context) ([]TeamPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Leaderboard")
	defer span.End()

	out, err := s.cached(ctx, "leaderboard", func(ctx context.Context) (any, error) {
		rows, err := s.pointsPerRound(ctx)
		if err != nil {
			return nil, err
		}

		totals := make(map[string]int)
		for _, row := range rows {
			totals[row.Team] += row.Points
		}

		board := make([]TeamPoints, 0, len(totals))
		for team, points := range totals {
			board = append(board, TeamPoints{Team: team, Points: points})
		}
		sort.SliceStable(board, func(i, j int) bool {
			if board[i].Points != board[j].Points {
				return board[i].Points > board[j].Points
			}
			return board[i].Team < board[j].Team
		})
		return board, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]TeamPoints), nil
}

// PointsPerRound reports each team's points round by round.
func (s *StandingsService) PointsPerRound(ctx context.Context) ([]RoundPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.PointsPerRound")
	defer span.End()

	out, err := s.cached(ctx, "rounds", func(ctx context.Context) (any, error) {
		return s.pointsPerRound(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]RoundPoints), nil
}

// CumulativePoints reports each team's running total through each
// round.
func (s *StandingsService) CumulativePoints(ctx context.Context) ([]RoundPoints, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.CumulativePoints")
	defer span.End()

	out, err := s.cached(ctx, "cumulative", func(ctx context.Context) (any, error) {
		rows, err := s.pointsPerRound(ctx)
		if err != nil {
			return nil, err
		}

		running := make(map[string]int)
		cumulative := make([]RoundPoints, 0, len(rows))
		for _, row := range rows {
			running[row.Team] += row.Points
			cumulative = append(cumulative, RoundPoints{
				Round:  row.Round,
				Team:   row.Team,
				Points: running[row.Team],
			})
		}
		return cumulative, nil
	})
	if err != nil {
		return nil, err
	}
	return out.([]RoundPoints), nil
}

// TeamResults lists every league-season classification attributed to
// one fantasy team, joined with driver codes.
func (s *StandingsService) TeamResults(ctx context.Context, team string) ([]TeamResultRow, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.TeamResults")
	defer span.End()

	team = strings.TrimSpace(team)
	if team == "" {
		return nil, fmt.Errorf("%w: team is required", ErrInvalidInput)
	}

	entries, err := s.rosterRepo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	teamByDriver := make(map[string]string, len(entries))
	known := false
	for _, entry := range entries {
		if entry.Team == team {
			known = true
			teamByDriver[entry.DriverID] = entry.Team
		}
	}
	if !known {
		return nil, fmt.Errorf("%w: team=%s", ErrNotFound, team)
	}

	season, err := s.leagueSeason()
	if err != nil {
		return nil, err
	}
	floor := season * 100

	races := make(map[int]struct {
		round int
		name  string
	})
	for _, r := range s.store.Races() {
		races[r.RaceID] = struct {
			round int
			name  string
		}{round: r.Round, name: r.RaceName}
	}
	codeByDriver := make(map[string]string)
	for _, d := range s.store.Drivers() {
		codeByDriver[d.DriverID] = d.Code
	}

	out := make([]TeamResultRow, 0, 64)
	for _, res := range s.store.Results() {
		if res.RaceID <= floor {
			continue
		}
		if _, ok := teamByDriver[res.DriverID]; !ok {
			continue
		}
		meta := races[res.RaceID]
		out = append(out, TeamResultRow{
			Round:      meta.round,
			RaceID:     res.RaceID,
			RaceName:   meta.name,
			DriverID:   res.DriverID,
			DriverCode: codeByDriver[res.DriverID],
			Position:   res.Position,
			Points:     res.Points,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RaceID != out[j].RaceID {
			return out[i].RaceID < out[j].RaceID
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *StandingsService) pointsPerRound(ctx context.Context) ([]RoundPoints, error) {
	entries, err := s.rosterRepo.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}
	teamByDriver := make(map[string]string, len(entries))
	for _, entry := range entries {
		teamByDriver[entry.DriverID] = entry.Team
	}

	season, err := s.leagueSeason()
	if err != nil {
		return nil, err
	}
	floor := season * 100

	roundByRaceID := make(map[int]int)
	for _, r := range s.store.Races() {
		roundByRaceID[r.RaceID] = r.Round
	}

	type key struct {
		round int
		team  string
	}
	totals := make(map[key]int)
	for _, res := range s.store.Results() {
		if res.RaceID <= floor {
			continue
		}
		team, ok := teamByDriver[res.DriverID]
		if !ok {
			continue
		}
		// Points == -1 is the "unknown" sentinel, not a score.
		if res.Points < 0 {
			continue
		}
		totals[key{round: roundByRaceID[res.RaceID], team: team}] += res.Points
	}

	out := make([]RoundPoints, 0, len(totals))
	for k, points := range totals {
		out = append(out, RoundPoints{Round: k.round, Team: k.team, Points: points})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].Team < out[j].Team
	})
	return out, nil
}

func (s *StandingsService) leagueSeason() (int, error) {
	if s.season > 0 {
		return s.season, nil
	}

	season := 0
	for _, r := range s.store.Races() {
		if r.Season > season {
			season = r.Season
		}
	}
	if season == 0 {
		return 0, fmt.Errorf("%w: cannot derive league season", ErrNoDataLoaded)
	}
	return season, nil
}

func (s *StandingsService) cached(ctx context.Context, name string, loader func(context.Context) (any, error)) (any, error) {
	if s.cache == nil {
		return loader(ctx)
	}
	key := fmt.Sprintf("standings:%s:gen=%d", name, s.store.Generation())
	return s.cache.GetOrLoad(ctx, key, loader)
}
