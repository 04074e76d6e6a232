package usecase

import (
	"context"
	"time"
)

// ExternalRaceEvent is the typed decode of one upstream race event.
// The provider applies sentinel defaults before handing it over:
// Season -1 and Round 0 when the payload omits them, -1 for missing
// numeric result fields, "" for missing strings.
type ExternalRaceEvent struct {
	Season    int
	Round     int
	RaceName  string
	URL       string
	StartedAt time.Time
	Circuit   ExternalCircuit
	Results   []ExternalResult
}

type ExternalCircuit struct {
	CircuitID string
	Name      string
	Latitude  string
	Longitude string
	Locality  string
	Country   string
	URL       string
}

type ExternalResult struct {
	Position        int
	Points          int
	Grid            int
	Laps            int
	Status          string
	Time            string
	FastestLapTime  string
	FastestLapSpeed string
	Driver          ExternalDriver
	Constructor     ExternalConstructor
}

type ExternalDriver struct {
	DriverID    string
	Code        string
	GivenName   string
	FamilyName  string
	DateOfBirth string
	Nationality string
	URL         string
}

type ExternalConstructor struct {
	ConstructorID string
	Name          string
	Nationality   string
	URL           string
}

// RaceEventProvider fetches race events from the upstream results API.
//
// FetchRaceEvent reports found=false with a nil error when the round
// does not exist upstream (empty race list or not-found status); that
// is the season enumeration's natural termination signal, not an
// error. Transport and server failures come back as non-nil errors so
// callers can tell an outage from the end of a season.
type RaceEventProvider interface {
	FetchRaceEvent(ctx context.Context, season, round int) (ExternalRaceEvent, bool, error)
	FetchLatestRaceEvent(ctx context.Context) (ExternalRaceEvent, bool, error)
}
