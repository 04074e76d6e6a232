package csvstore

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pitwall/f1antasy/internal/domain/circuit"
	"github.com/pitwall/f1antasy/internal/domain/constructor"
	"github.com/pitwall/f1antasy/internal/domain/driver"
	"github.com/pitwall/f1antasy/internal/domain/race"
	"github.com/pitwall/f1antasy/internal/domain/result"
)

var (
	raceHeader        = []string{"RaceID", "Season", "Round", "RaceName", "CircuitID", "DateTime", "URL"}
	circuitHeader     = []string{"CircuitID", "Name", "Latitude", "Longitude", "Locality", "Country", "URL"}
	resultHeader      = []string{"RaceID", "Position", "Points", "DriverID", "ConstructorID", "Grid", "Laps", "Status", "Time", "FastestLapTime", "FastestLapSpeed"}
	driverHeader      = []string{"DriverID", "Code", "FirstName", "LastName", "DOB", "Nationality", "URL"}
	constructorHeader = []string{"ConstructorID", "Name", "Nationality", "URL"}
)

func encodeRace(r race.Race) []string {
	return []string{
		itoa(r.RaceID), itoa(r.Season), itoa(r.Round),
		r.RaceName, r.CircuitID,
		r.DateTime.UTC().Format(time.RFC3339),
		r.URL,
	}
}

func decodeRace(record []string) (race.Race, error) {
	raceID, err := atoi(record[0], "RaceID")
	if err != nil {
		return race.Race{}, err
	}
	season, err := atoi(record[1], "Season")
	if err != nil {
		return race.Race{}, err
	}
	round, err := atoi(record[2], "Round")
	if err != nil {
		return race.Race{}, err
	}
	dt, err := time.Parse(time.RFC3339, record[5])
	if err != nil {
		return race.Race{}, fmt.Errorf("parse DateTime %q: %w", record[5], err)
	}

	return race.Race{
		RaceID:    raceID,
		Season:    season,
		Round:     round,
		RaceName:  record[3],
		CircuitID: record[4],
		DateTime:  dt.UTC(),
		URL:       record[6],
	}, nil
}

func encodeCircuit(c circuit.Circuit) []string {
	return []string{c.CircuitID, c.Name, c.Latitude, c.Longitude, c.Locality, c.Country, c.URL}
}

func decodeCircuit(record []string) (circuit.Circuit, error) {
	return circuit.Circuit{
		CircuitID: record[0],
		Name:      record[1],
		Latitude:  record[2],
		Longitude: record[3],
		Locality:  record[4],
		Country:   record[5],
		URL:       record[6],
	}, nil
}

func encodeResult(r result.Result) []string {
	return []string{
		itoa(r.RaceID), itoa(r.Position), itoa(r.Points),
		r.DriverID, r.ConstructorID,
		itoa(r.Grid), itoa(r.Laps),
		r.Status, r.Time, r.FastestLapTime, r.FastestLapSpeed,
	}
}

func decodeResult(record []string) (result.Result, error) {
	raceID, err := atoi(record[0], "RaceID")
	if err != nil {
		return result.Result{}, err
	}
	position, err := atoi(record[1], "Position")
	if err != nil {
		return result.Result{}, err
	}
	points, err := atoi(record[2], "Points")
	if err != nil {
		return result.Result{}, err
	}
	grid, err := atoi(record[5], "Grid")
	if err != nil {
		return result.Result{}, err
	}
	laps, err := atoi(record[6], "Laps")
	if err != nil {
		return result.Result{}, err
	}

	return result.Result{
		RaceID:          raceID,
		Position:        position,
		Points:          points,
		DriverID:        record[3],
		ConstructorID:   record[4],
		Grid:            grid,
		Laps:            laps,
		Status:          record[7],
		Time:            record[8],
		FastestLapTime:  record[9],
		FastestLapSpeed: record[10],
	}, nil
}

func encodeDriver(d driver.Driver) []string {
	return []string{d.DriverID, d.Code, d.FirstName, d.LastName, d.DOB, d.Nationality, d.URL}
}

func decodeDriver(record []string) (driver.Driver, error) {
	return driver.Driver{
		DriverID:    record[0],
		Code:        record[1],
		FirstName:   record[2],
		LastName:    record[3],
		DOB:         record[4],
		Nationality: record[5],
		URL:         record[6],
	}, nil
}

func encodeConstructor(c constructor.Constructor) []string {
	return []string{c.ConstructorID, c.Name, c.Nationality, c.URL}
}

func decodeConstructor(record []string) (constructor.Constructor, error) {
	return constructor.Constructor{
		ConstructorID: record[0],
		Name:          record[1],
		Nationality:   record[2],
		URL:           record[3],
	}, nil
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

func atoi(v, column string) (int, error) {
	out, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", column, v, err)
	}
	return out, nil
}
