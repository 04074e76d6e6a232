package ergast

import (
	"strconv"
	"time"

	"github.com/pitwall/f1antasy/internal/usecase"
)

// The upstream omits the time for some historical races and both date
// and time for a handful of very old ones. The defaults keep every row
// carrying a comparable timestamp.
const (
	defaultRaceDate = "1900-01-01"
	defaultRaceTime = "01:01:01Z"

	startedAtLayout = "2006-01-02 15:04:05Z07:00"
)

func mapRaceEvent(item raceData) usecase.ExternalRaceEvent {
	event := usecase.ExternalRaceEvent{
		Season:    parseIntOr(item.Season, -1),
		Round:     parseIntOr(item.Round, 0),
		RaceName:  item.RaceName,
		URL:       item.URL,
		StartedAt: parseStartedAt(item.Date, item.Time),
		Circuit: usecase.ExternalCircuit{
			CircuitID: item.Circuit.CircuitID,
			Name:      item.Circuit.CircuitName,
			Latitude:  item.Circuit.Location.Lat,
			Longitude: item.Circuit.Location.Long,
			Locality:  item.Circuit.Location.Locality,
			Country:   item.Circuit.Location.Country,
			URL:       item.Circuit.URL,
		},
	}

	event.Results = make([]usecase.ExternalResult, 0, len(item.Results))
	for _, res := range item.Results {
		event.Results = append(event.Results, mapResult(res))
	}
	return event
}

func mapResult(res resultData) usecase.ExternalResult {
	out := usecase.ExternalResult{
		Position: parseIntOr(res.Position, -1),
		Points:   parseIntOr(res.Points, -1),
		Grid:     parseIntOr(res.Grid, -1),
		Laps:     parseIntOr(res.Laps, -1),
		Status:   res.Status,
		Driver: usecase.ExternalDriver{
			DriverID:    res.Driver.DriverID,
			Code:        res.Driver.Code,
			GivenName:   res.Driver.GivenName,
			FamilyName:  res.Driver.FamilyName,
			DateOfBirth: res.Driver.DateOfBirth,
			Nationality: res.Driver.Nationality,
			URL:         res.Driver.URL,
		},
		Constructor: usecase.ExternalConstructor{
			ConstructorID: res.Constructor.ConstructorID,
			Name:          res.Constructor.Name,
			Nationality:   res.Constructor.Nationality,
			URL:           res.Constructor.URL,
		},
	}

	if res.Time != nil {
		out.Time = res.Time.Time
	}
	if res.FastestLap != nil {
		if res.FastestLap.Time != nil {
			out.FastestLapTime = res.FastestLap.Time.Time
		}
		if res.FastestLap.AverageSpeed != nil {
			out.FastestLapSpeed = res.FastestLap.AverageSpeed.Speed
		}
	}
	return out
}

// parseIntOr falls back on any missing or malformed numeric string.
// Points arrive as "18.5" for some half-point races; the integer part
// is kept rather than rejecting the row.
func parseIntOr(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return fallback
}

// parseStartedAt combines the payload's separate date and time fields
// into a single UTC timestamp, substituting defaults per missing field.
func parseStartedAt(date, clock string) time.Time {
	if date == "" {
		date = defaultRaceDate
	}
	if clock == "" {
		clock = defaultRaceTime
	}
	ts, err := time.Parse(startedAtLayout, date+" "+clock)
	if err != nil {
		ts, _ = time.Parse(startedAtLayout, defaultRaceDate+" "+defaultRaceTime)
	}
	return ts.UTC()
}
