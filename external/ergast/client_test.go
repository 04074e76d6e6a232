package ergast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pitwall/f1antasy/internal/platform/logging"
	"github.com/pitwall/f1antasy/internal/platform/resilience"
)

const bahrainPayload = `{
  "MRData": {
    "RaceTable": {
      "season": "2021",
      "Races": [
        {
          "season": "2021",
          "round": "1",
          "url": "http://en.wikipedia.org/wiki/2021_Bahrain_Grand_Prix",
          "raceName": "Bahrain Grand Prix",
          "Circuit": {
            "circuitId": "bahrain",
            "url": "http://en.wikipedia.org/wiki/Bahrain_International_Circuit",
            "circuitName": "Bahrain International Circuit",
            "Location": {
              "lat": "26.0325",
              "long": "50.5106",
              "locality": "Sakhir",
              "country": "Bahrain"
            }
          },
          "date": "2021-03-28",
          "time": "15:00:00Z",
          "Results": [
            {
              "position": "1",
              "points": "25",
              "grid": "2",
              "laps": "56",
              "status": "Finished",
              "Driver": {
                "driverId": "hamilton",
                "code": "HAM",
                "url": "http://en.wikipedia.org/wiki/Lewis_Hamilton",
                "givenName": "Lewis",
                "familyName": "Hamilton",
                "dateOfBirth": "1985-01-07",
                "nationality": "British"
              },
              "Constructor": {
                "constructorId": "mercedes",
                "url": "http://en.wikipedia.org/wiki/Mercedes-Benz_in_Formula_One",
                "name": "Mercedes",
                "nationality": "German"
              },
              "Time": {"millis": "5523897", "time": "1:32:03.897"},
              "FastestLap": {
                "rank": "2",
                "lap": "44",
                "Time": {"time": "1:33.684"},
                "AverageSpeed": {"units": "kph", "speed": "207.235"}
              }
            },
            {
              "position": "19",
              "points": "0",
              "grid": "0",
              "laps": "51",
              "status": "Retired",
              "Driver": {
                "driverId": "latifi",
                "code": "LAT",
                "givenName": "Nicholas",
                "familyName": "Latifi",
                "dateOfBirth": "1995-06-29",
                "nationality": "Canadian"
              },
              "Constructor": {
                "constructorId": "williams",
                "name": "Williams",
                "nationality": "British"
              }
            }
          ]
        }
      ]
    }
  }
}`

const emptyPayload = `{"MRData": {"RaceTable": {"season": "2021", "Races": []}}}`

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(ClientConfig{
		BaseURL:    srv.URL,
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		Logger:     logging.NewNop(),
	})
}

func TestFetchRaceEvent_DecodesPayloadWithSentinels(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(bahrainPayload))
	}), 0)

	event, found, err := client.FetchRaceEvent(context.Background(), 2021, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "/f1/2021/1/results.json", gotPath)

	assert.Equal(t, 2021, event.Season)
	assert.Equal(t, 1, event.Round)
	assert.Equal(t, "Bahrain Grand Prix", event.RaceName)
	assert.Equal(t, time.Date(2021, 3, 28, 15, 0, 0, 0, time.UTC), event.StartedAt)
	assert.Equal(t, "bahrain", event.Circuit.CircuitID)
	assert.Equal(t, "Sakhir", event.Circuit.Locality)

	require.Len(t, event.Results, 2)
	winner := event.Results[0]
	assert.Equal(t, 1, winner.Position)
	assert.Equal(t, 25, winner.Points)
	assert.Equal(t, "1:32:03.897", winner.Time)
	assert.Equal(t, "1:33.684", winner.FastestLapTime)
	assert.Equal(t, "207.235", winner.FastestLapSpeed)
	assert.Equal(t, "hamilton", winner.Driver.DriverID)
	assert.Equal(t, "mercedes", winner.Constructor.ConstructorID)

	retired := event.Results[1]
	assert.Equal(t, "", retired.Time, "missing Time block maps to empty string")
	assert.Equal(t, "", retired.FastestLapTime)
	assert.Equal(t, "", retired.FastestLapSpeed)
}

func TestFetchRaceEvent_EmptyRaceListMeansNotFound(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(emptyPayload))
	}), 0)

	_, found, err := client.FetchRaceEvent(context.Background(), 2021, 99)
	require.NoError(t, err)
	assert.False(t, found, "empty race list is the end of the season, not an error")
}

func TestFetchRaceEvent_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}), 0)

	_, _, err := client.FetchRaceEvent(context.Background(), 0, 1)
	require.Error(t, err)
	_, _, err = client.FetchRaceEvent(context.Background(), 2021, 0)
	require.Error(t, err)
}

func TestFetchRaceEvent_ServerErrorIsRetriedThenFails(t *testing.T) {
	t.Parallel()

	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}), 2)

	_, _, err := client.FetchRaceEvent(context.Background(), 2021, 1)
	require.Error(t, err)
	assert.Equal(t, 3, attempts, "initial attempt plus two retries")
}

func TestFetchRaceEvent_ClientErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}), 3)

	_, _, err := client.FetchRaceEvent(context.Background(), 2021, 1)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestFetchRaceEvent_RecoversAfterRetryableStatus(t *testing.T) {
	t.Parallel()

	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(bahrainPayload))
	}), 2)

	event, found, err := client.FetchRaceEvent(context.Background(), 2021, 1)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 202101, event.Season*100+event.Round)
	assert.Equal(t, 2, attempts)
}

func TestFetchLatestRaceEvent_UsesCurrentLastPath(t *testing.T) {
	t.Parallel()

	var gotPath string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(bahrainPayload))
	}), 0)

	_, found, err := client.FetchLatestRaceEvent(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "/f1/current/last/results.json", gotPath)
}

func TestDoJSON_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(ClientConfig{
		BaseURL:    srv.URL,
		Timeout:    time.Second,
		MaxRetries: 0,
		Logger:     logging.NewNop(),
		Breaker: resilience.BreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	ctx := context.Background()
	_, _, err := client.FetchRaceEvent(ctx, 2021, 1)
	require.Error(t, err)
	_, _, err = client.FetchRaceEvent(ctx, 2021, 2)
	require.Error(t, err)

	_, _, err = client.FetchRaceEvent(ctx, 2021, 3)
	require.ErrorContains(t, err, "temporarily unavailable")
	assert.Equal(t, resilience.BreakerOpen, client.breaker.State())
}

func TestMapRaceEvent_SentinelDefaults(t *testing.T) {
	t.Parallel()

	event := mapRaceEvent(raceData{
		RaceName: "Indianapolis 500",
		Results: []resultData{
			{Status: "Finished"},
		},
	})

	assert.Equal(t, -1, event.Season)
	assert.Equal(t, 0, event.Round)
	assert.Equal(t, time.Date(1900, 1, 1, 1, 1, 1, 0, time.UTC), event.StartedAt)

	require.Len(t, event.Results, 1)
	res := event.Results[0]
	assert.Equal(t, -1, res.Position)
	assert.Equal(t, -1, res.Points)
	assert.Equal(t, -1, res.Grid)
	assert.Equal(t, -1, res.Laps)
}

func TestMapRaceEvent_FractionalPointsKeepIntegerPart(t *testing.T) {
	t.Parallel()

	event := mapRaceEvent(raceData{
		Season: "2021",
		Round:  "10",
		Date:   "2021-07-18",
		Results: []resultData{
			{Position: "1", Points: "12.5"},
		},
	})

	require.Len(t, event.Results, 1)
	assert.Equal(t, 12, event.Results[0].Points)
	assert.Equal(t, time.Date(2021, 7, 18, 1, 1, 1, 0, time.UTC), event.StartedAt,
		"missing time falls back to the default clock")
}
