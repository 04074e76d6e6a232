package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/pitwall/f1antasy/internal/domain/circuit"
	"github.com/pitwall/f1antasy/internal/domain/constructor"
	"github.com/pitwall/f1antasy/internal/domain/driver"
	"github.com/pitwall/f1antasy/internal/domain/race"
	"github.com/pitwall/f1antasy/internal/domain/result"
	"github.com/pitwall/f1antasy/internal/usecase"
)

type Handler struct {
	store     *usecase.ResultsStore
	standings *usecase.StandingsService
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(
	store *usecase.ResultsStore,
	standings *usecase.StandingsService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		store:     store,
		standings: standings,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports not-ready until the result tables carry data, so the
// service only receives traffic once a snapshot or scrape landed.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Readyz")
	defer span.End()

	if !h.store.Loaded() {
		writeError(ctx, w, fmt.Errorf("%w: tables are empty", usecase.ErrNoDataLoaded))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ready"})
}

func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSummary")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.store.Summary())
}

func (h *Handler) ListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaces")
	defer span.End()

	races := h.store.Races()
	items := make([]raceDTO, 0, len(races))
	for _, v := range races {
		items = append(items, raceToDTO(ctx, v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListRaceResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRaceResults")
	defer span.End()

	raceID, err := strconv.Atoi(strings.TrimSpace(r.PathValue("raceID")))
	if err != nil || raceID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: raceID must be a positive integer", usecase.ErrInvalidInput))
		return
	}

	known := false
	for _, v := range h.store.Races() {
		if v.RaceID == raceID {
			known = true
			break
		}
	}
	if !known {
		writeError(ctx, w, fmt.Errorf("%w: race_id=%d", usecase.ErrNotFound, raceID))
		return
	}

	items := make([]resultDTO, 0, 24)
	for _, v := range h.store.Results() {
		if v.RaceID != raceID {
			continue
		}
		items = append(items, resultToDTO(ctx, v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListCircuits(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCircuits")
	defer span.End()

	circuits := h.store.Circuits()
	items := make([]circuitDTO, 0, len(circuits))
	for _, v := range circuits {
		items = append(items, circuitToDTO(ctx, v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListDrivers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListDrivers")
	defer span.End()

	drivers := h.store.Drivers()
	items := make([]driverDTO, 0, len(drivers))
	for _, v := range drivers {
		items = append(items, driverToDTO(ctx, v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListConstructors(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListConstructors")
	defer span.End()

	constructors := h.store.Constructors()
	items := make([]constructorDTO, 0, len(constructors))
	for _, v := range constructors {
		items = append(items, constructorToDTO(ctx, v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type raceDTO struct {
	RaceID    int    `json:"raceId"`
	Season    int    `json:"season"`
	Round     int    `json:"round"`
	Name      string `json:"name"`
	CircuitID string `json:"circuitId"`
	StartsAt  string `json:"startsAtUtc"`
	URL       string `json:"url"`
}

type resultDTO struct {
	RaceID          int    `json:"raceId"`
	Position        int    `json:"position"`
	Points          int    `json:"points"`
	DriverID        string `json:"driverId"`
	ConstructorID   string `json:"constructorId"`
	Grid            int    `json:"grid"`
	Laps            int    `json:"laps"`
	Status          string `json:"status"`
	Time            string `json:"time,omitempty"`
	FastestLapTime  string `json:"fastestLapTime,omitempty"`
	FastestLapSpeed string `json:"fastestLapSpeed,omitempty"`
}

type circuitDTO struct {
	CircuitID string `json:"circuitId"`
	Name      string `json:"name"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Locality  string `json:"locality"`
	Country   string `json:"country"`
	URL       string `json:"url"`
}

type driverDTO struct {
	DriverID    string `json:"driverId"`
	Code        string `json:"code"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Nationality string `json:"nationality"`
	URL         string `json:"url"`
}

type constructorDTO struct {
	ConstructorID string `json:"constructorId"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality"`
	URL           string `json:"url"`
}

func raceToDTO(ctx context.Context, v race.Race) raceDTO {
	ctx, span := startSpan(ctx, "httpapi.raceToDTO")
	defer span.End()

	return raceDTO{
		RaceID:    v.RaceID,
		Season:    v.Season,
		Round:     v.Round,
		Name:      v.RaceName,
		CircuitID: v.CircuitID,
		StartsAt:  v.DateTime.UTC().Format(time.RFC3339),
		URL:       v.URL,
	}
}

func resultToDTO(ctx context.Context, v result.Result) resultDTO {
	ctx, span := startSpan(ctx, "httpapi.resultToDTO")
	defer span.End()

	return resultDTO{
		RaceID:          v.RaceID,
		Position:        v.Position,
		Points:          v.Points,
		DriverID:        v.DriverID,
		ConstructorID:   v.ConstructorID,
		Grid:            v.Grid,
		Laps:            v.Laps,
		Status:          v.Status,
		Time:            v.Time,
		FastestLapTime:  v.FastestLapTime,
		FastestLapSpeed: v.FastestLapSpeed,
	}
}

func circuitToDTO(ctx context.Context, v circuit.Circuit) circuitDTO {
	ctx, span := startSpan(ctx, "httpapi.circuitToDTO")
	defer span.End()

	return circuitDTO{
		CircuitID: v.CircuitID,
		Name:      v.Name,
		Latitude:  v.Latitude,
		Longitude: v.Longitude,
		Locality:  v.Locality,
		Country:   v.Country,
		URL:       v.URL,
	}
}

func driverToDTO(ctx context.Context, v driver.Driver) driverDTO {
	ctx, span := startSpan(ctx, "httpapi.driverToDTO")
	defer span.End()

	return driverDTO{
		DriverID:    v.DriverID,
		Code:        v.Code,
		FirstName:   v.FirstName,
		LastName:    v.LastName,
		DateOfBirth: v.DOB,
		Nationality: v.Nationality,
		URL:         v.URL,
	}
}

func constructorToDTO(ctx context.Context, v constructor.Constructor) constructorDTO {
	ctx, span := startSpan(ctx, "httpapi.constructorToDTO")
	defer span.End()

	return constructorDTO{
		ConstructorID: v.ConstructorID,
		Name:          v.Name,
		Nationality:   v.Nationality,
		URL:           v.URL,
	}
}
