package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/pitwall/f1antasy/internal/usecase"
)

type scrapeJobRequest struct {
	StartYear int `json:"start_year" validate:"required,min=1950"`
	// EndYear 0 means the current year.
	EndYear int `json:"end_year" validate:"omitempty,min=1950"`
}

// RunUpdateJob triggers the incremental sync: fetch the latest race and
// re-scrape the current season only when it is unknown.
func (h *Handler) RunUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunUpdateJob")
	defer span.End()

	result, err := h.store.Update(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run update job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

// RunScrapeJob rebuilds the tables from the requested year range and
// persists the merged snapshot.
func (h *Handler) RunScrapeJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunScrapeJob")
	defer span.End()

	req, err := h.decodeScrapeJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.EndYear != 0 && req.EndYear < req.StartYear {
		writeError(ctx, w, fmt.Errorf("%w: end_year is before start_year", usecase.ErrInvalidInput))
		return
	}

	if err := h.store.Scrape(ctx, req.StartYear, req.EndYear); err != nil {
		h.logger.WarnContext(ctx, "run scrape job failed",
			"start_year", req.StartYear,
			"end_year", req.EndYear,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, h.store.Summary())
}

// RunPersistJob forces a sort-dedup-write pass over the loaded tables.
func (h *Handler) RunPersistJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPersistJob")
	defer span.End()

	result, err := h.store.Persist(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run persist job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) decodeScrapeJobRequest(r *http.Request) (scrapeJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req scrapeJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return scrapeJobRequest{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return scrapeJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
