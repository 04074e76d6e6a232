package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/pitwall/f1antasy/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	teams, err := h.standings.Teams(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	board, err := h.standings.Leaderboard(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, board)
}

func (h *Handler) GetPointsPerRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPointsPerRound")
	defer span.End()

	rows, err := h.standings.PointsPerRound(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "points per round failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetCumulativePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCumulativePoints")
	defer span.End()

	rows, err := h.standings.CumulativePoints(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "cumulative points failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}

func (h *Handler) GetTeamResults(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamResults")
	defer span.End()

	team := strings.TrimSpace(r.PathValue("team"))
	if team == "" {
		writeError(ctx, w, fmt.Errorf("%w: team is required", usecase.ErrInvalidInput))
		return
	}

	rows, err := h.standings.TeamResults(ctx, team)
	if err != nil {
		h.logger.WarnContext(ctx, "team results failed", "team", team, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rows)
}
