package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	mux.HandleFunc("GET /readyz", handler.Readyz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/summary", handler.GetSummary)
	mux.HandleFunc("GET /v1/races", handler.ListRaces)
	mux.HandleFunc("GET /v1/races/{raceID}/results", handler.ListRaceResults)
	mux.HandleFunc("GET /v1/circuits", handler.ListCircuits)
	mux.HandleFunc("GET /v1/drivers", handler.ListDrivers)
	mux.HandleFunc("GET /v1/constructors", handler.ListConstructors)
	mux.HandleFunc("GET /v1/standings/leaderboard", handler.GetLeaderboard)
	mux.HandleFunc("GET /v1/standings/rounds", handler.GetPointsPerRound)
	mux.HandleFunc("GET /v1/standings/cumulative", handler.GetCumulativePoints)
	mux.HandleFunc("GET /v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /v1/teams/{team}/results", handler.GetTeamResults)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/update", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunUpdateJob)))
	mux.Handle("POST /v1/internal/jobs/scrape", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunScrapeJob)))
	mux.Handle("POST /v1/internal/jobs/persist", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPersistJob)))
}
