package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/matches", handler.ListMatches)
	mux.HandleFunc("GET /v1/matches/{matchID}/stats", handler.GetMatchStats)
	mux.HandleFunc("GET /v1/matches/{matchID}/events", handler.ListMatchEvents)
	mux.HandleFunc("GET /v1/matches/{matchID}/momentum", handler.GetMatchMomentum)
	mux.HandleFunc("GET /v1/matches/{matchID}/pass-network", handler.GetMatchPassNetwork)
	mux.HandleFunc("GET /v1/matches/{matchID}/zones", handler.GetMatchZones)
	mux.HandleFunc("GET /v1/season/leaderboard", handler.GetSeasonLeaderboard)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/ingestion/run", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestion)))
}
