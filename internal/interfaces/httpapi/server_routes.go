package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/v1/teams", handler.ListTeams)
	mux.HandleFunc("GET /api/v1/teams/{slug}", handler.GetTeam)

	mux.HandleFunc("GET /api/v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /api/v1/players/search", handler.SearchPlayers)
	mux.HandleFunc("GET /api/v1/players/{slug}", handler.GetPlayer)
	mux.HandleFunc("GET /api/v1/players/{slug}/live", handler.GetPlayerLive)
	mux.HandleFunc("GET /api/v1/players/{slug}/recent", handler.GetPlayerRecent)
	mux.HandleFunc("GET /api/v1/players/{slug}/averages", handler.GetPlayerAverages)

	mux.HandleFunc("POST /api/v1/users/{userID}/favorites/teams/{slug}", handler.ToggleFavoriteTeam)
	mux.HandleFunc("POST /api/v1/users/{userID}/favorites/players/{slug}", handler.ToggleFavoritePlayer)
	mux.HandleFunc("GET /api/v1/users/{userID}/favorites", handler.ListFavorites)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/sync/{job}", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
}
