package httpapi

import (
	"net/http"
)

type favoriteUserRequest struct {
	UserID string `validate:"required,max=120"`
}

type toggleFavoriteDTO struct {
	Slug      string `json:"slug"`
	Favorited bool   `json:"favorited"`
}

type favoritesDTO struct {
	Teams   []teamDTO   `json:"teams"`
	Players []playerDTO `json:"players"`
}

func (h *Handler) ToggleFavoriteTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleFavoriteTeam")
	defer span.End()

	userID := r.PathValue("userID")
	slug := r.PathValue("slug")
	if err := h.validateRequest(ctx, favoriteUserRequest{UserID: userID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	favorited, err := h.favoriteService.ToggleTeam(ctx, userID, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle favorite team failed", "user_id", userID, "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toggleFavoriteDTO{Slug: slug, Favorited: favorited})
}

func (h *Handler) ToggleFavoritePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ToggleFavoritePlayer")
	defer span.End()

	userID := r.PathValue("userID")
	slug := r.PathValue("slug")
	if err := h.validateRequest(ctx, favoriteUserRequest{UserID: userID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	favorited, err := h.favoriteService.TogglePlayer(ctx, userID, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "toggle favorite player failed", "user_id", userID, "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toggleFavoriteDTO{Slug: slug, Favorited: favorited})
}

func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFavorites")
	defer span.End()

	userID := r.PathValue("userID")
	if err := h.validateRequest(ctx, favoriteUserRequest{UserID: userID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	teams, players, err := h.favoriteService.ListFavorites(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "list favorites failed", "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := favoritesDTO{
		Teams:   make([]teamDTO, 0, len(teams)),
		Players: make([]playerDTO, 0, len(players)),
	}
	for _, t := range teams {
		out.Teams = append(out.Teams, teamToDTO(ctx, t))
	}
	for _, p := range players {
		out.Players = append(out.Players, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}
