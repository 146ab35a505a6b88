package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	teamID, err := queryInt64(r, "team")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	perPage, err := queryInt(r, "per_page")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.ListPlayers(ctx, usecase.PlayerListInput{
		TeamID:    teamID,
		SportSlug: r.URL.Query().Get("sport"),
		Position:  r.URL.Query().Get("position"),
		Query:     r.URL.Query().Get("q"),
		Page:      page,
		PerPage:   perPage,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "list players failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	slug := r.PathValue("slug")
	item, err := h.playerService.GetPlayerBySlug(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDetailDTO(ctx, item))
}

type searchPlayersRequest struct {
	Query string `validate:"required,min=2,max=80"`
}

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := r.URL.Query().Get("q")
	if err := h.validateRequest(ctx, searchPlayersRequest{Query: query}); err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	players, err := h.playerService.SearchPlayers(ctx, query, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "search players failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerAverages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerAverages")
	defer span.End()

	slug := r.PathValue("slug")
	current, previous, err := h.playerService.Averages(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "player averages failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, averagesResponse{
		OK:       true,
		Current:  current,
		Previous: previous,
	})
}

type averagesResponse struct {
	OK       bool               `json:"ok"`
	Current  map[string]float64 `json:"current"`
	Previous map[string]float64 `json:"previous"`
}

type playerDTO struct {
	ID       int64  `json:"id"`
	TeamID   int64  `json:"teamId"`
	Name     string `json:"name"`
	First    string `json:"firstName,omitempty"`
	Last     string `json:"lastName,omitempty"`
	Slug     string `json:"slug"`
	Position string `json:"position,omitempty"`
	Jersey   string `json:"jersey,omitempty"`
	Photo    string `json:"photo,omitempty"`
	Active   bool   `json:"active"`
}

type playerDetailDTO struct {
	playerDTO
	BirthDate           string           `json:"birthDate,omitempty"`
	BirthPlace          string           `json:"birthPlace,omitempty"`
	BirthCountry        string           `json:"birthCountry,omitempty"`
	Nationality         string           `json:"nationality,omitempty"`
	HeightCM            *int             `json:"heightCm,omitempty"`
	WeightKG            *int             `json:"weightKg,omitempty"`
	Biography           string           `json:"biography,omitempty"`
	CurrentSeasonStats  json.RawMessage  `json:"currentSeasonStats,omitempty"`
	PreviousSeasonStats json.RawMessage  `json:"previousSeasonStats,omitempty"`
	RecentGames         json.RawMessage  `json:"recentGames,omitempty"`
	CareerStats         json.RawMessage  `json:"careerStats,omitempty"`
	News                []player.Article `json:"news,omitempty"`
	StatsSyncedAt       string           `json:"statsSyncedAt,omitempty"`
	SyncedAt            string           `json:"syncedAt,omitempty"`
}

func playerToDTO(ctx context.Context, v player.Player) playerDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDTO")
	defer span.End()

	return playerDTO{
		ID:       v.ID,
		TeamID:   v.TeamID,
		Name:     v.FullName(),
		First:    v.FirstName,
		Last:     v.LastName,
		Slug:     v.Slug,
		Position: v.Position,
		Jersey:   v.Jersey,
		Photo:    v.Photo,
		Active:   v.Active,
	}
}

func playerToDetailDTO(ctx context.Context, v player.Player) playerDetailDTO {
	ctx, span := startSpan(ctx, "httpapi.playerToDetailDTO")
	defer span.End()

	birthDate := ""
	if v.BirthDate != nil {
		birthDate = v.BirthDate.UTC().Format(time.DateOnly)
	}

	return playerDetailDTO{
		playerDTO:           playerToDTO(ctx, v),
		BirthDate:           birthDate,
		BirthPlace:          v.BirthPlace,
		BirthCountry:        v.BirthCountry,
		Nationality:         v.Nationality,
		HeightCM:            v.HeightCM,
		WeightKG:            v.WeightKG,
		Biography:           v.Biography,
		CurrentSeasonStats:  rawBlob(v.CurrentSeasonStats),
		PreviousSeasonStats: rawBlob(v.PreviousSeasonStats),
		RecentGames:         rawBlob(v.RecentGames),
		CareerStats:         rawBlob(v.CareerStats),
		News:                v.News,
		StatsSyncedAt:       formatOptionalTime(v.StatsSyncedAt),
		SyncedAt:            formatOptionalTime(v.SyncedAt),
	}
}
