package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/usecase"
)

func (h *Handler) ListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeams")
	defer span.End()

	leagueID, err := queryInt64(r, "league")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	national, err := queryBoolPtr(r, "national")
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

	input := usecase.TeamListInput{
		SportSlug:  r.URL.Query().Get("sport"),
		LeagueID:   leagueID,
		Query:      r.URL.Query().Get("q"),
		Conference: r.URL.Query().Get("conference"),
		Division:   r.URL.Query().Get("division"),
		National:   national,
		Page:       page,
		PerPage:    perPage,
	}

	teams, err := h.teamService.ListTeams(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "sport", input.SportSlug, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeam")
	defer span.End()

	slug := r.PathValue("slug")
	item, err := h.teamService.GetTeamBySlug(ctx, slug)
	if err != nil {
		h.logger.WarnContext(ctx, "get team failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(ctx, item))
}

type venueDTO struct {
	Name     string `json:"name,omitempty"`
	Address  string `json:"address,omitempty"`
	City     string `json:"city,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
	Surface  string `json:"surface,omitempty"`
	Image    string `json:"image,omitempty"`
}

type teamDTO struct {
	ID       int64           `json:"id"`
	SportID  int64           `json:"sportId"`
	LeagueID *int64          `json:"leagueId,omitempty"`
	Name     string          `json:"name"`
	Slug     string          `json:"slug"`
	Code     string          `json:"code,omitempty"`
	Country  string          `json:"country,omitempty"`
	City     string          `json:"city,omitempty"`
	State    string          `json:"state,omitempty"`
	Founded  *int            `json:"founded,omitempty"`
	Venue    *venueDTO       `json:"venue,omitempty"`
	Logo     string          `json:"logo,omitempty"`
	Colors   []string        `json:"colors,omitempty"`
	Extra    json.RawMessage `json:"extra,omitempty"`
	SyncedAt string          `json:"syncedAt,omitempty"`
	Active   bool            `json:"active"`
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:       v.ID,
		SportID:  v.SportID,
		LeagueID: v.LeagueID,
		Name:     v.Name,
		Slug:     v.Slug,
		Code:     v.Code,
		Country:  v.Country,
		City:     v.City,
		State:    v.State,
		Founded:  v.Founded,
		Venue:    venueToDTO(v.Venue),
		Logo:     v.Logo,
		Colors:   teamColorArray(v.PrimaryColor, v.SecondaryColor),
		Extra:    rawBlob(v.Extra),
		SyncedAt: formatOptionalTime(v.SyncedAt),
		Active:   v.Active,
	}
}

func venueToDTO(v team.Venue) *venueDTO {
	if v.Name == "" && v.Address == "" && v.City == "" && v.Capacity == nil && v.Surface == "" && v.Image == "" {
		return nil
	}
	return &venueDTO{
		Name:     v.Name,
		Address:  v.Address,
		City:     v.City,
		Capacity: v.Capacity,
		Surface:  v.Surface,
		Image:    v.Image,
	}
}

func teamColorArray(primary, secondary string) []string {
	primary = strings.TrimSpace(primary)
	secondary = strings.TrimSpace(secondary)
	switch {
	case primary == "" && secondary == "":
		return nil
	case secondary == "":
		return []string{primary}
	case primary == "":
		return []string{secondary}
	default:
		return []string{primary, secondary}
	}
}

func rawBlob(blob []byte) json.RawMessage {
	if len(blob) == 0 {
		return nil
	}
	return json.RawMessage(blob)
}

func formatOptionalTime(v *time.Time) string {
	if v == nil || v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}
