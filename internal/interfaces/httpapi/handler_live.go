package httpapi

import (
	"errors"
	"net/http"

	"github.com/statlinehq/statline/internal/usecase"
)

// Live and recent lookups answer with the literal {ok, ...} shapes that the
// polling frontend expects, not the envelope used by list/show routes. The
// ok flag lets clients tell "no data yet" apart from a failed request.

type livePlayerDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	TeamAbbr string `json:"teamAbbr"`
}

type liveResponse struct {
	OK      bool              `json:"ok"`
	Live    bool              `json:"live"`
	State   string            `json:"state,omitempty"`
	Clock   string            `json:"clock,omitempty"`
	EventID string            `json:"eventId,omitempty"`
	Player  livePlayerDTO     `json:"player"`
	Line    map[string]string `json:"line,omitempty"`
	Source  string            `json:"source,omitempty"`
}

type recentGameDTO struct {
	EventID       string            `json:"eventId"`
	Date          string            `json:"date"`
	Opponent      string            `json:"opponent"`
	OpponentLogo  string            `json:"opponentLogo,omitempty"`
	Result        string            `json:"result"`
	TeamScore     string            `json:"teamScore"`
	OpponentScore string            `json:"opponentScore"`
	Line          map[string]string `json:"line,omitempty"`
}

type recentResponse struct {
	OK    bool            `json:"ok"`
	Games []recentGameDTO `json:"games"`
}

func (h *Handler) GetPlayerLive(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerLive")
	defer span.End()

	slug := r.PathValue("slug")
	result, err := h.liveService.Live(ctx, slug)
	if err != nil {
		// A known player with no scoreboard event today is an expected
		// miss: 404 with ok=true so pollers keep quiet. An unknown slug
		// stays a plain not-found error.
		if errors.Is(err, usecase.ErrNotFound) && result.Player.ID != 0 {
			writeJSON(ctx, w, http.StatusNotFound, liveResponse{
				OK:     true,
				Live:   false,
				Player: livePlayerRefToDTO(result.Player),
			})
			return
		}
		h.logger.WarnContext(ctx, "live lookup failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, liveResponse{
		OK:      true,
		Live:    result.Live,
		State:   result.State,
		Clock:   result.Clock,
		EventID: result.EventID,
		Player:  livePlayerRefToDTO(result.Player),
		Line:    result.Line,
		Source:  result.Source,
	})
}

func (h *Handler) GetPlayerRecent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerRecent")
	defer span.End()

	slug := r.PathValue("slug")
	count, err := queryInt(r, "count")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	games, err := h.liveService.Recent(ctx, slug, count)
	if err != nil {
		h.logger.WarnContext(ctx, "recent games lookup failed", "slug", slug, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]recentGameDTO, 0, len(games))
	for _, g := range games {
		items = append(items, recentGameDTO{
			EventID:       g.EventID,
			Date:          g.Date,
			Opponent:      g.Opponent,
			OpponentLogo:  g.OpponentLogo,
			Result:        g.Result,
			TeamScore:     g.TeamScore,
			OpponentScore: g.OpponentScore,
			Line:          g.Line,
		})
	}

	writeJSON(ctx, w, http.StatusOK, recentResponse{OK: true, Games: items})
}

func livePlayerRefToDTO(ref usecase.LivePlayerRef) livePlayerDTO {
	return livePlayerDTO{ID: ref.ID, Name: ref.Name, TeamAbbr: ref.TeamAbbr}
}
