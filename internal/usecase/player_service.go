package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
)

// PlayerListInput carries player listing filters from the API layer.
type PlayerListInput struct {
	TeamID    int64
	SportSlug string
	Position  string
	Query     string
	Page      int
	PerPage   int
}

type PlayerService struct {
	sports  sport.Repository
	teams   team.Repository
	players player.Repository
}

func NewPlayerService(sports sport.Repository, teams team.Repository, players player.Repository) *PlayerService {
	return &PlayerService{sports: sports, teams: teams, players: players}
}

func (s *PlayerService) ListPlayers(ctx context.Context, input PlayerListInput) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.ListPlayers")
	defer span.End()

	filter := player.Filter{
		TeamID:   input.TeamID,
		Position: strings.TrimSpace(input.Position),
		Query:    strings.TrimSpace(input.Query),
	}
	filter.Limit, filter.Offset = pageWindow(input.Page, input.PerPage)

	if slug := strings.TrimSpace(input.SportSlug); slug != "" {
		sp, exists, err := s.sports.GetBySlug(ctx, slug)
		if err != nil {
			return nil, fmt.Errorf("get sport: %w", err)
		}
		if !exists {
			return nil, fmt.Errorf("%w: sport=%s", ErrNotFound, slug)
		}
		filter.SportID = sp.ID
	}

	players, err := s.players.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	return players, nil
}

func (s *PlayerService) GetPlayerBySlug(ctx context.Context, slug string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetPlayerBySlug")
	defer span.End()

	slug = strings.TrimSpace(slug)
	if slug == "" {
		return player.Player{}, fmt.Errorf("%w: player slug is required", ErrInvalidInput)
	}

	item, exists, err := s.players.GetBySlug(ctx, slug)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, fmt.Errorf("%w: player=%s", ErrNotFound, slug)
	}

	return item, nil
}

func (s *PlayerService) SearchPlayers(ctx context.Context, query string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.SearchPlayers")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}

	players, err := s.players.List(ctx, player.Filter{Query: query, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}

	return players, nil
}

// Averages derives per-game averages from the stored season stat blobs via
// the alias tables. It is a best-effort view over opaque provider payloads,
// not a recomputation from game logs.
func (s *PlayerService) Averages(ctx context.Context, slug string) (current, previous map[string]float64, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Averages")
	defer span.End()

	item, err := s.GetPlayerBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}

	return averagesFromBlob(item.CurrentSeasonStats), averagesFromBlob(item.PreviousSeasonStats), nil
}

var averageStatAliases = []statAlias{
	{"pts", []string{"points", "pts", "avgpoints"}},
	{"reb", []string{"rebounds", "totalrebounds", "totreb", "reb", "avgrebounds"}},
	{"ast", []string{"assists", "ast", "avgassists"}},
	{"stl", []string{"steals", "stl"}},
	{"blk", []string{"blocks", "blk"}},
	{"tov", []string{"turnovers", "tov", "to"}},
}

var gamesPlayedAliases = []string{"gamesplayed", "games", "gp", "appearences", "appearances"}

// averagesFromBlob walks one opaque season blob and emits per-game values.
// Totals are divided by the games-played figure when one resolves; values
// stored as averages already pass through unchanged.
func averagesFromBlob(blob []byte) map[string]float64 {
	if len(blob) == 0 {
		return nil
	}

	var root any
	if err := sonic.Unmarshal(blob, &root); err != nil {
		return nil
	}

	games, gamesFound := findBlobNumber(root, gamesPlayedAliases...)
	out := make(map[string]float64, len(averageStatAliases)+1)
	if gamesFound && games > 0 {
		out["games"] = games
	}

	for _, alias := range averageStatAliases {
		value, found := findBlobNumber(root, alias.aliases...)
		if !found {
			continue
		}
		if gamesFound && games > 1 && value == math.Trunc(value) {
			value = value / games
		}
		out[alias.key] = math.Round(value*10) / 10
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// findBlobNumber searches a decoded JSON tree depth-first for the first
// numeric value under any of the aliased keys.
func findBlobNumber(node any, aliases ...string) (float64, bool) {
	switch typed := node.(type) {
	case map[string]any:
		lowered := make(map[string]any, len(typed))
		for key, value := range typed {
			lowered[strings.ToLower(key)] = value
		}
		for _, alias := range aliases {
			if value, ok := lowered[alias]; ok {
				if number, numOK := blobNumber(value); numOK {
					return number, true
				}
			}
		}
		// Descend in sorted key order; map iteration order would make the
		// result flap when an alias appears in more than one subtree.
		keys := make([]string, 0, len(typed))
		for key := range typed {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if number, ok := findBlobNumber(typed[key], aliases...); ok {
				return number, true
			}
		}
	case []any:
		for _, item := range typed {
			if number, ok := findBlobNumber(item, aliases...); ok {
				return number, true
			}
		}
	}
	return 0, false
}

func blobNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int64:
		return float64(typed), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
