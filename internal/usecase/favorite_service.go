package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/statlinehq/statline/internal/domain/favorite"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
)

type FavoriteService struct {
	favorites favorite.Repository
	teams     team.Repository
	players   player.Repository
}

func NewFavoriteService(favorites favorite.Repository, teams team.Repository, players player.Repository) *FavoriteService {
	return &FavoriteService{favorites: favorites, teams: teams, players: players}
}

// ToggleTeam attaches or detaches a team favorite and reports whether the
// favorite exists after the call.
func (s *FavoriteService) ToggleTeam(ctx context.Context, userID, teamSlug string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoriteService.ToggleTeam")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.teams.GetBySlug(ctx, strings.TrimSpace(teamSlug))
	if err != nil {
		return false, fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: team=%s", ErrNotFound, teamSlug)
	}

	favorited, err := s.favorites.ToggleTeam(ctx, userID, item.ID)
	if err != nil {
		return false, fmt.Errorf("toggle team favorite: %w", err)
	}
	return favorited, nil
}

// TogglePlayer attaches or detaches a player favorite.
func (s *FavoriteService) TogglePlayer(ctx context.Context, userID, playerSlug string) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoriteService.TogglePlayer")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	item, exists, err := s.players.GetBySlug(ctx, strings.TrimSpace(playerSlug))
	if err != nil {
		return false, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return false, fmt.Errorf("%w: player=%s", ErrNotFound, playerSlug)
	}

	favorited, err := s.favorites.TogglePlayer(ctx, userID, item.ID)
	if err != nil {
		return false, fmt.Errorf("toggle player favorite: %w", err)
	}
	return favorited, nil
}

// ListFavorites resolves a user's favorites into full team and player rows.
func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]team.Team, []player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FavoriteService.ListFavorites")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	teamIDs, err := s.favorites.ListTeamIDs(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list favorite team ids: %w", err)
	}
	playerIDs, err := s.favorites.ListPlayerIDs(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("list favorite player ids: %w", err)
	}

	teams := []team.Team{}
	if len(teamIDs) > 0 {
		teams, err = s.teams.ListByIDs(ctx, teamIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("load favorite teams: %w", err)
		}
	}
	players := []player.Player{}
	if len(playerIDs) > 0 {
		players, err = s.players.ListByIDs(ctx, playerIDs)
		if err != nil {
			return nil, nil, fmt.Errorf("load favorite players: %w", err)
		}
	}

	return teams, players, nil
}
