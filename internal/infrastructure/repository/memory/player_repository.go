package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players []player.Player
	nextID  int64

	// teams resolves sport filters; nil disables them.
	teams *TeamRepository
}

func NewPlayerRepository(seed []player.Player, teams *TeamRepository) *PlayerRepository {
	r := &PlayerRepository{nextID: 1, teams: teams}
	for _, item := range seed {
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
		r.players = append(r.players, item)
	}
	return r
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	teamSportIDs := map[int64]int64{}
	if filter.SportID > 0 && r.teams != nil {
		teams, err := r.teams.ListBySport(ctx, filter.SportID)
		if err != nil {
			return nil, err
		}
		for _, item := range teams {
			teamSportIDs[item.ID] = item.SportID
		}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if filter.SportID > 0 {
			if _, ok := teamSportIDs[item.TeamID]; !ok {
				continue
			}
		}
		if !matchesPlayerFilter(item, filter) {
			continue
		}
		out = append(out, item)
	}
	sortPlayers(out)

	return pageWindow(out, filter.Limit, filter.Offset), nil
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if item.TeamID == teamID {
			out = append(out, item)
		}
	}
	sortPlayers(out)
	return out, nil
}

func (r *PlayerRepository) ListByIDs(_ context.Context, ids []int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]player.Player, 0, len(ids))
	for _, item := range r.players {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	sortPlayers(out)
	return out, nil
}

func (r *PlayerRepository) ListActive(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.players))
	for _, item := range r.players {
		if item.Active {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slug < out[j].Slug })
	return out, nil
}

func (r *PlayerRepository) GetByID(_ context.Context, id int64) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.players {
		if item.ID == id {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) GetBySlug(_ context.Context, slug string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.players {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) Create(_ context.Context, item player.Player) (player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.players = append(r.players, item)
	return item, nil
}

func (r *PlayerRepository) Update(_ context.Context, item player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.players {
		if r.players[idx].ID == item.ID {
			r.players[idx] = item
			return nil
		}
	}
	return nil
}

func matchesPlayerFilter(item player.Player, filter player.Filter) bool {
	if filter.TeamID > 0 && item.TeamID != filter.TeamID {
		return false
	}
	if filter.Position != "" && !strings.EqualFold(item.Position, filter.Position) {
		return false
	}
	if filter.Query != "" {
		query := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(item.FirstName), query) &&
			!strings.Contains(strings.ToLower(item.LastName), query) {
			return false
		}
	}
	return true
}

func sortPlayers(items []player.Player) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].LastName != items[j].LastName {
			return items[i].LastName < items[j].LastName
		}
		return items[i].FirstName < items[j].FirstName
	})
}

var _ team.Repository = (*TeamRepository)(nil)
var _ player.Repository = (*PlayerRepository)(nil)
