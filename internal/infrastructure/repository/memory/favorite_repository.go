package memory

import (
	"context"
	"sync"
)

type FavoriteRepository struct {
	mu      sync.Mutex
	teams   map[string][]int64
	players map[string][]int64
}

func NewFavoriteRepository() *FavoriteRepository {
	return &FavoriteRepository{
		teams:   make(map[string][]int64),
		players: make(map[string][]int64),
	}
}

func (r *FavoriteRepository) ToggleTeam(_ context.Context, userID string, teamID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[userID] = toggleID(r.teams[userID], teamID)
	return containsID(r.teams[userID], teamID), nil
}

func (r *FavoriteRepository) TogglePlayer(_ context.Context, userID string, playerID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[userID] = toggleID(r.players[userID], playerID)
	return containsID(r.players[userID], playerID), nil
}

func (r *FavoriteRepository) ListTeamIDs(_ context.Context, userID string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.teams[userID]...), nil
}

func (r *FavoriteRepository) ListPlayerIDs(_ context.Context, userID string) ([]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.players[userID]...), nil
}

func toggleID(ids []int64, id int64) []int64 {
	for idx, existing := range ids {
		if existing == id {
			return append(ids[:idx:idx], ids[idx+1:]...)
		}
	}
	return append(ids, id)
}

func containsID(ids []int64, id int64) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
