package memory

import (
	"context"
	"sync"

	"github.com/statlinehq/statline/internal/domain/league"
)

type LeagueRepository struct {
	mu      sync.RWMutex
	leagues []league.League
	nextID  int64
}

func NewLeagueRepository(seed []league.League) *LeagueRepository {
	r := &LeagueRepository{nextID: 1}
	for _, item := range seed {
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
		r.leagues = append(r.leagues, item)
	}
	return r
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.leagues))
	out = append(out, r.leagues...)
	return out, nil
}

func (r *LeagueRepository) ListBySport(_ context.Context, sportID int64) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0, len(r.leagues))
	for _, item := range r.leagues {
		if item.SportID == sportID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *LeagueRepository) GetBySlug(_ context.Context, slug string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.leagues {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) GetByExternalID(_ context.Context, externalID int64) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.leagues {
		if item.ExternalID != nil && *item.ExternalID == externalID {
			return item, true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *LeagueRepository) Create(_ context.Context, item league.League) (league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.leagues = append(r.leagues, item)
	return item, nil
}

func (r *LeagueRepository) Update(_ context.Context, item league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.leagues {
		if r.leagues[idx].ID == item.ID {
			r.leagues[idx] = item
			return nil
		}
	}
	return nil
}
