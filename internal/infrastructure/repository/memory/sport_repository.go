package memory

import (
	"context"
	"sync"

	"github.com/statlinehq/statline/internal/domain/sport"
)

type SportRepository struct {
	mu     sync.RWMutex
	sports []sport.Sport
	nextID int64
}

func NewSportRepository(seed []sport.Sport) *SportRepository {
	r := &SportRepository{nextID: 1}
	for _, item := range seed {
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
		r.sports = append(r.sports, item)
	}
	return r
}

func (r *SportRepository) List(_ context.Context) ([]sport.Sport, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sport.Sport, 0, len(r.sports))
	out = append(out, r.sports...)
	return out, nil
}

func (r *SportRepository) GetBySlug(_ context.Context, slug string) (sport.Sport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.sports {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return sport.Sport{}, false, nil
}

func (r *SportRepository) Upsert(_ context.Context, item sport.Sport) (sport.Sport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.sports {
		if r.sports[idx].Slug == item.Slug {
			item.ID = r.sports[idx].ID
			r.sports[idx] = item
			return item, nil
		}
	}

	item.ID = r.nextID
	r.nextID++
	r.sports = append(r.sports, item)
	return item, nil
}
