package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	teams  []team.Team
	nextID int64
}

func NewTeamRepository(seed []team.Team) *TeamRepository {
	r := &TeamRepository{nextID: 1}
	for _, item := range seed {
		if item.ID >= r.nextID {
			r.nextID = item.ID + 1
		}
		r.teams = append(r.teams, item)
	}
	return r
}

func (r *TeamRepository) List(_ context.Context, filter team.Filter) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		if !matchesTeamFilter(item, filter) {
			continue
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	return pageWindow(out, filter.Limit, filter.Offset), nil
}

func (r *TeamRepository) ListBySport(_ context.Context, sportID int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		if item.SportID == sportID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) ListByIDs(_ context.Context, ids []int64) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	wanted := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	out := make([]team.Team, 0, len(ids))
	for _, item := range r.teams {
		if _, ok := wanted[item.ID]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.ID == id {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) GetBySlug(_ context.Context, slug string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.Slug == slug {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) Create(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item.ID = r.nextID
	r.nextID++
	r.teams = append(r.teams, item)
	return item, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for idx := range r.teams {
		if r.teams[idx].ID == item.ID {
			r.teams[idx] = item
			return nil
		}
	}
	return nil
}

func matchesTeamFilter(item team.Team, filter team.Filter) bool {
	if filter.SportID > 0 && item.SportID != filter.SportID {
		return false
	}
	if filter.LeagueID > 0 && (item.LeagueID == nil || *item.LeagueID != filter.LeagueID) {
		return false
	}
	if filter.Query != "" {
		query := strings.ToLower(filter.Query)
		if !strings.Contains(strings.ToLower(item.Name), query) &&
			!strings.Contains(strings.ToLower(item.Code), query) &&
			!strings.Contains(strings.ToLower(item.City), query) {
			return false
		}
	}
	if filter.Conference != "" && !strings.Contains(strings.ToLower(extraField(item.Extra, "conference")), strings.ToLower(filter.Conference)) {
		return false
	}
	if filter.Division != "" && !strings.Contains(strings.ToLower(extraField(item.Extra, "division")), strings.ToLower(filter.Division)) {
		return false
	}
	if filter.National != nil && extraBool(item.Extra, "national") != *filter.National {
		return false
	}
	return true
}

func extraField(extra []byte, key string) string {
	if len(extra) == 0 {
		return ""
	}
	var fields map[string]any
	if err := sonic.Unmarshal(extra, &fields); err != nil {
		return ""
	}
	if value, ok := fields[key].(string); ok {
		return value
	}
	return ""
}

func extraBool(extra []byte, key string) bool {
	if len(extra) == 0 {
		return false
	}
	var fields map[string]any
	if err := sonic.Unmarshal(extra, &fields); err != nil {
		return false
	}
	switch value := fields[key].(type) {
	case bool:
		return value
	case string:
		return value == "true"
	default:
		return false
	}
}

func pageWindow[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
