// Package cache decorates repositories with read-through caching. Writes
// pass through and invalidate the affected keys.
package cache

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/statlinehq/statline/internal/domain/league"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
	basecache "github.com/statlinehq/statline/internal/platform/cache"
)

type SportRepository struct {
	next  sport.Repository
	cache *basecache.Store
}

func NewSportRepository(next sport.Repository, cache *basecache.Store) *SportRepository {
	return &SportRepository{next: next, cache: cache}
}

func (r *SportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	v, err := r.cache.GetOrLoad(ctx, "sport:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]sport.Sport(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]sport.Sport)
	return append([]sport.Sport(nil), items...), nil
}

func (r *SportRepository) GetBySlug(ctx context.Context, slug string) (sport.Sport, bool, error) {
	key := "sport:slug:" + slug
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return cachedSport{value: item, exists: exists}, nil
	})
	if err != nil {
		return sport.Sport{}, false, err
	}

	cached, _ := v.(cachedSport)
	return cached.value, cached.exists, nil
}

func (r *SportRepository) Upsert(ctx context.Context, item sport.Sport) (sport.Sport, error) {
	out, err := r.next.Upsert(ctx, item)
	if err != nil {
		return sport.Sport{}, err
	}
	r.cache.Delete(ctx, "sport:list")
	r.cache.Delete(ctx, "sport:slug:"+out.Slug)
	return out, nil
}

type cachedSport struct {
	value  sport.Sport
	exists bool
}

type LeagueRepository struct {
	next  league.Repository
	cache *basecache.Store
}

func NewLeagueRepository(next league.Repository, cache *basecache.Store) *LeagueRepository {
	return &LeagueRepository{next: next, cache: cache}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	v, err := r.cache.GetOrLoad(ctx, "league:list", func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) ListBySport(ctx context.Context, sportID int64) ([]league.League, error) {
	key := "league:sport:" + strconv.FormatInt(sportID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySport(ctx, sportID)
		if err != nil {
			return nil, err
		}
		return append([]league.League(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]league.League)
	return append([]league.League(nil), items...), nil
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	key := "league:slug:" + slug
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID int64) (league.League, bool, error) {
	key := "league:external:" + strconv.FormatInt(externalID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByExternalID(ctx, externalID)
		if err != nil {
			return nil, err
		}
		return cachedLeague{value: item, exists: exists}, nil
	})
	if err != nil {
		return league.League{}, false, err
	}

	cached, _ := v.(cachedLeague)
	return cached.value, cached.exists, nil
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	out, err := r.next.Create(ctx, item)
	if err != nil {
		return league.League{}, err
	}
	r.cache.DeletePrefix(ctx, "league:")
	return out, nil
}

func (r *LeagueRepository) Update(ctx context.Context, item league.League) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "league:")
	return nil
}

type cachedLeague struct {
	value  league.League
	exists bool
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) List(ctx context.Context, filter team.Filter) ([]team.Team, error) {
	v, err := r.cache.GetOrLoad(ctx, teamFilterKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListBySport(ctx context.Context, sportID int64) ([]team.Team, error) {
	key := "team:sport:" + strconv.FormatInt(sportID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListBySport(ctx, sportID)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]team.Team)
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []int64) ([]team.Team, error) {
	// Favorites lists are small and volatile, skip the cache.
	return r.next.ListByIDs(ctx, ids)
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	key := "team:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	key := "team:slug:" + slug
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}

	cached, _ := v.(cachedTeam)
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	out, err := r.next.Create(ctx, item)
	if err != nil {
		return team.Team{}, err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return out, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "team:")
	return nil
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

func teamFilterKey(filter team.Filter) string {
	parts := []string{
		"team:list",
		strconv.FormatInt(filter.SportID, 10),
		strconv.FormatInt(filter.LeagueID, 10),
		strings.ToLower(filter.Query),
		strings.ToLower(filter.Conference),
		strings.ToLower(filter.Division),
		"",
		strconv.Itoa(filter.Limit),
		strconv.Itoa(filter.Offset),
	}
	if filter.National != nil {
		parts[6] = strconv.FormatBool(*filter.National)
	}
	return strings.Join(parts, ":")
}

type PlayerRepository struct {
	next  player.Repository
	cache *basecache.Store
}

func NewPlayerRepository(next player.Repository, cache *basecache.Store) *PlayerRepository {
	return &PlayerRepository{next: next, cache: cache}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	v, err := r.cache.GetOrLoad(ctx, playerFilterKey(filter), func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	key := "player:team:" + strconv.FormatInt(teamID, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByTeam(ctx, teamID)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	sorted := append([]int64(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	keys := make([]string, 0, len(sorted))
	for _, id := range sorted {
		keys = append(keys, strconv.FormatInt(id, 10))
	}

	key := "player:ids:" + strings.Join(keys, ",")
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.ListByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return append([]player.Player(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]player.Player)
	return append([]player.Player(nil), items...), nil
}

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	// Resync walks every active player and must see fresh rows.
	return r.next.ListActive(ctx)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	key := "player:id:" + strconv.FormatInt(id, 10)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) GetBySlug(ctx context.Context, slug string) (player.Player, bool, error) {
	key := "player:slug:" + slug
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		return cachedPlayer{value: item, exists: exists}, nil
	})
	if err != nil {
		return player.Player{}, false, err
	}

	cached, _ := v.(cachedPlayer)
	return cached.value, cached.exists, nil
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	out, err := r.next.Create(ctx, item)
	if err != nil {
		return player.Player{}, err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return out, nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	if err := r.next.Update(ctx, item); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "player:")
	return nil
}

type cachedPlayer struct {
	value  player.Player
	exists bool
}

func playerFilterKey(filter player.Filter) string {
	parts := []string{
		"player:list",
		strconv.FormatInt(filter.TeamID, 10),
		strconv.FormatInt(filter.SportID, 10),
		strings.ToLower(filter.Position),
		strings.ToLower(filter.Query),
		strconv.Itoa(filter.Limit),
		strconv.Itoa(filter.Offset),
	}
	return strings.Join(parts, ":")
}

var _ sport.Repository = (*SportRepository)(nil)
var _ league.Repository = (*LeagueRepository)(nil)
var _ team.Repository = (*TeamRepository)(nil)
var _ player.Repository = (*PlayerRepository)(nil)
