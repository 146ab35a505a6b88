package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/statlinehq/statline/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the demo dataset into an empty database. Rows match by
// slug, so re-running against a populated database is a no-op.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM sports`); err != nil {
		return fmt.Errorf("count sports for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	sportSlugs := make(map[int64]string)
	for _, s := range memory.SeedSports() {
		sportSlugs[s.ID] = s.Slug
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO sports (name, slug, provider_alias, category, active)
VALUES (:name, :slug, :provider_alias, :category, :active)
ON CONFLICT (slug) DO NOTHING`, map[string]any{
			"name":           s.Name,
			"slug":           s.Slug,
			"provider_alias": s.ProviderAlias,
			"category":       s.Category,
			"active":         s.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed sport %s query: %w", s.Slug, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed sport %s: %w", s.Slug, err)
		}
	}

	leagueSlugs := make(map[int64]string)
	for _, l := range memory.SeedLeagues() {
		leagueSlugs[l.ID] = l.Slug
		seasons := make(pq.Int64Array, 0, len(l.Seasons))
		for _, season := range l.Seasons {
			seasons = append(seasons, int64(season))
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO leagues (sport_id, external_id, name, slug, country, category, seasons, active)
VALUES ((SELECT id FROM sports WHERE slug = :sport_slug), :external_id, :name, :slug, :country, :category, :seasons, :active)
ON CONFLICT (slug) DO NOTHING`, map[string]any{
			"sport_slug":  sportSlugs[l.SportID],
			"external_id": l.ExternalID,
			"name":        l.Name,
			"slug":        l.Slug,
			"country":     l.Country,
			"category":    l.Category,
			"seasons":     seasons,
			"active":      l.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed league %s query: %w", l.Slug, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed league %s: %w", l.Slug, err)
		}
	}

	teamSlugs := make(map[int64]string)
	for _, t := range memory.SeedTeams() {
		teamSlugs[t.ID] = t.Slug
		leagueSlug := ""
		if t.LeagueID != nil {
			leagueSlug = leagueSlugs[*t.LeagueID]
		}
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (sport_id, league_id, api_id, espn_id, name, slug, code, country, city, state, active)
VALUES (
    (SELECT id FROM sports WHERE slug = :sport_slug),
    (SELECT id FROM leagues WHERE slug = :league_slug),
    :api_id, :espn_id, :name, :slug, :code, :country, :city, :state, :active)
ON CONFLICT (slug) DO NOTHING`, map[string]any{
			"sport_slug":  sportSlugs[t.SportID],
			"league_slug": leagueSlug,
			"api_id":      t.APIID,
			"espn_id":     t.ESPNID,
			"name":        t.Name,
			"slug":        t.Slug,
			"code":        t.Code,
			"country":     t.Country,
			"city":        t.City,
			"state":       t.State,
			"active":      t.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.Slug, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Slug, err)
		}
	}

	for _, p := range memory.SeedPlayers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO players (team_id, api_id, espn_id, first_name, last_name, slug, position, jersey, active)
VALUES ((SELECT id FROM teams WHERE slug = :team_slug), :api_id, :espn_id, :first_name, :last_name, :slug, :position, :jersey, :active)
ON CONFLICT (slug) DO NOTHING`, map[string]any{
			"team_slug":  teamSlugs[p.TeamID],
			"api_id":     p.APIID,
			"espn_id":    p.ESPNID,
			"first_name": p.FirstName,
			"last_name":  p.LastName,
			"slug":       p.Slug,
			"position":   p.Position,
			"jersey":     p.Jersey,
			"active":     p.Active,
		})
		if err != nil {
			return fmt.Errorf("bind seed player %s query: %w", p.Slug, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed player %s: %w", p.Slug, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}
	return nil
}
