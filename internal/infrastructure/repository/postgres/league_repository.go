package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/statlinehq/statline/internal/domain/league"
	qb "github.com/statlinehq/statline/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues query: %w", err)
	}
	return r.selectLeagues(ctx, query, args)
}

func (r *LeagueRepository) ListBySport(ctx context.Context, sportID int64) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("sport_id", sportID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select leagues by sport query: %w", err)
	}
	return r.selectLeagues(ctx, query, args)
}

func (r *LeagueRepository) GetBySlug(ctx context.Context, slug string) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by slug query: %w", err)
	}
	return r.getLeague(ctx, query, args)
}

func (r *LeagueRepository) GetByExternalID(ctx context.Context, externalID int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by external id query: %w", err)
	}
	return r.getLeague(ctx, query, args)
}

func (r *LeagueRepository) Create(ctx context.Context, item league.League) (league.League, error) {
	query, args, err := qb.InsertModel("leagues", leagueToInsertModel(item), "RETURNING id")
	if err != nil {
		return league.League{}, fmt.Errorf("build league insert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return league.League{}, fmt.Errorf("insert league %s: %w", item.Slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return league.League{}, fmt.Errorf("insert league %s: no row returned", item.Slug)
	}
	if err := rows.Scan(&item.ID); err != nil {
		return league.League{}, fmt.Errorf("scan league id: %w", err)
	}
	return item, nil
}

func (r *LeagueRepository) Update(ctx context.Context, item league.League) error {
	insertModel := leagueToInsertModel(item)
	query, args, err := qb.Update("leagues").
		Set("sport_id", insertModel.SportID).
		Set("external_id", insertModel.ExternalID).
		Set("name", insertModel.Name).
		Set("slug", insertModel.Slug).
		Set("country", insertModel.Country).
		Set("category", insertModel.Category).
		Set("logo", insertModel.Logo).
		Set("seasons", insertModel.Seasons).
		Set("synced_at", insertModel.SyncedAt).
		Set("active", insertModel.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build league update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update league %d: %w", item.ID, err)
	}
	return nil
}

func (r *LeagueRepository) selectLeagues(ctx context.Context, query string, args []any) ([]league.League, error) {
	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, leagueFromRow(row))
	}
	return out, nil
}

func (r *LeagueRepository) getLeague(ctx context.Context, query string, args []any) (league.League, bool, error) {
	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}
	return leagueFromRow(row), true, nil
}
