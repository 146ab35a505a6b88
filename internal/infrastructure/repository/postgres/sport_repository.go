package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/statlinehq/statline/internal/domain/sport"
	qb "github.com/statlinehq/statline/internal/platform/querybuilder"
)

type SportRepository struct {
	db *sqlx.DB
}

func NewSportRepository(db *sqlx.DB) *SportRepository {
	return &SportRepository{db: db}
}

func (r *SportRepository) List(ctx context.Context) ([]sport.Sport, error) {
	query, args, err := qb.Select("*").From("sports").
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sports query: %w", err)
	}

	var rows []sportTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sports: %w", err)
	}

	out := make([]sport.Sport, 0, len(rows))
	for _, row := range rows {
		out = append(out, sportFromRow(row))
	}
	return out, nil
}

func (r *SportRepository) GetBySlug(ctx context.Context, slug string) (sport.Sport, bool, error) {
	query, args, err := qb.Select("*").From("sports").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return sport.Sport{}, false, fmt.Errorf("build get sport by slug query: %w", err)
	}

	var row sportTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return sport.Sport{}, false, nil
		}
		return sport.Sport{}, false, fmt.Errorf("get sport by slug: %w", err)
	}

	return sportFromRow(row), true, nil
}

func (r *SportRepository) Upsert(ctx context.Context, item sport.Sport) (sport.Sport, error) {
	insertModel := sportInsertModel{
		Name:          item.Name,
		Slug:          item.Slug,
		ProviderAlias: item.ProviderAlias,
		Category:      item.Category,
		Active:        item.Active,
	}

	query, args, err := qb.InsertModel("sports", insertModel, `ON CONFLICT (slug)
DO UPDATE SET
    name = EXCLUDED.name,
    provider_alias = EXCLUDED.provider_alias,
    category = EXCLUDED.category,
    active = EXCLUDED.active,
    updated_at = NOW()
RETURNING id`)
	if err != nil {
		return sport.Sport{}, fmt.Errorf("build sport upsert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return sport.Sport{}, fmt.Errorf("upsert sport %s: %w", item.Slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return sport.Sport{}, fmt.Errorf("upsert sport %s: no row returned", item.Slug)
	}
	if err := rows.Scan(&item.ID); err != nil {
		return sport.Sport{}, fmt.Errorf("scan sport id: %w", err)
	}
	return item, nil
}
