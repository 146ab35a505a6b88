package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/statlinehq/statline/internal/domain/team"
	qb "github.com/statlinehq/statline/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context, filter team.Filter) ([]team.Team, error) {
	builder := qb.Select("*").From("teams")
	if filter.SportID > 0 {
		builder = builder.Where(qb.Eq("sport_id", filter.SportID))
	}
	if filter.LeagueID > 0 {
		builder = builder.Where(qb.Eq("league_id", filter.LeagueID))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(qb.Expr("(name ILIKE ? OR code ILIKE ? OR city ILIKE ?)", pattern, pattern, pattern))
	}
	if filter.Conference != "" {
		builder = builder.Where(qb.Expr("extra->>'conference' ILIKE ?", "%"+filter.Conference+"%"))
	}
	if filter.Division != "" {
		builder = builder.Where(qb.Expr("extra->>'division' ILIKE ?", "%"+filter.Division+"%"))
	}
	if filter.National != nil {
		builder = builder.Where(qb.Expr("COALESCE(extra->>'national', 'false') = ?", strconv.FormatBool(*filter.National)))
	}

	builder = builder.OrderBy("name")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) ListBySport(ctx context.Context, sportID int64) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("sport_id", sportID)).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by sport query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) ListByIDs(ctx context.Context, ids []int64) ([]team.Team, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("teams").
		Where(qb.In("id", values)).
		OrderBy("name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams by ids query: %w", err)
	}
	return r.selectTeams(ctx, query, args)
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by id query: %w", err)
	}
	return r.getTeam(ctx, query, args)
}

func (r *TeamRepository) GetBySlug(ctx context.Context, slug string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by slug query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getBySlugLiteral(ctx, slug)
		}
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by slug: %w", err)
	}
	return teamFromRow(row), true, nil
}

// getBySlugLiteral retries the slug lookup without bind parameters. Pooled
// connections occasionally drop the unnamed prepared statement between parse
// and execute.
func (r *TeamRepository) getBySlugLiteral(ctx context.Context, slug string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(qb.EqLiteral("slug", slug)).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by slug literal fallback query: %w", err)
	}
	return r.getTeam(ctx, query, args)
}

func (r *TeamRepository) Create(ctx context.Context, item team.Team) (team.Team, error) {
	query, args, err := qb.InsertModel("teams", teamToInsertModel(item), "RETURNING id")
	if err != nil {
		return team.Team{}, fmt.Errorf("build team insert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return team.Team{}, fmt.Errorf("insert team %s: %w", item.Slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return team.Team{}, fmt.Errorf("insert team %s: no row returned", item.Slug)
	}
	if err := rows.Scan(&item.ID); err != nil {
		return team.Team{}, fmt.Errorf("scan team id: %w", err)
	}
	return item, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) error {
	insertModel := teamToInsertModel(item)
	query, args, err := qb.Update("teams").
		Set("sport_id", insertModel.SportID).
		Set("league_id", insertModel.LeagueID).
		Set("api_id", insertModel.APIID).
		Set("espn_id", insertModel.ESPNID).
		Set("name", insertModel.Name).
		Set("slug", insertModel.Slug).
		Set("code", insertModel.Code).
		Set("country", insertModel.Country).
		Set("city", insertModel.City).
		Set("state", insertModel.State).
		Set("founded", insertModel.Founded).
		Set("venue_name", insertModel.VenueName).
		Set("venue_address", insertModel.VenueAddress).
		Set("venue_city", insertModel.VenueCity).
		Set("venue_capacity", insertModel.VenueCapacity).
		Set("venue_surface", insertModel.VenueSurface).
		Set("venue_image", insertModel.VenueImage).
		Set("logo", insertModel.Logo).
		Set("primary_color", insertModel.PrimaryColor).
		Set("secondary_color", insertModel.SecondaryColor).
		Set("extra", insertModel.Extra).
		Set("synced_at", insertModel.SyncedAt).
		Set("active", insertModel.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build team update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update team %d: %w", item.ID, err)
	}
	return nil
}

func (r *TeamRepository) selectTeams(ctx context.Context, query string, args []any) ([]team.Team, error) {
	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) getTeam(ctx context.Context, query string, args []any) (team.Team, bool, error) {
	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team: %w", err)
	}
	return teamFromRow(row), true, nil
}
