package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/statlinehq/statline/internal/domain/player"
	qb "github.com/statlinehq/statline/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (r *PlayerRepository) List(ctx context.Context, filter player.Filter) ([]player.Player, error) {
	table := "players"
	if filter.SportID > 0 {
		table = "players JOIN teams ON teams.id = players.team_id"
	}

	builder := qb.Select("players.*").From(table)
	if filter.SportID > 0 {
		builder = builder.Where(qb.Eq("teams.sport_id", filter.SportID))
	}
	if filter.TeamID > 0 {
		builder = builder.Where(qb.Eq("players.team_id", filter.TeamID))
	}
	if filter.Position != "" {
		builder = builder.Where(qb.Expr("players.position ILIKE ?", filter.Position))
	}
	if filter.Query != "" {
		pattern := "%" + filter.Query + "%"
		builder = builder.Where(qb.Expr("(players.first_name ILIKE ? OR players.last_name ILIKE ?)", pattern, pattern))
	}

	builder = builder.OrderBy("players.last_name", "players.first_name")
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		builder = builder.Offset(filter.Offset)
	}

	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID int64) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("team_id", teamID)).
		OrderBy("last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by team query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListByIDs(ctx context.Context, ids []int64) ([]player.Player, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	query, args, err := qb.Select("*").From("players").
		Where(qb.In("id", values)).
		OrderBy("last_name", "first_name").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select players by ids query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) ListActive(ctx context.Context) ([]player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("active", true)).
		OrderBy("slug").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select active players query: %w", err)
	}
	return r.selectPlayers(ctx, query, args)
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}
	return r.getPlayer(ctx, query, args)
}

func (r *PlayerRepository) GetBySlug(ctx context.Context, slug string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("slug", slug)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by slug query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isBindParameterMismatch(err) || isUnnamedPreparedStatementMissing(err) {
			return r.getBySlugLiteral(ctx, slug)
		}
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by slug: %w", err)
	}
	return playerFromRow(row), true, nil
}

// getBySlugLiteral retries the slug lookup without bind parameters, for
// pooled connections that drop the unnamed prepared statement.
func (r *PlayerRepository) getBySlugLiteral(ctx context.Context, slug string) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.EqLiteral("slug", slug)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by slug literal fallback query: %w", err)
	}
	return r.getPlayer(ctx, query, args)
}

func (r *PlayerRepository) Create(ctx context.Context, item player.Player) (player.Player, error) {
	query, args, err := qb.InsertModel("players", playerToInsertModel(item), "RETURNING id")
	if err != nil {
		return player.Player{}, fmt.Errorf("build player insert query: %w", err)
	}

	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return player.Player{}, fmt.Errorf("insert player %s: %w", item.Slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return player.Player{}, fmt.Errorf("insert player %s: no row returned", item.Slug)
	}
	if err := rows.Scan(&item.ID); err != nil {
		return player.Player{}, fmt.Errorf("scan player id: %w", err)
	}
	return item, nil
}

func (r *PlayerRepository) Update(ctx context.Context, item player.Player) error {
	insertModel := playerToInsertModel(item)
	query, args, err := qb.Update("players").
		Set("team_id", insertModel.TeamID).
		Set("api_id", insertModel.APIID).
		Set("espn_id", insertModel.ESPNID).
		Set("first_name", insertModel.FirstName).
		Set("last_name", insertModel.LastName).
		Set("slug", insertModel.Slug).
		Set("birth_date", insertModel.BirthDate).
		Set("birth_place", insertModel.BirthPlace).
		Set("birth_country", insertModel.BirthCountry).
		Set("nationality", insertModel.Nationality).
		Set("height_cm", insertModel.HeightCM).
		Set("weight_kg", insertModel.WeightKG).
		Set("position", insertModel.Position).
		Set("jersey", insertModel.Jersey).
		Set("photo", insertModel.Photo).
		Set("biography", insertModel.Biography).
		Set("current_season_stats", insertModel.CurrentSeasonStats).
		Set("previous_season_stats", insertModel.PreviousSeasonStats).
		Set("recent_games", insertModel.RecentGames).
		Set("career_stats", insertModel.CareerStats).
		Set("news", insertModel.News).
		Set("stats_synced_at", insertModel.StatsSyncedAt).
		Set("synced_at", insertModel.SyncedAt).
		Set("active", insertModel.Active).
		SetExpr("updated_at", "NOW()").
		Where(qb.Eq("id", item.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build player update query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update player %d: %w", item.ID, err)
	}
	return nil
}

func (r *PlayerRepository) selectPlayers(ctx context.Context, query string, args []any) ([]player.Player, error) {
	var rows []playerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select players: %w", err)
	}

	out := make([]player.Player, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerFromRow(row))
	}
	return out, nil
}

func (r *PlayerRepository) getPlayer(ctx context.Context, query string, args []any) (player.Player, bool, error) {
	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player: %w", err)
	}
	return playerFromRow(row), true, nil
}
