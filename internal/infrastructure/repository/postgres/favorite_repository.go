package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	qb "github.com/statlinehq/statline/internal/platform/querybuilder"
)

type FavoriteRepository struct {
	db *sqlx.DB
}

func NewFavoriteRepository(db *sqlx.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

func (r *FavoriteRepository) ToggleTeam(ctx context.Context, userID string, teamID int64) (bool, error) {
	return r.toggle(ctx, "user_favorite_teams", "team_id", userID, teamID)
}

func (r *FavoriteRepository) TogglePlayer(ctx context.Context, userID string, playerID int64) (bool, error) {
	return r.toggle(ctx, "user_favorite_players", "player_id", userID, playerID)
}

func (r *FavoriteRepository) ListTeamIDs(ctx context.Context, userID string) ([]int64, error) {
	return r.listIDs(ctx, "user_favorite_teams", "team_id", userID)
}

func (r *FavoriteRepository) ListPlayerIDs(ctx context.Context, userID string) ([]int64, error) {
	return r.listIDs(ctx, "user_favorite_players", "player_id", userID)
}

// toggle deletes the relation when present and inserts it when missing. The
// insert races benignly: ON CONFLICT DO NOTHING still leaves the relation in
// place, and the return value reports the state after the call.
func (r *FavoriteRepository) toggle(ctx context.Context, table, column, userID string, targetID int64) (bool, error) {
	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE user_id = $1 AND %s = $2", table, column)
	result, err := r.db.ExecContext(ctx, deleteQuery, userID, targetID)
	if err != nil {
		return false, fmt.Errorf("delete favorite from %s: %w", table, err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("read favorite delete count: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	query, args, err := qb.InsertInto(table).
		Columns("user_id", column).
		Values(userID, targetID).
		Suffix(fmt.Sprintf("ON CONFLICT (user_id, %s) DO NOTHING", column)).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build favorite insert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("insert favorite into %s: %w", table, err)
	}
	return true, nil
}

func (r *FavoriteRepository) listIDs(ctx context.Context, table, column, userID string) ([]int64, error) {
	query, args, err := qb.Select(column).From(table).
		Where(qb.Eq("user_id", userID)).
		OrderBy("created_at DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select favorites query: %w", err)
	}

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select favorites from %s: %w", table, err)
	}
	return ids, nil
}
