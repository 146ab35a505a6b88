package postgres

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/statlinehq/statline/internal/domain/league"
)

type leagueTableModel struct {
	ID         int64         `db:"id"`
	SportID    int64         `db:"sport_id"`
	ExternalID sql.NullInt64 `db:"external_id"`
	Name       string        `db:"name"`
	Slug       string        `db:"slug"`
	Country    string        `db:"country"`
	Category   string        `db:"category"`
	Logo       string        `db:"logo"`
	Seasons    pq.Int64Array `db:"seasons"`
	SyncedAt   sql.NullTime  `db:"synced_at"`
	Active     bool          `db:"active"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type leagueInsertModel struct {
	SportID    int64         `db:"sport_id"`
	ExternalID sql.NullInt64 `db:"external_id"`
	Name       string        `db:"name"`
	Slug       string        `db:"slug"`
	Country    string        `db:"country"`
	Category   string        `db:"category"`
	Logo       string        `db:"logo"`
	Seasons    pq.Int64Array `db:"seasons"`
	SyncedAt   sql.NullTime  `db:"synced_at"`
	Active     bool          `db:"active"`
}

func leagueFromRow(row leagueTableModel) league.League {
	seasons := make([]int, 0, len(row.Seasons))
	for _, season := range row.Seasons {
		seasons = append(seasons, int(season))
	}

	return league.League{
		ID:         row.ID,
		SportID:    row.SportID,
		ExternalID: int64Ptr(row.ExternalID),
		Name:       row.Name,
		Slug:       row.Slug,
		Country:    row.Country,
		Category:   row.Category,
		Logo:       row.Logo,
		Seasons:    seasons,
		SyncedAt:   timePtr(row.SyncedAt),
		Active:     row.Active,
	}
}

func leagueToInsertModel(item league.League) leagueInsertModel {
	seasons := make(pq.Int64Array, 0, len(item.Seasons))
	for _, season := range item.Seasons {
		seasons = append(seasons, int64(season))
	}

	return leagueInsertModel{
		SportID:    item.SportID,
		ExternalID: nullInt64(item.ExternalID),
		Name:       item.Name,
		Slug:       item.Slug,
		Country:    item.Country,
		Category:   item.Category,
		Logo:       item.Logo,
		Seasons:    seasons,
		SyncedAt:   nullTime(item.SyncedAt),
		Active:     item.Active,
	}
}
