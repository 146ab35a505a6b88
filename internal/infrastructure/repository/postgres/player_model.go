package postgres

import (
	"database/sql"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/internal/domain/player"
)

type playerTableModel struct {
	ID           int64          `db:"id"`
	TeamID       int64          `db:"team_id"`
	APIID        sql.NullInt64  `db:"api_id"`
	ESPNID       sql.NullString `db:"espn_id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Slug         string         `db:"slug"`
	BirthDate    sql.NullTime   `db:"birth_date"`
	BirthPlace   string         `db:"birth_place"`
	BirthCountry string         `db:"birth_country"`
	Nationality  string         `db:"nationality"`
	HeightCM     sql.NullInt64  `db:"height_cm"`
	WeightKG     sql.NullInt64  `db:"weight_kg"`
	Position     string         `db:"position"`
	Jersey       string         `db:"jersey"`
	Photo        string         `db:"photo"`
	Biography    string         `db:"biography"`

	CurrentSeasonStats  []byte `db:"current_season_stats"`
	PreviousSeasonStats []byte `db:"previous_season_stats"`
	RecentGames         []byte `db:"recent_games"`
	CareerStats         []byte `db:"career_stats"`
	News                []byte `db:"news"`

	StatsSyncedAt sql.NullTime `db:"stats_synced_at"`
	SyncedAt      sql.NullTime `db:"synced_at"`
	Active        bool         `db:"active"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

type playerInsertModel struct {
	TeamID       int64          `db:"team_id"`
	APIID        sql.NullInt64  `db:"api_id"`
	ESPNID       sql.NullString `db:"espn_id"`
	FirstName    string         `db:"first_name"`
	LastName     string         `db:"last_name"`
	Slug         string         `db:"slug"`
	BirthDate    sql.NullTime   `db:"birth_date"`
	BirthPlace   string         `db:"birth_place"`
	BirthCountry string         `db:"birth_country"`
	Nationality  string         `db:"nationality"`
	HeightCM     sql.NullInt64  `db:"height_cm"`
	WeightKG     sql.NullInt64  `db:"weight_kg"`
	Position     string         `db:"position"`
	Jersey       string         `db:"jersey"`
	Photo        string         `db:"photo"`
	Biography    string         `db:"biography"`

	CurrentSeasonStats  any `db:"current_season_stats"`
	PreviousSeasonStats any `db:"previous_season_stats"`
	RecentGames         any `db:"recent_games"`
	CareerStats         any `db:"career_stats"`
	News                any `db:"news"`

	StatsSyncedAt sql.NullTime `db:"stats_synced_at"`
	SyncedAt      sql.NullTime `db:"synced_at"`
	Active        bool         `db:"active"`
}

func playerFromRow(row playerTableModel) player.Player {
	item := player.Player{
		ID:           row.ID,
		TeamID:       row.TeamID,
		APIID:        int64Ptr(row.APIID),
		ESPNID:       stringPtr(row.ESPNID),
		FirstName:    row.FirstName,
		LastName:     row.LastName,
		Slug:         row.Slug,
		BirthDate:    timePtr(row.BirthDate),
		BirthPlace:   row.BirthPlace,
		BirthCountry: row.BirthCountry,
		Nationality:  row.Nationality,
		HeightCM:     intPtr(row.HeightCM),
		WeightKG:     intPtr(row.WeightKG),
		Position:     row.Position,
		Jersey:       row.Jersey,
		Photo:        row.Photo,
		Biography:    row.Biography,

		CurrentSeasonStats:  row.CurrentSeasonStats,
		PreviousSeasonStats: row.PreviousSeasonStats,
		RecentGames:         row.RecentGames,
		CareerStats:         row.CareerStats,

		StatsSyncedAt: timePtr(row.StatsSyncedAt),
		SyncedAt:      timePtr(row.SyncedAt),
		Active:        row.Active,
	}
	if len(row.News) > 0 {
		// Malformed news blobs read back as no articles rather than failing
		// the whole row.
		_ = sonic.Unmarshal(row.News, &item.News)
	}
	return item
}

func playerToInsertModel(item player.Player) playerInsertModel {
	var news []byte
	if len(item.News) > 0 {
		news, _ = sonic.Marshal(item.News)
	}

	return playerInsertModel{
		TeamID:       item.TeamID,
		APIID:        nullInt64(item.APIID),
		ESPNID:       nullStringPtr(item.ESPNID),
		FirstName:    item.FirstName,
		LastName:     item.LastName,
		Slug:         item.Slug,
		BirthDate:    nullTime(item.BirthDate),
		BirthPlace:   item.BirthPlace,
		BirthCountry: item.BirthCountry,
		Nationality:  item.Nationality,
		HeightCM:     nullInt(item.HeightCM),
		WeightKG:     nullInt(item.WeightKG),
		Position:     item.Position,
		Jersey:       item.Jersey,
		Photo:        item.Photo,
		Biography:    item.Biography,

		CurrentSeasonStats:  jsonBlob(item.CurrentSeasonStats),
		PreviousSeasonStats: jsonBlob(item.PreviousSeasonStats),
		RecentGames:         jsonBlob(item.RecentGames),
		CareerStats:         jsonBlob(item.CareerStats),
		News:                jsonBlob(news),

		StatsSyncedAt: nullTime(item.StatsSyncedAt),
		SyncedAt:      nullTime(item.SyncedAt),
		Active:        item.Active,
	}
}
