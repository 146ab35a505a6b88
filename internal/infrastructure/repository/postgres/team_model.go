package postgres

import (
	"database/sql"
	"time"

	"github.com/statlinehq/statline/internal/domain/team"
)

type teamTableModel struct {
	ID             int64          `db:"id"`
	SportID        int64          `db:"sport_id"`
	LeagueID       sql.NullInt64  `db:"league_id"`
	APIID          sql.NullInt64  `db:"api_id"`
	ESPNID         sql.NullString `db:"espn_id"`
	Name           string         `db:"name"`
	Slug           string         `db:"slug"`
	Code           string         `db:"code"`
	Country        string         `db:"country"`
	City           string         `db:"city"`
	State          string         `db:"state"`
	Founded        sql.NullInt64  `db:"founded"`
	VenueName      string         `db:"venue_name"`
	VenueAddress   string         `db:"venue_address"`
	VenueCity      string         `db:"venue_city"`
	VenueCapacity  sql.NullInt64  `db:"venue_capacity"`
	VenueSurface   string         `db:"venue_surface"`
	VenueImage     string         `db:"venue_image"`
	Logo           string         `db:"logo"`
	PrimaryColor   string         `db:"primary_color"`
	SecondaryColor string         `db:"secondary_color"`
	Extra          []byte         `db:"extra"`
	SyncedAt       sql.NullTime   `db:"synced_at"`
	Active         bool           `db:"active"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

type teamInsertModel struct {
	SportID        int64          `db:"sport_id"`
	LeagueID       sql.NullInt64  `db:"league_id"`
	APIID          sql.NullInt64  `db:"api_id"`
	ESPNID         sql.NullString `db:"espn_id"`
	Name           string         `db:"name"`
	Slug           string         `db:"slug"`
	Code           string         `db:"code"`
	Country        string         `db:"country"`
	City           string         `db:"city"`
	State          string         `db:"state"`
	Founded        sql.NullInt64  `db:"founded"`
	VenueName      string         `db:"venue_name"`
	VenueAddress   string         `db:"venue_address"`
	VenueCity      string         `db:"venue_city"`
	VenueCapacity  sql.NullInt64  `db:"venue_capacity"`
	VenueSurface   string         `db:"venue_surface"`
	VenueImage     string         `db:"venue_image"`
	Logo           string         `db:"logo"`
	PrimaryColor   string         `db:"primary_color"`
	SecondaryColor string         `db:"secondary_color"`
	Extra          any            `db:"extra"`
	SyncedAt       sql.NullTime   `db:"synced_at"`
	Active         bool           `db:"active"`
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:       row.ID,
		SportID:  row.SportID,
		LeagueID: int64Ptr(row.LeagueID),
		APIID:    int64Ptr(row.APIID),
		ESPNID:   stringPtr(row.ESPNID),
		Name:     row.Name,
		Slug:     row.Slug,
		Code:     row.Code,
		Country:  row.Country,
		City:     row.City,
		State:    row.State,
		Founded:  intPtr(row.Founded),
		Venue: team.Venue{
			Name:     row.VenueName,
			Address:  row.VenueAddress,
			City:     row.VenueCity,
			Capacity: intPtr(row.VenueCapacity),
			Surface:  row.VenueSurface,
			Image:    row.VenueImage,
		},
		Logo:           row.Logo,
		PrimaryColor:   row.PrimaryColor,
		SecondaryColor: row.SecondaryColor,
		Extra:          row.Extra,
		SyncedAt:       timePtr(row.SyncedAt),
		Active:         row.Active,
	}
}

func teamToInsertModel(item team.Team) teamInsertModel {
	return teamInsertModel{
		SportID:        item.SportID,
		LeagueID:       nullInt64(item.LeagueID),
		APIID:          nullInt64(item.APIID),
		ESPNID:         nullStringPtr(item.ESPNID),
		Name:           item.Name,
		Slug:           item.Slug,
		Code:           item.Code,
		Country:        item.Country,
		City:           item.City,
		State:          item.State,
		Founded:        nullInt(item.Founded),
		VenueName:      item.Venue.Name,
		VenueAddress:   item.Venue.Address,
		VenueCity:      item.Venue.City,
		VenueCapacity:  nullInt(item.Venue.Capacity),
		VenueSurface:   item.Venue.Surface,
		VenueImage:     item.Venue.Image,
		Logo:           item.Logo,
		PrimaryColor:   item.PrimaryColor,
		SecondaryColor: item.SecondaryColor,
		Extra:          jsonBlob(item.Extra),
		SyncedAt:       nullTime(item.SyncedAt),
		Active:         item.Active,
	}
}
