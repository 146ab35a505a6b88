package player

import (
	"fmt"
	"time"
)

// Article is a lightweight news stub attached to a player.
type Article struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Excerpt     string `json:"excerpt"`
	URL         string `json:"url"`
}

// Player is one canonical athlete. Stat blobs hold opaque provider payloads
// and are replaced wholesale on each profile sync; photo and biography are
// only ever filled, never clobbered.
type Player struct {
	ID           int64
	TeamID       int64
	APIID        *int64
	ESPNID       *string
	FirstName    string
	LastName     string
	Slug         string
	BirthDate    *time.Time
	BirthPlace   string
	BirthCountry string
	Nationality  string
	HeightCM     *int
	WeightKG     *int
	Position     string
	// Jersey stays a string: "00" is a real number and must not collapse to 0.
	Jersey    string
	Photo     string
	Biography string

	CurrentSeasonStats  []byte
	PreviousSeasonStats []byte
	RecentGames         []byte
	CareerStats         []byte
	News                []Article

	StatsSyncedAt *time.Time
	SyncedAt      *time.Time
	Active        bool
}

func (p Player) Validate() error {
	if p.TeamID == 0 {
		return fmt.Errorf("player team id is required")
	}
	if p.FirstName == "" && p.LastName == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Slug == "" {
		return fmt.Errorf("player slug is required")
	}

	return nil
}

// FullName joins first and last name, tolerating either being empty.
func (p Player) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}
