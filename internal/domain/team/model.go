package team

import (
	"fmt"
	"time"
)

// Venue is the home arena/stadium details attached to a team.
type Venue struct {
	Name     string
	Address  string
	City     string
	Capacity *int
	Surface  string
	Image    string
}

// Team is one canonical club/franchise/school program. A team may carry
// identifiers from two independent providers; either may be absent.
type Team struct {
	ID             int64
	SportID        int64
	LeagueID       *int64
	APIID          *int64
	ESPNID         *string
	Name           string
	Slug           string
	Code           string
	Country        string
	City           string
	State          string
	Founded        *int
	Venue          Venue
	Logo           string
	PrimaryColor   string
	SecondaryColor string
	Extra          []byte
	SyncedAt       *time.Time
	Active         bool
}

func (t Team) Validate() error {
	if t.SportID == 0 {
		return fmt.Errorf("team sport id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}
	if t.Slug == "" {
		return fmt.Errorf("team slug is required")
	}

	return nil
}

// HasProviderID reports whether the team is linked to at least one upstream
// provider identity.
func (t Team) HasProviderID() bool {
	return t.APIID != nil || (t.ESPNID != nil && *t.ESPNID != "")
}
