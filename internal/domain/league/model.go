package league

import (
	"fmt"
	"time"
)

const (
	CategoryCollege      = "college"
	CategoryProfessional = "professional"
)

// League groups teams under one sport, e.g. the NBA or an NCAA division.
type League struct {
	ID         int64
	SportID    int64
	ExternalID *int64
	Name       string
	Slug       string
	Country    string
	Category   string
	Logo       string
	Seasons    []int
	SyncedAt   *time.Time
	Active     bool
}

func (l League) Validate() error {
	if l.SportID == 0 {
		return fmt.Errorf("league sport id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Slug == "" {
		return fmt.Errorf("league slug is required")
	}

	return nil
}

// LatestSeason returns the most recent season year, or zero when unknown.
func (l League) LatestSeason() int {
	latest := 0
	for _, season := range l.Seasons {
		if season > latest {
			latest = season
		}
	}
	return latest
}
