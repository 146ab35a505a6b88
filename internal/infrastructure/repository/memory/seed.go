// Package memory holds map-backed repositories used when no database is
// configured, pre-loaded with a small demo dataset.
package memory

import (
	"github.com/statlinehq/statline/internal/domain/league"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
)

const (
	SportIDBasketball = int64(1)
	SportIDFootball   = int64(2)

	LeagueIDNBA    = int64(1)
	LeagueIDNCAAD1 = int64(2)
)

func SeedSports() []sport.Sport {
	return []sport.Sport{
		{ID: SportIDBasketball, Name: "Basketball", Slug: "basketball", ProviderAlias: "basketball", Category: sport.CategoryTeam, Active: true},
		{ID: SportIDFootball, Name: "Football", Slug: "football", ProviderAlias: "football", Category: sport.CategoryTeam, Active: true},
	}
}

func SeedLeagues() []league.League {
	nbaExternalID := int64(12)
	return []league.League{
		{
			ID:         LeagueIDNBA,
			SportID:    SportIDBasketball,
			ExternalID: &nbaExternalID,
			Name:       "NBA",
			Slug:       "nba",
			Country:    "USA",
			Category:   league.CategoryProfessional,
			Seasons:    []int{2023, 2024, 2025},
			Active:     true,
		},
		{
			ID:       LeagueIDNCAAD1,
			SportID:  SportIDBasketball,
			Name:     "NCAA Division I",
			Slug:     "ncaa-d1",
			Country:  "USA",
			Category: league.CategoryCollege,
			Active:   true,
		},
	}
}

func SeedTeams() []team.Team {
	nba := LeagueIDNBA
	lakersAPIID := int64(145)
	lakersESPNID := "13"
	celticsAPIID := int64(133)
	celticsESPNID := "2"

	return []team.Team{
		{
			ID:       1,
			SportID:  SportIDBasketball,
			LeagueID: &nba,
			APIID:    &lakersAPIID,
			ESPNID:   &lakersESPNID,
			Name:     "Los Angeles Lakers",
			Slug:     "los-angeles-lakers",
			Code:     "LAL",
			Country:  "USA",
			City:     "Los Angeles",
			State:    "CA",
			Active:   true,
		},
		{
			ID:       2,
			SportID:  SportIDBasketball,
			LeagueID: &nba,
			APIID:    &celticsAPIID,
			ESPNID:   &celticsESPNID,
			Name:     "Boston Celtics",
			Slug:     "boston-celtics",
			Code:     "BOS",
			Country:  "USA",
			City:     "Boston",
			State:    "MA",
			Active:   true,
		},
	}
}

func SeedPlayers() []player.Player {
	lebronAPIID := int64(265)
	lebronESPNID := "1966"
	tatumAPIID := int64(882)

	return []player.Player{
		{
			ID:        1,
			TeamID:    1,
			APIID:     &lebronAPIID,
			ESPNID:    &lebronESPNID,
			FirstName: "LeBron",
			LastName:  "James",
			Slug:      "lebron-james",
			Position:  "Forward",
			Jersey:    "23",
			Active:    true,
		},
		{
			ID:        2,
			TeamID:    2,
			APIID:     &tatumAPIID,
			FirstName: "Jayson",
			LastName:  "Tatum",
			Slug:      "jayson-tatum",
			Position:  "Forward",
			Jersey:    "0",
			Active:    true,
		},
	}
}
