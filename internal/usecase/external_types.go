package usecase

import (
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/domain/team"
)

// Upstream record sources. The source decides which provider-id column a
// record's external id is matched and stored against.
const (
	SourceAPISports = "api-sports"
	SourceESPN      = "espn"
	SourceNCAA      = "ncaa"
)

// ExternalTeamRecord is one team row as fetched from a provider, before
// reconciliation against the canonical store.
type ExternalTeamRecord struct {
	Source         string
	ExternalID     string
	Name           string
	Location       string
	Code           string
	Slug           string
	Country        string
	City           string
	State          string
	Founded        *int
	Logo           string
	PrimaryColor   string
	SecondaryColor string
	Venue          team.Venue
	Payload        []byte
}

// ExternalPlayerRecord is one athlete row as fetched from a provider.
// Height and Weight stay raw strings; the reconciliation engine parses them.
type ExternalPlayerRecord struct {
	Source       string
	ExternalID   string
	FirstName    string
	LastName     string
	BirthDate    *time.Time
	BirthPlace   string
	BirthCountry string
	Nationality  string
	Height       string
	Weight       string
	Position     string
	Jersey       string
	Photo        string
}

// ExternalLeagueRecord is one league/competition row from a provider.
type ExternalLeagueRecord struct {
	ExternalID int64
	Name       string
	Country    string
	Category   string
	Logo       string
	Seasons    []int
}

// ExternalPlayerBio is enrichment data from the biography provider.
type ExternalPlayerBio struct {
	Biography string
	Photo     string
}

// ScoreboardEvent is one game on a daily scoreboard feed.
type ScoreboardEvent struct {
	ID          string
	Date        string
	State       string
	Clock       string
	Competitors []EventCompetitor
}

// EventCompetitor is one side of a scoreboard event.
type EventCompetitor struct {
	Abbreviation string
	Name         string
	Logo         string
	Score        string
	HomeAway     string
	Winner       bool
}

// HasTeam reports whether either side of the event carries the given
// abbreviation (case-insensitive).
func (e ScoreboardEvent) HasTeam(abbr string) bool {
	for _, c := range e.Competitors {
		if abbr != "" && strings.EqualFold(c.Abbreviation, abbr) {
			return true
		}
	}
	return false
}

// Scoreboard event states as published by the live provider.
const (
	EventStatePre  = "pre"
	EventStateIn   = "in"
	EventStatePost = "post"
)

// GameSummary is the detailed per-game payload holding the box score.
type GameSummary struct {
	EventID  string
	Boxscore Boxscore
}

// Boxscore carries both published box-score variants: a flat players list
// or a per-team nesting. Exactly one side is usually populated; extraction
// probes both.
type Boxscore struct {
	Players []TeamStatBlock
	Teams   []TeamBoxBlock
}

// TeamStatBlock groups athlete stat lines for one team.
type TeamStatBlock struct {
	TeamAbbreviation string
	TeamName         string
	Groups           []AthleteStatGroup
}

// TeamBoxBlock is the nested variant: team totals plus player blocks.
type TeamBoxBlock struct {
	TeamAbbreviation string
	TeamName         string
	Players          []TeamStatBlock
}

// AthleteStatGroup is one stat table: either each athlete carries named
// values, or the group carries shared labels and athletes carry parallel
// value lists.
type AthleteStatGroup struct {
	Labels   []string
	Athletes []AthleteLine
}

// AthleteLine is a single athlete's row inside a stat group.
type AthleteLine struct {
	DisplayName string
	ShortName   string
	Named       []NamedStat
	Values      []string
}

// NamedStat is one {name, value} stat pair.
type NamedStat struct {
	Name  string
	Value string
}
