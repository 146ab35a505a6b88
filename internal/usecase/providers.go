package usecase

import (
	"context"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
)

// SportsDataProvider is the generic multi-sport stats API. The sport is an
// explicit argument on every call; clients hold no per-sport state.
type SportsDataProvider interface {
	Leagues(ctx context.Context, sport string) ([]ExternalLeagueRecord, error)
	Teams(ctx context.Context, sport string, leagueExternalID int64, season int) ([]ExternalTeamRecord, error)
	Players(ctx context.Context, sport string, teamExternalID int64, season int) ([]ExternalPlayerRecord, error)
	PlayerSeasonStats(ctx context.Context, sport string, playerExternalID int64, season int) ([]byte, error)
	PlayerRecentGames(ctx context.Context, sport string, playerExternalID int64, last int) ([]byte, error)
}

// LiveScoreProvider is the public scoreboard/box-score feed.
type LiveScoreProvider interface {
	Scoreboard(ctx context.Context, date time.Time) ([]ScoreboardEvent, error)
	GameSummary(ctx context.Context, eventID string) (GameSummary, error)
	Teams(ctx context.Context) ([]ExternalTeamRecord, error)
	TeamRoster(ctx context.Context, teamExternalID string) ([]ExternalPlayerRecord, error)
}

// CollegeSportsProvider is the college-sports aggregator.
type CollegeSportsProvider interface {
	StandingsTeams(ctx context.Context, sport, division string) ([]ExternalTeamRecord, error)
	ScoreboardTeams(ctx context.Context, sport, division string, date time.Time) ([]ExternalTeamRecord, error)
}

// PlayerBioProvider enriches players with biography text and portrait URLs.
type PlayerBioProvider interface {
	SearchPlayer(ctx context.Context, fullName string) (ExternalPlayerBio, bool, error)
}

// NewsProvider searches recent articles mentioning a player.
type NewsProvider interface {
	Search(ctx context.Context, query string, limit int) ([]player.Article, error)
}
