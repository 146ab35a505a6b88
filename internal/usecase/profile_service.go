package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

const (
	defaultNewsPerPlayer  = 5
	defaultRecentGameSpan = 10
)

// ProfileService deep-refreshes one player at a time: season stat blobs,
// recent game log, biography and portrait, and current headlines. Stat blobs
// are only overwritten when the upstream fetch succeeds with content, so a
// flaky provider never wipes data we already hold.
type ProfileService struct {
	sports  sport.Repository
	teams   team.Repository
	players player.Repository
	api     SportsDataProvider
	bio     PlayerBioProvider
	news    NewsProvider
	logger  *logging.Logger
	now     func() time.Time
}

type ProfileServiceConfig struct {
	Sports  sport.Repository
	Teams   team.Repository
	Players player.Repository
	API     SportsDataProvider
	Bio     PlayerBioProvider
	News    NewsProvider
	Logger  *logging.Logger
}

func NewProfileService(cfg ProfileServiceConfig) *ProfileService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &ProfileService{
		sports:  cfg.Sports,
		teams:   cfg.Teams,
		players: cfg.Players,
		api:     cfg.API,
		bio:     cfg.Bio,
		news:    cfg.News,
		logger:  logger,
		now:     time.Now,
	}
}

// SyncProfile refreshes a single player's enriched data and reports how many
// sections actually changed.
func (s *ProfileService) SyncProfile(ctx context.Context, slug string) (ProfileSyncReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProfileService.SyncProfile")
	defer span.End()

	var report ProfileSyncReport
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return report, fmt.Errorf("%w: player slug is required", ErrInvalidInput)
	}

	p, exists, err := s.players.GetBySlug(ctx, slug)
	if err != nil {
		return report, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return report, fmt.Errorf("%w: player=%s", ErrNotFound, slug)
	}
	report.Slug = p.Slug

	now := s.now()
	season := defaultSeason(now)

	if p.APIID != nil {
		alias, aliasErr := s.providerAliasForTeam(ctx, p.TeamID)
		if aliasErr != nil {
			s.logger.WarnContext(ctx, "resolve sport alias failed", "player", p.Slug, "error", aliasErr)
		} else {
			report.StatsRefreshed = s.refreshStats(ctx, &p, alias, season, now)
		}
	}

	if s.bio != nil && (p.Biography == "" || p.Photo == "") {
		report.BioRefreshed = s.refreshBio(ctx, &p)
	}
	if p.Biography == "" {
		p.Biography = composedBiography(p)
		report.BioRefreshed = report.BioRefreshed || p.Biography != ""
	}

	if s.news != nil {
		articles, newsErr := s.news.Search(ctx, p.FullName(), defaultNewsPerPlayer)
		if newsErr != nil {
			s.logger.WarnContext(ctx, "fetch news failed", "player", p.Slug, "error", newsErr)
		} else if len(articles) > 0 {
			p.News = articles
			report.NewsRefreshed = true
		}
	}

	p.SyncedAt = &now
	if err := s.players.Update(ctx, p); err != nil {
		return report, fmt.Errorf("update player %s: %w", p.Slug, err)
	}
	return report, nil
}

type ProfileSyncReport struct {
	Slug           string `json:"slug"`
	StatsRefreshed bool   `json:"stats_refreshed"`
	BioRefreshed   bool   `json:"bio_refreshed"`
	NewsRefreshed  bool   `json:"news_refreshed"`
}

func (s *ProfileService) refreshStats(ctx context.Context, p *player.Player, alias string, season int, now time.Time) bool {
	refreshed := false

	if blob, err := s.api.PlayerSeasonStats(ctx, alias, *p.APIID, season); err != nil {
		s.logger.WarnContext(ctx, "fetch current season stats failed", "player", p.Slug, "season", season, "error", err)
	} else if blobHasContent(blob) {
		p.CurrentSeasonStats = blob
		refreshed = true
	}

	if blob, err := s.api.PlayerSeasonStats(ctx, alias, *p.APIID, season-1); err != nil {
		s.logger.WarnContext(ctx, "fetch previous season stats failed", "player", p.Slug, "season", season-1, "error", err)
	} else if blobHasContent(blob) {
		p.PreviousSeasonStats = blob
		refreshed = true
	}

	if blob, err := s.api.PlayerRecentGames(ctx, alias, *p.APIID, defaultRecentGameSpan); err != nil {
		s.logger.WarnContext(ctx, "fetch recent games failed", "player", p.Slug, "error", err)
	} else if blobHasContent(blob) {
		p.RecentGames = blob
		refreshed = true
	}

	if refreshed {
		p.StatsSyncedAt = &now
	}
	return refreshed
}

func (s *ProfileService) refreshBio(ctx context.Context, p *player.Player) bool {
	bio, found, err := s.bio.SearchPlayer(ctx, p.FullName())
	if err != nil {
		s.logger.WarnContext(ctx, "fetch biography failed", "player", p.Slug, "error", err)
		return false
	}
	if !found {
		return false
	}

	refreshed := false
	if p.Biography == "" && bio.Biography != "" {
		p.Biography = bio.Biography
		refreshed = true
	}
	if p.Photo == "" && bio.Photo != "" {
		p.Photo = bio.Photo
		refreshed = true
	}
	return refreshed
}

func (s *ProfileService) providerAliasForTeam(ctx context.Context, teamID int64) (string, error) {
	t, exists, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return "", fmt.Errorf("get team: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: team id=%d", ErrNotFound, teamID)
	}

	sports, err := s.sports.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list sports: %w", err)
	}
	for _, sp := range sports {
		if sp.ID == t.SportID {
			if sp.ProviderAlias == "" {
				return sp.Slug, nil
			}
			return sp.ProviderAlias, nil
		}
	}
	return "", fmt.Errorf("%w: sport id=%d", ErrNotFound, t.SportID)
}

// composedBiography builds a minimal one-line bio from structured fields so a
// profile is never fully blank.
func composedBiography(p player.Player) string {
	parts := make([]string, 0, 3)
	if p.Position != "" {
		parts = append(parts, fmt.Sprintf("%s is a %s.", p.FullName(), strings.ToLower(p.Position)))
	} else {
		parts = append(parts, fmt.Sprintf("%s is a professional athlete.", p.FullName()))
	}
	if p.BirthDate != nil {
		born := "Born " + p.BirthDate.Format("January 2, 2006")
		if p.BirthPlace != "" {
			born += " in " + p.BirthPlace
		}
		parts = append(parts, born+".")
	} else if p.BirthPlace != "" {
		parts = append(parts, "Born in "+p.BirthPlace+".")
	}
	if p.Nationality != "" {
		parts = append(parts, "Nationality: "+p.Nationality+".")
	}
	if p.FullName() == "" {
		return ""
	}
	return strings.Join(parts, " ")
}

func blobHasContent(blob []byte) bool {
	trimmed := strings.TrimSpace(string(blob))
	switch trimmed {
	case "", "null", "{}", "[]":
		return false
	}
	return true
}
