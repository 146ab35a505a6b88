package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/statlinehq/statline/internal/domain/league"
	"github.com/statlinehq/statline/internal/domain/sport"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

// SyncService sequences batch imports: fetch one upstream collection, feed
// each record through reconciliation, tally outcomes, and throttle with a
// fixed inter-request delay. A pass only aborts when the initial listing
// comes back empty.
type SyncService struct {
	sports    sport.Repository
	leagues   league.Repository
	teams     team.Repository
	reconcile *ReconcileService
	api       SportsDataProvider
	live      LiveScoreProvider
	college   CollegeSportsProvider
	logger    *logging.Logger
	delay     time.Duration
	sleep     func(context.Context, time.Duration)
	now       func() time.Time
}

type SyncServiceConfig struct {
	Sports    sport.Repository
	Leagues   league.Repository
	Teams     team.Repository
	Reconcile *ReconcileService
	API       SportsDataProvider
	Live      LiveScoreProvider
	College   CollegeSportsProvider
	Logger    *logging.Logger
	Delay     time.Duration
}

func NewSyncService(cfg SyncServiceConfig) *SyncService {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	delay := cfg.Delay
	if delay <= 0 {
		delay = 250 * time.Millisecond
	}
	return &SyncService{
		sports:    cfg.Sports,
		leagues:   cfg.Leagues,
		teams:     cfg.Teams,
		reconcile: cfg.Reconcile,
		api:       cfg.API,
		live:      cfg.Live,
		college:   cfg.College,
		logger:    logger,
		delay:     delay,
		sleep:     sleepContext,
		now:       time.Now,
	}
}

// SyncLeagues imports the provider's league catalog for one sport.
func (s *SyncService) SyncLeagues(ctx context.Context, sportSlug string) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncLeagues")
	defer span.End()

	var tally SyncTally
	sp, err := s.resolveSport(ctx, sportSlug)
	if err != nil {
		return tally, err
	}

	records, err := s.api.Leagues(ctx, sp.ProviderAlias)
	if err != nil {
		return tally, fmt.Errorf("%w: fetch leagues: %v", ErrDependencyUnavailable, err)
	}
	if len(records) == 0 {
		return tally, fmt.Errorf("%w: provider returned no leagues for %s", ErrUpstreamFailure, sp.Slug)
	}

	now := s.now()
	for _, rec := range records {
		if strings.TrimSpace(rec.Name) == "" {
			tally.Skipped++
			continue
		}
		existing, found, getErr := s.leagues.GetByExternalID(ctx, rec.ExternalID)
		if getErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "lookup league failed", "external_id", rec.ExternalID, "error", getErr)
			continue
		}
		if !found {
			externalID := rec.ExternalID
			item := league.League{
				SportID:    sp.ID,
				ExternalID: &externalID,
				Name:       rec.Name,
				Slug:       slugify(rec.Name),
				Country:    rec.Country,
				Category:   rec.Category,
				Logo:       rec.Logo,
				Seasons:    rec.Seasons,
				SyncedAt:   &now,
				Active:     true,
			}
			if _, createErr := s.leagues.Create(ctx, item); createErr != nil {
				tally.Errors++
				s.logger.ErrorContext(ctx, "create league failed", "name", rec.Name, "error", createErr)
				continue
			}
			tally.Created++
			continue
		}

		existing.Name = firstNonEmpty(rec.Name, existing.Name)
		existing.Country = firstNonEmpty(rec.Country, existing.Country)
		existing.Category = firstNonEmpty(rec.Category, existing.Category)
		if existing.Logo == "" && rec.Logo != "" {
			existing.Logo = rec.Logo
		}
		if len(rec.Seasons) > 0 {
			existing.Seasons = rec.Seasons
		}
		existing.SyncedAt = &now
		if updateErr := s.leagues.Update(ctx, existing); updateErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "update league failed", "league_id", existing.ID, "error", updateErr)
			continue
		}
		tally.Updated++
	}

	s.logger.InfoContext(ctx, "league sync finished", "sport", sp.Slug, "tally", tally.String())
	return tally, nil
}

// SyncTeams imports one league's teams from the generic stats provider.
func (s *SyncService) SyncTeams(ctx context.Context, sportSlug, leagueSlug string, season int) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncTeams")
	defer span.End()

	var tally SyncTally
	sp, lg, err := s.resolveSportLeague(ctx, sportSlug, leagueSlug)
	if err != nil {
		return tally, err
	}
	if lg.ExternalID == nil {
		return tally, fmt.Errorf("%w: league %s has no provider id", ErrUnprocessable, lg.Slug)
	}
	if season <= 0 {
		season = lg.LatestSeason()
	}
	if season <= 0 {
		season = defaultSeason(s.now())
	}

	records, err := s.api.Teams(ctx, sp.ProviderAlias, *lg.ExternalID, season)
	if err != nil {
		return tally, fmt.Errorf("%w: fetch teams: %v", ErrDependencyUnavailable, err)
	}
	if len(records) == 0 {
		return tally, fmt.Errorf("%w: provider returned no teams for %s season %d", ErrUpstreamFailure, lg.Slug, season)
	}

	leagueID := lg.ID
	tally, err = s.reconcile.ReconcileTeams(ctx, TeamBatchOptions{SportID: sp.ID, LeagueID: &leagueID}, records)
	if err != nil {
		return tally, err
	}

	s.logger.InfoContext(ctx, "team sync finished", "league", lg.Slug, "season", season, "tally", tally.String())
	return tally, nil
}

// SyncPlayers walks every provider-linked team in a league and imports its
// player roster, pausing between teams to respect upstream rate limits.
func (s *SyncService) SyncPlayers(ctx context.Context, sportSlug, leagueSlug string, season int) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncPlayers")
	defer span.End()

	var tally SyncTally
	sp, lg, err := s.resolveSportLeague(ctx, sportSlug, leagueSlug)
	if err != nil {
		return tally, err
	}
	if season <= 0 {
		season = lg.LatestSeason()
	}
	if season <= 0 {
		season = defaultSeason(s.now())
	}

	teams, err := s.teams.ListBySport(ctx, sp.ID)
	if err != nil {
		return tally, fmt.Errorf("list teams: %w", err)
	}
	linked := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if t.APIID != nil && (t.LeagueID == nil || *t.LeagueID == lg.ID) {
			linked = append(linked, t)
		}
	}
	if len(linked) == 0 {
		return tally, fmt.Errorf("%w: no provider-linked teams for %s", ErrUpstreamFailure, lg.Slug)
	}

	for i, t := range linked {
		records, fetchErr := s.api.Players(ctx, sp.ProviderAlias, *t.APIID, season)
		if fetchErr != nil {
			tally.Errors++
			s.logger.WarnContext(ctx, "fetch players failed", "team", t.Slug, "error", fetchErr)
			continue
		}
		teamTally, recErr := s.reconcile.ReconcilePlayers(ctx, t.ID, records)
		if recErr != nil {
			tally.Errors++
			s.logger.ErrorContext(ctx, "reconcile players failed", "team", t.Slug, "error", recErr)
			continue
		}
		tally.Merge(teamTally)
		s.logger.InfoContext(ctx, "team roster synced", "team", t.Slug, "progress", fmt.Sprintf("%d/%d", i+1, len(linked)), "tally", teamTally.String())

		if i < len(linked)-1 {
			s.sleep(ctx, s.delay)
		}
	}

	s.logger.InfoContext(ctx, "player sync finished", "league", lg.Slug, "season", season, "tally", tally.String())
	return tally, nil
}

// SyncESPNTeams links canonical teams to the live provider's team catalog,
// matching by its id first, then abbreviation or slug.
func (s *SyncService) SyncESPNTeams(ctx context.Context, sportSlug string) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncESPNTeams")
	defer span.End()

	var tally SyncTally
	sp, err := s.resolveSport(ctx, sportSlug)
	if err != nil {
		return tally, err
	}

	records, err := s.live.Teams(ctx)
	if err != nil {
		return tally, fmt.Errorf("%w: fetch live provider teams: %v", ErrDependencyUnavailable, err)
	}
	if len(records) == 0 {
		return tally, fmt.Errorf("%w: live provider returned no teams", ErrUpstreamFailure)
	}

	tally, err = s.reconcile.ReconcileTeams(ctx, TeamBatchOptions{SportID: sp.ID}, records)
	if err != nil {
		return tally, err
	}

	s.logger.InfoContext(ctx, "espn team sync finished", "sport", sp.Slug, "tally", tally.String())
	return tally, nil
}

// SyncESPNRosters imports each linked team's roster from the live provider.
func (s *SyncService) SyncESPNRosters(ctx context.Context, sportSlug string) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncESPNRosters")
	defer span.End()

	var tally SyncTally
	sp, err := s.resolveSport(ctx, sportSlug)
	if err != nil {
		return tally, err
	}

	teams, err := s.teams.ListBySport(ctx, sp.ID)
	if err != nil {
		return tally, fmt.Errorf("list teams: %w", err)
	}
	linked := make([]team.Team, 0, len(teams))
	for _, t := range teams {
		if t.ESPNID != nil && *t.ESPNID != "" {
			linked = append(linked, t)
		}
	}
	if len(linked) == 0 {
		return tally, fmt.Errorf("%w: no espn-linked teams for %s", ErrUpstreamFailure, sp.Slug)
	}

	for i, t := range linked {
		records, fetchErr := s.live.TeamRoster(ctx, *t.ESPNID)
		if fetchErr != nil {
			tally.Errors++
			s.logger.WarnContext(ctx, "fetch roster failed", "team", t.Slug, "error", fetchErr)
			continue
		}
		teamTally, recErr := s.reconcile.ReconcilePlayers(ctx, t.ID, records)
		if recErr != nil {
			tally.Errors++
			continue
		}
		tally.Merge(teamTally)
		s.logger.InfoContext(ctx, "espn roster synced", "team", t.Slug, "progress", fmt.Sprintf("%d/%d", i+1, len(linked)), "tally", teamTally.String())

		if i < len(linked)-1 {
			s.sleep(ctx, s.delay)
		}
	}

	s.logger.InfoContext(ctx, "espn roster sync finished", "sport", sp.Slug, "tally", tally.String())
	return tally, nil
}

// SyncNCAATeams imports a division's standings-derived team list. Slugs are
// scoped by the league slug so same-named schools across divisions never
// collide.
func (s *SyncService) SyncNCAATeams(ctx context.Context, sportSlug, leagueSlug, division string) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncNCAATeams")
	defer span.End()

	var tally SyncTally
	sp, lg, err := s.resolveSportLeague(ctx, sportSlug, leagueSlug)
	if err != nil {
		return tally, err
	}

	records, err := s.college.StandingsTeams(ctx, sp.ProviderAlias, division)
	if err != nil {
		return tally, fmt.Errorf("%w: fetch college standings: %v", ErrDependencyUnavailable, err)
	}
	if len(records) == 0 {
		return tally, fmt.Errorf("%w: college provider returned no teams for %s", ErrUpstreamFailure, division)
	}

	leagueID := lg.ID
	tally, err = s.reconcile.ReconcileTeams(ctx, TeamBatchOptions{
		SportID:    sp.ID,
		LeagueID:   &leagueID,
		SlugPrefix: lg.Slug + "-",
	}, records)
	if err != nil {
		return tally, err
	}

	s.logger.InfoContext(ctx, "ncaa team sync finished", "league", lg.Slug, "division", division, "tally", tally.String())
	return tally, nil
}

// SyncNCAALogos backfills empty team logos from recent college scoreboards.
func (s *SyncService) SyncNCAALogos(ctx context.Context, sportSlug, leagueSlug, division string, daysBack int) (SyncTally, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SyncService.SyncNCAALogos")
	defer span.End()

	var tally SyncTally
	sp, lg, err := s.resolveSportLeague(ctx, sportSlug, leagueSlug)
	if err != nil {
		return tally, err
	}
	if daysBack <= 0 {
		daysBack = 3
	}

	leagueID := lg.ID
	sawAny := false
	for day := 0; day < daysBack; day++ {
		date := s.now().AddDate(0, 0, -day)
		records, fetchErr := s.college.ScoreboardTeams(ctx, sp.ProviderAlias, division, date)
		if fetchErr != nil {
			s.logger.WarnContext(ctx, "fetch college scoreboard failed", "date", date.Format("2006-01-02"), "error", fetchErr)
			continue
		}
		if len(records) == 0 {
			continue
		}
		sawAny = true
		dayTally, recErr := s.reconcile.ReconcileTeams(ctx, TeamBatchOptions{
			SportID:    sp.ID,
			LeagueID:   &leagueID,
			SlugPrefix: lg.Slug + "-",
			UpdateOnly: true,
		}, records)
		if recErr != nil {
			tally.Errors++
			continue
		}
		tally.Merge(dayTally)

		if day < daysBack-1 {
			s.sleep(ctx, s.delay)
		}
	}
	if !sawAny {
		return tally, fmt.Errorf("%w: no scoreboard data in the last %d days", ErrUpstreamFailure, daysBack)
	}

	s.logger.InfoContext(ctx, "ncaa logo sync finished", "league", lg.Slug, "tally", tally.String())
	return tally, nil
}

func (s *SyncService) resolveSport(ctx context.Context, sportSlug string) (sport.Sport, error) {
	sportSlug = strings.TrimSpace(sportSlug)
	if sportSlug == "" {
		return sport.Sport{}, fmt.Errorf("%w: sport slug is required", ErrInvalidInput)
	}
	sp, exists, err := s.sports.GetBySlug(ctx, sportSlug)
	if err != nil {
		return sport.Sport{}, fmt.Errorf("get sport: %w", err)
	}
	if !exists {
		return sport.Sport{}, fmt.Errorf("%w: sport=%s", ErrNotFound, sportSlug)
	}
	return sp, nil
}

func (s *SyncService) resolveSportLeague(ctx context.Context, sportSlug, leagueSlug string) (sport.Sport, league.League, error) {
	sp, err := s.resolveSport(ctx, sportSlug)
	if err != nil {
		return sport.Sport{}, league.League{}, err
	}

	leagueSlug = strings.TrimSpace(leagueSlug)
	if leagueSlug == "" {
		return sport.Sport{}, league.League{}, fmt.Errorf("%w: league slug is required", ErrInvalidInput)
	}
	lg, exists, err := s.leagues.GetBySlug(ctx, leagueSlug)
	if err != nil {
		return sport.Sport{}, league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !exists {
		return sport.Sport{}, league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueSlug)
	}
	return sp, lg, nil
}

// defaultSeason picks the season year that is most likely in progress.
func defaultSeason(now time.Time) int {
	if now.Month() >= time.August {
		return now.Year()
	}
	return now.Year() - 1
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
