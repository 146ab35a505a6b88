package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

const (
	defaultRecentLookbackDays = 14
	defaultRecentGameCount    = 5
	defaultProbeConcurrency   = 4
	liveSourceName            = "espn"
)

// LivePlayerRef identifies the player a live result belongs to.
type LivePlayerRef struct {
	ID       int64
	Name     string
	TeamAbbr string
}

// LiveResult is one resolved live (or pregame/postgame) stat line.
type LiveResult struct {
	Live    bool
	State   string
	Clock   string
	EventID string
	Player  LivePlayerRef
	Line    map[string]string
	Source  string
}

// RecentGame is one completed game with the player's line in it.
type RecentGame struct {
	EventID       string
	Date          string
	Opponent      string
	OpponentLogo  string
	Result        string
	TeamScore     string
	OpponentScore string
	Line          map[string]string
}

// LiveLookupService finds a player's game on the live scoreboard feed and
// extracts their stat line from the box score.
type LiveLookupService struct {
	players          player.Repository
	teams            team.Repository
	scores           LiveScoreProvider
	logger           *logging.Logger
	now              func() time.Time
	lookbackDays     int
	probeConcurrency int
}

func NewLiveLookupService(players player.Repository, teams team.Repository, scores LiveScoreProvider, logger *logging.Logger) *LiveLookupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LiveLookupService{
		players:          players,
		teams:            teams,
		scores:           scores,
		logger:           logger,
		now:              time.Now,
		lookbackDays:     defaultRecentLookbackDays,
		probeConcurrency: defaultProbeConcurrency,
	}
}

// Live resolves today's stat line for the player. It returns ErrNotFound
// when no event involves the player today, ErrUnprocessable when the
// player's team has no abbreviation to search by, and ErrUpstreamFailure
// when a located event's summary cannot be fetched.
func (s *LiveLookupService) Live(ctx context.Context, playerSlug string) (LiveResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveLookupService.Live")
	defer span.End()

	p, t, err := s.resolvePlayerTeam(ctx, playerSlug)
	if err != nil {
		return LiveResult{}, err
	}
	ref := LivePlayerRef{ID: p.ID, Name: p.FullName(), TeamAbbr: t.Code}

	events, err := s.scores.Scoreboard(ctx, s.now())
	if err != nil {
		s.logger.WarnContext(ctx, "scoreboard fetch failed", "error", err)
		events = nil
	}

	event, found := s.locateEvent(ctx, events, t.Code, p.FullName())
	if !found {
		return LiveResult{Player: ref}, fmt.Errorf("%w: no scoreboard event for %s today", ErrNotFound, t.Code)
	}

	summary, err := s.scores.GameSummary(ctx, event.ID)
	if err != nil {
		return LiveResult{Player: ref}, fmt.Errorf("%w: summary for event %s: %v", ErrUpstreamFailure, event.ID, err)
	}

	line, _ := extractAthleteLine(summary, t.Code, p.FullName())
	return LiveResult{
		Live:    event.State == EventStateIn,
		State:   event.State,
		Clock:   event.Clock,
		EventID: event.ID,
		Player:  ref,
		Line:    line,
		Source:  liveSourceName,
	}, nil
}

// Recent scans backward day by day collecting up to count completed games
// with the player's line and the game outcome.
func (s *LiveLookupService) Recent(ctx context.Context, playerSlug string, count int) ([]RecentGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LiveLookupService.Recent")
	defer span.End()

	if count <= 0 || count > 20 {
		count = defaultRecentGameCount
	}

	p, t, err := s.resolvePlayerTeam(ctx, playerSlug)
	if err != nil {
		return nil, err
	}

	games := make([]RecentGame, 0, count)
	for day := 0; day <= s.lookbackDays && len(games) < count; day++ {
		date := s.now().AddDate(0, 0, -day)
		events, sbErr := s.scores.Scoreboard(ctx, date)
		if sbErr != nil {
			s.logger.WarnContext(ctx, "scoreboard fetch failed during recent scan", "date", date.Format("2006-01-02"), "error", sbErr)
			continue
		}
		for _, event := range events {
			if len(games) >= count {
				break
			}
			if event.State != EventStatePost || !event.HasTeam(t.Code) {
				continue
			}
			summary, sumErr := s.scores.GameSummary(ctx, event.ID)
			if sumErr != nil {
				s.logger.WarnContext(ctx, "summary fetch failed during recent scan", "event_id", event.ID, "error", sumErr)
				continue
			}
			line, lineFound := extractAthleteLine(summary, t.Code, p.FullName())
			if !lineFound {
				continue
			}
			games = append(games, buildRecentGame(event, date, t.Code, line))
		}
	}

	return games, nil
}

func (s *LiveLookupService) resolvePlayerTeam(ctx context.Context, playerSlug string) (player.Player, team.Team, error) {
	if strings.TrimSpace(playerSlug) == "" {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player slug is required", ErrInvalidInput)
	}

	p, found, err := s.players.GetBySlug(ctx, playerSlug)
	if err != nil {
		return player.Player{}, team.Team{}, fmt.Errorf("get player by slug: %w", err)
	}
	if !found {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player %s", ErrNotFound, playerSlug)
	}

	t, found, err := s.teams.GetByID(ctx, p.TeamID)
	if err != nil {
		return player.Player{}, team.Team{}, fmt.Errorf("get team by id: %w", err)
	}
	if !found || strings.TrimSpace(t.Code) == "" {
		return player.Player{}, team.Team{}, fmt.Errorf("%w: player %s has no team abbreviation", ErrUnprocessable, playerSlug)
	}

	return p, t, nil
}

// locateEvent applies the three-stage search: live event for the known
// abbreviation, then any-state event for it, then a bounded concurrent probe
// of every event's box score by athlete name.
func (s *LiveLookupService) locateEvent(ctx context.Context, events []ScoreboardEvent, teamAbbr, fullName string) (ScoreboardEvent, bool) {
	for _, event := range events {
		if event.State == EventStateIn && event.HasTeam(teamAbbr) {
			return event, true
		}
	}
	for _, event := range events {
		if event.HasTeam(teamAbbr) {
			return event, true
		}
	}
	return s.probeEventsByName(ctx, events, fullName)
}

type probeHit struct {
	ok    bool
	index int
}

func (s *LiveLookupService) probeEventsByName(ctx context.Context, events []ScoreboardEvent, fullName string) (ScoreboardEvent, bool) {
	if len(events) == 0 {
		return ScoreboardEvent{}, false
	}

	workers := pool.NewWithResults[probeHit]().WithMaxGoroutines(s.probeConcurrency)
	for i := range events {
		index := i
		eventID := events[i].ID
		workers.Go(func() probeHit {
			summary, err := s.scores.GameSummary(ctx, eventID)
			if err != nil {
				return probeHit{}
			}
			if _, found := extractAthleteLine(summary, "", fullName); found {
				return probeHit{ok: true, index: index}
			}
			return probeHit{}
		})
	}

	best := -1
	for _, hit := range workers.Wait() {
		if hit.ok && (best == -1 || hit.index < best) {
			best = hit.index
		}
	}
	if best == -1 {
		return ScoreboardEvent{}, false
	}
	return events[best], true
}

func buildRecentGame(event ScoreboardEvent, date time.Time, teamAbbr string, line map[string]string) RecentGame {
	game := RecentGame{
		EventID: event.ID,
		Date:    date.Format("2006-01-02"),
		Line:    line,
	}
	if event.Date != "" {
		game.Date = event.Date
	}

	var own, opp *EventCompetitor
	for i := range event.Competitors {
		c := &event.Competitors[i]
		if strings.EqualFold(c.Abbreviation, teamAbbr) {
			own = c
		} else {
			opp = c
		}
	}
	if opp != nil {
		game.Opponent = opp.Name
		game.OpponentLogo = opp.Logo
		game.OpponentScore = opp.Score
	}
	if own != nil {
		game.TeamScore = own.Score
		game.Result = gameResult(*own, opp)
	}
	return game
}

func gameResult(own EventCompetitor, opp *EventCompetitor) string {
	if opp != nil {
		ownScore, ownErr := strconv.Atoi(strings.TrimSpace(own.Score))
		oppScore, oppErr := strconv.Atoi(strings.TrimSpace(opp.Score))
		if ownErr == nil && oppErr == nil {
			if ownScore > oppScore {
				return "W"
			}
			return "L"
		}
	}
	if own.Winner {
		return "W"
	}
	return "L"
}
