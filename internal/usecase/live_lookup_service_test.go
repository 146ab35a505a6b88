package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/statlinehq/statline/internal/domain/player"
	"github.com/statlinehq/statline/internal/domain/team"
	"github.com/statlinehq/statline/internal/platform/logging"
)

type stubScoreProvider struct {
	eventsByDate map[string][]ScoreboardEvent
	summaries    map[string]GameSummary
	summaryErr   error
}

func (s *stubScoreProvider) Scoreboard(_ context.Context, date time.Time) ([]ScoreboardEvent, error) {
	return s.eventsByDate[date.Format("20060102")], nil
}

func (s *stubScoreProvider) GameSummary(_ context.Context, eventID string) (GameSummary, error) {
	if s.summaryErr != nil {
		return GameSummary{}, s.summaryErr
	}
	summary, ok := s.summaries[eventID]
	if !ok {
		return GameSummary{}, errors.New("unknown event")
	}
	return summary, nil
}

func (s *stubScoreProvider) Teams(_ context.Context) ([]ExternalTeamRecord, error) {
	return nil, nil
}

func (s *stubScoreProvider) TeamRoster(_ context.Context, _ string) ([]ExternalPlayerRecord, error) {
	return nil, nil
}

func newLiveFixture(t *testing.T, scores *stubScoreProvider) *LiveLookupService {
	t.Helper()

	teams := &stubTeamRepo{
		items:  []team.Team{{ID: 7, SportID: 1, Name: "Los Angeles Lakers", Slug: "los-angeles-lakers", Code: "LAL"}},
		nextID: 7,
	}
	players := &stubPlayerRepo{
		items:  []player.Player{{ID: 3, TeamID: 7, FirstName: "LeBron", LastName: "James", Slug: "lebron-james", Active: true}},
		nextID: 3,
	}

	svc := NewLiveLookupService(players, teams, scores, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC) }
	return svc
}

func namedSummary(eventID string) GameSummary {
	return GameSummary{
		EventID: eventID,
		Boxscore: Boxscore{
			Players: []TeamStatBlock{{
				TeamAbbreviation: "LAL",
				Groups: []AthleteStatGroup{{
					Athletes: []AthleteLine{{
						DisplayName: "LeBron James",
						Named: []NamedStat{
							{Name: "points", Value: "31"},
							{Name: "totalRebounds", Value: "8"},
							{Name: "assists", Value: "9"},
							{Name: "fieldGoalsMade", Value: "12"},
							{Name: "fieldGoalsAttempted", Value: "19"},
							{Name: "freeThrowsMade", Value: "4"},
						},
					}},
				}},
			}},
		},
	}
}

func TestLive_NoEventToday(t *testing.T) {
	t.Parallel()

	svc := newLiveFixture(t, &stubScoreProvider{})
	_, err := svc.Live(context.Background(), "lebron-james")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLive_InProgressEvent(t *testing.T) {
	t.Parallel()

	scores := &stubScoreProvider{
		eventsByDate: map[string][]ScoreboardEvent{
			"20260314": {{
				ID: "401", State: EventStateIn, Clock: "4:19 - 3rd",
				Competitors: []EventCompetitor{
					{Abbreviation: "LAL", Name: "Lakers"},
					{Abbreviation: "BOS", Name: "Celtics"},
				},
			}},
		},
		summaries: map[string]GameSummary{"401": namedSummary("401")},
	}
	svc := newLiveFixture(t, scores)

	got, err := svc.Live(context.Background(), "lebron-james")
	if err != nil {
		t.Fatalf("Live error: %v", err)
	}
	if !got.Live || got.State != EventStateIn || got.Clock != "4:19 - 3rd" {
		t.Fatalf("unexpected live state: %+v", got)
	}
	if got.EventID != "401" || got.Player.TeamAbbr != "LAL" {
		t.Fatalf("unexpected identity: %+v", got)
	}
	if got.Line["pts"] != "31" || got.Line["reb"] != "8" || got.Line["ast"] != "9" {
		t.Fatalf("unexpected line: %+v", got.Line)
	}
	if got.Line["fg"] != "12/19" {
		t.Fatalf("fg composite = %q, want 12/19", got.Line["fg"])
	}
	if _, ok := got.Line["ft"]; ok {
		t.Fatalf("ft composite should be absent when attempts are missing, got %q", got.Line["ft"])
	}
}

func TestLive_MissingTeamAbbreviation(t *testing.T) {
	t.Parallel()

	teams := &stubTeamRepo{
		items:  []team.Team{{ID: 7, SportID: 1, Name: "Unlinked", Slug: "unlinked"}},
		nextID: 7,
	}
	players := &stubPlayerRepo{
		items:  []player.Player{{ID: 3, TeamID: 7, FirstName: "LeBron", LastName: "James", Slug: "lebron-james", Active: true}},
		nextID: 3,
	}
	svc := NewLiveLookupService(players, teams, &stubScoreProvider{}, logging.NewNop())

	_, err := svc.Live(context.Background(), "lebron-james")
	if !errors.Is(err, ErrUnprocessable) {
		t.Fatalf("err = %v, want ErrUnprocessable", err)
	}
}

func TestLive_SummaryFetchFailure(t *testing.T) {
	t.Parallel()

	scores := &stubScoreProvider{
		eventsByDate: map[string][]ScoreboardEvent{
			"20260314": {{
				ID: "401", State: EventStateIn,
				Competitors: []EventCompetitor{{Abbreviation: "LAL"}, {Abbreviation: "BOS"}},
			}},
		},
		summaryErr: errors.New("upstream 503"),
	}
	svc := newLiveFixture(t, scores)

	_, err := svc.Live(context.Background(), "lebron-james")
	if !errors.Is(err, ErrUpstreamFailure) {
		t.Fatalf("err = %v, want ErrUpstreamFailure", err)
	}
}

func TestLive_ParallelLabelVariant(t *testing.T) {
	t.Parallel()

	summary := GameSummary{
		EventID: "402",
		Boxscore: Boxscore{
			Teams: []TeamBoxBlock{{
				TeamAbbreviation: "LAL",
				Players: []TeamStatBlock{{
					Groups: []AthleteStatGroup{{
						Labels: []string{"MIN", "PTS", "REB", "AST", "FG"},
						Athletes: []AthleteLine{{
							DisplayName: "L. James",
							Values:      []string{"34", "28", "11", "7", "10-17"},
						}},
					}},
				}},
			}},
		},
	}
	scores := &stubScoreProvider{
		eventsByDate: map[string][]ScoreboardEvent{
			"20260314": {{
				ID: "402", State: EventStatePre,
				Competitors: []EventCompetitor{{Abbreviation: "LAL"}, {Abbreviation: "DEN"}},
			}},
		},
		summaries: map[string]GameSummary{"402": summary},
	}
	svc := newLiveFixture(t, scores)

	got, err := svc.Live(context.Background(), "lebron-james")
	if err != nil {
		t.Fatalf("Live error: %v", err)
	}
	if got.Live {
		t.Fatalf("pregame event reported live")
	}
	if got.Line["pts"] != "28" || got.Line["reb"] != "11" || got.Line["min"] != "34" {
		t.Fatalf("unexpected line: %+v", got.Line)
	}
	if got.Line["fg"] != "10-17" {
		t.Fatalf("fg = %q, want joined upstream value", got.Line["fg"])
	}
}

func TestLive_ProbeFallbackWhenTeamLinkStale(t *testing.T) {
	t.Parallel()

	// The player's stored team code does not appear on the scoreboard; the
	// engine must probe each event's box score by name.
	scores := &stubScoreProvider{
		eventsByDate: map[string][]ScoreboardEvent{
			"20260314": {
				{ID: "500", State: EventStateIn, Competitors: []EventCompetitor{{Abbreviation: "MIA"}, {Abbreviation: "NYK"}}},
				{ID: "501", State: EventStateIn, Competitors: []EventCompetitor{{Abbreviation: "CLE"}, {Abbreviation: "CHI"}}},
			},
		},
		summaries: map[string]GameSummary{
			"500": {EventID: "500"},
			"501": func() GameSummary {
				s := namedSummary("501")
				s.Boxscore.Players[0].TeamAbbreviation = "CLE"
				return s
			}(),
		},
	}
	svc := newLiveFixture(t, scores)

	got, err := svc.Live(context.Background(), "lebron-james")
	if err != nil {
		t.Fatalf("Live error: %v", err)
	}
	if got.EventID != "501" {
		t.Fatalf("event = %q, want probed event 501", got.EventID)
	}
	if got.Line["pts"] != "31" {
		t.Fatalf("unexpected line: %+v", got.Line)
	}
}

func TestRecent_CollectsCompletedGamesWithResults(t *testing.T) {
	t.Parallel()

	scores := &stubScoreProvider{
		eventsByDate: map[string][]ScoreboardEvent{
			"20260314": {{
				ID: "401", State: EventStateIn,
				Competitors: []EventCompetitor{{Abbreviation: "LAL"}, {Abbreviation: "BOS"}},
			}},
			"20260313": {{
				ID: "390", State: EventStatePost, Date: "2026-03-13",
				Competitors: []EventCompetitor{
					{Abbreviation: "LAL", Name: "Lakers", Score: "112"},
					{Abbreviation: "DEN", Name: "Nuggets", Logo: "https://cdn/den.png", Score: "104"},
				},
			}},
			"20260311": {{
				ID: "377", State: EventStatePost, Date: "2026-03-11",
				Competitors: []EventCompetitor{
					{Abbreviation: "PHX", Name: "Suns", Score: "120"},
					{Abbreviation: "LAL", Name: "Lakers", Score: "110"},
				},
			}},
		},
		summaries: map[string]GameSummary{
			"390": namedSummary("390"),
			"377": namedSummary("377"),
		},
	}
	svc := newLiveFixture(t, scores)

	games, err := svc.Recent(context.Background(), "lebron-james", 5)
	if err != nil {
		t.Fatalf("Recent error: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("got %d games, want 2", len(games))
	}
	if games[0].EventID != "390" || games[0].Result != "W" || games[0].Opponent != "Nuggets" {
		t.Fatalf("unexpected first game: %+v", games[0])
	}
	if games[0].OpponentLogo != "https://cdn/den.png" {
		t.Fatalf("opponent logo missing: %+v", games[0])
	}
	if games[1].EventID != "377" || games[1].Result != "L" {
		t.Fatalf("unexpected second game: %+v", games[1])
	}
	if games[0].Line["pts"] != "31" {
		t.Fatalf("line not extracted: %+v", games[0].Line)
	}
}
