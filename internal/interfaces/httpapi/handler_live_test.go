package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/internal/usecase"
)

type stubScoreProvider struct {
	events     []usecase.ScoreboardEvent
	summaries  map[string]usecase.GameSummary
	summaryErr error
}

func (s *stubScoreProvider) Scoreboard(_ context.Context, _ time.Time) ([]usecase.ScoreboardEvent, error) {
	return s.events, nil
}

func (s *stubScoreProvider) GameSummary(_ context.Context, eventID string) (usecase.GameSummary, error) {
	if s.summaryErr != nil {
		return usecase.GameSummary{}, s.summaryErr
	}
	summary, ok := s.summaries[eventID]
	if !ok {
		return usecase.GameSummary{}, fmt.Errorf("no summary for event %s", eventID)
	}
	return summary, nil
}

func (s *stubScoreProvider) Teams(_ context.Context) ([]usecase.ExternalTeamRecord, error) {
	return nil, nil
}

func (s *stubScoreProvider) TeamRoster(_ context.Context, _ string) ([]usecase.ExternalPlayerRecord, error) {
	return nil, nil
}

func lakersLiveEvent() usecase.ScoreboardEvent {
	return usecase.ScoreboardEvent{
		ID:    "401",
		State: usecase.EventStateIn,
		Clock: "4:12 - 3rd",
		Competitors: []usecase.EventCompetitor{
			{Abbreviation: "LAL", Name: "Los Angeles Lakers", Score: "78", HomeAway: "home"},
			{Abbreviation: "BOS", Name: "Boston Celtics", Score: "74", HomeAway: "away"},
		},
	}
}

func lakersSummary() usecase.GameSummary {
	return usecase.GameSummary{
		EventID: "401",
		Boxscore: usecase.Boxscore{
			Players: []usecase.TeamStatBlock{
				{
					TeamAbbreviation: "LAL",
					Groups: []usecase.AthleteStatGroup{
						{
							Labels: []string{"PTS", "REB", "AST"},
							Athletes: []usecase.AthleteLine{
								{DisplayName: "LeBron James", Values: []string{"28", "9", "11"}},
								{DisplayName: "Austin Reaves", Values: []string{"15", "3", "6"}},
							},
						},
					},
				},
			},
		},
	}
}

func TestGetPlayerLive_InProgressGame(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{
		events:    []usecase.ScoreboardEvent{lakersLiveEvent()},
		summaries: map[string]usecase.GameSummary{"401": lakersSummary()},
	}
	router := newTestRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/lebron-james/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body liveResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal live response: %v", err)
	}
	if !body.OK || !body.Live {
		t.Fatalf("expected ok live response, got %+v", body)
	}
	if body.EventID != "401" {
		t.Fatalf("expected event 401, got %s", body.EventID)
	}
	if body.Player.TeamAbbr != "LAL" || body.Player.Name != "LeBron James" {
		t.Fatalf("unexpected player ref: %+v", body.Player)
	}
	if body.Line["pts"] != "28" {
		t.Fatalf("expected 28 points in line, got %v", body.Line)
	}
	if body.Source != "espn" {
		t.Fatalf("expected espn source, got %s", body.Source)
	}
}

func TestGetPlayerLive_NoGameToday(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubScoreProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/lebron-james/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body liveResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal live response: %v", err)
	}
	if !body.OK || body.Live {
		t.Fatalf("expected ok=true live=false miss, got %+v", body)
	}
	if body.Player.ID == 0 {
		t.Fatalf("expected player ref in miss response")
	}
}

func TestGetPlayerLive_UnknownPlayer(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, &stubScoreProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/no-such-player/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
	envelope := decodeEnvelope(t, rec.Body.Bytes())
	if _, ok := envelope["error"]; !ok {
		t.Fatalf("expected error envelope for unknown player")
	}
}

func TestGetPlayerLive_SummaryFetchFails(t *testing.T) {
	t.Parallel()

	provider := &stubScoreProvider{
		events:     []usecase.ScoreboardEvent{lakersLiveEvent()},
		summaryErr: fmt.Errorf("boom"),
	}
	router := newTestRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/lebron-james/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", rec.Code)
	}
}

func TestGetPlayerRecent_ReturnsGames(t *testing.T) {
	t.Parallel()

	finished := lakersLiveEvent()
	finished.State = usecase.EventStatePost
	finished.Competitors[0].Winner = true

	provider := &stubScoreProvider{
		events:    []usecase.ScoreboardEvent{finished},
		summaries: map[string]usecase.GameSummary{"401": lakersSummary()},
	}
	router := newTestRouter(t, provider)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/players/lebron-james/recent?count=3", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body recentResponse
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal recent response: %v", err)
	}
	if !body.OK {
		t.Fatalf("expected ok recent response")
	}
	if len(body.Games) == 0 {
		t.Fatalf("expected at least one recent game")
	}
	first := body.Games[0]
	if first.Opponent != "Boston Celtics" {
		t.Fatalf("expected Celtics opponent, got %s", first.Opponent)
	}
	if first.Result != "W" {
		t.Fatalf("expected W result, got %s", first.Result)
	}
}
