package ncaa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/platform/logging"
	"github.com/statlinehq/statline/internal/usecase"
)

const standingsFixture = `{
  "sport": "Basketball Men",
  "data": [
    {
      "conference": "ACC",
      "standings": [
        {"School": "Duke", "Conference W": "15", "Conference L": "5"},
        {"Team": "North Carolina", "Conference W": "13", "Conference L": "7"},
        {"Conference W": "0", "Conference L": "0"}
      ]
    },
    {
      "conference": "Big Ten",
      "standings": [
        {"School": "Purdue", "Conference W": "16", "Conference L": "4"}
      ]
    }
  ]
}`

const scoreboardFixture = `{
  "games": [
    {
      "game": {
        "gameID": "6305021",
        "home": {
          "score": "78",
          "names": {"char6": "DUKE", "short": "Duke", "seo": "duke", "full": "Duke University"},
          "conferences": [{"conferenceName": "ACC", "conferenceSeo": "acc"}]
        },
        "away": {
          "score": "71",
          "names": {"char6": "UNC", "short": "North Carolina", "seo": "north-carolina", "full": "University of North Carolina"},
          "conferences": [{"conferenceName": "ACC", "conferenceSeo": "acc"}]
        }
      }
    },
    {
      "game": {
        "gameID": "6305022",
        "home": {
          "score": "64",
          "names": {"char6": "DUKE", "short": "Duke", "seo": "duke", "full": "Duke University"},
          "conferences": [{"conferenceName": "ACC", "conferenceSeo": "acc"}]
        },
        "away": {
          "score": "60",
          "names": {}
        }
      }
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{
		Transport: providerhttp.Config{Logger: logging.NewNop()},
		BaseURL:   server.URL,
	})
}

func TestClient_StandingsTeams_FlattensConferences(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/standings/basketball-men/d1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(standingsFixture))
	})

	records, err := client.StandingsTeams(context.Background(), "basketball-men", "d1")
	if err != nil {
		t.Fatalf("StandingsTeams: %v", err)
	}
	// The nameless third row drops out.
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}

	duke := records[0]
	if duke.Name != "Duke" || duke.Source != usecase.SourceNCAA {
		t.Fatalf("duke = %+v", duke)
	}
	if duke.ExternalID != "" {
		t.Fatalf("standings rows carry no external id, got %q", duke.ExternalID)
	}

	var payload struct {
		Conference string         `json:"conference"`
		Division   string         `json:"division"`
		Standings  map[string]any `json:"standings"`
	}
	if err := sonic.Unmarshal(duke.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Conference != "ACC" || payload.Division != "d1" {
		t.Fatalf("payload = %+v", payload)
	}
	if payload.Standings["Conference W"] != "15" {
		t.Fatalf("standings row = %v", payload.Standings)
	}

	if records[1].Name != "North Carolina" {
		t.Fatalf("fallback Team key not read: %+v", records[1])
	}
	if records[2].Name != "Purdue" {
		t.Fatalf("second conference not flattened: %+v", records[2])
	}
}

func TestClient_ScoreboardTeams_DeduplicatesBySlug(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scoreboard/basketball-men/d1/2026/03/14" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(scoreboardFixture))
	})

	date := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	records, err := client.ScoreboardTeams(context.Background(), "basketball-men", "d1", date)
	if err != nil {
		t.Fatalf("ScoreboardTeams: %v", err)
	}
	// Duke appears in both games, the second away side has no names.
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	duke := records[0]
	if duke.Slug != "duke" || duke.Code != "DUKE" || duke.Name != "Duke" {
		t.Fatalf("duke = %+v", duke)
	}

	var payload struct {
		Conference string `json:"conference"`
		Division   string `json:"division"`
	}
	if err := sonic.Unmarshal(duke.Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.Conference != "ACC" || payload.Division != "d1" {
		t.Fatalf("payload = %+v", payload)
	}

	if records[1].Slug != "north-carolina" {
		t.Fatalf("records[1] = %+v", records[1])
	}
}

func TestClient_StandingsTeams_RequiresSportAndDivision(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{Transport: providerhttp.Config{Logger: logging.NewNop()}})
	if _, err := client.StandingsTeams(context.Background(), "", "d1"); err == nil {
		t.Fatal("expected error for empty sport")
	}
	if _, err := client.ScoreboardTeams(context.Background(), "basketball-men", "", time.Now()); err == nil {
		t.Fatal("expected error for empty division")
	}
}
