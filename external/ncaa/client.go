// Package ncaa reads the community NCAA stats API (ncaa-api.henrygd.me):
// conference standings and daily scoreboards, path-templated by sport and
// division.
package ncaa

import (
	"context"
	"fmt"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/usecase"
)

const (
	defaultBaseURL = "https://ncaa-api.henrygd.me"

	scoreboardTTL = 5 * time.Minute
	standingsTTL  = time.Hour
)

type ClientConfig struct {
	Transport providerhttp.Config
	BaseURL   string
}

type Client struct {
	http *providerhttp.Client
}

func NewClient(cfg ClientConfig) *Client {
	transport := cfg.Transport
	if transport.Name == "" {
		transport.Name = "ncaa"
	}
	transport.BaseURL = firstNonEmpty(cfg.BaseURL, defaultBaseURL)
	return &Client{http: providerhttp.NewClient(transport)}
}

// StandingsTeams flattens a division's conference standings into team
// records. The feed has no stable team ids, so records match downstream by
// name; the raw standings row rides along as the payload, carrying the
// conference for filtered listings.
func (c *Client) StandingsTeams(ctx context.Context, sport, division string) ([]usecase.ExternalTeamRecord, error) {
	sport = strings.TrimSpace(sport)
	division = strings.TrimSpace(division)
	if sport == "" || division == "" {
		return nil, fmt.Errorf("sport and division are required")
	}

	var envelope standingsEnvelope
	path := "/standings/" + sport + "/" + division
	if _, err := c.http.GetJSON(ctx, path, nil, standingsTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch standings %s/%s: %w", sport, division, err)
	}

	out := make([]usecase.ExternalTeamRecord, 0, 64)
	for _, conference := range envelope.Data {
		for _, row := range conference.Standings {
			name := rowText(row, "School", "Team")
			if name == "" {
				continue
			}
			payload, _ := sonic.Marshal(map[string]any{
				"conference": conference.Conference,
				"division":   division,
				"standings":  row,
			})
			out = append(out, usecase.ExternalTeamRecord{
				Source:  usecase.SourceNCAA,
				Name:    name,
				Payload: payload,
			})
		}
	}
	return out, nil
}

// ScoreboardTeams collects the teams appearing on one day's scoreboard.
func (c *Client) ScoreboardTeams(ctx context.Context, sport, division string, date time.Time) ([]usecase.ExternalTeamRecord, error) {
	sport = strings.TrimSpace(sport)
	division = strings.TrimSpace(division)
	if sport == "" || division == "" {
		return nil, fmt.Errorf("sport and division are required")
	}

	var envelope scoreboardEnvelope
	path := fmt.Sprintf("/scoreboard/%s/%s/%s", sport, division, date.Format("2006/01/02"))
	if _, err := c.http.GetJSON(ctx, path, nil, scoreboardTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard %s/%s: %w", sport, division, err)
	}

	seen := make(map[string]struct{}, len(envelope.Games)*2)
	out := make([]usecase.ExternalTeamRecord, 0, len(envelope.Games)*2)
	for _, wrapper := range envelope.Games {
		for _, side := range []gameSide{wrapper.Game.Home, wrapper.Game.Away} {
			record := mapGameSide(side, division)
			if record.Name == "" {
				continue
			}
			key := firstNonEmpty(record.Slug, record.Name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, record)
		}
	}
	return out, nil
}

func mapGameSide(side gameSide, division string) usecase.ExternalTeamRecord {
	conference := ""
	if len(side.Conferences) > 0 {
		conference = side.Conferences[0].ConferenceName
	}
	payload, _ := sonic.Marshal(map[string]any{
		"conference": conference,
		"division":   division,
	})
	return usecase.ExternalTeamRecord{
		Source:  usecase.SourceNCAA,
		Name:    firstNonEmpty(side.Names.Short, side.Names.Full),
		Slug:    side.Names.Seo,
		Code:    side.Names.Char6,
		Logo:    side.Logo,
		Payload: payload,
	}
}

func rowText(row map[string]any, keys ...string) string {
	for _, key := range keys {
		if value, ok := row[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
