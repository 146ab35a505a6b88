// Package espn reads ESPN's public site API: daily scoreboards, per-game
// summaries with box scores, the team catalog, and team rosters.
package espn

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/usecase"
)

const (
	defaultSiteHost    = "https://site.api.espn.com/apis/site/v2/sports"
	defaultSummaryHost = "https://site.web.api.espn.com/apis/site/v2/sports"
	defaultSportPath   = "basketball"
	defaultLeaguePath  = "nba"

	// Near-live data: scoreboards move every few seconds, box scores faster.
	scoreboardTTL = 10 * time.Second
	summaryTTL    = 5 * time.Second
	catalogTTL    = time.Hour
	rosterTTL     = 15 * time.Minute

	poundsPerKilogram = 2.20462262
)

type ClientConfig struct {
	Transport   providerhttp.Config
	SiteHost    string
	SummaryHost string
	// SportPath and LeaguePath select the feed, e.g. "basketball"/"nba" or
	// "basketball"/"mens-college-basketball".
	SportPath  string
	LeaguePath string
}

type Client struct {
	http        *providerhttp.Client
	siteBase    string
	summaryBase string
}

func NewClient(cfg ClientConfig) *Client {
	siteHost := strings.TrimRight(firstNonEmpty(cfg.SiteHost, defaultSiteHost), "/")
	summaryHost := strings.TrimRight(firstNonEmpty(cfg.SummaryHost, defaultSummaryHost), "/")
	sportPath := firstNonEmpty(strings.TrimSpace(cfg.SportPath), defaultSportPath)
	leaguePath := firstNonEmpty(strings.TrimSpace(cfg.LeaguePath), defaultLeaguePath)

	transport := cfg.Transport
	if transport.Name == "" {
		transport.Name = "espn"
	}
	// Paths carry their own host so one transport serves both ESPN domains.
	transport.BaseURL = ""

	return &Client{
		http:        providerhttp.NewClient(transport),
		siteBase:    siteHost + "/" + sportPath + "/" + leaguePath,
		summaryBase: summaryHost + "/" + sportPath + "/" + leaguePath,
	}
}

// Scoreboard fetches all events for one day. The feed keys days as YYYYMMDD.
func (c *Client) Scoreboard(ctx context.Context, date time.Time) ([]usecase.ScoreboardEvent, error) {
	var envelope scoreboardEnvelope
	query := map[string]string{"dates": date.Format("20060102")}
	if _, err := c.http.GetJSON(ctx, c.siteBase+"/scoreboard", query, scoreboardTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	out := make([]usecase.ScoreboardEvent, 0, len(envelope.Events))
	for _, item := range envelope.Events {
		event := usecase.ScoreboardEvent{
			ID:    item.ID,
			Date:  item.Date,
			State: strings.ToLower(strings.TrimSpace(item.Status.Type.State)),
			Clock: item.Status.DisplayClock,
		}
		if len(item.Competitions) > 0 {
			for _, competitor := range item.Competitions[0].Competitors {
				event.Competitors = append(event.Competitors, usecase.EventCompetitor{
					Abbreviation: competitor.Team.Abbreviation,
					Name:         competitor.Team.DisplayName,
					Logo:         competitor.Team.Logo,
					Score:        competitor.Score,
					HomeAway:     competitor.HomeAway,
					Winner:       competitor.Winner,
				})
			}
		}
		out = append(out, event)
	}
	return out, nil
}

// GameSummary fetches one event's box score. Both published box-score
// layouts are decoded; stat extraction downstream probes whichever side is
// populated.
func (c *Client) GameSummary(ctx context.Context, eventID string) (usecase.GameSummary, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return usecase.GameSummary{}, fmt.Errorf("event id is required")
	}

	var envelope summaryEnvelope
	query := map[string]string{"event": eventID}
	if _, err := c.http.GetJSON(ctx, c.summaryBase+"/summary", query, summaryTTL, &envelope); err != nil {
		return usecase.GameSummary{}, fmt.Errorf("fetch summary event=%s: %w", eventID, err)
	}

	summary := usecase.GameSummary{EventID: eventID}
	for _, block := range envelope.Boxscore.Players {
		summary.Boxscore.Players = append(summary.Boxscore.Players, mapStatBlock(block))
	}
	for _, teamBox := range envelope.Boxscore.Teams {
		mapped := usecase.TeamBoxBlock{
			TeamAbbreviation: teamBox.Team.Abbreviation,
			TeamName:         teamBox.Team.DisplayName,
		}
		for _, block := range teamBox.Players {
			mapped.Players = append(mapped.Players, mapStatBlock(block))
		}
		summary.Boxscore.Teams = append(summary.Boxscore.Teams, mapped)
	}
	return summary, nil
}

// Teams fetches the full team catalog for the configured league.
func (c *Client) Teams(ctx context.Context) ([]usecase.ExternalTeamRecord, error) {
	var envelope teamsEnvelope
	query := map[string]string{"limit": "500"}
	if _, err := c.http.GetJSON(ctx, c.siteBase+"/teams", query, catalogTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams: %w", err)
	}

	out := make([]usecase.ExternalTeamRecord, 0, 64)
	for _, sportItem := range envelope.Sports {
		for _, leagueItem := range sportItem.Leagues {
			for _, wrapper := range leagueItem.Teams {
				item := wrapper.Team
				if item.ID == "" {
					continue
				}
				payload, _ := sonic.Marshal(item)
				out = append(out, usecase.ExternalTeamRecord{
					Source:         usecase.SourceESPN,
					ExternalID:     item.ID,
					Name:           firstNonEmpty(item.DisplayName, item.Name),
					Location:       item.Location,
					Code:           item.Abbreviation,
					Slug:           item.Slug,
					Logo:           firstLogo(item.Logos),
					PrimaryColor:   item.Color,
					SecondaryColor: item.AlternateColor,
					Payload:        payload,
				})
			}
		}
	}
	return out, nil
}

// TeamRoster fetches one team's athletes. The feed flattens NBA rosters but
// groups other leagues by position; both layouts are walked.
func (c *Client) TeamRoster(ctx context.Context, teamExternalID string) ([]usecase.ExternalPlayerRecord, error) {
	teamExternalID = strings.TrimSpace(teamExternalID)
	if teamExternalID == "" {
		return nil, fmt.Errorf("team id is required")
	}

	var envelope rosterEnvelope
	path := c.siteBase + "/teams/" + teamExternalID + "/roster"
	if _, err := c.http.GetJSON(ctx, path, nil, rosterTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch roster team=%s: %w", teamExternalID, err)
	}

	out := make([]usecase.ExternalPlayerRecord, 0, 20)
	for _, entry := range envelope.Athletes {
		if len(entry.Items) > 0 {
			for _, item := range entry.Items {
				if record, ok := mapAthlete(item); ok {
					out = append(out, record)
				}
			}
			continue
		}
		if record, ok := mapAthlete(entry.athleteItem); ok {
			out = append(out, record)
		}
	}
	return out, nil
}

func mapStatBlock(block playersBlock) usecase.TeamStatBlock {
	mapped := usecase.TeamStatBlock{
		TeamAbbreviation: block.Team.Abbreviation,
		TeamName:         block.Team.DisplayName,
	}
	for _, group := range block.Statistics {
		statGroup := usecase.AthleteStatGroup{Labels: group.Labels}
		for _, athlete := range group.Athletes {
			line := usecase.AthleteLine{
				DisplayName: athlete.Athlete.DisplayName,
				ShortName:   athlete.Athlete.ShortName,
			}
			for _, stat := range athlete.Stats {
				if stat.Name != "" {
					line.Named = append(line.Named, usecase.NamedStat{Name: stat.Name, Value: stat.Value})
				} else {
					line.Values = append(line.Values, stat.Value)
				}
			}
			statGroup.Athletes = append(statGroup.Athletes, line)
		}
		mapped.Groups = append(mapped.Groups, statGroup)
	}
	return mapped
}

func mapAthlete(item athleteDetail) (usecase.ExternalPlayerRecord, bool) {
	if item.ID == "" {
		return usecase.ExternalPlayerRecord{}, false
	}

	first, last := item.FirstName, item.LastName
	if first == "" && last == "" {
		first, last = splitFullName(firstNonEmpty(item.FullName, item.DisplayName))
	}

	record := usecase.ExternalPlayerRecord{
		Source:       usecase.SourceESPN,
		ExternalID:   item.ID,
		FirstName:    first,
		LastName:     last,
		BirthPlace:   joinBirthPlace(item.BirthPlace),
		BirthCountry: item.BirthPlace.Country,
		Height:       item.DisplayHeight,
		Weight:       weightText(item),
		Position:     firstNonEmpty(item.Position.Abbreviation, item.Position.Name),
		Jersey:       item.Jersey,
		Photo:        item.Headshot.Href,
	}
	if record.Height == "" && item.Height > 0 {
		inches := int(math.Round(item.Height))
		record.Height = fmt.Sprintf("%d' %d\"", inches/12, inches%12)
	}
	if parsed, ok := parseBirthDate(item.DateOfBirth); ok {
		record.BirthDate = &parsed
	}
	return record, true
}

// parseBirthDate handles the feed's minute-precision timestamps alongside
// full RFC 3339 and bare dates.
func parseBirthDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// weightText converts the feed's pounds figure to the kilogram text the
// reconciliation parser expects.
func weightText(item athleteDetail) string {
	if item.Weight <= 0 {
		return ""
	}
	kg := int(math.Round(item.Weight / poundsPerKilogram))
	return strconv.Itoa(kg) + " kg"
}

func joinBirthPlace(place birthPlaceItem) string {
	parts := make([]string, 0, 2)
	if place.City != "" {
		parts = append(parts, place.City)
	}
	if place.State != "" {
		parts = append(parts, place.State)
	}
	return strings.Join(parts, ", ")
}

func splitFullName(full string) (string, string) {
	full = strings.TrimSpace(full)
	if full == "" {
		return "", ""
	}
	parts := strings.SplitN(full, " ", 2)
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func firstLogo(logos []logoItem) string {
	for _, logo := range logos {
		if logo.Href != "" {
			return logo.Href
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
