// Package apisports reads the API-Sports family of per-sport REST APIs.
// Every sport lives on its own host but shares the envelope shape, the
// x-apisports-key header, and the query conventions.
package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/usecase"
)

const (
	catalogTTL     = time.Hour
	seasonStatsTTL = 30 * time.Minute
	recentGamesTTL = 15 * time.Minute
)

// DefaultBaseURLs covers the sports this service syncs out of the box. The
// config can extend or override per deployment.
var DefaultBaseURLs = map[string]string{
	"basketball": "https://v1.basketball.api-sports.io",
	"football":   "https://v3.football.api-sports.io",
	"baseball":   "https://v1.baseball.api-sports.io",
	"hockey":     "https://v1.hockey.api-sports.io",
}

type ClientConfig struct {
	Transport providerhttp.Config
	// BaseURLs maps a sport alias to its API host. Missing entries fall back
	// to DefaultBaseURLs.
	BaseURLs map[string]string
	APIKey   string
	Season   func() int
}

type Client struct {
	transports map[string]*providerhttp.Client
	season     func() int
}

func NewClient(cfg ClientConfig) *Client {
	urls := make(map[string]string, len(DefaultBaseURLs)+len(cfg.BaseURLs))
	for alias, base := range DefaultBaseURLs {
		urls[alias] = base
	}
	for alias, base := range cfg.BaseURLs {
		if strings.TrimSpace(base) != "" {
			urls[alias] = base
		}
	}

	transports := make(map[string]*providerhttp.Client, len(urls))
	for alias, base := range urls {
		transport := cfg.Transport
		transport.Name = "api-sports/" + alias
		transport.BaseURL = base
		transport.Secret = cfg.APIKey
		transport.Headers = mergeHeaders(cfg.Transport.Headers, map[string]string{
			"x-apisports-key": cfg.APIKey,
		})
		transports[alias] = providerhttp.NewClient(transport)
	}

	season := cfg.Season
	if season == nil {
		season = func() int {
			now := time.Now()
			if now.Month() >= time.August {
				return now.Year()
			}
			return now.Year() - 1
		}
	}

	return &Client{transports: transports, season: season}
}

// Leagues fetches the competition catalog for one sport.
func (c *Client) Leagues(ctx context.Context, sport string) ([]usecase.ExternalLeagueRecord, error) {
	transport, err := c.transport(sport)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Response []leagueItem `json:"response"`
	}
	if _, err := transport.GetJSON(ctx, "/leagues", nil, catalogTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch leagues sport=%s: %w", sport, err)
	}

	out := make([]usecase.ExternalLeagueRecord, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		record := mapLeague(item)
		if record.ExternalID <= 0 || record.Name == "" {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// Teams fetches one league season's teams.
func (c *Client) Teams(ctx context.Context, sport string, leagueExternalID int64, season int) ([]usecase.ExternalTeamRecord, error) {
	transport, err := c.transport(sport)
	if err != nil {
		return nil, err
	}

	query := map[string]string{
		"league": strconv.FormatInt(leagueExternalID, 10),
		"season": strconv.Itoa(season),
	}
	var envelope struct {
		Response []teamItem `json:"response"`
	}
	if _, err := transport.GetJSON(ctx, "/teams", query, catalogTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch teams league=%d season=%d: %w", leagueExternalID, season, err)
	}

	out := make([]usecase.ExternalTeamRecord, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		record := mapTeam(item)
		if record.ExternalID == "" || record.Name == "" {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// Players fetches one team season's roster.
func (c *Client) Players(ctx context.Context, sport string, teamExternalID int64, season int) ([]usecase.ExternalPlayerRecord, error) {
	transport, err := c.transport(sport)
	if err != nil {
		return nil, err
	}

	query := map[string]string{
		"team":   strconv.FormatInt(teamExternalID, 10),
		"season": strconv.Itoa(season),
	}
	var envelope struct {
		Response []playerItem `json:"response"`
	}
	if _, err := transport.GetJSON(ctx, "/players", query, catalogTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch players team=%d season=%d: %w", teamExternalID, season, err)
	}

	out := make([]usecase.ExternalPlayerRecord, 0, len(envelope.Response))
	for _, item := range envelope.Response {
		record := mapPlayer(item)
		if record.ExternalID == "" {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// PlayerSeasonStats fetches one player's season aggregate as an opaque blob.
// Callers persist it wholesale; the averages reader walks it generically.
func (c *Client) PlayerSeasonStats(ctx context.Context, sport string, playerExternalID int64, season int) ([]byte, error) {
	transport, err := c.transport(sport)
	if err != nil {
		return nil, err
	}

	query := map[string]string{
		"id":     strconv.FormatInt(playerExternalID, 10),
		"season": strconv.Itoa(season),
	}
	var envelope struct {
		Response []json.RawMessage `json:"response"`
	}
	if _, err := transport.GetJSON(ctx, "/players", query, seasonStatsTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player stats id=%d season=%d: %w", playerExternalID, season, err)
	}
	if len(envelope.Response) == 0 {
		return nil, nil
	}
	return envelope.Response[0], nil
}

// PlayerRecentGames fetches a player's last games as an opaque blob.
func (c *Client) PlayerRecentGames(ctx context.Context, sport string, playerExternalID int64, last int) ([]byte, error) {
	transport, err := c.transport(sport)
	if err != nil {
		return nil, err
	}
	if last <= 0 {
		last = 10
	}

	query := map[string]string{
		"player": strconv.FormatInt(playerExternalID, 10),
		"season": strconv.Itoa(c.season()),
		"last":   strconv.Itoa(last),
	}
	var envelope struct {
		Response json.RawMessage `json:"response"`
	}
	if _, err := transport.GetJSON(ctx, "/fixtures/players", query, recentGamesTTL, &envelope); err != nil {
		return nil, fmt.Errorf("fetch player recent games id=%d: %w", playerExternalID, err)
	}
	return envelope.Response, nil
}

func (c *Client) transport(sport string) (*providerhttp.Client, error) {
	sport = strings.ToLower(strings.TrimSpace(sport))
	transport, ok := c.transports[sport]
	if !ok {
		return nil, fmt.Errorf("%w: sport %q is not configured", usecase.ErrDependencyUnavailable, sport)
	}
	return transport, nil
}

func mapLeague(item leagueItem) usecase.ExternalLeagueRecord {
	record := usecase.ExternalLeagueRecord{
		ExternalID: item.ID,
		Name:       item.Name,
		Logo:       item.Logo,
		Country:    item.Country.Name,
		Category:   "professional",
	}
	// Football nests the league object one level down.
	if item.League != nil {
		record.ExternalID = item.League.ID
		record.Name = item.League.Name
		record.Logo = item.League.Logo
	}
	for _, seasonItem := range item.Seasons {
		if year := seasonItem.year(); year > 0 {
			record.Seasons = append(record.Seasons, year)
		}
	}
	return record
}

func mapTeam(item teamItem) usecase.ExternalTeamRecord {
	detail := item.teamDetail
	if item.Team != nil {
		detail = *item.Team
	}

	payload, _ := sonic.Marshal(item)
	record := usecase.ExternalTeamRecord{
		Source:     usecase.SourceAPISports,
		ExternalID: formatID(detail.ID),
		Name:       detail.Name,
		Code:       detail.Code,
		Country:    string(detail.Country),
		Logo:       detail.Logo,
		Payload:    payload,
	}
	if detail.Founded > 0 {
		founded := detail.Founded
		record.Founded = &founded
	}
	record.Venue.Name = item.Venue.Name
	record.Venue.Address = item.Venue.Address
	record.Venue.City = item.Venue.City
	record.Venue.Surface = item.Venue.Surface
	record.Venue.Image = item.Venue.Image
	if item.Venue.Capacity > 0 {
		capacity := item.Venue.Capacity
		record.Venue.Capacity = &capacity
	}
	return record
}

func mapPlayer(item playerItem) usecase.ExternalPlayerRecord {
	detail := item.playerDetail
	if item.Player != nil {
		detail = *item.Player
	}

	record := usecase.ExternalPlayerRecord{
		Source:       usecase.SourceAPISports,
		ExternalID:   formatID(detail.ID),
		FirstName:    detail.FirstName,
		LastName:     detail.LastName,
		BirthPlace:   detail.Birth.Place,
		BirthCountry: detail.Birth.Country,
		Nationality:  detail.Nationality,
		Height:       detail.Height,
		Weight:       detail.Weight,
		Photo:        detail.Photo,
	}
	if record.FirstName == "" && record.LastName == "" && detail.Name != "" {
		parts := strings.SplitN(strings.TrimSpace(detail.Name), " ", 2)
		record.FirstName = parts[0]
		if len(parts) > 1 {
			record.LastName = parts[1]
		}
	}
	if parsed, err := time.Parse("2006-01-02", detail.Birth.Date); err == nil {
		record.BirthDate = &parsed
	}
	if len(item.Statistics) > 0 {
		record.Position = item.Statistics[0].Games.Position
		record.Jersey = item.Statistics[0].Games.Number.text()
	}
	return record
}

func formatID(id int64) string {
	if id <= 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func mergeHeaders(base, extra map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(extra))
	for key, value := range base {
		out[key] = value
	}
	for key, value := range extra {
		if strings.TrimSpace(value) != "" {
			out[key] = value
		}
	}
	return out
}
