// Package sportsdb reads TheSportsDB's player search endpoints for biography
// and portrait enrichment. The API key rides in the URL path, not a header.
package sportsdb

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/statlinehq/statline/external/providerhttp"
	"github.com/statlinehq/statline/internal/usecase"
)

const (
	defaultBaseURL = "https://www.thesportsdb.com/api/v1/json"
	// Free-tier shared key published by TheSportsDB.
	defaultAPIKey = "3"

	lookupTTL = time.Hour
)

type ClientConfig struct {
	Transport providerhttp.Config
	BaseURL   string
	APIKey    string
}

type Client struct {
	http *providerhttp.Client
}

func NewClient(cfg ClientConfig) *Client {
	baseURL := strings.TrimRight(firstNonEmpty(cfg.BaseURL, defaultBaseURL), "/")
	apiKey := firstNonEmpty(strings.TrimSpace(cfg.APIKey), defaultAPIKey)

	transport := cfg.Transport
	if transport.Name == "" {
		transport.Name = "sportsdb"
	}
	transport.BaseURL = baseURL + "/" + apiKey
	if apiKey != defaultAPIKey {
		transport.Secret = apiKey
	}
	return &Client{http: providerhttp.NewClient(transport)}
}

// SearchPlayer resolves a player by full name and returns the first match's
// biography and portrait. The cutout image is preferred over the thumbnail.
func (c *Client) SearchPlayer(ctx context.Context, fullName string) (usecase.ExternalPlayerBio, bool, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return usecase.ExternalPlayerBio{}, false, fmt.Errorf("player name is required")
	}

	var envelope searchEnvelope
	query := map[string]string{"p": fullName}
	if _, err := c.http.GetJSON(ctx, "/searchplayers.php", query, lookupTTL, &envelope); err != nil {
		return usecase.ExternalPlayerBio{}, false, fmt.Errorf("search player %q: %w", fullName, err)
	}
	if len(envelope.Player) == 0 {
		return usecase.ExternalPlayerBio{}, false, nil
	}

	item := envelope.Player[0]
	bio := usecase.ExternalPlayerBio{
		Biography: strings.TrimSpace(item.DescriptionEN),
		Photo:     firstNonEmpty(item.Cutout, item.Thumb),
	}
	return bio, true, nil
}

// LookupPlayer fetches one player by TheSportsDB id.
func (c *Client) LookupPlayer(ctx context.Context, id string) (usecase.ExternalPlayerBio, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return usecase.ExternalPlayerBio{}, false, fmt.Errorf("player id is required")
	}

	var envelope lookupEnvelope
	query := map[string]string{"id": id}
	if _, err := c.http.GetJSON(ctx, "/lookupplayer.php", query, lookupTTL, &envelope); err != nil {
		return usecase.ExternalPlayerBio{}, false, fmt.Errorf("lookup player id=%s: %w", id, err)
	}
	if len(envelope.Players) == 0 {
		return usecase.ExternalPlayerBio{}, false, nil
	}

	item := envelope.Players[0]
	bio := usecase.ExternalPlayerBio{
		Biography: strings.TrimSpace(item.DescriptionEN),
		Photo:     firstNonEmpty(item.Cutout, item.Thumb),
	}
	return bio, true, nil
}

type playerEntry struct {
	Name          string `json:"strPlayer"`
	DescriptionEN string `json:"strDescriptionEN"`
	Cutout        string `json:"strCutout"`
	Thumb         string `json:"strThumb"`
}

type searchEnvelope struct {
	Player []playerEntry `json:"player"`
}

type lookupEnvelope struct {
	Players []playerEntry `json:"players"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
