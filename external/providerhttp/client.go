// Package providerhttp is the shared HTTP transport for upstream sports data
// providers. It folds retries, circuit breaking, request coalescing, and
// response caching into one GET-and-decode call so each provider package only
// deals with its own payload shapes.
package providerhttp

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/statlinehq/statline/internal/platform/cache"
	"github.com/statlinehq/statline/internal/platform/logging"
	"github.com/statlinehq/statline/internal/platform/resilience"
	"github.com/statlinehq/statline/internal/usecase"
)

// Upstream payloads are capped at 6 MiB. Box scores for long games stay well
// under this.
const maxResponseBytes = 6 << 20

var apiKeyParamRegex = regexp.MustCompile(`(?i)(apikey|api_token|key)=[^&\s"']+`)

var errTransient = crerr.New("provider transient failure")

type Config struct {
	// Name tags log lines and cache keys, e.g. "espn" or "api-sports".
	Name           string
	HTTPClient     *http.Client
	BaseURL        string
	Headers        map[string]string
	Query          map[string]string
	Secret         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	Cache          *cache.Store
}

type Client struct {
	name           string
	httpClient     *http.Client
	baseURL        string
	headers        map[string]string
	query          map[string]string
	secret         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	cache          *cache.Store
}

func NewClient(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		name:           strings.TrimSpace(cfg.Name),
		httpClient:     httpClient,
		baseURL:        strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		headers:        cfg.Headers,
		query:          cfg.Query,
		secret:         strings.TrimSpace(cfg.Secret),
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		cache:          cfg.Cache,
	}
}

// GetJSON fetches path with the merged query, decodes the body into target,
// and returns the raw bytes. A positive ttl serves identical requests from
// cache for that long; ttl zero bypasses the cache entirely.
func (c *Client) GetJSON(ctx context.Context, path string, query map[string]string, ttl time.Duration, target any) ([]byte, error) {
	values := url.Values{}
	for key, value := range c.query {
		values.Set(key, value)
	}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}
	key := c.name + ":" + path + "?" + values.Encode()

	var raw []byte
	var err error
	if c.cache != nil && ttl > 0 {
		var out any
		out, err = c.cache.GetOrLoadTTL(ctx, key, ttl, func(ctx context.Context) (any, error) {
			return c.fetch(ctx, fullURL)
		})
		if err == nil {
			var ok bool
			if raw, ok = out.([]byte); !ok {
				return nil, fmt.Errorf("unexpected cached payload type %T", out)
			}
		}
	} else {
		var out any
		out, err, _ = c.flight.Do(key, func() (any, error) {
			return c.fetch(ctx, fullURL)
		})
		if err == nil {
			var ok bool
			if raw, ok = out.([]byte); !ok {
				return nil, fmt.Errorf("unexpected response payload type %T", out)
			}
		}
	}
	if err != nil {
		return nil, err
	}

	if target != nil {
		if err := sonic.Unmarshal(raw, target); err != nil {
			return nil, fmt.Errorf("decode %s payload: %w", c.name, err)
		}
	}
	return raw, nil
}

func (c *Client) fetch(ctx context.Context, fullURL string) ([]byte, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "provider circuit breaker rejected request", "provider", c.name, "state", c.breaker.State())
			return nil, fmt.Errorf("%w: %s is temporarily unavailable", usecase.ErrDependencyUnavailable, c.name)
		}
	}

	raw, err := c.executeRequest(ctx, fullURL)
	if c.circuitEnabled {
		if err != nil && isCircuitFailure(err) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	return raw, err
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		for key, value := range c.headers {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else {
				if isRetryableStatus(resp.StatusCode) {
					lastErr = fmt.Errorf("%w: %s status=%d body=%s", errTransient, c.name, resp.StatusCode, abbreviateBody(raw))
				} else {
					return nil, fmt.Errorf("%s status=%d body=%s", c.name, resp.StatusCode, abbreviateBody(raw))
				}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%s request failed", c.name)
	}
	c.logger.WarnContext(ctx, "provider request failed", "provider", c.name, "url", c.redactURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if c.secret != "" {
		value = strings.ReplaceAll(value, c.secret, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "$1=REDACTED")
}

func (c *Client) redactURL(rawURL string) string {
	if c.secret != "" {
		rawURL = strings.ReplaceAll(rawURL, c.secret, "REDACTED")
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "$1=REDACTED")
	}
	values := parsed.Query()
	for _, param := range []string{"apiKey", "apikey", "api_token", "key"} {
		if values.Has(param) {
			values.Set(param, "REDACTED")
		}
	}
	parsed.RawQuery = values.Encode()
	return parsed.String()
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) > 240 {
		return text[:240] + "..."
	}
	return text
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
