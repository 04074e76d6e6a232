package ergast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/pitwall/f1antasy/internal/platform/logging"
	"github.com/pitwall/f1antasy/internal/platform/resilience"
	"github.com/pitwall/f1antasy/internal/usecase"
)

const defaultBaseURL = "http://ergast.com/api"

var errErgastTransient = crerr.New("ergast transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
	Breaker    resilience.BreakerConfig
}

// Client talks to the upstream race-results API. Requests share a
// circuit breaker and collapse via singleflight; retryable statuses
// back off linearly up to MaxRetries.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	breakerEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
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

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeBreakerConfig(cfg.Breaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		breakerEnabled: breakerCfg.Enabled,
	}
}

// FetchRaceEvent returns one season/round. found=false with a nil
// error means the round does not exist upstream (the empty race list
// that ends a season); transport and status failures are errors.
func (c *Client) FetchRaceEvent(ctx context.Context, season, round int) (usecase.ExternalRaceEvent, bool, error) {
	if season <= 0 || round <= 0 {
		return usecase.ExternalRaceEvent{}, false, fmt.Errorf("season and round must be greater than zero")
	}

	path := fmt.Sprintf("/f1/%d/%d/results.json", season, round)
	var envelope resultsEnvelope
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		return usecase.ExternalRaceEvent{}, false, fmt.Errorf("fetch race season=%d round=%d: %w", season, round, err)
	}

	races := envelope.MRData.RaceTable.Races
	if len(races) == 0 {
		return usecase.ExternalRaceEvent{}, false, nil
	}
	return mapRaceEvent(races[0]), true, nil
}

// FetchLatestRaceEvent returns the most recent completed race.
func (c *Client) FetchLatestRaceEvent(ctx context.Context) (usecase.ExternalRaceEvent, bool, error) {
	var envelope resultsEnvelope
	if err := c.doJSON(ctx, "/f1/current/last/results.json", &envelope); err != nil {
		return usecase.ExternalRaceEvent{}, false, fmt.Errorf("fetch latest race: %w", err)
	}

	races := envelope.MRData.RaceTable.Races
	if len(races) == 0 {
		return usecase.ExternalRaceEvent{}, false, nil
	}
	return mapRaceEvent(races[0]), true, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.breakerEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "ergast circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: results provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path
	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.breakerEnabled {
			if reqErr != nil && crerr.Is(reqErr, errErgastTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode results payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errErgastTransient, err)
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errErgastTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errErgastTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
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
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "ergast request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
