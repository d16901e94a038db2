// Package openmeteo implements domain.EnvironmentalFetcher against the
// Open-Meteo forecast and elevation APIs.
package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/land-risk-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

const hourlyTimeLayout = "2006-01-02T15:04"

// Client fetches recent rainfall and elevation for a coordinate. Calls are
// bounded by the HTTP client timeout and never retried; callers treat any
// error as "no live data".
type Client struct {
	httpClient    *http.Client
	rainfallBase  string
	elevationBase string
	clock         clockwork.Clock
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(rainfallBase, elevationBase string, timeout time.Duration, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: timeout},
		rainfallBase:  rainfallBase,
		elevationBase: elevationBase,
		clock:         clock,
		metrics:       metrics,
		logger:        logger,
	}
}

// RecentRainfallMM sums the hourly precipitation series over the 24 hours
// preceding the current clock time.
func (c *Client) RecentRainfallMM(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{
		"latitude":      {formatCoord(lat)},
		"longitude":     {formatCoord(lon)},
		"hourly":        {"precipitation"},
		"past_days":     {"1"},
		"forecast_days": {"1"},
		"timezone":      {"UTC"},
	}
	u := fmt.Sprintf("%s/v1/forecast?%s", c.rainfallBase, params.Encode())

	var resp forecastResponse
	if err := c.doRequest(ctx, u, "rainfall", &resp); err != nil {
		return 0, err
	}
	if len(resp.Hourly.Time) != len(resp.Hourly.Precipitation) {
		return 0, fmt.Errorf("hourly series length mismatch: %d times, %d values",
			len(resp.Hourly.Time), len(resp.Hourly.Precipitation))
	}

	now := c.clock.Now().UTC()
	windowStart := now.Add(-24 * time.Hour)
	total := 0.0
	counted := 0
	for i, ts := range resp.Hourly.Time {
		t, err := time.Parse(hourlyTimeLayout, ts)
		if err != nil {
			return 0, fmt.Errorf("parse hourly timestamp %q: %w", ts, err)
		}
		if t.Before(windowStart) || t.After(now) {
			continue
		}
		total += resp.Hourly.Precipitation[i]
		counted++
	}
	if counted == 0 {
		return 0, fmt.Errorf("no hourly precipitation samples in the prior 24h window")
	}
	return total, nil
}

// ElevationM returns the elevation in meters above sea level.
func (c *Client) ElevationM(ctx context.Context, lat, lon float64) (float64, error) {
	params := url.Values{
		"latitude":  {formatCoord(lat)},
		"longitude": {formatCoord(lon)},
	}
	u := fmt.Sprintf("%s/v1/elevation?%s", c.elevationBase, params.Encode())

	var resp elevationResponse
	if err := c.doRequest(ctx, u, "elevation", &resp); err != nil {
		return 0, err
	}
	if len(resp.Elevation) == 0 {
		return 0, fmt.Errorf("elevation response carries no values")
	}
	return resp.Elevation[0], nil
}

func (c *Client) doRequest(ctx context.Context, fullURL, source string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FetchAPIDuration.WithLabelValues(source).Observe(c.clock.Since(start).Seconds())
	if err != nil {
		c.metrics.FetchRequests.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("%s request: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchRequests.WithLabelValues(source, "error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("open-meteo %s API error: status %d: %s", source, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.metrics.FetchRequests.WithLabelValues(source, "error").Inc()
		return fmt.Errorf("decode %s response: %w", source, err)
	}
	c.metrics.FetchRequests.WithLabelValues(source, "success").Inc()
	return nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Open-Meteo API response types.

type forecastResponse struct {
	Hourly hourlySeries `json:"hourly"`
}

type hourlySeries struct {
	Time          []string  `json:"time"`
	Precipitation []float64 `json:"precipitation"`
}

type elevationResponse struct {
	Elevation []float64 `json:"elevation"`
}
