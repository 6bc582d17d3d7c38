// Package tomorrow fetches realtime wind readings from the Tomorrow.io
// weather API.
package tomorrow

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/wind-map/internal/domain"
	"github.com/couchcryptid/wind-map/internal/observability"
)

// ErrNoValues is returned when the payload lacks the data.values object.
var ErrNoValues = errors.New("response has no data.values")

// Client fetches realtime conditions. Every failure is returned to the
// caller; only an unparseable speed is tolerated (see domain.ParseSpeed).
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Tomorrow.io client. A zero timeout means none, so a hung
// connection blocks the run until the process is interrupted.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchWind returns the current wind reading at lat,lon.
func (c *Client) FetchWind(ctx context.Context, lat, lon float64) (domain.WeatherSample, error) {
	start := time.Now()
	sample, err := c.fetch(ctx, lat, lon)
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return domain.WeatherSample{}, err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return sample, nil
}

func (c *Client) fetch(ctx context.Context, lat, lon float64) (domain.WeatherSample, error) {
	params := url.Values{
		"location": {fmt.Sprintf("%v,%v", lat, lon)},
		"apikey":   {c.apiKey},
	}
	u := c.baseURL + "/v4/weather/realtime?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.WeatherSample{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.WeatherSample{}, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("weather API responded", "status", resp.StatusCode)

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return domain.WeatherSample{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return domain.WeatherSample{}, fmt.Errorf("tomorrow.io API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	c.logger.Debug("weather API payload", "body", string(body))
	return parseRealtime(body)
}

// parseRealtime extracts wind speed and direction from a realtime payload.
// Missing or null speed becomes "N/A"; missing or null direction becomes 0.
func parseRealtime(body []byte) (domain.WeatherSample, error) {
	var payload realtimeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.WeatherSample{}, fmt.Errorf("decode response: %w", err)
	}
	if payload.Data.Values == nil {
		return domain.WeatherSample{}, ErrNoValues
	}

	speedRaw, err := speedText(payload.Data.Values["windSpeed"])
	if err != nil {
		return domain.WeatherSample{}, err
	}

	var direction float64
	if raw, ok := payload.Data.Values["windDirection"]; ok && !isNull(raw) {
		if err := json.Unmarshal(raw, &direction); err != nil {
			return domain.WeatherSample{}, fmt.Errorf("decode windDirection %s: %w", raw, err)
		}
	}

	return domain.NewWeatherSample(speedRaw, direction), nil
}

// speedText renders windSpeed as the API sent it: numbers keep their JSON
// text, strings are unquoted.
func speedText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || isNull(raw) {
		return domain.SpeedUnavailable, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("decode windSpeed %s: %w", raw, err)
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("decode windSpeed %s: %w", raw, err)
	}
	return n.String(), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// Tomorrow.io realtime response, trimmed to what the map needs.
type realtimeResponse struct {
	Data struct {
		Time   string                     `json:"time"`
		Values map[string]json.RawMessage `json:"values"`
	} `json:"data"`
}
