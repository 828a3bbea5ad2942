package srf

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

	"github.com/jonboulle/clockwork"

	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/domain"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
)

// Client talks to the SRG SSR SRF-Meteo API. It owns the access token for
// its credential pair and renews it transparently; create one Client per
// station so token state is never shared.
type Client struct {
	key        string
	secret     string
	httpClient *http.Client
	baseURL    string
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics

	creds tokenCache
}

// NewClient creates an SRF-Meteo API client.
func NewClient(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		key:    cfg.ConsumerKey,
		secret: cfg.ConsumerSecret,
		httpClient: &http.Client{
			Timeout: cfg.APITimeout,
		},
		baseURL: cfg.APIBaseURL,
		clock:   clockwork.NewRealClock(),
		logger:  logger,
		metrics: metrics,
	}
}

// StatusError reports a non-success HTTP status from the SRF API.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("srf %s request failed: status %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Geolocation is one entry from the geolocation lookup endpoint.
type Geolocation struct {
	ID          string  `json:"id"`
	Description string  `json:"description_short"`
	Latitude    float64 `json:"lat"`
	Longitude   float64 `json:"lon"`
}

// Forecast fetches the forecast bundle for a geolocation.
func (c *Client) Forecast(ctx context.Context, geolocationID string) (domain.ForecastBundle, error) {
	u := fmt.Sprintf("%s/srf-meteo/forecast/%s", c.baseURL, url.PathEscape(geolocationID))

	var payload struct {
		Forecast domain.ForecastBundle `json:"forecast"`
	}
	if err := c.getJSON(ctx, "forecast", u, &payload); err != nil {
		return domain.ForecastBundle{}, err
	}
	return payload.Forecast, nil
}

// Geolocations looks up the geolocation ids closest to a coordinate pair.
func (c *Client) Geolocations(ctx context.Context, lat, lon float64) ([]Geolocation, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(lat, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	u := fmt.Sprintf("%s/srf-meteo/geolocations?%s", c.baseURL, params.Encode())

	var locations []Geolocation
	if err := c.getJSON(ctx, "geolocation", u, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// getJSON performs an authenticated GET against the SRF API and decodes the
// JSON response into out.
func (c *Client) getJSON(ctx context.Context, endpoint, fullURL string, out any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return fmt.Errorf("acquire access token: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logRateLimit(resp)

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// logRateLimit surfaces the Apigee rate-limit headers at debug level. The
// reset time header is in epoch milliseconds.
func (c *Client) logRateLimit(resp *http.Response) {
	available := resp.Header.Get("x-ratelimit-available")
	if available == "" {
		return
	}
	var reset time.Time
	if ms, err := strconv.ParseInt(resp.Header.Get("x-ratelimit-reset-time"), 10, 64); err == nil {
		reset = time.UnixMilli(ms)
	}
	c.logger.Debug("srf rate limit", "available", available, "reset", reset)
}
