package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/domain"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
	"github.com/alpenwx/srf-forecast-service/internal/station"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticFetcher struct {
	bundle domain.ForecastBundle
}

func (f staticFetcher) Forecast(context.Context, string) (domain.ForecastBundle, error) {
	return f.bundle, nil
}

type readyFunc func(ctx context.Context) error

func (f readyFunc) CheckReadiness(ctx context.Context) error { return f(ctx) }

func testBundle() domain.ForecastBundle {
	rec := func(ts time.Time) domain.RawRecord {
		return domain.RawRecord{
			"local_date_time": ts.Format(time.RFC3339),
			"SYMBOL_CODE":     float64(1),
			"RRR_MM":          0.3,
			"FF_KMH":          22.0,
			"PROBPCP_PERCENT": 15.0,
			"DD_DEG":          float64(180),
			"TTT_C":           7.0,
		}
	}
	return domain.ForecastBundle{
		Hourly: []domain.RawRecord{rec(testNow), rec(testNow.Add(time.Hour))},
	}
}

// testServer builds a server over one refreshed and one never-refreshed station.
func testServer(t *testing.T) *Server {
	t.Helper()

	clk := clockwork.NewFakeClockAt(testNow)
	metrics := observability.NewMetricsForTesting()

	refreshed := station.New(config.StationConfig{GeolocationID: "2660646", Name: "Zuerich"},
		staticFetcher{bundle: testBundle()}, nil, clk, discardLogger(), metrics)
	require.NoError(t, refreshed.Refresh(context.Background()))

	pending := station.New(config.StationConfig{GeolocationID: "2661552", Name: "Bern"},
		staticFetcher{}, nil, clk, discardLogger(), metrics)

	set := station.NewSet(refreshed, pending)
	return NewServer(":0", set, set, discardLogger())
}

func doRequest(t *testing.T, srv *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	if rec.Body.Len() > 0 && rec.Body.Bytes()[0] == '{' {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealthz(t *testing.T) {
	rec, body := doRequest(t, testServer(t), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("not ready", func(t *testing.T) {
		rec, body := doRequest(t, testServer(t), "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, body["error"], "2661552")
	})

	t.Run("ready", func(t *testing.T) {
		set := station.NewSet()
		srv := NewServer(":0", set, readyFunc(func(context.Context) error { return nil }), discardLogger())
		rec, body := doRequest(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
	})

	t.Run("checker failure", func(t *testing.T) {
		set := station.NewSet()
		srv := NewServer(":0", set, readyFunc(func(context.Context) error { return errors.New("warming up") }), discardLogger())
		rec, _ := doRequest(t, srv, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestStationsList(t *testing.T) {
	srv := testServer(t)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stations", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var list []stationSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "2660646", list[0].StationID)
	assert.Equal(t, "Zuerich", list[0].Name)
	assert.NotNil(t, list[0].UpdatedAt)
	assert.Nil(t, list[1].UpdatedAt, "pending station has no refresh yet")
}

func TestCurrentConditions(t *testing.T) {
	t.Run("refreshed station", func(t *testing.T) {
		rec, body := doRequest(t, testServer(t), "/v1/stations/2660646/current")
		require.Equal(t, http.StatusOK, rec.Code)

		assert.Equal(t, "sunny", body["condition"])
		assert.Equal(t, 7.0, body["temperature"])
		assert.Equal(t, 22.0, body["wind_speed"])
		assert.Equal(t, "S", body["wind_bearing"])

		attrs, ok := body["attributes"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(180), attrs["wind_direction"])
		assert.Equal(t, float64(1), attrs["symbol_id"])
		assert.Equal(t, 0.3, attrs["precipitation"])
		assert.Equal(t, 15.0, attrs["precipitation_probability"])
	})

	t.Run("pending station", func(t *testing.T) {
		rec, _ := doRequest(t, testServer(t), "/v1/stations/2661552/current")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("unknown station", func(t *testing.T) {
		rec, _ := doRequest(t, testServer(t), "/v1/stations/nope/current")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestForecast(t *testing.T) {
	rec, body := doRequest(t, testServer(t), "/v1/stations/2660646/forecast")
	require.Equal(t, http.StatusOK, rec.Code)

	points, ok := body["forecast"].([]any)
	require.True(t, ok)
	require.Len(t, points, 1, "current conditions not repeated in the forecast")

	point, ok := points[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "sunny", point["condition"])
}
