package station

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonboulle/clockwork"

	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
)

func setStation(id string, fetcher ForecastFetcher) *Station {
	cfg := config.StationConfig{GeolocationID: id, Name: id}
	return New(cfg, fetcher, nil, clockwork.NewFakeClockAt(testNow), discardLogger(), observability.NewMetricsForTesting())
}

func TestSet_Lookup(t *testing.T) {
	a := setStation("a", &stubFetcher{bundle: testBundle()})
	b := setStation("b", &stubFetcher{bundle: testBundle()})
	set := NewSet(a, b)

	got, ok := set.Get("b")
	require.True(t, ok)
	assert.Equal(t, "b", got.ID())

	_, ok = set.Get("missing")
	assert.False(t, ok)

	all := set.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].ID(), "configuration order preserved")
}

func TestSet_Readiness(t *testing.T) {
	a := setStation("a", &stubFetcher{bundle: testBundle()})
	b := setStation("b", &stubFetcher{bundle: testBundle()})
	set := NewSet(a, b)

	err := set.CheckReadiness(context.Background())
	require.Error(t, err, "not ready before any refresh")

	require.NoError(t, a.Refresh(context.Background()))
	require.Error(t, set.CheckReadiness(context.Background()), "not ready until all stations refreshed")

	require.NoError(t, b.Refresh(context.Background()))
	assert.NoError(t, set.CheckReadiness(context.Background()))
}

func TestSet_RefreshAllIsolatesFailures(t *testing.T) {
	healthy := setStation("ok", &stubFetcher{bundle: testBundle()})
	broken := setStation("down", &stubFetcher{err: errors.New("boom")})
	set := NewSet(healthy, broken)

	set.RefreshAll(context.Background(), discardLogger())

	_, ok := healthy.Snapshot()
	assert.True(t, ok, "healthy station refreshed despite sibling failure")
	_, ok = broken.Snapshot()
	assert.False(t, ok)
}
