package station

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/domain"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
)

var testNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubFetcher struct {
	bundle domain.ForecastBundle
	err    error
	calls  int
	lastID string
}

func (f *stubFetcher) Forecast(_ context.Context, geolocationID string) (domain.ForecastBundle, error) {
	f.calls++
	f.lastID = geolocationID
	if f.err != nil {
		return domain.ForecastBundle{}, f.err
	}
	return f.bundle, nil
}

type stubPublisher struct {
	snapshots []Snapshot
	err       error
}

func (p *stubPublisher) Publish(_ context.Context, snap Snapshot) error {
	if p.err != nil {
		return p.err
	}
	p.snapshots = append(p.snapshots, snap)
	return nil
}

func hourlyRecord(ts time.Time, symbol int, bearing float64) domain.RawRecord {
	return domain.RawRecord{
		"local_date_time": ts.Format(time.RFC3339),
		"SYMBOL_CODE":     float64(symbol),
		"RRR_MM":          0.4,
		"FF_KMH":          18.0,
		"PROBPCP_PERCENT": 35.0,
		"DD_DEG":          bearing,
		"TTT_C":           9.5,
	}
}

func testBundle() domain.ForecastBundle {
	return domain.ForecastBundle{
		Hourly: []domain.RawRecord{
			hourlyRecord(testNow, 1, 30),
			hourlyRecord(testNow.Add(time.Hour), 3, 45),
			hourlyRecord(testNow.Add(2*time.Hour), 19, 60),
		},
	}
}

func testStation(fetcher ForecastFetcher, publisher SnapshotPublisher) *Station {
	cfg := config.StationConfig{GeolocationID: "2660646", Name: "Zuerich"}
	return New(cfg, fetcher, publisher, clockwork.NewFakeClockAt(testNow), discardLogger(), observability.NewMetricsForTesting())
}

func TestRefresh_BuildsSnapshot(t *testing.T) {
	fetcher := &stubFetcher{bundle: testBundle()}
	st := testStation(fetcher, nil)

	_, ok := st.Snapshot()
	assert.False(t, ok, "no snapshot before the first refresh")

	require.NoError(t, st.Refresh(context.Background()))
	assert.Equal(t, "2660646", fetcher.lastID)

	snap, ok := st.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "2660646", snap.StationID)
	assert.Equal(t, "Zuerich", snap.Name)
	assert.Equal(t, domain.ConditionSunny, snap.Current.Condition)
	assert.Equal(t, "NNE", snap.WindCardinal, "30 degrees rounds to NNE")
	assert.Len(t, snap.Forecast, 2, "current conditions split off the sequence")
	assert.True(t, snap.UpdatedAt.Equal(testNow))
}

func TestRefresh_FetchFailureKeepsPreviousSnapshot(t *testing.T) {
	fetcher := &stubFetcher{bundle: testBundle()}
	st := testStation(fetcher, nil)
	require.NoError(t, st.Refresh(context.Background()))

	fetcher.err = errors.New("boom")
	err := st.Refresh(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch forecast")

	snap, ok := st.Snapshot()
	require.True(t, ok, "previous snapshot stays visible")
	assert.Equal(t, domain.ConditionSunny, snap.Current.Condition)
}

func TestRefresh_EmptyForecast(t *testing.T) {
	fetcher := &stubFetcher{}
	st := testStation(fetcher, nil)

	err := st.Refresh(context.Background())
	require.ErrorIs(t, err, domain.ErrNoForecastData)

	_, ok := st.Snapshot()
	assert.False(t, ok)
}

func TestRefresh_PublishesSnapshot(t *testing.T) {
	publisher := &stubPublisher{}
	st := testStation(&stubFetcher{bundle: testBundle()}, publisher)

	require.NoError(t, st.Refresh(context.Background()))
	require.Len(t, publisher.snapshots, 1)
	assert.Equal(t, "2660646", publisher.snapshots[0].StationID)
}

func TestRefresh_PublishFailureDoesNotFailCycle(t *testing.T) {
	publisher := &stubPublisher{err: errors.New("kafka down")}
	st := testStation(&stubFetcher{bundle: testBundle()}, publisher)

	require.NoError(t, st.Refresh(context.Background()))

	_, ok := st.Snapshot()
	assert.True(t, ok, "snapshot published locally despite sink failure")
}

func TestRefresh_NoWindBearing(t *testing.T) {
	rec := hourlyRecord(testNow, -1, 0)
	delete(rec, "DD_DEG")
	fetcher := &stubFetcher{bundle: domain.ForecastBundle{Hourly: []domain.RawRecord{rec}}}
	st := testStation(fetcher, nil)

	require.NoError(t, st.Refresh(context.Background()))

	snap, _ := st.Snapshot()
	assert.Empty(t, snap.WindCardinal)
	assert.Nil(t, snap.Current.WindBearingDeg)
	assert.Equal(t, domain.ConditionClearNight, snap.Current.Condition)
}
