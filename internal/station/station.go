package station

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/domain"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
)

// ForecastFetcher retrieves the raw forecast bundle for a geolocation.
type ForecastFetcher interface {
	Forecast(ctx context.Context, geolocationID string) (domain.ForecastBundle, error)
}

// SnapshotPublisher pushes a refreshed snapshot to an external sink.
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap Snapshot) error
}

// Snapshot is the published state of one station after a successful refresh:
// current conditions plus the forward-looking forecast.
type Snapshot struct {
	StationID    string                 `json:"station_id"`
	Name         string                 `json:"name"`
	Current      domain.ForecastPoint   `json:"current"`
	WindCardinal string                 `json:"wind_cardinal,omitempty"`
	Forecast     []domain.ForecastPoint `json:"forecast"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// Station tracks one geolocation. It owns its fetcher (and therefore its own
// token state) and the last successfully built snapshot. A failed refresh
// leaves the previous snapshot in place.
type Station struct {
	id        string
	name      string
	fetcher   ForecastFetcher
	publisher SnapshotPublisher // nil disables publishing
	clock     clockwork.Clock
	logger    *slog.Logger
	metrics   *observability.Metrics

	mu       sync.RWMutex
	snapshot *Snapshot
}

// New creates a Station. Pass a nil publisher to disable snapshot publishing.
func New(cfg config.StationConfig, fetcher ForecastFetcher, publisher SnapshotPublisher, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Station {
	return &Station{
		id:        cfg.GeolocationID,
		name:      cfg.Name,
		fetcher:   fetcher,
		publisher: publisher,
		clock:     clock,
		logger:    logger.With("station", cfg.GeolocationID),
		metrics:   metrics,
	}
}

func (s *Station) ID() string   { return s.id }
func (s *Station) Name() string { return s.name }

// Snapshot returns the last successful refresh result. ok is false until the
// first refresh has completed.
func (s *Station) Snapshot() (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return Snapshot{}, false
	}
	return *s.snapshot, true
}

// Refresh runs one update cycle: fetch, merge, publish the new snapshot.
// Any failure aborts the cycle without touching the current snapshot.
func (s *Station) Refresh(ctx context.Context) error {
	bundle, err := s.fetcher.Forecast(ctx, s.id)
	if err != nil {
		s.metrics.RefreshCycles.WithLabelValues(s.id, "error").Inc()
		return fmt.Errorf("fetch forecast: %w", err)
	}

	current, forecast, err := domain.Merge(s.clock.Now(), bundle, s.logger)
	if err != nil {
		s.metrics.RefreshCycles.WithLabelValues(s.id, "error").Inc()
		return fmt.Errorf("merge forecast: %w", err)
	}

	snap := Snapshot{
		StationID: s.id,
		Name:      s.name,
		Current:   current,
		Forecast:  forecast,
		UpdatedAt: s.clock.Now(),
	}
	if current.WindBearingDeg != nil {
		snap.WindCardinal = domain.Cardinal(float64(*current.WindBearingDeg))
	}

	s.mu.Lock()
	s.snapshot = &snap
	s.mu.Unlock()

	s.metrics.RefreshCycles.WithLabelValues(s.id, "success").Inc()
	s.metrics.RecordsMerged.WithLabelValues(s.id).Observe(float64(len(forecast) + 1))
	s.metrics.LastRefreshTime.WithLabelValues(s.id).Set(float64(snap.UpdatedAt.Unix()))
	s.logger.Info("forecast refreshed",
		"condition", current.Condition,
		"temperature", current.TemperatureC,
		"forecast_points", len(forecast),
	)

	// Publishing is best-effort: the snapshot is already visible, so a sink
	// outage must not fail the cycle.
	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, snap); err != nil {
			s.metrics.PublishErrors.Inc()
			s.logger.Error("snapshot publish failed", "error", err)
		} else {
			s.metrics.SnapshotsPublished.Inc()
		}
	}
	return nil
}
