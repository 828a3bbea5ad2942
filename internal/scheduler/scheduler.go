package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/alpenwx/srf-forecast-service/internal/station"
)

// runTimeout bounds one refresh run across all stations.
const runTimeout = 5 * time.Minute

// Scheduler refreshes all stations on a fixed interval.
type Scheduler struct {
	scheduler *gocron.Scheduler
	stations  *station.Set
	interval  time.Duration
	logger    *slog.Logger
}

// New creates a Scheduler; the interval comes from config (hourly by default).
func New(stations *station.Set, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.Local),
		stations:  stations,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the periodic refresh and runs the first cycle immediately
// so the service becomes ready without waiting a full interval.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).StartImmediately().Do(s.run)
	if err != nil {
		return err
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop cancels all scheduled runs. In-flight refreshes finish on their own.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	s.logger.Info("refreshing stations", "count", len(s.stations.All()))
	s.stations.RefreshAll(ctx, s.logger)
}
