package station

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Set holds all configured stations and answers readiness for the service
// as a whole.
type Set struct {
	order []*Station
	byID  map[string]*Station
}

// NewSet builds a Set preserving the given order for listings.
func NewSet(stations ...*Station) *Set {
	byID := make(map[string]*Station, len(stations))
	for _, st := range stations {
		byID[st.ID()] = st
	}
	return &Set{order: stations, byID: byID}
}

// Get returns the station with the given geolocation id.
func (s *Set) Get(id string) (*Station, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// All returns the stations in configuration order.
func (s *Set) All() []*Station {
	return s.order
}

// RefreshAll refreshes every station concurrently. Stations are independent;
// one failing cycle does not affect the others.
func (s *Set) RefreshAll(ctx context.Context, logger *slog.Logger) {
	var wg sync.WaitGroup
	for _, st := range s.order {
		wg.Add(1)
		go func(st *Station) {
			defer wg.Done()
			if err := st.Refresh(ctx); err != nil {
				logger.Error("station refresh failed", "station", st.ID(), "error", err)
			}
		}(st)
	}
	wg.Wait()
}

// CheckReadiness reports the service ready once every station has completed
// at least one successful refresh.
func (s *Set) CheckReadiness(_ context.Context) error {
	for _, st := range s.order {
		if _, ok := st.Snapshot(); !ok {
			return fmt.Errorf("station %s has no forecast yet", st.ID())
		}
	}
	return nil
}
