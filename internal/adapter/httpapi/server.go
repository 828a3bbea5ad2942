package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alpenwx/srf-forecast-service/internal/station"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes health, readiness, metrics, and the station state surface.
type Server struct {
	httpServer *http.Server
	stations   *station.Set
	logger     *slog.Logger
}

// NewServer creates an HTTP server with operational routes plus the
// /v1/stations API.
func NewServer(addr string, stations *station.Set, ready ReadinessChecker, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		stations: stations,
		logger:   logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /v1/stations", s.handleStations)
	mux.HandleFunc("GET /v1/stations/{id}/current", s.handleCurrent)
	mux.HandleFunc("GET /v1/stations/{id}/forecast", s.handleForecast)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

type stationSummary struct {
	StationID string     `json:"station_id"`
	Name      string     `json:"name"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (s *Server) handleStations(w http.ResponseWriter, _ *http.Request) {
	all := s.stations.All()
	out := make([]stationSummary, 0, len(all))
	for _, st := range all {
		summary := stationSummary{StationID: st.ID(), Name: st.Name()}
		if snap, ok := st.Snapshot(); ok {
			summary.UpdatedAt = &snap.UpdatedAt
		}
		out = append(out, summary)
	}
	writeJSON(w, http.StatusOK, out)
}

// currentConditions is the flattened "now" view of a snapshot, including the
// extra attributes consumers expect alongside the headline values.
type currentConditions struct {
	StationID   string  `json:"station_id"`
	Name        string  `json:"name"`
	Condition   string  `json:"condition"`
	Temperature float64 `json:"temperature"`
	WindSpeed   float64 `json:"wind_speed"`
	WindBearing string  `json:"wind_bearing,omitempty"`

	Attributes struct {
		WindDirection            *int    `json:"wind_direction,omitempty"`
		SymbolID                 int     `json:"symbol_id"`
		Precipitation            float64 `json:"precipitation"`
		PrecipitationProbability float64 `json:"precipitation_probability"`
	} `json:"attributes"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookupSnapshot(w, r)
	if !ok {
		return
	}

	out := currentConditions{
		StationID:   snap.StationID,
		Name:        snap.Name,
		Condition:   string(snap.Current.Condition),
		Temperature: snap.Current.TemperatureC,
		WindSpeed:   snap.Current.WindSpeedKMH,
		WindBearing: snap.WindCardinal,
		UpdatedAt:   snap.UpdatedAt,
	}
	out.Attributes.WindDirection = snap.Current.WindBearingDeg
	out.Attributes.SymbolID = snap.Current.SymbolID
	out.Attributes.Precipitation = snap.Current.PrecipitationMM
	out.Attributes.PrecipitationProbability = snap.Current.PrecipitationProbability

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	snap, ok := s.lookupSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"station_id": snap.StationID,
		"forecast":   snap.Forecast,
		"updated_at": snap.UpdatedAt,
	})
}

// lookupSnapshot resolves the {id} path value to a snapshot, writing 404 for
// unknown stations and 503 for stations that have not refreshed yet.
func (s *Server) lookupSnapshot(w http.ResponseWriter, r *http.Request) (station.Snapshot, bool) {
	id := r.PathValue("id")
	st, ok := s.stations.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown station " + id})
		return station.Snapshot{}, false
	}
	snap, ok := st.Snapshot()
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no forecast yet for station " + id})
		return station.Snapshot{}, false
	}
	return snap, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
