// Command forecastd polls the SRF-Meteo API for the configured stations and
// serves the merged forecasts over HTTP, optionally publishing each refresh
// to Kafka.
//
// Run with -resolve to look up geolocation ids for a coordinate pair instead
// of starting the service:
//
//	forecastd -resolve 47.3769,8.5417
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/alpenwx/srf-forecast-service/internal/adapter/httpapi"
	kafkaadapter "github.com/alpenwx/srf-forecast-service/internal/adapter/kafka"
	"github.com/alpenwx/srf-forecast-service/internal/adapter/srf"
	"github.com/alpenwx/srf-forecast-service/internal/config"
	"github.com/alpenwx/srf-forecast-service/internal/observability"
	"github.com/alpenwx/srf-forecast-service/internal/scheduler"
	"github.com/alpenwx/srf-forecast-service/internal/station"
)

func main() {
	resolve := flag.String("resolve", "", "look up geolocation ids for \"lat,lon\" and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	if *resolve != "" {
		if err := resolveGeolocations(cfg, logger, metrics, *resolve); err != nil {
			logger.Error("geolocation lookup failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if len(cfg.Stations) == 0 {
		logger.Error("SRF_STATIONS is required")
		os.Exit(1)
	}

	// Optional Kafka snapshot sink.
	var publisher station.SnapshotPublisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	// Each station gets its own API client so token state stays per-station.
	clock := clockwork.NewRealClock()
	stations := make([]*station.Station, 0, len(cfg.Stations))
	for _, sc := range cfg.Stations {
		client := srf.NewClient(cfg, logger.With("station", sc.GeolocationID), metrics)
		stations = append(stations, station.New(sc, client, publisher, clock, logger, metrics))
	}
	set := station.NewSet(stations...)

	sched := scheduler.New(set, cfg.RefreshInterval, logger)
	srv := httpapi.NewServer(cfg.HTTPAddr, set, set, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	if err := sched.Start(); err != nil {
		logger.Error("scheduler start error", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// resolveGeolocations validates the credentials by acquiring a token, then
// prints the geolocation ids closest to the given coordinates.
func resolveGeolocations(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics, coords string) error {
	latStr, lonStr, found := strings.Cut(coords, ",")
	if !found {
		return fmt.Errorf("expected \"lat,lon\", got %q", coords)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return fmt.Errorf("invalid latitude %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return fmt.Errorf("invalid longitude %q", lonStr)
	}

	client := srf.NewClient(cfg, logger, metrics)
	locations, err := client.Geolocations(context.Background(), lat, lon)
	if err != nil {
		return err
	}
	if len(locations) == 0 {
		return fmt.Errorf("no geolocation found for %f, %f", lat, lon)
	}

	for _, loc := range locations {
		fmt.Printf("%s\t%s\t(%.4f, %.4f)\n", loc.ID, loc.Description, loc.Latitude, loc.Longitude)
	}
	return nil
}
