// Command mockapi serves a local stand-in for the SRF-Meteo API so the
// service can be exercised without SRG SSR credentials. It implements the
// token exchange, forecast, and geolocation endpoints with generated data.
//
// Usage:
//
//	go run ./cmd/mockapi -addr :9090 -seed 42
//
// then point the service at it:
//
//	SRF_API_BASE_URL=http://localhost:9090 SRF_CONSUMER_KEY=mock SRF_CONSUMER_SECRET=mock ...
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/alpenwx/srf-forecast-service/internal/domain"
)

func main() {
	addr := flag.String("addr", ":9090", "listen address")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed for generated forecasts")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/v1/accesstoken", handleToken)
	mux.HandleFunc("GET /srf-meteo/forecast/{id}", handleForecast(*seed))
	mux.HandleFunc("GET /srf-meteo/geolocations", handleGeolocations)

	log.Printf("mock SRF API listening on %s (seed %d)", *addr, *seed)
	log.Fatal(http.ListenAndServe(*addr, mux))
}

func handleToken(w http.ResponseWriter, r *http.Request) {
	if _, _, ok := r.BasicAuth(); !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	// issued_at in epoch milliseconds, as Apigee delivers it.
	writeJSON(w, map[string]any{
		"access_token": fmt.Sprintf("mock-token-%d", time.Now().Unix()),
		"issued_at":    fmt.Sprintf("%d", time.Now().UnixMilli()),
		"expires_in":   "3600",
	})
}

func handleForecast(seed int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Same id + seed always yields the same forecast.
		h := int64(0)
		for _, c := range r.PathValue("id") {
			h = h*31 + int64(c)
		}
		rng := rand.New(rand.NewSource(seed + h))

		now := time.Now().Truncate(time.Hour)
		writeJSON(w, map[string]any{
			"forecast": map[string]any{
				"60minutes": generateRecords(rng, now, time.Hour, 4*24, false),
				"hour":      generateRecords(rng, now, 3*time.Hour, 7*8, false),
				"day":       generateRecords(rng, now.Truncate(24*time.Hour), 24*time.Hour, 7, true),
			},
		})
	}
}

func handleGeolocations(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("latitude")
	lon := r.URL.Query().Get("longitude")
	writeJSON(w, []map[string]any{
		{"id": fmt.Sprintf("%s,%s", lat, lon), "description_short": "Mock location"},
	})
}

// generateRecords produces count raw records at the given step, in the shape
// the real API uses. Daily records carry a TX_C/TN_C pair instead of TTT_C.
func generateRecords(rng *rand.Rand, start time.Time, step time.Duration, count int, daily bool) []domain.RawRecord {
	symbols := []int{1, 3, 4, 17, 19, 20, -1, -10}

	records := make([]domain.RawRecord, 0, count)
	for i := 0; i < count; i++ {
		ts := start.Add(time.Duration(i) * step)
		temp := 8 + 10*rng.Float64()

		rec := domain.RawRecord{
			"local_date_time": ts.Format("2006-01-02T15:04:05-07:00"),
			"SYMBOL_CODE":     symbols[rng.Intn(len(symbols))],
			"RRR_MM":          round1(3 * rng.Float64()),
			"FF_KMH":          round1(25 * rng.Float64()),
			"PROBPCP_PERCENT": float64(rng.Intn(101)),
		}
		// The real API drops the bearing now and then; so does the mock.
		if rng.Intn(10) > 0 {
			rec["DD_DEG"] = float64(rng.Intn(360))
		}
		if daily {
			rec["TX_C"] = round1(temp)
			rec["TN_C"] = round1(temp - 5)
		} else {
			rec["TTT_C"] = round1(temp)
		}
		records = append(records, rec)
	}
	return records
}

func round1(f float64) float64 {
	return float64(int(f*10)) / 10
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}
