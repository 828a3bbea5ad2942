package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alpenwx/srf-forecast-service/internal/domain"
	"github.com/alpenwx/srf-forecast-service/internal/station"
)

func TestSerializeSnapshot(t *testing.T) {
	updatedAt := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	bearing := 210

	snap := station.Snapshot{
		StationID: "2660646",
		Name:      "Zuerich",
		Current: domain.ForecastPoint{
			Time:           updatedAt,
			Condition:      domain.ConditionRain,
			SymbolID:       20,
			WindSpeedKMH:   24,
			WindBearingDeg: &bearing,
			TemperatureC:   6.5,
		},
		WindCardinal: "SSW",
		Forecast: []domain.ForecastPoint{
			{Time: updatedAt.Add(time.Hour), Condition: domain.ConditionCloudy, SymbolID: 19},
		},
		UpdatedAt: updatedAt,
	}

	msg, err := serializeSnapshot(snap)
	require.NoError(t, err)

	assert.Equal(t, []byte("2660646"), msg.Key)

	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "condition", msg.Headers[0].Key)
	assert.Equal(t, []byte("rainy"), msg.Headers[0].Value)
	assert.Equal(t, "updated_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(updatedAt.Format(time.RFC3339)), msg.Headers[1].Value)

	var decoded station.Snapshot
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, snap.StationID, decoded.StationID)
	assert.Equal(t, snap.Current.Condition, decoded.Current.Condition)
	assert.Equal(t, "SSW", decoded.WindCardinal)
	require.Len(t, decoded.Forecast, 1)
	assert.Equal(t, domain.ConditionCloudy, decoded.Forecast[0].Condition)
}
