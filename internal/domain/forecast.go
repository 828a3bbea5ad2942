package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RawRecord is one forecast entry exactly as the SRF-Meteo API delivers it.
// The API is inconsistent about quoting numeric values, so fields are kept
// untyped until parsing.
type RawRecord map[string]any

// ForecastBundle groups the three forecast granularities of one API response.
// Each slice is ordered by ascending timestamp, which the merge relies on.
type ForecastBundle struct {
	Hourly    []RawRecord `json:"60minutes"`
	TriHourly []RawRecord `json:"hour"`
	Daily     []RawRecord `json:"day"`
}

// ForecastPoint is a normalized forecast entry for a single point in time.
type ForecastPoint struct {
	Time                     time.Time `json:"datetime"`
	Condition                Condition `json:"condition"`
	SymbolID                 int       `json:"symbol_id"`
	PrecipitationMM          float64   `json:"precipitation"`
	PrecipitationProbability float64   `json:"precipitation_probability"`
	WindSpeedKMH             float64   `json:"wind_speed"`
	WindBearingDeg           *int      `json:"wind_bearing,omitempty"`
	TemperatureC             float64   `json:"temperature"`
	TemperatureLowC          *float64  `json:"templow,omitempty"` // daily records only
}

// MalformedRecordError reports a forecast record that could not be parsed.
// It carries the offending raw record so callers can log it verbatim.
type MalformedRecordError struct {
	Field string
	Raw   RawRecord
	Err   error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed forecast record: field %q: %v (record: %v)", e.Field, e.Err, e.Raw)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// ParseHourly parses an hourly or tri-hourly record, which carries a single
// temperature value in TTT_C.
func ParseHourly(rec RawRecord) (ForecastPoint, error) {
	p, err := parsePoint(rec)
	if err != nil {
		return ForecastPoint{}, err
	}

	temp, err := numField(rec, "TTT_C")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "TTT_C", Raw: rec, Err: err}
	}
	p.TemperatureC = temp
	return p, nil
}

// ParseDaily parses a daily record, which carries a high/low temperature
// pair in TX_C and TN_C.
func ParseDaily(rec RawRecord) (ForecastPoint, error) {
	p, err := parsePoint(rec)
	if err != nil {
		return ForecastPoint{}, err
	}

	high, err := numField(rec, "TX_C")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "TX_C", Raw: rec, Err: err}
	}
	low, err := numField(rec, "TN_C")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "TN_C", Raw: rec, Err: err}
	}
	p.TemperatureC = high
	p.TemperatureLowC = &low
	return p, nil
}

// parsePoint extracts the fields shared by all granularities.
func parsePoint(rec RawRecord) (ForecastPoint, error) {
	ts, err := parseLocalTime(rec)
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "local_date_time", Raw: rec, Err: err}
	}

	symbol, err := numField(rec, "SYMBOL_CODE")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "SYMBOL_CODE", Raw: rec, Err: err}
	}
	symbolID := int(symbol)
	condition, _ := ConditionForSymbol(symbolID)

	precip, err := numField(rec, "RRR_MM")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "RRR_MM", Raw: rec, Err: err}
	}
	windSpeed, err := numField(rec, "FF_KMH")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "FF_KMH", Raw: rec, Err: err}
	}
	precipProb, err := numField(rec, "PROBPCP_PERCENT")
	if err != nil {
		return ForecastPoint{}, &MalformedRecordError{Field: "PROBPCP_PERCENT", Raw: rec, Err: err}
	}

	p := ForecastPoint{
		Time:                     ts,
		Condition:                condition,
		SymbolID:                 symbolID,
		PrecipitationMM:          precip,
		PrecipitationProbability: precipProb,
		WindSpeedKMH:             windSpeed,
	}

	// The API omits the wind bearing unpredictably; a missing value is not
	// an error.
	if _, present := rec["DD_DEG"]; present {
		bearing, err := numField(rec, "DD_DEG")
		if err != nil {
			return ForecastPoint{}, &MalformedRecordError{Field: "DD_DEG", Raw: rec, Err: err}
		}
		deg := int(bearing)
		p.WindBearingDeg = &deg
	}

	return p, nil
}

// localTimeLayouts are tried in order when parsing local_date_time. The API
// usually includes a zone offset but has been observed without one, in which
// case the timestamp is taken as server-local time.
var localTimeLayouts = []struct {
	layout string
	local  bool
}{
	{layout: time.RFC3339},
	{layout: "2006-01-02T15:04:05", local: true},
}

func parseLocalTime(rec RawRecord) (time.Time, error) {
	v, ok := rec["local_date_time"]
	if !ok {
		return time.Time{}, fmt.Errorf("missing field")
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("not a string: %v", v)
	}

	var lastErr error
	for _, l := range localTimeLayouts {
		var (
			ts  time.Time
			err error
		)
		if l.local {
			ts, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			ts, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// numField reads a numeric field that may arrive as a JSON number, a quoted
// number, or a json.Number. Missing and non-numeric values are errors.
func numField(rec RawRecord, key string) (float64, error) {
	v, ok := rec[key]
	if !ok {
		return 0, fmt.Errorf("missing field")
	}

	switch n := v.(type) {
	case float64:
		return n, nil
	case json.Number:
		return n.Float64()
	case string:
		f, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, fmt.Errorf("not numeric: %q", n)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not numeric: %v", v)
	}
}
