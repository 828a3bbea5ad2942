package domain

import (
	"errors"
	"log/slog"
	"time"
)

// ErrNoForecastData is returned when merging yields no usable forecast
// points at all.
var ErrNoForecastData = errors.New("no forecast data available")

// Cutoffs between granularities: hourly records cover the first 12 hours,
// tri-hourly records the remainder until the midnight after 48 hours, daily
// records everything beyond.
const hourlyWindow = 12 * time.Hour

// Merge stitches the three forecast granularities into one chronologically
// ascending sequence starting at the top of the current hour, then splits off
// the first point as current conditions. Each source must already be sorted
// by ascending timestamp, which holds for SRF-Meteo responses.
//
// Malformed records are logged and skipped; they never abort the merge.
// Records with a symbol code missing from the condition table are kept with
// ConditionUnavailable and logged.
func Merge(now time.Time, bundle ForecastBundle, logger *slog.Logger) (ForecastPoint, []ForecastPoint, error) {
	now = time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())

	hourlyCutoff := now.Add(hourlyWindow)
	dailyCutoff := midnightOf(now.Add(48 * time.Hour))

	merged := takeHourly(bundle.Hourly, now, hourlyCutoff, logger)
	merged = append(merged, takeTriHourly(bundle.TriHourly, hourlyCutoff, dailyCutoff, logger)...)
	merged = append(merged, takeDaily(bundle.Daily, dailyCutoff, logger)...)

	if len(merged) == 0 {
		return ForecastPoint{}, nil, ErrNoForecastData
	}
	return merged[0], merged[1:], nil
}

// takeHourly keeps hourly records in [from, until]. Records before the window
// are past data and skipped; consumption stops at the first record beyond it.
func takeHourly(records []RawRecord, from, until time.Time, logger *slog.Logger) []ForecastPoint {
	var points []ForecastPoint
	for _, rec := range records {
		p, ok := parseOrSkip(rec, ParseHourly, "hourly", logger)
		if !ok {
			continue
		}
		if p.Time.Before(from) {
			continue
		}
		if p.Time.After(until) {
			break
		}
		points = append(points, p)
	}
	return points
}

// takeTriHourly keeps tri-hourly records in (after, until]. Records at or
// before `after` overlap the hourly window and are skipped.
func takeTriHourly(records []RawRecord, after, until time.Time, logger *slog.Logger) []ForecastPoint {
	var points []ForecastPoint
	for _, rec := range records {
		p, ok := parseOrSkip(rec, ParseHourly, "tri-hourly", logger)
		if !ok {
			continue
		}
		if !p.Time.After(after) {
			continue
		}
		if p.Time.After(until) {
			break
		}
		points = append(points, p)
	}
	return points
}

// takeDaily keeps daily records strictly after the tri-hourly cutoff, with
// no upper bound.
func takeDaily(records []RawRecord, after time.Time, logger *slog.Logger) []ForecastPoint {
	var points []ForecastPoint
	for _, rec := range records {
		p, ok := parseOrSkip(rec, ParseDaily, "daily", logger)
		if !ok {
			continue
		}
		if !p.Time.After(after) {
			continue
		}
		points = append(points, p)
	}
	return points
}

func parseOrSkip(rec RawRecord, parse func(RawRecord) (ForecastPoint, error), granularity string, logger *slog.Logger) (ForecastPoint, bool) {
	p, err := parse(rec)
	if err != nil {
		logger.Warn("skipping malformed forecast record", "granularity", granularity, "error", err)
		return ForecastPoint{}, false
	}
	if p.Condition == ConditionUnavailable {
		logger.Warn("no condition mapping for symbol code", "granularity", granularity, "symbol_id", p.SymbolID)
	}
	return p, true
}

func midnightOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
