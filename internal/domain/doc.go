// Package domain models SRF-Meteo forecast data and the logic that folds it
// into a single forecast sequence.
//
// # Data Source
//
// Forecasts come from the SRG SSR public API (https://developer.srgssr.ch),
// product "SRF-MeteoProd". One forecast response carries three granularities
// for the same geolocation:
//
//	"60minutes"  hourly records, roughly 4 days ahead
//	"hour"       tri-hourly records, roughly 7 days ahead
//	"day"        daily records, roughly 7 days ahead
//
// # Record Fields
//
//	local_date_time   ISO-8601 local timestamp
//	SYMBOL_CODE       signed pictogram code; positive = day, negative = night
//	RRR_MM            precipitation total in millimetres
//	FF_KMH            wind speed in km/h
//	PROBPCP_PERCENT   precipitation probability in percent
//	DD_DEG            wind bearing in degrees; omitted unpredictably
//	TTT_C             temperature (hourly and tri-hourly records)
//	TX_C / TN_C       daily high and low temperature
//
// # Merging
//
// [Merge] builds one ascending sequence: hourly records for the first 12
// hours, tri-hourly records until the midnight after 48 hours, daily records
// beyond that. The first point of the sequence is the current conditions,
// the rest the forward forecast. Malformed records are skipped individually
// so a single bad entry cannot take down a refresh cycle.
package domain
