package persister

import (
	"strconv"
	"time"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
)

// Column names of an exported forecast frame.
const (
	ColumnForecastPowerKW = "forecast_power_kw"
	ColumnStartUTC        = "start_utc"
	ColumnEndUTC          = "end_utc"
	ColumnHorizonMinutes  = "horizon_minutes"
)

// IssuanceTime floors now to the 15 minute boundary in UTC.
func IssuanceTime(now time.Time) time.Time {
	return now.UTC().Truncate(model.ForecastInterval)
}

// BuildForecastRecords reshapes a forecast table for a run issued at issuance.
// Each value covers [start, start+15m); the horizon is start minus issuance in minutes.
func BuildForecastRecords(table *model.ForecastTable, issuance time.Time) []model.ForecastRecord {
	records := make([]model.ForecastRecord, 0, table.Len())
	if table == nil {
		return records
	}
	for _, r := range table.Rows {
		start := r.TargetTime.UTC()
		records = append(records, model.ForecastRecord{
			ForecastPowerKW: r.SolarGenerationKW,
			StartUTC:        start,
			EndUTC:          start.Add(model.ForecastInterval),
			HorizonMinutes:  start.Sub(issuance).Minutes(),
		})
	}
	return records
}

// ForecastFrame renders records as a frame with RFC 3339 timestamps.
func ForecastFrame(records []model.ForecastRecord) *model.Frame {
	frame := &model.Frame{
		Columns: []string{ColumnForecastPowerKW, ColumnStartUTC, ColumnEndUTC, ColumnHorizonMinutes},
		Rows:    make([][]string, 0, len(records)),
	}
	for _, r := range records {
		frame.Rows = append(frame.Rows, []string{
			strconv.FormatFloat(r.ForecastPowerKW, 'f', -1, 64),
			r.StartUTC.UTC().Format(time.RFC3339),
			r.EndUTC.UTC().Format(time.RFC3339),
			strconv.FormatFloat(r.HorizonMinutes, 'f', -1, 64),
		})
	}
	return frame
}
