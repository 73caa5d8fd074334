package persister

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
)

func TestIssuanceTime(t *testing.T) {
	cest := time.FixedZone("CEST", 2*60*60)
	tests := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2025, 6, 1, 12, 7, 59, 0, time.UTC), time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
		{time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC), time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC)},
		{time.Date(2025, 6, 1, 14, 44, 0, 0, cest), time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		got := IssuanceTime(tt.now)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestBuildForecastRecords_FractionalHorizon(t *testing.T) {
	issuance := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	table := &model.ForecastTable{Rows: []model.ForecastRow{
		{TargetTime: time.Date(2025, 6, 1, 12, 7, 30, 0, time.UTC), SolarGenerationKW: 4.2},
	}}

	records := BuildForecastRecords(table, issuance)

	require.Len(t, records, 1)
	assert.Equal(t, 7.5, records[0].HorizonMinutes)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 22, 30, 0, time.UTC), records[0].EndUTC)
	assert.Empty(t, BuildForecastRecords(nil, issuance))
}

func TestForecastFrame(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	frame := ForecastFrame([]model.ForecastRecord{
		{ForecastPowerKW: 1250.5, StartUTC: start, EndUTC: start.Add(15 * time.Minute), HorizonMinutes: -15},
	})

	assert.Equal(t, []string{ColumnForecastPowerKW, ColumnStartUTC, ColumnEndUTC, ColumnHorizonMinutes}, frame.Columns)
	assert.Equal(t, [][]string{{"1250.5", "2025-06-01T12:00:00Z", "2025-06-01T12:15:00Z", "-15"}}, frame.Rows)
}
