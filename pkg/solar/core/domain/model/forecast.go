package model

import (
	"time"

	"github.com/google/uuid"
)

// ForecastInterval is the fixed length of one forecast value.
const ForecastInterval = 15 * time.Minute

// ForecastRow is one row of a site forecast input table.
type ForecastRow struct {
	TargetTime        time.Time
	SolarGenerationKW float64
}

// ForecastTable is an in-memory site forecast input.
type ForecastTable struct {
	Rows []ForecastRow
}

// Len returns the number of rows.
func (t *ForecastTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// ForecastRecord is a forecast row in storage shape.
type ForecastRecord struct {
	ForecastPowerKW float64
	StartUTC        time.Time
	EndUTC          time.Time
	// HorizonMinutes is StartUTC minus the run's issuance time; negative for past intervals.
	HorizonMinutes float64
}

// ForecastRunMeta identifies one forecast run.
type ForecastRunMeta struct {
	SiteUUID        uuid.UUID
	TimestampUTC    time.Time
	ForecastVersion string
}

// Forecast is a complete forecast aggregate saved in bulk by a ForecastObjectStore.
type Forecast struct {
	LocationName string
	ModelName    string
	ModelVersion string
	CreatedUTC   time.Time
	// InputDataLastUpdatedUTC is when the inputs behind this forecast were last refreshed.
	InputDataLastUpdatedUTC time.Time
	Historic                bool
	Values                  []ForecastValue
}

// ForecastValue is one target time of a Forecast.
type ForecastValue struct {
	TargetTimeUTC             time.Time
	ExpectedPowerGenerationMW float64
}
