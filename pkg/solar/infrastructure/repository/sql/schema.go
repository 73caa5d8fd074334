package sql

import (
	"time"

	"github.com/google/uuid"
)

// SiteEntity is a row of the sites table.
type SiteEntity struct {
	LocationUUID   uuid.UUID `gorm:"column:location_uuid;primaryKey;type:uuid"`
	ClientSiteID   int       `gorm:"column:client_site_id"`
	ClientSiteName string    `gorm:"column:client_site_name;uniqueIndex"`
	Country        string    `gorm:"column:country"`
	Latitude       float64   `gorm:"column:latitude"`
	Longitude      float64   `gorm:"column:longitude"`
	CapacityKW     float64   `gorm:"column:capacity_kw"`
	DNO            string    `gorm:"column:dno"`
	GSP            string    `gorm:"column:gsp"`
	CreatedUTC     time.Time `gorm:"column:created_utc"`
}

func (SiteEntity) TableName() string {
	return "sites"
}

// GenerationEntity is a row of the generation table.
type GenerationEntity struct {
	GenerationUUID    uuid.UUID `gorm:"column:generation_uuid;primaryKey;type:uuid"`
	SiteUUID          uuid.UUID `gorm:"column:site_uuid;index;type:uuid"`
	GenerationPowerKW float64   `gorm:"column:generation_power_kw"`
	StartUTC          time.Time `gorm:"column:start_utc;index"`
	CreatedUTC        time.Time `gorm:"column:created_utc"`
}

func (GenerationEntity) TableName() string {
	return "generation"
}

// MLModelEntity is a row of the ml_model table.
type MLModelEntity struct {
	ModelUUID  uuid.UUID `gorm:"column:model_uuid;primaryKey;type:uuid"`
	Name       string    `gorm:"column:name;index:idx_ml_model_name_version"`
	Version    string    `gorm:"column:version;index:idx_ml_model_name_version"`
	CreatedUTC time.Time `gorm:"column:created_utc"`
}

func (MLModelEntity) TableName() string {
	return "ml_model"
}

// ForecastEntity is one forecast run of a site.
type ForecastEntity struct {
	ForecastUUID    uuid.UUID `gorm:"column:forecast_uuid;primaryKey;type:uuid"`
	SiteUUID        uuid.UUID `gorm:"column:site_uuid;index;type:uuid"`
	TimestampUTC    time.Time `gorm:"column:timestamp_utc"`
	ForecastVersion string    `gorm:"column:forecast_version"`
	CreatedUTC      time.Time `gorm:"column:created_utc"`
}

func (ForecastEntity) TableName() string {
	return "forecasts"
}

// ForecastValueEntity is one interval of a site forecast run.
type ForecastValueEntity struct {
	ForecastValueUUID uuid.UUID `gorm:"column:forecast_value_uuid;primaryKey;type:uuid"`
	ForecastUUID      uuid.UUID `gorm:"column:forecast_uuid;index;type:uuid"`
	MLModelUUID       uuid.UUID `gorm:"column:ml_model_uuid;type:uuid"`
	StartUTC          time.Time `gorm:"column:start_utc"`
	EndUTC            time.Time `gorm:"column:end_utc"`
	ForecastPowerKW   float64   `gorm:"column:forecast_power_kw"`
	HorizonMinutes    float64   `gorm:"column:horizon_minutes"`
	CreatedUTC        time.Time `gorm:"column:created_utc"`
}

func (ForecastValueEntity) TableName() string {
	return "forecast_values"
}

// NationalForecastEntity is a forecast aggregate saved through the bulk store.
type NationalForecastEntity struct {
	ID                      uuid.UUID `gorm:"column:id;primaryKey;type:uuid"`
	LocationName            string    `gorm:"column:location_name"`
	ModelName               string    `gorm:"column:model_name"`
	ModelVersion            string    `gorm:"column:model_version"`
	ForecastCreationTime    time.Time `gorm:"column:forecast_creation_time"`
	InputDataLastUpdatedUTC time.Time `gorm:"column:input_data_last_updated_utc"`
	Historic                bool      `gorm:"column:historic"`
}

func (NationalForecastEntity) TableName() string {
	return "national_forecast"
}

// NationalForecastValueEntity is one target time of a NationalForecastEntity.
type NationalForecastValueEntity struct {
	ID                        uuid.UUID `gorm:"column:id;primaryKey;type:uuid"`
	ForecastID                uuid.UUID `gorm:"column:forecast_id;index;type:uuid"`
	TargetTime                time.Time `gorm:"column:target_time"`
	ExpectedPowerGenerationMW float64   `gorm:"column:expected_power_generation_megawatts"`
}

func (NationalForecastValueEntity) TableName() string {
	return "national_forecast_value"
}

// Entities lists every table owned by these stores, for test setup and external migration tooling.
func Entities() []interface{} {
	return []interface{}{
		&SiteEntity{},
		&GenerationEntity{},
		&MLModelEntity{},
		&ForecastEntity{},
		&ForecastValueEntity{},
		&NationalForecastEntity{},
		&NationalForecastValueEntity{},
	}
}
