package test

import (
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
)

// NewSite returns a stored site fixture with a fresh location UUID.
func NewSite(name, country string, capacityKW float64) *model.Site {
	return &model.Site{
		LocationUUID:   uuid.New(),
		ClientSiteID:   1,
		ClientSiteName: name,
		Country:        country,
		CapacityKW:     capacityKW,
		CreatedUTC:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// GenerationRow builds a generation row; capacity is omitted when capacityKW is negative.
func GenerationRow(at time.Time, kw, capacityKW float64, tsoZone string) model.GenerationRow {
	row := model.GenerationRow{TargetTime: at, SolarGenerationKW: kw, TSOZone: tsoZone}
	if capacityKW >= 0 {
		c := capacityKW
		row.CapacityKW = &c
	}
	return row
}
