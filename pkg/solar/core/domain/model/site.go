package model

import (
	"time"

	"github.com/google/uuid"
)

// Site is a persisted site record.
type Site struct {
	LocationUUID   uuid.UUID
	ClientSiteID   int
	ClientSiteName string
	Country        string
	Latitude       float64
	Longitude      float64
	CapacityKW     float64
	// DNO and GSP are UK specific and always empty for NL/DE sites.
	DNO        string
	GSP        string
	CreatedUTC time.Time
}

// SiteDescriptor names a known site and where it is.
type SiteDescriptor struct {
	ClientSiteName string
	Latitude       float64
	Longitude      float64
}

// SiteCreateParams is everything needed to insert a new site.
type SiteCreateParams struct {
	ClientSiteID   int
	ClientSiteName string
	Country        string
	Latitude       float64
	Longitude      float64
	CapacityKW     float64
	DNO            string
	GSP            string
}
