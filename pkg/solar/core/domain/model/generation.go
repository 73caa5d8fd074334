package model

import (
	"time"

	"github.com/google/uuid"
)

// GenerationRow is one row of a generation input table.
type GenerationRow struct {
	TargetTime        time.Time
	SolarGenerationKW float64
	// CapacityKW is optional; nil when the input has no capacity column or the cell is empty.
	CapacityKW *float64
	// TSOZone tags the row with a German TSO (name or EIC code). Unused for NL.
	TSOZone string
}

// GenerationTable is an in-memory generation input.
type GenerationTable struct {
	Rows []GenerationRow
}

// Len returns the number of rows.
func (t *GenerationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// MaxCapacityKW returns the largest capacity over all rows and false when no row carries one.
func (t *GenerationTable) MaxCapacityKW() (float64, bool) {
	var (
		max   float64
		found bool
	)
	for _, r := range t.Rows {
		if r.CapacityKW == nil {
			continue
		}
		if !found || *r.CapacityKW > max {
			max = *r.CapacityKW
			found = true
		}
	}
	return max, found
}

// GenerationRecord is a generation row in storage shape.
type GenerationRecord struct {
	PowerKW  float64
	StartUTC time.Time
	SiteUUID uuid.UUID
}
