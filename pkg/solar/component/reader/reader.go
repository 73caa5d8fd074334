// Package reader loads generation and forecast tables from CSV objects.
//
// Timestamps without a zone are taken as UTC. Header names are matched exactly.
package reader

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// Input column names.
const (
	ColumnTargetTime        = "target_datetime_utc"
	ColumnSolarGenerationKW = "solar_generation_kw"
	ColumnCapacityKW        = "capacity_kw"
	ColumnTSOZone           = "tso_zone"
)

// Layouts tried in order; the zone-less ones are parsed in UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// CSVReader reads input tables through a storage.Store.
type CSVReader struct {
	store storage.Store
}

// NewCSVReader creates a CSVReader.
func NewCSVReader(store storage.Store) *CSVReader {
	return &CSVReader{store: store}
}

// ReadGeneration reads dir/name as a generation table.
// capacity_kw and tso_zone are optional; an empty capacity cell is treated as missing.
func (r *CSVReader) ReadGeneration(ctx context.Context, dir, name string) (*model.GenerationTable, error) {
	const op = "CSVReader.ReadGeneration"

	records, header, err := r.load(ctx, dir, name)
	if err != nil {
		return nil, exception.NewSolarError(op, fmt.Sprintf("failed to read '%s'", name), err)
	}
	timeIdx, kwIdx, err := requiredColumns(header)
	if err != nil {
		return nil, exception.NewInputError(op, name, err)
	}
	capIdx, hasCap := header[ColumnCapacityKW]
	zoneIdx, hasZone := header[ColumnTSOZone]

	table := &model.GenerationTable{Rows: make([]model.GenerationRow, 0, len(records))}
	for i, rec := range records {
		line := i + 2
		at, err := ParseTimestamp(rec[timeIdx])
		if err != nil {
			return nil, exception.NewInputError(op, rec[timeIdx], fmt.Errorf("line %d: %w", line, err))
		}
		kw, err := parseFloat(rec[kwIdx])
		if err != nil {
			return nil, exception.NewInputError(op, rec[kwIdx], fmt.Errorf("line %d: %w", line, err))
		}
		row := model.GenerationRow{TargetTime: at, SolarGenerationKW: kw}
		if hasCap && strings.TrimSpace(rec[capIdx]) != "" {
			c, err := parseFloat(rec[capIdx])
			if err != nil {
				return nil, exception.NewInputError(op, rec[capIdx], fmt.Errorf("line %d: %w", line, err))
			}
			row.CapacityKW = &c
		}
		if hasZone {
			row.TSOZone = strings.TrimSpace(rec[zoneIdx])
		}
		table.Rows = append(table.Rows, row)
	}
	logger.Debugf("%s: read %d rows from %s.", op, table.Len(), name)
	return table, nil
}

// ReadForecast reads dir/name as a forecast table. Columns other than the two required ones are ignored.
func (r *CSVReader) ReadForecast(ctx context.Context, dir, name string) (*model.ForecastTable, error) {
	const op = "CSVReader.ReadForecast"

	records, header, err := r.load(ctx, dir, name)
	if err != nil {
		return nil, exception.NewSolarError(op, fmt.Sprintf("failed to read '%s'", name), err)
	}
	timeIdx, kwIdx, err := requiredColumns(header)
	if err != nil {
		return nil, exception.NewInputError(op, name, err)
	}

	table := &model.ForecastTable{Rows: make([]model.ForecastRow, 0, len(records))}
	for i, rec := range records {
		at, err := ParseTimestamp(rec[timeIdx])
		if err != nil {
			return nil, exception.NewInputError(op, rec[timeIdx], fmt.Errorf("line %d: %w", i+2, err))
		}
		kw, err := parseFloat(rec[kwIdx])
		if err != nil {
			return nil, exception.NewInputError(op, rec[kwIdx], fmt.Errorf("line %d: %w", i+2, err))
		}
		table.Rows = append(table.Rows, model.ForecastRow{TargetTime: at, SolarGenerationKW: kw})
	}
	logger.Debugf("%s: read %d rows from %s.", op, table.Len(), name)
	return table, nil
}

// ReadFrame reads dir/name as an untyped frame.
func (r *CSVReader) ReadFrame(ctx context.Context, dir, name string) (*model.Frame, error) {
	rc, err := r.store.Download(ctx, dir, name)
	if err != nil {
		return nil, exception.NewSolarError("CSVReader.ReadFrame", fmt.Sprintf("failed to open '%s'", name), err)
	}
	defer rc.Close()

	all, err := csv.NewReader(rc).ReadAll()
	if err != nil {
		return nil, exception.NewSolarError("CSVReader.ReadFrame", fmt.Sprintf("failed to parse '%s'", name), err)
	}
	if len(all) == 0 {
		return &model.Frame{}, nil
	}
	return &model.Frame{Columns: all[0], Rows: all[1:]}, nil
}

func (r *CSVReader) load(ctx context.Context, dir, name string) ([][]string, map[string]int, error) {
	rc, err := r.store.Download(ctx, dir, name)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	cr := csv.NewReader(rc)
	first, err := cr.Read()
	if err == io.EOF {
		return nil, map[string]int{}, nil
	}
	if err != nil {
		return nil, nil, err
	}
	header := make(map[string]int, len(first))
	for i, h := range first {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	return records, header, nil
}

func requiredColumns(header map[string]int) (int, int, error) {
	timeIdx, ok := header[ColumnTargetTime]
	if !ok {
		return 0, 0, fmt.Errorf("missing column '%s'", ColumnTargetTime)
	}
	kwIdx, ok := header[ColumnSolarGenerationKW]
	if !ok {
		return 0, 0, fmt.Errorf("missing column '%s'", ColumnSolarGenerationKW)
	}
	return timeIdx, kwIdx, nil
}

// ParseTimestamp parses s as an instant; values without an offset are UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp '%s'", s)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
