// Package persister writes solar generation and forecast tables for the known NL/DE sites.
//
// Each operation resolves (or lazily creates) the target site, reshapes the input into
// storage records and hands them to a store. Sessions are owned by the caller.
package persister

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	"github.com/tigerroll/solarsink/pkg/solar/core/metrics"
	"github.com/tigerroll/solarsink/pkg/solar/core/registry"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

const (
	// ForecastCSVFile is the file name written by ExportForecastsToCSV.
	ForecastCSVFile = "forecast_data.csv"
	// ForecastParquetFile is the file name written by ExportForecastsToParquet.
	ForecastParquetFile = "forecast_data.parquet"
	// BookkeepingColumn is an ORM state column some upstream tables carry; it is never exported.
	BookkeepingColumn = "_sa_instance_state"

	newSiteClientSiteID = 1
)

// FrameWriter writes a table to a named file in a directory and returns the written path.
type FrameWriter interface {
	WriteFrame(ctx context.Context, frame *model.Frame, dir, name string) (string, error)
}

// RecordWriter writes forecast records to a named file in a directory and returns the written path.
type RecordWriter interface {
	WriteForecastRecords(ctx context.Context, records []model.ForecastRecord, dir, name string) (string, error)
}

// Params are the dependencies of SiteDataPersister.
// Clock, Recorder and Tracer default to the system clock and no-op instrumentation.
type Params struct {
	fx.In

	Sites      repository.SiteDirectory
	Generation repository.GenerationStore
	Forecasts  repository.ForecastStore
	Objects    repository.ForecastObjectStore
	Registry   *registry.Registry
	ClientName string `name:"clientName" optional:"true"`

	CSV     FrameWriter  `optional:"true"`
	Parquet RecordWriter `optional:"true"`

	Clock    clock.Clock            `optional:"true"`
	Recorder metrics.MetricRecorder `optional:"true"`
	Tracer   metrics.Tracer         `optional:"true"`
}

// SiteDataPersister persists generation and forecast data for the registry's sites.
type SiteDataPersister struct {
	sites      repository.SiteDirectory
	generation repository.GenerationStore
	forecasts  repository.ForecastStore
	objects    repository.ForecastObjectStore
	registry   *registry.Registry
	clientName string
	csv        FrameWriter
	parquet    RecordWriter
	clock      clock.Clock
	recorder   metrics.MetricRecorder
	tracer     metrics.Tracer
}

// New creates a SiteDataPersister.
func New(p Params) *SiteDataPersister {
	sp := &SiteDataPersister{
		sites:      p.Sites,
		generation: p.Generation,
		forecasts:  p.Forecasts,
		objects:    p.Objects,
		registry:   p.Registry,
		clientName: p.ClientName,
		csv:        p.CSV,
		parquet:    p.Parquet,
		clock:      p.Clock,
		recorder:   p.Recorder,
		tracer:     p.Tracer,
	}
	if sp.registry == nil {
		sp.registry = registry.Default()
	}
	if sp.clock == nil {
		sp.clock = clock.SystemClock{}
	}
	if sp.recorder == nil {
		sp.recorder = metrics.NewNoOpMetricRecorder()
	}
	if sp.tracer == nil {
		sp.tracer = metrics.NewNoOpTracer()
	}
	return sp
}

// ResolveOrCreateSite returns the stored site for desc, creating it when the directory reports it missing.
// A new site gets capacityOverride when set, otherwise the registry capacity for country.
// Lookup failures other than repository.ErrSiteNotFound are returned as is.
// The lookup client name is the configured client, or the site name itself when none is set.
func (p *SiteDataPersister) ResolveOrCreateSite(ctx context.Context, s tx.Session, desc model.SiteDescriptor, country string, capacityOverride *float64) (*model.Site, error) {
	clientName := p.clientName
	if clientName == "" {
		clientName = desc.ClientSiteName
	}
	site, err := p.sites.FindByClientSiteName(ctx, s, clientName, desc.ClientSiteName)
	if err == nil {
		return site, nil
	}
	if !errors.Is(err, repository.ErrSiteNotFound) {
		return nil, err
	}

	logger.Infof("Creating site %s in the database.", desc.ClientSiteName)
	capacity := p.registry.CapacityKW(country, desc.ClientSiteName)
	if capacityOverride != nil {
		capacity = *capacityOverride
	}

	site, err = p.sites.Create(ctx, s, model.SiteCreateParams{
		ClientSiteID:   newSiteClientSiteID,
		ClientSiteName: desc.ClientSiteName,
		Country:        country,
		Latitude:       desc.Latitude,
		Longitude:      desc.Longitude,
		CapacityKW:     capacity,
	})
	if err != nil {
		return nil, err
	}
	p.recorder.RecordSiteCreated(ctx, country, desc.ClientSiteName)
	return site, nil
}

type generationBucket struct {
	site model.SiteDescriptor
	rows []model.GenerationRow
}

// PersistGeneration saves generation rows for country "nl" (national site) or "de" (one site per TSO zone).
// Every non-empty site bucket is committed on its own; a failure leaves earlier buckets committed.
func (p *SiteDataPersister) PersistGeneration(ctx context.Context, s tx.Session, table *model.GenerationTable, country string) (err error) {
	const op = "SiteDataPersister.PersistGeneration"
	ctx, end := p.tracer.StartSpan(ctx, op, map[string]interface{}{"country": country, "rows": table.Len()})
	defer end()
	defer p.observe(ctx, op, time.Now(), &err)

	if table.Len() == 0 {
		logger.Warnf("No generation data provided to save!")
		return nil
	}

	buckets, err := p.generationBuckets(table, country)
	if err != nil {
		return err
	}

	// one override for the whole call, shared by every site
	var override *float64
	if max, ok := table.MaxCapacityKW(); ok {
		v := math.Trunc(max)
		override = &v
	}

	for _, b := range buckets {
		if len(b.rows) == 0 {
			logger.Debugf("No rows for TSO '%s', skipping", b.site.ClientSiteName)
			continue
		}

		site, err := p.ResolveOrCreateSite(ctx, s, b.site, country, override)
		if err != nil {
			return p.fail(ctx, op, err)
		}

		records := make([]model.GenerationRecord, len(b.rows))
		for i, r := range b.rows {
			records[i] = model.GenerationRecord{
				PowerKW:  r.SolarGenerationKW,
				StartUTC: r.TargetTime.UTC(),
				SiteUUID: site.LocationUUID,
			}
		}

		if err := p.generation.Insert(ctx, s, records); err != nil {
			return p.fail(ctx, op, err)
		}
		if err := s.Commit(); err != nil {
			return p.fail(ctx, op, err)
		}
		p.recorder.RecordRowsPersisted(ctx, metrics.KindGeneration, site.ClientSiteName, len(records))
		logger.Infof("Successfully saved %d rows", len(records))
	}
	return nil
}

func (p *SiteDataPersister) generationBuckets(table *model.GenerationTable, country string) ([]generationBucket, error) {
	switch country {
	case registry.CountryNL:
		return []generationBucket{{site: p.registry.National(), rows: table.Rows}}, nil
	case registry.CountryDE:
		tsos := p.registry.TSOs()
		buckets := make([]generationBucket, len(tsos))
		index := make(map[string]int, len(tsos))
		for i, t := range tsos {
			buckets[i].site = t.Site
			index[t.Site.ClientSiteName] = i
		}
		dropped := 0
		for _, r := range table.Rows {
			t, ok := p.registry.MatchTSO(r.TSOZone)
			if !ok {
				dropped++
				continue
			}
			i := index[t.Site.ClientSiteName]
			buckets[i].rows = append(buckets[i].rows, r)
		}
		if dropped > 0 {
			logger.Debugf("Dropped %d generation rows with unknown TSO zone", dropped)
		}
		return buckets, nil
	default:
		return nil, exception.NewInputError("SiteDataPersister.PersistGeneration", country,
			fmt.Errorf("%w: generation data supports 'nl' and 'de'", exception.ErrUnsupportedCountry))
	}
}

// PersistForecast saves a forecast run for the NL national site, issued now.
// The store commits; this method does not.
func (p *SiteDataPersister) PersistForecast(ctx context.Context, s tx.Session, table *model.ForecastTable, country, modelTag, modelVersion string) error {
	return p.PersistForecastAt(ctx, s, table, country, modelTag, modelVersion, p.clock.Now())
}

// PersistForecastAt is PersistForecast with the run issued at now floored to 15 minutes.
// Callers exporting the same run pass the instant they build their records from.
func (p *SiteDataPersister) PersistForecastAt(ctx context.Context, s tx.Session, table *model.ForecastTable, country, modelTag, modelVersion string, now time.Time) (err error) {
	const op = "SiteDataPersister.PersistForecast"
	ctx, end := p.tracer.StartSpan(ctx, op, map[string]interface{}{"country": country, "rows": table.Len(), "model": modelTag})
	defer end()
	defer p.observe(ctx, op, time.Now(), &err)

	if table.Len() == 0 {
		logger.Warnf("No forecast data provided to save!")
		return nil
	}
	if country != registry.CountryNL {
		return exception.NewInputError(op, country,
			fmt.Errorf("%w: only NL forecast data is supported", exception.ErrUnsupportedCountry))
	}

	site, err := p.ResolveOrCreateSite(ctx, s, p.registry.National(), country, nil)
	if err != nil {
		return p.fail(ctx, op, err)
	}

	issuance := IssuanceTime(now)
	records := BuildForecastRecords(table, issuance)
	meta := model.ForecastRunMeta{
		SiteUUID:        site.LocationUUID,
		TimestampUTC:    issuance,
		ForecastVersion: modelVersion,
	}

	if err := p.forecasts.Insert(ctx, s, records, meta, modelTag, modelVersion); err != nil {
		return p.fail(ctx, op, err)
	}
	p.recorder.RecordRowsPersisted(ctx, metrics.KindForecast, site.ClientSiteName, len(records))
	logger.Infof("Successfully saved %d forecast values issued at %s", len(records), issuance.Format(time.RFC3339))
	return nil
}

// PersistForecastObjects hands complete forecasts to the bulk store.
func (p *SiteDataPersister) PersistForecastObjects(ctx context.Context, s tx.Session, forecasts []*model.Forecast) (err error) {
	const op = "SiteDataPersister.PersistForecastObjects"
	ctx, end := p.tracer.StartSpan(ctx, op, map[string]interface{}{"forecasts": len(forecasts)})
	defer end()
	defer p.observe(ctx, op, time.Now(), &err)

	if len(forecasts) == 0 {
		logger.Warnf("No forecasts provided to save!")
		return nil
	}

	logger.Infof("Saving forecasts to the database.")
	if err := p.objects.Save(ctx, s, forecasts); err != nil {
		logger.Errorf("An error occurred while saving forecasts: %v", err)
		p.tracer.RecordError(ctx, op, err)
		return err
	}
	p.recorder.RecordRowsPersisted(ctx, metrics.KindForecastObject, "", len(forecasts))
	logger.Infof("Successfully saved %d forecasts to the database.", len(forecasts))
	return nil
}

// ExportForecastsToCSV writes frame to dir/forecast_data.csv, replacing any existing file.
// The bookkeeping column is dropped when present.
func (p *SiteDataPersister) ExportForecastsToCSV(ctx context.Context, frame *model.Frame, dir string) (err error) {
	const op = "SiteDataPersister.ExportForecastsToCSV"
	ctx, end := p.tracer.StartSpan(ctx, op, map[string]interface{}{"rows": frame.Len(), "dir": dir})
	defer end()
	defer p.observe(ctx, op, time.Now(), &err)

	if frame.Len() == 0 {
		logger.Warnf("No forecasts provided to save!")
		return nil
	}
	if dir == "" {
		return exception.NewInputError(op, "", exception.ErrMissingDirectory)
	}
	if p.csv == nil {
		return exception.NewSolarError(op, "csv export is not configured", nil)
	}

	out := frame.DropColumn(BookkeepingColumn)
	logger.Infof("Saving forecasts to CSV in %s", dir)
	path, err := p.csv.WriteFrame(ctx, out, dir, ForecastCSVFile)
	if err != nil {
		logger.Errorf("An error occurred while saving forecasts to CSV: %v", err)
		p.tracer.RecordError(ctx, op, err)
		return err
	}
	p.recorder.RecordExport(ctx, "csv", out.Len())
	logger.Infof("Successfully saved %d forecasts to CSV at %s.", out.Len(), path)
	return nil
}

// ExportForecastsToParquet writes records to dir/forecast_data.parquet, replacing any existing file.
func (p *SiteDataPersister) ExportForecastsToParquet(ctx context.Context, records []model.ForecastRecord, dir string) (err error) {
	const op = "SiteDataPersister.ExportForecastsToParquet"
	ctx, end := p.tracer.StartSpan(ctx, op, map[string]interface{}{"rows": len(records), "dir": dir})
	defer end()
	defer p.observe(ctx, op, time.Now(), &err)

	if len(records) == 0 {
		logger.Warnf("No forecasts provided to save!")
		return nil
	}
	if dir == "" {
		return exception.NewInputError(op, "", exception.ErrMissingDirectory)
	}
	if p.parquet == nil {
		return exception.NewSolarError(op, "parquet export is not configured", nil)
	}

	path, err := p.parquet.WriteForecastRecords(ctx, records, dir, ForecastParquetFile)
	if err != nil {
		logger.Errorf("An error occurred while saving forecasts to Parquet: %v", err)
		p.tracer.RecordError(ctx, op, err)
		return err
	}
	p.recorder.RecordExport(ctx, "parquet", len(records))
	logger.Infof("Successfully saved %d forecasts to Parquet at %s.", len(records), path)
	return nil
}

func (p *SiteDataPersister) fail(ctx context.Context, op string, err error) error {
	logger.Errorf("%s failed: %v", op, err)
	p.tracer.RecordError(ctx, op, err)
	return err
}

func (p *SiteDataPersister) observe(ctx context.Context, op string, start time.Time, err *error) {
	p.recorder.RecordDuration(ctx, op, time.Since(start), *err)
}
