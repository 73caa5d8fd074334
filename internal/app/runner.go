package app

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/database"
	"github.com/tigerroll/solarsink/pkg/solar/component/reader"
	"github.com/tigerroll/solarsink/pkg/solar/core/config"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	coremetrics "github.com/tigerroll/solarsink/pkg/solar/core/metrics"
	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
	"github.com/tigerroll/solarsink/pkg/solar/core/registry"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// errUnavailable marks failures to reach the configured database.
var errUnavailable = errors.New("database unavailable")

type dbStatsRegisterer interface {
	RegisterDBStats(db *sql.DB, name string) error
}

// RunnerParams are the dependencies of Runner.
type RunnerParams struct {
	fx.In

	Command   Command
	Cfg       *config.PersistenceConfig
	Resolver  database.DBConnectionResolver
	Persister *persister.SiteDataPersister
	Reader    *reader.CSVReader
	Clock     clock.Clock
	Recorder  coremetrics.MetricRecorder
}

// Runner executes one Command.
type Runner struct {
	cmd       Command
	cfg       *config.PersistenceConfig
	resolver  database.DBConnectionResolver
	persister *persister.SiteDataPersister
	reader    *reader.CSVReader
	clock     clock.Clock
	recorder  coremetrics.MetricRecorder
}

// NewRunner creates a Runner.
func NewRunner(p RunnerParams) *Runner {
	return &Runner{
		cmd:       p.Command,
		cfg:       p.Cfg,
		resolver:  p.Resolver,
		persister: p.Persister,
		reader:    p.Reader,
		clock:     p.Clock,
		recorder:  p.Recorder,
	}
}

// Run executes the command.
func (r *Runner) Run(ctx context.Context) error {
	switch r.cmd.Name {
	case CommandGeneration:
		return r.generation(ctx)
	case CommandForecast:
		return r.forecast(ctx)
	case CommandExport:
		return r.export(ctx)
	default:
		return exception.NewInputError("Runner", r.cmd.Name, ErrUsage)
	}
}

func (r *Runner) generation(ctx context.Context) error {
	table, err := r.reader.ReadGeneration(ctx, filepath.Dir(r.cmd.Input), filepath.Base(r.cmd.Input))
	if err != nil {
		return err
	}
	country := firstNonEmpty(r.cmd.Country, r.cfg.Country)
	return r.withSession(ctx, func(s tx.Session) error {
		return r.persister.PersistGeneration(ctx, s, table, country)
	})
}

func (r *Runner) forecast(ctx context.Context) error {
	table, err := r.reader.ReadForecast(ctx, filepath.Dir(r.cmd.Input), filepath.Base(r.cmd.Input))
	if err != nil {
		return err
	}
	country := firstNonEmpty(r.cmd.Country, r.cfg.Country)
	modelTag := firstNonEmpty(r.cmd.ModelTag, r.cfg.ModelTag)
	modelVersion := firstNonEmpty(r.cmd.ModelVersion, r.cfg.ModelVersion)
	exportDir := r.cmd.ExportDir
	now := r.clock.Now()

	err = r.withSession(ctx, func(s tx.Session) error {
		if err := r.persister.PersistForecastAt(ctx, s, table, country, modelTag, modelVersion, now); err != nil {
			return err
		}
		if !r.cmd.National || table.Len() == 0 {
			return nil
		}
		return r.persister.PersistForecastObjects(ctx, s, []*model.Forecast{
			NationalForecast(table, modelTag, modelVersion, now),
		})
	})
	if errors.Is(err, errUnavailable) {
		logger.Warnf("Could not save forecasts to the database (%v). Falling back to CSV in '%s'.", err, r.cfg.CSVDir)
		exportDir = r.cfg.CSVDir
	} else if err != nil {
		return err
	}
	if exportDir == "" {
		return nil
	}

	records := persister.BuildForecastRecords(table, persister.IssuanceTime(now))
	if err := r.persister.ExportForecastsToCSV(ctx, persister.ForecastFrame(records), exportDir); err != nil {
		return err
	}
	if r.cmd.Parquet || r.cfg.ParquetExport {
		return r.persister.ExportForecastsToParquet(ctx, records, exportDir)
	}
	return nil
}

func (r *Runner) export(ctx context.Context) error {
	frame, err := r.reader.ReadFrame(ctx, filepath.Dir(r.cmd.Input), filepath.Base(r.cmd.Input))
	if err != nil {
		return err
	}
	return r.persister.ExportForecastsToCSV(ctx, frame, firstNonEmpty(r.cmd.ExportDir, r.cfg.CSVDir))
}

// withSession opens a session on the configured connection, runs fn and closes the session.
// Connection failures are wrapped in errUnavailable.
func (r *Runner) withSession(ctx context.Context, fn func(s tx.Session) error) error {
	conn, err := r.resolver.ResolveDBConnection(ctx, r.cfg.DBRef)
	if err != nil {
		return errors.Join(errUnavailable, err)
	}
	r.registerDBStats(conn)

	s, err := conn.NewSession(ctx)
	if err != nil {
		return errors.Join(errUnavailable, err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Warnf("Failed to close session on '%s': %v", conn.Name(), err)
		}
	}()
	return fn(s)
}

func (r *Runner) registerDBStats(conn database.DBConnection) {
	reg, ok := r.recorder.(dbStatsRegisterer)
	if !ok {
		return
	}
	sqlDB, err := conn.GetSQLDB()
	if err != nil {
		logger.Debugf("No pool statistics for '%s': %v", conn.Name(), err)
		return
	}
	if err := reg.RegisterDBStats(sqlDB, conn.Name()); err != nil {
		logger.Debugf("Pool statistics for '%s' not registered: %v", conn.Name(), err)
	}
}

// NationalForecast converts a forecast table into a national forecast object, with power in MW.
func NationalForecast(table *model.ForecastTable, modelTag, modelVersion string, now time.Time) *model.Forecast {
	now = now.UTC()
	f := &model.Forecast{
		LocationName:            registry.NationalSiteName,
		ModelName:               modelTag,
		ModelVersion:            modelVersion,
		CreatedUTC:              now,
		InputDataLastUpdatedUTC: now,
		Values:                  make([]model.ForecastValue, 0, table.Len()),
	}
	for _, row := range table.Rows {
		f.Values = append(f.Values, model.ForecastValue{
			TargetTimeUTC:             row.TargetTime.UTC(),
			ExpectedPowerGenerationMW: row.SolarGenerationKW / 1000,
		})
	}
	return f
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
