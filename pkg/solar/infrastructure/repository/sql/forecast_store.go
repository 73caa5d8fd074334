package sql

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// SQLForecastStore implements repository.ForecastStore on the forecasts, forecast_values and ml_model tables.
type SQLForecastStore struct {
	clock clock.Clock
}

// NewSQLForecastStore creates a new SQLForecastStore.
func NewSQLForecastStore(c clock.Clock) *SQLForecastStore {
	return &SQLForecastStore{clock: c}
}

var _ repository.ForecastStore = (*SQLForecastStore)(nil)

// Insert writes one forecast run and its values, then commits.
// On failure the session is rolled back so no partial run is left behind.
func (f *SQLForecastStore) Insert(ctx context.Context, s tx.Session, rows []model.ForecastRecord, meta model.ForecastRunMeta, modelName, modelVersion string) error {
	const op = "SQLForecastStore.Insert"

	if err := f.write(ctx, s, rows, meta, modelName, modelVersion, f.clock.Now()); err != nil {
		if rbErr := s.Rollback(); rbErr != nil {
			logger.Errorf("%s: rollback after failure also failed: %v", op, rbErr)
		}
		return err
	}
	if err := s.Commit(); err != nil {
		return exception.NewSolarError(op, "failed to commit forecast run", err)
	}
	logger.Debugf("%s: saved %d values for site %s (model %s %s).", op, len(rows), meta.SiteUUID, modelName, modelVersion)
	return nil
}

func (f *SQLForecastStore) write(ctx context.Context, s tx.Session, rows []model.ForecastRecord, meta model.ForecastRunMeta, modelName, modelVersion string, now time.Time) error {
	const op = "SQLForecastStore.Insert"

	modelUUID, err := f.getOrCreateModel(ctx, s, modelName, modelVersion, now)
	if err != nil {
		return err
	}

	run := &ForecastEntity{
		ForecastUUID:    uuid.New(),
		SiteUUID:        meta.SiteUUID,
		TimestampUTC:    meta.TimestampUTC.UTC(),
		ForecastVersion: meta.ForecastVersion,
		CreatedUTC:      now.UTC(),
	}
	if _, err := s.ExecuteUpdate(ctx, run, tx.OpCreate, run.TableName(), nil); err != nil {
		return exception.NewSolarError(op, fmt.Sprintf("failed to insert forecast run for site %s", meta.SiteUUID), err)
	}

	if len(rows) == 0 {
		return nil
	}
	values := newForecastValueEntities(rows, run.ForecastUUID, modelUUID, now)
	if _, err := s.ExecuteUpdate(ctx, &values, tx.OpCreate, ForecastValueEntity{}.TableName(), nil); err != nil {
		return exception.NewSolarError(op, fmt.Sprintf("failed to insert %d forecast values", len(values)), err)
	}
	return nil
}

// getOrCreateModel returns the ml_model row for (name, version), inserting it when absent.
func (f *SQLForecastStore) getOrCreateModel(ctx context.Context, s tx.Session, name, version string, now time.Time) (uuid.UUID, error) {
	const op = "SQLForecastStore.getOrCreateModel"

	var found []MLModelEntity
	query := map[string]interface{}{"name": name, "version": version}
	if err := s.ExecuteQuery(ctx, &found, query, "created_utc", 1); err != nil {
		return uuid.Nil, exception.NewSolarError(op, fmt.Sprintf("failed to look up ml model '%s' version '%s'", name, version), err)
	}
	if len(found) > 0 {
		return found[0].ModelUUID, nil
	}

	created := &MLModelEntity{ModelUUID: uuid.New(), Name: name, Version: version, CreatedUTC: now.UTC()}
	if _, err := s.ExecuteUpdate(ctx, created, tx.OpCreate, created.TableName(), nil); err != nil {
		return uuid.Nil, exception.NewSolarError(op, fmt.Sprintf("failed to create ml model '%s' version '%s'", name, version), err)
	}
	logger.Infof("Created ml model '%s' version '%s'.", name, version)
	return created.ModelUUID, nil
}
