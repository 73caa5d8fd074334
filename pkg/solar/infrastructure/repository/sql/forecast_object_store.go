package sql

import (
	"context"
	"fmt"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// SQLForecastObjectStore implements repository.ForecastObjectStore on the national_forecast tables.
type SQLForecastObjectStore struct{}

// NewSQLForecastObjectStore creates a new SQLForecastObjectStore.
func NewSQLForecastObjectStore() *SQLForecastObjectStore {
	return &SQLForecastObjectStore{}
}

var _ repository.ForecastObjectStore = (*SQLForecastObjectStore)(nil)

// Save writes all forecasts in the session's current transaction and commits once.
// Any failure rolls the whole batch back.
func (o *SQLForecastObjectStore) Save(ctx context.Context, s tx.Session, forecasts []*model.Forecast) error {
	const op = "SQLForecastObjectStore.Save"

	for i, f := range forecasts {
		if f == nil {
			return o.abort(s, exception.NewSolarError(op, fmt.Sprintf("forecast at index %d is nil", i), nil))
		}
		head, values := newNationalForecastEntities(f)
		if _, err := s.ExecuteUpdate(ctx, head, tx.OpCreate, head.TableName(), nil); err != nil {
			return o.abort(s, exception.NewSolarError(op, fmt.Sprintf("failed to insert forecast for '%s'", f.LocationName), err))
		}
		if len(values) == 0 {
			continue
		}
		if _, err := s.ExecuteUpdate(ctx, &values, tx.OpCreate, NationalForecastValueEntity{}.TableName(), nil); err != nil {
			return o.abort(s, exception.NewSolarError(op, fmt.Sprintf("failed to insert %d values for '%s'", len(values), f.LocationName), err))
		}
	}

	if err := s.Commit(); err != nil {
		return exception.NewSolarError(op, "failed to commit forecasts", err)
	}
	return nil
}

func (o *SQLForecastObjectStore) abort(s tx.Session, err error) error {
	if rbErr := s.Rollback(); rbErr != nil {
		logger.Errorf("SQLForecastObjectStore: rollback failed: %v", rbErr)
	}
	return err
}
