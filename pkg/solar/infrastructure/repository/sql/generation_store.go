package sql

import (
	"context"
	"fmt"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
)

// SQLGenerationStore implements repository.GenerationStore on the generation table.
type SQLGenerationStore struct {
	clock clock.Clock
}

// NewSQLGenerationStore creates a new SQLGenerationStore.
func NewSQLGenerationStore(c clock.Clock) *SQLGenerationStore {
	return &SQLGenerationStore{clock: c}
}

var _ repository.GenerationStore = (*SQLGenerationStore)(nil)

func (g *SQLGenerationStore) Insert(ctx context.Context, s tx.Session, rows []model.GenerationRecord) error {
	if len(rows) == 0 {
		return nil
	}
	entities := newGenerationEntities(rows, g.clock.Now())
	if _, err := s.ExecuteUpdate(ctx, &entities, tx.OpCreate, GenerationEntity{}.TableName(), nil); err != nil {
		return exception.NewSolarError("SQLGenerationStore.Insert", fmt.Sprintf("failed to insert %d generation rows", len(rows)), err)
	}
	return nil
}
