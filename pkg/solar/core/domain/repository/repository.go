// Package repository declares the stores the persister writes through.
// Every method takes the caller's tx.Session; stores never manage session lifetime.
package repository

import (
	"context"
	"errors"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/model"
	tx "github.com/tigerroll/solarsink/pkg/solar/core/tx"
)

// ErrSiteNotFound is returned by SiteDirectory.FindByClientSiteName when no site matches.
var ErrSiteNotFound = errors.New("site not found")

// SiteDirectory reads and creates site records.
type SiteDirectory interface {
	// FindByClientSiteName returns the site with the given client site name.
	// clientName is accepted for parity with the lookup API but sites are keyed by clientSiteName only.
	// Returns ErrSiteNotFound (possibly wrapped) when absent.
	FindByClientSiteName(ctx context.Context, s tx.Session, clientName, clientSiteName string) (*model.Site, error)
	// Create inserts a new site and returns it with its generated location UUID.
	Create(ctx context.Context, s tx.Session, params model.SiteCreateParams) (*model.Site, error)
}

// GenerationStore writes generation values.
type GenerationStore interface {
	// Insert writes rows into the session's current transaction. It does not commit.
	Insert(ctx context.Context, s tx.Session, rows []model.GenerationRecord) error
}

// ForecastStore writes a site forecast run and its values.
type ForecastStore interface {
	// Insert resolves the ML model by name and version (creating it when absent),
	// writes one forecast run described by meta plus its values, and commits.
	Insert(ctx context.Context, s tx.Session, rows []model.ForecastRecord, meta model.ForecastRunMeta, modelName, modelVersion string) error
}

// ForecastObjectStore saves complete forecast aggregates.
type ForecastObjectStore interface {
	// Save writes every forecast or none of them.
	Save(ctx context.Context, s tx.Session, forecasts []*model.Forecast) error
}
