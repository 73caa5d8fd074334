// Package sqlite registers the SQLite dialector and provider.
package sqlite

import (
	"errors"

	"go.uber.org/fx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/database"
	dbconfig "github.com/tigerroll/solarsink/pkg/solar/adapter/database/config"
	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	"github.com/tigerroll/solarsink/pkg/solar/core/config"
)

// DBType is the configuration type handled by this package.
const DBType = "sqlite"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		if cfg.Database == "" {
			return nil, errors.New("SQLite database path cannot be empty")
		}
		return sqlite.Open(cfg.Database), nil
	})
}

// NewProvider creates the SQLite DBProvider.
func NewProvider(cfg *config.Config) database.DBProvider {
	return gormadapter.NewBaseProvider(cfg, DBType)
}

// Module exports the SQLite DBProvider into the db_providers group.
var Module = fx.Provide(fx.Annotate(
	NewProvider,
	fx.ResultTags(`group:"`+database.DBProviderGroup+`"`),
))
