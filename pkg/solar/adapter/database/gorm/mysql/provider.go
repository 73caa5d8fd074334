// Package mysql registers the MySQL dialector and provider.
package mysql

import (
	"fmt"

	"go.uber.org/fx"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/database"
	dbconfig "github.com/tigerroll/solarsink/pkg/solar/adapter/database/config"
	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	"github.com/tigerroll/solarsink/pkg/solar/core/config"
)

// DBType is the configuration type handled by this package.
const DBType = "mysql"

func init() {
	gormadapter.RegisterDialector(DBType, func(cfg dbconfig.DatabaseConfig) (gorm.Dialector, error) {
		return mysql.Open(ConnectionString(cfg)), nil
	})
}

// ConnectionString builds a go-sql-driver DSN. parseTime and UTC location keep timestamps as UTC instants.
func ConnectionString(c dbconfig.DatabaseConfig) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.User, c.Password, c.Host, c.Port, c.Database)
}

// NewProvider creates the MySQL DBProvider.
func NewProvider(cfg *config.Config) database.DBProvider {
	return gormadapter.NewBaseProvider(cfg, DBType)
}

// Module exports the MySQL DBProvider into the db_providers group.
var Module = fx.Provide(fx.Annotate(
	NewProvider,
	fx.ResultTags(`group:"`+database.DBProviderGroup+`"`),
))
