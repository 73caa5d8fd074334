// Package app wires the solarsink command line application.
package app

import (
	"context"
	"os"
	"strings"

	"go.uber.org/fx"

	gormadapter "github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm"
	"github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm/mysql"
	"github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm/postgres"
	"github.com/tigerroll/solarsink/pkg/solar/adapter/database/gorm/sqlite"
	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage"
	"github.com/tigerroll/solarsink/pkg/solar/adapter/storage/local"
	"github.com/tigerroll/solarsink/pkg/solar/component/export"
	"github.com/tigerroll/solarsink/pkg/solar/component/reader"
	"github.com/tigerroll/solarsink/pkg/solar/core/config"
	"github.com/tigerroll/solarsink/pkg/solar/core/persister"
	inframetrics "github.com/tigerroll/solarsink/pkg/solar/infrastructure/metrics"
	sqlrepo "github.com/tigerroll/solarsink/pkg/solar/infrastructure/repository/sql"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/clock"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// DBProviderModules maps a database type to the Fx option contributing its provider.
var DBProviderModules = map[string]fx.Option{
	postgres.DBType: postgres.Module,
	mysql.DBType:    mysql.Module,
	sqlite.DBType:   sqlite.Module,
}

// DBProviderOptions selects providers from the comma separated SOLAR_DB_PROVIDERS variable.
// All providers are used when it is unset.
func DBProviderOptions() []fx.Option {
	names := os.Getenv("SOLAR_DB_PROVIDERS")
	if names == "" {
		names = strings.Join([]string{postgres.DBType, mysql.DBType, sqlite.DBType}, ",")
	}

	options := make([]fx.Option, 0)
	for _, name := range strings.Split(names, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if module, ok := DBProviderModules[name]; ok {
			options = append(options, module)
			logger.Debugf("DB Provider '%s' selected and registered.", name)
		} else {
			logger.Warnf("DB Provider '%s' is configured but not recognized/supported. Skipping.", name)
		}
	}
	return options
}

func newClock() clock.Clock {
	return clock.SystemClock{}
}

func newStore() *local.Store {
	return local.NewStore("")
}

func configureLogOutput(lc fx.Lifecycle, cfg *config.LoggingConfig) error {
	if cfg.Directory == "" {
		return nil
	}
	closer, err := logger.EnableFileOutput(cfg.Directory, cfg.MaxAgeDays)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.SetOutput(os.Stderr)
			return closer.Close()
		},
	})
	return nil
}

// Options returns every Fx option of the application except the database providers.
func Options(envFilePath string, embeddedConfig config.EmbeddedConfig, cmd Command) fx.Option {
	return fx.Options(
		fx.Supply(
			embeddedConfig,
			fx.Annotate(envFilePath, fx.ResultTags(`name:"envFilePath"`)),
			cmd,
		),
		logger.Module,
		config.Module,
		gormadapter.Module,
		sqlrepo.Module,
		inframetrics.Module,

		fx.Provide(newClock),
		fx.Provide(fx.Annotate(newStore, fx.As(new(storage.Store)))),
		fx.Provide(reader.NewCSVReader),
		export.Module,
		persister.Module,
		fx.Provide(NewRunner),

		fx.Invoke(configureLogOutput),
	)
}

// RunApplication builds the Fx application, runs cmd once and shuts down.
func RunApplication(ctx context.Context, envFilePath string, embeddedConfig config.EmbeddedConfig, cmd Command, dbProviderOptions []fx.Option) error {
	var runner *Runner
	app := fx.New(
		Options(envFilePath, embeddedConfig, cmd),
		fx.Options(dbProviderOptions...),
		fx.Populate(&runner),
	)
	if err := app.Err(); err != nil {
		return err
	}

	startCtx, cancelStart := context.WithTimeout(ctx, app.StartTimeout())
	defer cancelStart()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	runErr := runner.Run(ctx)

	stopCtx, cancelStop := context.WithTimeout(context.Background(), app.StopTimeout())
	defer cancelStop()
	if err := app.Stop(stopCtx); err != nil {
		logger.Warnf("Application stop failed: %v", err)
	}
	return runErr
}
