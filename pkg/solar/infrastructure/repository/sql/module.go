package sql

import (
	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/core/domain/repository"
)

// Module provides the SQL stores behind the repository interfaces.
var Module = fx.Options(
	fx.Provide(fx.Annotate(NewSQLSiteDirectory, fx.As(new(repository.SiteDirectory)))),
	fx.Provide(fx.Annotate(NewSQLGenerationStore, fx.As(new(repository.GenerationStore)))),
	fx.Provide(fx.Annotate(NewSQLForecastStore, fx.As(new(repository.ForecastStore)))),
	fx.Provide(fx.Annotate(NewSQLForecastObjectStore, fx.As(new(repository.ForecastObjectStore)))),
)
