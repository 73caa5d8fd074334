package gorm

import (
	"context"

	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/adapter/database"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

type closeParams struct {
	fx.In
	Lifecycle   fx.Lifecycle
	DBProviders []database.DBProvider `group:"db_providers"`
}

func registerCloseHook(p closeParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			for _, provider := range p.DBProviders {
				if err := provider.CloseAll(); err != nil {
					logger.Errorf("Failed to close %s connections: %v", provider.Type(), err)
				}
			}
			return nil
		},
	})
}

// Module provides the connection resolver and closes all provider connections on stop.
// Driver modules (postgres, mysql, sqlite) contribute the providers.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewGormDBConnectionResolver,
		fx.As(new(database.DBConnectionResolver)),
	)),
	fx.Invoke(registerCloseHook),
)
