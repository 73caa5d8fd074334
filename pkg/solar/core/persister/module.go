package persister

import (
	"go.uber.org/fx"

	"github.com/tigerroll/solarsink/pkg/solar/core/registry"
)

// Module provides the registry and the SiteDataPersister.
var Module = fx.Options(
	fx.Provide(registry.Default),
	fx.Provide(New),
)
