package config

import "go.uber.org/fx"

// NewLoggingConfigProvider exposes only the logging part of *Config.
func NewLoggingConfigProvider(cfg *Config) *LoggingConfig {
	return &cfg.Solar.System.Logging
}

// NewPersistenceConfigProvider exposes only the persistence part of *Config.
func NewPersistenceConfigProvider(cfg *Config) *PersistenceConfig {
	return &cfg.Solar.Persistence
}

// NewClientNameProvider exposes the client name used for site lookups.
func NewClientNameProvider(cfg *PersistenceConfig) string {
	return cfg.ClientName
}

// Module provides *Config and its sub-sections to Fx.
var Module = fx.Options(
	fx.Provide(NewConfigProvider),
	fx.Provide(NewLoggingConfigProvider),
	fx.Provide(NewPersistenceConfigProvider),
	fx.Provide(fx.Annotate(NewClientNameProvider, fx.ResultTags(`name:"clientName"`))),
)
