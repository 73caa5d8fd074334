// Package config holds the solarsink configuration tree and its loader.
package config

// EmbeddedConfig is the raw YAML embedded into the binary.
type EmbeddedConfig []byte

// LoggingConfig configures the package logger.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Directory  string `yaml:"directory"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// SystemConfig holds process-wide settings.
type SystemConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// PersistenceConfig selects the target database and the defaults used by the CLI.
type PersistenceConfig struct {
	// DBRef names the entry under solar.database used for persistence.
	DBRef string `yaml:"db_ref"`
	// ClientName is passed to site lookups; empty means the client site name itself.
	ClientName   string `yaml:"client_name"`
	Country      string `yaml:"country"`
	ModelTag     string `yaml:"model_tag"`
	ModelVersion string `yaml:"model_version"`
	// CSVDir is the export directory used when no database is reachable.
	CSVDir string `yaml:"csv_dir"`
	// ParquetExport also writes forecast_data.parquet next to the CSV.
	ParquetExport bool `yaml:"parquet_export"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

// TracingConfig configures OTLP trace export.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	Insecure    bool   `yaml:"insecure"`
	ServiceName string `yaml:"service_name"`
}

// SolarConfig is the content of the top-level "solar" key.
type SolarConfig struct {
	System      SystemConfig      `yaml:"system"`
	Persistence PersistenceConfig `yaml:"persistence"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Tracing     TracingConfig     `yaml:"tracing"`
	// AdapterConfigs holds raw database settings keyed by connection name.
	// They are decoded by the database providers.
	AdapterConfigs map[string]interface{} `yaml:"database"`
}

// Config is the root configuration object.
type Config struct {
	Solar SolarConfig `yaml:"solar"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Solar: SolarConfig{
			System: SystemConfig{
				Logging: LoggingConfig{Level: "INFO", MaxAgeDays: 7},
			},
			Persistence: PersistenceConfig{
				DBRef:        "default",
				Country:      "nl",
				ModelTag:     "nl-solar-forecast",
				ModelVersion: "0.0.0",
				CSVDir:       "data",
			},
			Metrics: MetricsConfig{Address: ":9090"},
			Tracing: TracingConfig{Endpoint: "localhost:4318", ServiceName: "solarsink"},
			AdapterConfigs: map[string]interface{}{},
		},
	}
}
