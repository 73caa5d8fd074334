package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"

	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

const moduleName = "config"

var supportedCountries = map[string]struct{}{"nl": {}, "de": {}}

// ConfigParams defines the dependencies for NewConfigProvider.
type ConfigParams struct {
	fx.In
	EmbeddedConfig EmbeddedConfig
	EnvFilePath    string `name:"envFilePath" optional:"true"`
}

// LoadConfig builds the configuration in this order:
// defaults, embedded YAML (after ${VAR} expansion), .env file, then SOLAR_* environment overrides.
func LoadConfig(envFilePath string, embeddedConfig EmbeddedConfig) (*Config, error) {
	return loadConfig(envFilePath, embeddedConfig, NewOsEnvironmentExpander())
}

func loadConfig(envFilePath string, embeddedConfig EmbeddedConfig, expander EnvironmentExpander) (*Config, error) {
	if envFilePath != "" {
		if err := godotenv.Load(envFilePath); err != nil {
			logger.Warnf(".env file (%s) not found or could not be loaded: %v", envFilePath, err)
		}
	} else if err := godotenv.Load(); err != nil {
		logger.Debugf(".env file not found or could not be loaded: %v", err)
	}

	cfg := NewConfig()

	if len(embeddedConfig) > 0 {
		expanded, err := expander.Expand(embeddedConfig)
		if err != nil {
			return nil, exception.NewSolarError(moduleName, "failed to expand environment variables in config", err)
		}
		var yamlConfig Config
		if err := yaml.Unmarshal(expanded, &yamlConfig); err != nil {
			return nil, exception.NewSolarError(moduleName, "failed to unmarshal embedded config", err)
		}
		mergeConfig(cfg, &yamlConfig)
	}

	if err := loadStructFromEnv(reflect.ValueOf(cfg).Elem(), ""); err != nil {
		return nil, exception.NewSolarError(moduleName, "failed to load config from environment variables", err)
	}
	return cfg, nil
}

// NewConfigProvider is an Fx provider that loads, validates and applies *Config.
func NewConfigProvider(params ConfigParams) (*Config, error) {
	cfg, err := LoadConfig(params.EnvFilePath, params.EmbeddedConfig)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, exception.NewSolarError(moduleName, "invalid configuration", err)
	}

	logger.SetLogLevel(cfg.Solar.System.Logging.Level)
	logger.Debugf("Log level set to: %s", cfg.Solar.System.Logging.Level)
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error
	p := c.Solar.Persistence

	if p.DBRef == "" {
		result = multierror.Append(result, fmt.Errorf("solar.persistence.db_ref must not be empty"))
	} else if _, ok := c.Solar.AdapterConfigs[p.DBRef]; !ok {
		result = multierror.Append(result, fmt.Errorf("solar.persistence.db_ref '%s' has no entry under solar.database", p.DBRef))
	}
	if _, ok := supportedCountries[strings.ToLower(p.Country)]; !ok {
		result = multierror.Append(result, fmt.Errorf("solar.persistence.country '%s' is not one of nl, de", p.Country))
	}
	if c.Solar.Metrics.Enabled && c.Solar.Metrics.Address == "" {
		result = multierror.Append(result, fmt.Errorf("solar.metrics.address is required when metrics are enabled"))
	}
	if c.Solar.Tracing.Enabled && c.Solar.Tracing.Endpoint == "" {
		result = multierror.Append(result, fmt.Errorf("solar.tracing.endpoint is required when tracing is enabled"))
	}
	return result.ErrorOrNil()
}

// mergeConfig copies every non-zero value of source into dest.
func mergeConfig(dest, source *Config) {
	s, d := &source.Solar, &dest.Solar

	mergeString(&d.System.Logging.Level, s.System.Logging.Level)
	mergeString(&d.System.Logging.Directory, s.System.Logging.Directory)
	if s.System.Logging.MaxAgeDays != 0 {
		d.System.Logging.MaxAgeDays = s.System.Logging.MaxAgeDays
	}

	mergeString(&d.Persistence.DBRef, s.Persistence.DBRef)
	mergeString(&d.Persistence.ClientName, s.Persistence.ClientName)
	mergeString(&d.Persistence.Country, s.Persistence.Country)
	mergeString(&d.Persistence.ModelTag, s.Persistence.ModelTag)
	mergeString(&d.Persistence.ModelVersion, s.Persistence.ModelVersion)
	mergeString(&d.Persistence.CSVDir, s.Persistence.CSVDir)
	d.Persistence.ParquetExport = d.Persistence.ParquetExport || s.Persistence.ParquetExport

	d.Metrics.Enabled = d.Metrics.Enabled || s.Metrics.Enabled
	mergeString(&d.Metrics.Address, s.Metrics.Address)

	d.Tracing.Enabled = d.Tracing.Enabled || s.Tracing.Enabled
	d.Tracing.Insecure = d.Tracing.Insecure || s.Tracing.Insecure
	mergeString(&d.Tracing.Endpoint, s.Tracing.Endpoint)
	mergeString(&d.Tracing.ServiceName, s.Tracing.ServiceName)

	if s.AdapterConfigs != nil {
		if d.AdapterConfigs == nil {
			d.AdapterConfigs = make(map[string]interface{})
		}
		for key, value := range s.AdapterConfigs {
			d.AdapterConfigs[key] = value
		}
	}
}

func mergeString(dest *string, value string) {
	if value != "" {
		*dest = value
	}
}

// loadStructFromEnv recursively overrides struct fields from environment variables.
// Variable names are the upper-cased yaml tag path joined by "_", e.g. SOLAR_PERSISTENCE_COUNTRY.
func loadStructFromEnv(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)
		yamlTag := fieldType.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}
		envVarName := strings.ToUpper(prefix + yamlTag)

		switch field.Kind() {
		case reflect.Struct:
			if err := loadStructFromEnv(field, envVarName+"_"); err != nil {
				return err
			}
			continue
		case reflect.Map:
			// database settings are expanded from ${VAR} placeholders instead.
			continue
		}

		envValue, exists := os.LookupEnv(envVarName)
		if !exists {
			continue
		}
		if err := setField(field, envValue); err != nil {
			return fmt.Errorf("failed to set field '%s' from env var '%s': %w", fieldType.Name, envVarName, err)
		}
	}
	return nil
}

func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}
		field.SetInt(i)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("unsupported field kind %s", field.Kind())
	}
	return nil
}
