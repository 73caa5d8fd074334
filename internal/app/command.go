package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
)

// Subcommands.
const (
	CommandGeneration = "generation"
	CommandForecast   = "forecast"
	CommandExport     = "export"
)

// ErrUsage is returned when the command line cannot be parsed.
var ErrUsage = errors.New("usage error")

// Command is a parsed solarsink invocation. Empty fields fall back to solar.persistence settings.
type Command struct {
	Name    string
	Input   string
	Country string

	ModelTag     string
	ModelVersion string
	// National also stores the forecast as a national forecast object.
	National bool

	// ExportDir receives forecast_data.csv (and .parquet) after a forecast run, or is the export target.
	ExportDir string
	Parquet   bool
}

// ParseCommand parses args (without the program name). Flag errors are written to output.
func ParseCommand(args []string, output io.Writer) (Command, error) {
	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: missing subcommand", ErrUsage)
	}

	cmd := Command{Name: args[0]}
	fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cmd.Input, "input", "", "input CSV file")

	switch cmd.Name {
	case CommandGeneration:
		fs.StringVar(&cmd.Country, "country", "", "country code (nl or de)")
	case CommandForecast:
		fs.StringVar(&cmd.Country, "country", "", "country code (only nl)")
		fs.StringVar(&cmd.ModelTag, "model", "", "model tag")
		fs.StringVar(&cmd.ModelVersion, "version", "", "model version")
		fs.BoolVar(&cmd.National, "national", false, "also save a national forecast object")
		fs.StringVar(&cmd.ExportDir, "export-dir", "", "also export the forecast to this directory")
		fs.BoolVar(&cmd.Parquet, "parquet", false, "write forecast_data.parquet next to the CSV export")
	case CommandExport:
		fs.StringVar(&cmd.ExportDir, "dir", "", "target directory")
	default:
		return Command{}, fmt.Errorf("%w: unknown subcommand '%s'", ErrUsage, cmd.Name)
	}

	if err := fs.Parse(args[1:]); err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	if cmd.Input == "" {
		return Command{}, fmt.Errorf("%w: -input is required", ErrUsage)
	}
	return cmd, nil
}
