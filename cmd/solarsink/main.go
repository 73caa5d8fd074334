package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "embed"

	"github.com/tigerroll/solarsink/internal/app"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/exception"
	"github.com/tigerroll/solarsink/pkg/solar/support/util/logger"
)

// embeddedConfig embeds the content of the application's YAML configuration file.
//
//go:embed resources/application.yaml
var embeddedConfig []byte

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const usage = `usage: solarsink <command> [flags]

commands:
  generation -input FILE [-country nl|de]
  forecast   -input FILE [-country nl] [-model TAG] [-version V] [-national] [-export-dir DIR] [-parquet]
  export     -input FILE [-dir DIR]
  version
`

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && args[0] == "version" {
		fmt.Println(version)
		return 0
	}

	cmd, err := app.ParseCommand(args, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprint(os.Stderr, usage)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Get the path to the .env file from environment variables. Use ".env" as default if not set.
	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath == "" {
		envFilePath = ".env"
	}

	if err := app.RunApplication(ctx, envFilePath, embeddedConfig, cmd, app.DBProviderOptions()); err != nil {
		logger.Errorf("solarsink %s failed: %s", cmd.Name, exception.ExtractErrorMessage(err))
		if errors.Is(err, context.Canceled) {
			return 130
		}
		return 1
	}
	return 0
}
