// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/ubusgw/internal/config"
	"github.com/ManuGH/ubusgw/internal/version"
)

const defaultConfigFile = "ubusgw.yaml"

func runConfigCLI(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printConfigUsage(stderr)
		return 0
	}

	switch args[0] {
	case "init":
		return runConfigInit(args[1:], stdout, stderr)
	case "validate":
		return runConfigValidate(args[1:], stdout, stderr)
	case "dump":
		return runConfigDump(args[1:], stdout, stderr)
	default:
		fmt.Fprintf(stderr, "Unknown subcommand: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  ubusgw config init [--out ubusgw.yaml] [--force]")
	fmt.Fprintln(w, "  ubusgw config validate --config ubusgw.yaml")
	fmt.Fprintln(w, "  ubusgw config dump [--config ubusgw.yaml]")
}

func runConfigInit(args []string, stdout, stderr io.Writer) int {
	fset := pflag.NewFlagSet("ubusgw config init", pflag.ContinueOnError)
	fset.SetOutput(stderr)

	out := fset.StringP("out", "o", defaultConfigFile, "file to write")
	force := fset.Bool("force", false, "overwrite an existing file")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	path := strings.TrimSpace(*out)
	if path == "" {
		fmt.Fprintln(stderr, "Error: --out must not be empty")
		return 2
	}
	if !*force {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(stderr, "Error: %s already exists (use --force to overwrite)\n", path)
			return 1
		} else if !errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
	}

	if err := renameio.WriteFile(path, []byte(config.DefaultYAML), 0o600); err != nil {
		fmt.Fprintf(stderr, "Failed to write %s: %v\n", path, err)
		return 1
	}
	fmt.Fprintf(stdout, "wrote %s\n", path)
	return 0
}

func runConfigValidate(args []string, stdout, stderr io.Writer) int {
	fset := pflag.NewFlagSet("ubusgw config validate", pflag.ContinueOnError)
	fset.SetOutput(stderr)

	file := fset.StringP("config", "c", "", "path to YAML configuration file")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	path := strings.TrimSpace(*file)
	if path == "" {
		fmt.Fprintln(stderr, "Error: --config is required")
		return 2
	}

	if _, err := config.NewLoader(path, version.Version).Load(); err != nil {
		fmt.Fprintf(stderr, "Configuration error in %s:\n  %v\n", path, err)
		return 1
	}

	fmt.Fprintf(stdout, "%s is valid\n", path)
	return 0
}

// runConfigDump prints the effective configuration (defaults, file and
// environment merged) in the file format.
func runConfigDump(args []string, stdout, stderr io.Writer) int {
	fset := pflag.NewFlagSet("ubusgw config dump", pflag.ContinueOnError)
	fset.SetOutput(stderr)

	file := fset.StringP("config", "c", "", "path to YAML configuration file")
	if err := fset.Parse(args); err != nil {
		return 2
	}

	cfg, err := config.NewLoader(strings.TrimSpace(*file), version.Version).Load()
	if err != nil {
		fmt.Fprintf(stderr, "Configuration error: %v\n", err)
		return 1
	}

	enc := yaml.NewEncoder(stdout)
	enc.SetIndent(2)
	if err := enc.Encode(fileConfigFromAppConfig(cfg)); err != nil {
		fmt.Fprintf(stderr, "Failed to encode YAML: %v\n", err)
		return 1
	}
	_ = enc.Close()
	return 0
}

func fileConfigFromAppConfig(cfg config.AppConfig) config.FileConfig {
	maxHeader := cfg.Server.MaxHeaderBytes
	rateEnabled := cfg.RateLimit.Enabled
	rateRequests := cfg.RateLimit.Requests
	metricsListen := cfg.Metrics.ListenAddr
	telEnabled := cfg.Telemetry.Enabled
	sampling := cfg.Telemetry.SamplingRate

	return config.FileConfig{
		LogLevel:   cfg.LogLevel,
		LogService: cfg.LogService,
		Server: config.ServerFileConfig{
			ListenAddr:      cfg.Server.ListenAddr,
			ReadTimeout:     cfg.Server.ReadTimeout.String(),
			WriteTimeout:    cfg.Server.WriteTimeout.String(),
			IdleTimeout:     cfg.Server.IdleTimeout.String(),
			MaxHeaderBytes:  &maxHeader,
			ShutdownTimeout: cfg.Server.ShutdownTimeout.String(),
		},
		Bus: config.BusFileConfig{
			Binary:      cfg.Bus.Binary,
			Socket:      cfg.Bus.Socket,
			Timeout:     cfg.Bus.Timeout.String(),
			CallTimeout: cfg.Bus.CallTimeout.String(),
		},
		RateLimit: config.RateLimitFileConfig{
			Enabled:  &rateEnabled,
			Requests: &rateRequests,
			Window:   cfg.RateLimit.Window.String(),
		},
		Metrics: config.MetricsFileConfig{
			ListenAddr: &metricsListen,
		},
		Telemetry: config.TelemetryFileConfig{
			Enabled:      &telEnabled,
			Exporter:     cfg.Telemetry.Exporter,
			Endpoint:     cfg.Telemetry.Endpoint,
			SamplingRate: &sampling,
		},
	}
}
