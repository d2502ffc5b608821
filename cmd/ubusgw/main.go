// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/ManuGH/ubusgw/internal/config"
	"github.com/ManuGH/ubusgw/internal/daemon"
	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/version"
)

// daemonFlags are the options of the default command.
type daemonFlags struct {
	configPath  string
	listen      string
	showVersion bool
}

func parseDaemonFlags(args []string, stderr io.Writer) (daemonFlags, error) {
	var f daemonFlags
	fs := pflag.NewFlagSet("ubusgw", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&f.configPath, "config", "c", "", "path to config file (YAML)")
	fs.StringVarP(&f.listen, "listen", "l", "", "listen address, overrides config and environment")
	fs.BoolVar(&f.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	if fs.NArg() > 0 {
		return f, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	return f, nil
}

// loadConfig applies --listen on top of the loaded configuration and
// re-validates the result.
func loadConfig(f daemonFlags) (config.AppConfig, error) {
	cfg, err := config.NewLoader(strings.TrimSpace(f.configPath), version.Version).Load()
	if err != nil {
		return cfg, err
	}
	if listen := strings.TrimSpace(f.listen); listen != "" {
		cfg.Server.ListenAddr = listen
		if err := config.Validate(cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "config" {
		os.Exit(runConfigCLI(os.Args[2:], os.Stdout, os.Stderr))
	}

	flags, err := parseDaemonFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if flags.showVersion {
		fmt.Println(version.String())
		os.Exit(0)
	}

	// Safe defaults until the config is loaded.
	xglog.Configure(xglog.Config{
		Level:   "info",
		Service: "ubusgw",
		Version: version.Version,
	})
	logger := xglog.WithComponent("main")

	cfg, err := loadConfig(flags)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "config.load_failed").
			Str("config_path", flags.configPath).
			Msg("failed to load configuration")
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})
	logger = xglog.WithComponent("main")

	source := "env+defaults"
	if flags.configPath != "" {
		source = "file"
	}
	logger.Info().
		Str(xglog.FieldEvent, "config.loaded").
		Str("source", source).
		Str("listen", cfg.Server.ListenAddr).
		Str("bus_binary", cfg.Bus.Binary).
		Str(xglog.FieldSocket, cfg.Bus.Socket).
		Bool("rate_limit", cfg.RateLimit.Enabled).
		Bool("telemetry", cfg.Telemetry.Enabled).
		Str("metrics_listen", cfg.Metrics.ListenAddr).
		Msg("configuration loaded")

	ctx := context.Background()
	app, err := daemon.Bootstrap(ctx, cfg)
	if err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "bootstrap.failed").
			Msg("failed to initialize gateway")
	}

	if err := app.Run(ctx); err != nil {
		logger.Fatal().
			Err(err).
			Str(xglog.FieldEvent, "daemon.failed").
			Msg("gateway stopped with error")
	}
	logger.Info().Str(xglog.FieldEvent, "daemon.stopped").Msg("gateway stopped")
}
