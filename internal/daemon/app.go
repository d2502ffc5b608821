// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	xglog "github.com/ManuGH/ubusgw/internal/log"
	"github.com/ManuGH/ubusgw/internal/ubus"
	"github.com/rs/zerolog"
)

// probeObjects are resolved once at startup for the operator log.
var probeObjects = []string{"session", "system"}

// ObjectLookup resolves bus object ids. *ubus.Client implements it.
type ObjectLookup interface {
	LookupObjectID(ctx context.Context, name string) (uint32, bool)
}

// App owns the runtime lifecycle: signal handling, the startup probe, and
// the server manager.
type App struct {
	logger  zerolog.Logger
	manager Manager
	lookup  ObjectLookup
	signals []os.Signal

	probeTimeout time.Duration
}

// NewApp creates a new App orchestrator. lookup may be nil.
func NewApp(logger zerolog.Logger, manager Manager, lookup ObjectLookup) (*App, error) {
	if manager == nil {
		return nil, ErrMissingManager
	}
	return &App{
		logger:  logger,
		manager: manager,
		lookup:  lookup,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},

		probeTimeout: ubus.DefaultControlTimeout,
	}, nil
}

// Run blocks until ctx is cancelled, a termination signal arrives, or a
// server fails.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	if a.lookup != nil {
		g.Go(func() error {
			a.probe(ctx)
			return nil
		})
	}

	g.Go(func() error {
		return a.manager.Start(ctx)
	})

	return g.Wait()
}

// probe is informational only; request handling never depends on it.
// Each lookup is bounded by probeTimeout.
func (a *App) probe(ctx context.Context) {
	for _, name := range probeObjects {
		lookupCtx, cancel := context.WithTimeout(ctx, a.probeTimeout)
		id, ok := a.lookup.LookupObjectID(lookupCtx, name)
		cancel()
		if !ok {
			a.logger.Info().
				Str(xglog.FieldEvent, "bus.probe.unresolved").
				Str(xglog.FieldObject, name).
				Msg("bus object not resolved")
			continue
		}
		a.logger.Info().
			Str(xglog.FieldEvent, "bus.probe.resolved").
			Str(xglog.FieldObject, name).
			Str(xglog.FieldObjectID, fmt.Sprintf("%08x", id)).
			Msg("bus object resolved")
	}
}
