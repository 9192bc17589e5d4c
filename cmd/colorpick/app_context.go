package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/assets"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// AppContext bundles the per-command services.
type AppContext struct {
	Logger ports.Logger
	Events *events.LoggingPublisher
}

// newAppContext builds a console logger on the command's stderr and a
// correlated context for one command run.
func newAppContext(cmd *cobra.Command, flags *rootFlags) (context.Context, *AppContext) {
	logger := logging.NewConsole(cmd.ErrOrStderr(), flags.verbose).With("command", cmd.Name())
	return withApp(cmd, logger)
}

func withApp(cmd *cobra.Command, logger ports.Logger) (context.Context, *AppContext) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ports.WithCorrelationID(ctx, ports.GenerateCorrelationID())
	return ctx, &AppContext{Logger: logger, Events: events.NewLoggingPublisher(logger)}
}

// newFetcher routes remote references over HTTP and local ones to disk under
// base, behind an in-memory cache.
func newFetcher(base string, timeout time.Duration, cacheSize int) *assets.CachingFetcher {
	router := assets.Router{
		Base:   base,
		Remote: assets.NewHTTPFetcher(assets.HTTPOptions{Timeout: timeout, UserAgent: "colorpick/" + version}),
		Local:  assets.FileFetcher{Base: base},
	}
	return assets.NewCachingFetcher(router, cacheSize)
}
