package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alexisbeaulieu97/colorpick/internal/config"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/assets"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/logger"
	"github.com/alexisbeaulieu97/colorpick/internal/picker"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	"github.com/alexisbeaulieu97/colorpick/internal/tui"
)

type pickOptions struct {
	CatalogPath string
	Output      string
	LogFile     string
	NoPrefetch  bool
}

var errNotInteractive = errors.New("pick needs an interactive terminal; use render for scripted runs")

var (
	stdoutIsTerminal = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	runPicker        = tui.Run
)

func newPickCmd(root *rootFlags) *cobra.Command {
	opts := pickOptions{}

	cmd := &cobra.Command{
		Use:   "pick",
		Short: "Choose colours, model and format interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFile("catalog", opts.CatalogPath); err != nil {
				return err
			}
			if !stdoutIsTerminal() {
				return errNotInteractive
			}
			return runPick(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "Path to the catalog file")
	cmd.Flags().StringVarP(&opts.Output, "out", "o", "", "Write the selection as YAML to this file (default stdout)")
	cmd.Flags().StringVar(&opts.LogFile, "log-file", "", "Append session logs as JSON to this file")
	cmd.Flags().BoolVar(&opts.NoPrefetch, "no-prefetch", false, "Load models only when selected")
	cmd.MarkFlagRequired("catalog") //nolint:errcheck

	return cmd
}

func runPick(cmd *cobra.Command, root *rootFlags, opts pickOptions) error {
	cat, err := config.ParseCatalog(opts.CatalogPath)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI, so logs go to a buffer until it exits.
	buffer := logging.NewBuffer(0)
	ctx, app := withApp(cmd, buffer.Logger().With("command", "pick"))
	defer flushLogs(ctx, cmd, buffer, opts.LogFile, root.verbose)

	counts := newEventCounter()
	if _, err := app.Events.Subscribe(events.AllEvents, counts.handle); err != nil {
		return err
	}

	fetcher := newFetcher(cat.BaseDir, cat.Fetch.Timeout, cat.Fetch.CacheSize)
	if !opts.NoPrefetch {
		if err := assets.Prefetch(ctx, fetcher, cat.ModelRefs(), cat.Fetch.Parallel); err != nil {
			app.Logger.Warn(ctx, "prefetch incomplete", "error", err)
		}
	}

	svc, err := picker.New(picker.Options{
		Capacity: cat.Capacity,
		Fetcher:  fetcher,
		Host:     picker.NewMemoryHost(),
		Controls: cat.ColorIDs(),
		Logger:   app.Logger,
		Events:   app.Events,
	})
	if err != nil {
		return err
	}

	sel, err := runPicker(ctx, tui.Deps{Catalog: cat, Service: svc, Logs: buffer, Logger: app.Logger})
	if err != nil {
		return err
	}

	out, err := sel.YAML()
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}
	if opts.Output == "" {
		_, err = cmd.OutOrStdout().Write(out)
		return err
	}
	if err := os.WriteFile(opts.Output, out, 0o644); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "selection written to %s (%s)\n", opts.Output, counts.summary())
	return nil
}

// flushLogs replays the session's buffered logs into the log file when one is
// set, and onto stderr when running verbose.
func flushLogs(ctx context.Context, cmd *cobra.Command, buffer *logging.Buffer, path string, verbose bool) {
	if path == "" {
		if verbose {
			buffer.Flush(logging.NewConsole(cmd.ErrOrStderr(), true))
		}
		return
	}
	fileLogger, closer, err := logger.OpenFile(path, "debug")
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "could not write logs: %v\n", err)
		return
	}
	defer closer.Close()
	buffer.Flush(fileLogger)
	fileLogger.Debug(ctx, "session logs flushed", "path", path)
}

type eventCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func newEventCounter() *eventCounter {
	return &eventCounter{counts: make(map[string]int)}
}

func (c *eventCounter) handle(_ context.Context, e ports.DomainEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[e.EventType()]++
	return nil
}

func (c *eventCounter) summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.counts) == 0 {
		return "no changes"
	}
	keys := make([]string, 0, len(c.counts))
	for k := range c.counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, c.counts[k]))
	}
	return strings.Join(parts, " ")
}
