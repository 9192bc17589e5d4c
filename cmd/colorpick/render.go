package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/colorpick/internal/page"
	"github.com/alexisbeaulieu97/colorpick/internal/picker"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	"github.com/alexisbeaulieu97/colorpick/internal/pricing"
)

type renderOptions struct {
	PagePath string
	Model    string
	Colors   []string
	Format   string
	Options  []string
	Output   string
	SVGOnly  bool
	BaseDir  string
	Capacity int
	Currency string
	Timeout  time.Duration
}

var errNoIllustration = errors.New("no illustration loaded; pass --model")

func newRenderCmd(root *rootFlags) *cobra.Command {
	opts := renderOptions{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Replay colour, model and price choices against a product page",
		Long: `Render loads an HTML product page, selects a model, checks the given colour
controls in order and writes the updated page (or only the coloured
illustration with --svg-only).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFile("page", opts.PagePath); err != nil {
				return err
			}
			if opts.BaseDir == "" {
				opts.BaseDir = filepath.Dir(opts.PagePath)
			}
			ctx, app := newAppContext(cmd, root)
			fetcher := newFetcher(opts.BaseDir, opts.Timeout, 16)
			return runRender(ctx, cmd, app, fetcher, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.PagePath, "page", "p", "", "Path to the HTML product page")
	cmd.Flags().StringVarP(&opts.Model, "model", "m", "", "Model reference to load (a data-model value)")
	cmd.Flags().StringArrayVarP(&opts.Colors, "color", "c", nil, "Colour control to check, as id or id=value (repeatable)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Format value or id to select")
	cmd.Flags().StringArrayVar(&opts.Options, "option", nil, "Option value or id to check (repeatable)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.Flags().BoolVar(&opts.SVGOnly, "svg-only", false, "Write only the coloured illustration")
	cmd.Flags().StringVar(&opts.BaseDir, "base", "", "Directory or URL that asset references resolve against (default: the page directory)")
	cmd.Flags().IntVar(&opts.Capacity, "capacity", 0, "Initial number of colour slots (default 5)")
	cmd.Flags().StringVar(&opts.Currency, "currency", pricing.DefaultCurrency, "Currency symbol for the price display")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Timeout for remote assets (0 disables)")
	cmd.MarkFlagRequired("page") //nolint:errcheck

	return cmd
}

func runRender(ctx context.Context, cmd *cobra.Command, app *AppContext, fetcher ports.Fetcher, opts renderOptions) error {
	p, err := page.Load(opts.PagePath)
	if err != nil {
		return err
	}

	session, err := picker.NewPageSession(p, picker.SessionOptions{
		Capacity:     opts.Capacity,
		Fetcher:      fetcher,
		Logger:       app.Logger,
		Events:       app.Events,
		Currency:     opts.Currency,
		HiddenFields: p.HiddenGroupNames(),
	})
	if err != nil {
		return err
	}

	if opts.Model != "" {
		if err := session.SelectModel(ctx, opts.Model); err != nil {
			return fmt.Errorf("load model %s: %w", opts.Model, err)
		}
	}

	for _, arg := range opts.Colors {
		id, value, err := parseColorArg(arg)
		if err != nil {
			return err
		}
		if _, ok := p.ColorControl(id); !ok {
			return fmt.Errorf("unknown colour control %q", id)
		}
		if value != "" {
			p.SetColor(id, value)
		}
		outcome, err := session.ToggleColor(ctx, id, true)
		if err != nil {
			return err
		}
		if outcome == picker.OutcomeRejected || outcome == picker.OutcomeSkipped {
			app.Logger.Warn(ctx, "colour not applied", "control_id", id, "outcome", outcome.String())
		}
	}

	if opts.Format != "" {
		if _, err := session.SetFormat(opts.Format); err != nil {
			return err
		}
	}
	for _, o := range opts.Options {
		if _, err := session.SetOption(o, true); err != nil {
			return err
		}
	}
	quote := session.Recalculate()

	st := session.Service().State()
	app.Logger.Info(ctx, "rendered",
		"model", st.ActiveRef,
		"shapes", st.ShapeCount,
		"complete", st.Complete,
		"total", pricing.FormatTotal(opts.Currency, quote.Total),
	)

	return writeOutput(cmd, opts.Output, func(w io.Writer) error {
		if !opts.SVGOnly {
			return p.Render(w)
		}
		doc, _ := session.Service().Active()
		if doc == nil {
			return errNoIllustration
		}
		return doc.Render(w)
	})
}

func writeOutput(cmd *cobra.Command, path string, render func(io.Writer) error) error {
	if path == "" {
		return render(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
