package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

type shapesOptions struct {
	Ref     string
	Count   bool
	Timeout time.Duration
}

func newShapesCmd(root *rootFlags) *cobra.Command {
	opts := shapesOptions{}

	cmd := &cobra.Command{
		Use:   "shapes <svg>",
		Short: "List the colourable shapes of an illustration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Ref = args[0]
			ctx, app := newAppContext(cmd, root)
			return runShapes(ctx, cmd, app.Logger, newFetcher("", opts.Timeout, 1), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Count, "count", false, "Print only the number of colourable shapes")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Timeout for remote illustrations (0 disables)")

	return cmd
}

func runShapes(ctx context.Context, cmd *cobra.Command, logger ports.Logger, fetcher ports.Fetcher, opts shapesOptions) error {
	data, err := fetcher.Fetch(ctx, opts.Ref)
	if err != nil {
		return err
	}
	doc, err := illustration.Parse(opts.Ref, data)
	if err != nil {
		return err
	}

	shapes := illustration.ColorableShapes(doc)
	logger.Debug(ctx, "classified shapes", "ref", opts.Ref, "colourable", len(shapes))

	if opts.Count {
		fmt.Fprintln(cmd.OutOrStdout(), len(shapes))
		return nil
	}

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "SLOT\tTAG\tID\tFILL")
	for _, s := range shapes {
		fill, ok := s.Fill()
		if !ok {
			fill = "(default)"
		}
		fmt.Fprintf(writer, "%d\t%s\t%s\t%s\n", s.Index+1, s.Tag(), valueOrFallback(s.ID(), "-"), fill)
	}
	return writer.Flush()
}

func valueOrFallback(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
