package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/colorpick/internal/config"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

type priceOptions struct {
	CatalogPath string
	Format      string
	Options     []string
}

func newPriceCmd(root *rootFlags) *cobra.Command {
	opts := priceOptions{}

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a format plus options from a catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFile("catalog", opts.CatalogPath); err != nil {
				return err
			}
			ctx, app := newAppContext(cmd, root)
			return runPrice(ctx, cmd, app.Logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.CatalogPath, "catalog", "", "Path to the catalog file")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Format id")
	cmd.Flags().StringSliceVar(&opts.Options, "option", nil, "Option ids (repeatable or comma separated)")
	cmd.MarkFlagRequired("catalog") //nolint:errcheck

	return cmd
}

func runPrice(ctx context.Context, cmd *cobra.Command, logger ports.Logger, opts priceOptions) error {
	cat, err := config.ParseCatalog(opts.CatalogPath)
	if err != nil {
		return err
	}

	calc := cat.Calculator()
	quote, err := calc.Quote(opts.Format, opts.Options)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "priced", "format", opts.Format, "options", len(opts.Options), "total", quote.Total)

	writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if f, ok := findPriced(cat.Formats, opts.Format); ok {
		fmt.Fprintf(writer, "%s\t%s\n", f.DisplayName(), calc.Format(f.Price))
	}
	for _, id := range opts.Options {
		if o, ok := findPriced(cat.Options, id); ok {
			fmt.Fprintf(writer, "+ %s\t%s\n", o.DisplayName(), calc.Format(o.Price))
		}
	}
	fmt.Fprintf(writer, "Total\t%s\n", calc.Format(quote.Total))
	return writer.Flush()
}

func findPriced(items []config.Priced, id string) (config.Priced, bool) {
	for _, it := range items {
		if it.ID == id {
			return it, true
		}
	}
	return config.Priced{}, false
}
