// Package pricing computes the live total for a format plus optional add-ons.
package pricing

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/alexisbeaulieu97/colorpick/internal/page"
)

var (
	// ErrUnknownFormat is returned for a format id the catalog does not list.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnknownOption is returned for an option id the catalog does not list.
	ErrUnknownOption = errors.New("unknown option")
)

// DefaultCurrency prefixes formatted totals when none is configured.
const DefaultCurrency = "€"

// Item is a priced format or option.
type Item struct {
	ID    string
	Name  string
	Price int
}

// Quote is a computed total and what it was computed from.
type Quote struct {
	Format  string
	Options []string
	Total   int
}

// Calculator sums catalog prices.
type Calculator struct {
	currency string
	formats  map[string]Item
	options  map[string]Item
}

// New builds a calculator over the given formats and options.
func New(currency string, formats, options []Item) *Calculator {
	if currency == "" {
		currency = DefaultCurrency
	}
	c := &Calculator{
		currency: currency,
		formats:  make(map[string]Item, len(formats)),
		options:  make(map[string]Item, len(options)),
	}
	for _, f := range formats {
		c.formats[f.ID] = f
	}
	for _, o := range options {
		c.options[o.ID] = o
	}
	return c
}

// Quote prices format plus options. An empty format contributes nothing, which
// matches a page where no format radio is selected yet.
func (c *Calculator) Quote(format string, options []string) (Quote, error) {
	q := Quote{Format: format, Options: append([]string(nil), options...)}
	if format != "" {
		f, ok := c.formats[format]
		if !ok {
			return Quote{}, fmt.Errorf("%w %q", ErrUnknownFormat, format)
		}
		q.Total += f.Price
	}
	for _, id := range options {
		o, ok := c.options[id]
		if !ok {
			return Quote{}, fmt.Errorf("%w %q", ErrUnknownOption, id)
		}
		q.Total += o.Price
	}
	return q, nil
}

// Format renders a total with the currency prefix and thousands separators.
func (c *Calculator) Format(total int) string {
	return FormatTotal(c.currency, total)
}

// FormatTotal renders total with currency prefix and thousands separators.
func FormatTotal(currency string, total int) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	return currency + humanize.Comma(int64(total))
}

// FromPage sums the checked format radio and checked option checkboxes of p.
// Prices that are not integers count as zero.
func FromPage(p *page.Page) Quote {
	var q Quote
	for _, f := range p.Formats() {
		if !f.Checked {
			continue
		}
		q.Format = firstNonEmpty(f.Value, f.ID)
		q.Total += parsePrice(f.Price)
		break
	}
	for _, o := range p.Options() {
		if !o.Checked {
			continue
		}
		q.Options = append(q.Options, firstNonEmpty(o.Value, o.ID))
		q.Total += parsePrice(o.Price)
	}
	return q
}

// UpdatePage recomputes the page total and writes it into the display.
func UpdatePage(p *page.Page, currency string) Quote {
	q := FromPage(p)
	p.SetTotal(FormatTotal(currency, q.Total))
	return q
}

func parsePrice(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
