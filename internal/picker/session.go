package picker

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/alexisbeaulieu97/colorpick/internal/form"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/page"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	"github.com/alexisbeaulieu97/colorpick/internal/pricing"
	"github.com/alexisbeaulieu97/colorpick/internal/swatch"
)

// SessionOptions configures a PageSession.
type SessionOptions struct {
	Capacity int
	Fetcher  ports.Fetcher
	Logger   ports.Logger
	Events   ports.EventPublisher
	Currency string
	// HiddenFields are refreshed after every control change.
	HiddenFields []string
}

// PageSession drives a Service from the controls of an HTML product page,
// the way the page's own event handlers would.
type PageSession struct {
	svc          *Service
	page         *page.Page
	fetcher      ports.Fetcher
	logger       ports.Logger
	currency     string
	hiddenFields []string
}

// NewPageSession binds a picker to p.
func NewPageSession(p *page.Page, opts SessionOptions) (*PageSession, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	controls := p.ColorControls()
	ids := make([]string, 0, len(controls))
	for _, c := range controls {
		ids = append(ids, c.ID)
	}

	svc, err := New(Options{
		Capacity: opts.Capacity,
		Fetcher:  opts.Fetcher,
		Host:     p,
		Controls: ids,
		Logger:   logger,
		Events:   opts.Events,
	})
	if err != nil {
		return nil, err
	}

	return &PageSession{
		svc:          svc,
		page:         p,
		fetcher:      opts.Fetcher,
		logger:       logger.With("component", "page_session"),
		currency:     opts.Currency,
		hiddenFields: append([]string(nil), opts.HiddenFields...),
	}, nil
}

// Service exposes the underlying picker.
func (ps *PageSession) Service() *Service { return ps.svc }

// Page exposes the bound page.
func (ps *PageSession) Page() *page.Page { return ps.page }

// ToggleColor checks or unchecks the colour control id and lets the picker
// react. Unknown controls are ignored.
func (ps *PageSession) ToggleColor(ctx context.Context, id string, checked bool) (Outcome, error) {
	control, ok := ps.page.ColorControl(id)
	if !ok {
		ps.logger.Debug(ctx, "unknown colour control", "control_id", id)
		return OutcomeSkipped, nil
	}
	ps.page.SetChecked(id, checked)

	color := control.Color
	if checked && !control.HasColor() {
		color = ps.swatchColor(ctx, control)
	}

	outcome, err := ps.svc.Toggle(ctx, id, color, checked)
	if outcome == OutcomeSkipped && checked {
		ps.page.SetChecked(id, false)
	}
	ps.refreshForm()
	return outcome, err
}

// SelectModel checks the model radio for ref and switches the illustration.
func (ps *PageSession) SelectModel(ctx context.Context, ref string) error {
	ps.page.SelectModel(ref)
	return ps.svc.SelectModel(ctx, ref)
}

// SetFormat selects the format radio with the given value or id.
func (ps *PageSession) SetFormat(value string) (pricing.Quote, error) {
	found := false
	for _, f := range ps.page.Formats() {
		match := f.Value == value || f.ID == value
		if match {
			found = true
		}
		if f.ID != "" {
			ps.page.SetChecked(f.ID, match)
		}
	}
	if !found {
		return pricing.Quote{}, fmt.Errorf("%w %q", pricing.ErrUnknownFormat, value)
	}
	return ps.Recalculate(), nil
}

// SetOption checks or unchecks the option with the given value or id.
func (ps *PageSession) SetOption(value string, checked bool) (pricing.Quote, error) {
	for _, o := range ps.page.Options() {
		if (o.Value == value || o.ID == value) && o.ID != "" {
			ps.page.SetChecked(o.ID, checked)
			return ps.Recalculate(), nil
		}
	}
	return pricing.Quote{}, fmt.Errorf("%w %q", pricing.ErrUnknownOption, value)
}

// Recalculate refreshes the price display and hidden fields.
func (ps *PageSession) Recalculate() pricing.Quote {
	q := pricing.UpdatePage(ps.page, ps.currency)
	ps.refreshForm()
	return q
}

func (ps *PageSession) refreshForm() {
	form.FillAll(ps.page, ps.hiddenFields...)
}

// swatchColor falls back to the centre pixel of the control's swatch image.
// An empty result means the control is skipped.
func (ps *PageSession) swatchColor(ctx context.Context, control page.ColorControl) string {
	if control.SwatchSrc == "" || ps.fetcher == nil {
		return ""
	}
	data, err := ps.fetcher.Fetch(ctx, control.SwatchSrc)
	if err != nil {
		ps.logger.Warn(ctx, "swatch fetch failed", "control_id", control.ID, "src", control.SwatchSrc, "error", err)
		return ""
	}
	hex, err := swatch.FromImage(bytes.NewReader(data))
	if err != nil {
		if !errors.Is(err, swatch.ErrEmptyImage) {
			ps.logger.Warn(ctx, "swatch decode failed", "control_id", control.ID, "error", err)
		}
		return ""
	}
	ps.logger.Debug(ctx, "extracted swatch colour", "control_id", control.ID, "color", hex)
	return hex
}
