// Package tui is the interactive terminal picker: colours, model tabs, slot
// panel and live price, driven by a picker.Service over a MemoryHost.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/colorpick/internal/config"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/picker"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	"github.com/alexisbeaulieu97/colorpick/internal/pricing"
)

type itemKind int

const (
	itemColor itemKind = iota
	itemFormat
	itemOption
)

// item is one selectable row. Colours, formats and options share a cursor.
type item struct {
	kind  itemKind
	id    string
	label string
	value string
	price int
}

// Deps are the collaborators a Model drives.
type Deps struct {
	Catalog *config.Catalog
	Service *picker.Service
	// Logs is shown as a short tail under the status line. Optional.
	Logs   *logging.Buffer
	Logger ports.Logger
}

// Model contains the Bubbletea state for the interactive picker.
type Model struct {
	ctx     context.Context
	catalog *config.Catalog
	svc     *picker.Service
	calc    *pricing.Calculator
	logs    *logging.Buffer
	logger  ports.Logger

	items    []item
	cursor   int
	modelIdx int
	pending  string
	format   string
	options  map[string]bool

	status    string
	showError bool
	errorMsg  string

	spinner spinner.Model
	help    help.Model
	keys    keyMap

	width    int
	height   int
	quitting bool
}

// NewModel builds the picker UI. The first catalog model starts loading in Init.
func NewModel(ctx context.Context, deps Deps) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cursorStyle

	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	m := Model{
		ctx:     ctx,
		catalog: deps.Catalog,
		svc:     deps.Service,
		calc:    deps.Catalog.Calculator(),
		logs:    deps.Logs,
		logger:  logger.With("component", "tui"),
		options: make(map[string]bool),
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		width:   80,
		height:  24,
	}

	for _, c := range deps.Catalog.Colors {
		m.items = append(m.items, item{kind: itemColor, id: c.ID, label: c.DisplayName(), value: c.Value})
	}
	for _, f := range deps.Catalog.Formats {
		m.items = append(m.items, item{kind: itemFormat, id: f.ID, label: f.DisplayName(), price: f.Price})
	}
	for _, o := range deps.Catalog.Options {
		m.items = append(m.items, item{kind: itemOption, id: o.ID, label: o.DisplayName(), price: o.Price})
	}
	if len(deps.Catalog.Formats) > 0 {
		m.format = deps.Catalog.Formats[0].ID
	}
	if len(deps.Catalog.Models) > 0 {
		m.pending = deps.Catalog.Models[0].Ref
	}

	return m
}

// Init loads the first model.
func (m Model) Init() tea.Cmd {
	if m.pending == "" {
		return nil
	}
	return tea.Batch(selectModelCmd(m.ctx, m.svc, m.pending), m.spinner.Tick)
}

// Loading reports whether a model switch is in flight.
func (m Model) Loading() bool { return m.pending != "" }

// Cursor returns the index of the highlighted row.
func (m Model) Cursor() int { return m.cursor }

// Quitting reports whether the user asked to leave.
func (m Model) Quitting() bool { return m.quitting }

// Quote prices the current format and options.
func (m Model) Quote() pricing.Quote {
	q, err := m.calc.Quote(m.format, m.selectedOptions())
	if err != nil {
		return pricing.Quote{Format: m.format}
	}
	return q
}

func (m Model) selectedOptions() []string {
	var ids []string
	for _, o := range m.catalog.Options {
		if m.options[o.ID] {
			ids = append(ids, o.ID)
		}
	}
	return ids
}

func (m Model) modelByRef(ref string) (config.Model, int, bool) {
	for i, mod := range m.catalog.Models {
		if mod.Ref == ref {
			return mod, i, true
		}
	}
	return config.Model{}, -1, false
}

func (m *Model) moveCursor(delta int) {
	if len(m.items) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.items)) % len(m.items)
}
