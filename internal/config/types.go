// Package config loads the product catalog: the models, colours, formats and
// options a picker session offers, plus loading and pricing settings.
package config

import (
	"time"

	"github.com/alexisbeaulieu97/colorpick/internal/pricing"
	"github.com/alexisbeaulieu97/colorpick/internal/slots"
)

// Catalog is the full colorpick catalog document.
type Catalog struct {
	Name     string   `yaml:"name" validate:"required,min=1,max=100"`
	Capacity int      `yaml:"capacity,omitempty" validate:"omitempty,min=1,max=64"`
	BaseDir  string   `yaml:"base_dir,omitempty"`
	Currency string   `yaml:"currency,omitempty" validate:"omitempty,max=8"`
	Fetch    Fetch    `yaml:"fetch,omitempty"`
	Models   []Model  `yaml:"models" validate:"required,min=1,dive"`
	Colors   []Color  `yaml:"colors" validate:"required,min=1,dive"`
	Formats  []Priced `yaml:"formats,omitempty" validate:"omitempty,dive"`
	Options  []Priced `yaml:"options,omitempty" validate:"omitempty,dive"`
}

// Fetch tunes how illustrations and swatches are loaded.
type Fetch struct {
	// Timeout bounds each remote request. Zero means no timeout.
	Timeout   time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
	CacheSize int           `yaml:"cache_size,omitempty" validate:"omitempty,min=1,max=1024"`
	// Parallel bounds prefetch concurrency.
	Parallel int `yaml:"parallel,omitempty" validate:"omitempty,min=1,max=32"`
}

// Model is a selectable illustration.
type Model struct {
	ID   string `yaml:"id" validate:"required,slug"`
	Name string `yaml:"name,omitempty"`
	Ref  string `yaml:"ref" validate:"required,asset_ref"`
}

// Color is a selectable colour.
type Color struct {
	ID    string `yaml:"id" validate:"required,slug"`
	Name  string `yaml:"name,omitempty"`
	Value string `yaml:"value" validate:"required,color_value"`
}

// Priced is a format or an option with an integer price.
type Priced struct {
	ID    string `yaml:"id" validate:"required,slug"`
	Name  string `yaml:"name,omitempty"`
	Price int    `yaml:"price" validate:"min=0"`
}

// Defaults applied by ParseCatalog.
const (
	DefaultCacheSize = 32
	DefaultParallel  = 4
)

func (c *Catalog) applyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = slots.DefaultCapacity
	}
	if c.Currency == "" {
		c.Currency = pricing.DefaultCurrency
	}
	if c.Fetch.CacheSize == 0 {
		c.Fetch.CacheSize = DefaultCacheSize
	}
	if c.Fetch.Parallel == 0 {
		c.Fetch.Parallel = DefaultParallel
	}
}

// Model looks up a model by id.
func (c *Catalog) Model(id string) (Model, bool) {
	for _, m := range c.Models {
		if m.ID == id {
			return m, true
		}
	}
	return Model{}, false
}

// Color looks up a colour by id.
func (c *Catalog) Color(id string) (Color, bool) {
	for _, col := range c.Colors {
		if col.ID == id {
			return col, true
		}
	}
	return Color{}, false
}

// ModelRefs lists every model reference in catalog order.
func (c *Catalog) ModelRefs() []string {
	refs := make([]string, 0, len(c.Models))
	for _, m := range c.Models {
		refs = append(refs, m.Ref)
	}
	return refs
}

// ColorIDs lists every colour id in catalog order.
func (c *Catalog) ColorIDs() []string {
	ids := make([]string, 0, len(c.Colors))
	for _, col := range c.Colors {
		ids = append(ids, col.ID)
	}
	return ids
}

// Calculator builds a price calculator over the catalog formats and options.
func (c *Catalog) Calculator() *pricing.Calculator {
	return pricing.New(c.Currency, items(c.Formats), items(c.Options))
}

func items(in []Priced) []pricing.Item {
	out := make([]pricing.Item, 0, len(in))
	for _, p := range in {
		out = append(out, pricing.Item{ID: p.ID, Name: p.Name, Price: p.Price})
	}
	return out
}

// DisplayName returns Name, or the id when no name is set.
func (m Model) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// DisplayName returns Name, or the id when no name is set.
func (c Color) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// DisplayName returns Name, or the id when no name is set.
func (p Priced) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.ID
}
