// Package page models the product page that hosts the picker: colour and
// model controls, the illustration mount point, pricing inputs and hidden form
// fields. It is the headless stand-in for the browser DOM.
package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/colorpick/internal/dom"
	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/loader"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

// Attribute and class names that make up the page contract.
const (
	PickerClass       = "color-picker"
	ColorAttr         = "data-color"
	ModelAttr         = "data-model"
	MountAttr         = "data-mount"
	ActiveAttr        = "data-active"
	PriceAttr         = "data-price"
	TotalAttr         = "data-price-total"
	HiddenGroupAttr   = "hidden-data"
	SwatchImageClass  = "radio"
	FormatControlName = "format"

	DisabledOpacity = "0.3"
)

// ColorControl is a colour checkbox.
type ColorControl struct {
	ID      string
	Color   string
	Checked bool
	// SwatchSrc is the src of the swatch image inside the control's label,
	// used when the control has no colour attribute.
	SwatchSrc string
}

// HasColor reports whether the control carries an explicit colour value.
func (c ColorControl) HasColor() bool { return strings.TrimSpace(c.Color) != "" }

// ModelControl is a radio input selecting an illustration.
type ModelControl struct {
	ID      string
	Ref     string
	Checked bool
}

// PricedControl is a format radio or an option checkbox.
type PricedControl struct {
	ID      string
	Name    string
	Value   string
	Price   string
	Checked bool
}

// Page wraps a parsed HTML document.
type Page struct {
	path string
	root *html.Node
}

// Parse reads an HTML page.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, colorpickerrors.NewParseError("page", 0, err)
	}
	return &Page{root: root}, nil
}

// Load reads an HTML page from disk.
func Load(path string) (*Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, colorpickerrors.NewParseError(path, 0, err)
	}
	p, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, colorpickerrors.NewParseError(path, 0, err)
	}
	p.path = path
	return p, nil
}

// Path returns the file the page was loaded from, if any.
func (p *Page) Path() string { return p.path }

// Root returns the document node.
func (p *Page) Root() *html.Node { return p.root }

// Render writes the page markup.
func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

// String renders the page, returning an empty string on failure.
func (p *Page) String() string {
	var buf bytes.Buffer
	if err := p.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

func isInput(n *html.Node, kind string) bool {
	if !dom.IsElement(n, "input") {
		return false
	}
	t, _ := dom.Attr(n, "type")
	return strings.EqualFold(t, kind)
}

func inPicker(n *html.Node) bool {
	return dom.Closest(n, func(c *html.Node) bool { return dom.HasClass(c, PickerClass) }) != nil
}

func (p *Page) colorInputs() []*html.Node {
	return dom.FindAll(p.root, func(n *html.Node) bool {
		return isInput(n, "checkbox") && inPicker(n)
	})
}

// ColorControls lists the colour checkboxes in document order. Controls
// without an id cannot be tracked and are skipped.
func (p *Page) ColorControls() []ColorControl {
	var controls []ColorControl
	for _, n := range p.colorInputs() {
		id, _ := dom.Attr(n, "id")
		if id == "" {
			continue
		}
		color, _ := dom.Attr(n, ColorAttr)
		c := ColorControl{ID: id, Color: strings.TrimSpace(color), Checked: dom.HasAttr(n, "checked")}
		if img := dom.First(n.Parent, func(m *html.Node) bool {
			return dom.IsElement(m, "img") && dom.HasClass(m, SwatchImageClass)
		}); img != nil {
			c.SwatchSrc, _ = dom.Attr(img, "src")
		}
		controls = append(controls, c)
	}
	return controls
}

// ColorControl looks up a single colour control by id.
func (p *Page) ColorControl(id string) (ColorControl, bool) {
	for _, c := range p.ColorControls() {
		if c.ID == id {
			return c, true
		}
	}
	return ColorControl{}, false
}

// SetColor overrides the colour value of a colour control.
func (p *Page) SetColor(id, value string) bool {
	n := dom.ByID(p.root, id)
	if n == nil || !isInput(n, "checkbox") || !inPicker(n) {
		return false
	}
	dom.SetAttr(n, ColorAttr, value)
	return true
}

// ModelControls lists the illustration radios in document order.
func (p *Page) ModelControls() []ModelControl {
	var controls []ModelControl
	for _, n := range dom.FindAll(p.root, func(n *html.Node) bool {
		return isInput(n, "radio") && dom.HasAttr(n, ModelAttr)
	}) {
		id, _ := dom.Attr(n, "id")
		ref, _ := dom.Attr(n, ModelAttr)
		controls = append(controls, ModelControl{ID: id, Ref: ref, Checked: dom.HasAttr(n, "checked")})
	}
	return controls
}

// SelectModel checks the radio for ref and unchecks the others in its group.
func (p *Page) SelectModel(ref string) bool {
	found := false
	for _, n := range dom.FindAll(p.root, func(n *html.Node) bool {
		return isInput(n, "radio") && dom.HasAttr(n, ModelAttr)
	}) {
		v, _ := dom.Attr(n, ModelAttr)
		if v == ref {
			dom.SetAttr(n, "checked", "")
			found = true
		} else {
			dom.RemoveAttr(n, "checked")
		}
	}
	return found
}

// SetChecked sets the checked state of the input with the given id.
func (p *Page) SetChecked(id string, checked bool) bool {
	n := dom.ByID(p.root, id)
	if n == nil || !dom.IsElement(n, "input") {
		return false
	}
	if checked {
		dom.SetAttr(n, "checked", "")
	} else {
		dom.RemoveAttr(n, "checked")
	}
	return true
}

// SetAvailable dims and disables the label of a colour control, or restores it.
func (p *Page) SetAvailable(id string, available bool) bool {
	n := dom.ByID(p.root, id)
	if n == nil || n.Parent == nil || n.Parent.Type != html.ElementNode {
		return false
	}
	label := n.Parent
	if available {
		dom.SetStyle(label, "opacity", "1")
		dom.SetStyle(label, "pointer-events", "auto")
	} else {
		dom.SetStyle(label, "opacity", DisabledOpacity)
		dom.SetStyle(label, "pointer-events", "none")
	}
	return true
}

// Available reports whether a control's label is interactive.
func (p *Page) Available(id string) bool {
	n := dom.ByID(p.root, id)
	if n == nil || n.Parent == nil {
		return false
	}
	v, ok := dom.Style(n.Parent, "pointer-events")
	return !ok || v != "none"
}

func (p *Page) mountPoint() *html.Node {
	return dom.First(p.root, func(n *html.Node) bool { return dom.HasAttr(n, MountAttr) })
}

// Mount replaces the content of the mount point with doc and marks it active.
// It implements loader.Mount.
func (p *Page) Mount(_ context.Context, doc *illustration.Document) error {
	mount := p.mountPoint()
	if mount == nil {
		return loader.ErrNoMountPoint
	}
	root := doc.Root()
	if root == nil {
		return fmt.Errorf("mount %s: %w", doc.Ref(), illustration.ErrNoRoot)
	}
	dom.SetAttr(root, ActiveAttr, "true")
	dom.ReplaceChildren(mount, root)
	return nil
}

// Mounted returns the illustration element currently in the mount point.
func (p *Page) Mounted() *html.Node {
	mount := p.mountPoint()
	if mount == nil {
		return nil
	}
	return dom.First(mount, func(n *html.Node) bool { return n.Data == "svg" })
}

func (p *Page) priced(kind string) []PricedControl {
	var out []PricedControl
	for _, n := range dom.FindAll(p.root, func(n *html.Node) bool {
		return isInput(n, kind) && dom.HasAttr(n, PriceAttr) && !inPicker(n)
	}) {
		id, _ := dom.Attr(n, "id")
		name, _ := dom.Attr(n, "name")
		value, _ := dom.Attr(n, "value")
		price, _ := dom.Attr(n, PriceAttr)
		out = append(out, PricedControl{ID: id, Name: name, Value: value, Price: price, Checked: dom.HasAttr(n, "checked")})
	}
	return out
}

// Formats lists the format radios.
func (p *Page) Formats() []PricedControl {
	var out []PricedControl
	for _, c := range p.priced("radio") {
		if c.Name == FormatControlName {
			out = append(out, c)
		}
	}
	return out
}

// Options lists the priced option checkboxes.
func (p *Page) Options() []PricedControl {
	return p.priced("checkbox")
}

// SetTotal writes text into the price display. It reports false when the page
// has no display element.
func (p *Page) SetTotal(text string) bool {
	n := dom.First(p.root, func(n *html.Node) bool { return dom.HasAttr(n, TotalAttr) })
	if n == nil {
		return false
	}
	dom.SetText(n, text)
	return true
}

// Total returns the current price display text.
func (p *Page) Total() string {
	return dom.Text(dom.First(p.root, func(n *html.Node) bool { return dom.HasAttr(n, TotalAttr) }))
}

// HiddenGroup returns the inputs that serialise into the hidden field name.
func (p *Page) HiddenGroup(name string) []*html.Node {
	return dom.FindAll(p.root, func(n *html.Node) bool {
		v, ok := dom.Attr(n, HiddenGroupAttr)
		return ok && v == name
	})
}

// HiddenGroupNames lists the distinct hidden-field groups in document order.
func (p *Page) HiddenGroupNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, n := range dom.FindAll(p.root, func(n *html.Node) bool { return dom.HasAttr(n, HiddenGroupAttr) }) {
		v, _ := dom.Attr(n, HiddenGroupAttr)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		names = append(names, v)
	}
	return names
}

// Field returns the element with id name.
func (p *Page) Field(name string) *html.Node {
	return dom.ByID(p.root, name)
}

var _ loader.Mount = (*Page)(nil)
