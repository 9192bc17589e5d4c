// Package form serialises grouped checkbox selections into hidden fields for
// form submission.
package form

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/colorpick/internal/dom"
)

// Separator joins the values of checked controls.
const Separator = ", "

// Source is the part of a page the serialiser needs.
type Source interface {
	HiddenGroup(name string) []*html.Node
	Field(name string) *html.Node
}

// FillHidden writes the values of every checked control in group name, in
// document order, into the hidden field whose id is name. It returns the
// written value, and false when the page has no such field.
func FillHidden(src Source, name string) (string, bool) {
	field := src.Field(name)
	if field == nil {
		return "", false
	}

	var values []string
	for _, n := range src.HiddenGroup(name) {
		if !dom.HasAttr(n, "checked") {
			continue
		}
		v, _ := dom.Attr(n, "value")
		values = append(values, v)
	}

	joined := strings.Join(values, Separator)
	dom.SetAttr(field, "value", joined)
	return joined, true
}

// FillAll runs FillHidden for every group name and returns the values written.
func FillAll(src Source, names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if v, ok := FillHidden(src, name); ok {
			out[name] = v
		}
	}
	return out
}
