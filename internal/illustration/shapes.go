package illustration

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/alexisbeaulieu97/colorpick/internal/dom"
)

var candidateTags = map[string]struct{}{
	"rect":    {},
	"circle":  {},
	"path":    {},
	"polygon": {},
	"ellipse": {},
}

// Subtrees that are never painted directly.
var hiddenContainers = map[string]struct{}{
	"defs":     {},
	"clippath": {},
	"mask":     {},
	"symbol":   {},
	"pattern":  {},
	"marker":   {},
}

// Shape is a colourable element of a document, addressed by its position in
// the ordered sequence returned by ColorableShapes.
type Shape struct {
	Index int
	node  *html.Node
}

// Tag returns the element name (rect, path, ...).
func (s Shape) Tag() string { return s.node.Data }

// ID returns the element id attribute, if any.
func (s Shape) ID() string {
	id, _ := dom.Attr(s.node, "id")
	return id
}

// Fill returns the explicit fill, preferring inline style over the attribute.
func (s Shape) Fill() (string, bool) { return paintValue(s.node, "fill") }

// Stroke returns the explicit stroke, preferring inline style over the attribute.
func (s Shape) Stroke() (string, bool) { return paintValue(s.node, "stroke") }

// Attr returns a raw attribute value.
func (s Shape) Attr(key string) (string, bool) { return dom.Attr(s.node, key) }

// SetAttr sets a raw attribute value.
func (s Shape) SetAttr(key, value string) { dom.SetAttr(s.node, key, value) }

// RemoveAttr deletes a raw attribute.
func (s Shape) RemoveAttr(key string) { dom.RemoveAttr(s.node, key) }

// Style returns an inline style property.
func (s Shape) Style(property string) (string, bool) { return dom.Style(s.node, property) }

// SetStyle sets an inline style property.
func (s Shape) SetStyle(property, value string) { dom.SetStyle(s.node, property, value) }

// RemoveStyle deletes an inline style property.
func (s Shape) RemoveStyle(property string) { dom.RemoveStyle(s.node, property) }

// ColorableShapes enumerates, in document order, the shapes a colour can be
// painted onto. The result reflects the document's current attributes and must
// not be cached across mutations.
func ColorableShapes(doc *Document) []Shape {
	if doc == nil || doc.root == nil {
		return nil
	}

	var shapes []Shape
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, hidden := hiddenContainers[strings.ToLower(n.Data)]; hidden {
				return
			}
			if _, ok := candidateTags[n.Data]; ok && IsColorable(n) {
				shapes = append(shapes, Shape{Index: len(shapes), node: n})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc.root)

	return shapes
}

// CountColorable is shorthand for len(ColorableShapes(doc)).
func CountColorable(doc *Document) int {
	return len(ColorableShapes(doc))
}

// IsColorable applies the classification rule to a single element:
// fill "none" is excluded, any explicit fill is included, a stroke without a
// fill is treated as outline decoration, and everything else defaults to a
// black fill and is included.
func IsColorable(n *html.Node) bool {
	fill, hasFill := paintValue(n, "fill")
	if hasFill && strings.EqualFold(fill, "none") {
		return false
	}
	if hasFill {
		return true
	}
	if _, hasStroke := paintValue(n, "stroke"); hasStroke {
		return false
	}
	return true
}

func paintValue(n *html.Node, property string) (string, bool) {
	if v, ok := dom.Style(n, property); ok {
		return strings.TrimSpace(v), true
	}
	if v, ok := dom.Attr(n, property); ok {
		return strings.TrimSpace(v), true
	}
	return "", false
}
