// Package dom holds the small set of node helpers the illustration and page
// packages share on top of golang.org/x/net/html.
package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Attr returns the value of a non-namespaced attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether the attribute is present.
func HasAttr(n *html.Node, key string) bool {
	_, ok := Attr(n, key)
	return ok
}

// SetAttr sets or adds an attribute.
func SetAttr(n *html.Node, key, value string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = value
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr deletes an attribute.
func RemoveAttr(n *html.Node, key string) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

// HasClass reports whether the class attribute contains name.
func HasClass(n *html.Node, name string) bool {
	classes, ok := Attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(classes) {
		if c == name {
			return true
		}
	}
	return false
}

// IsElement reports whether n is an element named tag.
func IsElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// FindAll returns every element below root (root included) matching pred, in
// document order.
func FindAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// First returns the first element matching pred, or nil.
func First(root *html.Node, pred func(*html.Node) bool) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode && pred(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := First(c, pred); found != nil {
			return found
		}
	}
	return nil
}

// ByID returns the element with the given id.
func ByID(root *html.Node, id string) *html.Node {
	if id == "" {
		return nil
	}
	return First(root, func(n *html.Node) bool {
		v, ok := Attr(n, "id")
		return ok && v == id
	})
}

// Closest walks up from n (inclusive) to the first element matching pred.
func Closest(n *html.Node, pred func(*html.Node) bool) *html.Node {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && pred(cur) {
			return cur
		}
	}
	return nil
}

// ReplaceChildren removes every child of parent and appends children.
func ReplaceChildren(parent *html.Node, children ...*html.Node) {
	for c := parent.FirstChild; c != nil; {
		next := c.NextSibling
		parent.RemoveChild(c)
		c = next
	}
	for _, c := range children {
		if c.Parent != nil {
			c.Parent.RemoveChild(c)
		}
		parent.AppendChild(c)
	}
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	ReplaceChildren(n, &html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated text content of n.
func Text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}

// Declarations parses the inline style attribute. Unparseable styles are
// treated as empty.
func Declarations(n *html.Node) []*css.Declaration {
	raw, ok := Attr(n, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	// The last declaration parses with an empty value unless terminated.
	decls, err := parser.ParseDeclarations(strings.TrimRight(strings.TrimSpace(raw), "; ") + ";")
	if err != nil {
		return nil
	}
	return decls
}

// Style returns the value of an inline style property. When the property is
// declared more than once the last declaration wins.
func Style(n *html.Node, property string) (string, bool) {
	value, found := "", false
	for _, decl := range Declarations(n) {
		if strings.EqualFold(decl.Property, property) {
			value, found = strings.TrimSpace(decl.Value), true
		}
	}
	return value, found
}

// SetStyle sets an inline style property, keeping declaration order.
func SetStyle(n *html.Node, property, value string) {
	decls := Declarations(n)
	found := false
	for _, decl := range decls {
		if strings.EqualFold(decl.Property, property) {
			decl.Value = value
			found = true
		}
	}
	if !found {
		decls = append(decls, &css.Declaration{Property: property, Value: value})
	}
	writeStyle(n, decls)
}

// RemoveStyle deletes an inline style property, dropping the attribute when
// nothing is left.
func RemoveStyle(n *html.Node, property string) {
	decls := Declarations(n)
	kept := decls[:0]
	for _, decl := range decls {
		if strings.EqualFold(decl.Property, property) {
			continue
		}
		kept = append(kept, decl)
	}
	writeStyle(n, kept)
}

func writeStyle(n *html.Node, decls []*css.Declaration) {
	if len(decls) == 0 {
		RemoveAttr(n, "style")
		return
	}
	parts := make([]string, 0, len(decls))
	for _, decl := range decls {
		part := decl.Property + ": " + decl.Value
		if decl.Important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	SetAttr(n, "style", strings.Join(parts, "; "))
}
