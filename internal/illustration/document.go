// Package illustration parses SVG markup into a mutable document and
// classifies the shapes a user is allowed to colour.
package illustration

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/alexisbeaulieu97/colorpick/internal/dom"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

// ErrNoRoot is returned when the markup does not contain an <svg> element.
var ErrNoRoot = errors.New("no <svg> root element")

// Document is a parsed, mutable vector illustration. The zero value is not usable;
// construct documents with Parse.
type Document struct {
	ref  string
	root *html.Node
}

// Parse checks that data is well-formed XML rooted at <svg> and builds a DOM for it.
// ref is only used to label errors.
func Parse(ref string, data []byte) (*Document, error) {
	if err := checkWellFormed(data); err != nil {
		return nil, colorpickerrors.NewParseError(ref, lineOf(err), err)
	}

	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(data), context)
	if err != nil {
		return nil, colorpickerrors.NewParseError(ref, 0, err)
	}

	for _, n := range nodes {
		if root := dom.First(n, isSVG); root != nil {
			if root.Parent != nil {
				root.Parent.RemoveChild(root)
			}
			return &Document{ref: ref, root: root}, nil
		}
	}

	return nil, colorpickerrors.NewParseError(ref, 0, ErrNoRoot)
}

// Ref returns the reference the document was loaded from.
func (d *Document) Ref() string {
	if d == nil {
		return ""
	}
	return d.ref
}

// Root returns the <svg> element. Callers mounting the document into a host page
// take ownership of the node.
func (d *Document) Root() *html.Node {
	if d == nil {
		return nil
	}
	return d.root
}

// Render writes the document markup to w.
func (d *Document) Render(w io.Writer) error {
	if d == nil || d.root == nil {
		return ErrNoRoot
	}
	return html.Render(w, d.root)
}

// String renders the document, returning an empty string on failure.
func (d *Document) String() string {
	var buf strings.Builder
	if err := d.Render(&buf); err != nil {
		return ""
	}
	return buf.String()
}

// RootStyle returns the value of an inline style property on the <svg> element.
func (d *Document) RootStyle(property string) (string, bool) {
	if d == nil || d.root == nil {
		return "", false
	}
	return dom.Style(d.root, property)
}

// SetRootStyle sets an inline style property on the <svg> element.
func (d *Document) SetRootStyle(property, value string) {
	if d == nil || d.root == nil {
		return
	}
	dom.SetStyle(d.root, property, value)
}

// RemoveRootStyle removes an inline style property from the <svg> element.
func (d *Document) RemoveRootStyle(property string) {
	if d == nil || d.root == nil {
		return
	}
	dom.RemoveStyle(d.root, property)
}

func checkWellFormed(data []byte) error {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	decoder.Strict = true
	decoder.Entity = xml.HTMLEntity

	sawRoot := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || sawRoot {
			continue
		}
		sawRoot = true
		if !strings.EqualFold(start.Name.Local, "svg") {
			return fmt.Errorf("%w: found <%s>", ErrNoRoot, start.Name.Local)
		}
	}

	if !sawRoot {
		return ErrNoRoot
	}
	return nil
}

func lineOf(err error) int {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Line
	}
	return 0
}

func isSVG(n *html.Node) bool { return n.Data == "svg" }
