package illustration

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

const sampleSVG = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">
  <defs><rect id="hidden" width="1" height="1"/></defs>
  <rect id="c1" fill="white" width="10" height="10"/>
  <circle id="outline" stroke="black" cx="5" cy="5" r="2"/>
  <g>
    <path id="c2" d="M0 0L1 1"/>
  </g>
  <polygon id="nofill" fill="none" points="0,0 1,1 2,0"/>
  <ellipse id="c3" style="fill: #ff0000" stroke="black" cx="1" cy="1" rx="1" ry="1"/>
  <line id="ignored" x1="0" y1="0" x2="1" y2="1"/>
</svg>`

func shapeIDs(shapes []Shape) []string {
	ids := make([]string, 0, len(shapes))
	for _, s := range shapes {
		ids = append(ids, s.ID())
	}
	return ids
}

func TestColorableShapesAppliesClassificationRule(t *testing.T) {
	t.Parallel()

	doc, err := Parse("sample.svg", []byte(sampleSVG))
	require.NoError(t, err)

	shapes := ColorableShapes(doc)
	require.Equal(t, []string{"c1", "c2", "c3"}, shapeIDs(shapes))
	for i, s := range shapes {
		assert.Equal(t, i, s.Index)
	}
	assert.Equal(t, "ellipse", shapes[2].Tag())
}

func TestColorableShapesIsIdempotent(t *testing.T) {
	t.Parallel()

	doc, err := Parse("sample.svg", []byte(sampleSVG))
	require.NoError(t, err)

	first := shapeIDs(ColorableShapes(doc))
	second := shapeIDs(ColorableShapes(doc))
	require.Equal(t, first, second)
}

func TestColorableShapesReflectsMutations(t *testing.T) {
	t.Parallel()

	doc, err := Parse("sample.svg", []byte(sampleSVG))
	require.NoError(t, err)
	require.Equal(t, 3, CountColorable(doc))

	shapes := ColorableShapes(doc)
	shapes[0].SetAttr("fill", "none")

	require.Equal(t, []string{"c2", "c3"}, shapeIDs(ColorableShapes(doc)))
}

func TestShapeWithNeitherFillNorStrokeIsColorable(t *testing.T) {
	t.Parallel()

	doc, err := Parse("bare.svg", []byte(`<svg><rect id="bare"/><rect id="outlined" stroke="red"/></svg>`))
	require.NoError(t, err)
	require.Equal(t, []string{"bare"}, shapeIDs(ColorableShapes(doc)))
}

func TestStyleFillNoneExcludesShape(t *testing.T) {
	t.Parallel()

	doc, err := Parse("style.svg", []byte(`<svg><path id="a" style="fill:none;stroke:#000"/><path id="b" fill="white"/></svg>`))
	require.NoError(t, err)
	require.Equal(t, []string{"b"}, shapeIDs(ColorableShapes(doc)))
}

func TestStyleFillNoneAsLastDeclarationExcludesShape(t *testing.T) {
	t.Parallel()

	doc, err := Parse("trailing.svg", []byte(`<svg><rect id="a" style="stroke:#000000;fill:none"/><rect id="b" style="fill:red; fill:none"/><rect id="c" fill="red"/></svg>`))
	require.NoError(t, err)
	require.Equal(t, []string{"c"}, shapeIDs(ColorableShapes(doc)))
}

func TestParseRejectsMalformedMarkup(t *testing.T) {
	t.Parallel()

	_, err := Parse("broken.svg", []byte("<svg>\n<rect></svg>"))
	require.Error(t, err)

	var parseErr *colorpickerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "broken.svg", parseErr.Path)
	require.Equal(t, 2, parseErr.Line)
}

func TestParseRequiresSVGRoot(t *testing.T) {
	t.Parallel()

	_, err := Parse("page.html", []byte(`<html><body/></html>`))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNoRoot))

	_, err = Parse("empty.svg", []byte(""))
	require.True(t, errors.Is(err, ErrNoRoot))
}

func TestRenderPreservesSVGCasingAndMutations(t *testing.T) {
	t.Parallel()

	doc, err := Parse("sample.svg", []byte(sampleSVG))
	require.NoError(t, err)

	shapes := ColorableShapes(doc)
	shapes[1].SetAttr("fill", "#00ff00")
	shapes[2].RemoveStyle("fill")
	doc.SetRootStyle("filter", "drop-shadow(0 0 4px black)")

	out := doc.String()
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `viewBox="0 0 100 100"`)
	assert.Contains(t, out, `fill="#00ff00"`)
	assert.Contains(t, out, `style="filter: drop-shadow(0 0 4px black)"`)
	assert.NotContains(t, out, "#ff0000")
}

func TestShapeStyleHelpers(t *testing.T) {
	t.Parallel()

	doc, err := Parse("s.svg", []byte(`<svg><rect id="r" style="opacity: 0.5; fill: blue"/></svg>`))
	require.NoError(t, err)

	shape := ColorableShapes(doc)[0]
	fill, ok := shape.Fill()
	require.True(t, ok)
	require.Equal(t, "blue", fill)

	shape.SetStyle("fill-opacity", "1")
	shape.SetStyle("fill", "red")
	v, ok := shape.Style("fill")
	require.True(t, ok)
	require.Equal(t, "red", v)

	raw, ok := shape.Attr("style")
	require.True(t, ok)
	require.Equal(t, "opacity: 0.5; fill: red; fill-opacity: 1", raw)

	shape.RemoveStyle("opacity")
	shape.RemoveStyle("fill")
	shape.RemoveStyle("fill-opacity")
	_, ok = shape.Attr("style")
	require.False(t, ok)
}
