package form

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/colorpick/internal/dom"
	"github.com/alexisbeaulieu97/colorpick/internal/page"
)

const orderForm = `<form>
  <input type="checkbox" hidden-data="colors" value="Red" checked>
  <input type="checkbox" hidden-data="colors" value="Blue">
  <input type="checkbox" hidden-data="colors" value="Green" checked>
  <input type="checkbox" hidden-data="extras" value="Frame">
  <input type="hidden" id="colors" value="stale">
  <input type="hidden" id="extras" value="stale">
</form>`

func TestFillHiddenJoinsCheckedValuesInOrder(t *testing.T) {
	p, err := page.Parse(strings.NewReader(orderForm))
	require.NoError(t, err)

	v, ok := FillHidden(p, "colors")
	require.True(t, ok)
	require.Equal(t, "Red, Green", v)

	stored, _ := dom.Attr(p.Field("colors"), "value")
	require.Equal(t, "Red, Green", stored)
}

func TestFillHiddenClearsWhenNothingChecked(t *testing.T) {
	p, err := page.Parse(strings.NewReader(orderForm))
	require.NoError(t, err)

	v, ok := FillHidden(p, "extras")
	require.True(t, ok)
	require.Empty(t, v)

	stored, _ := dom.Attr(p.Field("extras"), "value")
	require.Empty(t, stored)
}

func TestFillHiddenSkipsMissingField(t *testing.T) {
	p, err := page.Parse(strings.NewReader(`<input type="checkbox" hidden-data="ghost" value="x" checked>`))
	require.NoError(t, err)

	_, ok := FillHidden(p, "ghost")
	require.False(t, ok)
}

func TestFillAll(t *testing.T) {
	p, err := page.Parse(strings.NewReader(orderForm))
	require.NoError(t, err)

	require.Equal(t, map[string]string{"colors": "Red, Green", "extras": ""}, FillAll(p, "colors", "extras", "missing"))
}
