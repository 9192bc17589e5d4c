// Package swatch interprets colour values and extracts them from swatch images.
package swatch

import (
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	// Decoders for the swatch formats product pages typically use.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrEmptyImage is returned for images without pixels.
var ErrEmptyImage = errors.New("swatch image has no pixels")

// Resolve interprets a colour value as hex (#rgb or #rrggbb) or an SVG/CSS
// colour keyword. Values it cannot interpret are reported as not ok; they are
// still valid opaque colour values for painting.
func Resolve(value string) (colorful.Color, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return colorful.Color{}, false
	}
	if strings.HasPrefix(v, "#") {
		c, err := colorful.Hex(expandShortHex(v))
		if err != nil {
			return colorful.Color{}, false
		}
		return c, true
	}
	if rgba, ok := colornames.Map[v]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, true
	}
	return colorful.Color{}, false
}

// Hex normalises value to #rrggbb when it can be resolved, and returns it
// unchanged otherwise.
func Hex(value string) string {
	c, ok := Resolve(value)
	if !ok {
		return value
	}
	return c.Hex()
}

func expandShortHex(v string) string {
	if len(v) != 4 {
		return v
	}
	return fmt.Sprintf("#%c%c%c%c%c%c", v[1], v[1], v[2], v[2], v[3], v[3])
}

// FromImage decodes a swatch image and returns the colour of its centre pixel
// as #rrggbb.
func FromImage(r io.Reader) (string, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return "", fmt.Errorf("decode swatch image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Empty() {
		return "", ErrEmptyImage
	}

	x := bounds.Min.X + bounds.Dx()/2
	y := bounds.Min.Y + bounds.Dy()/2
	c, _ := colorful.MakeColor(img.At(x, y))
	return c.Hex(), nil
}
