package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

// FileFetcher reads assets from disk. Relative references resolve against Base.
type FileFetcher struct {
	Base string
}

// Fetch implements ports.Fetcher.
func (f FileFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, err)
	}

	path := strings.TrimPrefix(ref, "file://")
	if !filepath.IsAbs(path) && f.Base != "" {
		path = filepath.Join(f.Base, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, err)
	}
	return data, nil
}

var _ ports.Fetcher = FileFetcher{}
