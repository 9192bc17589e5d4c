package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// ParseCatalog loads a catalog file from disk, applies defaults, validates it,
// and returns the resulting model. A relative base_dir is resolved against the
// catalog's own directory; an empty one means that directory.
func ParseCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, colorpickerrors.NewParseError(path, 0, err)
	}

	cat, err := Parse(path, data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	switch {
	case cat.BaseDir == "":
		cat.BaseDir = dir
	case !filepath.IsAbs(cat.BaseDir) && !isRemote(cat.BaseDir):
		cat.BaseDir = filepath.Join(dir, cat.BaseDir)
	}

	return cat, nil
}

// Parse decodes and validates catalog YAML. source labels errors.
func Parse(source string, data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, colorpickerrors.NewParseError(source, extractLine(err), err)
	}

	cat.applyDefaults()
	if err := ValidateCatalog(&cat); err != nil {
		return nil, err
	}

	return &cat, nil
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}

	return line
}
