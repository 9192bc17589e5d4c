package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func validateFile(kind, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%s file is required", kind)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s path: %w", kind, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%s file does not exist: %w", kind, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s path %s is a directory", kind, abs)
	}

	return nil
}

// parseColorArg splits "id" or "id=value".
func parseColorArg(arg string) (id, value string, err error) {
	id, value, _ = strings.Cut(arg, "=")
	id = strings.TrimSpace(id)
	value = strings.TrimSpace(value)
	if id == "" {
		return "", "", fmt.Errorf("invalid --color %q: missing control id", arg)
	}
	return id, value, nil
}
