package config

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/alexisbeaulieu97/colorpick/internal/swatch"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return strings.ToLower(field.Name)
			}
			return name
		})

		_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})

		_ = v.RegisterValidation("color_value", func(fl validator.FieldLevel) bool {
			_, ok := swatch.Resolve(fl.Field().String())
			return ok
		})

		_ = v.RegisterValidation("asset_ref", func(fl validator.FieldLevel) bool {
			return isValidRef(fl.Field().String())
		})

		validateInst = v
	})

	return validateInst
}

// GetValidator returns the configured validator instance for use outside the config package.
func GetValidator() *validator.Validate {
	return validatorInstance()
}

// ValidateCatalog performs schema and cross-field validation on the catalog.
func ValidateCatalog(cat *Catalog) error {
	if cat == nil {
		return colorpickerrors.NewValidationError("catalog", "catalog is nil", nil)
	}

	if err := validatorInstance().Struct(cat); err != nil {
		return convertValidationError(err)
	}

	groups := []struct {
		name string
		ids  []string
	}{
		{"models", idsOf(cat.Models, func(m Model) string { return m.ID })},
		{"colors", idsOf(cat.Colors, func(c Color) string { return c.ID })},
		{"formats", idsOf(cat.Formats, func(p Priced) string { return p.ID })},
		{"options", idsOf(cat.Options, func(p Priced) string { return p.ID })},
	}
	for _, g := range groups {
		seen := make(map[string]struct{}, len(g.ids))
		for i, id := range g.ids {
			if _, dup := seen[id]; dup {
				return colorpickerrors.NewValidationError(fmt.Sprintf("%s[%d].id", g.name, i), fmt.Sprintf("duplicate id %q", id), nil)
			}
			seen[id] = struct{}{}
		}
	}

	return nil
}

func idsOf[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func convertValidationError(err error) error {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		ve := ves[0]
		field := yamlishFieldName(ve)
		msg := fmt.Sprintf("%s failed validation for tag '%s'", field, ve.Tag())
		return colorpickerrors.NewValidationError(field, msg, err)
	}

	return colorpickerrors.NewValidationError("catalog", err.Error(), err)
}

// yamlishFieldName drops the root type from the namespace, leaving the yaml
// path, e.g. "colors[1].value".
func yamlishFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// isValidRef accepts http(s) URLs with a host and syntactically valid paths.
func isValidRef(ref string) bool {
	if strings.TrimSpace(ref) == "" || strings.Contains(ref, "\x00") {
		return false
	}
	if isRemote(ref) {
		u, err := url.Parse(ref)
		return err == nil && u.Host != ""
	}
	return !strings.Contains(ref, "://") || strings.HasPrefix(ref, "file://")
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
