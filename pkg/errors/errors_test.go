package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("catalog.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "catalog.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "catalog.yaml:12")
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("model-a.svg", 0, stdErrors.New("no svg root"))
	require.Equal(t, "parse error: model-a.svg: no svg root", err.Error())
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("colors[1].id", "duplicate color id \"red\"", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "colors[1].id", validationErr.Field)
	require.Contains(t, err.Error(), "duplicate color id")
}

func TestFetchErrorReportsStatus(t *testing.T) {
	t.Parallel()

	err := NewFetchError("https://example.test/a.svg", 404, nil)

	var fetchErr *FetchError
	require.ErrorAs(t, err, &fetchErr)
	require.Equal(t, 404, fetchErr.StatusCode)
	require.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchErrorWrapsTransportFailure(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("connection refused")
	err := NewFetchError("models/b.svg", 0, underlying)

	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "connection refused")
}
