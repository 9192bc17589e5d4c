// Package assets provides ports.Fetcher implementations for illustrations and
// swatch images.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

// DefaultMaxBytes bounds the size of a fetched asset.
const DefaultMaxBytes int64 = 8 << 20

// HTTPOptions configures an HTTPFetcher.
type HTTPOptions struct {
	Client *http.Client
	// Timeout applies per request. Zero means no timeout.
	Timeout   time.Duration
	MaxBytes  int64
	UserAgent string
}

// HTTPFetcher performs GET requests for asset references.
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher constructs an HTTPFetcher.
func NewHTTPFetcher(opts HTTPOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	maxBytes := opts.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "colorpick"
	}
	return &HTTPFetcher{
		client:    client,
		timeout:   opts.Timeout,
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// Fetch implements ports.Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/svg+xml,image/*;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, colorpickerrors.NewFetchError(ref, resp.StatusCode, fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > f.maxBytes {
		return nil, colorpickerrors.NewFetchError(ref, 0, fmt.Errorf("asset exceeds %d bytes", f.maxBytes))
	}
	return body, nil
}

var _ ports.Fetcher = (*HTTPFetcher)(nil)
