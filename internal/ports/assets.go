package ports

import "context"

// Fetcher retrieves the raw bytes behind an asset reference such as an
// illustration URL or a swatch image path. Implementations must honour ctx
// cancellation and report failures as *errors.FetchError.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, ref string) ([]byte, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, ref string) ([]byte, error) {
	return f(ctx, ref)
}
