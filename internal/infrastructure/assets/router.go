package assets

import (
	"context"
	"net/url"
	"strings"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
	colorpickerrors "github.com/alexisbeaulieu97/colorpick/pkg/errors"
)

// Router dispatches references by scheme: http(s) goes to Remote, everything
// else to Local. When Base is an absolute http(s) URL, relative references are
// resolved against it first, the way a page resolves asset paths.
type Router struct {
	Base   string
	Remote ports.Fetcher
	Local  ports.Fetcher
}

// Fetch implements ports.Fetcher.
func (r Router) Fetch(ctx context.Context, ref string) ([]byte, error) {
	resolved := r.Resolve(ref)
	if isRemote(resolved) {
		if r.Remote == nil {
			return nil, colorpickerrors.NewFetchError(ref, 0, errNoFetcher("remote"))
		}
		return r.Remote.Fetch(ctx, resolved)
	}
	if r.Local == nil {
		return nil, colorpickerrors.NewFetchError(ref, 0, errNoFetcher("local"))
	}
	return r.Local.Fetch(ctx, resolved)
}

// Resolve returns the reference that will actually be fetched.
func (r Router) Resolve(ref string) string {
	if isRemote(ref) || !isRemote(r.Base) {
		return ref
	}
	base, err := url.Parse(r.Base)
	if err != nil {
		return ref
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return base.ResolveReference(rel).String()
}

func isRemote(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

type errNoFetcher string

func (e errNoFetcher) Error() string { return "no " + string(e) + " fetcher configured" }

var _ ports.Fetcher = Router{}
