// Package loader fetches illustrations, parses them and installs them on a
// mount point, tracking which one is active.
package loader

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
	"github.com/alexisbeaulieu97/colorpick/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

var (
	// ErrStaleLoad is returned when a load is superseded by a newer request
	// before it could be committed.
	ErrStaleLoad = errors.New("illustration load superseded by a newer request")
	// ErrNoMountPoint is returned by mounts that cannot find their container.
	ErrNoMountPoint = errors.New("illustration mount point not found")
)

// Mount installs a parsed illustration in place of the previous one.
type Mount interface {
	Mount(ctx context.Context, doc *illustration.Document) error
}

// MountFunc adapts a function to Mount.
type MountFunc func(ctx context.Context, doc *illustration.Document) error

// Mount implements Mount.
func (f MountFunc) Mount(ctx context.Context, doc *illustration.Document) error {
	return f(ctx, doc)
}

// Ticket identifies one load request. Only the ticket issued by the most
// recent Begin can be committed.
type Ticket struct {
	Seq uint64
	Ref string
}

// Loader owns the active illustration.
type Loader struct {
	fetcher ports.Fetcher
	mount   Mount
	logger  ports.Logger

	mu        sync.Mutex
	seq       uint64
	active    *illustration.Document
	activeRef string
}

// New creates a Loader. A nil logger discards log output.
func New(fetcher ports.Fetcher, mount Mount, logger ports.Logger) *Loader {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Loader{
		fetcher: fetcher,
		mount:   mount,
		logger:  logger.With("component", "loader"),
	}
}

// Active returns the active illustration and its reference. Both are zero
// until the first successful load.
func (l *Loader) Active() (*illustration.Document, string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active, l.activeRef
}

// Begin registers a load request for ref. Every call supersedes earlier
// tickets, including calls for the already active reference, so a click back
// to the current model cancels a pending switch away from it. The boolean is
// false when ref is already active and nothing needs fetching.
func (l *Loader) Begin(ref string) (Ticket, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	t := Ticket{Seq: l.seq, Ref: ref}
	return t, ref != l.activeRef || l.active == nil
}

// Fetch retrieves and parses the illustration for t without touching the
// active state.
func (l *Loader) Fetch(ctx context.Context, t Ticket) (*illustration.Document, error) {
	started := time.Now()
	data, err := l.fetcher.Fetch(ctx, t.Ref)
	if err != nil {
		l.logger.Error(ctx, "illustration fetch failed", "ref", t.Ref, "seq", t.Seq, "error", err)
		return nil, err
	}

	doc, err := illustration.Parse(t.Ref, data)
	if err != nil {
		l.logger.Error(ctx, "illustration parse failed", "ref", t.Ref, "seq", t.Seq, "error", err)
		return nil, err
	}

	l.logger.Debug(ctx, "illustration fetched",
		"ref", t.Ref,
		"seq", t.Seq,
		"bytes", len(data),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return doc, nil
}

// Current reports whether t is still the newest request.
func (l *Loader) Current(t Ticket) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return t.Seq == l.seq
}

// Commit mounts doc and marks it active, unless a newer Begin has happened in
// the meantime, in which case ErrStaleLoad is returned and nothing changes.
func (l *Loader) Commit(ctx context.Context, t Ticket, doc *illustration.Document) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t.Seq != l.seq {
		l.logger.Debug(ctx, "dropping stale illustration", "ref", t.Ref, "seq", t.Seq, "latest", l.seq)
		return ErrStaleLoad
	}

	if l.mount != nil {
		if err := l.mount.Mount(ctx, doc); err != nil {
			l.logger.Warn(ctx, "illustration mount failed", "ref", t.Ref, "error", err)
			return err
		}
	}

	l.active = doc
	l.activeRef = t.Ref
	l.logger.Info(ctx, "illustration active", "ref", t.Ref)
	return nil
}

// Load runs Begin, Fetch and Commit. Loading the active reference is a no-op
// that returns the active document.
func (l *Loader) Load(ctx context.Context, ref string) (*illustration.Document, error) {
	t, needed := l.Begin(ref)
	if !needed {
		doc, _ := l.Active()
		return doc, nil
	}

	doc, err := l.Fetch(ctx, t)
	if err != nil {
		return nil, err
	}
	if err := l.Commit(ctx, t, doc); err != nil {
		return nil, err
	}
	return doc, nil
}
