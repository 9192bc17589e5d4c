package picker

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/colorpick/internal/illustration"
)

// MemoryHost is a Host without a page: it keeps the mounted illustration and
// control states in memory. Terminal front ends and tests use it.
type MemoryHost struct {
	mu        sync.Mutex
	mounted   *illustration.Document
	mounts    int
	checked   map[string]bool
	available map[string]bool
}

// NewMemoryHost returns an empty MemoryHost.
func NewMemoryHost() *MemoryHost {
	return &MemoryHost{
		checked:   make(map[string]bool),
		available: make(map[string]bool),
	}
}

// Mount implements loader.Mount.
func (h *MemoryHost) Mount(_ context.Context, doc *illustration.Document) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mounted = doc
	h.mounts++
	return nil
}

// SetChecked implements Host.
func (h *MemoryHost) SetChecked(id string, checked bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checked[id] = checked
	return true
}

// SetAvailable implements Host.
func (h *MemoryHost) SetAvailable(id string, available bool) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.available[id] = available
	return true
}

// Mounted returns the mounted illustration.
func (h *MemoryHost) Mounted() *illustration.Document {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounted
}

// Mounts returns how many times an illustration was mounted.
func (h *MemoryHost) Mounts() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.mounts
}

// Checked reports the last checked state written for id.
func (h *MemoryHost) Checked(id string) (bool, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.checked[id]
	return v, ok
}

// Available reports the last availability written for id. Controls never
// written are available.
func (h *MemoryHost) Available(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	v, ok := h.available[id]
	return !ok || v
}

var _ Host = (*MemoryHost)(nil)
