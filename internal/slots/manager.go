// Package slots tracks which colour control occupies which colour slot.
//
// A Manager owns two structures: an ordered arena of slots and an index from
// control id to slot position. Every mutation goes through Assign, Release or
// Rebuild so the two can never disagree: a control id is indexed iff exactly
// one slot holds it.
package slots

import (
	"errors"
	"fmt"
)

// DefaultCapacity is the slot count used before any illustration has been measured.
const DefaultCapacity = 5

// ErrCapacityExceeded is returned by Assign when every slot is occupied.
var ErrCapacityExceeded = errors.New("all colour slots are occupied")

// Assignment is the content of an occupied slot.
type Assignment struct {
	ControlID string
	Color     string
}

// Entry pairs an assignment with the slot index it occupies.
type Entry struct {
	Index int
	Assignment
}

// Manager is the slot arena plus its reverse index. It is not safe for
// concurrent use; callers serialise access.
type Manager struct {
	slots []*Assignment
	index map[string]int
}

// New creates a manager with capacity empty slots. Non-positive capacities
// fall back to DefaultCapacity.
func New(capacity int) *Manager {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Manager{
		slots: make([]*Assignment, capacity),
		index: make(map[string]int),
	}
}

// Assign stores (controlID, color) in the lowest empty slot. It reports the
// slot index and whether anything changed; a control that already holds a slot
// is left untouched. ErrCapacityExceeded is returned when no slot is free.
func (m *Manager) Assign(controlID, color string) (int, bool, error) {
	if idx, ok := m.index[controlID]; ok {
		return idx, false, nil
	}

	for i, slot := range m.slots {
		if slot != nil {
			continue
		}
		m.slots[i] = &Assignment{ControlID: controlID, Color: color}
		m.index[controlID] = i
		return i, true, nil
	}

	return -1, false, ErrCapacityExceeded
}

// Release frees the slot held by controlID. Unknown ids are ignored.
func (m *Manager) Release(controlID string) (int, bool) {
	idx, ok := m.index[controlID]
	if !ok {
		return -1, false
	}
	m.slots[idx] = nil
	delete(m.index, controlID)
	return idx, true
}

// SlotOf returns the slot index held by controlID.
func (m *Manager) SlotOf(controlID string) (int, bool) {
	idx, ok := m.index[controlID]
	return idx, ok
}

// Has reports whether controlID holds a slot.
func (m *Manager) Has(controlID string) bool {
	_, ok := m.index[controlID]
	return ok
}

// At returns the assignment stored at index, if any.
func (m *Manager) At(index int) (Assignment, bool) {
	if index < 0 || index >= len(m.slots) || m.slots[index] == nil {
		return Assignment{}, false
	}
	return *m.slots[index], true
}

// Capacity returns the number of slots.
func (m *Manager) Capacity() int { return len(m.slots) }

// Occupied returns the number of filled slots.
func (m *Manager) Occupied() int { return len(m.index) }

// Full reports whether every slot, across the whole capacity, is filled.
func (m *Manager) Full() bool { return len(m.index) == len(m.slots) }

// FilledThrough reports whether every slot in [0, n) is occupied. n larger than
// the capacity can never be satisfied; n <= 0 is trivially satisfied.
func (m *Manager) FilledThrough(n int) bool {
	if n > len(m.slots) {
		return false
	}
	for i := 0; i < n; i++ {
		if m.slots[i] == nil {
			return false
		}
	}
	return true
}

// Snapshot returns the occupied slots in ascending index order.
func (m *Manager) Snapshot() []Entry {
	entries := make([]Entry, 0, len(m.index))
	for i, slot := range m.slots {
		if slot != nil {
			entries = append(entries, Entry{Index: i, Assignment: *slot})
		}
	}
	return entries
}

// Rebuild empties the manager, resizes it to capacity and replays entries at
// their recorded indices. Capacity never drops below the current capacity or
// below what the entries need. Entries with a duplicate control id or an index
// already taken by an earlier entry are dropped and returned.
func (m *Manager) Rebuild(capacity int, entries []Entry) []Entry {
	if capacity < len(m.slots) {
		capacity = len(m.slots)
	}
	for _, e := range entries {
		if e.Index >= capacity {
			capacity = e.Index + 1
		}
	}

	m.slots = make([]*Assignment, capacity)
	m.index = make(map[string]int, len(entries))

	var dropped []Entry
	for _, e := range entries {
		if e.Index < 0 || m.slots[e.Index] != nil {
			dropped = append(dropped, e)
			continue
		}
		if _, dup := m.index[e.ControlID]; dup {
			dropped = append(dropped, e)
			continue
		}
		assignment := e.Assignment
		m.slots[e.Index] = &assignment
		m.index[e.ControlID] = e.Index
	}
	return dropped
}

// Check verifies that the arena and index describe the same bijection.
func (m *Manager) Check() error {
	occupied := 0
	for i, slot := range m.slots {
		if slot == nil {
			continue
		}
		occupied++
		idx, ok := m.index[slot.ControlID]
		if !ok {
			return fmt.Errorf("slot %d holds %q which is not indexed", i, slot.ControlID)
		}
		if idx != i {
			return fmt.Errorf("slot %d holds %q but index points at %d", i, slot.ControlID, idx)
		}
	}
	if occupied != len(m.index) {
		return fmt.Errorf("%d occupied slots but %d indexed controls", occupied, len(m.index))
	}
	return nil
}
