// Package events models the document-level pointer listener a form uses to
// close its open dropdown when the user clicks elsewhere. Listeners are scoped:
// registering returns a release function that must run when the owner goes
// away.
package events

import (
	"sort"
	"sync"
)

// PointerEvent describes a pointer-down somewhere on the page.
type PointerEvent struct {
	// Containers lists the ids of the dropdown containers that enclose the
	// event target. Empty means the pointer landed outside every dropdown.
	Containers []string
}

// Inside reports whether the event target is within the container id.
func (e PointerEvent) Inside(id string) bool {
	for _, container := range e.Containers {
		if container == id {
			return true
		}
	}
	return false
}

// Listener handles pointer-down events.
type Listener func(PointerEvent)

// Document is the page-level event target shared by everything mounted on one
// page.
type Document struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]Listener
}

// NewDocument returns a Document with no listeners.
func NewDocument() *Document {
	return &Document{listeners: make(map[uint64]Listener)}
}

// OnPointerDown registers fn and returns the function that removes it. The
// release function is safe to call more than once.
func (d *Document) OnPointerDown(fn Listener) (release func()) {
	if fn == nil {
		return func() {}
	}

	d.mu.Lock()
	if d.listeners == nil {
		d.listeners = make(map[uint64]Listener)
	}
	d.next++
	id := d.next
	d.listeners[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// DispatchPointerDown delivers ev to every registered listener in
// registration order. Listeners run outside the document lock so they may
// register or release listeners themselves.
func (d *Document) DispatchPointerDown(ev PointerEvent) {
	d.mu.Lock()
	ids := make([]uint64, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	snapshot := make([]Listener, 0, len(ids))
	for _, id := range ids {
		snapshot = append(snapshot, d.listeners[id])
	}
	d.mu.Unlock()

	for _, fn := range snapshot {
		fn(ev)
	}
}

// ListenerCount reports how many pointer-down listeners are registered.
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
