// Package apps holds the client-side projection of connected applications
// and the orchestration that mutates it.
package apps

import (
	"sync"

	"github.com/sanos/tui-go/internal/api"
)

// Registry is the ordered in-memory collection of connected applications.
// Insertion order is the only ordering guarantee. Ids are unique: appending
// an application whose id is already present replaces the existing entry in
// place instead of duplicating it.
//
// The mutex makes concurrent command goroutines memory-safe; it does not
// sequence user actions against each other. Double-submit of the same
// action is prevented by single-slot in-flight markers, not here.
type Registry struct {
	mu         sync.RWMutex
	entries    []api.Application
	deletingID int // id with a delete in flight, 0 when none
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// List returns a copy of the entries in insertion order
func (r *Registry) List() []api.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]api.Application, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Get returns the entry with the given id
func (r *Registry) Get(id int) (api.Application, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, true
		}
	}
	return api.Application{}, false
}

// Append adds an entry, replacing in place any existing entry with the
// same id
func (r *Registry) Append(app api.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == app.ID {
			r.entries[i] = app
			return
		}
	}
	r.entries = append(r.entries, app)
}

// Replace swaps the whole collection, preserving the server's order.
// Used when reloading the list from the backend.
func (r *Registry) Replace(entries []api.Application) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = make([]api.Application, len(entries))
	copy(r.entries, entries)
}

// Remove drops the entry with the given id. Callers must only invoke it
// after the server has confirmed the deletion.
func (r *Registry) Remove(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == id {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			return true
		}
	}
	return false
}

// MarkDeleting claims the single delete-in-flight slot for id. It returns
// false when another delete is already in flight, so the UI can disable
// repeated clicks.
func (r *Registry) MarkDeleting(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deletingID != 0 {
		return false
	}
	r.deletingID = id
	return true
}

// ClearDeleting releases the delete-in-flight slot
func (r *Registry) ClearDeleting() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletingID = 0
}

// Deleting reports whether a delete is in flight for id
func (r *Registry) Deleting(id int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.deletingID == id && id != 0
}
