package apps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanos/tui-go/internal/api"
)

func TestRegistryPreservesInsertionOrder(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 3, FullName: "c/c"})
	r.Append(api.Application{ID: 1, FullName: "a/a"})
	r.Append(api.Application{ID: 2, FullName: "b/b"})

	got := r.List()
	require.Len(t, got, 3)
	// No implied sort by id, time, or name.
	assert.Equal(t, []int{3, 1, 2}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestRegistryAppendReplacesDuplicateID(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 1, FullName: "a/a", Status: api.StatusPending})
	r.Append(api.Application{ID: 2, FullName: "b/b"})
	r.Append(api.Application{ID: 1, FullName: "a/a", Status: api.StatusReady})

	got := r.List()
	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].ID)
	assert.Equal(t, api.StatusReady, got[0].Status)
}

func TestRegistryListIsACopy(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 1, FullName: "a/a"})

	got := r.List()
	got[0].FullName = "mutated"

	fresh, ok := r.Get(1)
	require.True(t, ok)
	assert.Equal(t, "a/a", fresh.FullName)
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 1})
	r.Append(api.Application{ID: 2})
	r.Append(api.Application{ID: 3})

	assert.True(t, r.Remove(2))
	assert.False(t, r.Remove(2))

	got := r.List()
	require.Len(t, got, 2)
	assert.Equal(t, []int{1, 3}, []int{got[0].ID, got[1].ID})
}

func TestRegistryReplaceKeepsServerOrder(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 9})

	r.Replace([]api.Application{{ID: 5}, {ID: 4}})
	got := r.List()
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].ID)
	assert.Equal(t, 4, got[1].ID)
}

func TestRegistryDeletingSlot(t *testing.T) {
	r := NewRegistry()
	r.Append(api.Application{ID: 1})
	r.Append(api.Application{ID: 2})

	require.True(t, r.MarkDeleting(1))
	assert.True(t, r.Deleting(1))
	assert.False(t, r.Deleting(2))

	// Single slot: a second delete cannot start while one is in flight.
	assert.False(t, r.MarkDeleting(2))

	r.ClearDeleting()
	assert.False(t, r.Deleting(1))
	assert.True(t, r.MarkDeleting(2))
}
