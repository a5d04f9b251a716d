package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanos/tui-go/internal/api"
)

func repos() []api.Repository {
	return []api.Repository{
		{FullName: "octocat/Hello-World", Name: "Hello-World"},
		{FullName: "octocat/sanos-demo", Name: "sanos-demo", Private: true},
		{FullName: "someoneelse/widgets", Name: "widgets"},
	}
}

func TestFilterCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(repos(), "HELLO")
	require.Len(t, got, 1)
	assert.Equal(t, "octocat/Hello-World", got[0].FullName)

	got = Filter(repos(), "octocat")
	assert.Len(t, got, 2)
}

func TestFilterNoMatchYieldsEmpty(t *testing.T) {
	src := repos()
	got := Filter(src, "zzz-not-there")
	assert.Empty(t, got)
	// The underlying sequence is untouched.
	assert.Len(t, src, 3)
}

func TestFilterClearedRestoresFullList(t *testing.T) {
	src := repos()
	_ = Filter(src, "widgets")

	got := Filter(src, "")
	require.Len(t, got, 3)
	assert.Equal(t, src, got)

	// The empty-query result is a copy, not an alias.
	got[0].FullName = "mutated"
	assert.Equal(t, "octocat/Hello-World", src[0].FullName)
}
