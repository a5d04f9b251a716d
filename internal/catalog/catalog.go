// Package catalog filters the connectable-repository list. The list itself
// is fetched fresh each time the picker opens and is never cached.
package catalog

import (
	"strings"

	"github.com/sanos/tui-go/internal/api"
)

// Filter returns the repositories whose full name contains query,
// case-insensitively. The source slice is never mutated; an empty query
// returns a copy of the full list so a cleared filter restores everything.
func Filter(repos []api.Repository, query string) []api.Repository {
	if query == "" {
		out := make([]api.Repository, len(repos))
		copy(out, repos)
		return out
	}
	q := strings.ToLower(query)
	var out []api.Repository
	for _, r := range repos {
		if strings.Contains(strings.ToLower(r.FullName), q) {
			out = append(out, r)
		}
	}
	return out
}
