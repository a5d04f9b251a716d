package api

import "strings"

// SplitFullName splits "owner/name" into its parts. A name without a slash
// yields an empty owner.
func SplitFullName(fullName string) (owner, name string) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 {
		return "", fullName
	}
	return parts[0], parts[1]
}

// ApplicationFromConnect builds a registry entry from a connect response,
// falling back field by field to locally derived defaults wherever the
// server omitted a value: owner/name parsed from fullName, status pending,
// private false, live_url and created_at null.
func ApplicationFromConnect(fullName string, resp ConnectResponse) Application {
	owner, name := SplitFullName(fullName)

	app := Application{
		ID:        resp.ID,
		RepoOwner: owner,
		RepoName:  name,
		FullName:  fullName,
		Status:    StatusPending,
		LiveURL:   resp.LiveURL,
		CreatedAt: resp.CreatedAt,
	}
	if resp.RepoOwner != "" {
		app.RepoOwner = resp.RepoOwner
	}
	if resp.RepoName != "" {
		app.RepoName = resp.RepoName
	}
	if resp.FullName != "" {
		app.FullName = resp.FullName
	} else {
		// full_name is the derived composite of whatever owner/name won
		app.FullName = app.RepoOwner + "/" + app.RepoName
	}
	if resp.Status != "" {
		app.Status = resp.Status
	}
	if resp.Private != nil {
		app.Private = *resp.Private
	}
	return app
}
