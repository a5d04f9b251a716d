package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitFullName(t *testing.T) {
	tests := []struct {
		in        string
		wantOwner string
		wantName  string
	}{
		{"octocat/hello", "octocat", "hello"},
		{"octocat/hello/world", "octocat", "hello/world"},
		{"justname", "", "justname"},
		{"", "", ""},
	}
	for _, tt := range tests {
		owner, name := SplitFullName(tt.in)
		assert.Equal(t, tt.wantOwner, owner, tt.in)
		assert.Equal(t, tt.wantName, name, tt.in)
	}
}

func TestApplicationFromConnectDefaults(t *testing.T) {
	// Server returned only an id: every other field falls back.
	app := ApplicationFromConnect("octocat/hello", ConnectResponse{ID: 5})

	assert.Equal(t, 5, app.ID)
	assert.Equal(t, "octocat", app.RepoOwner)
	assert.Equal(t, "hello", app.RepoName)
	assert.Equal(t, "octocat/hello", app.FullName)
	assert.Equal(t, StatusPending, app.Status)
	assert.False(t, app.Private)
	assert.Nil(t, app.LiveURL)
	assert.Nil(t, app.CreatedAt)
}

func TestApplicationFromConnectServerFieldsWin(t *testing.T) {
	private := true
	url := "https://hello.vercel.app"
	resp := ConnectResponse{
		ID:        5,
		RepoOwner: "Octocat",
		RepoName:  "Hello",
		FullName:  "Octocat/Hello",
		Status:    StatusDeploying,
		Private:   &private,
		LiveURL:   &url,
	}

	app := ApplicationFromConnect("octocat/hello", resp)
	assert.Equal(t, "Octocat", app.RepoOwner)
	assert.Equal(t, "Hello", app.RepoName)
	assert.Equal(t, "Octocat/Hello", app.FullName)
	assert.Equal(t, StatusDeploying, app.Status)
	assert.True(t, app.Private)
	assert.Equal(t, &url, app.LiveURL)
}

func TestApplicationFromConnectDerivedFullName(t *testing.T) {
	// full_name always equals "{owner}/{name}" when the server omits it,
	// even when the server supplied the parts.
	resp := ConnectResponse{ID: 5, RepoOwner: "other", RepoName: "repo"}
	app := ApplicationFromConnect("octocat/hello", resp)
	assert.Equal(t, "other/repo", app.FullName)
}

func TestStatusNormalize(t *testing.T) {
	// Synonym pairs collapse for display but stay distinct values.
	assert.Equal(t, StatusDeploying, StatusBuilding.Normalize())
	assert.Equal(t, StatusReady, StatusActive.Normalize())
	assert.Equal(t, StatusPending, StatusPending.Normalize())
	assert.Equal(t, StatusError, StatusError.Normalize())
	assert.NotEqual(t, StatusBuilding, StatusDeploying)
}
