package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_ = json.NewEncoder(w).Encode(Profile{ID: 1, Username: "octocat"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok-123")
	profile, err := c.GetProfile()
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotReqID)
	assert.Equal(t, "octocat", profile.Username)
}

func TestClientUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid or expired session"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "stale")

	// Every endpoint maps a 401 to the same sentinel.
	_, err := c.ListApps()
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.ConnectRepository("octocat/hello")
	assert.ErrorIs(t, err, ErrUnauthorized)

	err = c.DeleteApp(1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = c.UpdateSettings("abc")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestClientErrorDetail(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantDetail string
		wantText   string
	}{
		{
			name:       "detail present",
			body:       `{"detail": "Invalid repository name, expected owner/repo"}`,
			wantDetail: "Invalid repository name, expected owner/repo",
			wantText:   "server returned 400: Invalid repository name, expected owner/repo",
		},
		{
			name:       "detail absent",
			body:       `{}`,
			wantDetail: "",
			wantText:   "server returned 400: unknown error",
		},
		{
			name:       "body not json",
			body:       "bad gateway",
			wantDetail: "",
			wantText:   "server returned 400: unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL, "tok")
			_, err := c.ConnectRepository("nope")
			require.Error(t, err)

			apiErr, ok := Rejection(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.wantDetail, apiErr.Detail)
			assert.Equal(t, tt.wantText, apiErr.Error())
		})
	}
}

func TestClientTransportFailureIsNotRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, "tok")
	_, err := c.ListApps()
	require.Error(t, err)

	_, ok := Rejection(err)
	assert.False(t, ok)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestConnectRepositorySendsFullName(t *testing.T) {
	var gotPath string
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(ConnectResponse{ID: 4, FullName: "octocat/hello"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	resp, err := c.ConnectRepository("octocat/hello")
	require.NoError(t, err)

	assert.Equal(t, "/apps/connect", gotPath)
	assert.Equal(t, map[string]string{"full_name": "octocat/hello"}, gotBody)
	assert.Equal(t, 4, resp.ID)
}

func TestCreateDeploymentSendsRepoName(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/deploy/create", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(DeployResponse{Success: true, AppID: 4})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	resp, err := c.CreateDeployment("octocat/hello")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"repo_name": "octocat/hello"}, gotBody)
	assert.Equal(t, 4, resp.AppID)
}

func TestUpdateSettingsRoundTrip(t *testing.T) {
	// The server stores the secret and echoes only the presence flag; the
	// literal value never comes back.
	var stored string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/me/settings":
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			stored = body["vercel_token"]
			_ = json.NewEncoder(w).Encode(SettingsResponse{HasVercelToken: stored != ""})
		case "/me":
			raw, _ := json.Marshal(Profile{ID: 1, Username: "octocat", HasVercelToken: stored != ""})
			_, _ = w.Write(raw)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")

	resp, err := c.UpdateSettings("abc")
	require.NoError(t, err)
	assert.True(t, resp.HasVercelToken)

	profile, err := c.GetProfile()
	require.NoError(t, err)
	assert.True(t, profile.HasVercelToken)

	// Empty string is a valid call: it removes the stored secret.
	resp, err = c.UpdateSettings("")
	require.NoError(t, err)
	assert.False(t, resp.HasVercelToken)

	profile, err = c.GetProfile()
	require.NoError(t, err)
	assert.False(t, profile.HasVercelToken)
}

func TestDeleteAppAcceptsEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/apps/5", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	assert.NoError(t, c.DeleteApp(5))
}

func TestLoginURL(t *testing.T) {
	c := NewClient("https://api.example.com/api/", "")
	assert.Equal(t, "https://api.example.com/api/auth/github", c.LoginURL())
}
