package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sanos/tui-go/internal/apilog"
)

// ErrUnauthorized is returned when the backend rejects the session
// credential. Any caller seeing it must treat the session as dead.
var ErrUnauthorized = errors.New("session rejected by server")

// Error is a non-2xx response from the backend. Detail is the optional
// user-facing message the backend attaches to failures.
type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned %d: unknown error", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Detail)
}

// Rejection reports whether err is a response the server produced, as
// opposed to a transport failure that never reached it.
func Rejection(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client is a Sanos API client. It carries the session credential for one
// authenticated user; the owner rebuilds it on login and logout.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logs       *apilog.Logger
}

// NewClient creates a client against baseURL. token may be empty for the
// unauthenticated endpoints.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetLogger attaches a request log. A nil logger disables logging.
func (c *Client) SetLogger(l *apilog.Logger) {
	c.logs = l
}

// Token returns the credential the client was built with
func (c *Client) Token() string {
	return c.token
}

// LoginURL is the browser entry point that begins the GitHub OAuth flow.
// The redirect eventually lands back with a session query parameter.
func (c *Client) LoginURL() string {
	return c.baseURL + "/auth/github"
}

// do executes one JSON request and records it. body and result may be nil.
func (c *Client) do(method, path string, body, result interface{}) error {
	start := time.Now()
	status, err := c.roundTrip(method, path, body, result)
	c.logs.Request(method, path, status, time.Since(start), err)
	return err
}

// roundTrip does the actual request. Returns the HTTP status alongside
// the error, 0 when no response was received.
func (c *Client) roundTrip(method, path string, body, result interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(respBody, &detail)
		return resp.StatusCode, &Error{Status: resp.StatusCode, Detail: detail.Detail}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return resp.StatusCode, fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// Healthcheck verifies the configured base URL is a reachable backend
func (c *Client) Healthcheck() error {
	return c.do("GET", "/healthcheck", nil, nil)
}

// GetProfile returns the authenticated user
func (c *Client) GetProfile() (*Profile, error) {
	var p Profile
	if err := c.do("GET", "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListApps returns the user's connected applications in server order
func (c *Client) ListApps() ([]Application, error) {
	var apps []Application
	if err := c.do("GET", "/apps", nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// GetApp returns one application by id
func (c *Client) GetApp(id int) (*Application, error) {
	var app Application
	if err := c.do("GET", fmt.Sprintf("/apps/%d", id), nil, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// GetAppStatus returns the current pipeline state for one application
func (c *Client) GetAppStatus(id int) (*AppStatus, error) {
	var st AppStatus
	if err := c.do("GET", fmt.Sprintf("/apps/%d/status", id), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// ConnectRepository registers a repository as a managed application
func (c *Client) ConnectRepository(fullName string) (ConnectResponse, error) {
	body := map[string]string{"full_name": fullName}
	var resp ConnectResponse
	if err := c.do("POST", "/apps/connect", body, &resp); err != nil {
		return ConnectResponse{}, err
	}
	return resp, nil
}

// DeleteApp removes an application. The caller must not drop its local
// entry until this returns nil.
func (c *Client) DeleteApp(id int) error {
	return c.do("DELETE", fmt.Sprintf("/apps/%d", id), nil, nil)
}

// CreateDeployment requests a deployment for a repository, keyed by the
// repository full name rather than the application id
func (c *Client) CreateDeployment(repoName string) (DeployResponse, error) {
	body := map[string]string{"repo_name": repoName}
	var resp DeployResponse
	if err := c.do("POST", "/deploy/create", body, &resp); err != nil {
		return DeployResponse{}, err
	}
	return resp, nil
}

// TriggerIntegration starts server-side instrumentation for an application
func (c *Client) TriggerIntegration(id int) (*IntegrateResponse, error) {
	var resp IntegrateResponse
	if err := c.do("POST", fmt.Sprintf("/apps/%d/integrate", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRepos returns the connectable repositories from the user's account
func (c *Client) ListRepos() ([]Repository, error) {
	var repos []Repository
	if err := c.do("GET", "/me/repos", nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// GetPermissions returns the GitHub app installation state
func (c *Client) GetPermissions() (*PermissionsResponse, error) {
	var perms PermissionsResponse
	if err := c.do("GET", "/me/permissions", nil, &perms); err != nil {
		return nil, err
	}
	return &perms, nil
}

// UpdateSettings stores or removes the deployment-provider token.
// An empty token is a valid call meaning "remove the stored secret".
func (c *Client) UpdateSettings(vercelToken string) (SettingsResponse, error) {
	body := map[string]string{"vercel_token": vercelToken}
	var resp SettingsResponse
	if err := c.do("PUT", "/me/settings", body, &resp); err != nil {
		return SettingsResponse{}, err
	}
	return resp, nil
}

// RunPlayground executes an ad-hoc agent prompt
func (c *Client) RunPlayground(prompt string) (*PlaygroundResponse, error) {
	body := map[string]string{"prompt": prompt}
	var resp PlaygroundResponse
	if err := c.do("POST", "/playground", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
