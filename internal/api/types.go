package api

// Status is the lifecycle state of a connected application.
// The backend uses two synonyms for the building and live states;
// display code normalizes them, logic compares the raw value.
type Status string

const (
	StatusPending   Status = "pending"
	StatusDeploying Status = "deploying"
	StatusBuilding  Status = "building"
	StatusReady     Status = "ready"
	StatusActive    Status = "active"
	StatusError     Status = "error"
)

// Normalize collapses the backend's synonym pairs for display.
func (s Status) Normalize() Status {
	switch s {
	case StatusBuilding:
		return StatusDeploying
	case StatusActive:
		return StatusReady
	default:
		return s
	}
}

// Icon returns the glyph for the status
func (s Status) Icon() string {
	switch s.Normalize() {
	case StatusPending:
		return "○"
	case StatusDeploying:
		return "◐"
	case StatusReady:
		return "●"
	case StatusError:
		return "✗"
	default:
		return "○"
	}
}

// Profile is the authenticated user as returned by GET /me
type Profile struct {
	ID             int    `json:"id"`
	GithubID       int64  `json:"github_id"`
	Username       string `json:"username"`
	AvatarURL      string `json:"avatar_url"`
	HasVercelToken bool   `json:"has_vercel_token"`
}

// Application is one connected repository's deployment record
type Application struct {
	ID           int     `json:"id"`
	RepoOwner    string  `json:"repo_owner"`
	RepoName     string  `json:"repo_name"`
	FullName     string  `json:"full_name"`
	Private      bool    `json:"private"`
	Status       Status  `json:"status"`
	LiveURL      *string `json:"live_url"`
	Instrumented bool    `json:"instrumented"`
	CreatedAt    *string `json:"created_at"`
}

// ConnectResponse is the POST /apps/connect response. The backend may omit
// any field except id; pointer fields distinguish omitted from zero so that
// ApplicationFromConnect can fill defaults.
type ConnectResponse struct {
	ID        int     `json:"id"`
	RepoOwner string  `json:"repo_owner"`
	RepoName  string  `json:"repo_name"`
	FullName  string  `json:"full_name"`
	Status    Status  `json:"status"`
	Private   *bool   `json:"private"`
	LiveURL   *string `json:"live_url"`
	CreatedAt *string `json:"created_at"`
}

// DeployResponse is the POST /deploy/create response
type DeployResponse struct {
	Success       bool    `json:"success"`
	DeploymentURL *string `json:"deployment_url"`
	InspectorURL  *string `json:"inspector_url"`
	AppID         int     `json:"app_id"`
	Message       string  `json:"message"`
}

// Repository is a connectable repository from the user's account.
// Catalog entries live only as long as the picker is open.
type Repository struct {
	FullName string `json:"full_name"`
	Name     string `json:"name"`
	Private  bool   `json:"private"`
	URL      string `json:"url"`
}

// PermissionsResponse is the GET /me/permissions response
type PermissionsResponse struct {
	Repositories        []Repository `json:"repositories"`
	RepositorySelection string       `json:"repository_selection"`
	InstallationURL     string       `json:"installation_url"`
}

// SettingsResponse is the PUT /me/settings response
type SettingsResponse struct {
	HasVercelToken bool `json:"has_vercel_token"`
}

// PlaygroundResponse is the POST /playground response
type PlaygroundResponse struct {
	AgentOutput string `json:"agent_output"`
}

// AppStatus is the GET /apps/{id}/status response, polled while a
// deployment is in progress
type AppStatus struct {
	Status       Status  `json:"status"`
	LiveURL      *string `json:"live_url"`
	PipelineStep string  `json:"pipeline_step"`
	PRURL        *string `json:"pr_url"`
	PRNumber     *int    `json:"pr_number"`
	Instrumented bool    `json:"instrumented"`
}

// IntegrateResponse is the POST /apps/{id}/integrate response
type IntegrateResponse struct {
	Status       string `json:"status"`
	PipelineStep string `json:"pipeline_step"`
}
