package apps

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sanos/tui-go/internal/api"
)

// Gateway is the slice of the backend client the orchestration needs
type Gateway interface {
	ConnectRepository(fullName string) (api.ConnectResponse, error)
	CreateDeployment(repoName string) (api.DeployResponse, error)
	DeleteApp(id int) error
}

// ErrConnectInFlight is returned when a connect is attempted while another
// one is still running. One connect may be in flight at a time, system-wide.
var ErrConnectInFlight = errors.New("another connect is already in progress")

// ErrDeleteInFlight is returned when a delete is attempted while another
// one is still running
var ErrDeleteInFlight = errors.New("another delete is already in progress")

// ConnectResult is the outcome of a successful connect
type ConnectResult struct {
	// AppID is the resolved application id: the deploy response's id when
	// the deploy step succeeded and returned one, else the register
	// response's id.
	AppID int
	// App is the registry entry that was appended. Zero when FirstProject
	// is set, since that path appends nothing.
	App api.Application
	// FirstProject is set when the registry was empty before the connect
	// began. The caller navigates to the detail view instead of appending;
	// the detail view loads its own state.
	FirstProject bool
}

// Connector drives the register → deploy → reconcile sequence for one
// user-initiated connect action
type Connector struct {
	gateway  Gateway
	registry *Registry

	mu       sync.Mutex
	inFlight string // repository currently connecting, "" when idle
}

// NewConnector creates a connector over the given gateway and registry
func NewConnector(gateway Gateway, registry *Registry) *Connector {
	return &Connector{gateway: gateway, registry: registry}
}

// InFlight returns the full name of the repository currently connecting,
// or "" when idle
func (c *Connector) InFlight() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Connect registers fullName as an application, triggers a deployment for
// it, and reconciles the registry. Registration failure aborts with the
// registry untouched. Deployment failure does not: a registered but not
// yet deployed application is a valid, visible state, so the entry is kept
// with its pending status and the error is swallowed.
func (c *Connector) Connect(fullName string) (ConnectResult, error) {
	c.mu.Lock()
	if c.inFlight != "" {
		c.mu.Unlock()
		return ConnectResult{}, ErrConnectInFlight
	}
	c.inFlight = fullName
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.inFlight = ""
		c.mu.Unlock()
	}()

	// The first-project branch keys off emptiness before registration
	wasEmpty := c.registry.Len() == 0

	resp, err := c.gateway.ConnectRepository(fullName)
	if err != nil {
		return ConnectResult{}, fmt.Errorf("connect %s: %w", fullName, err)
	}

	appID := resp.ID
	if dep, err := c.gateway.CreateDeployment(fullName); err == nil && dep.AppID != 0 {
		appID = dep.AppID
	}

	if wasEmpty {
		return ConnectResult{AppID: appID, FirstProject: true}, nil
	}

	app := api.ApplicationFromConnect(fullName, resp)
	app.ID = appID
	c.registry.Append(app)
	return ConnectResult{AppID: appID, App: app}, nil
}

// Delete removes an application after the server confirms the deletion.
// On failure the entry stays in the registry. Only one delete may be in
// flight at a time.
func (c *Connector) Delete(id int) error {
	if !c.registry.MarkDeleting(id) {
		return ErrDeleteInFlight
	}
	defer c.registry.ClearDeleting()

	if err := c.gateway.DeleteApp(id); err != nil {
		return fmt.Errorf("delete app %d: %w", id, err)
	}
	c.registry.Remove(id)
	return nil
}
