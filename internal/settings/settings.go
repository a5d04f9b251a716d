// Package settings handles the single-field deployment-provider token
// workflow. The secret itself is never held here; only the
// server-confirmed presence flag is.
package settings

import (
	"fmt"

	"github.com/sanos/tui-go/internal/api"
)

// Gateway is the slice of the backend client the settings workflow needs
type Gateway interface {
	UpdateSettings(vercelToken string) (api.SettingsResponse, error)
}

// Manager tracks whether the user has a stored deployment-provider token
type Manager struct {
	gateway  Gateway
	hasToken bool
}

// NewManager creates a manager seeded with the flag from the user profile
func NewManager(gateway Gateway, hasToken bool) *Manager {
	return &Manager{gateway: gateway, hasToken: hasToken}
}

// HasToken reports the last server-confirmed presence flag
func (m *Manager) HasToken() bool {
	return m.hasToken
}

// Save stores token on the server. An empty token removes the stored
// secret. The local flag is replaced only with the server-confirmed value,
// never inferred from the input; on failure the flag is unchanged.
func (m *Manager) Save(token string) (bool, error) {
	resp, err := m.gateway.UpdateSettings(token)
	if err != nil {
		return m.hasToken, fmt.Errorf("save settings: %w", err)
	}
	m.hasToken = resp.HasVercelToken
	return m.hasToken, nil
}
