package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanos/tui-go/internal/api"
	"github.com/sanos/tui-go/internal/apps"
	"github.com/sanos/tui-go/internal/settings"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case sessionCheckedMsg:
		m.checkingSession = false
		if msg.err != nil {
			// A rejected token is cleared immediately; anything else is a
			// transport problem and the stored session may still be good.
			if isUnauthorized(msg.err) {
				m.loginErr = "Session rejected, please log in again"
				_ = m.sessions.Clear()
			} else if apiErr, ok := api.Rejection(msg.err); ok {
				m.loginErr = "Backend error: " + apiErr.Detail
			} else {
				m.loginErr = "Could not reach the backend: " + msg.err.Error()
			}
			return m, nil
		}
		m.client = api.NewClient(m.cfg.APIBaseURL, msg.token)
		m.client.SetLogger(m.logs)
		m.profile = msg.profile
		m.registry = apps.NewRegistry()
		m.connector = apps.NewConnector(m.client, m.registry)
		m.settings = settings.NewManager(m.client, msg.profile.HasVercelToken)
		m.loginErr = ""
		m.tokenInput.SetValue("")
		_ = m.sessions.Save(msg.token)
		m.navigate(ViewDashboard)
		m.loadingApps = true
		return m, tea.Batch(m.loadAppsCmd(), spinnerTickCmd())

	case appsLoadedMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		m.loadingApps = false
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.dashboardErr = failureText(msg.err)
			return m, nil
		}
		m.dashboardErr = ""
		m.registry.Replace(msg.apps)
		m.refreshVisible()

	case reposLoadedMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		m.loadingRepos = false
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.connectErr = failureText(msg.err)
			return m, nil
		}
		m.repos = msg.repos
		m.applyFilter()

	case permissionsLoadedMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			// Permissions are a hint, not a requirement; stay quiet.
			return m, nil
		}
		m.perms = msg.perms

	case connectDoneMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		m.connecting = ""
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			// Registration failure is the only fatal step; it surfaces
			// inline in the dialog with the registry untouched.
			m.connectErr = failureText(msg.err)
			return m, nil
		}
		if msg.result.FirstProject {
			// First project: land directly on the new application.
			return m, m.openDetail(msg.result.AppID)
		}
		// Otherwise the entry is already in the registry; close the dialog.
		m.refreshVisible()
		m.selectedIdx = len(m.visible) - 1
		m.navigate(ViewDashboard)

	case deleteDoneMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.dashboardErr = "Delete failed: " + failureText(msg.err)
			return m, nil
		}
		m.dashboardErr = ""
		m.refreshVisible()

	case settingsSavedMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		m.savingSettings = false
		if msg.err != nil {
			// Keep the input buffer so the user can retry.
			if apiErr, ok := api.Rejection(msg.err); ok {
				m.settingsErr = "Rejected by server: " + apiErr.Detail
				if apiErr.Detail == "" {
					m.settingsErr = "Rejected by server: unknown error"
				}
			} else if m.handleAuthErr(msg.err) {
				return m, nil
			} else {
				m.settingsErr = "Network error: " + msg.err.Error()
			}
			return m, nil
		}
		m.settingsErr = ""
		m.settingsInput.SetValue("")
		if msg.hasToken {
			m.settingsMsg = "Token saved"
		} else {
			m.settingsMsg = "Token removed"
		}

	case playgroundDoneMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		m.runningPrompt = false
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.playgroundErr = failureText(msg.err)
			return m, nil
		}
		m.playgroundErr = ""
		m.playgroundOut = msg.output

	case detailLoadedMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.detailErr = failureText(msg.err)
			return m, nil
		}
		m.detailErr = ""
		m.detail = msg.app

	case statusLoadedMsg:
		if msg.flow != m.flow || msg.id != m.detailID {
			return m, nil
		}
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			// Polling failure is transient; keep the last known status.
			return m, nil
		}
		m.appStatus = msg.status
		if m.detail != nil {
			m.detail.Status = msg.status.Status
			m.detail.LiveURL = msg.status.LiveURL
			m.detail.Instrumented = msg.status.Instrumented
		}

	case integrateDoneMsg:
		if msg.flow != m.flow {
			return m, nil
		}
		if msg.err != nil {
			if m.handleAuthErr(msg.err) {
				return m, nil
			}
			m.detailErr = failureText(msg.err)
			return m, nil
		}
		m.detailErr = ""
		m.detailMsg = "Instrumentation " + msg.resp.Status

	case browserOpenedMsg:
		if msg.err != nil && m.viewMode == ViewLogin {
			m.loginErr = msg.err.Error()
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// Poll deploy progress while the detail view shows a non-terminal
		// application.
		if m.viewMode == ViewDetail && m.client != nil && m.detailID != 0 && !m.detailTerminal() {
			cmds = append(cmds, m.loadStatusCmd(m.detailID))
		}

	case spinnerTickMsg:
		if m.busy() {
			m.spinnerIdx = (m.spinnerIdx + 1) % len(spinnerFrames)
			cmds = append(cmds, spinnerTickCmd())
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, tea.Batch(cmds...)
}

// detailTerminal reports whether the detail view's application has
// reached a state that no longer needs polling
func (m Model) detailTerminal() bool {
	if m.appStatus == nil {
		return false
	}
	switch m.appStatus.Status.Normalize() {
	case api.StatusReady, api.StatusError:
		return true
	}
	return false
}

// handleKey dispatches key events per view
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Ctrl+C always quits, regardless of state
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	switch m.viewMode {
	case ViewLogin:
		return m.handleLoginKey(msg)
	case ViewConnect:
		return m.handleConnectKey(msg)
	case ViewDetail:
		return m.handleDetailKey(msg)
	case ViewSettings:
		return m.handleSettingsKey(msg)
	case ViewPlayground:
		return m.handlePlaygroundKey(msg)
	case ViewHelp:
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
			m.viewMode = m.prevMode
		}
		return m, nil
	default:
		return m.handleDashboardKey(msg)
	}
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		token := strings.TrimSpace(m.tokenInput.Value())
		if token == "" {
			m.loginErr = "Paste the session token from the browser redirect"
			return m, nil
		}
		m.checkingSession = true
		m.loginErr = ""
		return m, tea.Batch(m.checkSessionCmd(token), spinnerTickCmd())
	case tea.KeyEsc:
		return m, tea.Quit
	}

	// "o" opens the login URL when the input is empty; with text in the
	// buffer it is just a character.
	if msg.String() == "o" && m.tokenInput.Value() == "" {
		client := api.NewClient(m.cfg.APIBaseURL, "")
		client.SetLogger(m.logs)
		return m, openLoginCmd(client, m.cfg.Browser)
	}

	var cmd tea.Cmd
	m.tokenInput, cmd = m.tokenInput.Update(msg)
	return m, cmd
}

func (m Model) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.selectedIdx > 0 {
			m.selectedIdx--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selectedIdx < len(m.visible)-1 {
			m.selectedIdx++
		}

	case key.Matches(msg, m.keys.Enter):
		if m.selectedIdx < len(m.visible) {
			return m, m.openDetail(m.visible[m.selectedIdx].ID)
		}

	case key.Matches(msg, m.keys.Connect):
		return m, m.openConnectDialog()

	case key.Matches(msg, m.keys.Delete):
		if m.selectedIdx >= len(m.visible) {
			return m, nil
		}
		id := m.visible[m.selectedIdx].ID
		// The deleting marker disables repeated clicks on the same entry;
		// the entry itself stays visible until the server confirms.
		if m.registry.Deleting(id) {
			return m, nil
		}
		return m, tea.Batch(m.deleteCmd(id), spinnerTickCmd())

	case key.Matches(msg, m.keys.Refresh):
		m.loadingApps = true
		return m, tea.Batch(m.loadAppsCmd(), spinnerTickCmd())

	case key.Matches(msg, m.keys.Settings):
		m.navigate(ViewSettings)
		m.settingsErr = ""
		m.settingsMsg = ""
		m.settingsInput.SetValue("")
		m.settingsInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Playground):
		m.navigate(ViewPlayground)
		m.playgroundErr = ""
		m.promptInput.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Logout):
		m.logout()
		return m, nil

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.viewMode
		m.viewMode = ViewHelp
	}
	return m, nil
}

func (m Model) handleConnectKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		// Closing the dialog abandons the flow; a late connect result is
		// dropped by the generation check, though the registry mutation
		// itself still lands.
		m.navigate(ViewDashboard)
		m.refreshVisible()
		return m, nil

	case tea.KeyUp:
		if m.repoIdx > 0 {
			m.repoIdx--
		}
		return m, nil

	case tea.KeyDown:
		if m.repoIdx < len(m.filtered)-1 {
			m.repoIdx++
		}
		return m, nil

	case tea.KeyEnter:
		// One connect in flight at a time; further submissions are
		// swallowed here at the UI boundary. The connector check covers a
		// connect abandoned by closing and reopening the dialog.
		if m.connecting != "" || (m.connector != nil && m.connector.InFlight() != "") {
			return m, nil
		}
		if m.repoIdx >= len(m.filtered) {
			return m, nil
		}
		fullName := m.filtered[m.repoIdx].FullName
		m.connecting = fullName
		m.connectErr = ""
		return m, tea.Batch(m.connectCmd(fullName), spinnerTickCmd())
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Escape):
		m.navigate(ViewDashboard)
		m.loadingApps = true
		return m, tea.Batch(m.loadAppsCmd(), spinnerTickCmd())

	case key.Matches(msg, m.keys.Integrate):
		if m.detailID != 0 {
			m.detailMsg = ""
			return m, m.integrateCmd(m.detailID)
		}

	case key.Matches(msg, m.keys.Open):
		if m.detail != nil && m.detail.LiveURL != nil {
			return m, openBrowserCmd(m.cfg.Browser, *m.detail.LiveURL)
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.detailID != 0 {
			return m, tea.Batch(m.loadDetailCmd(m.detailID), m.loadStatusCmd(m.detailID))
		}

	case key.Matches(msg, m.keys.Help):
		m.prevMode = m.viewMode
		m.viewMode = ViewHelp
	}
	return m, nil
}

func (m Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.navigate(ViewDashboard)
		m.refreshVisible()
		return m, nil
	case tea.KeyEnter:
		if m.savingSettings {
			return m, nil
		}
		// An empty submit is a valid call: it removes the stored secret.
		m.savingSettings = true
		m.settingsErr = ""
		m.settingsMsg = ""
		return m, tea.Batch(m.saveSettingsCmd(m.settingsInput.Value()), spinnerTickCmd())
	}

	var cmd tea.Cmd
	m.settingsInput, cmd = m.settingsInput.Update(msg)
	return m, cmd
}

func (m Model) handlePlaygroundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.navigate(ViewDashboard)
		m.refreshVisible()
		return m, nil
	case tea.KeyEnter:
		if m.runningPrompt {
			return m, nil
		}
		prompt := strings.TrimSpace(m.promptInput.Value())
		if prompt == "" {
			return m, nil
		}
		m.runningPrompt = true
		m.playgroundErr = ""
		m.playgroundOut = ""
		return m, tea.Batch(m.runPlaygroundCmd(prompt), spinnerTickCmd())
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

// failureText formats an error for inline display: server rejections show
// their detail (or a generic message when none was sent), transport
// failures show what went wrong on the way.
func failureText(err error) string {
	if apiErr, ok := api.Rejection(err); ok {
		if apiErr.Detail == "" {
			return "Unknown error"
		}
		return apiErr.Detail
	}
	return err.Error()
}

// isUnauthorized reports whether err is a rejected-credential failure
func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}
