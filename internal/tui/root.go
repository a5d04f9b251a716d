package tui

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanos/tui-go/internal/api"
	"github.com/sanos/tui-go/internal/apilog"
	"github.com/sanos/tui-go/internal/apps"
	"github.com/sanos/tui-go/internal/catalog"
	"github.com/sanos/tui-go/internal/config"
	"github.com/sanos/tui-go/internal/session"
	"github.com/sanos/tui-go/internal/settings"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewLogin      ViewMode = iota // pasting the session token
	ViewDashboard                  // connected application list
	ViewConnect                    // repository picker dialog over the dashboard
	ViewDetail                     // single application with live status
	ViewSettings                   // deployment-provider token
	ViewPlayground                 // ad-hoc agent prompt
	ViewHelp                       // help overlay
)

// Messages. Every message carrying the result of an async operation is
// stamped with the flow generation it was issued under; results arriving
// after a navigation are dropped rather than mutating a view that is gone.
type sessionCheckedMsg struct {
	token   string
	profile *api.Profile
	err     error
}

type appsLoadedMsg struct {
	flow int
	apps []api.Application
	err  error
}

type reposLoadedMsg struct {
	flow  int
	repos []api.Repository
	err   error
}

type permissionsLoadedMsg struct {
	flow  int
	perms *api.PermissionsResponse
	err   error
}

type connectDoneMsg struct {
	flow     int
	fullName string
	result   apps.ConnectResult
	err      error
}

type deleteDoneMsg struct {
	flow int
	id   int
	err  error
}

type settingsSavedMsg struct {
	flow     int
	hasToken bool
	err      error
}

type playgroundDoneMsg struct {
	flow   int
	output string
	err    error
}

type detailLoadedMsg struct {
	flow int
	app  *api.Application
	err  error
}

type statusLoadedMsg struct {
	flow   int
	id     int
	status *api.AppStatus
	err    error
}

type integrateDoneMsg struct {
	flow int
	resp *api.IntegrateResponse
	err  error
}

type browserOpenedMsg struct {
	err error
}

type tickMsg time.Time

type spinnerTickMsg struct{}

// Spinner animation frames
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Model is the root Bubble Tea model
type Model struct {
	// Terminal dimensions
	width  int
	height int
	ready  bool

	cfg      *config.Config
	sessions *session.Store
	logs     *apilog.Logger // nil unless debug logging is on

	// Authenticated state. The root model is the single owner of the
	// credential: it builds the client on login and drops it on logout or
	// on any rejected call.
	client    *api.Client
	profile   *api.Profile
	registry  *apps.Registry
	connector *apps.Connector
	settings  *settings.Manager

	// View state
	viewMode ViewMode
	prevMode ViewMode // view to return to from the help overlay
	flow     int      // generation counter, bumped on every navigation

	// Login
	tokenInput      textinput.Model
	pendingToken    string // stored token awaiting validation at startup
	checkingSession bool
	loginErr        string

	// Dashboard
	visible      []api.Application // snapshot rendered from the registry
	selectedIdx  int
	loadingApps  bool
	dashboardErr string

	// Connect dialog
	repos        []api.Repository
	filtered     []api.Repository
	filterInput  textinput.Model
	repoIdx      int
	loadingRepos bool
	perms        *api.PermissionsResponse
	connecting   string // repository with a connect in flight, "" when idle
	connectErr   string

	// Detail
	detailID  int
	detail    *api.Application
	appStatus *api.AppStatus
	detailErr string
	detailMsg string

	// Settings
	settingsInput  textinput.Model
	savingSettings bool
	settingsErr    string
	settingsMsg    string

	// Playground
	promptInput   textinput.Model
	runningPrompt bool
	playgroundOut string
	playgroundErr string

	spinnerIdx int
	keys       KeyMap
}

// Options configures the root model
type Options struct {
	Config   *config.Config
	Sessions *session.Store
	Token    string         // previously stored session, "" when none
	Logs     *apilog.Logger // optional request log
}

// NewModel creates the root model. With a stored token it starts by
// validating the session; otherwise it starts on the login view.
func NewModel(opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "paste session token"
	ti.Prompt = "❯ "
	ti.PromptStyle = InputPromptStyle
	ti.EchoMode = textinput.EchoPassword
	ti.CharLimit = 200
	ti.Width = 50
	ti.Focus()

	filter := textinput.New()
	filter.Placeholder = "filter repositories"
	filter.Prompt = "/ "
	filter.PromptStyle = InputPromptStyle
	filter.Width = 40

	secret := textinput.New()
	secret.Placeholder = "vercel token (empty to remove)"
	secret.Prompt = "❯ "
	secret.PromptStyle = InputPromptStyle
	secret.EchoMode = textinput.EchoPassword
	secret.CharLimit = 200
	secret.Width = 50

	prompt := textinput.New()
	prompt.Placeholder = "ask the agent anything"
	prompt.Prompt = "❯ "
	prompt.PromptStyle = InputPromptStyle
	prompt.Width = 60

	m := Model{
		cfg:           opts.Config,
		sessions:      opts.Sessions,
		logs:          opts.Logs,
		registry:      apps.NewRegistry(),
		viewMode:      ViewLogin,
		tokenInput:    ti,
		filterInput:   filter,
		settingsInput: secret,
		promptInput:   prompt,
		keys:          DefaultKeyMap(),
	}
	if opts.Token != "" {
		m.checkingSession = true
		m.pendingToken = opts.Token
	}
	return m
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, spinnerTickCmd(), tickCmd()}
	if m.checkingSession {
		cmds = append(cmds, m.checkSessionCmd(m.pendingToken))
	}
	return tea.Batch(cmds...)
}

// tickCmd returns the background tick used for status polling
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// spinnerTickCmd returns a fast tick command for spinner animation
func spinnerTickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// checkSessionCmd validates a token by fetching the profile with it
func (m Model) checkSessionCmd(token string) tea.Cmd {
	client := api.NewClient(m.cfg.APIBaseURL, token)
	client.SetLogger(m.logs)
	return func() tea.Msg {
		profile, err := client.GetProfile()
		return sessionCheckedMsg{token: token, profile: profile, err: err}
	}
}

// loadAppsCmd reloads the application list from the backend
func (m Model) loadAppsCmd() tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		list, err := client.ListApps()
		return appsLoadedMsg{flow: flow, apps: list, err: err}
	}
}

// loadReposCmd fetches the repository catalog. Called on every dialog
// open; the catalog is never cached across opens.
func (m Model) loadReposCmd() tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		repos, err := client.ListRepos()
		return reposLoadedMsg{flow: flow, repos: repos, err: err}
	}
}

// loadPermissionsCmd fetches the GitHub app installation state
func (m Model) loadPermissionsCmd() tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		perms, err := client.GetPermissions()
		return permissionsLoadedMsg{flow: flow, perms: perms, err: err}
	}
}

// connectCmd runs the connect orchestration for fullName
func (m Model) connectCmd(fullName string) tea.Cmd {
	connector, flow := m.connector, m.flow
	return func() tea.Msg {
		result, err := connector.Connect(fullName)
		return connectDoneMsg{flow: flow, fullName: fullName, result: result, err: err}
	}
}

// deleteCmd deletes the application with the given id
func (m Model) deleteCmd(id int) tea.Cmd {
	connector, flow := m.connector, m.flow
	return func() tea.Msg {
		err := connector.Delete(id)
		return deleteDoneMsg{flow: flow, id: id, err: err}
	}
}

// saveSettingsCmd stores (or, with an empty token, removes) the
// deployment-provider token
func (m Model) saveSettingsCmd(token string) tea.Cmd {
	manager, flow := m.settings, m.flow
	return func() tea.Msg {
		hasToken, err := manager.Save(token)
		return settingsSavedMsg{flow: flow, hasToken: hasToken, err: err}
	}
}

// runPlaygroundCmd executes an ad-hoc agent prompt
func (m Model) runPlaygroundCmd(prompt string) tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		resp, err := client.RunPlayground(prompt)
		if err != nil {
			return playgroundDoneMsg{flow: flow, err: err}
		}
		return playgroundDoneMsg{flow: flow, output: resp.AgentOutput}
	}
}

// loadDetailCmd fetches one application for the detail view
func (m Model) loadDetailCmd(id int) tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		app, err := client.GetApp(id)
		return detailLoadedMsg{flow: flow, app: app, err: err}
	}
}

// loadStatusCmd polls the pipeline status for the detail view
func (m Model) loadStatusCmd(id int) tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		st, err := client.GetAppStatus(id)
		return statusLoadedMsg{flow: flow, id: id, status: st, err: err}
	}
}

// integrateCmd triggers server-side instrumentation
func (m Model) integrateCmd(id int) tea.Cmd {
	client, flow := m.client, m.flow
	return func() tea.Msg {
		resp, err := client.TriggerIntegration(id)
		return integrateDoneMsg{flow: flow, resp: resp, err: err}
	}
}

// navigate switches views and bumps the flow generation so in-flight
// results for the abandoned view are dropped
func (m *Model) navigate(v ViewMode) {
	m.viewMode = v
	m.flow++
}

// logout clears the session everywhere and returns to the login view.
// Called both for the explicit action and for any rejected call.
func (m *Model) logout() {
	_ = m.sessions.Clear()
	m.client = nil
	m.profile = nil
	m.connector = nil
	m.settings = nil
	m.registry = apps.NewRegistry()
	m.visible = nil
	m.selectedIdx = 0
	m.dashboardErr = ""
	m.tokenInput.SetValue("")
	m.tokenInput.Focus()
	m.navigate(ViewLogin)
}

// handleAuthErr routes rejected-credential failures to logout. Returns
// true when the error was an authentication failure and has been handled.
func (m *Model) handleAuthErr(err error) bool {
	if err == nil || !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	m.logout()
	m.loginErr = "Session expired, please log in again"
	return true
}

// busy reports whether any async operation is running (drives the spinner)
func (m Model) busy() bool {
	return m.checkingSession || m.loadingApps || m.loadingRepos ||
		m.connecting != "" || m.savingSettings || m.runningPrompt
}

// refreshVisible re-snapshots the registry for rendering and clamps the
// dashboard selection
func (m *Model) refreshVisible() {
	m.visible = m.registry.List()
	if m.selectedIdx >= len(m.visible) {
		m.selectedIdx = len(m.visible) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

// applyFilter recomputes the filtered catalog from the current query
func (m *Model) applyFilter() {
	m.filtered = catalog.Filter(m.repos, m.filterInput.Value())
	if m.repoIdx >= len(m.filtered) {
		m.repoIdx = len(m.filtered) - 1
	}
	if m.repoIdx < 0 {
		m.repoIdx = 0
	}
}

// openConnectDialog switches to the picker and fetches a fresh catalog
func (m *Model) openConnectDialog() tea.Cmd {
	m.navigate(ViewConnect)
	m.repos = nil
	m.filtered = nil
	m.repoIdx = 0
	m.perms = nil
	m.connecting = ""
	m.connectErr = ""
	m.loadingRepos = true
	m.filterInput.SetValue("")
	m.filterInput.Focus()
	return tea.Batch(m.loadReposCmd(), m.loadPermissionsCmd(), spinnerTickCmd(), textinput.Blink)
}

// openDetail switches to the detail view for id and loads its state
func (m *Model) openDetail(id int) tea.Cmd {
	m.navigate(ViewDetail)
	m.detailID = id
	m.detail = nil
	m.appStatus = nil
	m.detailErr = ""
	m.detailMsg = ""
	return tea.Batch(m.loadDetailCmd(id), m.loadStatusCmd(id), spinnerTickCmd())
}
