package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sanos/tui-go/internal/api"
)

// View renders the current view
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var body string
	switch m.viewMode {
	case ViewLogin:
		body = m.renderLogin()
	case ViewConnect:
		body = m.renderConnectDialog()
	case ViewDetail:
		body = m.renderDetail()
	case ViewSettings:
		body = m.renderSettings()
	case ViewPlayground:
		body = m.renderPlayground()
	case ViewHelp:
		body = m.renderHelp()
	default:
		body = m.renderDashboard()
	}

	header := m.renderHeader()
	statusBar := m.renderStatusBar()

	bodyHeight := m.height - lipgloss.Height(header) - lipgloss.Height(statusBar)
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body = lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, statusBar)
}

func (m Model) renderHeader() string {
	title := HeaderStyle.Render("SANOS")
	sub := MutedStyle.Render(" · deploy pipeline")
	who := ""
	if m.profile != nil {
		who = MutedStyle.Render("  @" + m.profile.Username)
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, title, sub, who)
}

func (m Model) renderSpinner() string {
	if !m.busy() {
		return ""
	}
	return lipgloss.NewStyle().Foreground(ColorYellow).
		Render(spinnerFrames[m.spinnerIdx%len(spinnerFrames)] + " ")
}

func (m Model) renderLogin() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Log in with GitHub"))
	b.WriteString("\n\n")

	client := api.NewClient(m.cfg.APIBaseURL, "")
	b.WriteString(MutedStyle.Render("1. Open "))
	b.WriteString(URLStyle.Render(client.LoginURL()))
	b.WriteString(MutedStyle.Render("  (press o)"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("2. Authorize, then copy the session value from the redirect URL"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("3. Paste it below and press Enter"))
	b.WriteString("\n\n")
	b.WriteString(m.tokenInput.View())
	b.WriteString("\n")

	if m.checkingSession {
		b.WriteString("\n" + m.renderSpinner() + MutedStyle.Render("Checking session..."))
	}
	if m.loginErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.loginErr))
	}

	return DialogStyle.Width(minInt(m.width-4, 72)).Render(b.String())
}

func (m Model) renderDashboard() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("APPLICATIONS"))
	if m.loadingApps {
		b.WriteString("  " + m.renderSpinner())
	}
	b.WriteString("\n\n")

	if len(m.visible) == 0 && !m.loadingApps {
		b.WriteString(MutedStyle.Render("No connected repositories yet.\nPress c to connect your first one."))
	}

	for i, app := range m.visible {
		icon := lipgloss.NewStyle().
			Foreground(statusColor(app.Status)).
			Render(app.Status.Icon())

		line := fmt.Sprintf("%s %-40s %-10s", icon, app.FullName, app.Status.Normalize())
		if app.LiveURL != nil {
			line += "  " + *app.LiveURL
		}
		if app.Private {
			line += "  " + MutedStyle.Render("private")
		}
		if m.registry.Deleting(app.ID) {
			line += "  " + ErrorStyle.Render("deleting…")
		}

		if i == m.selectedIdx {
			b.WriteString(SelectedRowStyle.Render("▸ " + line))
		} else {
			b.WriteString(RowStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}

	if m.dashboardErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.dashboardErr))
	}

	return PanelStyle.Width(minInt(m.width-4, 100)).Render(b.String())
}

func (m Model) renderConnectDialog() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("CONNECT A REPOSITORY"))
	if m.loadingRepos || m.connecting != "" {
		b.WriteString("  " + m.renderSpinner())
	}
	b.WriteString("\n\n")
	b.WriteString(m.filterInput.View())
	b.WriteString("\n\n")

	switch {
	case m.loadingRepos:
		b.WriteString(MutedStyle.Render("Fetching repositories..."))
	case len(m.repos) == 0:
		b.WriteString(MutedStyle.Render("No repositories available."))
		if m.perms != nil && m.perms.InstallationURL != "" {
			b.WriteString("\n")
			b.WriteString(MutedStyle.Render("Grant access at "))
			b.WriteString(URLStyle.Render(m.perms.InstallationURL))
		}
	case len(m.filtered) == 0:
		b.WriteString(MutedStyle.Render("No repositories match the filter."))
	default:
		for i, repo := range m.filtered {
			line := repo.FullName
			if repo.Private {
				line += "  " + MutedStyle.Render("private")
			}
			if m.connecting == repo.FullName {
				line += "  " + SuccessStyle.Render("connecting…")
			}
			if i == m.repoIdx {
				b.WriteString(SelectedRowStyle.Render("▸ " + line))
			} else {
				b.WriteString(RowStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
	}

	if m.connectErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.connectErr))
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("↑/↓ navigate • Enter connect • Esc close"))

	return DialogStyle.Width(minInt(m.width-4, 80)).Render(b.String())
}

func (m Model) renderDetail() string {
	var b strings.Builder

	name := fmt.Sprintf("app #%d", m.detailID)
	if m.detail != nil {
		name = m.detail.FullName
	}
	b.WriteString(TitleStyle.Render(strings.ToUpper(name)))
	b.WriteString("\n\n")

	if m.detail == nil && m.detailErr == "" {
		b.WriteString(MutedStyle.Render("Loading..."))
	}

	if m.detail != nil {
		status := m.detail.Status
		icon := lipgloss.NewStyle().
			Foreground(statusColor(status)).
			Render(status.Icon())
		b.WriteString(fmt.Sprintf("%s status        %s\n", icon, status.Normalize()))
		if m.appStatus != nil && m.appStatus.PipelineStep != "" {
			b.WriteString(fmt.Sprintf("  pipeline      %s\n", m.appStatus.PipelineStep))
		}
		if m.detail.LiveURL != nil {
			b.WriteString("  live at       " + URLStyle.Render(*m.detail.LiveURL) + "\n")
		}
		if m.detail.Instrumented {
			b.WriteString("  monitoring    " + SuccessStyle.Render("instrumented") + "\n")
		} else {
			b.WriteString("  monitoring    " + MutedStyle.Render("not instrumented (press i)") + "\n")
		}
		if m.appStatus != nil && m.appStatus.PRURL != nil {
			b.WriteString("  pull request  " + URLStyle.Render(*m.appStatus.PRURL) + "\n")
		}
		if m.detail.CreatedAt != nil {
			b.WriteString("  connected     " + MutedStyle.Render(*m.detail.CreatedAt) + "\n")
		}
	}

	if m.detailMsg != "" {
		b.WriteString("\n" + SuccessStyle.Render(m.detailMsg))
	}
	if m.detailErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.detailErr))
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("i instrument • o open • r refresh • Esc back"))

	return PanelStyle.Width(minInt(m.width-4, 80)).Render(b.String())
}

func (m Model) renderSettings() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("SETTINGS"))
	b.WriteString("\n\n")

	if m.settings != nil && m.settings.HasToken() {
		b.WriteString(SuccessStyle.Render("● Vercel token stored"))
	} else {
		b.WriteString(MutedStyle.Render("○ No Vercel token stored"))
	}
	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("Enter a new token, or submit empty to remove the stored one:"))
	b.WriteString("\n")
	b.WriteString(m.settingsInput.View())
	b.WriteString("\n")

	if m.savingSettings {
		b.WriteString("\n" + m.renderSpinner() + MutedStyle.Render("Saving..."))
	}
	if m.settingsMsg != "" {
		b.WriteString("\n" + SuccessStyle.Render(m.settingsMsg))
	}
	if m.settingsErr != "" {
		b.WriteString("\n" + ErrorStyle.Render(m.settingsErr))
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("Enter save • Esc back"))

	return DialogStyle.Width(minInt(m.width-4, 72)).Render(b.String())
}

func (m Model) renderPlayground() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("PLAYGROUND"))
	if m.runningPrompt {
		b.WriteString("  " + m.renderSpinner())
	}
	b.WriteString("\n\n")
	b.WriteString(m.promptInput.View())
	b.WriteString("\n\n")

	switch {
	case m.runningPrompt:
		b.WriteString(MutedStyle.Render("Running..."))
	case m.playgroundErr != "":
		b.WriteString(ErrorStyle.Render(m.playgroundErr))
	case m.playgroundOut != "":
		b.WriteString(lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Width(minInt(m.width-12, 72)).
			Render(m.playgroundOut))
	default:
		b.WriteString(MutedStyle.Render("Output appears here."))
	}

	b.WriteString("\n\n")
	b.WriteString(MutedStyle.Render("Enter run • Esc back"))

	return PanelStyle.Width(minInt(m.width-4, 80)).Render(b.String())
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("KEYS"))
	b.WriteString("\n\n")
	for _, group := range m.keys.FullHelp() {
		for _, binding := range group {
			b.WriteString(fmt.Sprintf("  %-8s %s\n",
				binding.Help().Key, MutedStyle.Render(binding.Help().Desc)))
		}
		b.WriteString("\n")
	}
	b.WriteString(MutedStyle.Render("? or Esc to close"))
	return DialogStyle.Render(b.String())
}

func (m Model) renderStatusBar() string {
	var status string
	if m.busy() {
		status = lipgloss.NewStyle().Foreground(ColorYellow).Render("● Working")
	} else {
		status = lipgloss.NewStyle().Foreground(ColorGreen).Render("○ Ready")
	}

	count := ""
	if m.client != nil {
		count = MutedStyle.Render(fmt.Sprintf(" │ Apps: %d", m.registry.Len()))
	}

	keyStyle := lipgloss.NewStyle().Foreground(ColorFgPrimary)
	hint := MutedStyle.Render(" │ ") +
		keyStyle.Render("?") + MutedStyle.Render(" help │ ") +
		keyStyle.Render("Ctrl+C") + MutedStyle.Render(" quit")

	return StatusBarStyle.Render(status + count + hint)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
