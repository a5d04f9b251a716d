package tui

import (
	"fmt"
	"os/exec"
	"runtime"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanos/tui-go/internal/api"
)

// openBrowserCmd opens url in the user's browser. The configured command
// wins; otherwise the platform opener is used.
func openBrowserCmd(browser, url string) tea.Cmd {
	return func() tea.Msg {
		return browserOpenedMsg{err: openBrowser(browser, url)}
	}
}

// openLoginCmd verifies the backend is reachable before handing the user
// to the browser, so a bad base URL fails here instead of as a dead page.
func openLoginCmd(client *api.Client, browser string) tea.Cmd {
	return func() tea.Msg {
		if err := client.Healthcheck(); err != nil {
			return browserOpenedMsg{err: fmt.Errorf("backend not reachable: %w", err)}
		}
		if err := openBrowser(browser, client.LoginURL()); err != nil {
			return browserOpenedMsg{err: fmt.Errorf("could not open browser: %w", err)}
		}
		return browserOpenedMsg{}
	}
}

func openBrowser(browser, url string) error {
	var cmd *exec.Cmd
	switch {
	case browser != "":
		cmd = exec.Command(browser, url)
	case runtime.GOOS == "darwin":
		cmd = exec.Command("open", url)
	case runtime.GOOS == "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
