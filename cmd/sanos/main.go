package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sanos/tui-go/internal/apilog"
	"github.com/sanos/tui-go/internal/config"
	"github.com/sanos/tui-go/internal/session"
	"github.com/sanos/tui-go/internal/tui"
)

func main() {
	var configPath string
	var debug bool
	flag.StringVar(&configPath, "config", "", "path to config file (default ~/.sanos/config.yaml)")
	flag.BoolVar(&debug, "debug", false, "write a request log to ~/.sanos/logs")
	flag.Parse()

	if configPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error resolving config path: %v\n", err)
			os.Exit(1)
		}
		configPath = p
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	store, err := session.DefaultStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving session path: %v\n", err)
		os.Exit(1)
	}
	token, err := store.Load()
	if err != nil {
		// A corrupt session file should not block login from scratch.
		fmt.Fprintf(os.Stderr, "Warning: ignoring unreadable session file: %v\n", err)
		token = ""
	}

	var logs *apilog.Logger
	if debug {
		logs, err = apilog.New()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: request logging disabled: %v\n", err)
		}
		defer logs.Close()
	}

	p := tea.NewProgram(
		tui.NewModel(tui.Options{Config: cfg, Sessions: store, Token: token, Logs: logs}),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
