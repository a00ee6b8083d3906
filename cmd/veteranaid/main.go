// cmd/veteranaid/main.go
//
// This is the entry point for the veteran-aid terminal client.
//
// Flow:
// 1. Resolve and initialize the home directory (~/.veteranaid)
// 2. Load config (yaml file + .env + environment overrides)
// 3. Wire the logbook, session store, query cache and gateway client
// 4. Launch the TUI

package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	"github.com/xvanc-yurii/veteran-aid/internal/config"
	"github.com/xvanc-yurii/veteran-aid/internal/logbook"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
	"github.com/xvanc-yurii/veteran-aid/internal/session"
	"github.com/xvanc-yurii/veteran-aid/internal/tui"
)

func main() {
	home, err := config.ResolveHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving home directory: %v\n", err)
		os.Exit(1)
	}
	if err := config.InitHome(home); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing %s: %v\n", home, err)
		os.Exit(1)
	}

	cfg, err := config.New(home)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "client.log"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	defer lb.Close()

	store, err := session.New(cfg.SessionTokenPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		os.Exit(1)
	}

	cache := query.NewCache()

	// Every token change means a different identity; cached resources from
	// the old one must not survive it. Logout and the 401 hook both clear
	// the session, so this is the one teardown path for the cache.
	store.Subscribe(cache.Clear)

	// The 401 hook tears down local state; the TUI handles the redirect
	// when the failed call's result message arrives.
	client := api.NewClient(cfg.BaseURL(), cfg.Timeout(),
		api.WithTokenSource(store.Token),
		api.WithUnauthorizedHook(func() {
			store.Clear()
			lb.Warn("session rejected by server, cleared local state")
		}),
		api.WithLogger(lb),
	)

	lb.Info("client starting", "base_url", cfg.BaseURL(), "home", home)

	p := tea.NewProgram(
		tui.NewApp(cfg, client, store, cache, tui.WithLogbook(lb)),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
