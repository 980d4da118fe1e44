package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/favdash/internal/config"
	"github.com/nikbrunner/favdash/internal/logging"
	"github.com/nikbrunner/favdash/internal/search"
	"github.com/nikbrunner/favdash/internal/tui"
)

// runDashboard opens the interactive dashboard.
func runDashboard(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	// The dashboard owns the terminal; send logs to a file instead.
	logFile, err := openLogFile()
	if err != nil {
		return err
	}
	defer logFile.Close()
	logging.SetOutput(logFile)
	defer logging.SetOutput(os.Stderr)

	e.cache.Start()

	searcher := search.NewManager(e.cache, search.ManagerOptions{
		Debounce: e.cfg.SearchDebounce,
		Logger:   logging.Log,
	})
	defer searcher.Close()

	app := tui.NewApp(tui.AppParams{
		Cache:  e.cache,
		Search: searcher,
	})
	defer app.Close()

	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}

func openLogFile() (*os.File, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(dir, "favdash.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
