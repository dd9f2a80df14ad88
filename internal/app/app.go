package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/clipdeck/clipdeck/internal/backend"
	"github.com/clipdeck/clipdeck/internal/history"
	"github.com/clipdeck/clipdeck/internal/placement"
	"github.com/clipdeck/clipdeck/internal/popup"
	"github.com/clipdeck/clipdeck/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Config describes user-provided application options.
type Config struct {
	DBPath       string
	Width        int
	MaxHeight    int
	RowHeight    int
	PollInterval time.Duration
	Anchor       placement.Rect
	HaveAnchor   bool
	Query        string
	ShowFooter   bool
	Verbose      bool
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	dbPath := cfg.DBPath
	if dbPath == "" {
		resolved, err := DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = resolved
	}
	store, err := history.Open(context.Background(), dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	watcher := backend.NewWatcher(store, cfg.PollInterval, cfg.Query)
	defer watcher.Stop()

	model := ui.NewModel(store, watcher, metrics(cfg), cfg.Anchor, cfg.HaveAnchor, cfg.ShowFooter, cfg.Verbose)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// DefaultDBPath resolves the history database location when no db
// flag is given.
func DefaultDBPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(base, "clipdeck", "history.sqlite"), nil
}

func metrics(cfg Config) popup.Metrics {
	m := popup.DefaultMetrics()
	if cfg.Width > 0 {
		m.Width = float64(cfg.Width)
	}
	if cfg.MaxHeight > 0 {
		m.MaxHeight = float64(cfg.MaxHeight)
	}
	if cfg.RowHeight > 0 {
		m.RowHeight = float64(cfg.RowHeight)
	}
	return m
}
