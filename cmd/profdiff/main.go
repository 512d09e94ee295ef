// Package main is the entry point for profdiff.
// It initializes configuration, services, and runs the Bubble Tea program,
// or prints a one-shot comparison report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/profdiff-tui/internal/app"
	"github.com/j-veylop/profdiff-tui/internal/config"
	"github.com/j-veylop/profdiff-tui/internal/logger"
	"github.com/j-veylop/profdiff-tui/internal/services"
	"github.com/j-veylop/profdiff-tui/internal/services/comparison"
	"github.com/j-veylop/profdiff-tui/internal/ui/tabs/compare"
	"github.com/j-veylop/profdiff-tui/internal/ui/tabs/history"
	"github.com/j-veylop/profdiff-tui/internal/ui/tabs/info"
	"github.com/j-veylop/profdiff-tui/internal/ui/tabs/profiles"
	"github.com/j-veylop/profdiff-tui/internal/version"
)

func main() {
	// Handle version flag
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Handle help flag
	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	var err error
	switch args := os.Args[1:]; {
	case len(args) > 0 && args[0] == "report":
		if len(args) != 3 {
			printUsage()
			os.Exit(2)
		}
		err = runReport(os.Stdout, args[1], args[2])
	case len(args) == 2:
		err = run(args[0], args[1])
	case len(args) == 0:
		err = run("", "")
	default:
		printUsage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads configuration and points the logger at the log file.
func setup() (*config.Config, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	closer, err := logger.Setup(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return cfg, closer, nil
}

// runReport compares two captures and writes a text report to w.
// Nothing is recorded in the history database.
func runReport(w io.Writer, baseline, candidate string) error {
	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	svc := comparison.New(nil, comparison.Config{
		FPSFunction:         cfg.FPSFunction,
		Division:            cfg.DivisionPolicy,
		RegressionThreshold: cfg.RegressionThreshold,
	})

	report, err := svc.CompareFiles(context.Background(), baseline, candidate)
	if err != nil {
		return err
	}

	return writeReport(w, report, cfg.RegressionThreshold)
}

// run contains the main application logic, separated for cleaner error handling.
// When both paths are set they are compared as soon as the TUI starts.
func run(baseline, candidate string) error {
	// 1. Load configuration from .env files and environment variables
	cfg, closer, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	// 2. Initialize the service manager
	// This opens the history database and starts watching the capture directory
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	// Ensure cleanup on exit
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)
	if baseline != "" && candidate != "" {
		model.SetInitialComparison(absPath(baseline), absPath(candidate))
	}

	// 4. Initialize tabs with shared state and services
	state := model.GetState()
	tabs := []app.Tab{
		compare.New(state, cfg.RegressionThreshold),             // Tab 0: Compare - current report
		profiles.New(state, svcManager),                         // Tab 1: Profiles - capture browser
		history.New(state, svcManager, cfg.RegressionThreshold), // Tab 2: History - past comparisons
		info.New(state, cfg, svcManager.Database()),             // Tab 3: Info - configuration and app info
	}
	model.SetTabs(tabs)

	// 5. Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// 6. Create and configure the Bubble Tea program
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	// 7. Handle signals in a separate goroutine
	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	// 8. Run the TUI program
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`profdiff - compare two profiler captures function by function

Usage:
  profdiff                       Watch PROFILE_DIR and compare new captures
  profdiff A.json B.json         Open the TUI with A (baseline) vs B (candidate)
  profdiff report A.json B.json  Print a text report and exit

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-4             Switch between tabs (Compare, Profiles, History, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Navigate lists
  a / b           Mark baseline / candidate (Profiles)
  Enter           Compare / show details
  x               Swap A and B (Compare)
  R               Rescan captures
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  PROFILE_DIR             Directory holding profile_Data_NNNN.json captures
  BASELINE_PATH           Fixed baseline capture (default: previous capture)
  FPS_FUNCTION            Function whose mean duration is one frame (default: DrawFrame)
  DIVISION_POLICY         Zero baseline duration: skip, nan or fail (default: skip)
  REGRESSION_THRESHOLD    Slowdown in percent counted as a regression (default: 5)
  WATCH_DEBOUNCE          Delay before reading a new capture; bare numbers are milliseconds (default: 250ms)
  AUTO_COMPARE            Compare each new capture automatically (default: true)
  NOTIFICATIONS           Desktop notification on regressions (default: true)
  DATABASE_PATH           SQLite history database path
  LOG_PATH                Log file path
  LOG_LEVEL               debug, info, warn or error (default: info)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/profdiff/.env
  - ~/.profdiff/.env`)
}
