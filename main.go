package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"colorgrid/config"
	"colorgrid/content"
	"colorgrid/grid"
	"colorgrid/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	settings, args, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(2)
	}

	if settings.ShowVersion {
		fmt.Printf("colorgrid %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	logger, closeLog, err := newLogger(settings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	query := settings.Query
	if len(args) > 0 {
		query = args[0]
	}
	if query == "" {
		q, ok := runPrompt()
		if !ok {
			return
		}
		query = q
	}

	if err := run(config.FromAddress(query), settings, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg config.Config, settings *config.Settings, logger *slog.Logger) error {
	if capped, ok := cfg.Clamp(settings.MaxTiles); ok {
		logger.Warn("tile count capped", "requested", cfg.TileCount, "max_tiles", settings.MaxTiles)
		cfg = capped
	}
	logger.Info("page config", "url", cfg.SourceURL, "count", cfg.TileCount)

	// p is assigned before the grid starts, so the callbacks never see nil.
	var p *tea.Program

	embedder := content.NewEmbedder(
		content.WithTimeout(settings.FetchTimeoutDuration()),
		content.WithUserAgent(settings.UserAgent),
		content.WithLogger(logger),
		content.WithOnLoad(func(f *content.Frame) {
			p.Send(ui.FrameLoadedMsg{Index: f.Key().Index})
		}),
	)
	defer embedder.Close()

	g := grid.Build(cfg, embedder,
		grid.WithJitter(grid.Jitter{
			Base:   time.Duration(settings.JitterBaseMS) * time.Millisecond,
			Spread: time.Duration(settings.JitterSpreadMS) * time.Millisecond,
		}),
		grid.WithLogger(logger),
		grid.WithOnReload(func(r grid.Reload) {
			p.Send(ui.TileReloadedMsg(r))
		}),
	)
	defer g.Close()

	p = tea.NewProgram(
		ui.NewModel(g),
		tea.WithAltScreen(),
	)
	g.Start()

	_, err := p.Run()
	return err
}

func runPrompt() (string, bool) {
	p := tea.NewProgram(
		ui.NewPromptModel(),
		tea.WithAltScreen(),
	)

	m, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running prompt: %v\n", err)
		os.Exit(1)
	}
	prompt := m.(ui.PromptModel)
	if prompt.Aborted() {
		return "", false
	}
	return prompt.Query(), true
}

// newLogger writes to the configured log file. The TUI owns the terminal,
// so without a file logs are dropped.
func newLogger(s *config.Settings) (*slog.Logger, func(), error) {
	opts := &slog.HandlerOptions{Level: s.Level()}
	if s.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), func() {}, nil
	}
	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(slog.NewTextHandler(f, opts)), func() { _ = f.Close() }, nil
}
