package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"ideagraph/internal/adapters/claudecli"
	"ideagraph/internal/adapters/editor"
	"ideagraph/internal/adapters/filewatch"
	"ideagraph/internal/adapters/tui"
	"ideagraph/internal/application/autosave"
	"ideagraph/internal/application/session"
	"ideagraph/internal/bootstrap"
	"ideagraph/internal/config"
	"ideagraph/internal/logging"
)

func main() {
	configFlag := flag.String("config", "", "path to the config file")
	dataDirFlag := flag.String("data-dir", "", "directory holding saved idea sets")
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *dataDirFlag != "" {
		cfg.DataDir = config.ExpandHome(*dataDirFlag)
	}

	// The terminal belongs to the TUI; logs go to a file
	logger, logFile, err := logging.OpenFile(cfg.LogPath(), logging.Level(cfg.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	svc, err := bootstrap.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer svc.Close()

	sess := session.New()
	var program *tea.Program

	watcher, err := filewatch.New(
		[]string{cfg.StorePath(), cfg.UndoPath()},
		func(c filewatch.Change) {
			program.Send(tui.StoreChangedMsg{Path: c.Path})
		},
		filewatch.WithLogger(logger),
	)
	if err != nil {
		// Running without the watcher only loses external-change notices
		logger.Warn("file watcher disabled", "err", err)
	}

	afterWrite := func() {
		if watcher != nil {
			watcher.Acknowledge()
		}
	}

	scheduler := autosave.New(sess, svc.Catalog,
		autosave.WithDelay(cfg.AutosaveDelay),
		autosave.WithLogger(logger),
		autosave.WithNotify(func(o autosave.Outcome) {
			afterWrite()
			program.Send(tui.AutosaveMsg{Outcome: o})
		}),
	)

	app := tui.NewApp(sess, svc.Catalog,
		tui.WithAssistant(claudecli.NewAssistant(claudecli.WithModel(cfg.Model))),
		tui.WithEditor(editor.NewOpener()),
		tui.WithSearcher(svc.Searcher()),
		tui.WithLogger(logger),
		tui.WithAfterWrite(afterWrite),
	)
	program = tea.NewProgram(app, tea.WithAltScreen())

	detach := scheduler.Attach(sess)
	if watcher != nil {
		watcher.Start()
	}

	logger.Info("ideagraph started", "data_dir", cfg.DataDir)
	_, runErr := program.Run()

	// A pending autosave is written before exit
	detach()
	scheduler.Flush()
	scheduler.Stop()
	if watcher != nil {
		watcher.Stop()
	}

	if runErr != nil {
		logger.Error("ideagraph stopped", "err", runErr)
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		svc.Close()
		logFile.Close()
		os.Exit(1)
	}
}
