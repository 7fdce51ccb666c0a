package main

import (
	"fmt"
	"io"
	"os"

	"github.com/nconklindev/xl2xml/internal/config"
	"github.com/nconklindev/xl2xml/internal/converter"
	"github.com/nconklindev/xl2xml/internal/logging"
	"github.com/nconklindev/xl2xml/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
	fmt.Println("End of program")
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	logOut, closeLog, err := logOutput(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	defer closeLog()

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, logOut)
	logger.Info("starting", "version", version, "commit", commit, "built", date, "config", cfg.String())

	opts := converter.Options{
		InputFile:       cfg.Input.File,
		Sheet:           cfg.Input.Sheet,
		BulkOutputFile:  cfg.Output.BulkFile,
		BulkTableName:   cfg.Output.BulkTable,
		TypedOutputFile: cfg.Output.TypedFile,
		TypedTableName:  cfg.Output.TypedTable,
		WriteSchema:     cfg.Output.WriteSchema,
		Logger:          logger,
	}

	if !cfg.UI.Enabled {
		result, err := converter.Export(opts, nil)
		if err != nil {
			fmt.Fprintln(os.Stderr, ui.ErrorView(err))
			return err
		}
		fmt.Println(ui.Summary(result, 0))
		return nil
	}

	p := tea.NewProgram(ui.InitialModel(opts, converter.Export))
	final, err := p.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	if _, err := final.(ui.Model).Result(); err != nil {
		logger.Error("run failed", "error", err)
		return err
	}
	return nil
}

// logOutput picks where logs go: LOG_FILE when set, otherwise stderr, or
// nowhere while the progress UI owns the terminal.
func logOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.UI.Enabled {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}
