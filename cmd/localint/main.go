package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"localint/internal/config"
	"localint/internal/observability"
)

var (
	configPath = flag.String("config", "./localint.toml", "Path to config file")
	once       = flag.Bool("once", false, "Run single analysis and exit")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("localint v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
			if err == nil {
				output = f
			} else {
				fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./localint.toml" {
			cfg, err = config.Load("./localint.example.toml")
			if err != nil {
				slog.Debug("no config file found, using defaults")
				cfg, err = config.Default(), nil
			}
		}
		if err != nil {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	config.ApplyEnvOverrides(cfg)

	if flag.NArg() > 0 {
		cfg.Paths = flag.Args()
	}

	ctx := context.Background()
	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			slog.Warn("failed to initialize tracing", "error", err)
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					slog.Warn("failed to flush traces", "error", err)
				}
			}()
		}
	}
	if cfg.Observability.MetricsAddr != "" && !*once {
		observability.NewServer(cfg.Observability.MetricsAddr).Start()
	}

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	// Initial analysis
	failed, err := app.InitialScan(ctx)
	if err != nil {
		slog.Error("initial analysis failed", "error", err)
		os.Exit(1)
	}

	if err := app.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	app.RecordRun()

	if !*ui {
		app.PrintSummary()
	}

	if *once {
		if failed || app.TotalWarnings() > 0 {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Watch mode
	if err := app.StartWatcher(ctx); err != nil {
		slog.Error("failed to start watcher", "error", err)
		os.Exit(1)
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "localint", "localint.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "localint", "localint.log")
	}

	return "localint.log"
}
