package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gobwas/glob"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"localint/internal/config"
	"localint/internal/history"
	"localint/internal/observability"
	"localint/internal/output"
	"localint/internal/parser"
	"localint/internal/util"
	"localint/internal/verify"
	"localint/internal/watcher"
)

type App struct {
	Config   *config.Config
	Frontend *parser.Frontend

	history    *history.Store
	limiter    *util.Limiter
	teaProgram *tea.Program

	// Per-file results, replaced on re-analysis so watch mode stays
	// incremental without re-reading unchanged files.
	mu      sync.Mutex
	results map[string]output.FileResult
}

func NewApp(cfg *config.Config) (*App, error) {
	a := &App{
		Config:   cfg,
		Frontend: parser.NewFrontend(),
		limiter:  util.NewLimiter(cfg.Watch.RatePerSecond, cfg.Watch.Burst),
		results:  make(map[string]output.FileResult),
	}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		a.history = store
	}

	return a, nil
}

func (a *App) Close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			slog.Warn("failed to close history store", "error", err)
		}
	}
}

// verifierOptions builds the per-file verifier configuration. Every file
// gets a fresh verifier: analyses never share scope state.
func (a *App) verifierOptions() verify.Options {
	return verify.Options{
		Globals:          a.Config.Globals.Names,
		GlobalPatterns:   a.Config.Globals.Patterns,
		Derived:          a.Config.Derived.Constructors,
		DerivedSeparator: a.Config.Derived.Separator,
		CloneName:        a.Config.Derived.Clone,
	}
}

// InitialScan analyzes every configured path. It reports whether any file
// failed structurally; warnings alone do not count as failure here.
func (a *App) InitialScan(ctx context.Context) (failed bool, err error) {
	ctx, span := observability.Tracer.Start(ctx, "app.InitialScan")
	defer span.End()

	files, err := a.ScanDirectories(a.Config.Paths, a.Config.Exclude.Dirs, a.Config.Exclude.Files)
	if err != nil {
		return false, err
	}
	span.SetAttributes(attribute.Int("files", len(files)))

	for _, filePath := range files {
		if err := a.AnalyzeFile(ctx, filePath); err != nil {
			slog.Warn("failed to analyze file", "path", filePath, "error", err)
			failed = true
		}
	}
	return failed, nil
}

func (a *App) ScanDirectories(paths []string, excludeDirs, excludeFiles []string) ([]string, error) {
	var files []string

	dirGlobs := make([]glob.Glob, 0, len(excludeDirs))
	for _, p := range excludeDirs {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude dir pattern %q: %w", p, err)
		}
		dirGlobs = append(dirGlobs, g)
	}

	fileGlobs := make([]glob.Glob, 0, len(excludeFiles))
	for _, p := range excludeFiles {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude file pattern %q: %w", p, err)
		}
		fileGlobs = append(fileGlobs, g)
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			base := filepath.Base(path)

			if d.IsDir() {
				for _, g := range dirGlobs {
					if g.Match(base) {
						return filepath.SkipDir
					}
				}
				return nil
			}

			if filepath.Ext(path) != ".lua" {
				return nil
			}

			for _, g := range fileGlobs {
				if g.Match(base) {
					return nil
				}
			}

			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return files, nil
}

// AnalyzeFile runs the full pipeline on one file: read, parse, verify.
// Structural failures come back as errors; warnings land in the result set.
func (a *App) AnalyzeFile(ctx context.Context, path string) error {
	_, span := observability.Tracer.Start(ctx, "app.AnalyzeFile",
		trace.WithAttributes(attribute.String("path", path)))
	defer span.End()

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	parseStart := time.Now()
	chunk, err := a.Frontend.ParseFile(path, content)
	observability.ParsingDuration.Observe(time.Since(parseStart).Seconds())
	if err != nil {
		observability.AnalysisErrorsTotal.Inc()
		return err
	}

	v, err := verify.New(a.verifierOptions())
	if err != nil {
		return err
	}

	analysisStart := time.Now()
	err = v.Check(chunk)
	observability.AnalysisDuration.Observe(time.Since(analysisStart).Seconds())
	if err != nil {
		observability.AnalysisErrorsTotal.Inc()
		return err
	}

	warnings := v.Warnings()
	observability.FilesAnalyzedTotal.Inc()
	for _, w := range warnings {
		observability.WarningsTotal.WithLabelValues(string(w.Kind)).Inc()
	}

	a.mu.Lock()
	a.results[path] = output.FileResult{Path: path, Warnings: warnings}
	a.mu.Unlock()
	return nil
}

// HandleChanges is the watcher callback: re-analyze changed files and
// refresh outputs.
func (a *App) HandleChanges(paths []string) {
	observability.WatcherEventsTotal.Inc()
	slog.Info("detected changes", "count", len(paths))

	ctx := context.Background()
	if err := a.limiter.Wait(ctx, 1); err != nil {
		return
	}

	start := time.Now()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			a.mu.Lock()
			delete(a.results, path)
			a.mu.Unlock()
			continue
		}

		if err := a.AnalyzeFile(ctx, path); err != nil {
			slog.Warn("failed to re-analyze file", "path", path, "error", err)
		}
	}

	if err := a.GenerateOutputs(); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.RecordRun()

	duration := time.Since(start)
	slog.Debug("re-analysis complete", "files", len(paths), "duration", duration)
	a.PrintSummary()

	if a.teaProgram != nil {
		a.teaProgram.Send(updateMsg{
			results:   a.SortedResults(),
			fileCount: a.FileCount(),
		})
	}
}

// SortedResults returns a stable snapshot of per-file results.
func (a *App) SortedResults() []output.FileResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	results := make([]output.FileResult, 0, len(a.results))
	for _, r := range a.results {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })
	return results
}

func (a *App) FileCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

func (a *App) TotalWarnings() int {
	return output.TotalWarnings(a.SortedResults())
}

func (a *App) GenerateOutputs() error {
	results := a.SortedResults()

	if path := a.Config.Output.Text; path != "" {
		if err := os.WriteFile(path, []byte(output.GenerateText(results)), 0644); err != nil {
			return fmt.Errorf("write text output: %w", err)
		}
	}
	if path := a.Config.Output.TSV; path != "" {
		if err := os.WriteFile(path, []byte(output.GenerateTSV(results)), 0644); err != nil {
			return fmt.Errorf("write tsv output: %w", err)
		}
	}
	if path := a.Config.Output.SARIF; path != "" {
		root, _ := os.Getwd()
		doc, err := output.GenerateSARIF(root, VERSION, results)
		if err != nil {
			return fmt.Errorf("render sarif: %w", err)
		}
		if err := os.WriteFile(path, doc, 0644); err != nil {
			return fmt.Errorf("write sarif output: %w", err)
		}
	}
	return nil
}

// RecordRun persists the run summary when a history store is configured.
func (a *App) RecordRun() {
	if a.history == nil {
		return
	}
	results := a.SortedResults()
	run := history.Run{
		ProjectKey:        a.Config.History.ProjectKey,
		FileCount:         len(results),
		WarningCount:      output.TotalWarnings(results),
		UndefinedCount:    output.CountByKind(results, verify.WarnUseUndefined),
		RedefinitionCount: output.CountByKind(results, verify.WarnRedefinition),
	}
	if err := a.history.SaveRun(run); err != nil {
		slog.Warn("failed to record run", "error", err)
	}
}

func (a *App) PrintSummary() {
	results := a.SortedResults()
	total := output.TotalWarnings(results)

	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Analyzed %d files\n", len(results))
	if total == 0 {
		fmt.Println("✅ No warnings.")
	} else {
		fmt.Print(output.GenerateText(results))
	}

	if a.history != nil {
		runs, err := a.history.LoadRuns(a.Config.History.ProjectKey, time.Time{})
		if err == nil {
			if trend := history.ComputeTrend(runs); trend != nil && trend.Previous != nil {
				fmt.Printf("Trend: %+d warnings since previous run\n", trend.WarningDelta)
			}
		}
	}
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) RunUI() error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(updateMsg{
			results:   a.SortedResults(),
			fileCount: a.FileCount(),
		})
	}()

	_, err := p.Run()
	return err
}

func (a *App) StartWatcher(ctx context.Context) error {
	w, err := watcher.NewWatcher(
		a.Config.Watch.Debounce,
		a.Config.Exclude.Dirs,
		a.Config.Exclude.Files,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	// Runs until the process exits; no explicit Close.
	return w.Watch(a.Config.Paths)
}
