// Package watcher re-triggers analysis when watched Lua sources change.
package watcher

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

// Watcher batches filesystem events into debounced change sets. Only .lua
// files pass the filter; directory and file exclusions are glob patterns
// matched against the base name.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	dirSkip  []glob.Glob
	fileSkip []glob.Glob
	onChange func([]string)

	mu      sync.Mutex
	pending map[string]struct{}
	kick    chan struct{}
	done    chan struct{}
}

func NewWatcher(debounce time.Duration, excludeDirs, excludeFiles []string, onChange func([]string)) (*Watcher, error) {
	dirSkip, err := compileGlobs(excludeDirs)
	if err != nil {
		return nil, err
	}
	fileSkip, err := compileGlobs(excludeFiles)
	if err != nil {
		return nil, err
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		dirSkip:  dirSkip,
		fileSkip: fileSkip,
		onChange: onChange,
		pending:  make(map[string]struct{}),
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}, nil
}

func compileGlobs(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// Watch registers the paths and starts the event and flush loops. It
// returns immediately; change sets arrive on the callback until Close.
func (w *Watcher) Watch(paths []string) error {
	for _, path := range paths {
		if err := w.addTree(path); err != nil {
			return err
		}
	}
	go w.eventLoop()
	go w.flushLoop()
	return nil
}

// addTree registers a directory recursively. A plain file is watched
// through its parent directory, since editors that replace files on save
// would otherwise drop the watch.
func (w *Watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return w.fs.Add(filepath.Dir(root))
	}
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if w.skipDir(path) {
			return filepath.SkipDir
		}
		return w.fs.Add(path)
	})
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.adoptDir(event.Name)
			return
		}
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}
	if w.skipFile(event.Name) {
		return
	}
	w.enqueue(event.Name)
}

// adoptDir brings a newly created directory under watch and queues any
// files that appeared inside it before the watch was in place.
func (w *Watcher) adoptDir(dir string) {
	if w.skipDir(dir) {
		return
	}
	if err := w.addTree(dir); err != nil {
		slog.Warn("failed to watch new directory", "path", dir, "error", err)
		return
	}
	_ = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil || info.IsDir() {
			return nil
		}
		if !w.skipFile(path) {
			w.enqueue(path)
		}
		return nil
	})
}

func (w *Watcher) enqueue(path string) {
	w.mu.Lock()
	w.pending[path] = struct{}{}
	w.mu.Unlock()

	select {
	case w.kick <- struct{}{}:
	default:
	}
}

// flushLoop waits for event batches to settle before invoking the
// callback: each new event during the debounce window restarts it.
func (w *Watcher) flushLoop() {
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-w.done:
			timer.Stop()
			return
		case <-w.kick:
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(w.debounce)
			armed = true
		case <-timer.C:
			armed = false
			if paths := w.takePending(); len(paths) > 0 {
				w.onChange(paths)
			}
		}
	}
}

func (w *Watcher) takePending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	paths := make([]string, 0, len(w.pending))
	for path := range w.pending {
		paths = append(paths, path)
	}
	w.pending = make(map[string]struct{})
	return paths
}

func (w *Watcher) skipDir(path string) bool {
	return matchBase(w.dirSkip, path)
}

func (w *Watcher) skipFile(path string) bool {
	if !strings.HasSuffix(path, ".lua") {
		return true
	}
	return matchBase(w.fileSkip, path)
}

func matchBase(globs []glob.Glob, path string) bool {
	base := filepath.Base(path)
	for _, g := range globs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fs.Close()
}
