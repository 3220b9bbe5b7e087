package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcher(t *testing.T) {
	tmpDir := t.TempDir()

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"exclude_dir"}, []string{"*_gen.lua"}, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	// Create a Lua file
	testFile := filepath.Join(tmpDir, "enemy.lua")
	os.WriteFile(testFile, []byte("local hp = 10"), 0644)

	select {
	case paths := <-changedFiles:
		found := false
		for _, p := range paths {
			if p == testFile {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected to find %s in changed files %v", testFile, paths)
		}
	case <-time.After(2 * time.Second):
		t.Error("Timed out waiting for file change event")
	}

	// Non-Lua files never trigger events.
	os.WriteFile(filepath.Join(tmpDir, "notes.txt"), []byte("ignore me"), 0644)
	// Neither do excluded patterns.
	os.WriteFile(filepath.Join(tmpDir, "items_gen.lua"), []byte("local x = 1"), 0644)

	select {
	case paths := <-changedFiles:
		for _, p := range paths {
			base := filepath.Base(p)
			if base == "notes.txt" || base == "items_gen.lua" {
				t.Errorf("Excluded file %s triggered event", base)
			}
		}
	case <-time.After(500 * time.Millisecond):
		// Expected
	}

	// New directory should be recursively watched after create.
	subdir := filepath.Join(tmpDir, "newdir")
	if err := os.MkdirAll(subdir, 0755); err != nil {
		t.Fatal(err)
	}
	subFile := filepath.Join(subdir, "nested.lua")
	if err := os.WriteFile(subFile, []byte("local nested = true"), 0644); err != nil {
		t.Fatal(err)
	}

	foundNested := false
	timeout := time.After(2 * time.Second)
	for !foundNested {
		select {
		case paths := <-changedFiles:
			for _, p := range paths {
				if p == subFile {
					foundNested = true
					break
				}
			}
		case <-timeout:
			t.Fatal("timed out waiting for nested file event in newly created directory")
		}
	}
}

func TestWatcherExcludedDir(t *testing.T) {
	tmpDir := t.TempDir()
	skipped := filepath.Join(tmpDir, "exclude_dir")
	if err := os.MkdirAll(skipped, 0755); err != nil {
		t.Fatal(err)
	}

	changedFiles := make(chan []string, 1)
	w, err := NewWatcher(100*time.Millisecond, []string{"exclude_dir"}, nil, func(paths []string) {
		changedFiles <- paths
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := w.Watch([]string{tmpDir}); err != nil {
		t.Fatal(err)
	}

	os.WriteFile(filepath.Join(skipped, "hidden.lua"), []byte("local x = 1"), 0644)

	select {
	case paths := <-changedFiles:
		t.Errorf("excluded directory triggered event: %v", paths)
	case <-time.After(500 * time.Millisecond):
		// Expected
	}
}

func TestNewWatcherRejectsBadPattern(t *testing.T) {
	_, err := NewWatcher(time.Millisecond, []string{"[bad"}, nil, func([]string) {})
	if err == nil {
		t.Error("expected error for malformed glob pattern")
	}
}
