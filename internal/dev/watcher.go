package dev

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change represents a detected file change.
type Change struct {
	Path string
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch, recursively.
	Paths []string

	// Ignore patterns to skip (matched against base names and path
	// elements).
	Ignore []string

	// Debounce is the delay before triggering on change.
	Debounce time.Duration
}

// DefaultIgnore contains default patterns to ignore.
var DefaultIgnore = []string{
	"*_test.go",
	".git",
	"node_modules",
	"dist",
	"tmp",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher monitors files for changes and reports them debounced.
type Watcher struct {
	config   WatcherConfig
	onChange func(Change)

	fsw *fsnotify.Watcher

	mu      sync.Mutex
	running bool
	pending *time.Timer
	last    Change
	done    chan struct{}
}

// NewWatcher creates a file watcher.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	return &Watcher{config: config}
}

// OnChange sets the change callback.
func (w *Watcher) OnChange(fn func(Change)) {
	w.onChange = fn
}

// Start begins watching. It walks every configured path and registers each
// non-ignored directory with fsnotify.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})

	for _, root := range w.config.Paths {
		err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return nil
			}
			if !info.IsDir() {
				return nil
			}
			if w.ignored(path) {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		})
		if err != nil {
			fsw.Close()
			return err
		}
	}

	w.running = true
	go w.loop()
	return nil
}

// Stop stops watching.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.running = false
	close(w.done)
	w.fsw.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// New directories need registering for recursive watching.
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.fsw.Add(ev.Name)
				}
			}
			w.debounced(Change{Path: ev.Name})
		case _, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
		}
	}
}

// debounced coalesces bursts of changes into one callback.
func (w *Watcher) debounced(c Change) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.last = c
	if w.pending != nil {
		w.pending.Stop()
	}
	w.pending = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		last := w.last
		running := w.running
		w.mu.Unlock()
		if running && w.onChange != nil {
			w.onChange(last)
		}
	})
}

// ignored reports whether path is excluded from watching. Glob patterns are
// matched against the base name; bare names are matched against the path
// elements below the watched root, so a root that itself lives under a
// directory named like an ignore entry (tmp, dist) is still watched.
func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	rel := w.relToRoot(path)
	for _, pat := range append(DefaultIgnore, w.config.Ignore...) {
		if ok, _ := filepath.Match(pat, base); ok {
			return true
		}
		for _, elem := range strings.Split(filepath.ToSlash(rel), "/") {
			if elem == pat {
				return true
			}
		}
	}
	return false
}

// relToRoot strips the enclosing watch root from path, leaving only the
// elements the ignore entries should apply to.
func (w *Watcher) relToRoot(path string) string {
	for _, root := range w.config.Paths {
		rel, err := filepath.Rel(root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if rel == "." {
			return ""
		}
		return rel
	}
	return path
}
