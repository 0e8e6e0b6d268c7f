package analyzer

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last change before analyzing.
const DefaultDebounce = 500 * time.Millisecond

// BatchFunc is called after each debounced batch of changed files has been analyzed.
type BatchFunc func(stats *Stats, err error)

// Watcher watches the root directory and re-analyzes changed files.
type Watcher struct {
	analyzer     *Analyzer
	rootDir      string
	watcher      *fsnotify.Watcher
	debounceTime time.Duration
	onBatch      BatchFunc
	stopCh       chan struct{}
	doneCh       chan struct{}
	stopOnce     sync.Once
}

// NewWatcher creates a file watcher for the analyzer's root. onBatch may be nil.
func NewWatcher(a *Analyzer, debounce time.Duration, onBatch BatchFunc) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		analyzer:     a,
		rootDir:      a.config.RootDir,
		watcher:      watcher,
		debounceTime: debounce,
		onBatch:      onBatch,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}

	if err := w.addDirectoriesRecursively(w.rootDir); err != nil {
		watcher.Close()
		return nil, err
	}

	return w, nil
}

// Start begins watching for file changes.
func (w *Watcher) Start(ctx context.Context) {
	go w.watch(ctx)
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		<-w.doneCh
		w.watcher.Close()
	})
}

// watch is the main event loop with debouncing logic.
func (w *Watcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	var debounceTimer *time.Timer
	analyzeCh := make(chan struct{}, 1)
	changedFiles := make(map[string]bool)

	stopTimer := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return

		case <-w.stopCh:
			stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// New directories need their own watch
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.shouldWatchDirectory(event.Name) {
						if err := w.addDirectoriesRecursively(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			if !w.shouldProcessEvent(event) {
				continue
			}
			changedFiles[event.Name] = true

			stopTimer()
			debounceTimer = time.AfterFunc(w.debounceTime, func() {
				select {
				case analyzeCh <- struct{}{}:
				default:
				}
			})

		case <-analyzeCh:
			w.analyzeChanged(ctx, changedFiles)
			changedFiles = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// analyzeChanged re-analyzes the changed files that still exist.
func (w *Watcher) analyzeChanged(ctx context.Context, changedFiles map[string]bool) {
	files := make([]string, 0, len(changedFiles))
	for file := range changedFiles {
		if _, err := os.Stat(file); err != nil {
			continue // removed since the event
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		return
	}
	sort.Strings(files)

	log.Printf("Re-analyzing %d changed file(s)...", len(files))
	stats, err := w.analyzer.AnalyzeFiles(ctx, files)
	if err != nil {
		log.Printf("Error during re-analysis: %v", err)
	} else {
		log.Printf("Re-analysis complete in %v (%d records, %d cached, %d failed)",
			stats.Duration, stats.RecordsWritten, stats.FilesCached, len(stats.Failures))
	}

	if w.onBatch != nil {
		w.onBatch(stats, err)
	}
}

// shouldProcessEvent checks if an event should trigger re-analysis.
func (w *Watcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return w.analyzer.discovery.Matches(event.Name)
}

// shouldWatchDirectory checks if a directory should be watched.
func (w *Watcher) shouldWatchDirectory(path string) bool {
	relPath, err := w.analyzer.discovery.relative(path)
	if err != nil {
		return false
	}
	return relPath == "." || !w.analyzer.discovery.shouldIgnore(relPath)
}

// addDirectoriesRecursively adds all directories in the tree to the watcher.
func (w *Watcher) addDirectoriesRecursively(rootPath string) error {
	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}

		if !info.IsDir() {
			return nil
		}

		if !w.shouldWatchDirectory(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
