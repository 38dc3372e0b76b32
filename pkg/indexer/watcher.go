package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/reacttypes/pkg/loader"
)

// FileWatcher watches a workspace and refreshes the catalog as files change.
//
// **Features:**
//   - Debouncing - Groups rapid changes to one file into a single refresh
//   - Dependents - A changed module re-extracts every file that imported it
//   - New directories are watched as they appear
//
// **Usage:**
//
//	fw, err := ix.Watch(ctx)
//	if err != nil {
//	    return err
//	}
//	defer fw.Stop()
//	for ev := range fw.Events() {
//	    fmt.Println(ev.FilePath, ev.Updated)
//	}
type FileWatcher struct {
	watcher *fsnotify.Watcher
	indexer *Indexer
	logger  *slog.Logger
	options WatchOptions
	events  chan WatchEvent

	// Debouncing
	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	// Lifecycle
	ctx      context.Context
	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
	wg       sync.WaitGroup
}

// NewFileWatcher creates a file watcher that refreshes ix.
func NewFileWatcher(ix *Indexer, options WatchOptions, logger *slog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	if options.DebounceMs == 0 {
		options.DebounceMs = DefaultWatchOptions().DebounceMs
	}

	return &FileWatcher{
		watcher:        watcher,
		indexer:        ix,
		logger:         logger,
		options:        options,
		events:         make(chan WatchEvent, 64),
		debounceTimers: make(map[string]*time.Timer),
		ctx:            context.Background(),
		stopChan:       make(chan struct{}),
	}, nil
}

// Events delivers one event per refresh. It is closed by Stop. Events are
// dropped when nobody reads them.
func (fw *FileWatcher) Events() <-chan WatchEvent {
	return fw.events
}

// Start begins watching rootPath and its subdirectories. The watcher stops
// on its own when ctx is cancelled.
func (fw *FileWatcher) Start(ctx context.Context, rootPath string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.ctx = ctx
	fw.mu.Unlock()

	if err := fw.addTree(rootPath); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootPath, err)
	}

	fw.logger.Info("File watcher started", "root", rootPath, "debounce_ms", fw.options.DebounceMs)

	fw.wg.Add(1)
	go fw.eventLoop()
	return nil
}

// addTree watches dir and every non-ignored directory below it.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the watcher, cancels pending refreshes and closes Events.
//
// **Thread Safety:** Safe to call multiple times (idempotent).
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	close(fw.stopChan)
	fw.mu.Unlock()

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.wg.Wait()
	close(fw.events)
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	defer fw.wg.Done()
	for {
		select {
		case <-fw.stopChan:
			return

		case <-fw.ctx.Done():
			go func() { _ = fw.Stop() }()
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

// handleEvent processes a file system event.
func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	path := event.Name
	if fw.ignoredFile(path) {
		return
	}

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !fw.ignoredDir(path) {
				if err := fw.addTree(path); err != nil {
					fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
				}
			}
			return
		}
	}

	// Data files never enter a catalog entry's dependencies.
	if loader.IsDataFile(path) {
		return
	}
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", path)
	fw.debounceRefresh(path, event.Op.String())
}

// debounceRefresh schedules a refresh after the debounce delay. Within the
// window only the last event for a file triggers it.
func (fw *FileWatcher) debounceRefresh(path, op string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[path]; exists {
		timer.Stop()
	}

	fw.debounceTimers[path] = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.debounceMu.Lock()
			delete(fw.debounceTimers, path)
			fw.debounceMu.Unlock()

			fw.refresh(path, op)
		},
	)
}

func (fw *FileWatcher) refresh(path, op string) {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return
	}
	// Holding mu keeps Stop from closing events mid-send.
	defer fw.mu.Unlock()

	ev := fw.indexer.Refresh(fw.ctx, path)
	ev.Op = op
	if len(ev.Updated) == 0 && !ev.Removed {
		return
	}
	select {
	case fw.events <- ev:
	default:
		fw.logger.Debug("Watch event dropped", "file", path)
	}
}

// ignoredFile matches the base name against the ignore patterns.
func (fw *FileWatcher) ignoredFile(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

// ignoredDir reports directories the scan would never descend into.
func (fw *FileWatcher) ignoredDir(path string) bool {
	switch filepath.Base(path) {
	case "node_modules", ".git":
		return true
	}
	rel, ok := relative(fw.indexer.Root(), path)
	return ok && excluded(rel, fw.indexer.scan.Exclude)
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingRefreshes: pending,
		IsRunning:        running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingRefreshes int
	IsRunning        bool
}
