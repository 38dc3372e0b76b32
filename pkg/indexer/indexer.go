// Package indexer keeps a catalog of extracted component types for a
// workspace: a parallel initial scan, then incremental re-extraction as files
// change.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/util"
)

// Config configures an Indexer.
type Config struct {
	Engine *extract.Engine

	// Catalog receives the entries. Nil creates an empty catalog for the root.
	Catalog *catalog.Catalog

	// Extract applies to every file; Filename is set per file.
	Extract extract.Options

	Scan   ScanOptions
	Watch  WatchOptions
	Logger *slog.Logger
}

// Indexer ties a workspace root to its catalog.
type Indexer struct {
	root    string
	engine  *extract.Engine
	scanner *WorkspaceScanner
	scan    ScanOptions
	watch   WatchOptions
	logger  *slog.Logger
}

// New creates an Indexer for root.
func New(root string, cfg Config) (*Indexer, error) {
	if cfg.Engine == nil {
		return nil, errors.New("indexer: engine is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("indexer: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = util.NopLogger()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = catalog.New(abs)
	}
	if cfg.Watch.DebounceMs == 0 {
		cfg.Watch.DebounceMs = DefaultWatchOptions().DebounceMs
	}
	if cfg.Scan.Include == nil && cfg.Scan.Exclude == nil {
		workers := cfg.Scan.Workers
		cfg.Scan = DefaultScanOptions()
		cfg.Scan.Workers = workers
	}
	return &Indexer{
		root:    abs,
		engine:  cfg.Engine,
		scanner: NewWorkspaceScanner(cfg.Engine, cfg.Catalog, cfg.Extract, cfg.Logger),
		scan:    cfg.Scan,
		watch:   cfg.Watch,
		logger:  cfg.Logger,
	}, nil
}

// Root returns the absolute workspace root.
func (ix *Indexer) Root() string { return ix.root }

// Catalog returns the catalog being maintained.
func (ix *Indexer) Catalog() *catalog.Catalog { return ix.scanner.Catalog() }

// Scan extracts every matching file of the workspace.
func (ix *Indexer) Scan(ctx context.Context, progress ProgressCallback) (*ScanStats, error) {
	return ix.scanner.ScanWorkspace(ctx, ix.root, ix.scan, progress)
}

// Includes reports whether path is a workspace source the scan would pick up.
func (ix *Indexer) Includes(path string) bool {
	return Matches(ix.root, path, ix.scan)
}

// Refresh brings the catalog up to date after path changed on disk. The
// loader forgets its cached copy; path is re-extracted when it still exists
// and is a workspace source, and removed from the catalog otherwise; every
// entry that read path while resolving imports is re-extracted too.
func (ix *Indexer) Refresh(ctx context.Context, path string) WatchEvent {
	ev := WatchEvent{FilePath: path, Timestamp: time.Now()}
	ix.engine.Loader().Invalidate(path)

	dependents := ix.Catalog().Dependents(path)

	var files []string
	if _, err := os.Stat(path); err == nil && ix.Includes(path) {
		files = append(files, path)
	} else if ix.Catalog().Remove(path) {
		ev.Removed = true
	}
	for _, dep := range dependents {
		if dep != path {
			files = append(files, dep)
		}
	}
	if len(files) == 0 {
		return ev
	}

	stats := &ScanStats{}
	ix.scanner.ExtractFiles(ctx, files, ix.scan.Workers, stats, nil)
	ev.Updated = files

	ix.logger.Info("Catalog refreshed",
		"file", path,
		"updated", len(files),
		"failed", stats.FilesFailed,
		"removed", ev.Removed)
	return ev
}

// Watch starts a watcher that refreshes the catalog as files change. Stop
// it with FileWatcher.Stop.
func (ix *Indexer) Watch(ctx context.Context) (*FileWatcher, error) {
	fw, err := NewFileWatcher(ix, ix.watch, ix.logger)
	if err != nil {
		return nil, err
	}
	if err := fw.Start(ctx, ix.root); err != nil {
		_ = fw.Stop()
		return nil, err
	}
	return fw, nil
}
