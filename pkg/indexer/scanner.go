package indexer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/loader"
)

// WorkspaceScanner extracts every matching file of a workspace in parallel
// and stores one catalog entry per file.
//
// **Two-Phase Pipeline:**
//  1. File Discovery - Walk directory tree and match include/exclude globs
//  2. Parallel Extraction - Extract files on a worker pool, storing results
//
// A file that fails is stored as a failed entry; the scan continues.
//
// **Usage:**
//
//	scanner := NewWorkspaceScanner(engine, cat, extract.Options{Dialect: "typescript"}, logger)
//	stats, err := scanner.ScanWorkspace(ctx, "/path/to/workspace", DefaultScanOptions(),
//	    func(done, total int, file string) {
//	        fmt.Printf("Progress: %d/%d - %s\n", done, total, file)
//	    },
//	)
type WorkspaceScanner struct {
	engine  *extract.Engine
	catalog *catalog.Catalog
	options extract.Options
	logger  *slog.Logger
}

// NewWorkspaceScanner creates a new workspace scanner.
func NewWorkspaceScanner(
	engine *extract.Engine,
	cat *catalog.Catalog,
	options extract.Options,
	logger *slog.Logger,
) *WorkspaceScanner {
	return &WorkspaceScanner{
		engine:  engine,
		catalog: cat,
		options: options,
		logger:  logger,
	}
}

// Catalog returns the catalog the scanner writes to.
func (ws *WorkspaceScanner) Catalog() *catalog.Catalog {
	return ws.catalog
}

// ScanWorkspace discovers and extracts all matching files under rootPath.
// Cancelling ctx stops submitting files; already submitted files finish and
// stats.Cancelled is set.
func (ws *WorkspaceScanner) ScanWorkspace(
	ctx context.Context,
	rootPath string,
	options ScanOptions,
	progressCallback ProgressCallback,
) (*ScanStats, error) {
	startTime := time.Now()
	stats := &ScanStats{StartTime: startTime}

	ws.logger.Info("Starting workspace scan", "root", rootPath)

	discoveryStart := time.Now()
	files, err := DiscoverFiles(rootPath, options)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	ws.logger.Info("File discovery complete",
		"files_found", len(files),
		"duration_ms", stats.DiscoveryTimeMs)

	if len(files) == 0 {
		ws.logger.Warn("No files found matching criteria")
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(startTime).Milliseconds()
		return stats, nil
	}

	extractionStart := time.Now()
	ws.ExtractFiles(ctx, files, options.Workers, stats, progressCallback)
	stats.ExtractionTimeMs = time.Since(extractionStart).Milliseconds()

	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(startTime).Milliseconds()
	if secs := time.Since(extractionStart).Seconds(); secs > 0 {
		stats.FilesPerSecond = float64(stats.FilesExtracted+stats.FilesFailed) / secs
	}

	ws.logger.Info("Workspace scan complete",
		"files_extracted", stats.FilesExtracted,
		"files_failed", stats.FilesFailed,
		"components", stats.Components,
		"duration_ms", stats.TotalTimeMs,
		"files_per_second", fmt.Sprintf("%.1f", stats.FilesPerSecond))

	return stats, nil
}

// DiscoverFiles walks rootPath and returns the absolute paths of files that
// match an include pattern and no exclude pattern, in lexical order.
// Patterns are matched against slash-separated paths relative to rootPath.
func DiscoverFiles(rootPath string, options ScanOptions) ([]string, error) {
	if err := validatePatterns(options); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(file string, d fs.DirEntry, err error) error {
		if err != nil {
			if file == root {
				return err
			}
			return nil
		}
		rel, ok := relative(root, file)
		if !ok {
			return nil
		}
		if excluded(rel, options.Exclude) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if included(file, rel, options.Include) {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Matches reports whether file, inside rootPath, would be discovered.
func Matches(rootPath, file string, options ScanOptions) bool {
	rel, ok := relative(rootPath, file)
	if !ok || rel == "." {
		return false
	}
	for dir := path.Dir(rel); dir != "."; dir = path.Dir(dir) {
		if excluded(dir, options.Exclude) {
			return false
		}
	}
	return !excluded(rel, options.Exclude) && included(file, rel, options.Include)
}

func validatePatterns(options ScanOptions) error {
	for _, pattern := range options.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range options.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

func relative(root, file string) (string, bool) {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func excluded(rel string, patterns []string) bool {
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

func included(file, rel string, patterns []string) bool {
	if len(patterns) == 0 {
		return !loader.IsDataFile(file)
	}
	for _, pattern := range patterns {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// ExtractFiles extracts files on a worker pool and stores an entry per file
// in the catalog, accumulating into stats. workers of 0 uses the default
// pool size.
func (ws *WorkspaceScanner) ExtractFiles(
	ctx context.Context,
	files []string,
	workers int,
	stats *ScanStats,
	progressCallback ProgressCallback,
) {
	total := len(files)

	pool := NewWorkerPool(workers, ws.engine, ws.options, ws.logger)
	stats.WorkerCount = pool.Size()
	pool.Start()
	defer pool.Stop()

	// Submission runs beside collection: Submit blocks once the queue is
	// full, and only collection drains it.
	submitted := make(chan int, 1)
	go func() {
		n := 0
		for i, file := range files {
			if ctx.Err() != nil {
				break
			}
			if err := pool.Submit(FileJob{FilePath: file, JobID: i}); err != nil {
				ws.logger.Warn("Failed to submit job", "file", file, "error", err)
				break
			}
			n++
		}
		pool.FinishSubmitting()
		submitted <- n
	}()

	expected, done := -1, 0
	for expected < 0 || done < expected {
		select {
		case n := <-submitted:
			expected = n
			submitted = nil

		case o := <-pool.Outcomes():
			done++
			if o.Failed() {
				ws.catalog.Put(catalog.NewEntry(o.FilePath, nil, o.Err))
				stats.Errors = append(stats.Errors, FileError{FilePath: o.FilePath, Error: o.Err})
				stats.FilesFailed++
				ws.logger.Warn("File extraction failed", "file", o.FilePath, "error", o.Err)
			} else {
				entry := catalog.NewEntry(o.FilePath, o.Result, nil)
				ws.catalog.Put(entry)
				stats.FilesExtracted++
				stats.Components += len(entry.Components)
				stats.Skipped += len(entry.Skipped)
			}
			if progressCallback != nil {
				progressCallback(done, total, o.FilePath)
			}
		}
	}

	if expected < total {
		stats.Cancelled = true
	}
	sort.Slice(stats.Errors, func(i, j int) bool {
		return stats.Errors[i].FilePath < stats.Errors[j].FilePath
	})
}
