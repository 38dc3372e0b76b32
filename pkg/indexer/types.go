package indexer

import (
	"time"
)

// ScanOptions configures workspace scanning behavior.
type ScanOptions struct {
	// Include patterns (glob syntax, e.g., "**/*.tsx")
	// If empty, every file with a source extension is included
	Include []string

	// Exclude patterns (glob syntax, e.g., "node_modules/**")
	// Matching directories are not descended into
	Exclude []string

	// Workers is the number of extraction goroutines
	// 0 = util.DefaultPoolSize()
	Workers int
}

// DefaultScanOptions returns recommended scan options.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		Include: []string{
			"**/*.ts",
			"**/*.tsx",
			"**/*.js",
			"**/*.jsx",
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			"coverage/**",
			"out/**",
			".next/**",
			"**/*.d.ts",
		},
	}
}

// ScanStats contains statistics about a workspace scan.
type ScanStats struct {
	// FilesDiscovered is the total number of files found
	FilesDiscovered int

	// FilesExtracted is the number of files extracted without error
	FilesExtracted int

	// FilesFailed is the number of files whose extraction failed
	FilesFailed int

	// Components is the number of component records produced
	Components int

	// Skipped is the number of annotated declarations that were not components
	Skipped int

	// TotalTimeMs is the total scan duration in milliseconds
	TotalTimeMs int64

	// DiscoveryTimeMs is time spent discovering files
	DiscoveryTimeMs int64

	// ExtractionTimeMs is time spent extracting files
	ExtractionTimeMs int64

	// FilesPerSecond is the throughput rate
	FilesPerSecond float64

	// WorkerCount is the number of workers used
	WorkerCount int

	// Errors contains per-file errors (if any), sorted by path
	Errors []FileError

	// Cancelled indicates if the scan was cancelled
	Cancelled bool

	StartTime time.Time
	EndTime   time.Time
}

// FileError represents an error that occurred while processing a file.
type FileError struct {
	FilePath string
	Error    error
}

// ProgressCallback is called once per processed file during a scan.
//
// Parameters:
//   - done: Number of files processed so far (extracted or failed)
//   - total: Total number of files to process
//   - currentFile: Path of the file just processed
type ProgressCallback func(done, total int, currentFile string)

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds
	// Multiple rapid changes to a file are grouped into a single re-extraction
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are glob patterns matched against the file's base name
	IgnorePatterns []string
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"*.swp",
			"*.tmp",
			"*~",
		},
	}
}

// WatchEvent reports the files re-extracted after a change.
type WatchEvent struct {
	// FilePath is the absolute path of the changed file
	FilePath string

	// Op is the operation that occurred (Create, Write, Remove, Rename)
	Op string

	// Updated lists the catalog entries refreshed because of the change:
	// the file itself when it is a scanned source, followed by its dependents
	Updated []string

	// Removed is set when the file left the catalog
	Removed bool

	Timestamp time.Time
}
