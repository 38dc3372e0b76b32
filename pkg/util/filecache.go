package util

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// FileCache serves source files from memory-mapped regions.
//
// Returned byte slices alias the mapping and stay valid until Close, even
// after the path is invalidated: invalidated mappings are retired, not
// unmapped, so extractions still holding the old bytes are unaffected.
//
// Safe for concurrent use.
type FileCache interface {
	// ReadFile returns the file contents, mapping the file on first access.
	ReadFile(path string) ([]byte, error)

	// Invalidate drops the cached contents of path so the next ReadFile
	// sees the file as it is on disk now.
	Invalidate(path string)

	// Size returns the number of cached files.
	Size() int

	Stats() FileCacheStats

	// Close unmaps every mapping, including retired ones.
	Close() error
}

// FileCacheConfig controls FileCache limits. Zero means unlimited.
type FileCacheConfig struct {
	MaxFiles    int
	MaxMemoryMB int
	Logger      *slog.Logger
}

// DefaultFileCacheConfig returns limits suited to a medium monorepo.
func DefaultFileCacheConfig() *FileCacheConfig {
	return &FileCacheConfig{
		MaxFiles:    10000,
		MaxMemoryMB: 2048,
	}
}

// FileCacheStats tracks cache performance.
type FileCacheStats struct {
	FilesLoaded   int64
	FilesCached   int
	CacheHits     int64
	CacheMisses   int64
	MmapFailures  int64
	Invalidations int64
	TotalMappedMB float64
}

// ErrCacheFull is returned when loading a file would exceed a configured limit.
var ErrCacheFull = errors.New("file cache limit reached")

type mappedFile struct {
	data   mmap.MMap // nil for empty files
	heap   []byte    // set when mmap failed and the file was read instead
	file   *os.File
	mapped bool
}

func (mf *mappedFile) bytes() []byte {
	if mf.mapped {
		return mf.data
	}
	return mf.heap
}

func (mf *mappedFile) size() int64 {
	return int64(len(mf.bytes()))
}

func (mf *mappedFile) release() error {
	var errs []error
	if mf.mapped && mf.data != nil {
		if err := mf.data.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
	}
	if mf.file != nil {
		if err := mf.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close: %w", err))
		}
	}
	return errors.Join(errs...)
}

type fileCache struct {
	config *FileCacheConfig
	logger *slog.Logger

	mu      sync.RWMutex
	files   map[string]*mappedFile
	retired []*mappedFile

	statsMu sync.Mutex
	stats   FileCacheStats
}

// NewFileCache creates a FileCache. A nil config uses DefaultFileCacheConfig.
func NewFileCache(config *FileCacheConfig) FileCache {
	if config == nil {
		config = DefaultFileCacheConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &fileCache{
		config: config,
		logger: logger,
		files:  make(map[string]*mappedFile),
	}
}

func (fc *fileCache) ReadFile(path string) ([]byte, error) {
	fc.mu.RLock()
	if mf, ok := fc.files[path]; ok {
		fc.mu.RUnlock()
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf.bytes(), nil
	}
	fc.mu.RUnlock()

	fc.mu.Lock()
	defer fc.mu.Unlock()

	// Another goroutine may have loaded it while we waited.
	if mf, ok := fc.files[path]; ok {
		fc.record(func(s *FileCacheStats) { s.CacheHits++ })
		return mf.bytes(), nil
	}

	fc.record(func(s *FileCacheStats) { s.CacheMisses++ })

	mf, err := fc.load(path)
	if err != nil {
		return nil, err
	}
	fc.files[path] = mf
	fc.record(func(s *FileCacheStats) { s.FilesLoaded++ })

	return mf.bytes(), nil
}

// load maps a file, falling back to a plain read when mmap fails.
// Must be called with mu held.
func (fc *fileCache) load(path string) (*mappedFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("stat %q: %w", path, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}

	if err := fc.checkLimits(stat.Size()); err != nil {
		file.Close()
		return nil, err
	}

	// mmap cannot map zero bytes
	if stat.Size() == 0 {
		return &mappedFile{file: file, mapped: true}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		fc.logger.Warn("mmap failed, reading file instead", "file", path, "error", err)
		fc.record(func(s *FileCacheStats) { s.MmapFailures++ })

		heap, readErr := os.ReadFile(path)
		file.Close()
		if readErr != nil {
			return nil, fmt.Errorf("read %q after mmap failure (%v): %w", path, err, readErr)
		}
		return &mappedFile{heap: heap}, nil
	}

	return &mappedFile{data: data, file: file, mapped: true}, nil
}

// Must be called with mu held.
func (fc *fileCache) checkLimits(newSize int64) error {
	if max := fc.config.MaxFiles; max > 0 && len(fc.files) >= max {
		return fmt.Errorf("%w: %d files (limit %d)", ErrCacheFull, len(fc.files), max)
	}
	if max := fc.config.MaxMemoryMB; max > 0 {
		after := fc.mappedMBLocked() + float64(newSize)/(1024*1024)
		if after >= float64(max) {
			return fmt.Errorf("%w: %.2f MB after load (limit %d MB)", ErrCacheFull, after, max)
		}
	}
	return nil
}

func (fc *fileCache) Invalidate(path string) {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	mf, ok := fc.files[path]
	if !ok {
		return
	}
	delete(fc.files, path)
	fc.retired = append(fc.retired, mf)
	fc.record(func(s *FileCacheStats) { s.Invalidations++ })
}

func (fc *fileCache) Size() int {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return len(fc.files)
}

func (fc *fileCache) Stats() FileCacheStats {
	fc.mu.RLock()
	cached := len(fc.files)
	mb := fc.mappedMBLocked()
	fc.mu.RUnlock()

	fc.statsMu.Lock()
	defer fc.statsMu.Unlock()
	stats := fc.stats
	stats.FilesCached = cached
	stats.TotalMappedMB = mb
	return stats
}

// Must be called with mu held (read or write).
func (fc *fileCache) mappedMBLocked() float64 {
	var total int64
	for _, mf := range fc.files {
		total += mf.size()
	}
	return float64(total) / (1024 * 1024)
}

func (fc *fileCache) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	var errs []error
	for path, mf := range fc.files {
		if err := mf.release(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
		}
	}
	for _, mf := range fc.retired {
		if err := mf.release(); err != nil {
			errs = append(errs, err)
		}
	}
	fc.files = make(map[string]*mappedFile)
	fc.retired = nil

	fc.logger.Debug("file cache closed",
		"files_loaded", fc.stats.FilesLoaded,
		"cache_hits", fc.stats.CacheHits,
		"mmap_failures", fc.stats.MmapFailures)

	return errors.Join(errs...)
}

func (fc *fileCache) record(update func(*FileCacheStats)) {
	fc.statsMu.Lock()
	update(&fc.stats)
	fc.statsMu.Unlock()
}
