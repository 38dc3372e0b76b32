// Package loader resolves module specifiers to files and parses them, with a
// shared resolution cache and per-extraction sessions that own parsed trees.
package loader

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// DefaultCacheSize is the number of resolutions kept by default.
const DefaultCacheSize = 4096

// Config configures a Loader.
type Config struct {
	// Parser is required.
	Parser *parser.ParserManager

	// Files serves source reads when set; otherwise files are read directly.
	Files FileReader

	// CacheSize bounds the resolution cache. Zero uses DefaultCacheSize.
	CacheSize int

	Logger *slog.Logger
}

// FileReader is the part of util.FileCache the loader needs.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
	Invalidate(path string)
}

type resolveKey struct {
	dir       string
	specifier string
	options   string
}

// Loader resolves and parses modules. Safe for concurrent use; each
// extraction works through its own Session.
type Loader struct {
	parser   *parser.ParserManager
	files    FileReader
	resolved *lru.Cache[resolveKey, string]
	logger   *slog.Logger
}

// New creates a Loader.
func New(cfg Config) (*Loader, error) {
	if cfg.Parser == nil {
		return nil, fmt.Errorf("loader: parser manager is required")
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[resolveKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("create resolution cache: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		parser:   cfg.Parser,
		files:    cfg.Files,
		resolved: cache,
		logger:   logger,
	}, nil
}

// Resolve maps a specifier imported from fromDir to an absolute file path.
func (l *Loader) Resolve(fromDir, specifier string, opts Options) (string, error) {
	for _, r := range opts.Resolvers {
		if p, ok := r.Resolve(fromDir, specifier); ok {
			return filepath.Abs(p)
		}
	}

	key := resolveKey{dir: fromDir, specifier: specifier, options: opts.fingerprint()}
	if p, ok := l.resolved.Get(key); ok {
		return p, nil
	}

	p, err := resolvePath(fromDir, specifier, opts)
	if err != nil {
		return "", err
	}
	if p, err = filepath.Abs(p); err != nil {
		return "", err
	}
	l.resolved.Add(key, p)
	return p, nil
}

// ReadSource reads a file through the file cache when one is configured.
func (l *Loader) ReadSource(path string) ([]byte, error) {
	if l.files != nil {
		return l.files.ReadFile(path)
	}
	return os.ReadFile(path)
}

// Invalidate forgets cached contents of path and every cached resolution,
// since a created or deleted file can change what a specifier resolves to.
func (l *Loader) Invalidate(path string) {
	if l.files != nil {
		l.files.Invalidate(path)
	}
	l.Purge()
}

// Purge clears the resolution cache.
func (l *Loader) Purge() {
	l.resolved.Purge()
}

// CachedResolutions returns the number of cached resolutions.
func (l *Loader) CachedResolutions() int {
	return l.resolved.Len()
}

// NewSession starts an extraction session. The caller must Close it.
func (l *Loader) NewSession(dialect parser.Dialect, opts Options) *Session {
	return &Session{
		loader:  l,
		dialect: dialect,
		opts:    opts,
		files:   make(map[string]*syntax.File),
	}
}

// Session is the module graph seen by one extraction. Parsed files are shared
// within the session and released by Close. Not safe for concurrent use.
type Session struct {
	loader  *Loader
	dialect parser.Dialect
	opts    Options

	root  *syntax.File
	files map[string]*syntax.File
	order []string
}

func (s *Session) Dialect() parser.Dialect { return s.dialect }

func (s *Session) Options() Options { return s.opts }

func (s *Session) Logger() *slog.Logger { return s.loader.logger }

// Parse parses the entry file of the session. path may be empty for
// in-memory sources, which then cannot resolve imports.
func (s *Session) Parse(source []byte, path string) (*syntax.File, error) {
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		path = abs
	}
	f, err := syntax.Parse(s.loader.parser, source, s.dialect, path)
	if err != nil {
		return nil, err
	}
	s.root = f
	if path != "" {
		s.files[path] = f
	}
	return f, nil
}

// Resolve resolves a specifier relative to the importing file.
func (s *Session) Resolve(from *syntax.File, specifier string) (string, error) {
	return s.loader.Resolve(from.Dir(), specifier, s.opts)
}

// Load parses the module at an absolute path, once per session.
func (s *Session) Load(path string) (*syntax.File, error) {
	if f, ok := s.files[path]; ok {
		return f, nil
	}

	source, err := s.loader.ReadSource(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	f, err := syntax.Parse(s.loader.parser, source, s.dialect, path)
	if err != nil {
		return nil, err
	}

	s.files[path] = f
	s.order = append(s.order, path)
	s.loader.logger.Debug("loaded module", "path", path)
	return f, nil
}

// Dependencies returns the modules loaded besides the entry file, in load
// order.
func (s *Session) Dependencies() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Close releases every tree parsed by the session.
func (s *Session) Close() {
	for _, f := range s.files {
		f.Close()
	}
	if s.root != nil && s.root.Path == "" {
		s.root.Close()
	}
	s.files = make(map[string]*syntax.File)
	s.root = nil
	s.order = nil
}
