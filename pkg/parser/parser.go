package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/reacttypes/pkg/util"
)

// ParserManager hands out tree-sitter parsers for every grammar, with one
// lazily created pool per grammar.
//
// Memory Management:
//   - ParserManager owns its pools and must be closed via Close()
//   - Callers own returned trees and must call tree.Close()
//
// Thread Safety:
//   - Safe for concurrent use; up to PoolSize goroutines can parse the same
//     grammar at once, further callers wait for a free parser
//
// Example:
//
//	manager := NewParserManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.ParseFile(src, DialectTypeScript, "Button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools    map[Grammar]*parserPool
	poolSize int
	mutex    sync.RWMutex
	logger   *slog.Logger

	parses int
}

// NewParserManager creates a ParserManager. poolSize 0 uses
// util.DefaultPoolSize, which must match the worker pool size.
func NewParserManager(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &ParserManager{
		pools:    make(map[Grammar]*parserPool),
		poolSize: util.PoolSize(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the given grammar. Trees containing syntax errors
// are still returned; error nodes surface later during conversion.
func (pm *ParserManager) Parse(source []byte, grammar Grammar) (*ts.Tree, error) {
	if grammar == GrammarUnknown {
		return nil, fmt.Errorf("cannot parse with unknown grammar")
	}

	pool, err := pm.pool(grammar)
	if err != nil {
		return nil, err
	}

	pm.mutex.Lock()
	pm.parses++
	pm.mutex.Unlock()

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s parser: %w", grammar, err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("%s parser returned no tree", grammar)
	}

	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "grammar", grammar.String())
	}

	return tree, nil
}

// ParseFile parses source with the grammar GrammarFor picks for path under
// dialect d. path may be empty for in-memory sources.
func (pm *ParserManager) ParseFile(source []byte, d Dialect, path string) (*ts.Tree, error) {
	grammar := GrammarFor(d, path)
	if grammar == GrammarUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", path)
	}
	return pm.Parse(source, grammar)
}

// Close releases every pooled parser. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	for grammar, pool := range pm.pools {
		closed := pool.close()
		pm.logger.Debug("closed parser pool", "grammar", grammar.String(), "parsers_closed", closed)
	}
	pm.pools = make(map[Grammar]*parserPool)

	pm.logger.Debug("closed ParserManager", "parses_called", pm.parses)
	return nil
}

// pool returns the pool for grammar, creating it on first use.
func (pm *ParserManager) pool(grammar Grammar) (*parserPool, error) {
	pm.mutex.RLock()
	pool, ok := pm.pools[grammar]
	pm.mutex.RUnlock()
	if ok {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, ok = pm.pools[grammar]; ok {
		return pool, nil
	}

	language, err := languagePointer(grammar)
	if err != nil {
		return nil, err
	}

	pool = newParserPool(grammar, language, pm.poolSize, pm.logger)
	pm.pools[grammar] = pool
	pm.logger.Debug("created parser pool", "grammar", grammar.String(), "max_size", pm.poolSize)

	return pool, nil
}

func languagePointer(grammar Grammar) (unsafe.Pointer, error) {
	switch grammar {
	case GrammarTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case GrammarTSX:
		return ts_typescript.LanguageTSX(), nil
	case GrammarJavaScript:
		return ts_javascript.Language(), nil
	}
	return nil, fmt.Errorf("unsupported grammar: %s", grammar)
}

// Stats returns parser usage statistics.
func (pm *ParserManager) Stats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	stats := ParserStats{ParsesCalled: pm.parses}
	for _, pool := range pm.pools {
		stats.ParsersCreated += pool.createdCount()
	}
	return stats
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	ParsersCreated int
	ParsesCalled   int
}
