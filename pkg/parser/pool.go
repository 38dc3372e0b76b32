package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool is a channel-backed pool of parsers for one grammar. Parsers are
// created on demand up to maxSize; once that many exist, acquire blocks until
// one is released.
type parserPool struct {
	pool     chan *ts.Parser
	language unsafe.Pointer
	grammar  Grammar
	maxSize  int
	logger   *slog.Logger

	mutex   sync.Mutex // guards created
	created int
}

func newParserPool(grammar Grammar, language unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		pool:     make(chan *ts.Parser, maxSize),
		language: language,
		grammar:  grammar,
		maxSize:  maxSize,
		logger:   logger,
	}
}

func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.pool:
		return parser, nil
	default:
	}

	p.mutex.Lock()
	if p.created >= p.maxSize {
		p.mutex.Unlock()
		return <-p.pool, nil
	}
	defer p.mutex.Unlock()

	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(ts.NewLanguage(p.language)); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language %s: %w", p.grammar, err)
	}

	p.created++
	p.logger.Debug("created parser", "grammar", p.grammar.String(), "pool_size", p.created)

	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}
	select {
	case p.pool <- parser:
	default:
		// More releases than acquires; drop the extra parser.
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser", "grammar", p.grammar.String())
	}
}

// close drains the pool and returns how many parsers were closed.
func (p *parserPool) close() int {
	close(p.pool)
	count := 0
	for parser := range p.pool {
		parser.Close()
		count++
	}
	return count
}

func (p *parserPool) createdCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.created
}
