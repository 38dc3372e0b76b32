package extract

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gnana997/reacttypes/pkg/annotation"
	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/syntax"
	"github.com/gnana997/reacttypes/pkg/util"
)

// Record is the props description of one component.
type Record struct {
	Name  *kinds.ID
	Props kinds.Kind
}

// Data returns the props data with the component name merged in under
// "name".
func (r *Record) Data() map[string]any {
	out := map[string]any{}
	if m, ok := kinds.Data(r.Props).(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	out["name"] = kinds.Data(r.Name)
	return out
}

func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data())
}

// Diagnostic describes an annotated declaration that was not extracted.
type Diagnostic struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Reason   string `json:"reason"`
}

// Result is what one extraction finds in a file. Classes and Functions are
// in source order.
type Result struct {
	Classes   []*Record
	Functions []*Record

	// Skipped lists annotated declarations that are not components.
	Skipped []Diagnostic

	// Dependencies are the modules read while resolving imports.
	Dependencies []string

	// Tagged lists the annotated top-level declarations in source order.
	Tagged []Tagged
}

// Records returns class records followed by function records.
func (r *Result) Records() []*Record {
	out := make([]*Record, 0, len(r.Classes)+len(r.Functions))
	out = append(out, r.Classes...)
	return append(out, r.Functions...)
}

// Data returns the {classes, functions} form of the result.
func (r *Result) Data() map[string]any {
	return map[string]any{
		"classes":   recordData(r.Classes),
		"functions": recordData(r.Functions),
	}
}

func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Data())
}

func recordData(records []*Record) []any {
	out := make([]any, len(records))
	for i, rec := range records {
		out[i] = rec.Data()
	}
	return out
}

// Options configures one extraction.
type Options struct {
	// Dialect is "flow" or "typescript".
	Dialect string

	// Filename anchors relative imports. Without it imports stay opaque.
	Filename string

	// Resolution overrides the dialect's default module resolution.
	Resolution *loader.Options
}

// Extract finds the annotated components of source.
func (e *Engine) Extract(source []byte, opts Options) (*Result, error) {
	dialect, err := parser.ParseDialect(opts.Dialect)
	if err != nil {
		return nil, err
	}
	resolution := loader.DefaultOptions(dialect)
	if opts.Resolution != nil {
		resolution = *opts.Resolution
		if len(resolution.Extensions) == 0 {
			resolution.Extensions = loader.DefaultOptions(dialect).Extensions
		}
	}

	session := e.loader.NewSession(dialect, resolution)
	defer session.Close()

	file, err := session.Parse(source, opts.Filename)
	if err != nil {
		return nil, err
	}
	res, err := e.run(file, newContext(session))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", displayName(opts.Filename), err)
	}
	res.Dependencies = session.Dependencies()
	res.Tagged = taggedDeclarations(file)
	return res, nil
}

// ExtractFile reads path through the loader and extracts it.
func (e *Engine) ExtractFile(path string, opts Options) (*Result, error) {
	source, err := e.loader.ReadSource(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts.Filename = path
	return e.Extract(source, opts)
}

func displayName(filename string) string {
	if filename == "" {
		return "<source>"
	}
	return filename
}

// run converts every annotated declaration of f: classes first, then
// functions, each in source order.
func (e *Engine) run(f *syntax.File, ctx Context) (*Result, error) {
	res := &Result{Classes: []*Record{}, Functions: []*Record{}}

	var classes, functions []*syntax.Node
	walk(f.Root(), func(n *syntax.Node) {
		switch n.Kind() {
		case "class_declaration", "abstract_class_declaration", "class":
			classes = append(classes, n)
		case "lexical_declaration", "variable_declaration", "function_declaration":
			functions = append(functions, n)
		}
	})

	for _, n := range classes {
		if !annotation.Has(n, annotation.ReactComponent) {
			continue
		}
		name := className(n)
		if superTypeArgument(n) == nil {
			e.skip(res, n, name, "superclass has no props type argument")
			continue
		}
		inner, _ := ctx.enter(n)
		rec, err := e.classRecord(n, name, inner)
		if err != nil {
			return nil, err
		}
		res.Classes = append(res.Classes, rec)
	}

	for _, n := range functions {
		if !annotation.Has(n, annotation.ReactComponent) {
			continue
		}
		c, reason := findFunctionComponent(n)
		if reason != "" {
			e.skip(res, n, c.name, reason)
			continue
		}
		rec, err := e.functionRecord(c, ctx)
		if err != nil {
			return nil, err
		}
		res.Functions = append(res.Functions, rec)
	}
	return res, nil
}

func (e *Engine) skip(res *Result, n *syntax.Node, name, reason string) {
	d := Diagnostic{Name: name, Position: n.Position(), Reason: reason}
	e.logger.Warn("annotated declaration skipped", "name", d.Name, "position", d.Position, "reason", d.Reason)
	res.Skipped = append(res.Skipped, d)
}

// walk visits n and its named descendants depth first.
func walk(n *syntax.Node, visit func(*syntax.Node)) {
	visit(n)
	for _, child := range n.Named() {
		walk(child, visit)
	}
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
	defaultErr    error
)

// Extract runs an extraction on a shared engine with default configuration.
func Extract(source []byte, dialect, filename string) (*Result, error) {
	defaultOnce.Do(func() {
		logger := util.NopLogger()
		pm := parser.NewParserManager(logger, util.DefaultPoolSize())
		var l *loader.Loader
		if l, defaultErr = loader.New(loader.Config{Parser: pm, Logger: logger}); defaultErr != nil {
			return
		}
		defaultEngine, defaultErr = NewEngine(Config{Loader: l, Logger: logger})
	})
	if defaultErr != nil {
		return nil, defaultErr
	}
	return defaultEngine.Extract(source, Options{Dialect: dialect, Filename: filename})
}
