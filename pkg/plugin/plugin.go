// Package plugin injects extracted prop types back into the component module
// as static assignments, the way a build-time transform would.
package plugin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/gnana997/reacttypes/pkg/annotation"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/util"
)

// TypesField is the static field the generated assignments write.
const TypesField = "__types"

// Assignment is one generated `Name.__types = ...;` statement.
type Assignment struct {
	Component string
	Tag       string
	JSON      []byte
}

// Statement renders the assignment as source text.
func (a Assignment) Statement() string {
	return fmt.Sprintf("%s.%s = %s;", a.Component, TypesField, a.JSON)
}

// Output is a transformed module.
type Output struct {
	// Code is the original source followed by the generated assignments.
	// It is the input unchanged when nothing was extracted.
	Code        []byte
	Assignments []Assignment
	Result      *extract.Result
}

// Changed reports whether assignments were appended.
func (o *Output) Changed() bool { return len(o.Assignments) > 0 }

// Plugin runs the extraction engine and rewrites modules.
type Plugin struct {
	engine *extract.Engine
	logger *slog.Logger
}

// New creates a Plugin over an engine.
func New(engine *extract.Engine, logger *slog.Logger) *Plugin {
	if logger == nil {
		logger = util.NopLogger()
	}
	return &Plugin{engine: engine, logger: logger}
}

// Transform extracts source and appends one assignment per annotated
// declaration: a @ReactComponent declaration receives its own record, a
// @WithProps variable the list of every record in the file. Errors name the
// file; the caller decides whether to continue with the next one.
func (p *Plugin) Transform(source []byte, opts extract.Options) (*Output, error) {
	res, err := p.engine.Extract(source, opts)
	if err != nil {
		return nil, err
	}
	out := &Output{Code: source, Result: res}
	records := res.Records()
	if len(records) == 0 {
		return out, nil
	}

	byName := make(map[string]*extract.Record, len(records))
	for _, rec := range records {
		if _, dup := byName[rec.Name.Name]; !dup {
			byName[rec.Name.Name] = rec
		}
	}

	for _, decl := range res.Tagged {
		var data []byte
		switch {
		case decl.Tag == annotation.ReactComponent:
			rec, ok := byName[decl.Name]
			if !ok {
				continue
			}
			data, err = json.Marshal(rec)
		case decl.Tag == annotation.WithProps && decl.Variable:
			data, err = json.Marshal(records)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", decl.Name, err)
		}
		out.Assignments = append(out.Assignments, Assignment{Component: decl.Name, Tag: decl.Tag, JSON: data})
	}

	if len(out.Assignments) == 0 {
		return out, nil
	}
	var buf bytes.Buffer
	buf.Write(source)
	for _, a := range out.Assignments {
		buf.WriteByte('\n')
		buf.WriteString(a.Statement())
	}
	buf.WriteByte('\n')
	out.Code = buf.Bytes()

	p.logger.Debug("module transformed", "file", opts.Filename, "assignments", len(out.Assignments))
	return out, nil
}

// TransformFile reads path through the engine's loader and transforms it.
func (p *Plugin) TransformFile(path string, opts extract.Options) (*Output, error) {
	source, err := p.engine.Loader().ReadSource(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	opts.Filename = path
	return p.Transform(source, opts)
}
