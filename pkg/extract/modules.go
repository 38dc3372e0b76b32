package extract

import (
	"errors"

	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// importStatement returns the import_statement enclosing n.
func importStatement(n *syntax.Node) *syntax.Node {
	for cur := n; cur != nil; cur = cur.Parent() {
		if cur.Kind() == "import_statement" {
			return cur
		}
	}
	return nil
}

// importKind reports "value", "type" or "typeof" for an import statement,
// letting a specifier-level modifier override the statement's.
func importKind(stmt, spec *syntax.Node) string {
	for _, n := range []*syntax.Node{spec, stmt} {
		if n == nil {
			continue
		}
		if n.HasToken("typeof") {
			return "typeof"
		}
		if n.HasToken("type") {
			return "type"
		}
	}
	return "value"
}

func sourceOf(stmt *syntax.Node) string {
	if stmt == nil {
		return ""
	}
	if src := stmt.Field("source"); src != nil {
		return src.StringValue()
	}
	return ""
}

// convertImportStatement converts an import statement reached through a
// re-export. It follows the specifier bound to the requested local name.
func (e *Engine) convertImportStatement(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	source := sourceOf(n)
	if ctx.Replacement == "" {
		return &kinds.Import{ImportKind: importKind(n, nil), Name: "default", ModuleSpecifier: source}, nil
	}
	if clause := n.ChildOfKind("import_clause"); clause != nil {
		for _, child := range clause.Named() {
			switch child.Kind() {
			case "identifier":
				if child.Text() == ctx.Replacement {
					return e.convert(clause, ctx)
				}
			case "namespace_import":
				if id := child.ChildOfKind("identifier"); id != nil && id.Text() == ctx.Replacement {
					return e.convert(child, ctx)
				}
			case "named_imports":
				for _, spec := range child.Named() {
					if _, bound := syntax.SpecifierNames(spec); bound == ctx.Replacement {
						return e.convert(spec, ctx)
					}
				}
			}
		}
	}
	return &kinds.Import{ImportKind: importKind(n, nil), Name: ctx.Replacement, ModuleSpecifier: source}, nil
}

// convertDefaultImport converts `import Name from "..."`.
func (e *Engine) convertDefaultImport(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	stmt := importStatement(n)
	return e.resolveImport(n, importKind(stmt, nil), "default", sourceOf(stmt), ctx)
}

// convertImportSpecifier converts `import { Name } from "..."`.
func (e *Engine) convertImportSpecifier(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	stmt := importStatement(n)
	name, _ := syntax.SpecifierNames(n)
	return e.resolveImport(n, importKind(stmt, n), name, sourceOf(stmt), ctx)
}

// convertNamespaceImport converts `import * as NS from "..."`; the namespace
// object itself is not described.
func (e *Engine) convertNamespaceImport(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return &kinds.Any{}, nil
}

// resolveImport inlines the declaration an imported name refers to. When the
// module cannot be followed the import is kept as an opaque leaf.
func (e *Engine) resolveImport(at *syntax.Node, kind, name, source string, ctx Context) (kinds.Kind, error) {
	if kind == "typeof" {
		return nil, &UnsupportedImportKindError{ImportKind: kind, Specifier: source, Position: at.Position()}
	}
	leaf := &kinds.Import{ImportKind: kind, Name: name, ModuleSpecifier: source}

	target, ok := e.resolveModule(at.File(), source, ctx)
	if !ok {
		return leaf, nil
	}
	k, found, err := e.findExport(target, name, ctx)
	if err != nil {
		return nil, err
	}
	if !found {
		e.logger.Debug("export not found", "name", name, "module", target)
		return leaf, nil
	}
	return k, nil
}

// resolveModule resolves a specifier imported by from. It reports false when
// the module cannot or should not be followed.
func (e *Engine) resolveModule(from *syntax.File, source string, ctx Context) (string, bool) {
	if from.Path == "" || source == "" {
		return "", false
	}
	target, err := ctx.session.Resolve(from, source)
	if err != nil {
		e.logger.Debug("unresolved module", "specifier", source, "from", from.Path, "error", err)
		return "", false
	}
	if loader.IsDataFile(target) {
		return "", false
	}
	return target, true
}

// findExport looks name up among the exports of the module at path, then
// depth first through its wildcard re-exports. The first match wins.
func (e *Engine) findExport(path, name string, ctx Context) (kinds.Kind, bool, error) {
	ctx, err := ctx.enterExport(path, name)
	if err != nil {
		return nil, false, err
	}

	mod, err := ctx.session.Load(path)
	if err != nil {
		e.logger.Debug("cannot load module", "path", path, "error", err)
		return nil, false, nil
	}

	if m, ok := syntax.MatchExported(mod, name); ok {
		inner := ctx.withReplacement(m.Local)
		if m.Local == "" {
			inner = ctx.withReplacement(name)
		}
		switch m.Node.Kind() {
		case "export_statement", "import_statement":
		case "identifier":
			// `export default Name` may name a type or a value
			inner = inner.atDeclaration()
			if syntax.LookupType(m.Node, m.Local) == nil {
				inner = inner.withMode(ValueMode)
			}
		default:
			inner = inner.atDeclaration()
		}
		k, err := e.convert(m.Node, inner)
		return k, err == nil, err
	}

	for _, source := range syntax.ExportAllSources(mod) {
		next, ok := e.resolveModule(mod, source, ctx)
		if !ok {
			continue
		}
		k, found, err := e.findExport(next, name, ctx)
		if err != nil || found {
			return k, found, err
		}
	}
	return nil, false, nil
}

// convertExportStatement converts an export statement reached through an
// export lookup. A re-export of exactly one name is followed into its source
// module; anything else is described as an export leaf.
func (e *Engine) convertExportStatement(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if decl := n.Field("declaration"); decl != nil {
		return e.convert(decl, ctx)
	}

	source := sourceOf(n)
	leaf := &kinds.Export{Exports: []kinds.Kind{}, Source: source}
	var specs []*syntax.Node
	if clause := n.ChildOfKind("export_clause"); clause != nil {
		for _, spec := range clause.Named() {
			if spec.Kind() != "export_specifier" {
				continue
			}
			local, exported := syntax.SpecifierNames(spec)
			leaf.Exports = append(leaf.Exports, &kinds.ExportSpecifier{
				Local:    kinds.Ident(local),
				Exported: kinds.Ident(exported),
			})
			specs = append(specs, spec)
		}
	}
	if len(specs) != 1 || source == "" {
		return leaf, nil
	}

	target, ok := e.resolveModule(n.File(), source, ctx)
	if !ok {
		return leaf, nil
	}
	local, _ := syntax.SpecifierNames(specs[0])
	k, found, err := e.findExport(target, local, ctx)
	switch {
	case err != nil && errors.Is(err, ErrCyclicExport):
		return nil, err
	case err != nil:
		e.logger.Debug("re-export not followed", "name", local, "module", target, "error", err)
		return leaf, nil
	case !found:
		return leaf, nil
	}
	return k, nil
}
