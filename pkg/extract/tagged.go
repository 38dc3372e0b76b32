package extract

import (
	"github.com/gnana997/reacttypes/pkg/annotation"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// Tagged is a top-level declaration annotated with @ReactComponent or
// @WithProps. A declaration carrying both is listed once, as a component.
type Tagged struct {
	Name string
	Tag  string

	// Variable is set for const/let/var declarations.
	Variable bool
}

// taggedDeclarations lists the annotated top-level declarations of f in
// source order. Export statements are unwrapped to what they declare.
func taggedDeclarations(f *syntax.File) []Tagged {
	out := []Tagged{}
	for _, stmt := range f.Root().Named() {
		decl := stmt
		if stmt.Kind() == "export_statement" {
			if decl = stmt.Field("declaration"); decl == nil {
				continue
			}
		}
		name := declaredName(decl)
		if name == "" {
			continue
		}
		t := Tagged{Name: name, Variable: isVariable(decl)}
		switch {
		case annotation.Has(decl, annotation.ReactComponent):
			t.Tag = annotation.ReactComponent
		case annotation.Has(decl, annotation.WithProps):
			t.Tag = annotation.WithProps
		default:
			continue
		}
		out = append(out, t)
	}
	return out
}

func isVariable(n *syntax.Node) bool {
	switch n.Kind() {
	case "lexical_declaration", "variable_declaration":
		return true
	}
	return false
}

// declaredName returns the class or function name, or the name bound by the
// first declarator of a variable declaration.
func declaredName(n *syntax.Node) string {
	switch n.Kind() {
	case "class_declaration", "abstract_class_declaration", "function_declaration":
		return className(n)
	case "lexical_declaration", "variable_declaration":
		d := n.ChildOfKind("variable_declarator")
		if d == nil {
			return ""
		}
		if id := d.Field("name"); id != nil && id.Kind() == "identifier" {
			return id.Text()
		}
	}
	return ""
}
