package extract

import (
	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// annotatedParents are the nodes whose "type" field annotates the identifier
// they declare.
var annotatedParents = map[string]string{
	"required_parameter":      "pattern",
	"optional_parameter":      "pattern",
	"variable_declarator":     "name",
	"public_field_definition": "name",
	"property_signature":      "name",
}

func (e *Engine) convertIdentifier(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	name := n.Text()
	switch syntax.ClassifyIdentifier(n) {
	case syntax.Static:
		return kinds.Ident(name), nil
	case syntax.Declaring:
		return e.declaringIdentifier(n, ctx)
	}
	if ctx.Mode == TypeMode {
		return e.resolveTypeName(n, name, ctx)
	}
	return e.resolveValueName(n, name, ctx)
}

// declaringIdentifier converts the declaring occurrence of a binding to an id
// carrying the inline type annotation, if any.
func (e *Engine) declaringIdentifier(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	id := kinds.Ident(n.Text())
	parent := n.Parent()
	if parent == nil {
		return id, nil
	}
	field, ok := annotatedParents[parent.Kind()]
	if !ok || !n.Same(parent.Field(field)) {
		return id, nil
	}
	typ, err := e.convertOptional(parent.Field("type"), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	id.Type = typ
	return id, nil
}

// resolveValueName follows a value reference to what its binding evaluates to.
func (e *Engine) resolveValueName(n *syntax.Node, name string, ctx Context) (kinds.Kind, error) {
	b := syntax.LookupValue(n, name)
	if b == nil {
		return nil, &UnresolvedBindingError{Name: name, Position: n.Position()}
	}

	var (
		k   kinds.Kind
		err error
	)
	switch b.Kind {
	case syntax.BindingGlobal, syntax.BindingEnum, syntax.BindingCatch:
		k = kinds.Ident(name)

	case syntax.BindingVariable:
		init := b.Decl.Field("value")
		if b.Destructured || init == nil || b.Decl.Contains(n) {
			k = kinds.Ident(name)
			break
		}
		inner, ok := ctx.enter(b.Decl)
		if !ok {
			k = kinds.Ident(name)
			break
		}
		k, err = e.convert(init, inner.withMode(ValueMode))

	case syntax.BindingImport:
		k, err = e.convert(b.Decl, ctx)

	default:
		// functions, classes and parameters stand for themselves
		k, err = e.declaringIdentifier(b.Ident, ctx)
	}
	if err != nil {
		return nil, err
	}
	k.Annotations().ReferenceIDName = name
	return k, nil
}

// resolveTypeName follows a type reference to the declaration it names.
// Unbound names and names already being expanded become plain ids.
func (e *Engine) resolveTypeName(n *syntax.Node, name string, ctx Context) (kinds.Kind, error) {
	b := syntax.LookupType(n, name)
	if b == nil {
		if name == "mixed" && n.File().Dialect == parser.DialectFlow {
			return &kinds.Mixed{}, nil
		}
		return kinds.Ident(name), nil
	}

	switch b.Kind {
	case syntax.BindingTypeParam:
		return kinds.Ident(name), nil
	case syntax.BindingImport:
		return e.convert(b.Decl, ctx)
	}
	if b.Decl.Contains(n) {
		return kinds.Ident(name), nil
	}
	return e.convert(b.Decl, ctx)
}

// convertTypeIdentifier handles a type name in type position. References
// without type arguments resolve straight to the named type.
func (e *Engine) convertTypeIdentifier(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if syntax.ClassifyIdentifier(n) != syntax.Reference {
		return kinds.Ident(n.Text()), nil
	}
	return e.resolveTypeName(n, n.Text(), ctx.withMode(TypeMode))
}

// convertNestedTypeIdentifier renders qualified names such as React.ReactNode.
func (e *Engine) convertNestedTypeIdentifier(n *syntax.Node, _ Context) (kinds.Kind, error) {
	return kinds.Ident(n.Text()), nil
}

// convertShorthandProperty converts `{ size }` in an object literal.
func (e *Engine) convertShorthandProperty(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	name := n.Text()
	value, err := e.resolveValueName(n, name, ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Property{Key: kinds.Ident(name), Value: value}, nil
}

func (e *Engine) convertThis(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return kinds.Ident("this"), nil
}
