package extract

import (
	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

var componentBases = map[string]bool{
	"Component":           true,
	"PureComponent":       true,
	"React.Component":     true,
	"React.PureComponent": true,
}

var componentWrappers = map[string]bool{
	"memo":             true,
	"forwardRef":       true,
	"React.memo":       true,
	"React.forwardRef": true,
}

var functionComponentTypes = map[string]bool{
	"FC":                      true,
	"VFC":                     true,
	"FunctionComponent":       true,
	"React.FC":                true,
	"React.VFC":               true,
	"React.FunctionComponent": true,
}

func className(n *syntax.Node) string {
	if name := n.Field("name"); name != nil {
		return name.Text()
	}
	return ""
}

func extendsClause(class *syntax.Node) *syntax.Node {
	heritage := class.ChildOfKind("class_heritage")
	if heritage == nil {
		return nil
	}
	return heritage.ChildOfKind("extends_clause")
}

// isComponentClass reports whether a class extends React's Component or
// PureComponent.
func isComponentClass(class *syntax.Node) bool {
	ext := extendsClause(class)
	if ext == nil {
		return false
	}
	base := ext.Field("value")
	return base != nil && componentBases[base.Text()]
}

// superTypeArgument returns the first type argument of the superclass, the
// props of a component class.
func superTypeArgument(class *syntax.Node) *syntax.Node {
	ext := extendsClause(class)
	if ext == nil {
		return nil
	}
	args := ext.Field("type_arguments")
	if args == nil {
		return nil
	}
	return args.FirstNamed()
}

// classRecord describes a component class: the props type argument of its
// superclass with defaultProps merged in.
func (e *Engine) classRecord(class *syntax.Node, name string, ctx Context) (*Record, error) {
	props, err := e.convert(superTypeArgument(class), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	defaults, err := e.classDefaults(class, name, ctx)
	if err != nil {
		return nil, err
	}
	if err := applyDefaults(props, defaults, name); err != nil {
		return nil, err
	}
	return &Record{Name: kinds.Ident(name), Props: props}, nil
}

// functionComponent is a declaration recognized as a function component.
type functionComponent struct {
	name  string
	decl  *syntax.Node
	props *syntax.Node
}

// findFunctionComponent inspects a function declaration, or the first
// declarator of a variable declaration, for a component whose first
// parameter carries a type annotation. reason explains a miss.
func findFunctionComponent(decl *syntax.Node) (c functionComponent, reason string) {
	c.decl = decl
	var fn, declarator *syntax.Node

	switch decl.Kind() {
	case "function_declaration":
		c.name = className(decl)
		fn = decl
	default:
		declarator = decl.ChildOfKind("variable_declarator")
		if declarator == nil {
			return c, "no declarator"
		}
		id := declarator.Field("name")
		if id == nil || id.Kind() != "identifier" {
			return c, "declaration does not bind a single name"
		}
		c.name = id.Text()
		fn = componentFunction(declarator.Field("value"))
	}
	if fn == nil {
		return c, "initializer is not a function"
	}

	if c.props = firstParamType(fn); c.props != nil {
		return c, ""
	}
	if declarator != nil {
		if c.props = componentTypeArgument(declarator.Field("type")); c.props != nil {
			return c, ""
		}
	}
	return c, "first parameter has no type annotation"
}

// componentFunction unwraps memo and forwardRef calls to the render function.
func componentFunction(n *syntax.Node) *syntax.Node {
	for n != nil {
		switch n.Kind() {
		case "arrow_function", "function_expression", "function":
			return n
		case "parenthesized_expression", "as_expression", "satisfies_expression":
			n = n.FirstNamed()
		case "call_expression":
			callee := n.Field("function")
			args := n.Field("arguments")
			if callee == nil || args == nil || !componentWrappers[callee.Text()] {
				return nil
			}
			n = args.FirstNamed()
		default:
			return nil
		}
	}
	return nil
}

// firstParamType returns the type annotation node of fn's first parameter.
func firstParamType(fn *syntax.Node) *syntax.Node {
	params := fn.Field("parameters")
	if params == nil {
		return nil
	}
	first := params.FirstNamed()
	if first == nil {
		return nil
	}
	switch first.Kind() {
	case "required_parameter", "optional_parameter":
		return first.Field("type")
	}
	return nil
}

// componentTypeArgument returns P from a `React.FC<P>` style annotation.
func componentTypeArgument(annotation *syntax.Node) *syntax.Node {
	if annotation == nil {
		return nil
	}
	t := annotation.FirstNamed()
	if t == nil || t.Kind() != "generic_type" {
		return nil
	}
	name := t.Field("name")
	args := t.Field("type_arguments")
	if name == nil || args == nil || !functionComponentTypes[name.Text()] {
		return nil
	}
	return args.FirstNamed()
}

// functionRecord describes a function component: its props annotation with
// any `Name.defaultProps` assignment merged in.
func (e *Engine) functionRecord(c functionComponent, ctx Context) (*Record, error) {
	props, err := e.convert(c.props, ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	defaults, err := e.functionDefaults(c.decl, c.name, ctx)
	if err != nil {
		return nil, err
	}
	if err := applyDefaults(props, defaults, c.name); err != nil {
		return nil, err
	}
	return &Record{Name: kinds.Ident(c.name), Props: props}, nil
}
