package extract

import (
	"fmt"

	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

func (e *Engine) convertTypeAnnotation(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.convert(n.FirstNamed(), ctx.withMode(TypeMode))
}

// convertInnerType unwraps constructs that only decorate the type they hold.
func (e *Engine) convertInnerType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.convert(n.FirstNamed(), ctx.withMode(TypeMode))
}

func (e *Engine) convertPredefinedType(n *syntax.Node, _ Context) (kinds.Kind, error) {
	switch text := n.Text(); text {
	case "string":
		return &kinds.String{}, nil
	case "number":
		return &kinds.Number{}, nil
	case "boolean":
		return &kinds.Boolean{}, nil
	case "any":
		return &kinds.Any{}, nil
	case "unknown":
		return &kinds.Mixed{}, nil
	case "void", "undefined":
		return &kinds.Void{}, nil
	case "null":
		return &kinds.Null{}, nil
	case "object":
		return &kinds.Object{Members: []kinds.Kind{}}, nil
	default:
		// never, symbol, bigint, unique symbol
		return &kinds.Custom{Value: text}, nil
	}
}

func (e *Engine) convertLiteralType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	inner := n.FirstNamed()
	if inner != nil && inner.Kind() == "unary_expression" {
		op := inner.Field("operator")
		arg := inner.Field("argument")
		if op != nil && op.Text() == "-" && arg != nil && arg.Kind() == "number" {
			v, err := parseNumber(arg.Text())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg.Position(), err)
			}
			return kinds.NumberLit(-v), nil
		}
	}
	return e.convert(inner, ctx.withMode(ValueMode))
}

func (e *Engine) convertUnionType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	types, err := e.convertAll(flatten(n), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Union{Types: types}, nil
}

func (e *Engine) convertIntersectionType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	types, err := e.convertAll(flatten(n), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Intersection{Types: types}, nil
}

// flatten returns the operands of a left-nested binary type operator such as
// A | B | C.
func flatten(n *syntax.Node) []*syntax.Node {
	var out []*syntax.Node
	for _, child := range n.Named() {
		if child.Kind() == n.Kind() {
			out = append(out, flatten(child)...)
			continue
		}
		out = append(out, child)
	}
	return out
}

func (e *Engine) convertArrayType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	elem, err := e.convert(n.FirstNamed(), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.ArrayType{Type: elem}, nil
}

func (e *Engine) convertTupleType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	types, err := e.convertAll(n.Named(), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Tuple{Types: types}, nil
}

// convertFunctionType converts `(a: A) => R`.
func (e *Engine) convertFunctionType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	params, err := e.convertParameters(n.Field("parameters"), ctx)
	if err != nil {
		return nil, err
	}
	ret, err := e.convert(n.Field("return_type"), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Function{Parameters: params, ReturnType: ret}, nil
}

// convertGenericType converts a reference with type arguments, Name<Args>.
func (e *Engine) convertGenericType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(TypeMode)
	value, err := e.convert(n.Field("name"), ctx)
	if err != nil {
		return nil, err
	}
	g := &kinds.Generic{Value: value}
	if args := n.Field("type_arguments"); args != nil {
		params, err := e.typeArguments(args, ctx)
		if err != nil {
			return nil, err
		}
		g.TypeParams = params
	}
	return g, nil
}

func (e *Engine) convertTypeArguments(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.typeArguments(n, ctx)
}

func (e *Engine) typeArguments(n *syntax.Node, ctx Context) (*kinds.TypeParams, error) {
	params, err := e.convertAll(n.Named(), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.TypeParams{Params: params}, nil
}

// convertTypeQuery converts `typeof name`, resolving name as a value.
func (e *Engine) convertTypeQuery(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	arg := n.FirstNamed()
	t, err := e.convert(arg, ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	name := ""
	if arg != nil {
		name = arg.Text()
	}
	return &kinds.Typeof{Type: t, Name: name}, nil
}

func (e *Engine) convertThisType(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return &kinds.Custom{Value: "this"}, nil
}

// convertExistentialType converts the Flow `*` type.
func (e *Engine) convertExistentialType(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return &kinds.Exists{}, nil
}

// convertMaybeType converts the Flow `?T` type.
func (e *Engine) convertMaybeType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	inner, err := e.convert(n.FirstNamed(), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Nullable{Arguments: inner}, nil
}

// convertTypeAlias converts the right-hand side of `type Name = ...`. An alias
// reached again while it is being converted becomes an id.
func (e *Engine) convertTypeAlias(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	inner, ok := ctx.enter(n)
	if !ok {
		return kinds.Ident(n.Field("name").Text()), nil
	}
	return e.convert(n.Field("value"), inner.withMode(TypeMode))
}

// convertEnum converts an enum to the union of its qualified member names.
func (e *Engine) convertEnum(n *syntax.Node, _ Context) (kinds.Kind, error) {
	name := n.Field("name").Text()
	union := &kinds.Union{Types: []kinds.Kind{}}
	body := n.Field("body")
	if body == nil {
		return union, nil
	}
	for _, member := range body.Named() {
		key := member
		if member.Kind() == "enum_assignment" {
			key = member.Field("name")
		}
		if key == nil {
			continue
		}
		union.Types = append(union.Types, kinds.Ident(name+"."+key.StringValue()))
	}
	return union, nil
}

// convertClass converts a class reached through a reference. Component
// classes convert to their props; any other class is opaque.
func (e *Engine) convertClass(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	name := className(n)
	if isComponentClass(n) && superTypeArgument(n) != nil {
		inner, ok := ctx.enter(n)
		if !ok {
			return kinds.Ident(name), nil
		}
		rec, err := e.classRecord(n, name, inner)
		if err != nil {
			return nil, err
		}
		return rec.Props, nil
	}
	return &kinds.Class{Name: kinds.Ident(name)}, nil
}
