package extract

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

func (e *Engine) convertString(n *syntax.Node, _ Context) (kinds.Kind, error) {
	return kinds.StringLit(n.StringValue()), nil
}

// convertTemplateString splits a template literal into its literal parts and
// the expressions between them. There is always one more part than there are
// expressions.
func (e *Engine) convertTemplateString(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	tl := &kinds.TemplateLiteral{Expressions: []kinds.Kind{}}
	var part strings.Builder
	for _, child := range n.Children() {
		switch child.Kind() {
		case "string_fragment", "escape_sequence":
			part.WriteString(child.Text())
		case "template_substitution":
			tl.Quasis = append(tl.Quasis, part.String())
			part.Reset()
			expr, err := e.convert(child.FirstNamed(), ctx.withMode(ValueMode))
			if err != nil {
				return nil, err
			}
			tl.Expressions = append(tl.Expressions, expr)
		}
	}
	tl.Quasis = append(tl.Quasis, part.String())
	return tl, nil
}

func (e *Engine) convertNumber(n *syntax.Node, _ Context) (kinds.Kind, error) {
	v, err := parseNumber(n.Text())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", n.Position(), err)
	}
	return kinds.NumberLit(v), nil
}

// parseNumber reads a numeric literal: decimal, hex, octal or binary, with
// optional separators and BigInt suffix.
func parseNumber(text string) (float64, error) {
	text = strings.ReplaceAll(text, "_", "")
	text = strings.TrimSuffix(text, "n")
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	i, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number literal %q", text)
	}
	return float64(i), nil
}

func (e *Engine) convertBoolean(n *syntax.Node, _ Context) (kinds.Kind, error) {
	return kinds.BooleanLit(n.Kind() == "true"), nil
}

func (e *Engine) convertNull(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return &kinds.Null{}, nil
}

func (e *Engine) convertUndefined(_ *syntax.Node, _ Context) (kinds.Kind, error) {
	return &kinds.Void{}, nil
}

func (e *Engine) convertArray(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	elems, err := e.convertAll(n.Named(), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Array{Elements: elems}, nil
}

func (e *Engine) arguments(n *syntax.Node, ctx Context) ([]kinds.Kind, error) {
	if n == nil {
		return []kinds.Kind{}, nil
	}
	if n.Kind() != "arguments" {
		// tagged template
		k, err := e.convert(n, ctx)
		if err != nil {
			return nil, err
		}
		return []kinds.Kind{k}, nil
	}
	return e.convertAll(n.Named(), ctx)
}

func (e *Engine) convertCall(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(ValueMode)
	callee, err := e.convert(n.Field("function"), ctx)
	if err != nil {
		return nil, err
	}
	args, err := e.arguments(n.Field("arguments"), ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Call{Callee: callee, Args: args}, nil
}

func (e *Engine) convertNew(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(ValueMode)
	callee, err := e.convert(n.Field("constructor"), ctx)
	if err != nil {
		return nil, err
	}
	args, err := e.arguments(n.Field("arguments"), ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.New{Callee: callee, Args: args}, nil
}

func (e *Engine) convertMember(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(ValueMode)
	obj, err := e.convert(n.Field("object"), ctx)
	if err != nil {
		return nil, err
	}
	prop, err := e.convert(n.Field("property"), ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.MemberExpression{Object: obj, Property: prop}, nil
}

func (e *Engine) convertBinary(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(ValueMode)
	left, err := e.convert(n.Field("left"), ctx)
	if err != nil {
		return nil, err
	}
	right, err := e.convert(n.Field("right"), ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Binary{Operator: n.Field("operator").Text(), Left: left, Right: right}, nil
}

func (e *Engine) convertUnary(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	arg, err := e.convert(n.Field("argument"), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Unary{Operator: n.Field("operator").Text(), Argument: arg}, nil
}

// convertInnerValue looks through parentheses and type assertions.
func (e *Engine) convertInnerValue(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.convert(n.FirstNamed(), ctx.withMode(ValueMode))
}

func (e *Engine) convertFunction(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.functionKind(n, ctx)
}

func (e *Engine) functionKind(n *syntax.Node, ctx Context) (*kinds.Function, error) {
	fn := &kinds.Function{
		Async:     n.HasToken("async"),
		Generator: n.HasToken("*") || strings.HasPrefix(n.Kind(), "generator_"),
	}
	if name := n.Field("name"); name != nil {
		fn.ID = kinds.Ident(name.Text())
	}

	var err error
	if single := n.Field("parameter"); single != nil {
		fn.Parameters = []kinds.Kind{&kinds.Param{Value: kinds.Ident(single.Text())}}
	} else if fn.Parameters, err = e.convertParameters(n.Field("parameters"), ctx); err != nil {
		return nil, err
	}

	if fn.ReturnType, err = e.convert(n.Field("return_type"), ctx.withMode(TypeMode)); err != nil {
		return nil, err
	}
	return fn, nil
}

// convertParameters converts a formal parameter list to params.
func (e *Engine) convertParameters(n *syntax.Node, ctx Context) ([]kinds.Kind, error) {
	params := []kinds.Kind{}
	if n == nil {
		return params, nil
	}
	for _, p := range n.Named() {
		var (
			k   kinds.Kind
			err error
		)
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			k, err = e.convert(p, ctx)
		default:
			var value kinds.Kind
			if value, err = e.convert(p, ctx.withMode(ValueMode)); err == nil {
				k = &kinds.Param{Value: value}
			}
		}
		if err != nil {
			return nil, err
		}
		params = append(params, k)
	}
	return params, nil
}

// convertParameter converts one typed parameter. Labeled tuple members share
// the node kind and name their binding with the "name" field.
func (e *Engine) convertParameter(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	pattern := n.Field("pattern")
	if pattern == nil {
		pattern = n.Field("name")
	}

	var value kinds.Kind
	if pattern != nil && pattern.Kind() == "identifier" {
		value = kinds.Ident(pattern.Text())
	} else {
		var err error
		if value, err = e.convert(pattern, ctx.withMode(ValueMode)); err != nil {
			return nil, err
		}
	}
	if def := n.Field("value"); def != nil {
		right, err := e.convert(def, ctx.withMode(ValueMode))
		if err != nil {
			return nil, err
		}
		value = &kinds.AssignmentPattern{Left: value, Right: right}
	}

	typ, err := e.convertOptional(n.Field("type"), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Param{Value: value, Type: typ}, nil
}

func (e *Engine) convertVariable(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	v := &kinds.Variable{Declarations: []kinds.Kind{}}
	for _, d := range n.Named() {
		if d.Kind() != "variable_declarator" {
			continue
		}
		k, err := e.convert(d, ctx)
		if err != nil {
			return nil, err
		}
		v.Declarations = append(v.Declarations, k)
	}
	return v, nil
}

func (e *Engine) convertDeclarator(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	inner, ok := ctx.enter(n)
	if !ok {
		return kinds.Ident(n.Field("name").Text()), nil
	}
	inner = inner.withMode(ValueMode)
	id, err := e.convert(n.Field("name"), inner)
	if err != nil {
		return nil, err
	}
	value, err := e.convertOptional(n.Field("value"), inner)
	if err != nil {
		return nil, err
	}
	return &kinds.Initial{ID: id, Value: value}, nil
}

func (e *Engine) convertObjectPattern(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	members, err := e.convertAll(n.Named(), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	for i, m := range members {
		// `{ a }` binds and reads the same name
		if id, ok := m.(*kinds.ID); ok {
			members[i] = &kinds.Property{Key: kinds.Ident(id.Name), Value: id}
		}
	}
	return &kinds.ObjectPattern{Members: members}, nil
}

func (e *Engine) convertPairPattern(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	value, err := e.convert(n.Field("value"), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Property{Key: e.propertyKey(n.Field("key")), Value: value}, nil
}

func (e *Engine) convertAssignmentPattern(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(ValueMode)
	left, err := e.convert(n.Field("left"), ctx)
	if err != nil {
		return nil, err
	}
	right, err := e.convert(n.Field("right"), ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.AssignmentPattern{Left: left, Right: right}, nil
}

func (e *Engine) convertRest(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	arg, err := e.convert(n.FirstNamed(), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Rest{Argument: arg}, nil
}

func (e *Engine) convertJSXElement(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	opening := n
	if n.Kind() == "jsx_element" {
		opening = n.Field("open_tag")
		if opening == nil {
			opening = n.ChildOfKind("jsx_opening_element")
		}
	}
	value, err := e.jsxOpening(opening, ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.JSXElement{Value: value}, nil
}

func (e *Engine) convertJSXOpening(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.jsxOpening(n, ctx)
}

func (e *Engine) jsxOpening(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if n == nil {
		return &kinds.JSXOpeningElement{Attributes: []kinds.Kind{}}, nil
	}
	el := &kinds.JSXOpeningElement{Attributes: []kinds.Kind{}}
	if name := n.Field("name"); name != nil {
		el.Name = jsxName(name)
	}
	for _, child := range n.Named() {
		if child.Kind() != "jsx_attribute" && child.Kind() != "jsx_expression" {
			continue
		}
		attr, err := e.convert(child, ctx.withMode(ValueMode))
		if err != nil {
			return nil, err
		}
		el.Attributes = append(el.Attributes, attr)
	}
	return el, nil
}

// jsxName converts element names: identifiers, namespaced names and dotted
// member names such as Form.Field.
func jsxName(n *syntax.Node) kinds.Kind {
	switch n.Kind() {
	case "member_expression", "nested_identifier":
		named := n.Named()
		if len(named) == 2 {
			return &kinds.JSXMemberExpression{Object: jsxName(named[0]), Property: jsxName(named[1])}
		}
	}
	return &kinds.JSXIdentifier{Value: n.Text()}
}

func (e *Engine) convertJSXAttribute(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	named := n.Named()
	if len(named) == 0 {
		return &kinds.JSXAttribute{}, nil
	}
	attr := &kinds.JSXAttribute{Name: &kinds.JSXIdentifier{Value: named[0].Text()}}
	if len(named) > 1 {
		value, err := e.convert(named[1], ctx.withMode(ValueMode))
		if err != nil {
			return nil, err
		}
		attr.Value = value
	}
	return attr, nil
}

func (e *Engine) convertJSXExpression(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	expr, err := e.convertOptional(n.FirstNamed(), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.JSXExpressionContainer{Expression: expr}, nil
}
