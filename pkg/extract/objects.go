package extract

import (
	"fmt"

	"github.com/gnana997/reacttypes/pkg/annotation"
	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// assembleObject converts the members of an object type or object literal.
// Members tagged @ExcludeProp are dropped and spreads are spliced in place.
func (e *Engine) assembleObject(n *syntax.Node, ctx Context) (*kinds.Object, error) {
	obj := &kinds.Object{Members: []kinds.Kind{}}
	for _, member := range n.Named() {
		if annotation.Has(member, annotation.ExcludeProp) {
			e.logger.Debug("excluded member", "member", member.Text(), "position", member.Position())
			continue
		}
		k, err := e.convert(member, ctx)
		if err != nil {
			return nil, err
		}
		spread, ok := k.(*kinds.Spread)
		if !ok {
			obj.Members = append(obj.Members, k)
			continue
		}
		spliced, err := spreadMembers(spread, member)
		if err != nil {
			return nil, err
		}
		obj.Members = append(obj.Members, spliced...)
	}
	return obj, nil
}

// spreadMembers returns what a spread contributes to the enclosing object.
// Imports that could not be inlined stay as a single opaque member.
func spreadMembers(s *kinds.Spread, at *syntax.Node) ([]kinds.Kind, error) {
	target := spreadTarget(s.Value)
	switch v := target.(type) {
	case *kinds.Object:
		return v.Members, nil
	case *kinds.Import:
		return []kinds.Kind{v}, nil
	case *kinds.Initial:
		if obj, ok := v.Value.(*kinds.Object); ok {
			return obj.Members, nil
		}
	case *kinds.Variable:
		if obj := lastInitializer(v); obj != nil {
			return obj.Members, nil
		}
	}
	return nil, &SpreadOfNonObjectError{Kind: target.Tag(), Position: at.Position()}
}

// spreadTarget removes one generic layer from a spread value. A wrapper that
// is only a name, such as $Exact<T> or $ReadOnly<T>, gives way to its single
// type argument.
func spreadTarget(k kinds.Kind) kinds.Kind {
	g, ok := k.(*kinds.Generic)
	if !ok || g.Value == nil {
		return k
	}
	if _, named := g.Value.(*kinds.ID); named && g.TypeParams != nil && len(g.TypeParams.Params) == 1 {
		return g.TypeParams.Params[0]
	}
	return g.Value
}

// lastInitializer returns the object the last declarator of v initializes
// its binding to, if it is one.
func lastInitializer(v *kinds.Variable) *kinds.Object {
	if len(v.Declarations) == 0 {
		return nil
	}
	init, ok := v.Declarations[len(v.Declarations)-1].(*kinds.Initial)
	if !ok {
		return nil
	}
	obj, _ := init.Value.(*kinds.Object)
	return obj
}

func (e *Engine) convertObjectType(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.assembleObject(n, ctx.withMode(TypeMode))
}

func (e *Engine) convertObjectValue(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.assembleObject(n, ctx.withMode(ValueMode))
}

// propertyKey converts the key of a property. Keys are ids or strings.
func (e *Engine) propertyKey(n *syntax.Node) kinds.Kind {
	switch n.Kind() {
	case "string":
		return kinds.StringLit(n.StringValue())
	case "number":
		return kinds.StringLit(n.Text())
	case "computed_property_name":
		inner := n.FirstNamed()
		if inner != nil && inner.Kind() == "string" {
			return kinds.StringLit(inner.StringValue())
		}
	}
	return kinds.Ident(n.Text())
}

func (e *Engine) convertPropertySignature(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if n.IsSpreadMember() {
		return e.spreadOf(n.Field("type"), ctx.withMode(TypeMode))
	}
	value, err := e.convert(n.Field("type"), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Property{
		Key:      e.propertyKey(n.Field("name")),
		Value:    value,
		Optional: n.HasToken("?"),
	}, nil
}

func (e *Engine) convertMethodSignature(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	fn, err := e.signature(n, "return_type", ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Property{
		Key:      e.propertyKey(n.Field("name")),
		Value:    fn,
		Optional: n.HasToken("?"),
	}, nil
}

// convertCallSignature converts `(x: X): R` members, keyed by an empty string.
func (e *Engine) convertCallSignature(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	fn, err := e.signature(n, "return_type", ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Property{Key: &kinds.String{}, Value: fn}, nil
}

func (e *Engine) convertConstructSignature(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	fn, err := e.signature(n, "type", ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Property{Key: kinds.Ident("new"), Value: fn}, nil
}

func (e *Engine) signature(n *syntax.Node, returnField string, ctx Context) (*kinds.Function, error) {
	params, err := e.convertParameters(n.Field("parameters"), ctx)
	if err != nil {
		return nil, err
	}
	ret, err := e.convert(n.Field(returnField), ctx.withMode(TypeMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Function{Parameters: params, ReturnType: ret}, nil
}

// convertIndexSignature converts `[key: K]: V`. The key renders the index
// name and key kind, e.g. "[key: string]".
func (e *Engine) convertIndexSignature(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	ctx = ctx.withMode(TypeMode)
	indexType := n.Field("index_type")
	if indexType == nil {
		return nil, &MissingConverterError{Kind: "mapped_type_clause", Position: n.Position()}
	}
	keyKind, err := e.convert(indexType, ctx)
	if err != nil {
		return nil, err
	}
	value, err := e.convert(n.Field("type"), ctx)
	if err != nil {
		return nil, err
	}
	name := ""
	if id := n.Field("name"); id != nil {
		name = id.Text()
	}
	return &kinds.Property{
		Key:   kinds.Ident(fmt.Sprintf("[%s: %s]", name, keyKind.Tag())),
		Value: value,
	}, nil
}

// convertInterface converts an interface to an object holding its own members
// followed by those of the interfaces it extends. Bases that do not convert
// to objects are kept as opaque members.
func (e *Engine) convertInterface(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	inner, ok := ctx.enter(n)
	if !ok {
		return kinds.Ident(n.Field("name").Text()), nil
	}
	inner = inner.withMode(TypeMode)

	obj, err := e.assembleObject(n.Field("body"), inner)
	if err != nil {
		return nil, err
	}

	heritage := n.ChildOfKind("extends_type_clause")
	if heritage == nil {
		return obj, nil
	}
	for _, base := range heritage.Named() {
		k, err := e.convert(base, inner)
		if err != nil {
			return nil, err
		}
		if baseObj, ok := kinds.UnwrapGeneric(k).(*kinds.Object); ok {
			obj.Members = append(obj.Members, baseObj.Members...)
			continue
		}
		obj.Members = append(obj.Members, k)
	}
	return obj, nil
}

func (e *Engine) convertPair(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	if n.IsSpreadMember() {
		return e.spreadOf(n.Field("value"), ctx.withMode(ValueMode))
	}
	value, err := e.convert(n.Field("value"), ctx.withMode(ValueMode))
	if err != nil {
		return nil, err
	}
	return &kinds.Property{Key: e.propertyKey(n.Field("key")), Value: value}, nil
}

func (e *Engine) convertSpread(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	return e.spreadOf(n.FirstNamed(), ctx.withMode(ValueMode))
}

func (e *Engine) spreadOf(target *syntax.Node, ctx Context) (kinds.Kind, error) {
	value, err := e.convert(target, ctx)
	if err != nil {
		return nil, err
	}
	return &kinds.Spread{Value: value}, nil
}

// convertMethodDefinition converts `name() {}` inside an object literal.
func (e *Engine) convertMethodDefinition(n *syntax.Node, ctx Context) (kinds.Kind, error) {
	fn, err := e.functionKind(n, ctx)
	if err != nil {
		return nil, err
	}
	fn.ID = nil
	return &kinds.Property{Key: e.propertyKey(n.Field("name")), Value: fn}, nil
}
