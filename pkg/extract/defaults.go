package extract

import (
	"github.com/gnana997/reacttypes/pkg/kinds"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// classDefaults reads the static defaultProps field of a component class.
// A class without one has no defaults.
func (e *Engine) classDefaults(class *syntax.Node, component string, ctx Context) ([]*kinds.Property, error) {
	body := class.Field("body")
	if body == nil {
		return nil, nil
	}
	for _, member := range body.Named() {
		if member.Kind() != "public_field_definition" && member.Kind() != "field_definition" {
			continue
		}
		name := member.Field("name")
		if name == nil {
			name = member.Field("property")
		}
		if name == nil || name.Text() != "defaultProps" {
			continue
		}

		value, err := e.convert(member.Field("value"), ctx.withMode(ValueMode))
		if err != nil {
			return nil, err
		}
		switch v := value.(type) {
		case *kinds.Object:
			return e.defaultEntries(v.Members, component), nil
		case *kinds.Variable:
			if obj := lastInitializer(v); obj != nil {
				return e.defaultEntries(obj.Members, component), nil
			}
		}
		return nil, &DefaultPropsError{Kind: value.Tag(), Component: component, Position: member.Position()}
	}
	return nil, nil
}

// functionDefaults looks for `Name.defaultProps = {...}` among the statements
// of the block declaring a function component. Anything but an object is
// ignored.
func (e *Engine) functionDefaults(decl *syntax.Node, component string, ctx Context) ([]*kinds.Property, error) {
	stmt := decl
	if parent := decl.Parent(); parent != nil && parent.Kind() == "export_statement" {
		stmt = parent
	}
	block := stmt.Parent()
	if block == nil {
		return nil, nil
	}

	for _, s := range block.Named() {
		if s.Kind() != "expression_statement" {
			continue
		}
		assign := s.FirstNamed()
		if assign == nil || assign.Kind() != "assignment_expression" {
			continue
		}
		left := assign.Field("left")
		if left == nil || left.Kind() != "member_expression" {
			continue
		}
		obj, prop := left.Field("object"), left.Field("property")
		if obj == nil || prop == nil || obj.Text() != component || prop.Text() != "defaultProps" {
			continue
		}

		value, err := e.convert(assign.Field("right"), ctx.withMode(ValueMode))
		if err != nil {
			return nil, err
		}
		if o, ok := value.(*kinds.Object); ok {
			return e.defaultEntries(o.Members, component), nil
		}
		e.logger.Debug("defaultProps is not an object", "component", component, "kind", value.Tag())
		return nil, nil
	}
	return nil, nil
}

// defaultEntries keeps the properties of a defaults object. Members that are
// not properties, such as imports spread into it, are skipped.
func (e *Engine) defaultEntries(members []kinds.Kind, component string) []*kinds.Property {
	var out []*kinds.Property
	for _, m := range members {
		p, ok := m.(*kinds.Property)
		if !ok {
			e.logger.Debug("skipping default entry", "component", component, "kind", m.Tag())
			continue
		}
		out = append(out, p)
	}
	return out
}

// applyDefaults records each default on the prop with the same key.
func applyDefaults(props kinds.Kind, defaults []*kinds.Property, component string) error {
	target := kinds.ResolveFromGeneric(props)
	for _, d := range defaults {
		p := kinds.FindProperty(target, d.Key)
		if p == nil {
			return &MissingDefaultTargetError{Prop: kinds.KeyName(d.Key), Component: component}
		}
		p.Default = d.Value
	}
	return nil
}
