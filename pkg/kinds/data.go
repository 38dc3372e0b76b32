package kinds

import "encoding/json"

// Data converts a Kind tree into plain JSON-representable values: maps keyed
// by the serialized field names, slices, strings, numbers, booleans and nil.
// A nil Kind converts to nil.
func Data(k Kind) any {
	if k == nil {
		return nil
	}

	m := map[string]any{"kind": string(k.Tag())}

	switch v := k.(type) {
	case *Object:
		m["members"] = list(v.Members)
	case *Union:
		m["types"] = list(v.Types)
	case *Intersection:
		m["types"] = list(v.Types)
	case *Tuple:
		m["types"] = list(v.Types)
	case *ArrayType:
		m["type"] = Data(v.Type)
	case *Function:
		if v.ID != nil {
			m["id"] = Data(v.ID)
		}
		m["async"] = v.Async
		m["generator"] = v.Generator
		m["parameters"] = list(v.Parameters)
		if v.ReturnType != nil {
			m["returnType"] = Data(v.ReturnType)
		}
	case *Generic:
		m["value"] = Data(v.Value)
		if v.TypeParams != nil {
			m["typeParams"] = Data(v.TypeParams)
		}
	case *TypeParams:
		m["params"] = list(v.Params)
	case *Property:
		m["key"] = Data(v.Key)
		m["value"] = Data(v.Value)
		m["optional"] = v.Optional
		if v.Default != nil {
			m["default"] = Data(v.Default)
		}
	case *Param:
		m["value"] = Data(v.Value)
		if v.Type != nil {
			m["type"] = Data(v.Type)
		}
	case *Spread:
		m["value"] = Data(v.Value)
	case *Import:
		m["importKind"] = v.ImportKind
		m["name"] = v.Name
		m["moduleSpecifier"] = v.ModuleSpecifier
	case *Export:
		m["exports"] = list(v.Exports)
		if v.Source != "" {
			m["source"] = v.Source
		}
	case *ExportSpecifier:
		m["local"] = Data(v.Local)
		m["exported"] = Data(v.Exported)
	case *ID:
		m["name"] = v.Name
		if v.Type != nil {
			m["type"] = Data(v.Type)
		}
	case *Variable:
		m["declarations"] = list(v.Declarations)
	case *Initial:
		m["id"] = Data(v.ID)
		m["value"] = Data(v.Value)
	case *String:
		if v.Value != nil {
			m["value"] = *v.Value
		}
	case *Number:
		if v.Value != nil {
			m["value"] = *v.Value
		}
	case *Boolean:
		if v.Value != nil {
			m["value"] = *v.Value
		}
	case *Null, *Void, *Mixed, *Any, *Exists:
	case *Class:
		m["name"] = Data(v.Name)
	case *Custom:
		m["value"] = v.Value
	case *Nullable:
		m["arguments"] = Data(v.Arguments)
	case *Typeof:
		m["type"] = Data(v.Type)
		m["name"] = v.Name
	case *Array:
		m["elements"] = list(v.Elements)
	case *Call:
		m["callee"] = Data(v.Callee)
		m["args"] = list(v.Args)
	case *New:
		m["callee"] = Data(v.Callee)
		m["args"] = list(v.Args)
	case *MemberExpression:
		m["object"] = Data(v.Object)
		m["property"] = Data(v.Property)
	case *Binary:
		m["operator"] = v.Operator
		m["left"] = Data(v.Left)
		m["right"] = Data(v.Right)
	case *Unary:
		m["operator"] = v.Operator
		m["argument"] = Data(v.Argument)
	case *TemplateLiteral:
		m["expressions"] = list(v.Expressions)
		quasis := make([]any, len(v.Quasis))
		for i, q := range v.Quasis {
			quasis[i] = q
		}
		m["quasis"] = quasis
	case *ObjectPattern:
		m["members"] = list(v.Members)
	case *Rest:
		m["argument"] = Data(v.Argument)
	case *AssignmentPattern:
		m["left"] = Data(v.Left)
		m["right"] = Data(v.Right)
	case *JSXElement:
		m["value"] = Data(v.Value)
	case *JSXOpeningElement:
		m["name"] = Data(v.Name)
		m["attributes"] = list(v.Attributes)
	case *JSXIdentifier:
		m["value"] = v.Value
	case *JSXMemberExpression:
		m["object"] = Data(v.Object)
		m["property"] = Data(v.Property)
	case *JSXAttribute:
		m["name"] = Data(v.Name)
		m["value"] = Data(v.Value)
	case *JSXExpressionContainer:
		m["expression"] = Data(v.Expression)
	}

	meta := k.Annotations()
	addComments(m, "leadingComments", meta.LeadingComments)
	addComments(m, "trailingComments", meta.TrailingComments)
	addComments(m, "innerComments", meta.InnerComments)
	if meta.ReferenceIDName != "" {
		m["referenceIdName"] = meta.ReferenceIDName
	}

	return m
}

// Marshal serializes a Kind tree to JSON. Map keys come out sorted, so equal
// trees always produce identical bytes.
func Marshal(k Kind) ([]byte, error) {
	return json.Marshal(Data(k))
}

func list(ks []Kind) []any {
	out := make([]any, len(ks))
	for i, k := range ks {
		out[i] = Data(k)
	}
	return out
}

func addComments(m map[string]any, field string, comments []Comment) {
	if len(comments) == 0 {
		return
	}
	out := make([]any, len(comments))
	for i, c := range comments {
		out[i] = map[string]any{
			"type":  string(c.Type),
			"value": c.Value,
			"raw":   c.Raw,
		}
	}
	m[field] = out
}
