package syntax

// BindingKind says what kind of construct declared a name.
type BindingKind int

const (
	BindingVariable BindingKind = iota
	BindingFunction
	BindingClass
	BindingImport
	BindingParam
	BindingCatch
	BindingTypeAlias
	BindingInterface
	BindingEnum
	BindingTypeParam
	BindingGlobal
)

var bindingKindNames = map[BindingKind]string{
	BindingVariable:  "variable",
	BindingFunction:  "function",
	BindingClass:     "class",
	BindingImport:    "import",
	BindingParam:     "param",
	BindingCatch:     "catch",
	BindingTypeAlias: "type alias",
	BindingInterface: "interface",
	BindingEnum:      "enum",
	BindingTypeParam: "type parameter",
	BindingGlobal:    "global",
}

func (k BindingKind) String() string { return bindingKindNames[k] }

// Binding maps a name to its declaration.
type Binding struct {
	Name string
	Kind BindingKind

	// Ident is the declaring identifier; nil for globals.
	Ident *Node

	// Decl is the declaring construct: a variable_declarator, import_specifier,
	// import_clause (default import), namespace_import, parameter, or the
	// declaration statement itself.
	Decl *Node

	// Destructured is set for names bound by an object or array pattern.
	Destructured bool
}

// IdentifierClass is the role an identifier plays where it occurs.
type IdentifierClass int

const (
	// Reference resolves through the scope chain to a declaration elsewhere.
	Reference IdentifierClass = iota
	// Static is a property name or key, never looked up in scope.
	Static
	// Declaring is the declaring occurrence of a binding.
	Declaring
)

type scope struct {
	parent   *scope
	function bool
	values   map[string]*Binding
	types    map[string]*Binding
}

func newScope(parent *scope, function bool) *scope {
	return &scope{
		parent:   parent,
		function: function,
		values:   make(map[string]*Binding),
		types:    make(map[string]*Binding),
	}
}

func (s *scope) functionScope() *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.function {
			return cur
		}
	}
	return s
}

type scopeTable struct {
	root      *scope
	byNode    map[uintptr]*scope
	declaring map[uintptr]bool
}

// globals resolve to themselves rather than failing value lookup.
var globals = map[string]bool{
	"undefined": true, "NaN": true, "Infinity": true, "globalThis": true,
	"window": true, "document": true, "console": true, "navigator": true,
	"Math": true, "Number": true, "String": true, "Boolean": true, "Object": true,
	"Array": true, "Date": true, "JSON": true, "Symbol": true, "Promise": true,
	"Error": true, "RegExp": true, "Map": true, "Set": true, "Intl": true,
	"parseInt": true, "parseFloat": true, "require": true, "module": true,
	"exports": true, "process": true,
}

var functionKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"function":                       true,
	"generator_function":             true,
	"generator_function_declaration": true,
	"arrow_function":                 true,
	"method_definition":              true,
}

var blockScopeKinds = map[string]bool{
	"statement_block":  true,
	"for_statement":    true,
	"for_in_statement": true,
	"catch_clause":     true,
	"switch_body":      true,
	"class_body":       true,
	// declarations with type parameters
	"class_declaration":          true,
	"abstract_class_declaration": true,
	"class":                      true,
	"type_alias_declaration":     true,
	"interface_declaration":      true,
	"function_signature":         true,
	"method_signature":           true,
	"call_signature":             true,
	"construct_signature":        true,
	"function_type":              true,
}

func (f *File) scopeTable() *scopeTable {
	f.scopesOnce.Do(func() {
		root := f.Root()
		t := &scopeTable{
			root:      newScope(nil, true),
			byNode:    make(map[uintptr]*scope),
			declaring: make(map[uintptr]bool),
		}
		t.byNode[root.ID()] = t.root
		t.walk(root, t.root)
		f.scopes = t
	})
	return f.scopes
}

func (t *scopeTable) walk(n *Node, s *scope) {
	inner := s
	kind := n.Kind()

	switch {
	case functionKinds[kind]:
		inner = newScope(s, true)
		t.byNode[n.ID()] = inner
	case blockScopeKinds[kind]:
		inner = newScope(s, false)
		t.byNode[n.ID()] = inner
	}

	t.declare(n, s, inner)

	for _, child := range n.Named() {
		t.walk(child, inner)
	}
}

// declare registers the names n introduces. outer is the scope n appears
// in; inner is the scope n opens, if any.
func (t *scopeTable) declare(n *Node, outer, inner *scope) {
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration":
		t.bindName(n.Field("name"), BindingFunction, n, outer.values)

	case "function_expression", "function", "generator_function":
		t.bindName(n.Field("name"), BindingFunction, n, inner.values)

	case "class_declaration", "abstract_class_declaration":
		name := n.Field("name")
		t.bindName(name, BindingClass, n, outer.values)
		t.bindName(name, BindingClass, n, outer.types)

	case "lexical_declaration", "variable_declaration":
		target := outer
		if n.Kind() == "variable_declaration" {
			target = outer.functionScope()
		}
		for _, decl := range n.Named() {
			if decl.Kind() != "variable_declarator" {
				continue
			}
			name := decl.Field("name")
			if name == nil {
				continue
			}
			destructured := name.Kind() != "identifier"
			for _, id := range patternNames(name) {
				b := t.bind(id, BindingVariable, decl, target.values)
				b.Destructured = destructured
			}
		}

	case "import_clause":
		for _, child := range n.Named() {
			switch child.Kind() {
			case "identifier":
				t.bindBoth(child, n, outer)
			case "namespace_import":
				t.bindBoth(child.ChildOfKind("identifier"), child, outer)
			case "named_imports":
				for _, spec := range child.Named() {
					if spec.Kind() != "import_specifier" {
						continue
					}
					local := spec.Field("alias")
					if local == nil {
						local = spec.Field("name")
					}
					t.bindBoth(local, spec, outer)
				}
			}
		}

	case "type_alias_declaration":
		t.bindName(n.Field("name"), BindingTypeAlias, n, outer.types)

	case "interface_declaration":
		t.bindName(n.Field("name"), BindingInterface, n, outer.types)

	case "enum_declaration":
		name := n.Field("name")
		t.bindName(name, BindingEnum, n, outer.values)
		t.bindName(name, BindingEnum, n, outer.types)

	case "type_parameter":
		t.bindName(n.Field("name"), BindingTypeParam, n, outer.types)

	case "formal_parameters":
		for _, param := range n.Named() {
			pattern := param
			if k := param.Kind(); k == "required_parameter" || k == "optional_parameter" {
				pattern = param.Field("pattern")
			}
			for _, id := range patternNames(pattern) {
				b := t.bind(id, BindingParam, param, outer.values)
				b.Destructured = pattern.Kind() != "identifier"
			}
		}

	case "arrow_function":
		if p := n.Field("parameter"); p != nil {
			t.bind(p, BindingParam, p, inner.values)
		}

	case "catch_clause":
		if p := n.Field("parameter"); p != nil {
			for _, id := range patternNames(p) {
				t.bind(id, BindingCatch, p, inner.values)
			}
		}
	}
}

func (t *scopeTable) bindBoth(id, decl *Node, s *scope) {
	if id == nil {
		return
	}
	t.bind(id, BindingImport, decl, s.values)
	t.bind(id, BindingImport, decl, s.types)
}

func (t *scopeTable) bindName(id *Node, kind BindingKind, decl *Node, ns map[string]*Binding) {
	if id == nil {
		return
	}
	t.bind(id, kind, decl, ns)
}

func (t *scopeTable) bind(id *Node, kind BindingKind, decl *Node, ns map[string]*Binding) *Binding {
	b := &Binding{Name: id.Text(), Kind: kind, Ident: id, Decl: decl}
	ns[b.Name] = b
	t.declaring[id.ID()] = true
	return b
}

// patternNames returns the identifiers a binding pattern declares.
func patternNames(p *Node) []*Node {
	if p == nil {
		return nil
	}
	switch p.Kind() {
	case "identifier", "shorthand_property_identifier_pattern":
		return []*Node{p}
	case "object_pattern", "array_pattern":
		var out []*Node
		for _, child := range p.Named() {
			out = append(out, patternNames(child)...)
		}
		return out
	case "pair_pattern":
		return patternNames(p.Field("value"))
	case "object_assignment_pattern", "assignment_pattern":
		return patternNames(p.Field("left"))
	case "rest_pattern":
		return patternNames(p.FirstNamed())
	}
	return nil
}

// scopeOf returns the innermost scope containing n.
func (t *scopeTable) scopeOf(n *Node) *scope {
	for cur := n.Parent(); cur != nil; cur = cur.Parent() {
		if s, ok := t.byNode[cur.ID()]; ok {
			return s
		}
	}
	return t.root
}

// ClassifyIdentifier reports whether an identifier occurrence is a reference,
// a static property name, or the declaring occurrence of a binding.
func ClassifyIdentifier(n *Node) IdentifierClass {
	switch n.Kind() {
	case "property_identifier", "private_property_identifier", "statement_identifier":
		return Static
	}
	if n.file.scopeTable().declaring[n.ID()] {
		return Declaring
	}
	return Reference
}

// LookupValue resolves name in the value namespace visible at n. Well-known
// globals resolve to a BindingGlobal. Returns nil when nothing is bound.
func LookupValue(n *Node, name string) *Binding {
	t := n.file.scopeTable()
	for s := t.scopeOf(n); s != nil; s = s.parent {
		if b, ok := s.values[name]; ok {
			return b
		}
	}
	if globals[name] {
		return &Binding{Name: name, Kind: BindingGlobal}
	}
	return nil
}

// LookupType resolves name in the type namespace visible at n.
func LookupType(n *Node, name string) *Binding {
	t := n.file.scopeTable()
	for s := t.scopeOf(n); s != nil; s = s.parent {
		if b, ok := s.types[name]; ok {
			return b
		}
	}
	return nil
}

// TopLevelValue looks name up in the module scope only.
func (f *File) TopLevelValue(name string) *Binding {
	return f.scopeTable().root.values[name]
}

// TopLevelType looks name up in the module type namespace only.
func (f *File) TopLevelType(name string) *Binding {
	return f.scopeTable().root.types[name]
}
