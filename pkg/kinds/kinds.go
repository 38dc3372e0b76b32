// Package kinds defines the canonical type-description tree produced by the
// extraction engine. Every node is a Kind; the set of concrete variants is
// closed and identified by Tag.
package kinds

// Tag identifies a Kind variant. The string value is the "kind" field of the
// serialized node.
type Tag string

// Type-model tags.
const (
	TagObject          Tag = "object"
	TagUnion           Tag = "union"
	TagIntersection    Tag = "intersection"
	TagTuple           Tag = "tuple"
	TagArrayType       Tag = "arrayType"
	TagFunction        Tag = "function"
	TagGeneric         Tag = "generic"
	TagTypeParams      Tag = "typeParams"
	TagProperty        Tag = "property"
	TagParam           Tag = "param"
	TagSpread          Tag = "spread"
	TagImport          Tag = "import"
	TagExport          Tag = "export"
	TagExportSpecifier Tag = "exportSpecifier"
	TagID              Tag = "id"
	TagVariable        Tag = "variable"
	TagInitial         Tag = "initial"
	TagString          Tag = "string"
	TagNumber          Tag = "number"
	TagBoolean         Tag = "boolean"
	TagNull            Tag = "null"
	TagVoid            Tag = "void"
	TagMixed           Tag = "mixed"
	TagAny             Tag = "any"
	TagExists          Tag = "exists"
	TagClass           Tag = "class"
	TagCustom          Tag = "custom"
	TagNullable        Tag = "nullable"
	TagTypeof          Tag = "typeof"
)

// Value-expression tags, used for default values and initializers.
const (
	TagArray             Tag = "array"
	TagCall              Tag = "call"
	TagNew               Tag = "new"
	TagMemberExpression  Tag = "memberExpression"
	TagBinary            Tag = "binary"
	TagUnary             Tag = "unary"
	TagTemplateLiteral   Tag = "templateLiteral"
	TagObjectPattern     Tag = "objectPattern"
	TagRest              Tag = "rest"
	TagAssignmentPattern Tag = "assignmentPattern"
	TagJSXElement        Tag = "JSXElement"
	TagJSXOpening        Tag = "JSXOpeningElement"
	TagJSXIdentifier     Tag = "JSXIdentifier"
	TagJSXMember         Tag = "JSXMemberExpression"
	TagJSXAttribute      Tag = "JSXAttribute"
	TagJSXExpression     Tag = "JSXExpressionContainer"
)

// CommentType distinguishes line comments from block comments.
type CommentType string

const (
	CommentBlock CommentType = "commentBlock"
	CommentLine  CommentType = "commentLine"
)

// Comment is a documentation comment attached to a node.
type Comment struct {
	Type  CommentType
	Value string // normalized text
	Raw   string // text between the comment delimiters
}

// Meta holds the attributes every node may carry.
type Meta struct {
	LeadingComments  []Comment
	TrailingComments []Comment
	InnerComments    []Comment

	// ReferenceIDName is the identifier through which a value-mode reference
	// reached this node.
	ReferenceIDName string
}

// Annotations returns the node's shared attributes.
func (m *Meta) Annotations() *Meta { return m }

// Kind is a node of the type-description tree.
type Kind interface {
	Tag() Tag
	Annotations() *Meta
}

type Object struct {
	Meta
	Members []Kind
}

type Union struct {
	Meta
	Types []Kind
}

type Intersection struct {
	Meta
	Types []Kind
}

type Tuple struct {
	Meta
	Types []Kind
}

type ArrayType struct {
	Meta
	Type Kind
}

type Function struct {
	Meta
	ID         Kind // nil for anonymous functions and function types
	Async      bool
	Generator  bool
	Parameters []Kind
	ReturnType Kind
}

type Generic struct {
	Meta
	Value      Kind
	TypeParams *TypeParams
}

type TypeParams struct {
	Meta
	Params []Kind
}

// Property is a member of an object. Key is always an *ID or a *String.
type Property struct {
	Meta
	Key      Kind
	Value    Kind
	Optional bool
	Default  Kind
}

type Param struct {
	Meta
	Value Kind
	Type  Kind
}

// Spread only exists while an object is being assembled.
type Spread struct {
	Meta
	Value Kind
}

// Import is an opaque reference to a binding of another module that could not
// be inlined.
type Import struct {
	Meta
	ImportKind      string
	Name            string
	ModuleSpecifier string
}

type Export struct {
	Meta
	Exports []Kind
	Source  string
}

type ExportSpecifier struct {
	Meta
	Local    Kind
	Exported Kind
}

type ID struct {
	Meta
	Name string
	Type Kind
}

type Variable struct {
	Meta
	Declarations []Kind
}

type Initial struct {
	Meta
	ID    Kind
	Value Kind
}

// String is the string type, or a string literal when Value is set.
type String struct {
	Meta
	Value *string
}

// Number is the number type, or a numeric literal when Value is set.
type Number struct {
	Meta
	Value *float64
}

// Boolean is the boolean type, or a boolean literal when Value is set.
type Boolean struct {
	Meta
	Value *bool
}

type Null struct{ Meta }

type Void struct{ Meta }

type Mixed struct{ Meta }

type Any struct{ Meta }

type Exists struct{ Meta }

type Class struct {
	Meta
	Name Kind
}

type Custom struct {
	Meta
	Value string
}

type Nullable struct {
	Meta
	Arguments Kind
}

type Typeof struct {
	Meta
	Type Kind
	Name string
}

type Array struct {
	Meta
	Elements []Kind
}

type Call struct {
	Meta
	Callee Kind
	Args   []Kind
}

type New struct {
	Meta
	Callee Kind
	Args   []Kind
}

type MemberExpression struct {
	Meta
	Object   Kind
	Property Kind
}

type Binary struct {
	Meta
	Operator string
	Left     Kind
	Right    Kind
}

type Unary struct {
	Meta
	Operator string
	Argument Kind
}

type TemplateLiteral struct {
	Meta
	Expressions []Kind
	Quasis      []string
}

type ObjectPattern struct {
	Meta
	Members []Kind
}

type Rest struct {
	Meta
	Argument Kind
}

type AssignmentPattern struct {
	Meta
	Left  Kind
	Right Kind
}

type JSXElement struct {
	Meta
	Value Kind
}

type JSXOpeningElement struct {
	Meta
	Name       Kind
	Attributes []Kind
}

type JSXIdentifier struct {
	Meta
	Value string
}

type JSXMemberExpression struct {
	Meta
	Object   Kind
	Property Kind
}

type JSXAttribute struct {
	Meta
	Name  Kind
	Value Kind
}

type JSXExpressionContainer struct {
	Meta
	Expression Kind
}

func (*Object) Tag() Tag                 { return TagObject }
func (*Union) Tag() Tag                  { return TagUnion }
func (*Intersection) Tag() Tag           { return TagIntersection }
func (*Tuple) Tag() Tag                  { return TagTuple }
func (*ArrayType) Tag() Tag              { return TagArrayType }
func (*Function) Tag() Tag               { return TagFunction }
func (*Generic) Tag() Tag                { return TagGeneric }
func (*TypeParams) Tag() Tag             { return TagTypeParams }
func (*Property) Tag() Tag               { return TagProperty }
func (*Param) Tag() Tag                  { return TagParam }
func (*Spread) Tag() Tag                 { return TagSpread }
func (*Import) Tag() Tag                 { return TagImport }
func (*Export) Tag() Tag                 { return TagExport }
func (*ExportSpecifier) Tag() Tag        { return TagExportSpecifier }
func (*ID) Tag() Tag                     { return TagID }
func (*Variable) Tag() Tag               { return TagVariable }
func (*Initial) Tag() Tag                { return TagInitial }
func (*String) Tag() Tag                 { return TagString }
func (*Number) Tag() Tag                 { return TagNumber }
func (*Boolean) Tag() Tag                { return TagBoolean }
func (*Null) Tag() Tag                   { return TagNull }
func (*Void) Tag() Tag                   { return TagVoid }
func (*Mixed) Tag() Tag                  { return TagMixed }
func (*Any) Tag() Tag                    { return TagAny }
func (*Exists) Tag() Tag                 { return TagExists }
func (*Class) Tag() Tag                  { return TagClass }
func (*Custom) Tag() Tag                 { return TagCustom }
func (*Nullable) Tag() Tag               { return TagNullable }
func (*Typeof) Tag() Tag                 { return TagTypeof }
func (*Array) Tag() Tag                  { return TagArray }
func (*Call) Tag() Tag                   { return TagCall }
func (*New) Tag() Tag                    { return TagNew }
func (*MemberExpression) Tag() Tag       { return TagMemberExpression }
func (*Binary) Tag() Tag                 { return TagBinary }
func (*Unary) Tag() Tag                  { return TagUnary }
func (*TemplateLiteral) Tag() Tag        { return TagTemplateLiteral }
func (*ObjectPattern) Tag() Tag          { return TagObjectPattern }
func (*Rest) Tag() Tag                   { return TagRest }
func (*AssignmentPattern) Tag() Tag      { return TagAssignmentPattern }
func (*JSXElement) Tag() Tag             { return TagJSXElement }
func (*JSXOpeningElement) Tag() Tag      { return TagJSXOpening }
func (*JSXIdentifier) Tag() Tag          { return TagJSXIdentifier }
func (*JSXMemberExpression) Tag() Tag    { return TagJSXMember }
func (*JSXAttribute) Tag() Tag           { return TagJSXAttribute }
func (*JSXExpressionContainer) Tag() Tag { return TagJSXExpression }

// StringLit returns a string literal leaf.
func StringLit(v string) *String { return &String{Value: &v} }

// NumberLit returns a numeric literal leaf.
func NumberLit(v float64) *Number { return &Number{Value: &v} }

// BooleanLit returns a boolean literal leaf.
func BooleanLit(v bool) *Boolean { return &Boolean{Value: &v} }

// Ident returns an id leaf without a type.
func Ident(name string) *ID { return &ID{Name: name} }
