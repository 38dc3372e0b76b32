package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/util"
)

func parse(t *testing.T, source string) *File {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger(), 1)
	t.Cleanup(func() { pm.Close() })

	f, err := Parse(pm, []byte(source), parser.DialectTypeScript, "/src/mod.tsx")
	require.NoError(t, err)
	t.Cleanup(f.Close)
	require.False(t, f.Root().HasError(), f.Root().raw.ToSexp())
	return f
}

// find returns the first node of kind whose text equals text, depth first.
func find(n *Node, kind, text string) *Node {
	if n.Kind() == kind && (text == "" || n.Text() == text) {
		return n
	}
	for _, child := range n.Children() {
		if found := find(child, kind, text); found != nil {
			return found
		}
	}
	return nil
}

func TestComments_LeadingAndTrailing(t *testing.T) {
	f := parse(t, `type Props = {
  /** The label. */
  label: string,
  // plain note
  size: number, /** after size */
  /**
   * Multi
   * line
   */
  kind: "a" | "b",
};`)

	label := find(f.Root(), "property_signature", "label: string")
	require.NotNil(t, label)
	leading := label.LeadingComments()
	require.Len(t, leading, 1)
	assert.True(t, leading[0].IsDoc())
	assert.Equal(t, "The label.", NormalizeComment(leading[0]))

	size := find(f.Root(), "property_signature", "size: number")
	require.NotNil(t, size)
	sizeLeading := size.LeadingComments()
	require.Len(t, sizeLeading, 1)
	assert.False(t, sizeLeading[0].Block)
	assert.Equal(t, "plain note", NormalizeComment(sizeLeading[0]))

	trailing := size.TrailingComments()
	require.Len(t, trailing, 2)
	assert.Equal(t, "after size", NormalizeComment(trailing[0]))
	assert.Equal(t, "Multi\nline", NormalizeComment(trailing[1]))

	kind := find(f.Root(), "property_signature", `kind: "a" | "b"`)
	require.NotNil(t, kind)
	assert.Len(t, kind.LeadingComments(), 2)
}

func TestComments_Inner(t *testing.T) {
	f := parse(t, "type Empty = { /** nothing here */ };")

	obj := find(f.Root(), "object_type", "")
	require.NotNil(t, obj)
	inner := obj.InnerComments()
	require.Len(t, inner, 1)
	assert.Equal(t, "nothing here", NormalizeComment(inner[0]))

	alias := find(f.Root(), "type_alias_declaration", "")
	assert.Empty(t, alias.InnerComments())
}

func TestComments_DeclarationFallsBackToExport(t *testing.T) {
	f := parse(t, "/** @ReactComponent */\nexport class Button extends React.Component<Props> {}")

	class := find(f.Root(), "class_declaration", "")
	require.NotNil(t, class)
	assert.Empty(t, class.LeadingComments())

	comments := class.DeclarationComments()
	require.Len(t, comments, 1)
	assert.Equal(t, "@ReactComponent", NormalizeComment(comments[0]))
}

func TestNormalizeComment(t *testing.T) {
	tests := []struct {
		name string
		in   Comment
		want string
	}{
		{"single line doc", Comment{Block: true, Text: "* Size of the button. "}, "Size of the button."},
		{"gutter", Comment{Block: true, Text: "*\n   * First\n   *   indented\n   "}, "First\n  indented"},
		{"no gutter", Comment{Block: true, Text: " plain\n    block "}, "plain\nblock"},
		{"line", Comment{Text: "  note  "}, "note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeComment(tt.in))
		})
	}
}

func TestScope_ValueAndTypeNamespaces(t *testing.T) {
	f := parse(t, `import Default, { Named as Alias, type Only } from "./dep";
import * as NS from "./ns";
type Props = { a: Alias };
const Props = { a: 1 };
function make(size: number) { return size; }
enum Color { Red }`)

	ref := find(f.Root(), "type_identifier", "Alias")
	require.NotNil(t, ref)

	b := LookupType(ref, "Props")
	require.NotNil(t, b)
	assert.Equal(t, BindingTypeAlias, b.Kind)
	assert.Equal(t, "type_alias_declaration", b.Decl.Kind())

	v := LookupValue(ref, "Props")
	require.NotNil(t, v)
	assert.Equal(t, BindingVariable, v.Kind)
	assert.Equal(t, "variable_declarator", v.Decl.Kind())

	alias := LookupType(ref, "Alias")
	require.NotNil(t, alias)
	assert.Equal(t, BindingImport, alias.Kind)
	assert.Equal(t, "import_specifier", alias.Decl.Kind())

	def := LookupValue(ref, "Default")
	require.NotNil(t, def)
	assert.Equal(t, "import_clause", def.Decl.Kind())

	ns := LookupValue(ref, "NS")
	require.NotNil(t, ns)
	assert.Equal(t, "namespace_import", ns.Decl.Kind())

	assert.NotNil(t, LookupType(ref, "Only"))
	assert.NotNil(t, LookupValue(ref, "Color"))
	assert.NotNil(t, LookupType(ref, "Color"))

	assert.Nil(t, LookupValue(ref, "size"), "parameters are not visible outside the function")
	body := find(f.Root(), "return_statement", "")
	require.NotNil(t, body)
	param := LookupValue(body, "size")
	require.NotNil(t, param)
	assert.Equal(t, BindingParam, param.Kind)
	assert.Equal(t, "required_parameter", param.Decl.Kind())

	assert.Nil(t, LookupType(ref, "Missing"))
	assert.Nil(t, LookupValue(ref, "missing"))
	global := LookupValue(ref, "undefined")
	require.NotNil(t, global)
	assert.Equal(t, BindingGlobal, global.Kind)
}

func TestScope_BlockShadowing(t *testing.T) {
	f := parse(t, `const size = 1;
function f() {
  const size = 2;
  return size;
}
var hoisted = size;`)

	inner := find(f.Root(), "return_statement", "")
	b := LookupValue(inner, "size")
	require.NotNil(t, b)
	assert.Equal(t, "size = 2", b.Decl.Text())

	outer := find(f.Root(), "variable_declarator", "hoisted = size")
	b = LookupValue(outer, "size")
	require.NotNil(t, b)
	assert.Equal(t, "size = 1", b.Decl.Text())
}

func TestScope_Destructuring(t *testing.T) {
	f := parse(t, "const { a, b: renamed, ...rest } = props;\nconst x = a;")

	ref := find(f.Root(), "variable_declarator", "x = a")
	for _, name := range []string{"a", "renamed", "rest"} {
		b := LookupValue(ref, name)
		require.NotNil(t, b, name)
		assert.True(t, b.Destructured, name)
	}
	assert.Nil(t, LookupValue(ref, "b"))
}

func TestClassifyIdentifier(t *testing.T) {
	f := parse(t, "const base = { size: 1 };\nconst other = base.size;")

	decl := find(f.Root(), "identifier", "base")
	require.NotNil(t, decl)
	assert.Equal(t, Declaring, ClassifyIdentifier(decl))

	member := find(f.Root(), "member_expression", "")
	require.NotNil(t, member)
	assert.Equal(t, Reference, ClassifyIdentifier(member.Field("object")))
	assert.Equal(t, Static, ClassifyIdentifier(member.Field("property")))
}

func TestMatchExported(t *testing.T) {
	f := parse(t, `import Thing from "./thing";
type Local = { a: string };
const value = 1;
export type Props = { id: string };
export interface Shape { n: number }
export const a = 1, b = 2;
export { Local as Renamed, value, Thing };
export { Other } from "./other";
export default class Widget {}
export * from "./all";
export * as ns from "./ns";`)

	tests := []struct {
		name      string
		wantKind  string
		wantLocal string
	}{
		{"Props", "type_alias_declaration", "Props"},
		{"Shape", "interface_declaration", "Shape"},
		{"b", "lexical_declaration", "b"},
		{"Renamed", "type_alias_declaration", "Local"},
		{"value", "lexical_declaration", "value"},
		{"Thing", "import_statement", "Thing"},
		{"Other", "export_statement", "Other"},
		{"default", "class_declaration", "Widget"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := MatchExported(f, tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, m.Node.Kind())
			assert.Equal(t, tt.wantLocal, m.Local)
		})
	}

	_, ok := MatchExported(f, "Local")
	assert.False(t, ok, "unexported names do not match")
	_, ok = MatchExported(f, "ns")
	assert.False(t, ok)

	assert.Equal(t, []string{"./all"}, ExportAllSources(f))
}

func TestStringValue(t *testing.T) {
	f := parse(t, `const a = "dou\"ble"; const b = 'sin\'gle'; const c = "tab\t";`)

	assert.Equal(t, `dou"ble`, find(f.Root(), "string", `"dou\"ble"`).StringValue())
	assert.Equal(t, `sin'gle`, find(f.Root(), "string", `'sin\'gle'`).StringValue())
	assert.Equal(t, "tab\t", find(f.Root(), "string", `"tab\t"`).StringValue())
}

func TestNodeHelpers(t *testing.T) {
	f := parse(t, "type T = { next?: T };")

	alias := find(f.Root(), "type_alias_declaration", "")
	prop := find(f.Root(), "property_signature", "")
	require.NotNil(t, prop)

	assert.True(t, prop.HasToken("?"))
	assert.False(t, alias.HasToken("?"))
	assert.True(t, alias.Contains(prop))
	assert.False(t, prop.Contains(alias))
	assert.True(t, alias.Same(prop.Parent().Parent()))
	assert.Equal(t, 1, prop.Line())
	assert.Equal(t, "/src/mod.tsx:1", prop.Position())
	assert.Equal(t, "T", alias.Field("name").Text())
}
