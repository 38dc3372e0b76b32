package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/syntax"
	"github.com/gnana997/reacttypes/pkg/util"
)

func TestHasTag(t *testing.T) {
	tests := []struct {
		name string
		text string
		tag  string
		want bool
	}{
		{"doc comment", "* @ReactComponent ", ReactComponent, true},
		{"with description", "*\n * @ReactComponent the button\n ", ReactComponent, true},
		{"tag must be first", "* A button.\n * @ReactComponent", ReactComponent, false},
		{"prefix is not a match", "* @ReactComponentX", ReactComponent, false},
		{"other tag", "* @WithProps", ReactComponent, false},
		{"exclude", "* @ExcludeProp", ExcludeProp, true},
		{"empty", "", ExcludeProp, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasTag(syntax.Comment{Block: true, Text: tt.text}, tt.tag))
		})
	}

	assert.True(t, HasTag(syntax.Comment{Text: " @WithProps"}, WithProps), "line comments count")
}

func TestHas(t *testing.T) {
	pm := parser.NewParserManager(util.NopLogger(), 1)
	defer pm.Close()

	src := `/** unrelated */
/** @ReactComponent */
class A extends React.Component<P> {}

/** @ReactComponent */
/** but the nearest comment wins */
class B extends React.Component<P> {}

/** @WithProps */
export const C = wrap(A);

class D {}`

	f, err := syntax.Parse(pm, []byte(src), parser.DialectTypeScript, "")
	require.NoError(t, err)
	defer f.Close()

	byName := map[string]*syntax.Node{}
	for _, stmt := range f.Root().Named() {
		decl := stmt
		if stmt.Kind() == "export_statement" {
			decl = stmt.Field("declaration")
		}
		if name := decl.Field("name"); name != nil {
			byName[name.Text()] = decl
		}
		for _, d := range decl.Named() {
			if d.Kind() == "variable_declarator" {
				byName[d.Field("name").Text()] = decl
			}
		}
	}

	require.Len(t, byName, 4)
	assert.True(t, Has(byName["A"], ReactComponent))
	assert.False(t, Has(byName["B"], ReactComponent))
	assert.True(t, Has(byName["C"], WithProps))
	assert.False(t, Has(byName["D"], ReactComponent))
}
