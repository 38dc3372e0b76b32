package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reacttypes/pkg/annotation"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/util"
)

func newTestPlugin(t *testing.T) *Plugin {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger(), 2)
	t.Cleanup(func() { pm.Close() })
	l, err := loader.New(loader.Config{Parser: pm, Logger: util.NopLogger()})
	require.NoError(t, err)
	e, err := extract.NewEngine(extract.Config{Loader: l, Logger: util.NopLogger()})
	require.NoError(t, err)
	return New(e, util.NopLogger())
}

const componentSource = `type Props = { label: string };

/** @ReactComponent */
export function Button(props: Props) { return null; }

/** @WithProps */
const all = [];

const plain = 1;
`

func TestTransform_AppendsAssignments(t *testing.T) {
	out, err := newTestPlugin(t).Transform([]byte(componentSource), extract.Options{Dialect: "typescript"})
	require.NoError(t, err)
	require.True(t, out.Changed())
	require.Len(t, out.Assignments, 2)

	button := out.Assignments[0]
	assert.Equal(t, "Button", button.Component)
	assert.Equal(t, annotation.ReactComponent, button.Tag)

	var record map[string]any
	require.NoError(t, json.Unmarshal(button.JSON, &record))
	assert.Equal(t, "object", record["kind"])
	assert.Equal(t, map[string]any{"kind": "id", "name": "Button"}, record["name"])

	withProps := out.Assignments[1]
	assert.Equal(t, "all", withProps.Component)
	assert.Equal(t, annotation.WithProps, withProps.Tag)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(withProps.JSON, &list))
	require.Len(t, list, 1)

	code := string(out.Code)
	assert.True(t, strings.HasPrefix(code, componentSource))
	tail := strings.TrimPrefix(code, componentSource)
	assert.Equal(t, "\n"+button.Statement()+"\n"+withProps.Statement()+"\n", tail)
	assert.True(t, strings.HasPrefix(button.Statement(), "Button.__types = {"))
	assert.NotContains(t, code, "plain.__types")
}

func TestTransform_ParsesOnce(t *testing.T) {
	pm := parser.NewParserManager(util.NopLogger(), 1)
	t.Cleanup(func() { pm.Close() })
	l, err := loader.New(loader.Config{Parser: pm, Logger: util.NopLogger()})
	require.NoError(t, err)
	e, err := extract.NewEngine(extract.Config{Loader: l, Logger: util.NopLogger()})
	require.NoError(t, err)

	out, err := New(e, nil).Transform([]byte(componentSource), extract.Options{Dialect: "typescript"})
	require.NoError(t, err)
	require.Len(t, out.Assignments, 2)
	assert.Equal(t, 1, pm.Stats().ParsesCalled)
}

func TestTransform_FlowSpreadProps(t *testing.T) {
	src := `type Base = { size: number };
type Props = { ...Base, label: string };

/** @ReactComponent */
class Tag extends React.Component<Props> {}
`
	out, err := newTestPlugin(t).Transform([]byte(src), extract.Options{Dialect: "flow"})
	require.NoError(t, err)
	require.Len(t, out.Assignments, 1)
	assert.Contains(t, string(out.Assignments[0].JSON), `"size"`)
	assert.True(t, strings.HasPrefix(string(out.Code), src), "output keeps the original spread syntax")
}

func TestTransform_UnchangedWithoutRecords(t *testing.T) {
	src := "/** @WithProps */\nconst all = [];\n"
	out, err := newTestPlugin(t).Transform([]byte(src), extract.Options{Dialect: "typescript"})
	require.NoError(t, err)
	assert.False(t, out.Changed())
	assert.Equal(t, src, string(out.Code))
	assert.Empty(t, out.Result.Records())
}

func TestTransform_ErrorNamesFile(t *testing.T) {
	src := `type Props = { a: string };
/** @ReactComponent */
class X extends React.Component<Props> {
  static defaultProps = { b: 1 };
}
`
	_, err := newTestPlugin(t).Transform([]byte(src), extract.Options{Dialect: "typescript", Filename: "x.tsx"})
	require.Error(t, err)
	assert.ErrorIs(t, err, extract.ErrMissingDefaultTarget)
	assert.Contains(t, err.Error(), "x.tsx")
}

func TestTransformFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Props.ts"), []byte("export type Props = { size: number };\n"), 0644))
	path := filepath.Join(dir, "Box.tsx")
	src := `import { Props } from './Props';

/** @ReactComponent */
export class Box extends React.Component<Props> {}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	out, err := newTestPlugin(t).TransformFile(path, extract.Options{Dialect: "typescript"})
	require.NoError(t, err)
	require.Len(t, out.Assignments, 1)
	assert.Equal(t, "Box", out.Assignments[0].Component)
	assert.Contains(t, string(out.Assignments[0].JSON), `"size"`)
	assert.Equal(t, []string{filepath.Join(dir, "Props.ts")}, out.Result.Dependencies)
}

func TestTransform_UnsupportedDialect(t *testing.T) {
	_, err := newTestPlugin(t).Transform([]byte(componentSource), extract.Options{Dialect: "coffee"})
	assert.ErrorIs(t, err, parser.ErrUnsupportedDialect)
}
