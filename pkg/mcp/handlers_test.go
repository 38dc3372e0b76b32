package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/mcplog"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/util"
)

// --- helpers ---

const buttonModule = `import { Props } from './types';

/** @ReactComponent */
export class Button extends React.Component<Props> {}
`

func newTestEngine(t *testing.T) *extract.Engine {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger(), 2)
	t.Cleanup(func() { pm.Close() })
	l, err := loader.New(loader.Config{Parser: pm, Logger: util.NopLogger()})
	require.NoError(t, err)
	e, err := extract.NewEngine(extract.Config{Loader: l, Logger: util.NopLogger()})
	require.NoError(t, err)
	return e
}

// testServer serves a workspace holding Button.tsx, Card.tsx and types.ts,
// with every module already in the catalog.
func testServer(t *testing.T) (*Server, string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"types.ts":   "export type Props = { label: string, size?: number };\n",
		"Button.tsx": buttonModule,
		"Card.tsx":   "/** @ReactComponent */\nexport function Card(props: { title: string }) { return null; }\n",
	}
	engine := newTestEngine(t)
	cat := catalog.New(root)
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	for name := range files {
		path := filepath.Join(root, name)
		res, err := engine.ExtractFile(path, extract.Options{Dialect: "typescript"})
		cat.Put(catalog.NewEntry(path, res, err))
	}
	return NewServer(engine, cat, Options{Root: root}), root
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
	switch req.Params.Name {
	case "extract_types":
		handler = s.handleExtractTypes
	case "get_component_types":
		handler = s.handleGetComponentTypes
	case "list_components":
		handler = s.handleListComponents
	case "query_catalog":
		handler = s.handleQueryCatalog
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- extract_types ---

func TestHandleExtractTypes_File(t *testing.T) {
	s, root := testServer(t)
	result := callTool(t, s, makeRequest("extract_types", map[string]any{"file": "Button.tsx"}))
	assert.False(t, result.IsError)

	var resp extractResponse
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	require.Len(t, resp.Classes, 1)
	assert.Empty(t, resp.Functions)
	assert.Equal(t, []string{filepath.Join(root, "types.ts")}, resp.Dependencies)

	class := resp.Classes[0].(map[string]any)
	assert.Equal(t, map[string]any{"kind": "id", "name": "Button"}, class["name"])
	assert.Len(t, class["members"], 2)
}

func TestHandleExtractTypes_Source(t *testing.T) {
	s, _ := testServer(t)
	src := "/** @ReactComponent */\nconst Tag = (props: { text: string }) => null;\n"
	result := callTool(t, s, makeRequest("extract_types", map[string]any{"source": src}))
	assert.False(t, result.IsError)

	var resp extractResponse
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	assert.Empty(t, resp.Classes)
	require.Len(t, resp.Functions, 1)
	assert.Empty(t, resp.Dependencies)
}

func TestHandleExtractTypes_SourceWithFilename(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("extract_types", map[string]any{"source": buttonModule, "filename": "Inline.tsx"}))
	assert.False(t, result.IsError)

	var resp extractResponse
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	require.Len(t, resp.Classes, 1)
	assert.Equal(t, "object", resp.Classes[0].(map[string]any)["kind"], "relative import resolved against the workspace root")
}

func TestHandleExtractTypes_MissingInput(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("extract_types", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "either file or source is required")
}

func TestHandleExtractTypes_ExtractionError(t *testing.T) {
	s, _ := testServer(t)
	src := `/** @ReactComponent */
class X extends React.Component<{ a: string }> {
  static defaultProps = { b: 1 };
}
`
	result := callTool(t, s, makeRequest("extract_types", map[string]any{"source": src}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), `default value for "b" does not match a declared prop`)
}

func TestHandleExtractTypes_UnsupportedDialect(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("extract_types", map[string]any{"source": "const a = 1;", "dialect": "reason"}))
	assert.True(t, result.IsError)
}

func TestHandleExtractTypes_RefreshesTrackedEntry(t *testing.T) {
	s, root := testServer(t)
	path := filepath.Join(root, "Card.tsx")
	require.NoError(t, os.WriteFile(path, []byte("/** @ReactComponent */\nexport function Card(props: { title: string, footer: string }) { return null; }\n"), 0644))
	s.engine.Loader().Invalidate(path)

	result := callTool(t, s, makeRequest("extract_types", map[string]any{"file": path}))
	require.False(t, result.IsError)

	comp, ok := s.catalog.Component("Card")
	require.True(t, ok)
	assert.Len(t, comp.Types["members"], 2)
}

// --- get_component_types ---

func TestHandleGetComponentTypes(t *testing.T) {
	s, root := testServer(t)
	result := callTool(t, s, makeRequest("get_component_types", map[string]any{
		"names": []any{"Button", "Nope", "Button"},
	}))
	assert.False(t, result.IsError)

	var resp struct {
		Components []catalog.Component `json:"components"`
		NotFound   []string            `json:"not_found"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &resp))
	require.Len(t, resp.Components, 1)
	assert.Equal(t, "Button", resp.Components[0].Name)
	assert.Equal(t, filepath.Join(root, "Button.tsx"), resp.Components[0].File)
	assert.Equal(t, []string{"Nope"}, resp.NotFound)
}

func TestHandleGetComponentTypes_NoNames(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("get_component_types", nil))
	assert.True(t, result.IsError)
}

// --- list_components ---

func TestHandleListComponents(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("list_components", nil))
	assert.False(t, result.IsError)

	var comps []componentSummary
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	require.Len(t, comps, 2)
	assert.Equal(t, "Button", comps[0].Name)
	assert.Equal(t, "class", comps[0].Kind)
	assert.Equal(t, []string{"label", "size"}, comps[0].Props)
	assert.Equal(t, "Card", comps[1].Name)
	assert.Equal(t, []string{"title"}, comps[1].Props)
}

func TestHandleListComponents_ByKeyword(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("list_components", map[string]any{"keyword": "CARD"}))

	var comps []componentSummary
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &comps))
	require.Len(t, comps, 1)
	assert.Equal(t, "Card", comps[0].Name)
}

func TestHandleListComponents_NoCatalog(t *testing.T) {
	s := NewServer(newTestEngine(t), nil, Options{})
	result := callTool(t, s, makeRequest("list_components", nil))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "no catalog loaded")
}

// --- query_catalog ---

func TestHandleQueryCatalog(t *testing.T) {
	s, _ := testServer(t)
	result := callTool(t, s, makeRequest("query_catalog", map[string]any{
		"selector": "$.files[*].components[*].name",
	}))
	assert.False(t, result.IsError)

	var names []string
	require.NoError(t, json.Unmarshal([]byte(resultJSON(t, result)), &names))
	assert.ElementsMatch(t, []string{"Button", "Card"}, names)
}

func TestHandleQueryCatalog_Errors(t *testing.T) {
	s, _ := testServer(t)

	result := callTool(t, s, makeRequest("query_catalog", nil))
	assert.True(t, result.IsError)

	result = callTool(t, s, makeRequest("query_catalog", map[string]any{"selector": "$.files["}))
	assert.True(t, result.IsError)
	assert.Contains(t, resultJSON(t, result), "invalid jsonpath")
}

// --- server ---

func TestRegisteredTools(t *testing.T) {
	var names []string
	for _, tool := range RegisteredTools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"extract_types", "get_component_types", "list_components", "query_catalog"}, names)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	engine := newTestEngine(t)
	s := NewServer(engine, catalog.New(t.TempDir()), Options{CallLog: mcplog.New(&buf)})

	handler := s.loggingMiddleware()(s.handleListComponents)
	result, err := handler(context.Background(), makeRequest("list_components", map[string]any{"keyword": "x"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	entries, err := mcplog.ReadEntries(&buf)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "list_components", entry.Tool)
	assert.Equal(t, "info", entry.Level)
	assert.Equal(t, "x", entry.Params["keyword"])
	assert.Nil(t, entry.Error)
}
