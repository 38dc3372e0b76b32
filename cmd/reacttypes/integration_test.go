package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		// Run non-integration tests normally.
		os.Exit(m.Run())
	}

	// Build the binary once for all integration tests.
	tmp, err := os.MkdirTemp("", "reacttypes-integration-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmp)

	binaryPath = filepath.Join(tmp, "reacttypes")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

// --- helpers ---

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// scanWorkspace runs the built binary's scan over a fresh workspace and
// returns the workspace root and catalog path.
func scanWorkspace(t *testing.T) (string, string) {
	t.Helper()
	root := writeWorkspace(t)
	catPath := filepath.Join(root, "catalog.json")

	cmd := exec.Command(binaryPath, "scan", root, "-o", catPath)
	cmd.Dir = root
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "scan failed: %s", out)
	return root, catPath
}

// startServer launches reacttypes serve as a subprocess and returns an
// initialized MCP client.
func startServer(t *testing.T) (*client.Client, string) {
	t.Helper()
	root, catPath := scanWorkspace(t)

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve", "--catalog", catPath)
	require.NoError(t, err, "failed to start MCP server")

	t.Cleanup(func() {
		c.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{
		Name:    "reacttypes-integration-test",
		Version: "1.0.0",
	}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "reacttypes", result.ServerInfo.Name)

	return c, root
}

func callToolHelper(t *testing.T, c *client.Client, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = toolName
	if args != nil {
		req.Params.Arguments = args
	}

	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", toolName)
	return result
}

func extractJSON(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected content in result")
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

// --- integration tests ---

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c, _ := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	toolNames := make([]string, len(tools.Tools))
	for i, tool := range tools.Tools {
		toolNames[i] = tool.Name
	}

	for _, name := range []string{"extract_types", "get_component_types", "list_components", "query_catalog"} {
		assert.Contains(t, toolNames, name, "missing tool: %s", name)
	}
}

func TestIntegration_ExtractTypes(t *testing.T) {
	skipIfNotIntegration(t)
	c, _ := startServer(t)

	t.Run("relative file", func(t *testing.T) {
		result := callToolHelper(t, c, "extract_types", map[string]any{"file": "src/Button.tsx"})
		assert.False(t, result.IsError)

		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &resp))
		classes, ok := resp["classes"].([]any)
		require.True(t, ok)
		assert.Len(t, classes, 1)
	})

	t.Run("failure is a tool error", func(t *testing.T) {
		result := callToolHelper(t, c, "extract_types", map[string]any{"file": "src/Bad.tsx"})
		assert.True(t, result.IsError)
		assert.Contains(t, extractJSON(t, result), "does not match a declared prop")
	})
}

func TestIntegration_CatalogTools(t *testing.T) {
	skipIfNotIntegration(t)
	c, _ := startServer(t)

	t.Run("list components", func(t *testing.T) {
		result := callToolHelper(t, c, "list_components", nil)
		assert.False(t, result.IsError)

		var comps []map[string]any
		require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &comps))
		require.Len(t, comps, 1)
		assert.Equal(t, "Button", comps[0]["name"])
	})

	t.Run("get component types", func(t *testing.T) {
		result := callToolHelper(t, c, "get_component_types", map[string]any{
			"names": []any{"Button", "Missing"},
		})
		assert.False(t, result.IsError)

		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &resp))
		assert.Len(t, resp["components"], 1)
		assert.Equal(t, []any{"Missing"}, resp["not_found"])
	})

	t.Run("query catalog", func(t *testing.T) {
		result := callToolHelper(t, c, "query_catalog", map[string]any{
			"selector": "$.files[*].error",
		})
		assert.False(t, result.IsError)

		var errs []string
		require.NoError(t, json.Unmarshal([]byte(extractJSON(t, result)), &errs))
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Bad.tsx")
	})
}
