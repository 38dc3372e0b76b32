package mcp

import "github.com/mark3labs/mcp-go/mcp"

func extractTypesTool() mcp.Tool {
	return mcp.NewTool("extract_types",
		mcp.WithDescription("Extract the prop types of annotated React components from a file or inline source. Returns {classes, functions, skipped, dependencies}."),
		mcp.WithString("file", mcp.Description("Path of the component module, absolute or relative to the workspace root")),
		mcp.WithString("source", mcp.Description("Inline module source, used when no file is given")),
		mcp.WithString("filename", mcp.Description("Path anchoring relative imports of inline source")),
		mcp.WithString("dialect", mcp.Description("Type annotation dialect"), mcp.Enum("typescript", "flow")),
	)
}

func getComponentTypesTool() mcp.Tool {
	return mcp.NewTool("get_component_types",
		mcp.WithDescription("Return the extracted types of catalog components by name (batched)."),
		mcp.WithArray("names", mcp.Required(), mcp.Description("Component names"), mcp.WithStringItems()),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool("list_components",
		mcp.WithDescription("List catalog components with their kind, file and prop names, optionally filtered by keyword."),
		mcp.WithString("keyword", mcp.Description("Case-insensitive filter on component name and file path")),
	)
}

func queryCatalogTool() mcp.Tool {
	return mcp.NewTool("query_catalog",
		mcp.WithDescription("Evaluate a JSONPath selector against the catalog, e.g. $.files[*].components[?(@.kind == 'class')].name"),
		mcp.WithString("selector", mcp.Required(), mcp.Description("JSONPath selector")),
	)
}

// RegisteredTools returns the MCP tool definitions.
func RegisteredTools() []mcp.Tool {
	return []mcp.Tool{
		extractTypesTool(),
		getComponentTypesTool(),
		listComponentsTool(),
		queryCatalogTool(),
	}
}
