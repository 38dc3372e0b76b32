package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
)

// extractResponse is the extract_types payload.
type extractResponse struct {
	Classes      []any                `json:"classes"`
	Functions    []any                `json:"functions"`
	Skipped      []extract.Diagnostic `json:"skipped"`
	Dependencies []string             `json:"dependencies"`
}

// componentSummary is one list_components row.
type componentSummary struct {
	Name  string   `json:"name"`
	Kind  string   `json:"kind"`
	File  string   `json:"file"`
	Props []string `json:"props"`
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) resolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || s.opts.Root == "" {
		return path
	}
	return filepath.Join(s.opts.Root, path)
}

// handleExtractTypes extracts a file or inline source. Extraction failures
// are tool errors naming the file, not protocol errors.
func (s *Server) handleExtractTypes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	file := req.GetString("file", "")
	source := req.GetString("source", "")
	opts := extract.Options{Dialect: req.GetString("dialect", s.opts.Dialect)}

	var (
		res *extract.Result
		err error
	)
	switch {
	case file != "":
		path := s.resolvePath(file)
		res, err = s.engine.ExtractFile(path, opts)
		if s.catalog != nil {
			if _, tracked := s.catalog.Get(path); tracked {
				s.catalog.Put(catalog.NewEntry(path, res, err))
			}
		}
	case source != "":
		opts.Filename = s.resolvePath(req.GetString("filename", ""))
		res, err = s.engine.Extract([]byte(source), opts)
	default:
		return mcp.NewToolResultError("either file or source is required"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	data := res.Data()
	resp := extractResponse{
		Classes:      data["classes"].([]any),
		Functions:    data["functions"].([]any),
		Skipped:      res.Skipped,
		Dependencies: res.Dependencies,
	}
	if resp.Skipped == nil {
		resp.Skipped = []extract.Diagnostic{}
	}
	if resp.Dependencies == nil {
		resp.Dependencies = []string{}
	}
	return jsonResult(resp)
}

func (s *Server) requireCatalog() *mcp.CallToolResult {
	if s.catalog == nil {
		return mcp.NewToolResultError("no catalog loaded; start the server with --catalog or run scan first")
	}
	return nil
}

// handleGetComponentTypes returns catalog components by name. Unknown names
// are reported under not_found; duplicates are returned once.
func (s *Server) handleGetComponentTypes(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if errResult := s.requireCatalog(); errResult != nil {
		return errResult, nil
	}
	names := req.GetStringSlice("names", nil)
	if len(names) == 0 {
		return mcp.NewToolResultError("names is required"), nil
	}

	found := make([]catalog.Component, 0, len(names))
	notFound := make([]string, 0)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if comp, ok := s.catalog.Component(name); ok {
			found = append(found, *comp)
		} else {
			notFound = append(notFound, name)
		}
	}
	return jsonResult(map[string]any{"components": found, "not_found": notFound})
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if errResult := s.requireCatalog(); errResult != nil {
		return errResult, nil
	}
	comps := s.catalog.ListComponents(req.GetString("keyword", ""))
	out := make([]componentSummary, len(comps))
	for i, c := range comps {
		out[i] = componentSummary{Name: c.Name, Kind: c.Kind, File: c.File, Props: propNames(c.Types)}
	}
	return jsonResult(out)
}

func (s *Server) handleQueryCatalog(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if errResult := s.requireCatalog(); errResult != nil {
		return errResult, nil
	}
	selector, err := req.RequireString("selector")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches, err := s.catalog.Query(selector)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if matches == nil {
		matches = []any{}
	}
	return jsonResult(matches)
}

// propNames lists the keys of an object record's top-level properties.
// Other shapes (intersections, opaque imports) have no flat key list.
func propNames(types map[string]any) []string {
	names := []string{}
	members, _ := types["members"].([]any)
	for _, m := range members {
		prop, ok := m.(map[string]any)
		if !ok || prop["kind"] != "property" {
			continue
		}
		key, _ := prop["key"].(map[string]any)
		switch {
		case key["name"] != nil:
			names = append(names, fmt.Sprint(key["name"]))
		case key["value"] != nil:
			names = append(names, fmt.Sprint(key["value"]))
		}
	}
	return names
}
