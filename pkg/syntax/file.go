// Package syntax wraps tree-sitter trees with what the extraction engine needs
// from a parsed module: field access, documentation comments, lexical scopes
// with separate value and type namespaces, and export lookup.
package syntax

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/reacttypes/pkg/parser"
)

// File is a parsed module. It owns its tree and must be closed.
type File struct {
	// Path is the absolute path of the module, or empty for in-memory sources.
	Path    string
	Source  []byte
	Dialect parser.Dialect

	tree *ts.Tree

	// byte offsets of members rewritten from spreads
	spreads map[uint]bool

	scopesOnce sync.Once
	scopes     *scopeTable
}

// Parse parses source into a File.
func Parse(pm *parser.ParserManager, source []byte, dialect parser.Dialect, path string) (*File, error) {
	tree, err := pm.ParseFile(source, dialect, path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", displayPath(path), err)
	}
	f := &File{Path: path, Source: source, Dialect: dialect, tree: tree}
	if dialect == parser.DialectFlow && tree.RootNode().HasError() {
		if err := f.recoverSpreads(pm); err != nil {
			f.Close()
			return nil, fmt.Errorf("parse %s: %w", displayPath(path), err)
		}
	}
	return f, nil
}

// Root returns the program node.
func (f *File) Root() *Node {
	return f.wrap(f.tree.RootNode())
}

// Dir returns the directory imports are resolved against, or "" when the file
// has no path.
func (f *File) Dir() string {
	if f.Path == "" {
		return ""
	}
	return filepath.Dir(f.Path)
}

// Close releases the syntax tree.
func (f *File) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

func (f *File) wrap(raw *ts.Node) *Node {
	if raw == nil {
		return nil
	}
	return &Node{raw: raw, file: f}
}

func displayPath(path string) string {
	if path == "" {
		return "<source>"
	}
	return path
}

// Node is a syntax node bound to the file it belongs to.
type Node struct {
	raw  *ts.Node
	file *File
}

func (n *Node) Kind() string { return n.raw.Kind() }

func (n *Node) File() *File { return n.file }

// Text returns the source text the node spans.
func (n *Node) Text() string { return n.raw.Utf8Text(n.file.Source) }

// Line returns the 1-based line the node starts on.
func (n *Node) Line() int { return int(n.raw.StartPosition().Row) + 1 }

// Position renders "path:line" for diagnostics.
func (n *Node) Position() string {
	return fmt.Sprintf("%s:%d", displayPath(n.file.Path), n.Line())
}

// IsNamed reports whether the node is a named grammar node rather than an
// anonymous token.
func (n *Node) IsNamed() bool { return n.raw.IsNamed() }

func (n *Node) IsComment() bool { return n.raw.Kind() == "comment" }

// HasError reports whether the node or any descendant is a syntax error.
func (n *Node) HasError() bool { return n.raw.HasError() }

// Field returns the child stored under a grammar field name, or nil.
func (n *Node) Field(name string) *Node {
	return n.file.wrap(n.raw.ChildByFieldName(name))
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.file.wrap(n.raw.Parent())
}

// Children returns every child, including anonymous tokens and comments.
func (n *Node) Children() []*Node {
	count := n.raw.ChildCount()
	out := make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, n.file.wrap(n.raw.Child(i)))
	}
	return out
}

// Named returns the named children in source order, without comments.
func (n *Node) Named() []*Node {
	count := n.raw.NamedChildCount()
	out := make([]*Node, 0, count)
	for i := uint(0); i < count; i++ {
		child := n.raw.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, n.file.wrap(child))
	}
	return out
}

// FirstNamed returns the first named non-comment child, or nil.
func (n *Node) FirstNamed() *Node {
	named := n.Named()
	if len(named) == 0 {
		return nil
	}
	return named[0]
}

// ChildOfKind returns the first named child with one of the given kinds.
func (n *Node) ChildOfKind(kinds ...string) *Node {
	for _, child := range n.Named() {
		for _, k := range kinds {
			if child.Kind() == k {
				return child
			}
		}
	}
	return nil
}

// HasToken reports whether an anonymous child token such as "?", "async" or
// "default" is present.
func (n *Node) HasToken(token string) bool {
	count := n.raw.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.raw.Child(i)
		if child != nil && !child.IsNamed() && child.Kind() == token {
			return true
		}
	}
	return false
}

// Same reports whether n and o are the same node of the same file.
func (n *Node) Same(o *Node) bool {
	return o != nil && n.file == o.file && n.raw.Id() == o.raw.Id()
}

// Contains reports whether o lies within n (or is n).
func (n *Node) Contains(o *Node) bool {
	return o != nil && n.file == o.file &&
		n.raw.StartByte() <= o.raw.StartByte() && o.raw.EndByte() <= n.raw.EndByte()
}

// ID identifies the node within its file.
func (n *Node) ID() uintptr { return n.raw.Id() }

// StringValue returns the decoded contents of a string literal node. For any
// other node it returns the node text.
func (n *Node) StringValue() string {
	text := n.Text()
	if n.Kind() != "string" || len(text) < 2 {
		return text
	}
	body := text[1 : len(text)-1]
	quoted := text
	if text[0] == '\'' {
		body = strings.ReplaceAll(body, `\'`, `'`)
		quoted = `"` + strings.ReplaceAll(body, `"`, `\"`) + `"`
	}
	if v, err := strconv.Unquote(quoted); err == nil {
		return v
	}
	return body
}
