package parser

import (
	"path/filepath"
	"strings"
)

// Grammar identifies a tree-sitter grammar.
type Grammar int

const (
	// GrammarUnknown means no grammar handles the file.
	GrammarUnknown Grammar = iota
	// GrammarTypeScript parses .ts files (no JSX).
	GrammarTypeScript
	// GrammarTSX parses TypeScript with JSX, and Flow sources.
	GrammarTSX
	// GrammarJavaScript parses plain JavaScript with JSX.
	GrammarJavaScript
)

// String returns the grammar name.
func (g Grammar) String() string {
	switch g {
	case GrammarTypeScript:
		return "typescript"
	case GrammarTSX:
		return "tsx"
	case GrammarJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// sourceExtensions are the extensions the loader treats as parseable source.
var sourceExtensions = map[string]bool{
	".ts": true, ".mts": true, ".cts": true, ".tsx": true,
	".js": true, ".jsx": true, ".mjs": true, ".cjs": true,
}

// IsSourceFile reports whether path has a JavaScript or TypeScript source
// extension. Anything else (JSON, CSS, images) is a data file.
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// GrammarFor picks the grammar used to parse path under dialect d.
//
// Every Flow file is parsed with TSX. The annotation syntax is close enough
// apart from object type spreads (`{ ...A, b: B }`), which TSX rejects and
// syntax.Parse rewrites before conversion. For the TypeScript dialect the extension
// decides; a source without a filename is parsed as TSX, the most permissive
// choice.
func GrammarFor(d Dialect, path string) Grammar {
	if d == DialectFlow {
		return GrammarTSX
	}
	if path == "" {
		return GrammarTSX
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".ts", ".mts", ".cts":
		return GrammarTypeScript
	case ".tsx":
		return GrammarTSX
	case ".js", ".jsx", ".mjs", ".cjs":
		return GrammarJavaScript
	default:
		return GrammarUnknown
	}
}
