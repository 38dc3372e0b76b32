package parser

import (
	"errors"
	"fmt"
)

// Dialect is the type-annotation syntax of the input sources.
type Dialect string

const (
	DialectFlow       Dialect = "flow"
	DialectTypeScript Dialect = "typescript"
)

// ErrUnsupportedDialect is returned for dialect names other than "flow" and
// "typescript".
var ErrUnsupportedDialect = errors.New("unsupported dialect")

// ParseDialect validates a dialect name.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case DialectFlow, DialectTypeScript:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("%w: %q (want %q or %q)", ErrUnsupportedDialect, s, DialectFlow, DialectTypeScript)
}

// DefaultExtensions is the module resolution search list for the dialect.
func (d Dialect) DefaultExtensions() []string {
	if d == DialectTypeScript {
		return []string{".js", ".json", ".tsx", ".ts"}
	}
	return []string{".js", ".json"}
}
