package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/reacttypes/pkg/parser"
)

// ErrModuleNotFound is returned when a specifier does not resolve to a file.
var ErrModuleNotFound = errors.New("module not found")

// Resolver is a custom resolution hook, consulted before the built-in
// algorithm. It reports false to decline a specifier.
type Resolver interface {
	Resolve(fromDir, specifier string) (string, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(fromDir, specifier string) (string, bool)

func (f ResolverFunc) Resolve(fromDir, specifier string) (string, bool) {
	return f(fromDir, specifier)
}

// Options configures module resolution.
type Options struct {
	// Extensions are tried in order after the exact path.
	Extensions []string

	// PackageFields are the package.json fields naming a package entry point.
	PackageFields []string

	// Aliases rewrite specifier prefixes to directories, e.g. "@/" -> "/repo/src/".
	Aliases map[string]string

	Resolvers []Resolver
}

// DefaultOptions returns the resolution defaults for a dialect.
func DefaultOptions(d parser.Dialect) Options {
	fields := []string{"main"}
	if d == parser.DialectTypeScript {
		fields = []string{"types", "typings", "main"}
	}
	return Options{
		Extensions:    d.DefaultExtensions(),
		PackageFields: fields,
	}
}

// fingerprint identifies the parts of Options that affect cached results.
// Custom resolvers run before the cache and are not part of it.
func (o Options) fingerprint() string {
	var b strings.Builder
	b.WriteString(strings.Join(o.Extensions, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(o.PackageFields, ","))
	prefixes := make([]string, 0, len(o.Aliases))
	for p := range o.Aliases {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		b.WriteByte('|')
		b.WriteString(p)
		b.WriteByte('=')
		b.WriteString(o.Aliases[p])
	}
	return b.String()
}

// resolvePath runs the built-in algorithm: aliases, then relative or absolute
// paths, then node_modules lookup for bare specifiers.
func resolvePath(fromDir, specifier string, opts Options) (string, error) {
	spec := applyAlias(specifier, opts.Aliases)

	if isPathSpecifier(spec) {
		base := spec
		if !filepath.IsAbs(base) {
			base = filepath.Join(fromDir, spec)
		}
		if p, ok := tryPath(base, opts); ok {
			return p, nil
		}
		return "", fmt.Errorf("%w: %q from %s", ErrModuleNotFound, specifier, fromDir)
	}

	for dir := fromDir; ; {
		if p, ok := tryPath(filepath.Join(dir, "node_modules", spec), opts); ok {
			return p, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("%w: %q from %s", ErrModuleNotFound, specifier, fromDir)
}

func isPathSpecifier(spec string) bool {
	return spec == "." || spec == ".." ||
		strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		filepath.IsAbs(spec)
}

// applyAlias rewrites the longest matching alias prefix.
func applyAlias(spec string, aliases map[string]string) string {
	best := ""
	for prefix := range aliases {
		if strings.HasPrefix(spec, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return spec
	}
	return filepath.Join(aliases[best], strings.TrimPrefix(spec, best))
}

func tryPath(base string, opts Options) (string, bool) {
	if p, ok := tryFile(base, opts.Extensions); ok {
		return p, true
	}
	return tryDir(base, opts)
}

func tryFile(base string, extensions []string) (string, bool) {
	if isFile(base) {
		return base, true
	}
	for _, ext := range extensions {
		if isFile(base + ext) {
			return base + ext, true
		}
	}
	return "", false
}

func tryDir(dir string, opts Options) (string, bool) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}

	if entry := packageEntry(dir, opts.PackageFields); entry != "" {
		target := filepath.Join(dir, entry)
		if p, ok := tryFile(target, opts.Extensions); ok {
			return p, true
		}
		if p, ok := tryFile(filepath.Join(target, "index"), opts.Extensions); ok {
			return p, true
		}
	}

	return tryFile(filepath.Join(dir, "index"), opts.Extensions)
}

// packageEntry reads the first non-empty entry-point field of dir/package.json.
func packageEntry(dir string, fields []string) string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return ""
	}
	var pkg map[string]any
	if err := json.Unmarshal(data, &pkg); err != nil {
		return ""
	}
	for _, field := range fields {
		if v, ok := pkg[field].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// IsDataFile reports whether a resolved module is not parseable source.
func IsDataFile(path string) bool {
	return !parser.IsSourceFile(path)
}
