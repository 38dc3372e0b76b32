package extract

import (
	"fmt"

	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/syntax"
)

// Mode selects the namespace identifiers resolve in.
type Mode int

const (
	TypeMode Mode = iota
	ValueMode
)

func (m Mode) String() string {
	if m == ValueMode {
		return "value"
	}
	return "type"
}

// Context is threaded through every conversion. It is a value: deriving a new
// one never affects the caller's copy.
type Context struct {
	Mode Mode

	// Replacement is the local name requested from a module when a lookup
	// lands on a statement that binds several names.
	Replacement string

	session *loader.Session

	// declarations currently being converted
	expanding *link[declKey]

	// (module, name) export searches in progress
	exporting *link[exportKey]
}

type declKey struct {
	file *syntax.File
	node uintptr
}

type exportKey struct {
	path string
	name string
}

func (k exportKey) String() string { return fmt.Sprintf("%s#%s", k.path, k.name) }

// link is an immutable singly linked list; pushing shares the tail.
type link[T comparable] struct {
	value T
	next  *link[T]
}

func (l *link[T]) has(v T) bool {
	for cur := l; cur != nil; cur = cur.next {
		if cur.value == v {
			return true
		}
	}
	return false
}

func (l *link[T]) push(v T) *link[T] { return &link[T]{value: v, next: l} }

// values returns the list contents, oldest first.
func (l *link[T]) values() []T {
	var out []T
	for cur := l; cur != nil; cur = cur.next {
		out = append([]T{cur.value}, out...)
	}
	return out
}

func newContext(session *loader.Session) Context {
	return Context{Mode: TypeMode, session: session}
}

// Session returns the module session of the extraction.
func (c Context) Session() *loader.Session { return c.session }

func (c Context) withMode(m Mode) Context {
	c.Mode = m
	return c
}

func (c Context) withReplacement(name string) Context {
	c.Replacement = name
	return c
}

// enter marks decl as being converted. ok is false when decl is already on
// the expansion chain.
func (c Context) enter(decl *syntax.Node) (Context, bool) {
	key := declKey{file: decl.File(), node: decl.ID()}
	if c.expanding.has(key) {
		return c, false
	}
	c.expanding = c.expanding.push(key)
	return c, true
}

func (c Context) enterExport(path, name string) (Context, error) {
	key := exportKey{path: path, name: name}
	if c.exporting.has(key) {
		var chain []string
		for _, k := range c.exporting.values() {
			chain = append(chain, k.String())
		}
		chain = append(chain, key.String())
		return c, &CyclicExportError{Name: name, Chain: chain}
	}
	c.exporting = c.exporting.push(key)
	return c, nil
}

// atDeclaration clears the export chain once a search reaches a declaration;
// recursion from there on is caught by the expansion chain.
func (c Context) atDeclaration() Context {
	c.exporting = nil
	return c
}
