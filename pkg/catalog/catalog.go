package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Version is the catalog file format version.
const Version = "1"

// Catalog is a thread-safe store of per-file extraction results.
type Catalog struct {
	mu      sync.RWMutex
	root    string
	entries map[string]*Entry
}

// document is the on-disk form of a catalog.
type document struct {
	Version string   `json:"version"`
	Root    string   `json:"root"`
	Files   []*Entry `json:"files"`
}

// New creates an empty catalog for files under root.
func New(root string) *Catalog {
	return &Catalog{root: root, entries: make(map[string]*Entry)}
}

// Root returns the directory the catalog was built from.
func (c *Catalog) Root() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.root
}

// Put stores e, replacing any entry for the same path.
func (c *Catalog) Put(e *Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[e.Path] = e
}

// Remove deletes the entry for path. It reports whether one existed.
func (c *Catalog) Remove(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[path]
	delete(c.entries, path)
	return ok
}

// Get returns the entry for path.
func (c *Catalog) Get(path string) (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return e, ok
}

// Entries returns all entries sorted by path.
func (c *Catalog) Entries() []*Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sortedLocked()
}

func (c *Catalog) sortedLocked() []*Entry {
	out := make([]*Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Len returns the number of files in the catalog.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Component looks up a component by name. When several files declare the
// same name, the one with the smallest path wins.
func (c *Catalog) Component(name string) (*Component, bool) {
	for _, e := range c.Entries() {
		for i := range e.Components {
			if e.Components[i].Name == name {
				comp := e.Components[i]
				return &comp, true
			}
		}
	}
	return nil, false
}

// ListComponents returns components whose name or file contains keyword,
// case-insensitively, ordered by name then file. An empty keyword lists all.
func (c *Catalog) ListComponents(keyword string) []Component {
	keyword = strings.ToLower(keyword)
	result := make([]Component, 0)
	for _, e := range c.Entries() {
		for _, comp := range e.Components {
			if keyword != "" &&
				!strings.Contains(strings.ToLower(comp.Name), keyword) &&
				!strings.Contains(strings.ToLower(comp.File), keyword) {
				continue
			}
			result = append(result, comp)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].File < result[j].File
	})
	return result
}

// Dependents returns the paths of entries that read path while resolving
// imports, sorted.
func (c *Catalog) Dependents(path string) []string {
	var out []string
	for _, e := range c.Entries() {
		for _, dep := range e.Dependencies {
			if dep == path {
				out = append(out, e.Path)
				break
			}
		}
	}
	return out
}

// Stats summarizes the catalog.
func (c *Catalog) Stats() Stats {
	var s Stats
	for _, e := range c.Entries() {
		s.Files++
		s.Components += len(e.Components)
		s.Skipped += len(e.Skipped)
		if e.Failed() {
			s.Failed++
		}
	}
	return s
}

// MarshalJSON encodes the catalog with entries sorted by path.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	c.mu.RLock()
	doc := document{Version: Version, Root: c.root, Files: c.sortedLocked()}
	c.mu.RUnlock()
	return json.Marshal(doc)
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (d *document) Validate() []error {
	var errs []error
	if d.Version != Version {
		errs = append(errs, fmt.Errorf("unsupported catalog version %q", d.Version))
	}
	seen := make(map[string]bool, len(d.Files))
	for i, e := range d.Files {
		if e == nil || e.Path == "" {
			errs = append(errs, fmt.Errorf("files[%d]: path is required", i))
			continue
		}
		if seen[e.Path] {
			errs = append(errs, fmt.Errorf("files[%d]: duplicate path %q", i, e.Path))
			continue
		}
		seen[e.Path] = true
		for j, comp := range e.Components {
			if comp.Name == "" {
				errs = append(errs, fmt.Errorf("file %q components[%d]: name is required", e.Path, j))
			}
			if comp.Kind != KindClass && comp.Kind != KindFunction {
				errs = append(errs, fmt.Errorf("file %q component %q: invalid kind %q", e.Path, comp.Name, comp.Kind))
			}
		}
	}
	return errs
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// LoadFromFile loads and validates a catalog from a JSON file.
func LoadFromFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses and validates a catalog from raw JSON bytes.
func LoadFromBytes(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	if errs := doc.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	c := New(doc.Root)
	for _, e := range doc.Files {
		if e.Components == nil {
			e.Components = []Component{}
		}
		c.entries[e.Path] = e
	}
	return c, nil
}
