package catalog

import "github.com/gnana997/reacttypes/pkg/extract"

// Component kinds.
const (
	KindClass    = "class"
	KindFunction = "function"
)

// Component is one extracted component record.
type Component struct {
	Name string `json:"name"`
	Kind string `json:"kind"` // "class" or "function"
	File string `json:"file"`

	// Types is the record in its serialized form, the same value the
	// transform assigns to Name.__types.
	Types map[string]any `json:"types"`
}

// Entry is the extraction outcome for one source file.
type Entry struct {
	Path         string               `json:"path"`
	Components   []Component          `json:"components"`
	Skipped      []extract.Diagnostic `json:"skipped,omitempty"`
	Dependencies []string             `json:"dependencies,omitempty"`

	// Error is set when extraction failed; Components is then empty.
	Error string `json:"error,omitempty"`
}

// Failed reports whether extraction of the file failed.
func (e *Entry) Failed() bool { return e.Error != "" }

// NewEntry builds the entry for path from an extraction outcome.
func NewEntry(path string, res *extract.Result, err error) *Entry {
	e := &Entry{Path: path, Components: []Component{}}
	if err != nil {
		e.Error = err.Error()
		return e
	}
	for _, rec := range res.Classes {
		e.Components = append(e.Components, newComponent(path, KindClass, rec))
	}
	for _, rec := range res.Functions {
		e.Components = append(e.Components, newComponent(path, KindFunction, rec))
	}
	e.Skipped = res.Skipped
	e.Dependencies = res.Dependencies
	return e
}

func newComponent(path, kind string, rec *extract.Record) Component {
	return Component{Name: rec.Name.Name, Kind: kind, File: path, Types: rec.Data()}
}

// Stats summarizes a catalog.
type Stats struct {
	Files      int `json:"files"`
	Components int `json:"components"`
	Failed     int `json:"failed"`
	Skipped    int `json:"skipped"`
}
