package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// Select evaluates a JSONPath selector against plain JSON data (maps,
// slices and scalars) and returns every match in document order.
func Select(data any, selector string) ([]any, error) {
	x, err := jp.ParseString(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", selector, err)
	}
	return x.Get(data), nil
}

// Data returns the catalog in its serialized shape:
// {"version", "root", "files": [{"path", "components", ...}]}.
func (c *Catalog) Data() (any, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return data, nil
}

// Query evaluates a JSONPath selector against a snapshot of the catalog,
// for example `$.files[*].components[?(@.kind == 'class')].name`.
func (c *Catalog) Query(selector string) ([]any, error) {
	data, err := c.Data()
	if err != nil {
		return nil, err
	}
	return Select(data, selector)
}
