package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery(t *testing.T) {
	c := sampleCatalog()

	tests := []struct {
		name     string
		selector string
		want     []any
	}{
		{"all names", "$.files[*].components[*].name", []any{"Button", "IconButton", "Card"}},
		{"classes", "$.files[*].components[?(@.kind == 'class')].name", []any{"Button"}},
		{"failed files", "$.files[?(@.error == 'extract /src/Broken.tsx: unresolved binding')].path", []any{"/src/Broken.tsx"}},
		{"root", "$.root", []any{"/src"}},
		{"no match", "$.files[*].nothing", []any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Query(tt.selector)
			require.NoError(t, err)
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQuery_InvalidSelector(t *testing.T) {
	_, err := sampleCatalog().Query("$.files[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jsonpath")
}

func TestSelect_PlainData(t *testing.T) {
	data := map[string]any{
		"classes": []any{
			map[string]any{"name": map[string]any{"kind": "id", "name": "Button"}},
		},
		"functions": []any{},
	}
	got, err := Select(data, "$.classes[0].name.name")
	require.NoError(t, err)
	assert.Equal(t, []any{"Button"}, got)
}
