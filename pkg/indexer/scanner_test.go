package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/reacttypes/pkg/extract"
	"github.com/gnana997/reacttypes/pkg/loader"
	"github.com/gnana997/reacttypes/pkg/parser"
	"github.com/gnana997/reacttypes/pkg/util"
)

func newTestEngine(t *testing.T) *extract.Engine {
	t.Helper()
	pm := parser.NewParserManager(util.NopLogger(), 4)
	t.Cleanup(func() { pm.Close() })
	l, err := loader.New(loader.Config{Parser: pm, Logger: util.NopLogger()})
	require.NoError(t, err)
	e, err := extract.NewEngine(extract.Config{Loader: l, Logger: util.NopLogger()})
	require.NoError(t, err)
	return e
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

var workspace = map[string]string{
	"src/types.ts":   "export type Props = { label: string };\n",
	"src/Button.tsx": `import { Props } from './types';

/** @ReactComponent */
export class Button extends React.Component<Props> {}
`,
	"src/Card.tsx": `/** @ReactComponent */
export function Card(props: { title: string }) { return null; }
`,
	"src/Bad.tsx": `/** @ReactComponent */
export class Bad extends React.Component<{ a: string }> {
  static defaultProps = { b: 1 };
}
`,
	"node_modules/lib/index.js": "module.exports = {};\n",
	"src/global.d.ts":           "declare const x: number;\n",
	"package.json":              "{}\n",
}

func TestDiscoverFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, workspace)

	files, err := DiscoverFiles(root, DefaultScanOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "src/Bad.tsx"),
		filepath.Join(root, "src/Button.tsx"),
		filepath.Join(root, "src/Card.tsx"),
		filepath.Join(root, "src/types.ts"),
	}, files)
}

func TestDiscoverFiles_NoIncludeMeansSources(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, workspace)

	files, err := DiscoverFiles(root, ScanOptions{Exclude: []string{"src/**"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "node_modules/lib/index.js")}, files)
}

func TestDiscoverFiles_InvalidPattern(t *testing.T) {
	_, err := DiscoverFiles(t.TempDir(), ScanOptions{Include: []string{"src/[a"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid include pattern")
}

func TestDiscoverFiles_MissingRoot(t *testing.T) {
	_, err := DiscoverFiles(filepath.Join(t.TempDir(), "nope"), DefaultScanOptions())
	assert.Error(t, err)
}

func TestMatches(t *testing.T) {
	root := "/work"
	opts := DefaultScanOptions()

	tests := []struct {
		path string
		want bool
	}{
		{"/work/src/Button.tsx", true},
		{"/work/Button.js", true},
		{"/work/node_modules/lib/index.js", false},
		{"/work/packages/a/node_modules/lib/index.js", false},
		{"/work/dist/Button.js", false},
		{"/work/src/global.d.ts", false},
		{"/work/src/style.css", false},
		{"/elsewhere/Button.tsx", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Matches(root, tt.path, opts))
		})
	}
}

func TestScanWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, workspace)

	ix, err := New(root, Config{Engine: newTestEngine(t), Extract: extract.Options{Dialect: "typescript"}})
	require.NoError(t, err)

	var calls, last int
	stats, err := ix.Scan(context.Background(), func(done, total int, _ string) {
		calls++
		last = done
		assert.Equal(t, 4, total)
	})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.FilesDiscovered)
	assert.Equal(t, 3, stats.FilesExtracted)
	assert.Equal(t, 1, stats.FilesFailed)
	assert.Equal(t, 2, stats.Components)
	assert.False(t, stats.Cancelled)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, last)

	require.Len(t, stats.Errors, 1)
	assert.Equal(t, filepath.Join(root, "src/Bad.tsx"), stats.Errors[0].FilePath)
	assert.ErrorIs(t, stats.Errors[0].Error, extract.ErrMissingDefaultTarget)

	cat := ix.Catalog()
	assert.Equal(t, 4, cat.Len())
	bad, ok := cat.Get(filepath.Join(root, "src/Bad.tsx"))
	require.True(t, ok)
	assert.True(t, bad.Failed())

	button, ok := cat.Component("Button")
	require.True(t, ok)
	assert.Equal(t, "class", button.Kind)
	assert.Equal(t, []string{filepath.Join(root, "src/Button.tsx")}, cat.Dependents(filepath.Join(root, "src/types.ts")))
}

func TestScanWorkspace_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, workspace)

	ix, err := New(root, Config{Engine: newTestEngine(t), Extract: extract.Options{Dialect: "typescript"}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := ix.Scan(ctx, nil)
	require.NoError(t, err)
	assert.True(t, stats.Cancelled)
	assert.Zero(t, stats.FilesExtracted+stats.FilesFailed)
}

func TestScanWorkspace_Empty(t *testing.T) {
	ix, err := New(t.TempDir(), Config{Engine: newTestEngine(t), Extract: extract.Options{Dialect: "typescript"}})
	require.NoError(t, err)

	stats, err := ix.Scan(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, stats.FilesDiscovered)
	assert.Zero(t, ix.Catalog().Len())
}

func TestWorkerPool_MissingFiles(t *testing.T) {
	pool := NewWorkerPool(2, newTestEngine(t), extract.Options{Dialect: "typescript"}, util.NopLogger())
	pool.Start()
	defer pool.Stop()

	files := []string{"/no/such/a.ts", "/no/such/b.ts", "/no/such/c.ts"}
	go func() {
		for i, f := range files {
			assert.NoError(t, pool.Submit(FileJob{FilePath: f, JobID: i}))
		}
		pool.FinishSubmitting()
	}()

	seen := make(map[int]string)
	for range files {
		o := <-pool.Outcomes()
		require.True(t, o.Failed(), "unexpected result for %s", o.FilePath)
		assert.Nil(t, o.Result)
		assert.Contains(t, o.Err.Error(), "read ")
		seen[o.JobID] = o.FilePath
	}
	pool.Wait()

	assert.Equal(t, map[int]string{0: files[0], 1: files[1], 2: files[2]}, seen)
	stats := pool.Stats()
	assert.Equal(t, int64(3), stats.JobsSubmitted)
	assert.Equal(t, int64(3), stats.JobsFailed)
	assert.Zero(t, stats.JobsSucceeded)
	assert.Equal(t, 2, stats.NumWorkers)
}

func TestWorkerPool_StopDiscardsUnread(t *testing.T) {
	pool := NewWorkerPool(1, newTestEngine(t), extract.Options{Dialect: "typescript"}, util.NopLogger())
	pool.Start()
	for i := 0; i < 2; i++ {
		require.NoError(t, pool.Submit(FileJob{FilePath: "/no/such/file.ts", JobID: i}))
	}
	pool.Stop()

	for range pool.Outcomes() {
	}
	assert.Equal(t, int64(2), pool.Stats().JobsFailed)
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool := NewWorkerPool(1, newTestEngine(t), extract.Options{Dialect: "typescript"}, util.NopLogger())
	pool.Start()
	pool.Stop()
	pool.Stop()
	assert.ErrorIs(t, pool.Submit(FileJob{FilePath: "x.ts"}), ErrPoolStopped)
}
