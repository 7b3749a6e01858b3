package workspace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/extprofiles/internal/config"
	"github.com/danieljhkim/extprofiles/internal/fsops"
	"github.com/danieljhkim/extprofiles/internal/uri"
)

// fixture lays out an editor data directory and a projects directory
// under one temp dir.
type fixture struct {
	t        *testing.T
	env      config.Environment
	norm     uri.Normalizer
	projects string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	tmp := t.TempDir()
	env := config.NewEnvironment(config.Options{
		OS:          runtime.GOOS,
		UserDataDir: filepath.Join(tmp, "data"),
		Getenv:      func(string) string { return tmp },
	})
	projects := filepath.Join(tmp, "proj")
	require.NoError(t, os.MkdirAll(projects, 0755))

	return &fixture{t: t, env: env, norm: uri.NewNormalizer(runtime.GOOS), projects: projects}
}

func (f *fixture) resolver() *Resolver {
	return NewResolver(f.env, Options{Concurrency: 3})
}

func (f *fixture) folder(name string) string {
	p := filepath.Join(f.projects, name)
	require.NoError(f.t, os.MkdirAll(p, 0755))
	return p
}

func (f *fixture) fileURI(p string) string {
	u, err := f.norm.FileURI(p)
	require.NoError(f.t, err)
	return u
}

func (f *fixture) write(path string, v any) string {
	f.t.Helper()
	var data []byte
	switch v := v.(type) {
	case string:
		data = []byte(v)
	default:
		var err error
		data, err = json.Marshal(v)
		require.NoError(f.t, err)
	}
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, data, 0644))
	return path
}

func (f *fixture) bucket(id string, v any) string {
	return f.write(filepath.Join(f.env.WorkspaceStorage, id, DefinitionFileName), v)
}

func requireNotFound(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	var resErr *ResolutionError
	assert.True(t, errors.As(err, &resErr))
}

func TestResolve_SingleFolder(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("1111", map[string]string{"folder": f.fileURI(f.folder("other"))})
	f.bucket("2222", map[string]string{"folder": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a})
	require.NoError(t, err)
	assert.Equal(t, "2222", m.BucketID)
	assert.Equal(t, KindSingleFolder, m.Kind)
	assert.Equal(t, filepath.Join(f.env.WorkspaceStorage, "2222", DefinitionFileName), m.DefinitionPath)
}

func TestResolve_SingleFolderMatchesWorkspaceField(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("3333", map[string]string{"workspace": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a})
	require.NoError(t, err)
	assert.Equal(t, "3333", m.BucketID)
}

func TestResolve_SingleFolderTrailingSlash(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("4444", map[string]string{"folder": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a + string(filepath.Separator)})
	require.NoError(t, err)
	assert.Equal(t, "4444", m.BucketID)
}

func TestResolve_SingleFolderNotFound(t *testing.T) {
	f := newFixture(t)
	f.bucket("1111", map[string]string{"folder": f.fileURI(f.folder("b"))})

	_, err := f.resolver().Resolve(context.Background(), []string{f.folder("a")})
	requireNotFound(t, err)
}

func TestResolve_SingleFolderDoesNotMatchSuperset(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	f.write(filepath.Join(f.env.Workspaces, "9999", DefinitionFileName), map[string]any{
		"folders": []map[string]string{{"path": a}, {"path": b}},
	})

	_, err := f.resolver().Resolve(context.Background(), []string{a})
	requireNotFound(t, err)
}

func TestResolve_DeterministicTieBreak(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	for _, id := range []string{"cccc", "aaaa", "bbbb"} {
		f.bucket(id, map[string]string{"folder": f.fileURI(a)})
	}

	for i := 0; i < 5; i++ {
		m, err := f.resolver().Resolve(context.Background(), []string{a})
		require.NoError(t, err)
		assert.Equal(t, "aaaa", m.BucketID)
	}
}

func TestResolve_SkipsCorruptCandidates(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("0000", `{"folder": `)
	f.bucket("0001", `not json at all`)
	f.bucket("0002", `{"unrelated": true}`)
	f.bucket("0003", map[string]string{"folder": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a})
	require.NoError(t, err)
	assert.Equal(t, "0003", m.BucketID)
}

func TestResolve_MultiRootThroughWorkspaceReference(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	ws := f.write(filepath.Join(f.projects, "ws.code-workspace"), `{
		// relative to this file
		"folders": [{"path": "./a"}, {"path": "./b"},],
	}`)
	f.bucket("5555", map[string]string{"workspace": f.fileURI(ws)})

	m, err := f.resolver().Resolve(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "5555", m.BucketID)
	assert.Equal(t, KindMultiRoot, m.Kind)

	m, err = f.resolver().Resolve(context.Background(), []string{b, a})
	require.NoError(t, err)
	assert.Equal(t, "5555", m.BucketID, "folder order must not matter")
}

func TestResolve_MultiRootRejectsSubsetAndSuperset(t *testing.T) {
	f := newFixture(t)
	a, b, c := f.folder("a"), f.folder("b"), f.folder("c")

	subset := f.write(filepath.Join(f.projects, "subset.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": "a"}, {"path": "b"}},
	})
	superset := f.write(filepath.Join(f.projects, "superset.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": "a"}, {"path": "b"}, {"path": "c"}, {"path": "d"}},
	})
	duplicate := f.write(filepath.Join(f.projects, "dup.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": "a"}, {"path": "a"}, {"path": "b"}},
	})
	f.bucket("sub", map[string]string{"workspace": f.fileURI(subset)})
	f.bucket("super", map[string]string{"workspace": f.fileURI(superset)})
	f.bucket("dup", map[string]string{"workspace": f.fileURI(duplicate)})

	_, err := f.resolver().Resolve(context.Background(), []string{a, b, c})
	requireNotFound(t, err)
}

func TestResolve_MultiRootAbsoluteAndURIEntries(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	ws := f.write(filepath.Join(t.TempDir(), "elsewhere.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": a}, {"uri": f.fileURI(b)}},
	})
	f.bucket("6666", map[string]string{"workspace": f.fileURI(ws)})

	m, err := f.resolver().Resolve(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "6666", m.BucketID)
}

func TestResolve_MultiRootIgnoresRemoteEntries(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	ws := f.write(filepath.Join(f.projects, "remote.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": "a"}, {"uri": "vscode-remote://ssh-remote+host" + filepath.ToSlash(b)}},
	})
	f.bucket("7777", map[string]string{"workspace": f.fileURI(ws)})

	_, err := f.resolver().Resolve(context.Background(), []string{a, b})
	requireNotFound(t, err)
}

func TestResolve_MultiRootMissingReferenceIsSkipped(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	f.bucket("0000", map[string]string{"workspace": f.fileURI(filepath.Join(f.projects, "deleted.code-workspace"))})
	ws := f.write(filepath.Join(f.projects, "ws.code-workspace"), map[string]any{
		"folders": []map[string]string{{"path": "a"}, {"path": "b"}},
	})
	f.bucket("8888", map[string]string{"workspace": f.fileURI(ws)})

	m, err := f.resolver().Resolve(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "8888", m.BucketID)
}

func TestResolve_UntitledWorkspace(t *testing.T) {
	t.Run("bucket referencing the definition", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.folder("a"), f.folder("b")
		def := f.write(filepath.Join(f.env.Workspaces, "1700000000000", DefinitionFileName), map[string]any{
			"folders": []map[string]string{{"path": a}, {"path": b}},
		})
		f.bucket("abcdef", map[string]string{"workspace": f.fileURI(def)})

		m, err := f.resolver().Resolve(context.Background(), []string{a, b})
		require.NoError(t, err)
		assert.Equal(t, "abcdef", m.BucketID)
	})

	t.Run("falls back to the definition directory", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.folder("a"), f.folder("b")
		def := f.write(filepath.Join(f.env.Workspaces, "1700000000000", DefinitionFileName), map[string]any{
			"folders": []map[string]string{{"path": a}, {"path": b}},
		})

		m, err := f.resolver().Resolve(context.Background(), []string{a, b})
		require.NoError(t, err)
		assert.Equal(t, "1700000000000", m.BucketID)
		assert.Equal(t, def, m.DefinitionPath)
	})

	t.Run("legacy location", func(t *testing.T) {
		f := newFixture(t)
		a, b := f.folder("a"), f.folder("b")
		f.write(filepath.Join(f.env.LegacyWorkspaces, "42", DefinitionFileName), map[string]any{
			"folders": []map[string]string{{"path": a}, {"path": b}},
		})

		m, err := f.resolver().Resolve(context.Background(), []string{a, b})
		require.NoError(t, err)
		assert.Equal(t, "42", m.BucketID)
	})
}

func TestResolve_MissingRoots(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")

	_, err := f.resolver().Resolve(context.Background(), []string{a, b})
	requireNotFound(t, err)

	_, err = f.resolver().Resolve(context.Background(), []string{a})
	requireNotFound(t, err)
}

func TestResolve_DuplicateFoldersCollapse(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("1234", map[string]string{"folder": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a, a + string(filepath.Separator)})
	require.NoError(t, err)
	assert.Equal(t, "1234", m.BucketID)
	assert.Equal(t, KindSingleFolder, m.Kind)
}

func TestResolve_InvalidInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver().Resolve(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFolders)

	_, err = f.resolver().Resolve(context.Background(), []string{""})
	assert.ErrorIs(t, err, uri.ErrNotAPath)
}

func TestResolve_ConcurrentRequests(t *testing.T) {
	f := newFixture(t)
	want := make(map[string]string)
	for i := 0; i < 8; i++ {
		folder := f.folder(fmt.Sprintf("p%d", i))
		id := fmt.Sprintf("bucket%d", i)
		f.bucket(id, map[string]string{"folder": f.fileURI(folder)})
		want[folder] = id
	}

	r := f.resolver()
	var wg sync.WaitGroup
	errs := make(chan error, len(want))
	for folder, id := range want {
		wg.Add(1)
		go func(folder, id string) {
			defer wg.Done()
			m, err := r.Resolve(context.Background(), []string{folder})
			if err != nil {
				errs <- err
				return
			}
			if m.BucketID != id {
				errs <- fmt.Errorf("folder %s: got %s, want %s", folder, m.BucketID, id)
			}
		}(folder, id)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

func TestBucketID(t *testing.T) {
	root := filepath.Join("/", "data", "workspaceStorage")

	id, ok := bucketID(root, filepath.Join(root, "abc", DefinitionFileName))
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = bucketID(root, filepath.Join(root, DefinitionFileName))
	assert.False(t, ok)

	_, ok = bucketID(root, filepath.Join(root, "abc", "ext.some", DefinitionFileName))
	assert.False(t, ok, "nested definitions are not buckets")

	_, ok = bucketID(root, filepath.Join("/", "elsewhere", "abc", DefinitionFileName))
	assert.False(t, ok)
}

func TestResolve_IgnoresDefinitionsNestedInBuckets(t *testing.T) {
	f := newFixture(t)
	a := f.folder("a")
	f.bucket("abc123", map[string]string{"folder": f.fileURI(a)})
	// Sorts before the bucket's own definition.
	f.bucket(filepath.Join("abc123", "ext.some"), map[string]string{"folder": f.fileURI(a)})

	m, err := f.resolver().Resolve(context.Background(), []string{a})
	require.NoError(t, err)
	assert.Equal(t, "abc123", m.BucketID)
	assert.Equal(t, filepath.Join(f.env.WorkspaceStorage, "abc123", DefinitionFileName), m.DefinitionPath)
}

func TestResolve_UntitledSkipsNestedDefinitions(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	folders := map[string]any{"folders": []map[string]string{{"path": a}, {"path": b}}}
	f.write(filepath.Join(f.env.Workspaces, "1", "nested", DefinitionFileName), folders)
	f.write(filepath.Join(f.env.Workspaces, "2", DefinitionFileName), folders)

	m, err := f.resolver().Resolve(context.Background(), []string{a, b})
	require.NoError(t, err)
	assert.Equal(t, "2", m.BucketID)
}

// cancellingFS cancels a context the first time the resolver checks that a
// referenced definition still exists.
type cancellingFS struct {
	fsops.FS
	cancel context.CancelFunc
}

func (c *cancellingFS) Exists(path string) (bool, error) {
	c.cancel()
	return c.FS.Exists(path)
}

func TestResolve_MultiRootCancelledDuringMatching(t *testing.T) {
	f := newFixture(t)
	a, b := f.folder("a"), f.folder("b")
	ws := f.write(filepath.Join(f.projects, "ws.code-workspace"), `{"folders": [{"path": "a"}, {"path": "b"}]}`)
	f.bucket("5555", map[string]string{"workspace": f.fileURI(ws)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := NewResolver(f.env, Options{FS: &cancellingFS{FS: fsops.NewRealFS(), cancel: cancel}, Concurrency: 1})

	_, err := r.Resolve(ctx, []string{a, b})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, errors.Is(err, ErrNotFound))
}
