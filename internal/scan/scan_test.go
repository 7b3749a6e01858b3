package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
}

func TestFiles_FindsNestedMatches(t *testing.T) {
	root := t.TempDir()
	want := []string{
		filepath.Join(root, "aaa", "workspace.json"),
		filepath.Join(root, "bbb", "workspace.json"),
		filepath.Join(root, "c", "d", "e", "workspace.json"),
		filepath.Join(root, "workspace.json"),
	}
	for _, p := range want {
		writeFile(t, p)
	}
	writeFile(t, filepath.Join(root, "aaa", "state.vscdb"))
	writeFile(t, filepath.Join(root, "bbb", "workspace.json.bak"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "dir-named-workspace.json"), 0755))

	got, err := New(Options{Concurrency: 2}).Files(context.Background(), root, "workspace.json")
	require.NoError(t, err)

	slices.Sort(got)
	assert.Equal(t, want, got)
}

func TestFiles_DeepTree(t *testing.T) {
	root := t.TempDir()
	dir := root
	for i := 0; i < 40; i++ {
		dir = filepath.Join(dir, "d")
	}
	target := filepath.Join(dir, "workspace.json")
	writeFile(t, target)

	got, err := New(Options{}).Files(context.Background(), root, "workspace.json")
	require.NoError(t, err)
	assert.Equal(t, []string{target}, got)
}

func TestFiles_MissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "does-not-exist")

	_, err := New(Options{}).Files(context.Background(), root, "workspace.json")

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.Equal(t, root, scanErr.Root)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestFiles_RootIsFile(t *testing.T) {
	root := filepath.Join(t.TempDir(), "file")
	writeFile(t, root)

	_, err := New(Options{}).Files(context.Background(), root, "workspace.json")

	var scanErr *ScanError
	require.True(t, errors.As(err, &scanErr))
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestFiles_SkipsUnreadableSubtree(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}

	root := t.TempDir()
	readable := filepath.Join(root, "ok", "workspace.json")
	writeFile(t, readable)
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "workspace.json"))
	require.NoError(t, os.Chmod(locked, 0000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0755) })

	got, err := New(Options{}).Files(context.Background(), root, "workspace.json")
	require.NoError(t, err)
	assert.Equal(t, []string{readable}, got)
}

func TestFiles_DoesNotFollowSymlinkedDirs(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges on windows")
	}

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "workspace.json"))
	require.NoError(t, os.Symlink(root, filepath.Join(root, "loop")))

	got, err := New(Options{}).Files(context.Background(), root, "workspace.json")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFiles_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "workspace.json"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Options{}).Files(ctx, root, "workspace.json")
	assert.ErrorIs(t, err, context.Canceled)
}
