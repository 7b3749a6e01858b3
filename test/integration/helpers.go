// Package integration exercises the engine end to end against a fake editor
// data directory on disk.
package integration

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/danieljhkim/extprofiles/internal/clock"
	"github.com/danieljhkim/extprofiles/internal/config"
	"github.com/danieljhkim/extprofiles/internal/engine"
	"github.com/danieljhkim/extprofiles/internal/extensions"
	"github.com/danieljhkim/extprofiles/internal/fsops"
	"github.com/danieljhkim/extprofiles/internal/profiles"
	"github.com/danieljhkim/extprofiles/internal/uri"
	"github.com/danieljhkim/extprofiles/internal/vscdb"
	"github.com/danieljhkim/extprofiles/internal/workspace"
)

// editor lays out an editor data directory, a projects directory and an
// extensions directory under one temp dir.
type editor struct {
	t        *testing.T
	env      config.Environment
	norm     uri.Normalizer
	projects string
}

func setupTestEngine(t *testing.T) (*engine.Engine, *editor) {
	t.Helper()
	tmp := t.TempDir()
	env := config.NewEnvironment(config.Options{
		OS:          runtime.GOOS,
		UserDataDir: filepath.Join(tmp, "data"),
		Getenv:      func(string) string { return tmp },
	})
	ed := &editor{
		t:        t,
		env:      env,
		norm:     uri.NewNormalizer(runtime.GOOS),
		projects: filepath.Join(tmp, "projects"),
	}

	fs := fsops.NewRealFS()
	resolver := workspace.NewResolver(env, workspace.Options{FS: fs, Concurrency: 2})
	store := profiles.NewFileStore(fs, env.ProfilesFile())
	clk := clock.NewFakeClock(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	return engine.New(env, fs, resolver, store, clk, nil), ed
}

// folder creates a project folder and returns its path.
func (ed *editor) folder(name string) string {
	ed.t.Helper()
	p := filepath.Join(ed.projects, name)
	if err := os.MkdirAll(p, 0755); err != nil {
		ed.t.Fatalf("mkdir %s: %v", p, err)
	}
	return p
}

func (ed *editor) uri(p string) string {
	ed.t.Helper()
	u, err := ed.norm.FileURI(p)
	if err != nil {
		ed.t.Fatalf("FileURI(%s): %v", p, err)
	}
	return u
}

func (ed *editor) writeJSON(path string, v any) string {
	ed.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		ed.t.Fatalf("marshal: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		ed.t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		ed.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// openFolder records a single-folder workspace the way the editor does on
// first open.
func (ed *editor) openFolder(bucket, folder string) {
	ed.writeJSON(filepath.Join(ed.env.WorkspaceStorage, bucket, workspace.DefinitionFileName),
		map[string]string{"folder": ed.uri(folder)})
}

// untitled writes an untitled multi-root definition under root/<id>.
func (ed *editor) untitled(root, id string, folders ...string) string {
	entries := make([]map[string]string, len(folders))
	for i, f := range folders {
		entries[i] = map[string]string{"path": f}
	}
	return ed.writeJSON(filepath.Join(root, id, "workspace.json"), map[string]any{"folders": entries})
}

// install writes the installed-extension manifest.
func (ed *editor) install(ids ...string) {
	type entry struct {
		Identifier extensions.Identifier `json:"identifier"`
		Version    string                `json:"version"`
	}
	entries := make([]entry, len(ids))
	for i, id := range ids {
		entries[i] = entry{Identifier: extensions.Identifier{ID: id, UUID: "uuid-" + id}, Version: "1.0.0"}
	}
	ed.writeJSON(filepath.Join(ed.env.ExtensionsDir, extensions.ManifestFileName), entries)
}

// bucketLists reads the enable/disable lists written to a bucket.
func (ed *editor) bucketLists(bucket string) (enabled, disabled []string, profile string) {
	ed.t.Helper()
	db, err := vscdb.Open(filepath.Join(ed.env.BucketDir(bucket), vscdb.FileName), vscdb.Options{ReadOnly: true})
	if err != nil {
		ed.t.Fatalf("open bucket %s: %v", bucket, err)
	}
	defer func() {
		_ = db.Close()
	}()

	for kind, dst := range map[vscdb.ListKind]*[]string{vscdb.Enabled: &enabled, vscdb.Disabled: &disabled} {
		list, err := db.ExtensionList(kind)
		if err != nil {
			ed.t.Fatalf("ExtensionList(%s): %v", kind, err)
		}
		for _, ext := range list {
			*dst = append(*dst, ext.ID)
		}
	}
	profile, _, err = db.Get(vscdb.ProfileKey)
	if err != nil {
		ed.t.Fatalf("Get profile: %v", err)
	}
	return enabled, disabled, profile
}
