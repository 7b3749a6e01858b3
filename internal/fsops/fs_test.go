package fsops

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRealFS_ValidateIdentifier(t *testing.T) {
	fs := NewRealFS()

	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{name: "storage bucket hash", id: "9c1e3f2a7b6d4e8f0a1b2c3d4e5f6a7b", wantError: false},
		{name: "numeric bucket", id: "1700000000000", wantError: false},
		{name: "dotted but not traversal", id: "a.b", wantError: false},
		{name: "empty", id: "", wantError: true},
		{name: "current directory", id: ".", wantError: true},
		{name: "parent directory", id: "..", wantError: true},
		{name: "forward slash", id: "abc/def", wantError: true},
		{name: "backslash", id: `abc\def`, wantError: true},
		{name: "absolute path", id: "/etc/passwd", wantError: true},
		{name: "NUL byte", id: "abc\x00", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_Exists(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()

	definition := filepath.Join(tmpDir, "workspace.json")
	if err := os.WriteFile(definition, []byte(`{"folder":"file:///x"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"definition file", definition, true},
		{"bucket directory", tmpDir, true},
		{"vanished file", filepath.Join(tmpDir, "gone.json"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := fs.Exists(tt.path)
			if err != nil {
				t.Fatalf("Exists(%q) error = %v", tt.path, err)
			}
			if got != tt.want {
				t.Errorf("Exists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	fs := NewRealFS()
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "globalStorage", "extension-profiles", "profiles.json")

	t.Run("creates parent directories", func(t *testing.T) {
		if err := fs.AtomicWrite(target, []byte(`{"profiles":{}}`), 0644); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		data, err := fs.ReadFile(target)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != `{"profiles":{}}` {
			t.Errorf("content mismatch: got %q", data)
		}
	})

	t.Run("replaces existing content", func(t *testing.T) {
		if err := fs.AtomicWrite(target, []byte(`{"profiles":{"go":{}}}`), 0600); err != nil {
			t.Fatalf("AtomicWrite failed: %v", err)
		}
		data, err := fs.ReadFile(target)
		if err != nil {
			t.Fatalf("ReadFile failed: %v", err)
		}
		if string(data) != `{"profiles":{"go":{}}}` {
			t.Errorf("content not replaced: got %q", data)
		}
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(filepath.Dir(target))
		if err != nil {
			t.Fatal(err)
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Name(), ".extprofiles-tmp-") {
				t.Errorf("temp file left behind: %s", e.Name())
			}
		}
	})
}
