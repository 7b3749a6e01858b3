package config

import (
	"testing"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestNewEnvironment(t *testing.T) {
	tests := []struct {
		name       string
		opts       Options
		editorRoot string
		storage    string
		workspaces string
		extensions string
	}{
		{
			name:       "linux uses XDG-style config dir",
			opts:       Options{OS: "linux", Getenv: fakeEnv(map[string]string{"HOME": "/home/a"})},
			editorRoot: "/home/a/.config/Code",
			storage:    "/home/a/.config/Code/User/workspaceStorage",
			workspaces: "/home/a/.config/Code/Workspaces",
			extensions: "/home/a/.vscode/extensions",
		},
		{
			name:       "darwin uses Application Support",
			opts:       Options{OS: "darwin", Getenv: fakeEnv(map[string]string{"HOME": "/Users/a"})},
			editorRoot: "/Users/a/Library/Application Support/Code",
			storage:    "/Users/a/Library/Application Support/Code/User/workspaceStorage",
			workspaces: "/Users/a/Library/Application Support/Code/Workspaces",
			extensions: "/Users/a/.vscode/extensions",
		},
		{
			name: "windows uses APPDATA",
			opts: Options{OS: "windows", Getenv: fakeEnv(map[string]string{
				"APPDATA":     `C:\Users\a\AppData\Roaming`,
				"USERPROFILE": `C:\Users\a`,
			})},
			editorRoot: `C:\Users\a\AppData\Roaming\Code`,
			storage:    `C:\Users\a\AppData\Roaming\Code\User\workspaceStorage`,
			workspaces: `C:\Users\a\AppData\Roaming\Code\Workspaces`,
			extensions: `C:\Users\a\.vscode\extensions`,
		},
		{
			name:       "windows falls back to USERPROFILE without APPDATA",
			opts:       Options{OS: "windows", Getenv: fakeEnv(map[string]string{"USERPROFILE": `D:\home\b`})},
			editorRoot: `D:\home\b\AppData\Roaming\Code`,
			storage:    `D:\home\b\AppData\Roaming\Code\User\workspaceStorage`,
			workspaces: `D:\home\b\AppData\Roaming\Code\Workspaces`,
			extensions: `D:\home\b\.vscode\extensions`,
		},
		{
			name:       "insiders product",
			opts:       Options{OS: "linux", Product: ProductInsiders, Getenv: fakeEnv(map[string]string{"HOME": "/home/a"})},
			editorRoot: "/home/a/.config/Code - Insiders",
			storage:    "/home/a/.config/Code - Insiders/User/workspaceStorage",
			workspaces: "/home/a/.config/Code - Insiders/Workspaces",
			extensions: "/home/a/.vscode-insiders/extensions",
		},
		{
			name:       "user data dir overrides editor root",
			opts:       Options{OS: "linux", UserDataDir: "/tmp/data", Getenv: fakeEnv(map[string]string{"HOME": "/home/a"})},
			editorRoot: "/tmp/data",
			storage:    "/tmp/data/User/workspaceStorage",
			workspaces: "/tmp/data/Workspaces",
			extensions: "/home/a/.vscode/extensions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := NewEnvironment(tt.opts)

			if env.EditorRoot != tt.editorRoot {
				t.Errorf("EditorRoot: got %q, want %q", env.EditorRoot, tt.editorRoot)
			}
			if env.WorkspaceStorage != tt.storage {
				t.Errorf("WorkspaceStorage: got %q, want %q", env.WorkspaceStorage, tt.storage)
			}
			if env.Workspaces != tt.workspaces {
				t.Errorf("Workspaces: got %q, want %q", env.Workspaces, tt.workspaces)
			}
			if env.ExtensionsDir != tt.extensions {
				t.Errorf("ExtensionsDir: got %q, want %q", env.ExtensionsDir, tt.extensions)
			}
		})
	}
}

func TestNewEnvironment_Defaults(t *testing.T) {
	env := NewEnvironment(Options{Getenv: fakeEnv(nil)})

	if env.OS == "" {
		t.Error("OS should default to runtime.GOOS")
	}
	if env.Product != ProductCode {
		t.Errorf("Product: got %q, want %q", env.Product, ProductCode)
	}
	if env.UserRoot != Join(env.OS, env.EditorRoot, "User") {
		t.Errorf("UserRoot should live under EditorRoot, got %q", env.UserRoot)
	}
}

func TestEnvironment_DerivedPaths(t *testing.T) {
	env := NewEnvironment(Options{OS: "linux", Getenv: fakeEnv(map[string]string{"HOME": "/home/a"})})

	if got := env.ProfilesFile(); got != "/home/a/.config/Code/User/globalStorage/extension-profiles/profiles.json" {
		t.Errorf("ProfilesFile: got %q", got)
	}
	if got := env.GlobalStateDB(); got != "/home/a/.config/Code/User/globalStorage/state.vscdb" {
		t.Errorf("GlobalStateDB: got %q", got)
	}
	if got := env.BucketDir("abc123"); got != "/home/a/.config/Code/User/workspaceStorage/abc123" {
		t.Errorf("BucketDir: got %q", got)
	}
	roots := env.WorkspaceRoots()
	if len(roots) != 2 || roots[0] != env.Workspaces || roots[1] != env.LegacyWorkspaces {
		t.Errorf("WorkspaceRoots: got %v", roots)
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		goos string
		elem []string
		want string
	}{
		{"linux", []string{"/a", "b", "c"}, "/a/b/c"},
		{"linux", []string{"/a/", "/b/"}, "/a/b"},
		{"windows", []string{`C:\`, "Users"}, `C:\Users`},
		{"windows", []string{`C:\Users\`, `\a\`, "b"}, `C:\Users\a\b`},
		{"windows", []string{"C:/Users", "a/b"}, `C:\Users\a\b`},
		{"windows", []string{`\\server\share\`, "x"}, `\\server\share\x`},
	}

	for _, tt := range tests {
		if got := Join(tt.goos, tt.elem...); got != tt.want {
			t.Errorf("Join(%q, %q) = %q, want %q", tt.goos, tt.elem, got, tt.want)
		}
	}
}
