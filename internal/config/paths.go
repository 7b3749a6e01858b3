// Package config locates the editor's on-disk state for the current user.
//
// The Environment value is computed once at startup from the operating system
// identifier and the HOME, APPDATA and USERPROFILE variables. It never touches
// the filesystem: every path is a best guess and existence is checked by the
// code that reads it.
package config

import (
	"os"
	"path"
	"runtime"
	"strings"
)

// Supported editor products. The product name is the directory the editor
// keeps its user data under.
const (
	ProductCode     = "Code"
	ProductInsiders = "Code - Insiders"
	ProductCodium   = "VSCodium"
)

// Environment contains all the filesystem paths used to locate editor state.
// It is immutable after construction and safe to share between goroutines.
type Environment struct {
	// OS is the GOOS-style operating system identifier ("linux", "darwin", "windows").
	OS string `json:"os"`

	// Product is the editor product directory name (default: Code)
	Product string `json:"product"`

	// Home is the user's home directory (USERPROFILE on Windows)
	Home string `json:"home"`

	// EditorRoot is the editor's per-user data directory (e.g. ~/.config/Code)
	EditorRoot string `json:"editorRoot"`

	// UserRoot is the editor's per-user settings root (<EditorRoot>/User)
	UserRoot string `json:"userRoot"`

	// WorkspaceStorage holds one bucket directory per resolved workspace
	WorkspaceStorage string `json:"workspaceStorage"`

	// GlobalStorage holds the editor's global state database
	GlobalStorage string `json:"globalStorage"`

	// Workspaces holds untitled multi-root workspace definitions
	Workspaces string `json:"workspaces"`

	// LegacyWorkspaces is where older editor versions kept Workspaces
	LegacyWorkspaces string `json:"legacyWorkspaces"`

	// ExtensionsDir is the directory installed extensions live in
	ExtensionsDir string `json:"extensionsDir"`
}

// Options controls how an Environment is computed.
type Options struct {
	// OS defaults to runtime.GOOS.
	OS string

	// Product defaults to ProductCode.
	Product string

	// UserDataDir overrides the editor root, like the editor's --user-data-dir flag.
	UserDataDir string

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// DefaultEnvironment returns the Environment for the running process.
func DefaultEnvironment() Environment {
	return NewEnvironment(Options{})
}

// NewEnvironment computes an Environment. It is a pure function of opts.
func NewEnvironment(opts Options) Environment {
	goos := opts.OS
	if goos == "" {
		goos = runtime.GOOS
	}
	product := opts.Product
	if product == "" {
		product = ProductCode
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	home := homeDir(goos, getenv)

	editorRoot := opts.UserDataDir
	if editorRoot == "" {
		switch goos {
		case "windows":
			appData := getenv("APPDATA")
			if appData == "" {
				appData = Join(goos, home, "AppData", "Roaming")
			}
			editorRoot = Join(goos, appData, product)
		case "darwin":
			editorRoot = Join(goos, home, "Library", "Application Support", product)
		default:
			editorRoot = Join(goos, home, ".config", product)
		}
	}

	userRoot := Join(goos, editorRoot, "User")

	return Environment{
		OS:               goos,
		Product:          product,
		Home:             home,
		EditorRoot:       editorRoot,
		UserRoot:         userRoot,
		WorkspaceStorage: Join(goos, userRoot, "workspaceStorage"),
		GlobalStorage:    Join(goos, userRoot, "globalStorage"),
		Workspaces:       Join(goos, editorRoot, "Workspaces"),
		LegacyWorkspaces: Join(goos, userRoot, "Workspaces"),
		ExtensionsDir:    Join(goos, home, extensionsDirName(product), "extensions"),
	}
}

// WorkspaceRoots returns the directories that may hold multi-root
// workspace definitions, current location first.
func (e Environment) WorkspaceRoots() []string {
	return []string{e.Workspaces, e.LegacyWorkspaces}
}

// ProfilesFile is where profile definitions are persisted.
func (e Environment) ProfilesFile() string {
	return Join(e.OS, e.GlobalStorage, "extension-profiles", "profiles.json")
}

// GlobalStateDB is the editor's global state database.
func (e Environment) GlobalStateDB() string {
	return Join(e.OS, e.GlobalStorage, "state.vscdb")
}

// BucketDir returns the directory of a storage bucket.
func (e Environment) BucketDir(bucketID string) string {
	return Join(e.OS, e.WorkspaceStorage, bucketID)
}

func homeDir(goos string, getenv func(string) string) string {
	if goos == "windows" {
		if home := getenv("USERPROFILE"); home != "" {
			return home
		}
	}
	return getenv("HOME")
}

func extensionsDirName(product string) string {
	switch product {
	case ProductInsiders:
		return ".vscode-insiders"
	case ProductCodium:
		return ".vscode-oss"
	default:
		return ".vscode"
	}
}

// Join joins path elements using the separator of goos, independent of
// the host the program runs on.
func Join(goos string, elem ...string) string {
	if goos != "windows" {
		return path.Join(elem...)
	}
	var parts []string
	for i, e := range elem {
		e = strings.ReplaceAll(e, "/", `\`)
		if i > 0 {
			e = strings.Trim(e, `\`)
		} else if !isDriveRoot(e) {
			if trimmed := strings.TrimRight(e, `\`); trimmed != "" {
				e = trimmed
			}
		}
		if e != "" {
			parts = append(parts, e)
		}
	}
	joined := strings.Join(parts, `\`)
	if len(parts) > 0 && isDriveRoot(parts[0]) {
		joined = parts[0] + strings.Join(parts[1:], `\`)
	}
	return joined
}

func isDriveRoot(s string) bool {
	return len(s) == 3 && s[1] == ':' && s[2] == '\\'
}
