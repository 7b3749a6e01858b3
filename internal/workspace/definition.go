package workspace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	"github.com/danieljhkim/extprofiles/internal/fsops"
)

// Definition is a decoded workspace definition file: either *SingleFolder
// or *MultiRoot.
type Definition interface {
	definition()
}

// SingleFolder is the workspace.json the editor writes into a storage bucket.
// Exactly one of the fields is normally set; both hold file URIs.
type SingleFolder struct {
	// Folder is the URI of the folder this bucket belongs to
	Folder string

	// Workspace is the URI of a multi-root definition this bucket belongs to
	Workspace string
}

// MultiRoot is a multi-root workspace definition (.code-workspace or an
// untitled workspace's workspace.json).
type MultiRoot struct {
	Folders []FolderEntry
}

// FolderEntry is one element of a multi-root "folders" array.
// Path may be relative to the directory of the definition file.
type FolderEntry struct {
	Path string `json:"path,omitempty"`
	URI  string `json:"uri,omitempty"`
	Name string `json:"name,omitempty"`
}

func (*SingleFolder) definition() {}
func (*MultiRoot) definition()    {}

type rawDefinition struct {
	Folder    *string          `json:"folder"`
	Workspace *string          `json:"workspace"`
	Folders   *json.RawMessage `json:"folders"`
}

// ParseDefinition decodes a definition document. Comments and trailing
// commas are accepted, as in .code-workspace files. The shape is decided by
// which fields are present: "folders" means MultiRoot, "folder" or
// "workspace" means SingleFolder.
func ParseDefinition(data []byte) (Definition, error) {
	var raw rawDefinition
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, err
	}

	switch {
	case raw.Folders != nil:
		var folders []FolderEntry
		if err := json.Unmarshal(*raw.Folders, &folders); err != nil {
			return nil, fmt.Errorf("folders: %w", err)
		}
		return &MultiRoot{Folders: folders}, nil
	case raw.Folder != nil || raw.Workspace != nil:
		def := &SingleFolder{}
		if raw.Folder != nil {
			def.Folder = *raw.Folder
		}
		if raw.Workspace != nil {
			def.Workspace = *raw.Workspace
		}
		return def, nil
	default:
		return nil, ErrUnknownShape
	}
}

// ReadDefinition reads and decodes the definition file at path. A file that
// vanished since it was listed yields an error matching os.ErrNotExist;
// every other failure is a *ParseError.
func ReadDefinition(fs fsops.FS, path string) (Definition, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", path, os.ErrNotExist)
		}
		return nil, &ParseError{Path: path, Err: err}
	}

	def, err := ParseDefinition(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return def, nil
}
