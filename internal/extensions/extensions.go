// Package extensions reads the editor's installed-extension manifest.
//
// The editor records installed extensions in <extensions dir>/extensions.json
// as an array of entries with an identifier ({id, uuid}) and the extension's
// relative install location. Display names are read from each extension's
// package.json when present.
package extensions

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/jsonc"

	"github.com/danieljhkim/extprofiles/internal/fsops"
)

// ManifestFileName is the editor's installed-extension manifest.
const ManifestFileName = "extensions.json"

// Identifier is how the editor refers to an extension in its enable/disable
// lists.
type Identifier struct {
	ID    string `json:"id"`
	UUID  string `json:"uuid,omitempty"`
	Label string `json:"label,omitempty"`
}

// Extension is one installed extension.
type Extension struct {
	Identifier

	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

type manifestEntry struct {
	Identifier struct {
		ID   string `json:"id"`
		UUID string `json:"uuid"`
	} `json:"identifier"`
	Version          string `json:"version"`
	RelativeLocation string `json:"relativeLocation"`
}

type packageJSON struct {
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}

// ReadInstalled returns the installed extensions listed in dir's manifest,
// sorted by ID. A missing manifest yields an empty list.
func ReadInstalled(fs fsops.FS, dir string, logger *slog.Logger) ([]Extension, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	data, err := fs.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return []Extension{}, nil
		}
		return nil, fmt.Errorf("failed to read extension manifest: %w", err)
	}

	var entries []manifestEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse extension manifest: %w", err)
	}

	installed := make([]Extension, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, entry := range entries {
		id := strings.ToLower(entry.Identifier.ID)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true

		ext := Extension{
			Identifier: Identifier{ID: id, UUID: entry.Identifier.UUID},
			Version:    entry.Version,
		}
		if entry.RelativeLocation != "" {
			pkg, err := readPackage(fs, filepath.Join(dir, entry.RelativeLocation, "package.json"))
			if err != nil {
				logger.Debug("no package.json for extension", "id", id, "error", err)
			} else {
				ext.Label = pkg.DisplayName
				ext.Description = pkg.Description
			}
		}
		installed = append(installed, ext)
	}

	slices.SortFunc(installed, func(a, b Extension) int {
		return strings.Compare(a.ID, b.ID)
	})
	return installed, nil
}

func readPackage(fs fsops.FS, path string) (*packageJSON, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(jsonc.ToJSON(data), &pkg); err != nil {
		return nil, err
	}
	// Localized placeholders such as "%displayName%" are not resolved.
	if strings.HasPrefix(pkg.DisplayName, "%") {
		pkg.DisplayName = ""
	}
	if strings.HasPrefix(pkg.Description, "%") {
		pkg.Description = ""
	}
	return &pkg, nil
}
