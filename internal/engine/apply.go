package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/danieljhkim/extprofiles/internal/extensions"
	"github.com/danieljhkim/extprofiles/internal/vscdb"
)

// ApplyProfile enables exactly the profile's extensions in the workspace of
// req.Folders and disables every other installed extension.
// Algorithm steps:
// 1. Load the profile and the extension catalog
// 2. Compute the enabled and disabled lists
// 3. Resolve the storage bucket; abort without writing if it is unknown
// 4. Write both lists and the profile name into the bucket's state database
func (e *Engine) ApplyProfile(ctx context.Context, req *ApplyRequest) (*ApplyResult, error) {
	// Step 1: Load the profile and catalog
	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}
	changed, err := e.ensureCatalog(doc)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := e.profiles.Save(doc); err != nil {
			return nil, err
		}
	}
	p, err := resolveProfile(doc, req.Profile)
	if err != nil {
		return nil, err
	}

	// Step 2: Compute lists. Catalog identifiers carry the UUIDs the editor expects.
	result := &ApplyResult{
		Profile:  p.Name,
		Enabled:  []extensions.Identifier{},
		Disabled: []extensions.Identifier{},
	}
	for _, ext := range p.Extensions {
		if installed, ok := findInCatalog(doc, ext.ID); ok {
			ext = installed.Identifier
		}
		result.Enabled = append(result.Enabled, ext)
	}
	for _, id := range doc.CatalogIDs() {
		if !p.Has(id) {
			result.Disabled = append(result.Disabled, doc.Catalog[id].Identifier)
		}
	}

	// Step 3: Resolve the bucket
	ws, err := e.ResolveWorkspace(ctx, req.Folders)
	if err != nil {
		return nil, err
	}
	result.Workspace = *ws

	if req.DryRun {
		return result, nil
	}

	// Step 4: Write the bucket state
	db, err := vscdb.Open(filepath.Join(ws.BucketDir, vscdb.FileName), vscdb.Options{Logger: e.logger})
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	lists := vscdb.ExtensionLists{Enabled: result.Enabled, Disabled: result.Disabled}
	if err := db.WriteExtensionLists(lists, p.Name); err != nil {
		return nil, fmt.Errorf("failed to write extension lists: %w", err)
	}
	result.Written = true

	e.logger.Info("profile applied",
		"profile", p.Name,
		"bucket", ws.BucketID,
		"enabled", len(result.Enabled),
		"disabled", len(result.Disabled),
	)
	return result, nil
}
