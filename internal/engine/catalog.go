package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/danieljhkim/extprofiles/internal/extensions"
	"github.com/danieljhkim/extprofiles/internal/profiles"
)

// RefreshExtensions re-reads the installed extensions into the catalog.
// Labels and descriptions the editor no longer reports are carried over
// from the previous catalog.
func (e *Engine) RefreshExtensions(ctx context.Context) (*RefreshResult, error) {
	doc, err := e.profiles.Load()
	if err != nil {
		return nil, err
	}

	result, err := e.refreshCatalog(doc)
	if err != nil {
		return nil, err
	}
	if err := e.profiles.Save(doc); err != nil {
		return nil, err
	}
	return result, nil
}

// refreshCatalog replaces doc's catalog with the installed extensions.
func (e *Engine) refreshCatalog(doc *profiles.Document) (*RefreshResult, error) {
	installed, err := extensions.ReadInstalled(e.fs, e.env.ExtensionsDir, e.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to read installed extensions: %w", err)
	}

	result := &RefreshResult{Count: len(installed), Added: []string{}, Removed: []string{}}
	catalog := make(map[string]extensions.Extension, len(installed))
	for _, ext := range installed {
		if old, ok := doc.Catalog[ext.ID]; ok {
			if ext.Label == "" {
				ext.Label = old.Label
			}
			if ext.Description == "" {
				ext.Description = old.Description
			}
		} else {
			result.Added = append(result.Added, ext.ID)
		}
		catalog[ext.ID] = ext
	}
	for _, id := range doc.CatalogIDs() {
		if _, ok := catalog[id]; !ok {
			result.Removed = append(result.Removed, id)
		}
	}
	slices.Sort(result.Added)

	doc.Catalog = catalog
	doc.CatalogUpdatedAt = e.clock.Now()
	e.logger.Debug("extension catalog refreshed", "count", result.Count, "added", len(result.Added), "removed", len(result.Removed))
	return result, nil
}

// ensureCatalog refreshes the catalog when it has never been filled.
// It reports whether doc changed.
func (e *Engine) ensureCatalog(doc *profiles.Document) (bool, error) {
	if len(doc.Catalog) > 0 {
		return false, nil
	}
	if _, err := e.refreshCatalog(doc); err != nil {
		return false, err
	}
	return true, nil
}

// lookupExtensions maps extension IDs to catalog identifiers. Unknown IDs
// fail validation.
func lookupExtensions(doc *profiles.Document, ids []string) ([]extensions.Identifier, error) {
	out := make([]extensions.Identifier, 0, len(ids))
	var unknown []string
	for _, id := range ids {
		ext, ok := findInCatalog(doc, id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, ext.Identifier)
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: extensions not installed: %v", ErrValidation, unknown)
	}
	return out, nil
}

func findInCatalog(doc *profiles.Document, id string) (extensions.Extension, bool) {
	if ext, ok := doc.Catalog[id]; ok {
		return ext, true
	}
	for key, ext := range doc.Catalog {
		if strings.EqualFold(key, id) {
			return ext, true
		}
	}
	return extensions.Extension{}, false
}
