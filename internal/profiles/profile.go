package profiles

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/danieljhkim/extprofiles/internal/extensions"
)

// GlobalProfile is the reserved name of the implicit profile that enables
// every installed extension. It cannot be created, edited or deleted.
const GlobalProfile = "Global Profile"

// Document is the persisted state: all profiles and the extension catalog.
type Document struct {
	// Profiles maps profile names to their definitions
	Profiles map[string]*Profile `json:"profiles"`

	// Catalog maps extension IDs to the last known installed extension
	Catalog map[string]extensions.Extension `json:"catalog"`

	// CatalogUpdatedAt is when the catalog was last refreshed
	CatalogUpdatedAt time.Time `json:"catalogUpdatedAt,omitempty"`
}

// Profile is a named set of extensions.
type Profile struct {
	// Name is the profile name
	Name string `json:"name"`

	// Extensions are the extensions enabled by the profile, sorted by ID
	Extensions []extensions.Identifier `json:"extensions"`

	// CreatedAt is when the profile was created
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the profile was last modified
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{
		Profiles: make(map[string]*Profile),
		Catalog:  make(map[string]extensions.Extension),
	}
}

// Names returns the profile names in sorted order.
func (d *Document) Names() []string {
	names := make([]string, 0, len(d.Profiles))
	for name := range d.Profiles {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CatalogIDs returns the catalog's extension IDs in sorted order.
func (d *Document) CatalogIDs() []string {
	ids := make([]string, 0, len(d.Catalog))
	for id := range d.Catalog {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Has reports whether the profile enables the extension.
func (p *Profile) Has(id string) bool {
	return slices.ContainsFunc(p.Extensions, func(e extensions.Identifier) bool {
		return strings.EqualFold(e.ID, id)
	})
}

// SortExtensions orders the extensions by ID and drops duplicates.
func (p *Profile) SortExtensions() {
	slices.SortFunc(p.Extensions, func(a, b extensions.Identifier) int {
		return strings.Compare(a.ID, b.ID)
	})
	p.Extensions = slices.CompactFunc(p.Extensions, func(a, b extensions.Identifier) bool {
		return a.ID == b.ID
	})
}

// ValidateName checks that name can be used for a user-defined profile.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if trimmed != name {
		return fmt.Errorf("profile name must not start or end with whitespace")
	}
	if strings.EqualFold(name, GlobalProfile) {
		return fmt.Errorf("%q is reserved", GlobalProfile)
	}
	return nil
}

// Export is the file format of a single exported profile.
type Export struct {
	Name       string                  `json:"name"`
	Extensions []extensions.Identifier `json:"extensions"`
}

// MarshalExport encodes a profile for export.
func MarshalExport(p *Profile) ([]byte, error) {
	return json.MarshalIndent(Export{Name: p.Name, Extensions: p.Extensions}, "", "  ")
}

// ParseExport decodes an exported profile. Comments and trailing commas
// are accepted so hand-edited exports still import.
func ParseExport(data []byte) (*Export, error) {
	var exp Export
	if err := json.Unmarshal(jsonc.ToJSON(data), &exp); err != nil {
		return nil, fmt.Errorf("failed to parse profile export: %w", err)
	}
	if exp.Name == "" {
		return nil, fmt.Errorf("profile export has no name")
	}
	for _, e := range exp.Extensions {
		if e.ID == "" {
			return nil, fmt.Errorf("profile export %q contains an extension without id", exp.Name)
		}
	}
	return &exp, nil
}
