package engine

import (
	"time"

	"github.com/danieljhkim/extprofiles/internal/extensions"
)

// ResolveResult identifies the storage bucket of a workspace.
type ResolveResult struct {
	// Folders are the folders that were resolved
	Folders []string `json:"folders"`

	// BucketID names the bucket under workspaceStorage
	BucketID string `json:"bucketId"`

	// BucketDir is the bucket's directory
	BucketDir string `json:"bucketDir"`

	// DefinitionPath is the workspace definition file that matched
	DefinitionPath string `json:"definitionPath"`

	// Kind is "single-folder" or "multi-root"
	Kind string `json:"kind"`
}

// StatusResult represents what is applied to a workspace.
type StatusResult struct {
	Workspace ResolveResult `json:"workspace"`

	// Profile is the last applied profile, empty if none
	Profile string `json:"profile,omitempty"`

	// Enabled is the number of extensions enabled for the workspace
	Enabled int `json:"enabled"`

	// Disabled is the number of extensions disabled for the workspace
	Disabled int `json:"disabled"`

	// GlobalDisabled is the number of extensions disabled for all workspaces
	GlobalDisabled int `json:"globalDisabled"`
}

// ApplyResult represents the result of applying a profile.
type ApplyResult struct {
	Workspace ResolveResult `json:"workspace"`

	// Profile is the applied profile name
	Profile string `json:"profile"`

	// Enabled are the extensions enabled in the bucket
	Enabled []extensions.Identifier `json:"enabled"`

	// Disabled are the extensions disabled in the bucket
	Disabled []extensions.Identifier `json:"disabled"`

	// Written is false for dry runs
	Written bool `json:"written"`
}

// ProfileInfo summarizes a profile.
type ProfileInfo struct {
	Name           string    `json:"name"`
	ExtensionCount int       `json:"extensionCount"`
	Builtin        bool      `json:"builtin"`
	UpdatedAt      time.Time `json:"updatedAt,omitempty"`
}

// ListProfilesResult represents all profiles.
type ListProfilesResult struct {
	Profiles []ProfileInfo `json:"profiles"`
}

// DescribeProfileResult represents one profile in detail.
type DescribeProfileResult struct {
	ProfileInfo

	// Extensions are the extensions the profile enables
	Extensions []extensions.Identifier `json:"extensions"`

	// NotInstalled lists profile extensions missing from the catalog
	NotInstalled []string `json:"notInstalled,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// RefreshResult represents the result of refreshing the extension catalog.
type RefreshResult struct {
	// Count is the number of installed extensions
	Count int `json:"count"`

	// Added lists newly installed extension IDs
	Added []string `json:"added"`

	// Removed lists uninstalled extension IDs
	Removed []string `json:"removed"`
}

// ExportResult represents the result of exporting a profile.
type ExportResult struct {
	Profile string `json:"profile"`
	Path    string `json:"path"`
}
