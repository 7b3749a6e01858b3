package engine

// ApplyRequest represents a request to apply a profile to a workspace.
type ApplyRequest struct {
	// Profile is the profile name (GlobalProfile enables everything)
	Profile string

	// Folders are the open workspace folders
	Folders []string

	// DryRun computes the lists without writing them
	DryRun bool
}

// CreateProfileRequest represents a request to create a profile.
type CreateProfileRequest struct {
	// Name is the new profile name
	Name string

	// Extensions are the extension IDs the profile enables
	Extensions []string
}

// EditProfileRequest represents a request to change a profile's extensions.
type EditProfileRequest struct {
	// Name is the profile to edit
	Name string

	// Add lists extension IDs to enable
	Add []string

	// Remove lists extension IDs to stop enabling
	Remove []string
}

// ImportProfileRequest represents a request to import an exported profile.
type ImportProfileRequest struct {
	// Path is the export file to read
	Path string

	// Name overrides the name recorded in the export
	Name string

	// Overwrite replaces an existing profile of the same name
	Overwrite bool
}
