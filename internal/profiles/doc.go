// Package profiles persists extension profiles and the cached catalog of
// installed extensions.
//
// A profile is a named subset of installed extensions. Applying it to a
// workspace enables exactly that subset in the workspace's storage bucket.
// Profiles and the catalog share one JSON document stored in the editor's
// global storage directory and written atomically.
//
// Key concepts:
//   - Profile: name, extension identifiers, timestamps
//   - Catalog: last known installed extensions, keyed by ID
//   - Store: interface for loading and saving the document
//   - Export: the single-profile file format used by export/import
package profiles
