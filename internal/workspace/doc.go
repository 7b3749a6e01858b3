// Package workspace resolves a set of open folders to the editor's storage
// bucket for that exact folder set.
//
// The editor keeps one bucket directory per workspace under workspaceStorage,
// each holding a workspace.json that names either a single folder or a
// multi-root workspace definition. Multi-root definitions may also live in
// the editor's Workspaces directory (untitled workspaces). The resolver scans
// these locations, decodes every candidate, and accepts only an exact set
// match against the requested folders.
//
// Key concepts:
//   - Definition: tagged union of SingleFolder and MultiRoot documents
//   - Resolver: scans, decodes and matches candidates concurrently
//   - Match: the winning bucket ID and the definition file it came from
//
// Candidates are sorted by path before matching so the first match is
// deterministic regardless of directory traversal order.
package workspace
