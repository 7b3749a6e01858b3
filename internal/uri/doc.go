// Package uri converts filesystem paths to and from the "file://" URI form
// the editor records in its workspace definition files.
//
// Workspace identity is matched by string equality against what the editor
// wrote, so FileURI reproduces the editor's stringification byte for byte:
// separators become "/", a leading "/" is ensured, an upper-case drive letter
// is lower-cased, and every byte outside [A-Za-z0-9-._~/] is percent-encoded.
//
// Key concepts:
//   - Style: path rules of the target OS (posix or windows), independent of the host
//   - Normalizer: a Style plus the working directory used to absolutize relative paths
//   - Keys: comparison forms that fold the case-insensitivity of Windows paths
package uri
