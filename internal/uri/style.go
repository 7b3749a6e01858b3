package uri

import (
	"errors"
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
)

// ErrNotAPath is returned when the input cannot be a filesystem path at all.
// It signals a programming error in the caller and is never recovered locally.
var ErrNotAPath = errors.New("not a filesystem path")

// Style selects the path rules of an operating system.
type Style int

const (
	// Posix paths are case-sensitive and rooted at "/".
	Posix Style = iota

	// Windows paths carry drive letters or UNC prefixes and compare case-insensitively.
	Windows
)

// StyleFor returns the Style of a GOOS identifier.
func StyleFor(goos string) Style {
	if goos == "windows" {
		return Windows
	}
	return Posix
}

func (s Style) String() string {
	if s == Windows {
		return "windows"
	}
	return "posix"
}

// Normalizer canonicalizes paths for one Style.
type Normalizer struct {
	Style Style

	// Cwd absolutizes relative inputs. Empty means relative inputs are rejected.
	Cwd string
}

// NewNormalizer returns a Normalizer for goos. The process working directory
// is only used when goos matches the host, since it is meaningless otherwise.
func NewNormalizer(goos string) Normalizer {
	n := Normalizer{Style: StyleFor(goos)}
	if goos == runtime.GOOS {
		if wd, err := os.Getwd(); err == nil {
			n.Cwd = wd
		}
	}
	return n
}

// Abs returns p as a clean absolute path in slash form ("C:/Users/a" on
// Windows, "/home/a" elsewhere).
func (n Normalizer) Abs(p string) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}
	p = n.toSlash(p)
	if n.isAbs(p) {
		return n.clean(p), nil
	}
	if n.Cwd == "" {
		return "", fmt.Errorf("path %q is relative and no working directory is set", p)
	}
	cwd := n.toSlash(n.Cwd)
	return n.clean(cwd + "/" + p), nil
}

// Join resolves rel against dir. Absolute rel values are returned cleaned.
func (n Normalizer) Join(dir, rel string) (string, error) {
	if err := validate(rel); err != nil {
		return "", err
	}
	rel = n.toSlash(rel)
	if n.isAbs(rel) {
		return n.clean(rel), nil
	}
	base, err := n.Abs(dir)
	if err != nil {
		return "", err
	}
	return n.clean(base + "/" + rel), nil
}

// Dir returns all but the last element of an absolute path in slash form.
func (n Normalizer) Dir(p string) string {
	p = n.toSlash(p)
	i := strings.LastIndex(p, "/")
	if i < 0 {
		return "."
	}
	return n.clean(p[:i+1])
}

// PathKey returns the comparison form of a path: absolute, slash form, and
// lower-cased on Windows.
func (n Normalizer) PathKey(p string) (string, error) {
	abs, err := n.Abs(p)
	if err != nil {
		return "", err
	}
	if n.Style == Windows {
		return strings.ToLower(abs), nil
	}
	return abs, nil
}

func validate(p string) error {
	if p == "" {
		return fmt.Errorf("%w: empty string", ErrNotAPath)
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("%w: %q contains NUL", ErrNotAPath, p)
	}
	return nil
}

func (n Normalizer) toSlash(p string) string {
	if n.Style == Windows {
		return strings.ReplaceAll(p, `\`, "/")
	}
	return p
}

func (n Normalizer) isAbs(p string) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}
	return n.Style == Windows && hasDrive(p) && len(p) >= 3 && p[2] == '/'
}

func (n Normalizer) clean(p string) string {
	if n.Style != Windows {
		return path.Clean(p)
	}
	if strings.HasPrefix(p, "//") {
		// UNC: keep the double slash in front of the server name.
		return "/" + path.Clean(p[1:])
	}
	cleaned := path.Clean(p)
	if len(cleaned) == 2 && hasDrive(cleaned) {
		cleaned += "/"
	}
	return cleaned
}

func hasDrive(p string) bool {
	return len(p) >= 2 && p[1] == ':' && isLetter(p[0])
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
