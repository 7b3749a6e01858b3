package uri

import (
	"fmt"
	"net/url"
	"strings"
)

const fileScheme = "file://"

// FileURI returns the canonical "file://" URI of p.
func (n Normalizer) FileURI(p string) (string, error) {
	abs, err := n.Abs(p)
	if err != nil {
		return "", err
	}

	authority := ""
	if n.Style == Windows && strings.HasPrefix(abs, "//") {
		rest := abs[2:]
		i := strings.IndexByte(rest, '/')
		if i < 0 {
			authority, abs = rest, "/"
		} else {
			authority, abs = rest[:i], rest[i:]
		}
	}
	if !strings.HasPrefix(abs, "/") {
		abs = "/" + abs
	}
	if len(abs) >= 3 && abs[2] == ':' && 'A' <= abs[1] && abs[1] <= 'Z' {
		abs = "/" + string(abs[1]+('a'-'A')) + abs[2:]
	}

	return fileScheme + escape(strings.ToLower(authority), false) + escape(abs, true), nil
}

// PathFromURI decodes a "file://" URI back to an absolute path in slash form.
func (n Normalizer) PathFromURI(u string) (string, error) {
	if !strings.HasPrefix(u, fileScheme) {
		return "", fmt.Errorf("not a file URI: %q", u)
	}
	rest := u[len(fileScheme):]

	authority, rawPath := rest, ""
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		authority, rawPath = rest[:i], rest[i:]
	}

	p, err := url.PathUnescape(rawPath)
	if err != nil {
		return "", fmt.Errorf("invalid file URI %q: %w", u, err)
	}
	if authority != "" && authority != "localhost" {
		p = "//" + authority + p
	} else if n.Style == Windows && len(p) >= 3 && p[0] == '/' && hasDrive(p[1:]) {
		p = p[1:]
	}
	if p == "" {
		p = "/"
	}
	return n.Abs(p)
}

// IsFileURI reports whether s uses the file scheme.
func IsFileURI(s string) bool {
	return strings.HasPrefix(s, fileScheme)
}

// URIKey returns the comparison form of a file URI. On Windows the drive
// separator may be written as ":" or "%3A" and case is not significant,
// including for escaped non-ASCII letters.
func (n Normalizer) URIKey(u string) string {
	if n.Style != Windows {
		return u
	}
	if decoded, err := url.PathUnescape(u); err == nil {
		return strings.ToLower(decoded)
	}
	u = strings.ReplaceAll(u, "%3A", ":")
	u = strings.ReplaceAll(u, "%3a", ":")
	return strings.ToLower(u)
}

// Key returns the comparison form of the canonical URI of p.
func (n Normalizer) Key(p string) (string, error) {
	u, err := n.FileURI(p)
	if err != nil {
		return "", err
	}
	return n.URIKey(u), nil
}

const upperhex = "0123456789ABCDEF"

func escape(s string, isPath bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || (isPath && c == '/') {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '.', c == '_', c == '~':
		return true
	}
	return false
}
