// Package vpath implements pure string operations on virtual paths.
//
// Virtual paths use forward slashes regardless of platform and may carry one
// of several root prefixes: a POSIX root ("/"), a UNC root ("//server/share/"),
// a drive root ("c:/"), or a URL root ("scheme://host/"). A path with no
// recognized root is relative. No function here touches a real filesystem.
package vpath

import (
	"errors"
	"strings"
)

// Separator is the canonical path separator.
const Separator = "/"

// ErrNotRooted is returned by Relative when either input is not absolute.
var ErrNotRooted = errors.New("path is not rooted")

// NormalizeSeparators canonicalizes all path separators to forward slashes.
func NormalizeSeparators(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// RootLength returns the length of the recognized root prefix of p, or 0 if
// p is relative. Recognized roots are "/", "//server/share/", "c:" or "c:/",
// and "scheme://host/".
func RootLength(p string) int {
	if p == "" {
		return 0
	}
	if p[0] == '/' {
		if len(p) == 1 || p[1] != '/' {
			return 1
		}
		// UNC: the root spans the server and share names.
		p1 := strings.IndexByte(p[2:], '/')
		if p1 < 0 {
			return len(p)
		}
		p2 := strings.IndexByte(p[2+p1+1:], '/')
		if p2 < 0 {
			return 2 + p1 + 1
		}
		return 2 + p1 + 1 + p2 + 1
	}
	if len(p) >= 2 && p[1] == ':' && isDriveLetter(p[0]) {
		if len(p) >= 3 && p[2] == '/' {
			return 3
		}
		return 2
	}
	if i := strings.Index(p, "://"); i > 0 && isScheme(p[:i]) {
		rest := i + 3
		j := strings.IndexByte(p[rest:], '/')
		if j < 0 {
			return len(p)
		}
		return rest + j + 1
	}
	return 0
}

// IsRooted reports whether p has a recognized root prefix.
func IsRooted(p string) bool {
	return RootLength(p) > 0
}

func isDriveLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isScheme(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDriveLetter(c) && !(c >= '0' && c <= '9') && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

// Parse splits p into its root string followed by its path components.
// The first element is always the root ("" for relative paths). Empty and
// "." components are elided, and ".." collapses against a preceding
// non-".." component, never above the root.
func Parse(p string) []string {
	p = NormalizeSeparators(p)
	rl := RootLength(p)
	comps := []string{p[:rl]}
	for _, c := range strings.Split(p[rl:], "/") {
		switch c {
		case "", ".":
		case "..":
			if len(comps) > 1 && comps[len(comps)-1] != ".." {
				comps = comps[:len(comps)-1]
			} else if rl == 0 {
				comps = append(comps, "..")
			}
		default:
			comps = append(comps, c)
		}
	}
	return comps
}

// Format is the inverse of Parse: the root string concatenated with the
// remaining components joined by the separator.
func Format(comps []string) string {
	if len(comps) == 0 {
		return ""
	}
	root := comps[0]
	rest := strings.Join(comps[1:], Separator)
	if root != "" && !strings.HasSuffix(root, Separator) && rest != "" {
		return root + Separator + rest
	}
	return root + rest
}

// Normalize canonicalizes separators and collapses "." and ".." components.
// Normalize is idempotent.
func Normalize(p string) string {
	return Format(Parse(p))
}

// Combine joins parts onto base textually. A rooted part restarts the
// result, mirroring how later absolute paths override earlier ones.
func Combine(base string, parts ...string) string {
	p := NormalizeSeparators(base)
	for _, part := range parts {
		part = NormalizeSeparators(part)
		if part == "" {
			continue
		}
		if IsRooted(part) || p == "" {
			p = part
			continue
		}
		if strings.HasSuffix(p, Separator) {
			p += part
		} else {
			p += Separator + part
		}
	}
	return p
}

// Resolve combines parts onto base and normalizes the result.
func Resolve(base string, parts ...string) string {
	return Normalize(Combine(base, parts...))
}

// Relative returns to made relative to from. Both paths must be rooted;
// relative inputs are a precondition violation and yield ErrNotRooted.
// When the two roots differ, to is returned unchanged.
func Relative(from, to string, ignoreCase bool) (string, error) {
	if !IsRooted(from) || !IsRooted(to) {
		return "", ErrNotRooted
	}
	eq := func(a, b string) bool { return a == b }
	if ignoreCase {
		eq = strings.EqualFold
	}
	fc := Parse(from)
	tc := Parse(to)
	if !eq(fc[0], tc[0]) {
		return Format(tc), nil
	}
	common := 1
	for common < len(fc) && common < len(tc) && eq(fc[common], tc[common]) {
		common++
	}
	comps := []string{""}
	for i := common; i < len(fc); i++ {
		comps = append(comps, "..")
	}
	comps = append(comps, tc[common:]...)
	return Format(comps), nil
}

// Base returns the last component of p, or "" if p is only a root.
func Base(p string) string {
	p = Normalize(p)
	rl := RootLength(p)
	if i := strings.LastIndexByte(p, '/'); i >= rl {
		return p[i+1:]
	}
	return p[rl:]
}

// Dir returns p without its last component. The root is its own parent.
func Dir(p string) string {
	p = Normalize(p)
	rl := RootLength(p)
	i := strings.LastIndexByte(p, '/')
	if i < rl {
		i = rl
	}
	return p[:i]
}
