package vfs

import "strings"

// DefaultHome is the directory "~" and a bare "cd" resolve to.
const DefaultHome = "/home/user"

// Separator is the path separator of the mock filesystem.
const Separator = "/"

// Resolve turns target into an absolute path relative to cwd, with "~"
// meaning DefaultHome.
func Resolve(cwd, target string) string {
	return ResolveHome(cwd, target, DefaultHome)
}

// ResolveHome is Resolve with an explicit home directory. Absolute targets
// are returned as given. Relative targets are joined to cwd and reduced:
// empty and "." segments are dropped, ".." pops the previous segment and is a
// no-op at the root. The result is never checked against a tree.
func ResolveHome(cwd, target, home string) string {
	if strings.HasPrefix(target, Separator) {
		return target
	}
	if target == "~" {
		return home
	}

	joined := cwd
	if !strings.HasSuffix(joined, Separator) {
		joined += Separator
	}
	joined += target

	stack := make([]string, 0, 8)
	for _, seg := range strings.Split(joined, Separator) {
		switch seg {
		case "", ".":
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}
	return Separator + strings.Join(stack, Separator)
}

// Segments splits a path into its non-empty segments.
func Segments(path string) []string {
	parts := strings.Split(path, Separator)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
