package classify

import "net/url"

// Normalize turns an explorer-supplied source path into a flat file name.
//
// The path is percent-escaped as a single URL path segment: separators become
// %2F / %5C and '%' itself becomes %25, so the mapping is injective and two
// distinct paths never share a name. "." and ".." are escaped as well so the
// result is always a plain file name.
func Normalize(path string) string {
	switch path {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(path)
}

// Denormalize reverses Normalize.
func Denormalize(name string) (string, error) {
	return url.PathUnescape(name)
}
