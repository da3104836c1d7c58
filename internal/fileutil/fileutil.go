// Package fileutil provides file and path utility functions.
package fileutil

import (
	"os"
	"strings"
)

// FileExists returns true if the path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "thesis" -> false (name)
//   - "./eqnos.yaml" -> true (relative path)
//   - "/etc/eqnos.yaml" -> true (absolute)
//   - "C:\config\eqnos.yaml" -> true (Windows)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}
