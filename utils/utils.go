// Package utils collects small formatting helpers shared by cmd that don't
// belong to any single internal package.
package utils

import (
	"path/filepath"
	"strings"
)

// BuildDirPath constructs an OS-agnostic display directory path with a
// trailing separator, preserving all components. Unlike filepath.Join, it
// does not normalize "." or collapse redundant separators: `init`'s
// "Initialized empty Git repository in <path>/" message needs the path
// exactly as given plus one trailing separator.
func BuildDirPath(dirs ...string) string {
	return strings.Join(dirs, string(filepath.Separator)) + string(filepath.Separator)
}
