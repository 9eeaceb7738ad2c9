// Package vfs is the filesystem layer the image manager reads assets from
// and writes screenshots to. Paths are relative, forward-slash separated
// and matched case-insensitively.
package vfs

import (
	"io"
	"path"
	"strings"
)

// FS supplies raw asset bytes. Every buffer returned by LoadFile must be
// handed back to FreeFile exactly once.
type FS interface {
	LoadFile(name string) ([]byte, error)
	FreeFile(data []byte)
	// Open streams a file without loading it whole.
	Open(name string) (io.ReadCloser, error)
}

// Creator opens files for writing. With exclusive set, an existing file
// yields an error matching fs.ErrExist.
type Creator interface {
	Create(name string, exclusive bool) (io.WriteCloser, error)
}

// Normalize converts backslashes to slashes, collapses duplicate
// separators and dot segments, and strips any leading slash. The result
// never climbs above the root.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if name == "" {
		return ""
	}
	name = strings.TrimLeft(path.Clean("/"+name), "/")
	return name
}

// key is the lookup form of a name.
func key(name string) string {
	return strings.ToLower(Normalize(name))
}
