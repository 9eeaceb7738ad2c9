package vfs

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Dir serves files from a directory on disk. Names that do not exist with
// the exact spelling are looked up in a lowercase index of the tree, so
// "PICS/Colormap.PCX" finds pics/colormap.pcx.
type Dir struct {
	Ledger

	root string

	mu      sync.RWMutex
	entries map[string]string // lowercase relative path → full path
}

// NewDir indexes root. A missing root is not an error; every lookup then
// reports fs.ErrNotExist.
func NewDir(root string) *Dir {
	d := &Dir{root: root}
	d.Rescan()
	return d
}

// Root returns the directory the files are served from.
func (d *Dir) Root() string { return d.root }

// Rescan rebuilds the case-insensitive index.
func (d *Dir) Rescan() {
	entries := make(map[string]string)
	filepath.WalkDir(d.root, func(path string, e fs.DirEntry, err error) error {
		if err != nil || e.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return nil
		}
		k := key(filepath.ToSlash(rel))
		// first spelling wins
		if _, exists := entries[k]; !exists {
			entries[k] = path
		}
		return nil
	})

	d.mu.Lock()
	d.entries = entries
	d.mu.Unlock()
}

// Len returns the number of indexed files.
func (d *Dir) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entries)
}

func (d *Dir) resolve(name string) (string, error) {
	rel := Normalize(name)
	if rel == "" {
		return "", fmt.Errorf("vfs: %q: %w", name, fs.ErrInvalid)
	}
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if info, err := os.Stat(full); err == nil && !info.IsDir() {
		return full, nil
	}

	d.mu.RLock()
	path, ok := d.entries[strings.ToLower(rel)]
	d.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("vfs: %s: %w", rel, fs.ErrNotExist)
	}
	return path, nil
}

// LoadFile reads a whole file.
func (d *Dir) LoadFile(name string) ([]byte, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}
	return d.track(Normalize(name), data), nil
}

// FreeFile releases a buffer returned by LoadFile.
func (d *Dir) FreeFile(data []byte) { d.release(data) }

// Open streams a file.
func (d *Dir) Open(name string) (io.ReadCloser, error) {
	path, err := d.resolve(name)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}
	return f, nil
}

// Create opens name for writing below the root, creating parent
// directories as needed.
func (d *Dir) Create(name string, exclusive bool) (io.WriteCloser, error) {
	rel := Normalize(name)
	if rel == "" {
		return nil, fmt.Errorf("vfs: %q: %w", name, fs.ErrInvalid)
	}
	full := filepath.Join(d.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}

	flag := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if exclusive {
		flag = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	f, err := os.OpenFile(full, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("vfs: %w", err)
	}

	d.mu.Lock()
	if d.entries != nil {
		d.entries[strings.ToLower(rel)] = full
	}
	d.mu.Unlock()
	return f, nil
}
