package vfs

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"sync"
)

// Mem is an in-memory file set. LoadFile hands out a fresh copy on every
// call so buffer ownership can be tracked.
type Mem struct {
	Ledger

	mu    sync.RWMutex
	files map[string][]byte
}

// NewMem returns an empty file set.
func NewMem() *Mem {
	return &Mem{files: make(map[string][]byte)}
}

// Add stores data under name, replacing any previous content.
func (m *Mem) Add(name string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[key(name)] = bytes.Clone(data)
}

// Remove deletes name.
func (m *Mem) Remove(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key(name))
}

// File returns the stored content of name.
func (m *Mem) File(name string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[key(name)]
	return data, ok
}

func (m *Mem) lookup(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[key(name)]
	if !ok {
		return nil, fmt.Errorf("vfs: %s: %w", Normalize(name), fs.ErrNotExist)
	}
	return data, nil
}

// LoadFile returns a private copy of name.
func (m *Mem) LoadFile(name string) ([]byte, error) {
	data, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return m.track(Normalize(name), bytes.Clone(data)), nil
}

// FreeFile releases a buffer returned by LoadFile.
func (m *Mem) FreeFile(data []byte) { m.release(data) }

// Open streams name.
func (m *Mem) Open(name string) (io.ReadCloser, error) {
	data, err := m.lookup(name)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Create returns a writer whose content is stored on Close.
func (m *Mem) Create(name string, exclusive bool) (io.WriteCloser, error) {
	k := key(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[k]; ok && exclusive {
		return nil, fmt.Errorf("vfs: %s: %w", k, fs.ErrExist)
	}
	// reserve the name so a second exclusive create fails
	m.files[k] = nil
	return &memFile{m: m, key: k}, nil
}

type memFile struct {
	m   *Mem
	key string
	buf bytes.Buffer
}

func (f *memFile) Write(p []byte) (int, error) { return f.buf.Write(p) }

func (f *memFile) Close() error {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	f.m.files[f.key] = f.buf.Bytes()
	return nil
}
