package texture

import (
	"fmt"
	"strings"

	"q2images/internal/vfs"
)

// Find returns the image called name, loading it if needed. Failures are
// logged, except not-found, and yield NoTexture alongside the error.
func (m *Manager) Find(name string, typ Type) (Handle, error) {
	if m.numImages == 0 {
		return NoTexture, ErrNotInitialized
	}
	h, err := m.findOrLoad(name, typ, 0)
	if err != nil && !IsNotFound(err) {
		m.logger.Error("couldn't load image", "name", name, "error", err)
	}
	return h, err
}

// RegisterImage resolves a short picture name the way the HUD refers to
// images: "conchars" means pics/conchars.pcx. Skins and names starting with
// a slash are taken as full paths. An empty name is legal and quietly
// returns NoTexture with ErrNameTooShort.
func (m *Manager) RegisterImage(name string, typ Type, flags Flags) (Handle, error) {
	if name == "" {
		return NoTexture, ErrNameTooShort
	}
	if m.numImages == 0 {
		return NoTexture, ErrNotInitialized
	}

	var full string
	switch {
	case typ == Skin:
		full = vfs.Normalize(name)
	case name[0] == '/' || name[0] == '\\':
		full = vfs.Normalize(name[1:])
	default:
		if len("pics/")+len(name) >= MaxQPath {
			return NoTexture, fmt.Errorf("%q: %w", name, ErrNameTooLong)
		}
		full = defaultExtension(vfs.Normalize("pics/"+name), ".pcx")
	}
	if len(full) >= MaxQPath {
		return NoTexture, fmt.Errorf("%q: %w", name, ErrNameTooLong)
	}
	return m.findOrLoad(full, typ, flags)
}

// RegisterPic registers a HUD picture, logging any failure other than
// not-found.
func (m *Manager) RegisterPic(name string) Handle {
	h, err := m.RegisterImage(name, Pic, 0)
	if err != nil && !IsNotFound(err) && name != "" {
		m.logger.Error("couldn't load pic", "name", name, "error", err)
	}
	return h
}

// defaultExtension appends ext when the last path element has no dot.
func defaultExtension(name, ext string) string {
	base := name[strings.LastIndexByte(name, '/')+1:]
	if strings.IndexByte(base, '.') >= 0 {
		return name
	}
	return name + ext
}

// ForHandle returns the slot h. An out of range handle is fatal.
func (m *Manager) ForHandle(h Handle) *Image {
	if h < 0 || int(h) >= m.numImages {
		m.fatal(fmt.Errorf("texture: handle %d out of range", h))
		return &m.slots[0]
	}
	return &m.slots[h]
}

// GetPicSize returns the logical size of h and whether it has
// see-through pixels.
func (m *Manager) GetPicSize(h Handle) (width, height int, transparent bool) {
	img := m.ForHandle(h)
	return img.Width, img.Height, img.Flags&Transparent != 0
}
