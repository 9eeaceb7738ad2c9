package texture

import (
	"fmt"
	"io"

	"q2images/internal/decode"
)

// loaded is the outcome of a successful probe.
type loaded struct {
	name   string
	format decode.Format
	buf    *decode.Buffer
}

// tryFormat loads name and decodes it as f. The raw file bytes are
// released here unless the decoded buffer borrows them.
func (m *Manager) tryFormat(f decode.Format, name string) (*loaded, error) {
	raw, err := m.fs.LoadFile(name)
	if err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	buf, err := decode.Lookup(f).Decode(raw)
	if err != nil {
		m.fs.FreeFile(raw)
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if !buf.Borrowed() {
		m.fs.FreeFile(raw)
	}
	return &loaded{name: name, format: f, buf: buf}, nil
}

// withExt replaces the three-letter extension of name.
func withExt(name string, baselen int, f decode.Format) string {
	return name[:baselen+1] + f.Ext()
}

// tryOther walks the high-color search order, then falls back to the
// paletted format for typ. orig is skipped; it was tried already.
func (m *Manager) tryOther(orig decode.Format, typ Type, name string, baselen int) (*loaded, error) {
	for _, f := range m.search {
		if f == orig {
			continue
		}
		l, err := m.tryFormat(f, withExt(name, baselen, f))
		if err == nil || !IsNotFound(err) {
			return l, err
		}
	}

	f := decode.PCX
	if typ == Wall {
		f = decode.WAL
	}
	if f == orig {
		return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return m.tryFormat(f, withExt(name, baselen, f))
}

// resolve picks the decode order for name.
func (m *Manager) resolve(name string, typ Type, baselen int) (decode.Format, *loaded, error) {
	orig := decode.ForExt(name[baselen+1:])
	switch {
	case orig == decode.None:
		if len(m.search) == 0 {
			return orig, nil, fmt.Errorf("%s: %w", name, ErrInvalidPath)
		}
		l, err := m.tryOther(decode.None, typ, name, baselen)
		return orig, l, err
	case m.override:
		l, err := m.tryOther(decode.None, typ, name, baselen)
		return orig, l, err
	}

	l, err := m.tryFormat(orig, name)
	if err != nil && IsNotFound(err) {
		l, err = m.tryOther(orig, typ, name, baselen)
	}
	return orig, l, err
}

// recoverDimensions reads just the header of the paletted original a
// high-color replacement stands in for. Any failure leaves img alone.
func (m *Manager) recoverDimensions(img *Image, orig decode.Format) {
	f := decode.PCX
	size := decode.PCXHeaderSize
	dims := decode.PCXDimensions
	if orig == decode.WAL {
		f, size, dims = decode.WAL, decode.WALHeaderSize, decode.WALDimensions
	}

	r, err := m.fs.Open(withExt(img.Name, img.baselen, f))
	if err != nil {
		return
	}
	defer r.Close()

	hdr := make([]byte, size)
	if _, err := io.ReadFull(r, hdr); err != nil {
		return
	}
	w, h, ok := dims(hdr)
	if !ok || w < 1 || h < 1 || w > 512 || h > 512 || w*h > decode.MaxPalettedPixels {
		return
	}
	img.Width, img.Height = w, h
}

// findOrLoad returns the slot for name and typ, loading it on a miss.
func (m *Manager) findOrLoad(name string, typ Type, flags Flags) (Handle, error) {
	n := len(name)
	if n <= 4 {
		return NoTexture, fmt.Errorf("%q: %w", name, ErrNameTooShort)
	}
	if n >= MaxQPath {
		return NoTexture, fmt.Errorf("%q: %w", name, ErrNameTooLong)
	}
	if name[n-4] != '.' {
		return NoTexture, fmt.Errorf("%s: %w", name, ErrInvalidPath)
	}

	baselen := n - 4
	bucket := hashPath(name, baselen)
	if h := m.lookup(name, typ, bucket, baselen); h != NoTexture {
		img := &m.slots[h]
		img.Flags |= flags & Permanent
		img.Registration = m.epoch
		return h, nil
	}

	orig, l, err := m.resolve(name, typ, baselen)
	if err != nil {
		return NoTexture, err
	}

	h, ok := m.alloc()
	if !ok {
		if l.buf.Borrowed() {
			m.fs.FreeFile(l.buf.Source())
		}
		return NoTexture, fmt.Errorf("%s: %w", name, ErrOutOfSlots)
	}

	img := &m.slots[h]
	*img = Image{
		Name:         l.name,
		Type:         typ,
		Flags:        flags,
		Width:        l.buf.Width,
		Height:       l.buf.Height,
		Registration: m.epoch,
		baselen:      baselen,
		bucket:       bucket,
	}
	m.link(h)

	if !l.format.HighColor() {
		img.Flags |= Paletted
	}
	if l.buf.Transparent() {
		img.Flags |= Transparent
	}
	if orig != decode.None && !orig.HighColor() && l.format.HighColor() {
		m.recoverDimensions(img, orig)
	}

	m.upload(img, l.buf)
	return h, nil
}

// upload passes buf to the renderer and settles who releases the file
// bytes it may borrow.
func (m *Manager) upload(img *Image, buf *decode.Buffer) {
	var pal *decode.Palette
	if buf.Indexed {
		pal = m.GetPalette()
	}
	res := m.uploader.Upload(img, buf, pal)
	img.UploadWidth, img.UploadHeight = res.Width, res.Height
	if res.Scrap {
		img.Flags |= Scrap
	}
	if res.Retain {
		img.retained = buf
		return
	}
	if buf.Borrowed() {
		m.fs.FreeFile(buf.Source())
	}
}
