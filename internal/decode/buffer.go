package decode

// Limits shared by all decoders.
const (
	MaxTextureSize    = 2048
	MaxPalettedPixels = 512 * 512
)

// Buffer is a decoded raster. Indexed buffers hold one palette index per
// pixel (PCX, WAL); all others hold RGBA, four bytes per pixel.
//
// A buffer is either owned (Pix was allocated by the decoder) or borrowed
// (Pix is a window into the raw file bytes, see DecodeWAL). A borrowed
// buffer keeps the raw bytes reachable through Source until the holder
// releases them back to the filesystem layer.
type Buffer struct {
	Pix     []byte
	Width   int
	Height  int
	Indexed bool

	source []byte
}

// Borrowed reports whether Pix aliases the raw file bytes.
func (b *Buffer) Borrowed() bool { return b.source != nil }

// Source returns the raw file bytes a borrowed buffer aliases, or nil.
func (b *Buffer) Source() []byte { return b.source }

// Stride is the number of bytes per row.
func (b *Buffer) Stride() int {
	if b.Indexed {
		return b.Width
	}
	return b.Width * 4
}

// Transparent reports whether any pixel is see-through: index 255 for
// indexed buffers, alpha below 255 otherwise.
func (b *Buffer) Transparent() bool {
	n := b.Width * b.Height
	if b.Indexed {
		for _, c := range b.Pix[:n] {
			if c == 255 {
				return true
			}
		}
		return false
	}
	for i := 3; i < n*4; i += 4 {
		if b.Pix[i] != 255 {
			return true
		}
	}
	return false
}

// Palette maps 8-bit indices to RGBA.
type Palette [256][4]byte

// NewPalette builds a palette from 768 bytes of RGB triplets. Index 255 is
// fully transparent.
func NewPalette(rgb []byte) *Palette {
	var p Palette
	for i := 0; i < 256 && i*3+2 < len(rgb); i++ {
		p[i] = [4]byte{rgb[i*3], rgb[i*3+1], rgb[i*3+2], 255}
	}
	p[255][3] = 0
	return &p
}

// Expand converts an indexed buffer to a freshly allocated RGBA buffer.
// RGBA buffers are returned unchanged.
func (p *Palette) Expand(b *Buffer) *Buffer {
	if !b.Indexed {
		return b
	}
	n := b.Width * b.Height
	out := make([]byte, n*4)
	for i, c := range b.Pix[:n] {
		copy(out[i*4:i*4+4], p[c][:])
	}
	return &Buffer{Pix: out, Width: b.Width, Height: b.Height}
}
